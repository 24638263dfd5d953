package timeline

import (
	"crypto/rand"
	"fmt"
	"math"
)

// TimedItem is a single time-ranged entry on a track. The engine never
// creates or destroys items; it only proposes new (Start, End) pairs.
type TimedItem struct {
	ID      string  `json:"id"`
	TrackID string  `json:"track_id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Label   string  `json:"label,omitempty"`
	Payload string  `json:"payload,omitempty"`
}

// Duration returns End - Start.
func (it TimedItem) Duration() float64 {
	return it.End - it.Start
}

// Contains reports whether t falls within the item, inclusive on both
// bounds. An item is active exactly at its boundary instants.
func (it TimedItem) Contains(t float64) bool {
	return it.Start <= t && t <= it.End
}

// Overlaps reports whether the item intersects the half-open window
// [start, end).
func (it TimedItem) Overlaps(start, end float64) bool {
	return it.Start < end && it.End > start
}

const (
	TrackKindSubtitle = "subtitle"
	TrackKindAudio    = "audio"
	TrackKindImage    = "image"
	TrackKindMusic    = "music"
)

// Track is an ordered, named bucket of TimedItems of one kind. Locked
// tracks reject drag edits; hidden tracks are skipped by renderers but
// still take part in their own collision checks.
type Track struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Kind    string      `json:"kind"`
	Locked  bool        `json:"locked"`
	Visible bool        `json:"visible"`
	Items   []TimedItem `json:"items"`
}

// Item returns the item with the given ID, or nil.
func (t *Track) Item(id string) *TimedItem {
	for i := range t.Items {
		if t.Items[i].ID == id {
			return &t.Items[i]
		}
	}
	return nil
}

// Segment is a merged, non-overlapping time range produced by the range
// merger. Contributions maps track ID to the IDs of items intersecting
// the segment, in track order.
type Segment struct {
	Start         float64             `json:"start"`
	End           float64             `json:"end"`
	Contributions map[string][]string `json:"contributions,omitempty"`
}

// Unset marks a missing start or end bound on best-effort input fed to
// the range merger. Strict consumers (the layer assigner) never see it.
func Unset() float64 {
	return math.NaN()
}

// IsUnset reports whether a bound carries no value.
func IsUnset(v float64) bool {
	return math.IsNaN(v)
}

func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
