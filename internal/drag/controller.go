// Package drag translates pointer motion into retiming proposals for
// timeline items. The controller is an explicit Idle/Dragging state
// machine with injected collaborators, so it is unit-testable without
// any UI toolkit behind it.
package drag

import (
	"errors"
	"log/slog"
	"math"

	"github.com/tracklane/tracklane/internal/timeline"
)

var (
	ErrTrackLocked   = errors.New("track is locked")
	ErrSessionActive = errors.New("drag session already active")
	ErrItemNotFound  = errors.New("item not found")
)

// TrackProvider supplies the read-only track snapshot used for layout,
// snapping and collision checks during a drag pass.
type TrackProvider interface {
	Tracks() []timeline.Track
}

// MutationSink receives the committed retiming. The caller owns
// persisting the change and re-supplying an updated snapshot for the
// next layout pass.
type MutationSink interface {
	CommitDrag(itemID string, newStart, newEnd float64) error
}

// FeedbackSink receives transient visual feedback while a drag is live
// (guidelines, time readouts, collision coloring). Clear must be
// idempotent: the controller invokes it on commit, on cancel and
// unconditionally on Close, because the artifacts live outside the
// dragged item's own element and would otherwise leak.
type FeedbackSink interface {
	ShowProposal(p Proposal)
	Clear()
}

const (
	DefaultSnapThreshold        = 0.5
	DefaultIntegerSnapThreshold = 0.3
	DefaultMaxLayers            = 3
	DefaultLayerHeight          = 30.0
)

// Config holds the geometry and snapping tolerances of one timeline
// view. The zero value of each tolerance falls back to its default.
type Config struct {
	SnapThreshold        float64
	IntegerSnapThreshold float64
	MaxLayers            int
	LayerHeight          float64
	PixelWidth           float64
	TotalDuration        float64
}

func (c Config) withDefaults() Config {
	if c.SnapThreshold <= 0 {
		c.SnapThreshold = DefaultSnapThreshold
	}
	if c.IntegerSnapThreshold <= 0 {
		c.IntegerSnapThreshold = DefaultIntegerSnapThreshold
	}
	if c.MaxLayers <= 0 {
		c.MaxLayers = DefaultMaxLayers
	}
	if c.LayerHeight <= 0 {
		c.LayerHeight = DefaultLayerHeight
	}
	return c
}

// Session is the ephemeral record of one in-flight drag. Exactly one
// may be active per controller.
type Session struct {
	ItemID        string
	TrackID       string
	OriginStart   float64
	OriginEnd     float64
	OriginLayer   int
	PointerX      float64
	PointerY      float64
	ProposedStart float64
	ProposedLayer int

	laneCount int
}

// Proposal is the candidate placement computed for one pointer move.
// HasCollision is advisory only; collisions never block the drag.
type Proposal struct {
	ItemID       string  `json:"item_id"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Layer        int     `json:"layer"`
	Snapped      bool    `json:"snapped"`
	HasCollision bool    `json:"has_collision"`
}

type Controller struct {
	cfg      Config
	tracks   TrackProvider
	sink     MutationSink
	feedback FeedbackSink
	logger   *slog.Logger
	session  *Session
}

// NewController wires the collaborators together. feedback and logger
// may be nil.
func NewController(cfg Config, tracks TrackProvider, sink MutationSink, feedback FeedbackSink, logger *slog.Logger) *Controller {
	return &Controller{
		cfg:      cfg.withDefaults(),
		tracks:   tracks,
		sink:     sink,
		feedback: feedback,
		logger:   logger,
	}
}

// Dragging reports whether a session is active.
func (c *Controller) Dragging() bool {
	return c.session != nil
}

// Session returns a copy of the active session, or nil.
func (c *Controller) Session() *Session {
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Start opens a drag session for the item under the pointer. It rejects
// the pointer-down, leaving the controller Idle, when the item's track
// is locked or another session is already active.
func (c *Controller) Start(itemID string, px, py float64) error {
	if c.session != nil {
		return ErrSessionActive
	}

	track, item := c.findItem(itemID)
	if item == nil {
		return ErrItemNotFound
	}
	if track.Locked {
		return ErrTrackLocked
	}

	assign, err := timeline.AssignLayers(track.Items)
	if err != nil {
		return err
	}
	laneCount := timeline.LayerCount(assign)
	if laneCount > c.cfg.MaxLayers {
		laneCount = c.cfg.MaxLayers
	}
	assign = timeline.ClampLayers(assign, c.cfg.MaxLayers)

	c.session = &Session{
		ItemID:        itemID,
		TrackID:       track.ID,
		OriginStart:   item.Start,
		OriginEnd:     item.End,
		OriginLayer:   assign[itemID],
		PointerX:      px,
		PointerY:      py,
		ProposedStart: item.Start,
		ProposedLayer: assign[itemID],
		laneCount:     laneCount,
	}

	if c.logger != nil {
		c.logger.Debug("drag started", "item_id", itemID, "track_id", track.ID, "origin_start", item.Start)
	}
	return nil
}

// Move recomputes the candidate placement for the current pointer
// position. It never fails mid-drag; without an active session it
// reports ok=false.
func (c *Controller) Move(px, py float64) (Proposal, bool) {
	s := c.session
	if s == nil {
		return Proposal{}, false
	}

	duration := s.OriginEnd - s.OriginStart

	candidate := s.OriginStart
	if c.cfg.PixelWidth > 0 && c.cfg.TotalDuration > 0 {
		candidate += (px - s.PointerX) / c.cfg.PixelWidth * c.cfg.TotalDuration
	}
	candidate = c.clampStart(candidate, duration)
	candidate, snapped := c.snap(candidate, s.ItemID)
	candidate = c.clampStart(candidate, duration)

	layer := s.OriginLayer + int(math.Round((py-s.PointerY)/c.cfg.LayerHeight))
	if layer < 0 {
		layer = 0
	}
	if s.laneCount > 0 && layer > s.laneCount-1 {
		layer = s.laneCount - 1
	}

	s.ProposedStart = candidate
	s.ProposedLayer = layer

	p := Proposal{
		ItemID:       s.ItemID,
		Start:        candidate,
		End:          candidate + duration,
		Layer:        layer,
		Snapped:      snapped,
		HasCollision: c.collides(s, candidate, candidate+duration),
	}
	if c.feedback != nil {
		c.feedback.ShowProposal(p)
	}
	return p, true
}

// CommitResult reports the outcome of a commit. A sink failure is
// carried in Err rather than thrown; a mid-interaction panic would
// corrupt the state machine.
type CommitResult struct {
	ItemID    string
	NewStart  float64
	NewEnd    float64
	Committed bool
	Err       error
}

// Commit emits the proposed retiming to the mutation sink, preserving
// the item's original duration. The session is discarded regardless of
// the sink's outcome; on failure the caller re-renders from its last
// known-good state, no rollback state is kept here.
func (c *Controller) Commit() CommitResult {
	s := c.session
	if s == nil {
		return CommitResult{}
	}

	duration := s.OriginEnd - s.OriginStart
	newStart := s.ProposedStart
	newEnd := newStart + duration

	c.session = nil
	if c.feedback != nil {
		c.feedback.Clear()
	}

	err := c.sink.CommitDrag(s.ItemID, newStart, newEnd)
	if c.logger != nil {
		if err != nil {
			c.logger.Warn("drag commit failed", "item_id", s.ItemID, "error", err)
		} else {
			c.logger.Debug("drag committed", "item_id", s.ItemID, "new_start", newStart, "new_end", newEnd)
		}
	}

	return CommitResult{
		ItemID:    s.ItemID,
		NewStart:  newStart,
		NewEnd:    newEnd,
		Committed: err == nil,
		Err:       err,
	}
}

// Cancel discards the session without emitting a mutation. The caller
// restores the item's visual position to its origin.
func (c *Controller) Cancel() {
	if c.session == nil {
		return
	}
	if c.logger != nil {
		c.logger.Debug("drag cancelled", "item_id", c.session.ItemID)
	}
	c.session = nil
	if c.feedback != nil {
		c.feedback.Clear()
	}
}

// Close tears the controller down. Feedback cleanup runs
// unconditionally, whether or not a session is active.
func (c *Controller) Close() {
	c.session = nil
	if c.feedback != nil {
		c.feedback.Clear()
	}
}

func (c *Controller) clampStart(start, duration float64) float64 {
	if start < 0 {
		return 0
	}
	if c.cfg.TotalDuration > 0 {
		if max := c.cfg.TotalDuration - duration; max >= 0 && start > max {
			return max
		}
	}
	return start
}

// snap pulls the candidate onto the nearest neighbor boundary within
// SnapThreshold, preferring the closest one; failing that, onto the
// nearest integer within IntegerSnapThreshold.
func (c *Controller) snap(candidate float64, selfID string) (float64, bool) {
	best := candidate
	bestDist := c.cfg.SnapThreshold
	found := false

	for _, track := range c.tracks.Tracks() {
		for _, it := range track.Items {
			if it.ID == selfID {
				continue
			}
			for _, boundary := range [2]float64{it.Start, it.End} {
				if d := math.Abs(boundary - candidate); d <= bestDist {
					bestDist = d
					best = boundary
					found = true
				}
			}
		}
	}
	if found {
		return best, true
	}

	if r := math.Round(candidate); math.Abs(r-candidate) <= c.cfg.IntegerSnapThreshold {
		return r, r != candidate
	}
	return candidate, false
}

// collides checks the candidate window against the other items of the
// dragged item's own track (collision scope is per-track).
func (c *Controller) collides(s *Session, start, end float64) bool {
	for _, track := range c.tracks.Tracks() {
		if track.ID != s.TrackID {
			continue
		}
		for _, it := range track.Items {
			if it.ID == s.ItemID {
				continue
			}
			if it.Overlaps(start, end) {
				return true
			}
		}
	}
	return false
}

func (c *Controller) findItem(itemID string) (*timeline.Track, *timeline.TimedItem) {
	tracks := c.tracks.Tracks()
	for i := range tracks {
		if it := tracks[i].Item(itemID); it != nil {
			return &tracks[i], it
		}
	}
	return nil, nil
}
