package api

import (
	"github.com/tracklane/tracklane/internal/timeline"
	"github.com/tracklane/tracklane/internal/waveform"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type ItemPayload struct {
	ID      string  `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Label   string  `json:"label,omitempty"`
	Payload string  `json:"payload,omitempty"`
}

type TrackPayload struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Kind    string        `json:"kind"`
	Locked  bool          `json:"locked"`
	Visible bool          `json:"visible"`
	Items   []ItemPayload `json:"items"`
}

type TracksResponse struct {
	Tracks []TrackPayload `json:"tracks"`
}

type ReplaceTracksRequest struct {
	Tracks        []TrackPayload `json:"tracks"`
	TotalDuration float64        `json:"total_duration,omitempty"`
}

type ReplaceTracksResponse struct {
	TracksCount int `json:"tracks_count"`
	ItemsCount  int `json:"items_count"`
}

type LayoutResponse struct {
	TrackID    string         `json:"track_id"`
	Layers     map[string]int `json:"layers"`
	LayerCount int            `json:"layer_count"`
}

type SegmentResponse struct {
	Start         float64             `json:"start"`
	End           float64             `json:"end"`
	Contributions map[string][]string `json:"contributions"`
}

type SegmentsResponse struct {
	TotalDuration float64           `json:"total_duration"`
	Segments      []SegmentResponse `json:"segments"`
}

type MoveItemRequest struct {
	Start float64 `json:"start"`
}

type MoveItemResponse struct {
	ItemID string  `json:"item_id"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

type AnalysisRequest struct {
	Samples          []float64 `json:"samples"`
	TotalDuration    float64   `json:"total_duration"`
	Start            float64   `json:"start"`
	End              float64   `json:"end"`
	SilenceThreshold float64   `json:"silence_threshold,omitempty"`
}

type AnalysisResponse struct {
	Stats *WindowStatsPayload `json:"stats"`
}

type WindowStatsPayload struct {
	MeanAbsAmplitude float64 `json:"mean_abs_amplitude"`
	RMSEnergy        float64 `json:"rms_energy"`
	SilenceRatio     float64 `json:"silence_ratio"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func TrackToPayload(t timeline.Track) TrackPayload {
	p := TrackPayload{
		ID:      t.ID,
		Name:    t.Name,
		Kind:    t.Kind,
		Locked:  t.Locked,
		Visible: t.Visible,
		Items:   make([]ItemPayload, len(t.Items)),
	}
	for i, item := range t.Items {
		p.Items[i] = ItemPayload{
			ID:      item.ID,
			Start:   item.Start,
			End:     item.End,
			Label:   item.Label,
			Payload: item.Payload,
		}
	}
	return p
}

func TrackFromPayload(p TrackPayload) timeline.Track {
	t := timeline.Track{
		ID:      p.ID,
		Name:    p.Name,
		Kind:    p.Kind,
		Locked:  p.Locked,
		Visible: p.Visible,
		Items:   make([]timeline.TimedItem, len(p.Items)),
	}
	for i, item := range p.Items {
		t.Items[i] = timeline.TimedItem{
			ID:      item.ID,
			TrackID: p.ID,
			Start:   item.Start,
			End:     item.End,
			Label:   item.Label,
			Payload: item.Payload,
		}
	}
	return t
}

func SegmentToResponse(s timeline.Segment) SegmentResponse {
	return SegmentResponse{
		Start:         s.Start,
		End:           s.End,
		Contributions: s.Contributions,
	}
}

func StatsToPayload(s *waveform.WindowStats) *WindowStatsPayload {
	if s == nil {
		return nil
	}
	return &WindowStatsPayload{
		MeanAbsAmplitude: s.MeanAbsAmplitude,
		RMSEnergy:        s.RMSEnergy,
		SilenceRatio:     s.SilenceRatio,
	}
}
