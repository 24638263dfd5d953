package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tracklane/tracklane/internal/export"
	"github.com/tracklane/tracklane/internal/store"
	"github.com/tracklane/tracklane/internal/timeline"
	"github.com/tracklane/tracklane/internal/waveform"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Get("/tracks", listTracksHandler(cfg))
	r.Put("/tracks", replaceTracksHandler(cfg))
	r.Get("/tracks/{id}/layout", trackLayoutHandler(cfg))
	r.Get("/segments", segmentsHandler(cfg))
	r.Get("/segments/grid", segmentsGridHandler(cfg))
	r.Post("/items/{id}/move", moveItemHandler(cfg))
	r.Post("/analysis", analysisHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func listTracksHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracks, err := cfg.Repository.ListTracks(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list tracks", "INTERNAL_ERROR")
			return
		}

		resp := TracksResponse{Tracks: make([]TrackPayload, len(tracks))}
		for i, t := range tracks {
			resp.Tracks[i] = TrackToPayload(t)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func replaceTracksHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReplaceTracksRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		tracks := make([]timeline.Track, 0, len(req.Tracks))
		itemsCount := 0
		for _, tp := range req.Tracks {
			if tp.ID == "" {
				WriteError(w, http.StatusBadRequest, "track id is required", "BAD_REQUEST")
				return
			}
			for _, ip := range tp.Items {
				if ip.ID == "" {
					WriteError(w, http.StatusBadRequest, "item id is required", "BAD_REQUEST")
					return
				}
				itemsCount++
			}
			tracks = append(tracks, TrackFromPayload(tp))
		}

		if err := cfg.Repository.ReplaceTracks(r.Context(), tracks); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		if req.TotalDuration > 0 {
			value := strconv.FormatFloat(req.TotalDuration, 'f', -1, 64)
			if err := cfg.Repository.SetConfig(r.Context(), "total_duration", value); err != nil {
				WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
				return
			}
		}

		WriteJSON(w, http.StatusOK, ReplaceTracksResponse{
			TracksCount: len(tracks),
			ItemsCount:  itemsCount,
		})
	}
}

func trackLayoutHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		track, err := cfg.Repository.GetTrack(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if track == nil {
			WriteError(w, http.StatusNotFound, "track not found", "NOT_FOUND")
			return
		}

		layers, err := timeline.AssignLayers(track.Items)
		if err != nil {
			var rangeErr *timeline.InvalidRangeError
			if errors.As(err, &rangeErr) {
				WriteError(w, http.StatusUnprocessableEntity, rangeErr.Error(), "INVALID_RANGE")
				return
			}
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		if maxStr := r.URL.Query().Get("max_layers"); maxStr != "" {
			maxLayers, err := strconv.Atoi(maxStr)
			if err != nil || maxLayers < 0 {
				WriteError(w, http.StatusBadRequest, "max_layers must be a non-negative integer", "BAD_REQUEST")
				return
			}
			layers = timeline.ClampLayers(layers, maxLayers)
		}

		WriteJSON(w, http.StatusOK, LayoutResponse{
			TrackID:    id,
			Layers:     layers,
			LayerCount: timeline.LayerCount(layers),
		})
	}
}

func segmentsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracks, total, err := loadTimeline(r, cfg.Repository)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		segments := timeline.BuildOverlapTable(tracks, total)
		resp := SegmentsResponse{
			TotalDuration: total,
			Segments:      make([]SegmentResponse, len(segments)),
		}
		for i, s := range segments {
			resp.Segments[i] = SegmentToResponse(s)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func segmentsGridHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracks, total, err := loadTimeline(r, cfg.Repository)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		segments := timeline.BuildOverlapTable(tracks, total)
		grid := export.RenderGrid(tracks, segments, r.URL.Query().Get("title"))

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(grid))
	}
}

func moveItemHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req MoveItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		tracks, total, err := loadTimeline(r, cfg.Repository)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		var item *timeline.TimedItem
		var locked bool
		for ti := range tracks {
			if found := tracks[ti].Item(id); found != nil {
				item = found
				locked = tracks[ti].Locked
				break
			}
		}
		if item == nil {
			WriteError(w, http.StatusNotFound, "item not found", "NOT_FOUND")
			return
		}
		if locked {
			WriteError(w, http.StatusConflict, "track is locked", "TRACK_LOCKED")
			return
		}

		duration := item.Duration()
		start := req.Start
		if start < 0 {
			start = 0
		}
		if start+duration > total {
			start = total - duration
		}
		if start < 0 {
			start = 0
		}
		end := start + duration

		if err := cfg.Repository.UpdateItemTimes(r.Context(), id, start, end); err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				WriteError(w, http.StatusNotFound, "item not found", "NOT_FOUND")
				return
			}
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, MoveItemResponse{ItemID: id, Start: start, End: end})
	}
}

func analysisHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalysisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		threshold := req.SilenceThreshold
		if threshold <= 0 {
			threshold = waveform.DefaultSilenceThreshold
		}

		stats := waveform.AnalyzeWindowThreshold(req.Samples, req.TotalDuration, req.Start, req.End, threshold)
		WriteJSON(w, http.StatusOK, AnalysisResponse{Stats: StatsToPayload(stats)})
	}
}

// loadTimeline reads the stored snapshot and resolves the timeline's
// total duration: explicit query param, then the stored value, then the
// latest item end.
func loadTimeline(r *http.Request, repo store.Repository) ([]timeline.Track, float64, error) {
	ctx := r.Context()

	tracks, err := repo.ListTracks(ctx)
	if err != nil {
		return nil, 0, err
	}

	if raw := r.URL.Query().Get("total_duration"); raw != "" {
		if total, err := strconv.ParseFloat(raw, 64); err == nil && total > 0 {
			return tracks, total, nil
		}
	}

	if stored, err := repo.GetConfig(ctx, "total_duration"); err == nil && stored != "" {
		if total, err := strconv.ParseFloat(stored, 64); err == nil && total > 0 {
			return tracks, total, nil
		}
	}

	total := 0.0
	for _, track := range tracks {
		for _, item := range track.Items {
			if !math.IsNaN(item.End) && item.End > total {
				total = item.End
			}
		}
	}
	return tracks, total, nil
}
