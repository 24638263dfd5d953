package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/tracklane/tracklane/internal/config"
	"github.com/tracklane/tracklane/internal/db"
	"github.com/tracklane/tracklane/internal/logging"
	"github.com/tracklane/tracklane/internal/playback"
	"github.com/tracklane/tracklane/internal/store"
	"github.com/tracklane/tracklane/internal/timeline"
	"github.com/tracklane/tracklane/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	// Terminal output belongs to the editor; keep structured logs out of
	// it unless debugging is requested.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if os.Getenv("TRACKLANE_DEBUG") != "" {
		logger = logging.NewLogger("debug")
	}

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := store.NewRepository(database.Conn())
	ctx := context.Background()

	tracks, err := repo.ListTracks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tracks: %w", err)
	}
	if len(tracks) == 0 {
		tracks = demoTracks()
		if err := repo.ReplaceTracks(ctx, tracks); err != nil {
			return fmt.Errorf("failed to seed demo timeline: %w", err)
		}
		if err := repo.SetConfig(ctx, "total_duration", "60"); err != nil {
			return fmt.Errorf("failed to store total duration: %w", err)
		}
	}

	total := totalDuration(ctx, repo, tracks)
	transport := playback.NewTransport()

	model := ui.NewModel(tracks, total, demoSamples(total), transport, logger)
	p := tea.NewProgram(model)

	sync := playback.NewSynchronizer(cfg.SyncTick(), logger)
	sync.Start(transport, allItems(tracks), func(active map[string]struct{}) {
		p.Send(ui.ActiveSetMsg{Active: active})
	})
	defer sync.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor error: %w", err)
	}

	// Persist whatever the session edited.
	if err := repo.ReplaceTracks(ctx, model.Tracks()); err != nil {
		return fmt.Errorf("failed to save timeline: %w", err)
	}
	return nil
}

func totalDuration(ctx context.Context, repo store.Repository, tracks []timeline.Track) float64 {
	if stored, err := repo.GetConfig(ctx, "total_duration"); err == nil && stored != "" {
		if total, err := strconv.ParseFloat(stored, 64); err == nil && total > 0 {
			return total
		}
	}

	total := 0.0
	for _, track := range tracks {
		for _, item := range track.Items {
			if item.End > total {
				total = item.End
			}
		}
	}
	if total <= 0 {
		total = 60
	}
	return total
}

func allItems(tracks []timeline.Track) []timeline.TimedItem {
	var items []timeline.TimedItem
	for _, track := range tracks {
		items = append(items, track.Items...)
	}
	return items
}

func demoTracks() []timeline.Track {
	return []timeline.Track{
		{
			ID: "subtitles", Name: "Subtitles", Kind: timeline.TrackKindSubtitle, Visible: true,
			Items: []timeline.TimedItem{
				{ID: "sub-1", TrackID: "subtitles", Start: 0, End: 4, Label: "Welcome back"},
				{ID: "sub-2", TrackID: "subtitles", Start: 2, End: 6, Label: "to the show"},
				{ID: "sub-3", TrackID: "subtitles", Start: 5, End: 9, Label: "Let's begin"},
			},
		},
		{
			ID: "overlays", Name: "Overlays", Kind: timeline.TrackKindImage, Visible: true,
			Items: []timeline.TimedItem{
				{ID: "lower-third", TrackID: "overlays", Start: 10, End: 18, Label: "Title card"},
				{ID: "logo", TrackID: "overlays", Start: 30, End: 45, Label: "Logo"},
			},
		},
		{
			ID: "audio", Name: "Audio", Kind: timeline.TrackKindAudio, Locked: true, Visible: true,
			Items: []timeline.TimedItem{
				{ID: "music-bed", TrackID: "audio", Start: 0, End: 60, Label: "Music bed"},
			},
		},
	}
}

// demoSamples synthesizes a waveform with alternating loud and silent
// stretches so the analyzer readout has something to show before real
// audio is loaded.
func demoSamples(total float64) []float64 {
	const sampleRate = 100.0

	n := int(total * sampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / sampleRate
		if int(t)%10 < 7 {
			samples[i] = 0.6 * math.Sin(2*math.Pi*3*t)
		}
	}
	return samples
}
