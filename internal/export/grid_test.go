package export

import (
	"strings"
	"testing"

	"github.com/tracklane/tracklane/internal/timeline"
)

func gridFixture() ([]timeline.Track, []timeline.Segment) {
	tracks := []timeline.Track{
		{
			ID: "subs", Name: "Subtitles", Visible: true,
			Items: []timeline.TimedItem{
				{ID: "a", TrackID: "subs", Start: 0, End: 5, Label: "hello"},
				{ID: "b", TrackID: "subs", Start: 5, End: 8, Label: "world"},
			},
		},
		{
			ID: "audio", Name: "Audio", Visible: true,
			Items: []timeline.TimedItem{
				{ID: "clip", TrackID: "audio", Start: 12, End: 15},
			},
		},
		{ID: "hidden", Name: "Scratch", Visible: false},
	}
	segments := []timeline.Segment{
		{Start: 0, End: 8, Contributions: map[string][]string{"subs": {"a", "b"}}},
		{Start: 12, End: 15, Contributions: map[string][]string{"audio": {"clip"}}},
	}
	return tracks, segments
}

func TestRenderGrid(t *testing.T) {
	tracks, segments := gridFixture()

	grid := RenderGrid(tracks, segments, "Demo")

	if !strings.Contains(grid, "TITLE: Demo") {
		t.Fatalf("missing title in grid: %q", grid)
	}
	if !strings.Contains(grid, "00:00.0-00:08.0") {
		t.Errorf("missing first segment header: %q", grid)
	}
	if !strings.Contains(grid, "00:12.0-00:15.0") {
		t.Errorf("missing second segment header: %q", grid)
	}
	if !strings.Contains(grid, "hello, world") {
		t.Errorf("expected labels joined in cell: %q", grid)
	}
	if !strings.Contains(grid, "clip") {
		t.Errorf("expected item id fallback for unlabeled item: %q", grid)
	}
	if strings.Contains(grid, "Scratch") {
		t.Errorf("hidden track should be skipped: %q", grid)
	}
}

func TestRenderGridColumnsAligned(t *testing.T) {
	tracks, segments := gridFixture()

	grid := RenderGrid(tracks, segments, "")
	lines := strings.Split(grid, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected header plus two track rows, got %d lines", len(lines))
	}

	headerIdx := strings.Index(lines[0], "00:12.0-00:15.0")
	cellIdx := strings.Index(lines[2], "clip")
	if headerIdx < 0 || cellIdx < 0 {
		t.Fatalf("missing expected column content: %q", grid)
	}
	if headerIdx != cellIdx {
		t.Errorf("last column not aligned: header at %d, cell at %d", headerIdx, cellIdx)
	}
}

func TestRenderGridEmptyCell(t *testing.T) {
	tracks, segments := gridFixture()

	grid := RenderGrid(tracks, segments, "")
	for _, line := range strings.Split(grid, "\n") {
		if strings.HasPrefix(line, "Audio") && !strings.Contains(line, "-") {
			t.Errorf("expected placeholder for empty cell: %q", line)
		}
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"plain", "hello", 40, "hello"},
		{"newline replaced", "line one\nline two", 40, "line one line two"},
		{"truncated", "abcdefgh", 4, "abcd"},
		{"trimmed", "  padded  ", 40, "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeLabel(tt.in, tt.max); got != tt.want {
				t.Errorf("SanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00.0"},
		{8, "00:08.0"},
		{65.5, "01:05.5"},
		{-3, "00:00.0"},
	}

	for _, tt := range tests {
		if got := formatTime(tt.in); got != tt.want {
			t.Errorf("formatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
