// Package export renders merged timeline segments as plain-text tables.
package export

import (
	"fmt"
	"strings"

	"github.com/tracklane/tracklane/internal/timeline"
)

const (
	emptyCell   = "-"
	maxCellLen  = 40
	columnGap   = "  "
	trackHeader = "TRACK"
)

// RenderGrid lays out one column per segment and one row per visible
// track. Cells list the labels of the items contributing to that
// segment, in track item order.
func RenderGrid(tracks []timeline.Track, segments []timeline.Segment, title string) string {
	headers := make([]string, 0, len(segments)+1)
	headers = append(headers, trackHeader)
	for _, seg := range segments {
		headers = append(headers, formatWindow(seg.Start, seg.End))
	}

	rows := [][]string{headers}
	for _, track := range tracks {
		if !track.Visible {
			continue
		}
		row := make([]string, 0, len(segments)+1)
		row = append(row, SanitizeLabel(track.Name, maxCellLen))
		for _, seg := range segments {
			row = append(row, cellFor(track, seg))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(headers))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var lines []string
	if title != "" {
		lines = append(lines, fmt.Sprintf("TITLE: %s", title), "")
	}
	for _, row := range rows {
		padded := make([]string, len(row))
		for i, cell := range row {
			padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		lines = append(lines, strings.TrimRight(strings.Join(padded, columnGap), " "))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func cellFor(track timeline.Track, seg timeline.Segment) string {
	ids := seg.Contributions[track.ID]
	if len(ids) == 0 {
		return emptyCell
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		label := id
		if item := track.Item(id); item != nil && item.Label != "" {
			label = item.Label
		}
		parts = append(parts, SanitizeLabel(label, maxCellLen))
	}
	return strings.Join(parts, ", ")
}

func formatWindow(start, end float64) string {
	return formatTime(start) + "-" + formatTime(end)
}

func formatTime(s float64) string {
	if s < 0 {
		s = 0
	}
	minutes := int(s) / 60
	seconds := s - float64(minutes*60)
	return fmt.Sprintf("%02d:%04.1f", minutes, seconds)
}
