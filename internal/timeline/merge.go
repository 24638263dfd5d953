package timeline

import "sort"

const (
	// Degenerate ranges are widened to max(total*MinWidthFraction,
	// MinWidthFloor) before the sweep so every segment stays visible.
	MinWidthFraction = 0.02
	MinWidthFloor    = 0.1
)

// Range is a bare (start, end) pair fed to the merger. Either bound may
// be Unset; the merger infers placeholders rather than rejecting, since
// the merge is a best-effort visualization aid.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func minVisibleWidth(totalDuration float64) float64 {
	w := totalDuration * MinWidthFraction
	if w < MinWidthFloor {
		w = MinWidthFloor
	}
	return w
}

// normalizeRange fills unset bounds from the range's position index
// (evenly spaced over the timeline), clamps reversed pairs and widens
// degenerate ones. The result is always a valid, non-degenerate range.
func normalizeRange(r Range, index, count int, totalDuration float64) Range {
	var slot float64
	if count > 0 {
		slot = totalDuration / float64(count)
	}
	if IsUnset(r.Start) {
		r.Start = float64(index) * slot
	}
	if IsUnset(r.End) {
		r.End = r.Start + slot
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	if r.End <= r.Start {
		r.End = r.Start + minVisibleWidth(totalDuration)
	}
	return r
}

// MergeRanges collapses ranges into the minimal set of sorted,
// non-overlapping segments. Touching ranges merge. With no input at all
// it returns a single full-timeline segment as the baseline.
func MergeRanges(ranges []Range, totalDuration float64) []Segment {
	norm := make([]Range, len(ranges))
	for i, r := range ranges {
		norm[i] = normalizeRange(r, i, len(ranges), totalDuration)
	}
	return sweep(norm, totalDuration)
}

func sweep(norm []Range, totalDuration float64) []Segment {
	if len(norm) == 0 {
		return []Segment{{Start: 0, End: totalDuration}}
	}

	sort.Slice(norm, func(i, j int) bool {
		return norm[i].Start < norm[j].Start
	})

	segs := []Segment{{Start: norm[0].Start, End: norm[0].End}}
	for _, r := range norm[1:] {
		cur := &segs[len(segs)-1]
		if r.Start <= cur.End {
			if r.End > cur.End {
				cur.End = r.End
			}
			continue
		}
		segs = append(segs, Segment{Start: r.Start, End: r.End})
	}
	return segs
}

// BuildOverlapTable merges the ranges of every visible track into one
// aligned set of segments and records, per segment, which items of each
// track intersect it (half-open test). The result feeds the tabular
// multi-track overlap view.
func BuildOverlapTable(tracks []Track, totalDuration float64) []Segment {
	type trackRanges struct {
		trackID string
		ids     []string
		ranges  []Range
	}

	all := make([]trackRanges, 0, len(tracks))
	var flat []Range
	for _, tr := range tracks {
		if !tr.Visible {
			continue
		}
		n := len(tr.Items)
		t := trackRanges{trackID: tr.ID}
		for i, it := range tr.Items {
			r := normalizeRange(Range{Start: it.Start, End: it.End}, i, n, totalDuration)
			t.ids = append(t.ids, it.ID)
			t.ranges = append(t.ranges, r)
			flat = append(flat, r)
		}
		all = append(all, t)
	}

	segs := sweep(flat, totalDuration)
	for si := range segs {
		contrib := make(map[string][]string)
		for _, tr := range all {
			for i, r := range tr.ranges {
				if r.Start < segs[si].End && r.End > segs[si].Start {
					contrib[tr.trackID] = append(contrib[tr.trackID], tr.ids[i])
				}
			}
		}
		segs[si].Contributions = contrib
	}
	return segs
}
