// Package timeline holds the shared timeline types, the interval layer
// assigner and the range merger used by every view that renders tracks.
package timeline

import (
	"errors"
	"fmt"
	"sort"
)

var ErrInvalidRange = errors.New("invalid item range")

// InvalidRangeError reports an item whose end precedes its start. The
// assigner rejects such items instead of silently correcting them, since
// correction would hide caller bugs.
type InvalidRangeError struct {
	ItemID string
	Start  float64
	End    float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("item %s: end %g precedes start %g", e.ItemID, e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}

// AssignLayers places items into the minimum number of non-overlapping
// visual lanes and returns a map of item ID to lane index.
//
// Items are stable-sorted by start time, ties broken by input order, so
// an unchanged input always yields identical indices across re-renders.
// Each item takes the lowest-indexed lane whose last item has already
// ended; a new lane is opened when none is free. The lane count equals
// the maximum number of simultaneously overlapping items.
func AssignLayers(items []TimedItem) (map[string]int, error) {
	for i := range items {
		if items[i].End < items[i].Start {
			return nil, &InvalidRangeError{ItemID: items[i].ID, Start: items[i].Start, End: items[i].End}
		}
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].Start < items[order[b]].Start
	})

	assign := make(map[string]int, len(items))
	var layerEnds []float64

	for _, idx := range order {
		it := items[idx]

		layer := -1
		for l, end := range layerEnds {
			if end <= it.Start {
				layer = l
				break
			}
		}
		if layer == -1 {
			layerEnds = append(layerEnds, it.End)
			layer = len(layerEnds) - 1
		} else {
			layerEnds[layer] = it.End
		}
		assign[it.ID] = layer
	}

	return assign, nil
}

// LayerCount returns the number of lanes used by an assignment.
func LayerCount(assign map[string]int) int {
	max := -1
	for _, l := range assign {
		if l > max {
			max = l
		}
	}
	return max + 1
}

// ClampLayers caps lane indices at maxLayers-1 for displays with a fixed
// lane budget. Items past the cap render stacked on the last lane rather
// than disappearing; callers opting in accept that overlap.
func ClampLayers(assign map[string]int, maxLayers int) map[string]int {
	if maxLayers <= 0 {
		return assign
	}
	clamped := make(map[string]int, len(assign))
	for id, l := range assign {
		if l >= maxLayers {
			l = maxLayers - 1
		}
		clamped[id] = l
	}
	return clamped
}
