// Package playback keeps the "now" highlight of a timeline in sync
// with an external media clock by polling it on a fixed cadence.
package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tracklane/tracklane/internal/timeline"
)

// DefaultTickInterval is the polling cadence of the synchronizer.
const DefaultTickInterval = 100 * time.Millisecond

// ClockSource reports the external player's current position in
// timeline seconds. ok is false while nothing is playing.
type ClockSource interface {
	Now() (t float64, ok bool)
}

// ClockFunc adapts a plain function to a ClockSource.
type ClockFunc func() (float64, bool)

func (f ClockFunc) Now() (float64, bool) { return f() }

// Synchronizer polls a ClockSource and maps its position to the set of
// currently active items. The change callback fires only when that set
// actually changes, so renderers see no redundant churn.
type Synchronizer struct {
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	stop   chan struct{}
	done   chan struct{}
	active map[string]struct{}
}

func NewSynchronizer(interval time.Duration, logger *slog.Logger) *Synchronizer {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Synchronizer{interval: interval, logger: logger}
}

// Start begins polling the clock against the given item snapshot.
// Starting again without stopping replaces the running loop; exactly
// one timer is ever outstanding.
func (s *Synchronizer) Start(clock ClockSource, items []timeline.TimedItem, onChange func(active map[string]struct{})) {
	s.Stop()

	s.mu.Lock()
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done
	s.active = nil
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("synchronizer started", "items", len(items), "interval_ms", s.interval.Milliseconds())
	}
	go s.run(stop, done, clock, items, onChange)
}

// Stop cancels the loop synchronously: once it returns no further
// callbacks run and the highlight state is cleared. Safe to call when
// not started.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("synchronizer stopped")
	}
}

// Active returns a copy of the currently highlighted item set.
func (s *Synchronizer) Active() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.active))
	for id := range s.active {
		out[id] = struct{}{}
	}
	return out
}

func (s *Synchronizer) run(stop, done chan struct{}, clock ClockSource, items []timeline.TimedItem, onChange func(map[string]struct{})) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var current map[string]struct{}
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			var next map[string]struct{}
			if t, ok := clock.Now(); ok {
				next = ActiveAt(items, t)
			}
			if sameSet(current, next) {
				continue
			}
			current = next

			s.mu.Lock()
			s.active = next
			s.mu.Unlock()

			if onChange != nil {
				onChange(next)
			}
		}
	}
}

// ActiveAt returns the IDs of items covering t, inclusive on both
// bounds: an item is active exactly at its boundary instants.
func ActiveAt(items []timeline.TimedItem, t float64) map[string]struct{} {
	active := make(map[string]struct{})
	for _, it := range items {
		if it.Contains(t) {
			active[it.ID] = struct{}{}
		}
	}
	return active
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
