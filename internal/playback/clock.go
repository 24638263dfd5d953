package playback

import (
	"sync"
	"time"
)

// Transport is a pausable wall clock over media time. Now reports
// ok=false while paused, so a paused transport clears the active set
// instead of freezing it.
type Transport struct {
	mu      sync.Mutex
	playing bool
	base    time.Time
	offset  float64
}

func NewTransport() *Transport {
	return &Transport{}
}

func (t *Transport) Now() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.playing {
		return t.offset, false
	}
	return t.offset + time.Since(t.base).Seconds(), true
}

// Position reports the current media position whether or not the
// transport is running.
func (t *Transport) Position() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.playing {
		return t.offset
	}
	return t.offset + time.Since(t.base).Seconds()
}

func (t *Transport) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

func (t *Transport) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.playing {
		return
	}
	t.base = time.Now()
	t.playing = true
}

func (t *Transport) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.playing {
		return
	}
	t.offset += time.Since(t.base).Seconds()
	t.playing = false
}

// Toggle flips between playing and paused and reports the new state.
func (t *Transport) Toggle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.playing {
		t.offset += time.Since(t.base).Seconds()
		t.playing = false
	} else {
		t.base = time.Now()
		t.playing = true
	}
	return t.playing
}

// Seek jumps to the given media position, clamped at zero.
func (t *Transport) Seek(seconds float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	t.offset = seconds
	t.base = time.Now()
}
