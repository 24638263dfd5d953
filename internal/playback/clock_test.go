package playback

import "testing"

func TestTransportStartsPaused(t *testing.T) {
	tr := NewTransport()

	if tr.Playing() {
		t.Fatal("new transport should be paused")
	}
	if pos, ok := tr.Now(); ok || pos != 0 {
		t.Errorf("Now() = (%v, %v), want (0, false)", pos, ok)
	}
}

func TestTransportSeekAndPlay(t *testing.T) {
	tr := NewTransport()
	tr.Seek(5)
	tr.Play()

	pos, ok := tr.Now()
	if !ok {
		t.Fatal("Now() should report ok while playing")
	}
	if pos < 5 {
		t.Errorf("position = %v, want >= 5 after seek", pos)
	}
}

func TestTransportPauseFreezesPosition(t *testing.T) {
	tr := NewTransport()
	tr.Seek(10)
	tr.Play()
	tr.Pause()

	p1 := tr.Position()
	p2 := tr.Position()
	if p1 != p2 {
		t.Errorf("position advanced while paused: %v then %v", p1, p2)
	}
	if _, ok := tr.Now(); ok {
		t.Error("Now() should report ok=false while paused")
	}
}

func TestTransportToggle(t *testing.T) {
	tr := NewTransport()

	if !tr.Toggle() {
		t.Fatal("first toggle should start playback")
	}
	if tr.Toggle() {
		t.Fatal("second toggle should pause")
	}
	if tr.Playing() {
		t.Error("transport should be paused after two toggles")
	}
}

func TestTransportSeekClampsNegative(t *testing.T) {
	tr := NewTransport()
	tr.Seek(-3)

	if pos := tr.Position(); pos != 0 {
		t.Errorf("position = %v, want 0 after negative seek", pos)
	}
}
