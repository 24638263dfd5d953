package waveform

import (
	"math"
	"testing"
)

func TestAnalyzeWindow_NilOnMissingSamples(t *testing.T) {
	if got := AnalyzeWindow(nil, 10, 0, 5); got != nil {
		t.Errorf("AnalyzeWindow(nil samples) = %v, want nil", got)
	}
	if got := AnalyzeWindow([]float64{}, 10, 0, 5); got != nil {
		t.Errorf("AnalyzeWindow(empty samples) = %v, want nil", got)
	}
}

func TestAnalyzeWindow_NilOnEmptySlice(t *testing.T) {
	samples := make([]float64, 100)

	// Window entirely past the buffer.
	if got := AnalyzeWindow(samples, 10, 12, 15); got != nil {
		t.Errorf("out-of-range window = %v, want nil", got)
	}
	// Zero-duration timeline.
	if got := AnalyzeWindow(samples, 0, 0, 1); got != nil {
		t.Errorf("zero total duration = %v, want nil", got)
	}
}

func TestAnalyzeWindow_Stats(t *testing.T) {
	// 10 samples over 10 seconds: 1 sample per second.
	samples := []float64{0.5, -0.5, 0.5, -0.5, 0, 0, 0, 0, 0, 0}

	stats := AnalyzeWindow(samples, 10, 0, 4)
	if stats == nil {
		t.Fatal("AnalyzeWindow() = nil, want stats")
	}

	if math.Abs(stats.MeanAbsAmplitude-0.5) > 1e-9 {
		t.Errorf("MeanAbsAmplitude = %g, want 0.5", stats.MeanAbsAmplitude)
	}
	if math.Abs(stats.RMSEnergy-0.5) > 1e-9 {
		t.Errorf("RMSEnergy = %g, want 0.5", stats.RMSEnergy)
	}
	if stats.SilenceRatio != 0 {
		t.Errorf("SilenceRatio = %g, want 0", stats.SilenceRatio)
	}
}

func TestAnalyzeWindow_SilenceRatio(t *testing.T) {
	samples := []float64{0.5, 0.01, -0.01, 0.5}

	stats := AnalyzeWindow(samples, 4, 0, 4)
	if stats == nil {
		t.Fatal("AnalyzeWindow() = nil, want stats")
	}
	if math.Abs(stats.SilenceRatio-0.5) > 1e-9 {
		t.Errorf("SilenceRatio = %g, want 0.5", stats.SilenceRatio)
	}
}

func TestAnalyzeWindow_WindowClampedToBuffer(t *testing.T) {
	samples := []float64{1, 1, 1, 1}

	stats := AnalyzeWindow(samples, 4, -2, 100)
	if stats == nil {
		t.Fatal("AnalyzeWindow() = nil, want stats")
	}
	if stats.MeanAbsAmplitude != 1 {
		t.Errorf("MeanAbsAmplitude = %g, want 1", stats.MeanAbsAmplitude)
	}
}

func TestAnalyzeWindowThreshold_CustomThreshold(t *testing.T) {
	samples := []float64{0.05, 0.05}

	loose := AnalyzeWindowThreshold(samples, 2, 0, 2, 0.1)
	if loose == nil || loose.SilenceRatio != 1 {
		t.Errorf("threshold 0.1: SilenceRatio = %v, want 1", loose)
	}

	strict := AnalyzeWindowThreshold(samples, 2, 0, 2, 0.01)
	if strict == nil || strict.SilenceRatio != 0 {
		t.Errorf("threshold 0.01: SilenceRatio = %v, want 0", strict)
	}
}
