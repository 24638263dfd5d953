// Package waveform computes summary statistics over waveform sample
// windows. The results only ever decorate rendering; absent audio data
// is an expected case, not an error.
package waveform

import "math"

// DefaultSilenceThreshold is the amplitude below which a sample counts
// as silent.
const DefaultSilenceThreshold = 0.02

// WindowStats summarizes the samples inside one time window.
type WindowStats struct {
	MeanAbsAmplitude float64 `json:"mean_abs_amplitude"`
	RMSEnergy        float64 `json:"rms_energy"`
	SilenceRatio     float64 `json:"silence_ratio"`
}

// AnalyzeWindow computes stats for the [start, end] window of a sample
// buffer spanning totalDuration seconds. It returns nil when there is
// nothing to analyze; callers must treat nil as "no decoration", never
// as zero. Pure and cheap enough to call on every interaction tick.
func AnalyzeWindow(samples []float64, totalDuration, start, end float64) *WindowStats {
	return AnalyzeWindowThreshold(samples, totalDuration, start, end, DefaultSilenceThreshold)
}

// AnalyzeWindowThreshold is AnalyzeWindow with an explicit silence
// threshold.
func AnalyzeWindowThreshold(samples []float64, totalDuration, start, end, silenceThreshold float64) *WindowStats {
	if len(samples) == 0 || totalDuration <= 0 {
		return nil
	}

	sampleRate := float64(len(samples)) / totalDuration
	lo := int(math.Floor(start * sampleRate))
	hi := int(math.Ceil(end * sampleRate))
	if lo < 0 {
		lo = 0
	}
	if hi > len(samples) {
		hi = len(samples)
	}
	if lo >= hi {
		return nil
	}

	window := samples[lo:hi]
	var sumAbs, sumSq float64
	silent := 0
	for _, s := range window {
		abs := math.Abs(s)
		sumAbs += abs
		sumSq += s * s
		if abs < silenceThreshold {
			silent++
		}
	}

	n := float64(len(window))
	return &WindowStats{
		MeanAbsAmplitude: sumAbs / n,
		RMSEnergy:        math.Sqrt(sumSq / n),
		SilenceRatio:     float64(silent) / n,
	}
}
