package dsp

import (
	"math"

	"github.com/dudk/squelch"
)

// cutoff clamp bounds, as a fraction of the Nyquist frequency.
const (
	minCutoff = 0.01
	maxCutoff = 0.99
)

// biquad is a single second-order filter section with its delay state.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

// process filters buf in place, carrying the delay state forward so that
// consecutive calls are continuous across frame boundaries.
func (s *biquad) process(buf squelch.Buffer) {
	for i := range buf {
		x := float64(buf[i])
		y := s.b0*x + s.b1*s.x1 + s.b2*s.x2 - s.a1*s.y1 - s.a2*s.y2
		s.x2, s.x1 = s.x1, x
		s.y2, s.y1 = s.y1, y
		buf[i] = float32(y)
	}
}

// butterworthQ is the quality factor of a maximally flat section.
const butterworthQ = math.Sqrt2 / 2

// highpassSection returns a second-order highpass section at freq Hz.
func highpassSection(freq, rate float64) biquad {
	w0 := 2 * math.Pi * freq / rate
	cos := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * butterworthQ)
	a0 := 1 + alpha
	return biquad{
		b0: (1 + cos) / 2 / a0,
		b1: -(1 + cos) / a0,
		b2: (1 + cos) / 2 / a0,
		a1: -2 * cos / a0,
		a2: (1 - alpha) / a0,
	}
}

// lowpassSection returns a second-order lowpass section at freq Hz.
func lowpassSection(freq, rate float64) biquad {
	w0 := 2 * math.Pi * freq / rate
	cos := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * butterworthQ)
	a0 := 1 + alpha
	return biquad{
		b0: (1 - cos) / 2 / a0,
		b1: (1 - cos) / a0,
		b2: (1 - cos) / 2 / a0,
		a1: -2 * cos / a0,
		a2: (1 - alpha) / a0,
	}
}

// bandpass is a 4th-order bandpass filter built as a highpass and a lowpass
// section in cascade. It caches its design key (low, high, rate); any key
// change requires a rebuild, which resets the delay state.
type bandpass struct {
	low, high float64
	rate      squelch.SampleRate
	sections  [2]biquad
	bypass    bool
}

// newBandpass designs a filter for the given cutoffs. Cutoffs are clamped
// to (0.01, 0.99) of the Nyquist-normalized range; if the clamped low ends
// up at or above the clamped high, the filter passes frames through
// unchanged.
func newBandpass(low, high float64, rate squelch.SampleRate) *bandpass {
	f := &bandpass{low: low, high: high, rate: rate}
	nyquist := rate.Nyquist()
	lo := clampCutoff(low / nyquist)
	hi := clampCutoff(high / nyquist)
	if lo >= hi {
		f.bypass = true
		return f
	}
	f.sections[0] = highpassSection(lo*nyquist, float64(rate))
	f.sections[1] = lowpassSection(hi*nyquist, float64(rate))
	return f
}

// matches reports whether the filter was designed for the given key.
func (f *bandpass) matches(low, high float64, rate squelch.SampleRate) bool {
	return f.low == low && f.high == high && f.rate == rate
}

// apply filters buf in place. No-op when the design is bypassed.
func (f *bandpass) apply(buf squelch.Buffer) {
	if f.bypass {
		return
	}
	f.sections[0].process(buf)
	f.sections[1].process(buf)
}

func clampCutoff(v float64) float64 {
	if v < minCutoff {
		return minCutoff
	}
	if v > maxCutoff {
		return maxCutoff
	}
	return v
}
