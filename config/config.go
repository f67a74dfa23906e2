// Package config holds the live processing parameters shared between the
// processing pipeline and the interactive command session.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dudk/squelch"
)

// Params is a complete value snapshot of processing parameters. A snapshot
// taken from a Store is consistent: no field mixes pre- and post-update
// values.
type Params struct {
	NoiseReduction      float64 // reduction strength, [0, 1]
	VoiceLow            float64 // bandpass low cutoff, Hz
	VoiceHigh           float64 // bandpass high cutoff, Hz
	VoiceGain           float64 // output gain, [-20, 20] dB
	SpectralGate        float64 // gate threshold, dB
	ProfileSamples      int     // frames accumulated into the noise profile
	StationaryThreshold float64 // stationary reduction threshold
	Bandpass            bool
	SpectralGating      bool
	Stationary          bool
	Enabled             bool // master switch
}

// Default returns the default parameter set.
func Default() Params {
	return Params{
		NoiseReduction:      0.95,
		VoiceLow:            80,
		VoiceHigh:           8000,
		VoiceGain:           0,
		SpectralGate:        -35,
		ProfileSamples:      5,
		StationaryThreshold: 2.5,
		Bandpass:            true,
		SpectralGating:      false,
		Stationary:          true,
		Enabled:             true,
	}
}

// Status formats the parameter set for the interactive session.
func (p Params) Status() string {
	var b strings.Builder
	b.WriteString("\nCurrent settings:\n")
	if !p.Enabled {
		b.WriteString("  Noise reduction: DISABLED\n")
		return b.String()
	}
	fmt.Fprintf(&b, "  Noise reduction: %.1f%%\n", p.NoiseReduction*100)
	fmt.Fprintf(&b, "  Voice frequency range: %g-%g Hz\n", p.VoiceLow, p.VoiceHigh)
	fmt.Fprintf(&b, "  Voice gain: %+.1f dB\n", p.VoiceGain)
	fmt.Fprintf(&b, "  Spectral gate threshold: %.1f dB\n", p.SpectralGate)
	fmt.Fprintf(&b, "  Stationary threshold: %.2f\n", p.StationaryThreshold)
	fmt.Fprintf(&b, "  Bandpass filter: %s\n", enabled(p.Bandpass))
	fmt.Fprintf(&b, "  Spectral gating: %s\n", enabled(p.SpectralGating))
	fmt.Fprintf(&b, "  Stationary mode: %s\n", enabled(p.Stationary))
	return b.String()
}

func enabled(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// Store is a thread-safe parameter set. A single mutex guards all fields,
// setters clamp or validate their input before storing and Snapshot copies
// every field under one critical section.
type Store struct {
	mu   sync.Mutex
	p    Params
	rate squelch.SampleRate
}

// NewStore returns a store initialized with p. Numeric fields are clamped
// to their legal ranges.
func NewStore(p Params, rate squelch.SampleRate) *Store {
	p.NoiseReduction = clamp(p.NoiseReduction, 0, 1)
	p.VoiceGain = clamp(p.VoiceGain, -20, 20)
	if p.ProfileSamples < 1 {
		p.ProfileSamples = 1
	}
	return &Store{p: p, rate: rate}
}

// SampleRate returns the fixed sample rate the store validates against.
func (s *Store) SampleRate() squelch.SampleRate {
	return s.rate
}

// Snapshot returns a consistent copy of every field.
func (s *Store) Snapshot() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p
}

// SetNoiseReduction sets the reduction strength, clamped to [0, 1].
func (s *Store) SetNoiseReduction(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.NoiseReduction = clamp(v, 0, 1)
}

// SetVoiceLow sets the low cutoff. It must stay non-negative and below the
// current high cutoff.
func (s *Store) SetVoiceLow(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v < 0 || v >= s.p.VoiceHigh {
		return fmt.Errorf("voice low must be between 0 and %g Hz", s.p.VoiceHigh)
	}
	s.p.VoiceLow = v
	return nil
}

// SetVoiceHigh sets the high cutoff. It must stay above the current low
// cutoff and within the Nyquist limit.
func (s *Store) SetVoiceHigh(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v <= s.p.VoiceLow || v > s.rate.Nyquist() {
		return fmt.Errorf("voice high must be between %g and %g Hz", s.p.VoiceLow, s.rate.Nyquist())
	}
	s.p.VoiceHigh = v
	return nil
}

// SetVoiceGain sets the output gain, clamped to [-20, 20] dB.
func (s *Store) SetVoiceGain(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.VoiceGain = clamp(v, -20, 20)
}

// SetSpectralGate sets the gate threshold in dB.
func (s *Store) SetSpectralGate(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.SpectralGate = v
}

// SetProfileSamples sets the number of frames accumulated into the noise
// profile, at least 1.
func (s *Store) SetProfileSamples(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	s.p.ProfileSamples = n
}

// SetStationaryThreshold sets the stationary reduction threshold.
func (s *Store) SetStationaryThreshold(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.StationaryThreshold = v
}

// SetBandpass toggles the bandpass stage.
func (s *Store) SetBandpass(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Bandpass = v
}

// SetSpectralGating toggles the gating stage.
func (s *Store) SetSpectralGating(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.SpectralGating = v
}

// SetStationary toggles stationary reduction mode.
func (s *Store) SetStationary(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Stationary = v
}

// SetEnabled toggles the master switch.
func (s *Store) SetEnabled(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Enabled = v
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
