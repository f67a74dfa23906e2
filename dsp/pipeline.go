// Package dsp implements the stateful per-frame processing chain.
package dsp

import (
	"time"

	"github.com/dudk/squelch"
	"github.com/dudk/squelch/config"
	"github.com/dudk/squelch/log"
	"github.com/dudk/squelch/relay"
)

// popTimeout bounds a blocking dequeue so the lifecycle flag is observed.
const popTimeout = time.Second

// gateAttenuation is applied to frames classified as noise-only.
const gateAttenuation = 0.1

type (
	// Tap receives every finalized frame, e.g. for recording.
	Tap interface {
		Write(squelch.Buffer) error
	}

	// Pipeline consumes raw frames and produces processed frames. It owns
	// the filter state and the noise profile accumulator; both are touched
	// by the processing task only and need no synchronization.
	Pipeline struct {
		squelch.UID
		rate    squelch.SampleRate
		store   *config.Store
		in      *relay.Queue[squelch.Buffer]
		out     *relay.Queue[squelch.Buffer]
		reducer Reducer
		filter  *bandpass
		profile *Profile
		taps    []Tap
		log     log.Logger
	}

	// Option configures a Pipeline.
	Option func(*Pipeline)
)

// WithReducer replaces the default noise reducer.
func WithReducer(r Reducer) Option {
	return func(p *Pipeline) {
		p.reducer = r
	}
}

// WithTap adds a tap receiving every finalized frame.
func WithTap(t Tap) Option {
	return func(p *Pipeline) {
		p.taps = append(p.taps, t)
	}
}

// New returns a pipeline reading raw frames from in and pushing processed
// frames to out. The profile size is fixed from the store at construction.
func New(store *config.Store, in, out *relay.Queue[squelch.Buffer], l log.Logger, options ...Option) *Pipeline {
	params := store.Snapshot()
	p := &Pipeline{
		UID:     squelch.NewUID(),
		rate:    store.SampleRate(),
		store:   store,
		in:      in,
		out:     out,
		reducer: NewReducer(),
		profile: NewProfile(params.ProfileSamples),
		log:     l,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Run processes dequeued frames until the lifecycle flag clears. Each frame
// is processed with a single configuration snapshot, so every stage sees
// one coherent parameter set. A failed frame is dropped and logged, filter
// and profile state are left as-is.
func (p *Pipeline) Run(life *squelch.Life) {
	p.log.Info("starting audio processing id ", p.ID())
	for life.Running() {
		frame, ok := p.in.Pop(popTimeout)
		if !ok {
			continue
		}
		processed, err := p.Process(frame, p.store.Snapshot())
		if err != nil {
			if life.Running() {
				p.log.Error("processing: ", err)
			}
			continue
		}
		p.out.Push(processed)
		for _, t := range p.taps {
			if err := t.Write(processed); err != nil {
				p.log.Error("tap: ", err)
			}
		}
	}
}

// Process runs one frame through the chain and returns the finalized frame.
// The frame is mutated in place.
func (p *Pipeline) Process(frame squelch.Buffer, params config.Params) (squelch.Buffer, error) {
	if !params.Enabled {
		return finalize(frame), nil
	}

	if p.profile.Accumulate(frame) {
		p.log.Info("noise profile initialized")
	}

	if params.Bandpass {
		if p.filter == nil || !p.filter.matches(params.VoiceLow, params.VoiceHigh, p.rate) {
			p.filter = newBandpass(params.VoiceLow, params.VoiceHigh, p.rate)
		}
		p.filter.apply(frame)
	}

	var err error
	if ref, ok := p.profile.Reference(len(frame)); params.Stationary && ok {
		frame, err = p.reducer.Stationary(frame, ref, params.NoiseReduction, params.StationaryThreshold)
	} else {
		frame, err = p.reducer.Adaptive(frame, params.NoiseReduction)
	}
	if err != nil {
		return nil, err
	}

	if params.SpectralGating {
		gate(frame, params.SpectralGate)
	}
	if params.VoiceGain != 0 {
		frame.Scale(squelch.DecibelToLinear(params.VoiceGain))
	}
	return finalize(frame), nil
}

// gate attenuates the whole frame when its level classifies it as
// noise-only.
func gate(frame squelch.Buffer, threshold float64) {
	if squelch.LinearToDecibel(frame.RMS()) < threshold {
		frame.Scale(gateAttenuation)
	}
}

func finalize(frame squelch.Buffer) squelch.Buffer {
	frame.Clip()
	return frame
}
