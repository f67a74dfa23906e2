package dsp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/dudk/squelch"
	"github.com/dudk/squelch/config"
	"github.com/dudk/squelch/dsp"
	"github.com/dudk/squelch/log"
	"github.com/dudk/squelch/relay"
)

// reducerCall records a single reducer invocation.
type reducerCall struct {
	stationary bool
	refLen     int
}

// fakeReducer passes frames through and records how it was invoked.
type fakeReducer struct {
	calls []reducerCall
}

func (r *fakeReducer) Adaptive(frame squelch.Buffer, strength float64) (squelch.Buffer, error) {
	r.calls = append(r.calls, reducerCall{})
	return frame, nil
}

func (r *fakeReducer) Stationary(frame, reference squelch.Buffer, strength, threshold float64) (squelch.Buffer, error) {
	r.calls = append(r.calls, reducerCall{stationary: true, refLen: len(reference)})
	return frame, nil
}

func newPipeline(p config.Params, options ...dsp.Option) (*dsp.Pipeline, *relay.Queue[squelch.Buffer], *relay.Queue[squelch.Buffer]) {
	store := config.NewStore(p, 48000)
	in := relay.New[squelch.Buffer](10)
	out := relay.New[squelch.Buffer](20)
	return dsp.New(store, in, out, log.GetLogger(), options...), in, out
}

func TestMasterSwitchOffRoundTrip(t *testing.T) {
	params := config.Default()
	params.Enabled = false
	pipeline, _, _ := newPipeline(params)

	in := squelch.Buffer{0.5, -1.5, 1.5, 0}
	out, err := pipeline.Process(in, params)
	assert.NoError(t, err)
	// only clipping applies
	assert.Equal(t, squelch.Buffer{0.5, -1, 1, 0}, out)
}

func TestVoiceGain(t *testing.T) {
	params := config.Default()
	params.Bandpass = false
	params.NoiseReduction = 0
	params.Stationary = false
	params.VoiceGain = 6
	pipeline, _, _ := newPipeline(params)

	out, err := pipeline.Process(constant(0.1, 64), params)
	assert.NoError(t, err)
	assert.InDelta(t, 0.1995, float64(out[0]), 1e-4)
}

func TestVoiceGainClipsAtFullScale(t *testing.T) {
	params := config.Default()
	params.Bandpass = false
	params.NoiseReduction = 0
	params.Stationary = false
	params.VoiceGain = 20
	pipeline, _, _ := newPipeline(params)

	out, err := pipeline.Process(constant(0.5, 64), params)
	assert.NoError(t, err)
	assert.Equal(t, float32(1), out[0])
}

func TestSpectralGate(t *testing.T) {
	tests := []struct {
		description string
		amplitude   float64
		attenuated  bool
	}{
		{"frame at -50 dB is suppressed", squelch.DecibelToLinear(-50), true},
		{"frame at -20 dB is unchanged", squelch.DecibelToLinear(-20), false},
	}
	for _, test := range tests {
		params := config.Default()
		params.Bandpass = false
		params.NoiseReduction = 0
		params.Stationary = false
		params.SpectralGating = true
		params.SpectralGate = -35
		pipeline, _, _ := newPipeline(params)

		in := constant(float32(test.amplitude), 256)
		out, err := pipeline.Process(in, params)
		assert.NoError(t, err)
		expected := test.amplitude
		if test.attenuated {
			expected *= 0.1
		}
		assert.InDelta(t, expected, float64(out[0]), 1e-6, test.description)
	}
}

func TestStationaryHandoff(t *testing.T) {
	const frameLen = 128
	params := config.Default()
	params.Bandpass = false
	params.ProfileSamples = 5
	reducer := &fakeReducer{}
	pipeline, _, _ := newPipeline(params, dsp.WithReducer(reducer))

	for i := 0; i < 6; i++ {
		_, err := pipeline.Process(constant(0.1, frameLen), params)
		assert.NoError(t, err)
	}

	assert.Equal(t, 6, len(reducer.calls))
	// adaptive until the profile is ready
	for _, call := range reducer.calls[:4] {
		assert.False(t, call.stationary)
	}
	// frame 6 runs stationary with a reference slice of the frame length
	assert.True(t, reducer.calls[5].stationary)
	assert.Equal(t, frameLen, reducer.calls[5].refLen)
}

func TestStationaryRequiresToggle(t *testing.T) {
	params := config.Default()
	params.Bandpass = false
	params.Stationary = false
	params.ProfileSamples = 1
	reducer := &fakeReducer{}
	pipeline, _, _ := newPipeline(params, dsp.WithReducer(reducer))

	for i := 0; i < 3; i++ {
		_, err := pipeline.Process(constant(0.1, 64), params)
		assert.NoError(t, err)
	}
	for _, call := range reducer.calls {
		assert.False(t, call.stationary)
	}
}

func TestFilterRebuildOnParameterChange(t *testing.T) {
	params := config.Default()
	params.NoiseReduction = 0
	params.Stationary = false
	params.VoiceLow = 100
	params.VoiceHigh = 3000
	pipeline, _, _ := newPipeline(params)

	in := make(squelch.Buffer, 1024)
	for i := range in {
		in[i] = float32(i%7) / 10
	}

	// load filter memory with the first key
	_, err := pipeline.Process(in.Clone(), params)
	assert.NoError(t, err)

	// change the key: output must not depend on pre-change memory
	changed := params
	changed.VoiceHigh = 3001
	first, err := pipeline.Process(in.Clone(), changed)
	assert.NoError(t, err)

	fresh, _, _ := newPipeline(changed)
	expected, err := fresh.Process(in.Clone(), changed)
	assert.NoError(t, err)
	assert.Equal(t, expected, first)
}

func TestTapReceivesProcessedFrames(t *testing.T) {
	defer goleak.VerifyNoLeaks(t)

	params := config.Default()
	params.Bandpass = false
	params.NoiseReduction = 0
	params.Stationary = false
	tap := &countingTap{}
	pipeline, in, out := newPipeline(params, dsp.WithTap(tap))

	life := squelch.NewLife()
	done := make(chan struct{})
	go func() {
		defer close(done)
		pipeline.Run(life)
	}()

	for i := 0; i < 3; i++ {
		in.Push(constant(0.1, 64))
	}
	for i := 0; i < 3; i++ {
		_, ok := out.Pop(time.Second)
		assert.True(t, ok)
	}

	life.Shutdown()
	<-done
	assert.Equal(t, 3, tap.frames)
}

func TestNoTapWritesAfterRunReturns(t *testing.T) {
	params := config.Default()
	params.Bandpass = false
	params.NoiseReduction = 0
	params.Stationary = false
	tap := &countingTap{}
	pipeline, in, out := newPipeline(params, dsp.WithTap(tap))

	life := squelch.NewLife()
	done := make(chan struct{})
	go func() {
		defer close(done)
		pipeline.Run(life)
	}()

	in.Push(constant(0.1, 64))
	_, ok := out.Pop(time.Second)
	assert.True(t, ok)

	life.Shutdown()
	<-done

	// a joined pipeline holds no in-flight tap writes
	written := tap.frames
	in.Push(constant(0.1, 64))
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, written, tap.frames)
}

type countingTap struct {
	frames int
}

func (t *countingTap) Write(squelch.Buffer) error {
	t.frames++
	return nil
}
