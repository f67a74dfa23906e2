package wav_test

import (
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"

	"github.com/dudk/squelch"
	"github.com/dudk/squelch/wav"
)

func TestNewSinkBitDepth(t *testing.T) {
	_, err := wav.NewSink("out.wav", 48000, 24)
	assert.Equal(t, wav.ErrUnsupportedBitDepth, err)

	_, err = wav.NewSink("out.wav", 48000, 16)
	assert.NoError(t, err)
	_, err = wav.NewSink("out.wav", 48000, 32)
	assert.NoError(t, err)
}

func TestSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	sink, err := wav.NewSink(path, 48000, 16)
	assert.NoError(t, err)
	assert.NoError(t, sink.Open())

	frame := squelch.Buffer{0, 0.5, -0.5, 1}
	assert.NoError(t, sink.Write(frame))
	assert.NoError(t, sink.Write(frame))
	assert.NoError(t, sink.Flush())

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	decoder := gowav.NewDecoder(f)
	buf, err := decoder.FullPCMBuffer()
	assert.NoError(t, err)
	assert.Equal(t, 1, buf.Format.NumChannels)
	assert.Equal(t, 48000, buf.Format.SampleRate)
	assert.Equal(t, 8, len(buf.Data))
	assert.InDelta(t, 0.5, float64(buf.Data[1])/32767, 1e-3)
}
