package udp_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/squelch"
	"github.com/dudk/squelch/udp"
)

// payload encodes int16 little-endian samples.
func payload(samples ...int16) []byte {
	p := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(s))
	}
	return p
}

func TestExactFrame(t *testing.T) {
	const frameSize = 4
	r := udp.NewReassembler(frameSize)

	frames := r.Write(payload(0, 16384, -16384, -32768))
	assert.Equal(t, 1, len(frames))
	assert.Equal(t, squelch.Buffer{0, 0.5, -0.5, -1}, frames[0])
	assert.Equal(t, 0, r.Pending())
}

func TestFragmentedPayloads(t *testing.T) {
	const frameSize = 4
	r := udp.NewReassembler(frameSize)

	// 3 samples: not enough for a frame
	frames := r.Write(payload(1, 2, 3))
	assert.Equal(t, 0, len(frames))
	assert.Equal(t, 6, r.Pending())

	// 3 more: one frame out, 2 samples carry over
	frames = r.Write(payload(4, 5, 6))
	assert.Equal(t, 1, len(frames))
	assert.Equal(t, frameSize, len(frames[0]))
	assert.Equal(t, 4, r.Pending())

	// split mid-sample
	half := payload(7, 8)
	frames = r.Write(half[:3])
	assert.Equal(t, 0, len(frames))
	frames = r.Write(half[3:])
	assert.Equal(t, 1, len(frames))
	assert.Equal(t, frameSize, len(frames[0]))
	assert.Equal(t, 0, r.Pending())
}

func TestMultipleFramesPerPayload(t *testing.T) {
	const frameSize = 2
	r := udp.NewReassembler(frameSize)

	frames := r.Write(payload(1, 2, 3, 4, 5))
	assert.Equal(t, 2, len(frames))
	for _, f := range frames {
		assert.Equal(t, frameSize, len(f))
	}
	assert.Equal(t, 2, r.Pending())
}

func TestFrameOrderPreserved(t *testing.T) {
	const frameSize = 1
	r := udp.NewReassembler(frameSize)

	frames := r.Write(payload(16384, -16384))
	assert.Equal(t, squelch.Buffer{0.5}, frames[0])
	assert.Equal(t, squelch.Buffer{-0.5}, frames[1])
}
