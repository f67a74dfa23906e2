package squelch

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/rs/xid"
)

// SampleWidth is the width of a single transported sample in bytes.
const SampleWidth = 2

// epsilon avoids log of zero when converting signal levels to decibels.
const epsilon = 1e-10

type (
	// SampleRate is the number of samples per second.
	SampleRate int

	// BufferSize is the number of samples in a single buffer.
	BufferSize int

	// Buffer is a mono signal buffer with samples normalized to [-1, 1].
	Buffer []float32
)

// Nyquist returns half of the sample rate, the highest representable
// frequency.
func (rate SampleRate) Nyquist() float64 {
	return float64(rate) / 2
}

// DecodeInt16LE decodes little-endian signed 16-bit samples into a
// normalized buffer. Trailing odd bytes are ignored.
func DecodeInt16LE(data []byte) Buffer {
	b := make(Buffer, len(data)/SampleWidth)
	for i := range b {
		s := int16(binary.LittleEndian.Uint16(data[i*SampleWidth:]))
		b[i] = float32(s) / 32768.0
	}
	return b
}

// RMS returns the root-mean-square level of the buffer.
func (b Buffer) RMS() float64 {
	if len(b) == 0 {
		return 0
	}
	var sum float64
	for _, v := range b {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(b)))
}

// Scale multiplies every sample by g in place.
func (b Buffer) Scale(g float64) {
	for i := range b {
		b[i] = float32(float64(b[i]) * g)
	}
}

// Clip hard-limits every sample to [-1, 1] in place.
func (b Buffer) Clip() {
	for i := range b {
		if b[i] > 1 {
			b[i] = 1
		} else if b[i] < -1 {
			b[i] = -1
		}
	}
}

// Clone returns a copy of the buffer.
func (b Buffer) Clone() Buffer {
	if b == nil {
		return nil
	}
	c := make(Buffer, len(b))
	copy(c, b)
	return c
}

// LinearToDecibel converts a linear signal level to decibels.
func LinearToDecibel(v float64) float64 {
	return 20 * math.Log10(v+epsilon)
}

// DecibelToLinear converts decibels to a linear gain multiplier.
func DecibelToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// UID is a unique component identifier used in logs.
type UID struct {
	id string
}

// NewUID returns a new unique id value.
func NewUID() UID {
	return UID{id: xid.New().String()}
}

// ID returns string value of unique identifier.
func (u UID) ID() string {
	return u.id
}

// Life is a process-wide lifecycle flag. It is set at startup and cleared
// exactly once at shutdown. Every loop observes it cooperatively as its
// termination condition.
type Life struct {
	once sync.Once
	done chan struct{}
}

// NewLife returns a running lifecycle flag.
func NewLife() *Life {
	return &Life{done: make(chan struct{})}
}

// Running reports whether the flag is still set.
func (l *Life) Running() bool {
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed on shutdown.
func (l *Life) Done() <-chan struct{} {
	return l.done
}

// Shutdown clears the flag. Safe to call multiple times.
func (l *Life) Shutdown() {
	l.once.Do(func() {
		close(l.done)
	})
}
