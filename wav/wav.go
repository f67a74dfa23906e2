// Package wav records the processed stream to a wav file.
package wav

import (
	"errors"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dudk/squelch"
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")

// pcm wav audio format.
const wavFormat = 1

// Sink saves audio to a mono wav file. It implements the pipeline tap.
type Sink struct {
	path     string
	rate     squelch.SampleRate
	bitDepth int
	file     *os.File
	encoder  *wav.Encoder
	ints     *audio.IntBuffer
}

// NewSink creates a new wav sink.
func NewSink(path string, rate squelch.SampleRate, bitDepth int) (*Sink, error) {
	if bitDepth != 16 && bitDepth != 32 {
		return nil, ErrUnsupportedBitDepth
	}
	return &Sink{
		path:     path,
		rate:     rate,
		bitDepth: bitDepth,
	}, nil
}

// Open creates the file and the encoder.
func (s *Sink) Open() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	s.file = f
	s.encoder = wav.NewEncoder(f, int(s.rate), s.bitDepth, 1, wavFormat)
	s.ints = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  int(s.rate),
		},
		SourceBitDepth: s.bitDepth,
	}
	return nil
}

// Write encodes one processed frame.
func (s *Sink) Write(b squelch.Buffer) error {
	multiplier := float64(int(1)<<(s.bitDepth-1) - 1)
	if cap(s.ints.Data) < len(b) {
		s.ints.Data = make([]int, len(b))
	}
	s.ints.Data = s.ints.Data[:len(b)]
	for i := range b {
		s.ints.Data[i] = int(float64(b[i]) * multiplier)
	}
	return s.encoder.Write(s.ints)
}

// Flush flushes encoder and closes the file.
func (s *Sink) Flush() error {
	err := s.encoder.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}
