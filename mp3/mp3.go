// Package mp3 records the processed stream to an mp3 file.
package mp3

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/viert/lame"

	"github.com/dudk/squelch"
)

// int16 full scale for float to pcm conversion.
const multiplier = 1<<15 - 1

// Sink saves audio to a mono mp3 file. It implements the pipeline tap.
type Sink struct {
	path    string
	rate    squelch.SampleRate
	bitRate int
	quality int
	file    *os.File
	writer  *lame.LameWriter
}

// NewSink creates a new mp3 sink.
func NewSink(path string, rate squelch.SampleRate, bitRate, quality int) *Sink {
	return &Sink{
		path:    path,
		rate:    rate,
		bitRate: bitRate,
		quality: quality,
	}
}

// Open creates the file and initializes the encoder.
func (s *Sink) Open() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	s.file = f
	s.writer = lame.NewWriter(f)
	s.writer.Encoder.SetBitrate(s.bitRate)
	s.writer.Encoder.SetQuality(s.quality)
	s.writer.Encoder.SetNumChannels(1)
	s.writer.Encoder.SetInSamplerate(int(s.rate))
	s.writer.Encoder.SetMode(lame.MONO)
	s.writer.Encoder.SetVBR(lame.VBR_RH)
	s.writer.Encoder.InitParams()
	return nil
}

// Write encodes one processed frame.
func (s *Sink) Write(b squelch.Buffer) error {
	buf := new(bytes.Buffer)
	for i := range b {
		if err := binary.Write(buf, binary.LittleEndian, int16(float64(b[i])*multiplier)); err != nil {
			return err
		}
	}
	_, err := s.writer.Write(buf.Bytes())
	return err
}

// Flush cleans up encoder buffers and closes the file.
func (s *Sink) Flush() error {
	err := s.writer.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}
