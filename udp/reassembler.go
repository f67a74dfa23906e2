package udp

import "github.com/dudk/squelch"

// Reassembler turns an arbitrarily fragmented byte stream into fixed-length
// audio frames. Bytes left over after slicing complete frames carry forward
// to the next write.
type Reassembler struct {
	frameBytes int
	buf        []byte
}

// NewReassembler returns a reassembler emitting frames of frameSize samples.
func NewReassembler(frameSize squelch.BufferSize) *Reassembler {
	return &Reassembler{frameBytes: int(frameSize) * squelch.SampleWidth}
}

// Write appends payload to the accumulator and returns every complete frame
// it now holds, decoded to normalized samples. Frames are always exactly the
// configured length.
func (r *Reassembler) Write(payload []byte) []squelch.Buffer {
	r.buf = append(r.buf, payload...)
	var frames []squelch.Buffer
	for len(r.buf) >= r.frameBytes {
		frames = append(frames, squelch.DecodeInt16LE(r.buf[:r.frameBytes]))
		r.buf = r.buf[r.frameBytes:]
	}
	if len(r.buf) == 0 {
		r.buf = nil
	}
	return frames
}

// Pending returns the number of accumulated bytes not yet forming a frame.
func (r *Reassembler) Pending() int {
	return len(r.buf)
}
