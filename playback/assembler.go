package playback

import (
	"github.com/dudk/squelch"
	"github.com/dudk/squelch/relay"
)

// Assembler satisfies fixed-size hardware requests from an irregular supply
// of processed frames. It is owned exclusively by the stream callback and
// needs no locking.
type Assembler struct {
	in       *relay.Queue[squelch.Buffer]
	leftover squelch.Buffer
}

// NewAssembler returns an assembler pulling from in.
func NewAssembler(in *relay.Queue[squelch.Buffer]) *Assembler {
	return &Assembler{in: in}
}

// Fill writes exactly len(out) samples without blocking. It tops up the
// leftover buffer with non-blocking dequeues, pads any deficit with silence
// and carries the remainder to the next call. An oversized frame drains
// over subsequent calls.
func (a *Assembler) Fill(out []float32) {
	for len(a.leftover) < len(out) {
		frame, ok := a.in.TryPop()
		if !ok {
			deficit := len(out) - len(a.leftover)
			a.leftover = append(a.leftover, make(squelch.Buffer, deficit)...)
			break
		}
		a.leftover = append(a.leftover, frame...)
	}
	copy(out, a.leftover[:len(out)])
	rest := copy(a.leftover, a.leftover[len(out):])
	a.leftover = a.leftover[:rest]
}

// Pending returns the number of samples carried over from previous calls.
func (a *Assembler) Pending() int {
	return len(a.leftover)
}
