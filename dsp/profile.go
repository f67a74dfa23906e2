package dsp

import "github.com/dudk/squelch"

// Profile accumulates the first frames of a run into a noise reference.
// It transitions from collecting to ready exactly once; after that the
// reference is immutable and no re-collection path exists.
type Profile struct {
	needed    int
	collected int
	frames    []squelch.Buffer
	reference squelch.Buffer
	ready     bool
}

// NewProfile returns a profile that becomes ready after samples frames.
func NewProfile(samples int) *Profile {
	if samples < 1 {
		samples = 1
	}
	return &Profile{needed: samples}
}

// Accumulate appends a copy of frame to the accumulator while collecting.
// It returns true on the single call that completes the profile.
func (p *Profile) Accumulate(frame squelch.Buffer) bool {
	if p.ready {
		return false
	}
	// copy: later stages mutate the frame in place
	p.frames = append(p.frames, frame.Clone())
	p.collected++
	if p.collected < p.needed {
		return false
	}
	var total int
	for _, f := range p.frames {
		total += len(f)
	}
	p.reference = make(squelch.Buffer, 0, total)
	for _, f := range p.frames {
		p.reference = append(p.reference, f...)
	}
	p.frames = nil
	p.ready = true
	return true
}

// Ready reports whether the profile holds a complete reference.
func (p *Profile) Ready() bool {
	return p.ready
}

// Reference returns the first n samples of the noise reference. The second
// return value is false while collecting or when the reference holds fewer
// than n samples.
func (p *Profile) Reference(n int) (squelch.Buffer, bool) {
	if !p.ready || len(p.reference) < n {
		return nil, false
	}
	return p.reference[:n], true
}
