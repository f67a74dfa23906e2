package command

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dudk/squelch"
	"github.com/dudk/squelch/config"
	"github.com/dudk/squelch/log"
)

// Session reads commands line by line and applies them to the configuration
// store. Validation failures are reported to the session output only.
type Session struct {
	store *config.Store
	in    io.Reader
	out   io.Writer
	log   log.Logger
}

// NewSession returns a session mutating store.
func NewSession(store *config.Store, in io.Reader, out io.Writer, l log.Logger) *Session {
	return &Session{store: store, in: in, out: out, log: l}
}

// Run blocks on input lines until end of input or /quit, then clears the
// lifecycle flag.
func (s *Session) Run(life *squelch.Life) {
	fmt.Fprintln(s.out, "Interactive command prompt ready. Type /help for commands.")
	scanner := bufio.NewScanner(s.in)
	for life.Running() && scanner.Scan() {
		cmd, err := Parse(scanner.Text())
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		if cmd.Kind == KindQuit {
			break
		}
		s.apply(cmd)
	}
	if err := scanner.Err(); err != nil {
		s.log.Error("command input: ", err)
	}
	life.Shutdown()
}

// apply executes a parsed command against the store.
func (s *Session) apply(cmd Command) {
	switch cmd.Kind {
	case KindNone:
	case KindHelp:
		fmt.Fprint(s.out, Help)
	case KindStatus:
		fmt.Fprint(s.out, s.store.Snapshot().Status())
	case KindNoiseReduction:
		if cmd.Value < 0 || cmd.Value > 1 {
			fmt.Fprintln(s.out, "noise reduction must be between 0.0 and 1.0")
			return
		}
		s.store.SetNoiseReduction(cmd.Value)
		fmt.Fprintf(s.out, "Noise reduction set to %.1f%%\n", cmd.Value*100)
	case KindVoiceLow:
		if err := s.store.SetVoiceLow(cmd.Value); err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		fmt.Fprintf(s.out, "Voice low frequency set to %g Hz\n", cmd.Value)
	case KindVoiceHigh:
		if err := s.store.SetVoiceHigh(cmd.Value); err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		fmt.Fprintf(s.out, "Voice high frequency set to %g Hz\n", cmd.Value)
	case KindVoiceGain:
		if cmd.Value < -20 || cmd.Value > 20 {
			fmt.Fprintln(s.out, "voice gain must be between -20 and +20 dB")
			return
		}
		s.store.SetVoiceGain(cmd.Value)
		fmt.Fprintf(s.out, "Voice gain set to %+.1f dB\n", cmd.Value)
	case KindSpectralGate:
		s.store.SetSpectralGate(cmd.Value)
		fmt.Fprintf(s.out, "Spectral gate threshold set to %g dB\n", cmd.Value)
	case KindStationaryThreshold:
		s.store.SetStationaryThreshold(cmd.Value)
		fmt.Fprintf(s.out, "Stationary threshold set to %g\n", cmd.Value)
	case KindBandpass:
		s.store.SetBandpass(cmd.On)
		fmt.Fprintf(s.out, "Bandpass filter %s\n", onOff(cmd.On))
	case KindSpectralGating:
		s.store.SetSpectralGating(cmd.On)
		fmt.Fprintf(s.out, "Spectral gating %s\n", onOff(cmd.On))
	case KindStationary:
		s.store.SetStationary(cmd.On)
		fmt.Fprintf(s.out, "Stationary mode %s\n", onOff(cmd.On))
	case KindNoise:
		s.store.SetEnabled(cmd.On)
		fmt.Fprintf(s.out, "Noise reduction %s\n", onOff(cmd.On))
	}
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}
