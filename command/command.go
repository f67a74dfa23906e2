// Package command implements the interactive control protocol: one command
// per line, parsed into a closed set of command kinds.
package command

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a command.
type Kind int

// The closed set of command kinds.
const (
	KindNone Kind = iota // blank line, no effect
	KindNoiseReduction
	KindVoiceLow
	KindVoiceHigh
	KindVoiceGain
	KindSpectralGate
	KindStationaryThreshold
	KindBandpass
	KindSpectralGating
	KindStationary
	KindNoise
	KindStatus
	KindHelp
	KindQuit
)

// Command is a parsed command with its validated argument.
type Command struct {
	Kind  Kind
	Value float64 // argument of numeric commands
	On    bool    // argument of toggle commands
}

// Help lists every command for the interactive session.
const Help = `
Available commands:
  /noise_reduction <0.0-1.0>  - Set noise reduction strength (e.g., 0.95 = 95%)
  /voice_low <Hz>             - Set lower voice frequency bound
  /voice_high <Hz>            - Set upper voice frequency bound
  /voice_gain <dB>            - Set voice gain boost (-20 to +20 dB)
  /spectral_gate <dB>         - Set spectral gating threshold
  /stationary_threshold <val> - Set stationary noise threshold
  /bandpass <on|off>          - Enable/disable bandpass filter
  /spectral_gating <on|off>   - Enable/disable spectral gating
  /stationary <on|off>        - Enable/disable stationary mode
  /noise <on|off>             - Enable/disable noise reduction
  /status                     - Show current settings
  /help                       - Show this help
  /quit                       - Exit the program
`

// Parse parses a single input line. Malformed and unknown commands are
// returned as errors carrying a usage hint; they cause no state change.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, nil
	}
	name := strings.ToLower(fields[0])
	switch name {
	case "/quit", "/exit", "/q":
		return Command{Kind: KindQuit}, nil
	case "/help", "/h":
		return Command{Kind: KindHelp}, nil
	case "/status", "/s":
		return Command{Kind: KindStatus}, nil
	case "/noise_reduction", "/nr":
		return numeric(KindNoiseReduction, fields, "/noise_reduction <0.0-1.0>")
	case "/voice_low", "/vl":
		return numeric(KindVoiceLow, fields, "/voice_low <Hz>")
	case "/voice_high", "/vh":
		return numeric(KindVoiceHigh, fields, "/voice_high <Hz>")
	case "/voice_gain", "/vg":
		return numeric(KindVoiceGain, fields, "/voice_gain <dB> (range: -20 to +20)")
	case "/spectral_gate", "/sg":
		return numeric(KindSpectralGate, fields, "/spectral_gate <dB>")
	case "/stationary_threshold", "/st":
		return numeric(KindStationaryThreshold, fields, "/stationary_threshold <value>")
	case "/bandpass", "/bp":
		return toggle(KindBandpass, fields, "/bandpass <on|off>")
	case "/spectral_gating", "/spg":
		return toggle(KindSpectralGating, fields, "/spectral_gating <on|off>")
	case "/stationary", "/stat":
		return toggle(KindStationary, fields, "/stationary <on|off>")
	case "/noise":
		return toggle(KindNoise, fields, "/noise <on|off>")
	}
	return Command{}, fmt.Errorf("unknown command: %s, type /help for available commands", name)
}

func numeric(kind Kind, fields []string, usage string) (Command, error) {
	if len(fields) < 2 {
		return Command{}, fmt.Errorf("usage: %s", usage)
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Command{}, fmt.Errorf("invalid number: %s", fields[1])
	}
	return Command{Kind: kind, Value: v}, nil
}

func toggle(kind Kind, fields []string, usage string) (Command, error) {
	if len(fields) < 2 {
		return Command{}, fmt.Errorf("usage: %s", usage)
	}
	switch strings.ToLower(fields[1]) {
	case "on", "1", "true", "enable":
		return Command{Kind: kind, On: true}, nil
	case "off", "0", "false", "disable":
		return Command{Kind: kind, On: false}, nil
	}
	return Command{}, fmt.Errorf("usage: %s", usage)
}
