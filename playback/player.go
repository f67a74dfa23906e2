// Package playback drives the default output device from the processed
// stream.
package playback

import (
	"github.com/gordonklaus/portaudio"

	"github.com/dudk/squelch"
	"github.com/dudk/squelch/log"
	"github.com/dudk/squelch/relay"
)

// Latency is the stream latency hint.
type Latency string

// Supported latency hints.
const (
	LatencyHigh = Latency("high")
	LatencyLow  = Latency("low")
)

// Player owns the portaudio output stream. The hardware clock invokes the
// stream callback, which assembles samples without ever blocking.
type Player struct {
	squelch.UID
	rate      squelch.SampleRate
	blockSize squelch.BufferSize
	latency   Latency
	asm       *Assembler
	stream    *portaudio.Stream
	log       log.Logger
}

// NewPlayer returns a player pulling processed frames from in.
func NewPlayer(rate squelch.SampleRate, blockSize squelch.BufferSize, latency Latency, in *relay.Queue[squelch.Buffer], l log.Logger) *Player {
	return &Player{
		UID:       squelch.NewUID(),
		rate:      rate,
		blockSize: blockSize,
		latency:   latency,
		asm:       NewAssembler(in),
		log:       l,
	}
}

// Start initializes portaudio and opens a mono float32 callback stream on
// the default output device. Failure here is fatal to the output path and
// is returned to the caller.
func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	device, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return err
	}
	p.log.Info("output device: ", device.Name, " id ", p.ID())

	var params portaudio.StreamParameters
	if p.latency == LatencyLow {
		params = portaudio.LowLatencyParameters(nil, device)
	} else {
		params = portaudio.HighLatencyParameters(nil, device)
	}
	params.Output.Channels = 1
	params.SampleRate = float64(p.rate)
	params.FramesPerBuffer = int(p.blockSize)

	p.stream, err = portaudio.OpenStream(params, p.callback)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err = p.stream.Start(); err != nil {
		p.stream.Close()
		portaudio.Terminate()
		return err
	}
	return nil
}

// callback is invoked on the hardware clock. Status flags are logged and
// never halt delivery.
func (p *Player) callback(out []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
	if flags != 0 {
		p.log.Debug("stream flags: ", flags)
	}
	p.asm.Fill(out)
}

// Close stops the stream and terminates portaudio.
func (p *Player) Close() error {
	if p.stream == nil {
		return portaudio.Terminate()
	}
	err := p.stream.Stop()
	if cerr := p.stream.Close(); err == nil {
		err = cerr
	}
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
