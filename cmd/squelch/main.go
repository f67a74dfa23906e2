// Command squelch receives raw PCM audio over UDP, applies configurable
// noise reduction and plays the result on the default output device.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dudk/squelch"
	"github.com/dudk/squelch/command"
	"github.com/dudk/squelch/config"
	"github.com/dudk/squelch/dsp"
	"github.com/dudk/squelch/log"
	"github.com/dudk/squelch/mp3"
	"github.com/dudk/squelch/playback"
	"github.com/dudk/squelch/relay"
	"github.com/dudk/squelch/udp"
	"github.com/dudk/squelch/wav"
)

const (
	defaultPort       = 7355
	defaultSampleRate = 48000
	defaultFrameSize  = 2048
	defaultBlockSize  = 1024

	rawQueueCapacity = 10
	// deeper than the raw queue: smooths jitter before the hardware-clocked
	// stage
	processedQueueCapacity = 20

	mp3BitRate = 192
	mp3Quality = 2

	successExitCode = 0
	errorExitCode   = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("squelch", flag.ExitOnError)
	var (
		port       = fs.Int("port", defaultPort, "UDP port to listen on")
		sampleRate = fs.Int("sample-rate", defaultSampleRate, "sample rate of the incoming stream in Hz")
		frameSize  = fs.Int("frame-size", defaultFrameSize, "samples per processing frame")
		blockSize  = fs.Int("block-size", defaultBlockSize, "samples per playback block")
		latency    = fs.String("latency", "high", "playback latency hint: high or low")

		reduction      = fs.Float64("noise-reduction", 0.95, "noise reduction strength (0.0-1.0)")
		voiceLow       = fs.Float64("voice-low", 80, "lower bound for voice frequencies in Hz")
		voiceHigh      = fs.Float64("voice-high", 8000, "upper bound for voice frequencies in Hz")
		voiceGain      = fs.Float64("voice-gain", 0, "voice gain boost in dB (-20 to +20)")
		spectralGate   = fs.Float64("spectral-gate", -35, "spectral gating threshold in dB")
		profileSamples = fs.Int("noise-profile-samples", 5, "number of initial frames to use for noise profile")
		stationaryTh   = fs.Float64("stationary-threshold", 2.5, "stationary noise reduction threshold")
		noBandpass     = fs.Bool("no-bandpass", false, "disable bandpass filtering")
		spectralGating = fs.Bool("spectral-gating", false, "enable spectral gating")
		noStationary   = fs.Bool("no-stationary", false, "disable stationary noise reduction mode")

		recordWav = fs.String("record-wav", "", "record processed audio to a wav file")
		recordMp3 = fs.String("record-mp3", "", "record processed audio to an mp3 file")
	)
	if err := fs.Parse(args); err != nil {
		return errorExitCode
	}

	rate := squelch.SampleRate(*sampleRate)
	params := config.Params{
		NoiseReduction:      *reduction,
		VoiceLow:            *voiceLow,
		VoiceHigh:           *voiceHigh,
		VoiceGain:           *voiceGain,
		SpectralGate:        *spectralGate,
		ProfileSamples:      *profileSamples,
		StationaryThreshold: *stationaryTh,
		Bandpass:            !*noBandpass,
		SpectralGating:      *spectralGating,
		Stationary:          !*noStationary,
		Enabled:             true,
	}
	if err := validate(params, rate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errorExitCode
	}

	logger := log.GetLogger()
	logger.Info("squelch noise reduction processor")
	logger.Info("UDP port: ", *port)
	logger.Info("sample rate: ", rate, " Hz")

	life := squelch.NewLife()
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info("shutting down")
		life.Shutdown()
	}()

	store := config.NewStore(params, rate)
	raw := relay.New[squelch.Buffer](rawQueueCapacity)
	processed := relay.New[squelch.Buffer](processedQueueCapacity)

	var options []dsp.Option
	if *recordWav != "" {
		sink, err := wav.NewSink(*recordWav, rate, 16)
		if err == nil {
			err = sink.Open()
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "record wav: ", err)
			return errorExitCode
		}
		defer sink.Flush()
		options = append(options, dsp.WithTap(sink))
	}
	if *recordMp3 != "" {
		sink := mp3.NewSink(*recordMp3, rate, mp3BitRate, mp3Quality)
		if err := sink.Open(); err != nil {
			fmt.Fprintln(os.Stderr, "record mp3: ", err)
			return errorExitCode
		}
		defer sink.Flush()
		options = append(options, dsp.WithTap(sink))
	}

	receiver := udp.NewReceiver(*port, squelch.BufferSize(*frameSize), raw, logger)
	pipeline := dsp.New(store, raw, processed, logger, options...)
	player := playback.NewPlayer(rate, squelch.BufferSize(*blockSize), playback.Latency(*latency), processed, logger)
	session := command.NewSession(store, os.Stdin, os.Stdout, logger)

	go func() {
		if err := receiver.Run(life); err != nil {
			logger.Error("receiver: ", err)
			life.Shutdown()
		}
	}()
	// joined before the deferred sink flushes: taps must not be written
	// to a closed encoder
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		pipeline.Run(life)
	}()
	go session.Run(life)

	if err := player.Start(); err != nil {
		logger.Error("failed to open playback device: ", err)
		life.Shutdown()
		return errorExitCode
	}
	defer player.Close()

	<-life.Done()
	<-pipelineDone
	return successExitCode
}

// validate mirrors the interactive validation rules for start parameters.
func validate(p config.Params, rate squelch.SampleRate) error {
	if p.NoiseReduction < 0 || p.NoiseReduction > 1 {
		return fmt.Errorf("-noise-reduction must be between 0.0 and 1.0")
	}
	if p.VoiceLow >= p.VoiceHigh {
		return fmt.Errorf("-voice-low must be less than -voice-high")
	}
	if p.VoiceLow < 0 || p.VoiceHigh > rate.Nyquist() {
		return fmt.Errorf("voice frequencies must be between 0 and %g Hz", rate.Nyquist())
	}
	if p.ProfileSamples < 1 {
		return fmt.Errorf("-noise-profile-samples must be at least 1")
	}
	if p.VoiceGain < -20 || p.VoiceGain > 20 {
		return fmt.Errorf("-voice-gain must be between -20.0 and +20.0 dB")
	}
	return nil
}
