/*
Package squelch implements a real-time streaming noise reduction pipeline
for narrowband voice audio.

Raw 16-bit PCM arrives over UDP, is reassembled into fixed-size frames,
processed with a configurable chain of bandpass filtering, noise reduction,
spectral gating and gain staging, and played back on the default output
device. Processing parameters are mutated live through an interactive
command session without interrupting playback.

The pipeline runs as independent tasks connected with bounded relay queues:

	udp.Receiver -> relay.Queue -> dsp.Pipeline -> relay.Queue -> playback.Player

Queues evict their oldest element on overflow, bounding memory and
prioritizing freshness over completeness. Every task observes a shared
lifecycle flag with bounded timeouts, so shutdown latency is bounded by the
largest per-task timeout.
*/
package squelch
