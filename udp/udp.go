// Package udp receives the raw audio stream from the network.
package udp

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/dudk/squelch"
	"github.com/dudk/squelch/log"
	"github.com/dudk/squelch/relay"
)

const (
	// readBufferSize is the size of a single datagram read.
	readBufferSize = 65536

	// readTimeout bounds a blocking read so the lifecycle flag is observed.
	readTimeout = time.Second
)

// Receiver listens on a UDP port for headerless little-endian 16-bit mono
// PCM and pushes reassembled frames to the raw queue. Port 0 binds an
// ephemeral port, reported by Addr.
type Receiver struct {
	squelch.UID
	port      int
	frameSize squelch.BufferSize
	out       *relay.Queue[squelch.Buffer]
	log       log.Logger

	mu   sync.Mutex
	addr net.Addr
}

// NewReceiver returns a new receiver pushing frames of frameSize samples
// to out.
func NewReceiver(port int, frameSize squelch.BufferSize, out *relay.Queue[squelch.Buffer], l log.Logger) *Receiver {
	return &Receiver{
		UID:       squelch.NewUID(),
		port:      port,
		frameSize: frameSize,
		out:       out,
		log:       l,
	}
}

// Run binds the socket and receives until the lifecycle flag clears.
// A bind failure is returned to the caller; receive errors other than
// timeouts are logged and the loop continues.
func (r *Receiver) Run(life *squelch.Life) error {
	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", r.port))
	if err != nil {
		return fmt.Errorf("bind udp port %d: %w", r.port, err)
	}
	defer conn.Close()

	r.mu.Lock()
	r.addr = conn.LocalAddr()
	r.mu.Unlock()

	r.log.Info("listening for audio on ", conn.LocalAddr(), " id ", r.ID())

	asm := NewReassembler(r.frameSize)
	buf := make([]byte, readBufferSize)
	for life.Running() {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			r.log.Error("set read deadline: ", err)
		}
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if life.Running() {
				r.log.Error("receive: ", err)
			}
			continue
		}
		for _, frame := range asm.Write(buf[:n]) {
			r.out.Push(frame)
		}
	}
	return nil
}

// Addr returns the bound listen address, nil until Run binds the socket.
func (r *Receiver) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addr
}
