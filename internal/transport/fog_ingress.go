// Package transport implements the raw reliable-stream servers and client
// connecting fog and cloud tiers. There is no HTTP framing; each side reads
// and writes length-implicit byte bodies directly on the socket.
package transport

import (
	"context"
	"net"
	"time"

	"github.com/fogedge/fogmesh/internal/logging"
)

// ackMessage is written after every successfully ingested packet body.
const ackMessage = "Received data successfully"

// maxPacketBytes bounds a single read to guard against a misbehaving or
// hostile producer exhausting memory on one connection.
const maxPacketBytes = 1 << 20

// PacketHandler is invoked once per successfully read packet body. It must
// not block for long, since it runs on the connection's own goroutine.
type PacketHandler func(remoteAddr string, packet []byte)

// FogIngressServer accepts IoT producer connections and dispatches each
// read packet body to a PacketHandler, acknowledging it on the same
// connection. Each connection is served by its own goroutine; the accept
// loop itself runs on the caller's goroutine until ctx is cancelled.
type FogIngressServer struct {
	addr        string
	idleTimeout time.Duration
	onPacket    PacketHandler
	logger      *logging.Logger
}

// NewFogIngressServer returns a server listening on addr with the given
// per-connection idle read timeout.
func NewFogIngressServer(addr string, idleTimeout time.Duration, onPacket PacketHandler, logger *logging.Logger) *FogIngressServer {
	if logger == nil {
		logger = logging.Noop()
	}
	return &FogIngressServer{addr: addr, idleTimeout: idleTimeout, onPacket: onPacket, logger: logger}
}

// ListenAndServe binds addr and serves connections until ctx is cancelled
// or the listener fails. It is an accept-thread-per-listener model: each
// accepted connection gets its own ingest goroutine.
func (s *FogIngressServer) ListenAndServe(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				s.logger.TransportError(s.addr, "accept", err)
				return err
			}
		}
		go s.handleConn(conn)
	}
}

func (s *FogIngressServer) handleConn(conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Recovered("fog_ingress.handleConn", r)
		}
	}()
	defer conn.Close()

	remoteAddr := conn.RemoteAddr().String()
	buf := make([]byte, maxPacketBytes)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
			s.logger.TransportError(remoteAddr, "set_read_deadline", err)
			return
		}

		n, err := conn.Read(buf)
		if n > 0 {
			packet := make([]byte, n)
			copy(packet, buf[:n])
			s.onPacket(remoteAddr, packet)
			if _, werr := conn.Write([]byte(ackMessage)); werr != nil {
				s.logger.TransportError(remoteAddr, "write_ack", werr)
				return
			}
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return
			}
			s.logger.TransportError(remoteAddr, "read", err)
			return
		}
	}
}
