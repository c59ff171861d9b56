package transport

import (
	"fmt"
	"io"
	"net"
	"time"
)

// maxDirectiveBytes bounds how much of the cloud's response is read back,
// mirroring the size-limited body read the reference HTTP client used for
// responses, adapted here to a raw socket reply.
const maxDirectiveBytes = 1 << 16

// CloudClient sends one framed window message per call and reads back the
// cloud's directive reply. Every call opens a fresh connection, sends,
// receives, and closes — there is no connection reuse and no retry: a
// failed send or receive discards that window's work, per the design's
// no-retry egress policy.
type CloudClient struct {
	addr    string
	timeout time.Duration
}

// NewCloudClient returns a client dialing addr with the given
// connect/send/receive timeout.
func NewCloudClient(addr string, timeout time.Duration) *CloudClient {
	return &CloudClient{addr: addr, timeout: timeout}
}

// Send dials the cloud, writes frame, and returns its raw reply bytes
// (either a JSON directive or the literal FormatError). Any failure at any
// stage returns a non-nil error and no partial result.
func (c *CloudClient) Send(frame []byte) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("transport: set deadline: %w", err)
	}

	if _, err := conn.Write(frame); err != nil {
		return nil, fmt.Errorf("transport: write frame: %w", err)
	}

	reply, err := readLimited(conn, maxDirectiveBytes)
	if err != nil {
		return nil, fmt.Errorf("transport: read reply: %w", err)
	}
	return reply, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, err
	}
	return buf, nil
}
