package fognode

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/fogedge/fogmesh/internal/config"
	"github.com/fogedge/fogmesh/internal/frame"
)

// stubCloud accepts exactly one connection, captures the frame it received,
// and replies with a fixed directive.
func stubCloud(t *testing.T, reply []byte) (addr string, received chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	received = make(chan []byte, 1)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer ln.Close()
		defer conn.Close()

		buf := make([]byte, 1<<20)
		n, _ := conn.Read(buf)
		cp := make([]byte, n)
		copy(cp, buf[:n])
		received <- cp
		conn.Write(reply)
	}()

	return ln.Addr().String(), received
}

func testConfig(cloudAddr string) *config.Config {
	cfg := config.Default()
	cfg.Window.Size = 3
	cfg.Network.CloudDialAddr = cloudAddr
	cfg.Network.CloudEgressTimeout = 2 * time.Second
	cfg.RandSeed = 7
	return cfg
}

func TestNodeProcessesFullWindowAndDeliversFrame(t *testing.T) {
	directive := []byte(`{"adjust_dt":1,"message":"ok","aggregated_metrics":{}}`)
	addr, received := stubCloud(t, directive)

	n := New(testConfig(addr), nil, nil, nil)

	n.HandlePacket("peer", []byte("aaaa"))
	n.HandlePacket("peer", []byte("bbbb"))
	n.HandlePacket("peer", []byte("cccc"))

	select {
	case raw := <-received:
		_, metaJSON, err := frame.Split(raw)
		if err != nil {
			t.Fatalf("expected well-formed frame, got split error: %v", err)
		}
		if !bytes.Contains(metaJSON, []byte("current_entropy")) {
			t.Fatalf("expected metadata JSON to contain current_entropy, got %s", metaJSON)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fog node to deliver a frame")
	}

	n.Close(time.Second)
}

func TestNodeDoesNotProcessBelowWindowSize(t *testing.T) {
	addr, received := stubCloud(t, []byte(`{}`))
	n := New(testConfig(addr), nil, nil, nil)

	n.HandlePacket("peer", []byte("aaaa"))
	n.HandlePacket("peer", []byte("bbbb"))

	select {
	case <-received:
		t.Fatal("expected no delivery before the window fills")
	case <-time.After(100 * time.Millisecond):
	}

	n.Close(time.Second)
}

func TestNodeIgnoresEmptyPackets(t *testing.T) {
	addr, received := stubCloud(t, []byte(`{}`))
	n := New(testConfig(addr), nil, nil, nil)

	n.HandlePacket("peer", nil)
	n.HandlePacket("peer", []byte("aaaa"))
	n.HandlePacket("peer", []byte("bbbb"))
	n.HandlePacket("peer", []byte("cccc"))

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fog node to deliver a frame")
	}

	n.Close(time.Second)
}
