package window

import "testing"

func TestAcceptDetachesAtWindowSize(t *testing.T) {
	b := New(3)

	for i := 0; i < 2; i++ {
		packets, _, ok := b.Accept([]byte{byte(i)})
		if ok {
			t.Fatalf("expected no detach before window fills, got packets=%v", packets)
		}
	}

	packets, idx, ok := b.Accept([]byte{2})
	if !ok {
		t.Fatal("expected detach on the third accept")
	}
	if len(packets) != 3 {
		t.Fatalf("expected 3 packets detached, got %d", len(packets))
	}
	if idx != 0 {
		t.Fatalf("expected first window index 0, got %d", idx)
	}
	if b.Len() != 0 {
		t.Fatalf("expected buffer empty after detach, got len %d", b.Len())
	}
}

func TestAcceptIgnoresEmptyPackets(t *testing.T) {
	b := New(2)

	if _, _, ok := b.Accept(nil); ok {
		t.Fatal("empty packet must never trigger detach")
	}
	if b.Len() != 0 {
		t.Fatalf("empty packet must not be buffered, got len %d", b.Len())
	}
}

func TestWindowIndexIncrementsAcrossDetaches(t *testing.T) {
	b := New(1)

	_, idx0, ok := b.Accept([]byte{1})
	if !ok || idx0 != 0 {
		t.Fatalf("expected first window index 0, got idx=%d ok=%v", idx0, ok)
	}

	_, idx1, ok := b.Accept([]byte{2})
	if !ok || idx1 != 1 {
		t.Fatalf("expected second window index 1, got idx=%d ok=%v", idx1, ok)
	}
}
