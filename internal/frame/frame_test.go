package frame

import (
	"bytes"
	"testing"
)

func TestSplitFrameRoundTrip(t *testing.T) {
	raw := []byte(`ABC||{"x":1}`)

	payload, meta, err := Split(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(payload, []byte("ABC")) {
		t.Fatalf("expected payload ABC, got %q", payload)
	}
	if !bytes.Equal(meta, []byte(`{"x":1}`)) {
		t.Fatalf("expected metadata {\"x\":1}, got %q", meta)
	}
}

func TestSplitMissingSeparatorReturnsErrMalformed(t *testing.T) {
	_, _, err := Split([]byte("no separator here"))
	if err != ErrMalformed {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestSplitUsesFirstOccurrence(t *testing.T) {
	raw := []byte("a||b||c")
	payload, meta, err := Split(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(payload, []byte("a")) {
		t.Fatalf("expected payload 'a', got %q", payload)
	}
	if !bytes.Equal(meta, []byte("b||c")) {
		t.Fatalf("expected metadata 'b||c', got %q", meta)
	}
}

func TestJoinThenSplitRecoversOriginalHalves(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	meta := []byte(`{"y":2}`)

	framed := Join(payload, meta)
	gotPayload, gotMeta, err := Split(framed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Fatalf("payload mismatch: got %x want %x", gotPayload, payload)
	}
	if !bytes.Equal(gotMeta, meta) {
		t.Fatalf("metadata mismatch: got %q want %q", gotMeta, meta)
	}
}
