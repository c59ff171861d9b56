package coding

import (
	"bytes"
	"testing"

	"github.com/fogedge/fogmesh/internal/config"
)

func TestSelectorPartitionsEntropyDomain(t *testing.T) {
	s := NewSelector(config.Default().Window)

	cases := []struct {
		entropy float64
		want    Decision
	}{
		{0.0, Decision{Simple, 2}},
		{3.99, Decision{Simple, 2}},
		{4.0, Decision{Fountain, 4}},
		{5.99, Decision{Fountain, 4}},
		{6.0, Decision{RLNC, 6}},
		{8.0, Decision{RLNC, 6}},
	}
	for _, c := range cases {
		got := s.Select(c.entropy)
		if got != c.want {
			t.Errorf("Select(%v) = %v, want %v", c.entropy, got, c.want)
		}
	}
}

func TestEncodeOutputLengthIsSumOfGroupMaxLengths(t *testing.T) {
	packets := [][]byte{
		{1, 2, 3},
		{4, 5},
		{6, 7, 8, 9},
		{10},
	}
	degree := 2

	out := Encode(packets, degree)

	wantLen := 3 + 4 // group1 max(3,2)=3, group2 max(4,1)=4
	if len(out) != wantLen {
		t.Fatalf("expected output length %d, got %d", wantLen, len(out))
	}
}

func TestEncodeEmptyWindowProducesEmptyOutput(t *testing.T) {
	out := Encode(nil, 4)
	if len(out) != 0 {
		t.Fatalf("expected empty output for empty window, got %d bytes", len(out))
	}
}

func TestEncodeSinglePacketGroupIsUnchanged(t *testing.T) {
	packets := [][]byte{{0xAB, 0xCD, 0xEF}}
	out := Encode(packets, 4)
	if !bytes.Equal(out, packets[0]) {
		t.Fatalf("expected single-packet group unchanged, got %x want %x", out, packets[0])
	}
}

func TestEncodeReconstructsRemainingPacket(t *testing.T) {
	// Re-XORing the codeword with all but one zero-padded member of the
	// group must reconstruct the remaining packet, zero-padded to the
	// group's max length.
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	group := [][]byte{a, b}

	codeword := xorGroup(group)

	reconstructed := make([]byte, len(codeword))
	copy(reconstructed, codeword)
	padded := make([]byte, len(codeword))
	copy(padded, a)
	for i := range reconstructed {
		reconstructed[i] ^= padded[i]
	}

	wantB := make([]byte, len(codeword))
	copy(wantB, b)
	if !bytes.Equal(reconstructed, wantB) {
		t.Fatalf("reconstruction mismatch: got %x want %x", reconstructed, wantB)
	}
}

func TestZeroEntropyWindowProducesZeroByteCodewords(t *testing.T) {
	packets := [][]byte{
		make([]byte, 1000),
		make([]byte, 1000),
		make([]byte, 1000),
		make([]byte, 1000),
	}
	out := Encode(packets, 2)
	for _, b := range out {
		if b != 0 {
			t.Fatal("expected all-zero codeword bytes for all-zero packets")
		}
	}
	if len(out) != 2000 {
		t.Fatalf("expected 2 groups of length 1000 each, got %d total bytes", len(out))
	}
}
