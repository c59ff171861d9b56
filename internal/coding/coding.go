// Package coding selects a network-coding scheme from a window's entropy
// and performs the group-wise exclusive-or encoding itself.
package coding

import "github.com/fogedge/fogmesh/internal/config"

// Scheme names the network-coding family chosen for a window.
type Scheme string

const (
	Simple   Scheme = "Simple"
	Fountain Scheme = "Fountain"
	RLNC     Scheme = "RLNC"
)

// Decision is the (scheme, degree) pair derived deterministically from a
// window's entropy.
type Decision struct {
	Scheme Scheme
	Degree int
}

// Selector maps WindowEntropy to a Decision via two fixed thresholds.
type Selector struct {
	hLow, hMed float64
}

// NewSelector returns a Selector using the given thresholds.
func NewSelector(cfg config.Window) Selector {
	return Selector{hLow: cfg.HLow, hMed: cfg.HMed}
}

// Select is total and deterministic: the three regions (-inf, hLow),
// [hLow, hMed), [hMed, +inf) strictly partition the reals.
func (s Selector) Select(windowEntropy float64) Decision {
	switch {
	case windowEntropy < s.hLow:
		return Decision{Scheme: Simple, Degree: 2}
	case windowEntropy < s.hMed:
		return Decision{Scheme: Fountain, Degree: 4}
	default:
		return Decision{Scheme: RLNC, Degree: 6}
	}
}

// Encode partitions packets into ceil(len(packets)/degree) contiguous
// groups of up to degree packets, zero-pads each group's packets to the
// group's maximum length, XOR-folds them, and concatenates the group
// codewords in group order.
func Encode(packets [][]byte, degree int) []byte {
	if len(packets) == 0 {
		return []byte{}
	}

	var out []byte
	for start := 0; start < len(packets); start += degree {
		end := start + degree
		if end > len(packets) {
			end = len(packets)
		}
		out = append(out, xorGroup(packets[start:end])...)
	}
	return out
}

func xorGroup(group [][]byte) []byte {
	maxLen := 0
	for _, p := range group {
		if len(p) > maxLen {
			maxLen = len(p)
		}
	}

	codeword := make([]byte, maxLen)
	for _, p := range group {
		for i, b := range p {
			codeword[i] ^= b
		}
	}
	return codeword
}
