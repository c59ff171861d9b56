// Package window accumulates packets into fixed-size batches and hands
// each off for processing as soon as it fills.
package window

import "sync"

// Buffer accepts packets one at a time under mutual exclusion and detaches
// a full window as soon as it reaches the configured size, without
// blocking the producer.
type Buffer struct {
	mu      sync.Mutex
	size    int
	packets [][]byte
	index   int64
}

// New returns an empty Buffer that detaches windows of the given size.
// Size must be positive.
func New(size int) *Buffer {
	return &Buffer{size: size}
}

// Accept appends one packet. Empty packets are ignored. If the append
// fills the window, the accumulated packets are detached and returned
// along with their assigned window index and ok=true; the buffer resets
// to empty. Otherwise ok is false and packets is nil.
func (b *Buffer) Accept(packet []byte) (packets [][]byte, windowIndex int64, ok bool) {
	if len(packet) == 0 {
		return nil, 0, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.packets = append(b.packets, packet)
	if len(b.packets) < b.size {
		return nil, 0, false
	}

	detached := b.packets
	b.packets = nil
	idx := b.index
	b.index++
	return detached, idx, true
}

// Len reports the number of packets currently buffered, for diagnostics.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.packets)
}

// WithHistoryLock runs fn while holding the same mutex used to guard
// Accept/detach. Window-processing threads use this to append the
// window's entropy to the predictor's history in detach order, per the
// ordering guarantee that history append and buffer detach share a lock
// rather than relying on a separately-sequenced reassembly.
func (b *Buffer) WithHistoryLock(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn()
}
