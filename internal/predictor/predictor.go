// Package predictor forecasts a window's next entropy value from recent
// history using an AR(3) model, falling back to AR(1) when fewer than
// three prior windows have been observed.
package predictor

import "github.com/fogedge/fogmesh/internal/config"

// History accumulates per-window entropy values in detach order. It is not
// safe for concurrent use; callers serialize access under the same lock
// guarding window detachment.
type History struct {
	values []float64
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{}
}

// Append records the most recently observed window entropy.
func (h *History) Append(bits float64) {
	h.values = append(h.values, bits)
}

// Len reports the number of recorded entropy values.
func (h *History) Len() int {
	return len(h.values)
}

// Predictor forecasts the next window's entropy from an AR(3)/AR(1) model
// whose coefficients are fixed at construction.
type Predictor struct {
	cfg config.Predictor
}

// New returns a Predictor using the given coefficient set.
func New(cfg config.Predictor) *Predictor {
	return &Predictor{cfg: cfg}
}

// Predict forecasts the next entropy value from h, which must already
// include the current window's entropy as its most recent entry (callers
// append to History before calling Predict, matching the reference
// design's append-then-forecast order).
func (p *Predictor) Predict(h *History) float64 {
	n := h.Len()
	if n >= 3 {
		last := h.values[n-1]
		prev := h.values[n-2]
		prevPrev := h.values[n-3]
		return p.cfg.AR3Coefficients[0]*last +
			p.cfg.AR3Coefficients[1]*prev +
			p.cfg.AR3Coefficients[2]*prevPrev +
			p.cfg.AR3Constant
	}
	current := h.values[n-1]
	return p.cfg.AR1Alpha*current + p.cfg.AR1Beta
}
