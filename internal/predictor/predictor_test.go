package predictor

import (
	"math"
	"testing"

	"github.com/fogedge/fogmesh/internal/config"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPredictUsesAR1WhenHistoryShort(t *testing.T) {
	cfg := config.Default().Predictor
	p := New(cfg)
	h := NewHistory()

	h.Append(2.0)
	got := p.Predict(h)
	want := cfg.AR1Alpha*2.0 + cfg.AR1Beta
	if !almostEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	h.Append(5.0)
	got = p.Predict(h)
	want = cfg.AR1Alpha*5.0 + cfg.AR1Beta
	if !almostEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPredictUsesAR3OnceThreeObserved(t *testing.T) {
	cfg := config.Default().Predictor
	p := New(cfg)
	h := NewHistory()

	h.Append(2.0)
	h.Append(5.0)
	h.Append(7.5)

	got := p.Predict(h)
	want := 0.5*7.5 + 0.3*5.0 + 0.2*2.0 + 0.1
	if !almostEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
