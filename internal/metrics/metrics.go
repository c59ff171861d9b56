// Package metrics computes the per-window ScheduleItem inputs and the
// WindowMetrics/ControlMetadata tuple forwarded to the cloud aggregator.
package metrics

import (
	"math"
	"math/rand"

	"github.com/fogedge/fogmesh/internal/coding"
	"github.com/fogedge/fogmesh/internal/config"
	"github.com/fogedge/fogmesh/internal/scheduler"
)

// WindowMetrics is the synthesized telemetry tuple computed once per
// window; these are advisory measurements, not physical ones, and their
// distribution (not their literal values) is what downstream aggregation
// depends on.
type WindowMetrics struct {
	TotalMutualInfo         float64 `json:"total_mutual_info"`
	TotalBandwidth          float64 `json:"total_bandwidth"`
	TotalLatency            float64 `json:"total_latency"`
	TotalEnergy             float64 `json:"total_energy"`
	SuccessfulTransmissions int     `json:"successful_transmissions"`
	TotalTransmissions      int     `json:"total_transmissions"`
	TimeSteps               float64 `json:"time_steps"`
}

// ControlMetadata is the full fog-to-cloud metadata object, serialized as
// the JSON half of the wire frame.
type ControlMetadata struct {
	CurrentEntropy   float64 `json:"current_entropy"`
	PredictedEntropy float64 `json:"predicted_entropy"`
	CodingScheme     string  `json:"coding_scheme"`
	CodingDegree     int     `json:"coding_degree"`
	NumScheduled     int     `json:"num_scheduled"`
	WindowMetrics
}

// Assembler derives scheduler inputs and window metrics from a window's
// packet entropies and sizes, using the scheduler's value-weight
// configuration and an injected jitter source.
type Assembler struct {
	cfg config.Scheduler
}

// NewAssembler returns an Assembler using the given cost-model weights.
func NewAssembler(cfg config.Scheduler) *Assembler {
	return &Assembler{cfg: cfg}
}

// BuildScheduleItems derives one scheduler.Item per packet, plus that
// packet's jittered bandwidth and energy contributions, sharing a single
// uniform draw U_i in [-0.1, 0.1] across cost, bandwidth and energy for
// packet i — the scheduler's only source of nondeterminism.
func (a *Assembler) BuildScheduleItems(packets [][]byte, packetEntropies []float64, rng *rand.Rand) (items []scheduler.Item, bandwidth []float64, energy []float64) {
	n := len(packets)
	items = make([]scheduler.Item, n)
	bandwidth = make([]float64, n)
	energy = make([]float64, n)

	for i, p := range packets {
		u := rng.Float64()*0.2 - 0.1
		energyReal := float64(len(p)) * 0.001 * (1 + u)
		value := a.cfg.Gamma1*packetEntropies[i] - a.cfg.Gamma2*energyReal

		items[i] = scheduler.Item{
			Value:      value,
			CostBW:     int(math.Floor(10 * a.cfg.BaseBandwidth * (1 + u))),
			CostEnergy: int(math.Floor(10 * a.cfg.BaseEnergy * (1 + u))),
		}
		bandwidth[i] = float64(len(p)) * (1 + u)
		energy[i] = energyReal
	}
	return items, bandwidth, energy
}

// Assemble builds the ControlMetadata for one window from its per-packet
// entropies, bandwidth and energy contributions, the predictor's forecast,
// the selected coding decision, and the scheduler's selected count.
func Assemble(packetEntropies, bandwidth, energy []float64, currentEntropy, predictedEntropy float64, decision coding.Decision, numScheduled int, rng *rand.Rand) ControlMetadata {
	w := len(packetEntropies)

	var totalMI, totalBW, totalLatency, totalEnergy float64
	for i := 0; i < w; i++ {
		totalMI += packetEntropies[i]
		totalBW += bandwidth[i]
		totalEnergy += energy[i]
		totalLatency += 0.01 + rng.Float64()*0.09
	}

	return ControlMetadata{
		CurrentEntropy:   currentEntropy,
		PredictedEntropy: predictedEntropy,
		CodingScheme:     string(decision.Scheme),
		CodingDegree:     decision.Degree,
		NumScheduled:     numScheduled,
		WindowMetrics: WindowMetrics{
			TotalMutualInfo:         totalMI,
			TotalBandwidth:          totalBW,
			TotalLatency:            totalLatency,
			TotalEnergy:             totalEnergy,
			SuccessfulTransmissions: w,
			TotalTransmissions:      w,
			TimeSteps:               0.5 * float64(w),
		},
	}
}
