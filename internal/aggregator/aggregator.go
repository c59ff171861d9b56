// Package aggregator accumulates ControlMetadata records received from fog
// connections and computes the cloud's global performance ratios.
package aggregator

import (
	"sync"

	"github.com/fogedge/fogmesh/internal/metrics"
)

// AggregateMetrics is the cloud-side derived record attached to every
// feedback directive.
type AggregateMetrics struct {
	BandwidthUtilizationEfficiency float64 `json:"bandwidth_utilization_efficiency"`
	AverageLatency                 float64 `json:"average_latency"`
	TotalEnergy                    float64 `json:"total_energy"`
	TransmissionReliability        float64 `json:"transmission_reliability"`
	Throughput                     float64 `json:"throughput"`
}

// Aggregator holds an append-only ordered sequence of received
// ControlMetadata records and computes AggregateMetrics from the running
// totals. One mutex guards both append and the immediately-following
// aggregate read, so each record observes a consistent snapshot.
type Aggregator struct {
	mu      sync.Mutex
	records []metrics.ControlMetadata
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// AddAndCompute appends one ControlMetadata record and returns the
// AggregateMetrics computed over every record received so far, including
// this one.
func (a *Aggregator) AddAndCompute(record metrics.ControlMetadata) AggregateMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = append(a.records, record)
	return a.compute()
}

// RecordCount reports how many records have been accumulated.
func (a *Aggregator) RecordCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

func (a *Aggregator) compute() AggregateMetrics {
	var sumMutualInfo, sumBandwidth, sumLatency, sumEnergy, sumTimeSteps float64
	var sumSuccessful, sumTransmissions int

	for _, r := range a.records {
		sumMutualInfo += r.TotalMutualInfo
		sumBandwidth += r.TotalBandwidth
		sumLatency += r.TotalLatency
		sumEnergy += r.TotalEnergy
		sumTimeSteps += r.TimeSteps
		sumSuccessful += r.SuccessfulTransmissions
		sumTransmissions += r.TotalTransmissions
	}

	return AggregateMetrics{
		BandwidthUtilizationEfficiency: divOrZero(sumMutualInfo, sumBandwidth),
		AverageLatency:                 divOrZero(sumLatency, float64(sumTransmissions)),
		TotalEnergy:                    sumEnergy,
		TransmissionReliability:        divOrZero(float64(sumSuccessful), float64(sumTransmissions)),
		Throughput:                     divOrZero(sumMutualInfo, sumTimeSteps),
	}
}

func divOrZero(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}
