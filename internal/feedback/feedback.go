// Package feedback derives the coding-degree adjustment directive sent
// back to the fog tier on every aggregate.
package feedback

import "github.com/fogedge/fogmesh/internal/aggregator"

const (
	lowBandwidthThreshold = 0.5

	lowBandwidthMessage = "Low bandwidth efficiency detected, consider reducing coding degree."
	satisfactoryMessage = "Bandwidth efficiency is satisfactory, consider increasing coding degree."
)

// Directive is the feedback object returned to the fog tier on the same
// connection that delivered the window.
type Directive struct {
	AdjustDt          int                         `json:"adjust_dt"`
	Message           string                      `json:"message"`
	AggregatedMetrics aggregator.AggregateMetrics `json:"aggregated_metrics"`
}

// Decide derives a Directive from the current aggregate. adjust_dt is
// always -1 or +1; there is no neutral outcome.
func Decide(agg aggregator.AggregateMetrics) Directive {
	if agg.BandwidthUtilizationEfficiency < lowBandwidthThreshold {
		return Directive{
			AdjustDt:          -1,
			Message:           lowBandwidthMessage,
			AggregatedMetrics: agg,
		}
	}
	return Directive{
		AdjustDt:          1,
		Message:           satisfactoryMessage,
		AggregatedMetrics: agg,
	}
}
