// Package config holds the compiled-in defaults for both the fog and cloud
// nodes, grouped by concern. Every default mirrors the reference design;
// binaries may override individual fields from flags before wiring the
// rest of the pipeline.
package config

import "time"

// Window groups the sliding-window and coding-threshold parameters.
type Window struct {
	// Size is the number of packets accumulated before a window is
	// detached and handed off for processing.
	Size int

	// HLow and HMed are the Coding Selector's entropy thresholds in bits.
	HLow float64
	HMed float64
}

// Predictor groups the autoregressive forecast coefficients.
type Predictor struct {
	// AR3Coefficients weight the three most recent window entropies.
	AR3Coefficients [3]float64
	AR3Constant     float64

	// AR1Alpha and AR1Beta are used when history has fewer than 3 entries.
	AR1Alpha float64
	AR1Beta  float64
}

// Scheduler groups the knapsack value weights and cost-model scales.
type Scheduler struct {
	Gamma1 float64
	Gamma2 float64

	BaseBandwidth float64
	BaseEnergy    float64

	// BandwidthCapacity and EnergyCapacity are in the same units as
	// BaseBandwidth/BaseEnergy; the fog node multiplies both by 10 before
	// passing them to the scheduler, matching the integer cost model.
	BandwidthCapacity int
	EnergyCapacity    int
}

// Network groups the listen/dial addresses and I/O timeouts.
type Network struct {
	FogListenAddr   string
	CloudDialAddr   string
	CloudListenAddr string

	FogIngressIdleTimeout time.Duration
	CloudEgressTimeout    time.Duration
}

// Observability groups the OpenTelemetry wiring shared by both tiers.
type Observability struct {
	Enabled      bool
	ServiceName  string
	ExporterType string // "none", "stdout", "otlp-grpc", "otlp-http"
	OTLPEndpoint string
	OTLPInsecure bool
}

// HostTelemetry groups the optional periodic host-resource sampler.
type HostTelemetry struct {
	Enabled  bool
	Interval time.Duration
}

// Config is the complete, compiled-in configuration for one process. Fog
// and cloud binaries each use the subset relevant to their role.
type Config struct {
	Window        Window
	Predictor     Predictor
	Scheduler     Scheduler
	Network       Network
	Observability Observability
	HostTelemetry HostTelemetry

	// RandSeed seeds the scheduler and metrics-assembler jitter source.
	// It is the pipeline's only source of nondeterminism.
	RandSeed int64

	// RecordLogPath is the cloud node's append-only metrics log.
	RecordLogPath string
}

// Default returns the reference-design configuration.
func Default() *Config {
	return &Config{
		Window: Window{
			Size: 100,
			HLow: 4.0,
			HMed: 6.0,
		},
		Predictor: Predictor{
			AR3Coefficients: [3]float64{0.5, 0.3, 0.2},
			AR3Constant:     0.1,
			AR1Alpha:        0.9,
			AR1Beta:         0.1,
		},
		Scheduler: Scheduler{
			Gamma1:            1.0,
			Gamma2:            0.5,
			BaseBandwidth:     1.0,
			BaseEnergy:        1.0,
			BandwidthCapacity: 60,
			EnergyCapacity:    60,
		},
		Network: Network{
			FogListenAddr:         "0.0.0.0:6000",
			CloudDialAddr:         "cloud_node:6001",
			CloudListenAddr:       "0.0.0.0:6001",
			FogIngressIdleTimeout: 10 * time.Second,
			CloudEgressTimeout:    5 * time.Second,
		},
		Observability: Observability{
			Enabled:      false,
			ServiceName:  "fogmesh",
			ExporterType: "none",
		},
		HostTelemetry: HostTelemetry{
			Enabled:  false,
			Interval: 5 * time.Second,
		},
		RandSeed:      1,
		RecordLogPath: "performance_metrics.log",
	}
}
