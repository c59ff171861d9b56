// Command fog runs the fog tier: it accepts IoT packet streams, batches
// them into windows, characterizes and codes each window, schedules a
// subset for delivery, and forwards the result to a cloud node.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fogedge/fogmesh/internal/config"
	"github.com/fogedge/fogmesh/internal/fognode"
	"github.com/fogedge/fogmesh/internal/health"
	"github.com/fogedge/fogmesh/internal/logging"
	fogmeshotel "github.com/fogedge/fogmesh/internal/otel"
)

func main() {
	cfg := config.Default()

	listenAddr := flag.String("listen-addr", cfg.Network.FogListenAddr, "Address to accept IoT packet connections on")
	cloudAddr := flag.String("cloud-addr", cfg.Network.CloudDialAddr, "Address of the cloud node to deliver windows to")
	windowSize := flag.Int("window-size", cfg.Window.Size, "Number of packets per window")
	randSeed := flag.Int64("rand-seed", cfg.RandSeed, "Seed for the scheduler's jitter source")
	hostTelemetry := flag.Bool("host-telemetry", cfg.HostTelemetry.Enabled, "Enable periodic host-resource sampling")
	otelExporter := flag.String("otel-exporter", cfg.Observability.ExporterType, "OpenTelemetry exporter: none, stdout, otlp-grpc, otlp-http")
	otelEndpoint := flag.String("otel-endpoint", cfg.Observability.OTLPEndpoint, "OTLP exporter endpoint")
	flag.Parse()

	cfg.Network.FogListenAddr = *listenAddr
	cfg.Network.CloudDialAddr = *cloudAddr
	cfg.Window.Size = *windowSize
	cfg.RandSeed = *randSeed
	cfg.HostTelemetry.Enabled = *hostTelemetry
	cfg.Observability.ExporterType = *otelExporter
	cfg.Observability.OTLPEndpoint = *otelEndpoint
	cfg.Observability.Enabled = *otelExporter != "none"

	logger := logging.New("fog")
	logging.SetGlobal(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer, err := fogmeshotel.NewTracer(ctx, &fogmeshotel.Config{
		Enabled:      cfg.Observability.Enabled,
		ServiceName:  cfg.Observability.ServiceName,
		ExporterType: fogmeshotel.ExporterType(cfg.Observability.ExporterType),
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
		SampleRate:   1.0,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize tracer: %v\n", err)
		os.Exit(1)
	}
	fogmeshotel.SetGlobalTracer(tracer)
	defer tracer.Shutdown(context.Background())

	otelMetrics, err := fogmeshotel.NewMetrics(ctx, &fogmeshotel.MetricsConfig{
		Enabled:      cfg.Observability.Enabled,
		ServiceName:  cfg.Observability.ServiceName,
		ExporterType: fogmeshotel.ExporterType(cfg.Observability.ExporterType),
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize metrics: %v\n", err)
		os.Exit(1)
	}
	fogmeshotel.SetGlobalMetrics(otelMetrics)
	defer otelMetrics.Shutdown(context.Background())

	node := fognode.New(cfg, logger, tracer, otelMetrics)

	var sampler *health.Sampler
	if cfg.HostTelemetry.Enabled {
		sampler = health.New(cfg.HostTelemetry.Interval, logger, node.HealthObserver())
		sampler.Start(ctx)
	}

	srv := node.IngressServer()
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe(ctx) }()

	fmt.Printf("fog node listening on %s, delivering to %s\n", cfg.Network.FogListenAddr, cfg.Network.CloudDialAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("shutting down fog node...")
	case err := <-serveErr:
		if err != nil {
			fmt.Fprintf(os.Stderr, "fog ingress server exited: %v\n", err)
		}
	}

	cancel()
	if sampler != nil {
		sampler.Stop(time.Second)
	}
	node.Close(5 * time.Second)
	fmt.Println("fog node stopped")
}
