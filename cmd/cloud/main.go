// Command cloud runs the cloud tier: it accepts framed window deliveries
// from fog nodes, aggregates their control metadata into global performance
// ratios, appends each to the record log, and replies with a feedback
// directive.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fogedge/fogmesh/internal/cloudnode"
	"github.com/fogedge/fogmesh/internal/config"
	"github.com/fogedge/fogmesh/internal/logging"
	fogmeshotel "github.com/fogedge/fogmesh/internal/otel"
)

func main() {
	cfg := config.Default()

	listenAddr := flag.String("listen-addr", cfg.Network.CloudListenAddr, "Address to accept fog node connections on")
	recordLogPath := flag.String("record-log", cfg.RecordLogPath, "Path to the append-only performance metrics log")
	otelExporter := flag.String("otel-exporter", cfg.Observability.ExporterType, "OpenTelemetry exporter: none, stdout, otlp-grpc, otlp-http")
	otelEndpoint := flag.String("otel-endpoint", cfg.Observability.OTLPEndpoint, "OTLP exporter endpoint")
	flag.Parse()

	cfg.Network.CloudListenAddr = *listenAddr
	cfg.RecordLogPath = *recordLogPath
	cfg.Observability.ExporterType = *otelExporter
	cfg.Observability.OTLPEndpoint = *otelEndpoint
	cfg.Observability.Enabled = *otelExporter != "none"

	logger := logging.New("cloud")
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

	node := cloudnode.New(cfg, logger, tracer, otelMetrics)

	srv := node.IngressServer()
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe(ctx) }()

	fmt.Printf("cloud node listening on %s, recording to %s\n", cfg.Network.CloudListenAddr, cfg.RecordLogPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("shutting down cloud node...")
	case err := <-serveErr:
		if err != nil {
			fmt.Fprintf(os.Stderr, "cloud ingress server exited: %v\n", err)
		}
	}

	cancel()
	fmt.Println("cloud node stopped")
}
