// Package fognode wires the window buffer, entropy kernel, predictor,
// coding selector, scheduler, and transport client into the fog tier's
// per-connection, per-window processing pipeline.
package fognode

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/fogedge/fogmesh/internal/coding"
	"github.com/fogedge/fogmesh/internal/config"
	"github.com/fogedge/fogmesh/internal/entropy"
	"github.com/fogedge/fogmesh/internal/feedback"
	"github.com/fogedge/fogmesh/internal/frame"
	"github.com/fogedge/fogmesh/internal/health"
	"github.com/fogedge/fogmesh/internal/logging"
	"github.com/fogedge/fogmesh/internal/metrics"
	fogmeshotel "github.com/fogedge/fogmesh/internal/otel"
	"github.com/fogedge/fogmesh/internal/predictor"
	"github.com/fogedge/fogmesh/internal/scheduler"
	"github.com/fogedge/fogmesh/internal/transport"
	"github.com/fogedge/fogmesh/internal/window"
)

// Node owns one fog tier's entire packet-to-frame pipeline. Packets from
// many concurrent producer connections feed a single shared window buffer;
// each detached window is processed and delivered on its own goroutine, so
// window processing for window N+1 may start before window N's delivery
// completes.
type Node struct {
	cfg *config.Config

	buffer    *window.Buffer
	history   *predictor.History
	predict   *predictor.Predictor
	selector  coding.Selector
	assembler *metrics.Assembler
	client    *transport.CloudClient

	// rngMu serializes draws from rng: the scheduler's jitter source is a
	// single shared stream, not one per window. When windows are processed
	// concurrently, which window receives which draws depends on the order
	// in which their goroutines acquire rngMu.
	rngMu sync.Mutex
	rng   *rand.Rand

	logger  *logging.Logger
	tracer  *fogmeshotel.Tracer
	metrics *fogmeshotel.Metrics

	wg sync.WaitGroup
}

// New returns a Node ready to accept packets. logger, tracer, and
// otelMetrics may be nil; nil values are replaced with no-op instances.
func New(cfg *config.Config, logger *logging.Logger, tracer *fogmeshotel.Tracer, otelMetrics *fogmeshotel.Metrics) *Node {
	if logger == nil {
		logger = logging.Noop()
	}
	if tracer == nil {
		tracer = fogmeshotel.NoopTracer()
	}
	if otelMetrics == nil {
		otelMetrics = fogmeshotel.NoopMetrics()
	}

	return &Node{
		cfg:       cfg,
		buffer:    window.New(cfg.Window.Size),
		history:   predictor.NewHistory(),
		predict:   predictor.New(cfg.Predictor),
		selector:  coding.NewSelector(cfg.Window),
		assembler: metrics.NewAssembler(cfg.Scheduler),
		client:    transport.NewCloudClient(cfg.Network.CloudDialAddr, cfg.Network.CloudEgressTimeout),
		rng:       rand.New(rand.NewSource(cfg.RandSeed)),
		logger:    logger,
		tracer:    tracer,
		metrics:   otelMetrics,
	}
}

// HealthObserver returns an Observer for wiring into a health.Sampler. It
// discards every sample: host-resource samples are only logged, by the
// sampler itself, and are not exported as OpenTelemetry metrics.
func (n *Node) HealthObserver() health.Observer {
	return func(health.Sample) {}
}

// IngressServer returns a transport.FogIngressServer bound to this Node's
// packet handler.
func (n *Node) IngressServer() *transport.FogIngressServer {
	return transport.NewFogIngressServer(n.cfg.Network.FogListenAddr, n.cfg.Network.FogIngressIdleTimeout, n.HandlePacket, n.logger)
}

// HandlePacket is the transport.PacketHandler invoked once per ingested
// packet. It never blocks beyond the buffer's mutex: a full window is
// handed to its own goroutine rather than processed inline, so the ingress
// connection's read loop is never stalled by downstream coding or network
// I/O.
func (n *Node) HandlePacket(remoteAddr string, packet []byte) {
	packets, idx, ok := n.buffer.Accept(packet)
	n.logger.WindowAccepted(remoteAddr, n.buffer.Len(), n.cfg.Window.Size)
	n.metrics.SetWindowBufferDepth(n.buffer.Len())
	if !ok {
		return
	}

	n.logger.WindowDetached(idx, len(packets))
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.logger.Recovered("fognode.processWindow", r)
			}
		}()
		n.processWindow(context.Background(), remoteAddr, idx, packets)
	}()
}

// Close waits for any in-flight window processing to finish. It does not
// stop accepting new packets; callers should stop the ingress server first.
func (n *Node) Close(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
	}
}

func (n *Node) processWindow(ctx context.Context, remoteAddr string, windowIndex int64, packets [][]byte) {
	packetEntropies := make([]float64, len(packets))
	for i, p := range packets {
		packetEntropies[i] = entropy.PacketBits(p)
	}
	currentEntropy := entropy.WindowBits(packetEntropies)

	var predicted float64
	n.buffer.WithHistoryLock(func() {
		n.history.Append(currentEntropy)
		predicted = n.predict.Predict(n.history)
	})

	decision := n.selector.Select(currentEntropy)

	ctx, span := n.tracer.StartWindowProcessSpan(ctx, fogmeshotel.WindowSpanOptions{
		WindowIndex:  windowIndex,
		CodingScheme: string(decision.Scheme),
		CodingDegree: decision.Degree,
	})
	encoded := coding.Encode(packets, decision.Degree)

	n.rngMu.Lock()
	items, bandwidth, energyVals := n.assembler.BuildScheduleItems(packets, packetEntropies, n.rng)
	scheduled, err := scheduler.Schedule(items, n.cfg.Scheduler.BandwidthCapacity*10, n.cfg.Scheduler.EnergyCapacity*10)
	if err != nil {
		n.rngMu.Unlock()
		fogmeshotel.RecordError(span, err, "scheduler", false)
		span.End()
		n.logger.TransportError(remoteAddr, "schedule", err)
		n.metrics.RecordError(ctx, "scheduler")
		return
	}
	control := metrics.Assemble(packetEntropies, bandwidth, energyVals, currentEntropy, predicted, decision, len(scheduled), n.rng)
	n.rngMu.Unlock()

	span.End()

	n.logger.WindowProcessed(windowIndex, currentEntropy, predicted, string(decision.Scheme), decision.Degree, len(scheduled))
	n.metrics.RecordWindowProcessed(ctx, string(decision.Scheme))
	n.metrics.RecordCodingDegree(ctx, decision.Degree)
	n.metrics.RecordPacketsScheduled(ctx, len(scheduled))

	metaJSON, err := json.Marshal(control)
	if err != nil {
		n.logger.TransportError(remoteAddr, "marshal_metadata", err)
		n.metrics.RecordError(ctx, "marshal_metadata")
		return
	}
	wireFrame := frame.Join(encoded, metaJSON)

	_, deliverSpan := n.tracer.StartWindowDeliverSpan(ctx, fogmeshotel.WindowSpanOptions{
		WindowIndex: windowIndex,
		RemoteAddr:  n.cfg.Network.CloudDialAddr,
	})
	reply, err := n.client.Send(wireFrame)
	if err != nil {
		fogmeshotel.RecordError(deliverSpan, err, "transport", false)
		deliverSpan.End()
		n.logger.TransportError(n.cfg.Network.CloudDialAddr, "send_window", err)
		n.metrics.RecordError(ctx, "transport")
		return
	}
	deliverSpan.End()

	var directive feedback.Directive
	if err := json.Unmarshal(reply, &directive); err != nil {
		n.logger.MetadataParseError(n.cfg.Network.CloudDialAddr, err)
		n.metrics.RecordError(ctx, "directive_parse")
		return
	}
	n.logger.FeedbackEmitted(n.cfg.Network.CloudDialAddr, directive.AdjustDt)
}
