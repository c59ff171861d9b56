// Package cloudnode wires the aggregator, feedback policy, and record log
// into the cloud tier's per-connection frame handler.
package cloudnode

import (
	"context"
	"encoding/json"

	"github.com/fogedge/fogmesh/internal/aggregator"
	"github.com/fogedge/fogmesh/internal/config"
	"github.com/fogedge/fogmesh/internal/feedback"
	"github.com/fogedge/fogmesh/internal/frame"
	"github.com/fogedge/fogmesh/internal/logging"
	"github.com/fogedge/fogmesh/internal/metrics"
	fogmeshotel "github.com/fogedge/fogmesh/internal/otel"
	"github.com/fogedge/fogmesh/internal/recordlog"
	"github.com/fogedge/fogmesh/internal/transport"
)

// Node owns the cloud tier's running aggregate and record log. A single
// shared Aggregator accumulates every ControlMetadata record across every
// fog connection; FrameHandler is safe for concurrent use by many
// short-lived per-connection goroutines.
type Node struct {
	cfg *config.Config

	agg *aggregator.Aggregator
	log *recordlog.Log

	logger  *logging.Logger
	tracer  *fogmeshotel.Tracer
	metrics *fogmeshotel.Metrics
}

// New returns a Node ready to handle frames. logger, tracer, and
// otelMetrics may be nil.
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
		cfg:     cfg,
		agg:     aggregator.New(),
		log:     recordlog.Open(cfg.RecordLogPath),
		logger:  logger,
		tracer:  tracer,
		metrics: otelMetrics,
	}
}

// IngressServer returns a transport.CloudIngressServer bound to this
// Node's frame handler.
func (n *Node) IngressServer() *transport.CloudIngressServer {
	return transport.NewCloudIngressServer(n.cfg.Network.CloudListenAddr, n.cfg.Network.CloudEgressTimeout, n.HandleFrame, n.logger)
}

// HandleFrame is the transport.FrameHandler invoked once per received
// window frame. A malformed frame (missing the payload/metadata
// separator) gets the literal FormatError reply and never reaches the
// aggregator. A metadata parse failure or record-log write failure still
// produces a directive; a directive that fails to marshal is answered
// with the FormatError reply instead.
func (n *Node) HandleFrame(remoteAddr string, raw []byte) []byte {
	ctx := context.Background()

	_, metaJSON, err := frame.Split(raw)
	if err != nil {
		n.logger.FrameError(remoteAddr)
		n.metrics.RecordError(ctx, "frame_format")
		return transport.FormatErrorReply
	}

	var control metrics.ControlMetadata
	if err := json.Unmarshal(metaJSON, &control); err != nil {
		// A zero-valued ControlMetadata still contributes a (zero,zero)
		// record to the running aggregate rather than dropping the window
		// entirely, matching the design's continue-don't-abort policy. Reset
		// in case Unmarshal partially populated control before failing.
		control = metrics.ControlMetadata{}
		n.logger.MetadataParseError(remoteAddr, err)
		n.metrics.RecordError(ctx, "metadata_parse")
	}

	_, span := n.tracer.StartWindowDeliverSpan(ctx, fogmeshotel.WindowSpanOptions{RemoteAddr: remoteAddr})
	defer span.End()

	agg := n.agg.AddAndCompute(control)
	directive := feedback.Decide(agg)

	if err := n.log.Append(control, agg); err != nil {
		n.logger.RecordLogError(err)
		n.metrics.RecordError(ctx, "record_log_write")
	}

	n.metrics.RecordAggregateDirective(ctx, directive.AdjustDt)
	n.logger.FeedbackEmitted(remoteAddr, directive.AdjustDt)

	reply, err := json.Marshal(directive)
	if err != nil {
		n.logger.TransportError(remoteAddr, "marshal_directive", err)
		n.metrics.RecordError(ctx, "directive_marshal")
		return transport.FormatErrorReply
	}
	return reply
}
