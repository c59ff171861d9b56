// Package logging provides structured JSON event logging shared by the fog
// and cloud nodes, in place of ad-hoc fmt.Printf/log.Printf calls.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger wraps a component-scoped slog.Logger with the pipeline's
// error-handling vocabulary: every "log and continue" path in the design
// (transport errors, frame errors, metadata parse errors, record-log write
// failures, recovered panics) goes through one of these methods
// instead of propagating.
type Logger struct {
	logger    *slog.Logger
	component string
}

// New creates a Logger that writes JSON-formatted events to stdout,
// tagged with the given component name ("fog" or "cloud").
func New(component string) *Logger {
	return NewWithWriter(component, os.Stdout)
}

// NewWithWriter creates a Logger writing to an arbitrary writer, useful in
// tests.
func NewWithWriter(component string, w io.Writer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{
		logger:    slog.New(handler).With("component", component),
		component: component,
	}
}

// Noop returns a Logger that discards every event.
func Noop() *Logger {
	return NewWithWriter("noop", io.Discard)
}

// WindowAccepted logs a single packet accepted into the window buffer.
func (l *Logger) WindowAccepted(remoteAddr string, bufferedCount, windowSize int) {
	l.logger.Debug("window_packet_accepted",
		"remote_addr", remoteAddr,
		"buffered", bufferedCount,
		"window_size", windowSize,
	)
}

// WindowDetached logs a window reaching its configured size and being
// handed off for processing.
func (l *Logger) WindowDetached(windowIndex int64, packetCount int) {
	l.logger.Info("window_detached",
		"window_index", windowIndex,
		"packet_count", packetCount,
	)
}

// WindowProcessed logs the summary of one window's processing pipeline.
func (l *Logger) WindowProcessed(windowIndex int64, currentEntropy, predictedEntropy float64, scheme string, degree, numScheduled int) {
	l.logger.Info("window_processed",
		"window_index", windowIndex,
		"current_entropy", currentEntropy,
		"predicted_entropy", predictedEntropy,
		"coding_scheme", scheme,
		"coding_degree", degree,
		"num_scheduled", numScheduled,
	)
}

// TransportError logs a connect/bind/read/write/timeout error on a
// connection; the connection is always closed afterward, never retried.
func (l *Logger) TransportError(remoteAddr string, operation string, err error) {
	l.logger.Error("transport_error",
		"remote_addr", remoteAddr,
		"operation", operation,
		"error", err.Error(),
	)
}

// FrameError logs a malformed wire frame (missing separator).
func (l *Logger) FrameError(remoteAddr string) {
	l.logger.Error("frame_error",
		"remote_addr", remoteAddr,
		"reason", "missing separator",
	)
}

// MetadataParseError logs a metadata JSON payload that failed to parse;
// the cloud node continues with a zero-contribution record.
func (l *Logger) MetadataParseError(remoteAddr string, err error) {
	l.logger.Warn("metadata_parse_error",
		"remote_addr", remoteAddr,
		"error", err.Error(),
	)
}

// RecordLogError logs a failed append to the performance metrics log.
func (l *Logger) RecordLogError(err error) {
	l.logger.Error("record_log_write_error", "error", err.Error())
}

// FeedbackEmitted logs a directive sent back to a fog connection.
func (l *Logger) FeedbackEmitted(remoteAddr string, adjustDt int) {
	l.logger.Info("feedback_emitted",
		"remote_addr", remoteAddr,
		"adjust_dt", adjustDt,
	)
}

// HostSample logs one host-telemetry observation.
func (l *Logger) HostSample(cpuPercent float64, memUsedBytes, memTotalBytes uint64, loadAvg1 float64) {
	l.logger.Debug("host_sample",
		"cpu_percent", cpuPercent,
		"mem_used_bytes", memUsedBytes,
		"mem_total_bytes", memTotalBytes,
		"load_avg_1", loadAvg1,
	)
}

// Recovered logs a panic recovered at a goroutine entry point so that no
// connection-handling or window-processing failure can escape to the
// process top level.
func (l *Logger) Recovered(site string, r interface{}) {
	l.logger.Error("recovered_panic", "site", site, "value", r)
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetGlobal sets the process-wide logger used by code that has no direct
// reference to a *Logger (e.g. deferred recover blocks in package main).
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Global returns the process-wide logger, or a no-op logger if unset.
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger != nil {
		return globalLogger
	}
	return Noop()
}
