// Package health runs the fog node's optional periodic host-resource
// sampler: CPU, memory, and load average, logged and passed to an optional
// Observer.
// It has no read access to pipeline state and cannot influence coding or
// scheduling decisions.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/fogedge/fogmesh/internal/logging"
)

// Sample is one host-resource observation.
type Sample struct {
	CPUPercent    float64
	MemUsedBytes  uint64
	MemTotalBytes uint64
	LoadAvg1      float64
}

// Observer receives each Sample as it is taken; typically an OpenTelemetry
// gauge callback.
type Observer func(Sample)

// Sampler periodically collects a Sample on its own goroutine until
// stopped.
type Sampler struct {
	interval time.Duration
	logger   *logging.Logger
	observer Observer

	started atomic.Bool
	closed  atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New returns a Sampler that collects every interval. observer may be nil.
func New(interval time.Duration, logger *logging.Logger, observer Observer) *Sampler {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Sampler{interval: interval, logger: logger, observer: observer}
}

// Start begins periodic sampling. It is a no-op if already started.
func (s *Sampler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(runCtx)
}

// Stop cancels sampling and waits up to the given grace period for the
// sampling goroutine to exit.
func (s *Sampler) Stop(grace time.Duration) {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
	}
}

func (s *Sampler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.collectAndReport()
		}
	}
}

func (s *Sampler) collectAndReport() {
	sample := Sample{}

	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		sample.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		sample.MemUsedBytes = vm.Used
		sample.MemTotalBytes = vm.Total
	}
	if avg, err := load.Avg(); err == nil && avg != nil {
		sample.LoadAvg1 = avg.Load1
	}

	s.logger.HostSample(sample.CPUPercent, sample.MemUsedBytes, sample.MemTotalBytes, sample.LoadAvg1)
	if s.observer != nil {
		s.observer(sample)
	}
}
