// Package tasks runs detached background work: cache write-backs, per-item
// sends, analytics. Failures are logged and counted instead of dropped.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/umanagarjuna/steam-bot/internal/bot/metrics"
)

const DefaultTimeout = 30 * time.Second

type Supervisor struct {
	logger  *zap.Logger
	metrics metrics.Metrics
	timeout time.Duration

	wg       sync.WaitGroup
	inFlight int64
}

func NewSupervisor(logger *zap.Logger, m metrics.Metrics, timeout time.Duration) *Supervisor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if m == nil {
		m = metrics.Nop{}
	}
	return &Supervisor{
		logger:  logger,
		metrics: m,
		timeout: timeout,
	}
}

// Go runs fn in its own goroutine. The task keeps the values of ctx but not its
// cancellation, so it outlives the handler that submitted it.
func (s *Supervisor) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	s.metrics.RecordGauge("tasks_in_flight", float64(atomic.AddInt64(&s.inFlight, 1)))

	go func() {
		defer s.wg.Done()
		defer func() {
			s.metrics.RecordGauge("tasks_in_flight", float64(atomic.AddInt64(&s.inFlight, -1)))
		}()

		taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if err := s.run(taskCtx, fn); err != nil {
			s.metrics.IncrementCounterWithLabels("task_failures", map[string]string{"task": name})
			s.logger.Error("Background task failed",
				zap.String("task", name), zap.Error(err))
		}
	}()
}

func (s *Supervisor) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Wait blocks until every submitted task has returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}
