package workers

import (
	"context"
	"sync"
	"time"

	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/internal/service"
)

// PeriodicSyncWorker triggers a full sync on a ticker. The worker is idle
// until Run (or Start) is called and tolerates failed syncs: the next tick
// simply tries again.
type PeriodicSyncWorker struct {
	interval time.Duration
	sync     service.SyncService
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPeriodicSyncWorker(interval time.Duration, syncService service.SyncService, log *logger.Logger) *PeriodicSyncWorker {
	return &PeriodicSyncWorker{
		interval: interval,
		sync:     syncService,
		logger:   log,
	}
}

// Run implements [Worker].
func (w *PeriodicSyncWorker) Run(ctx context.Context) {
	w.Start(ctx, w.interval)
}

// Start stops any previously running job, then launches a background
// goroutine that performs a full sync every interval. If interval is zero or
// negative it defaults to 5 minutes. The goroutine exits when ctx is
// cancelled or Stop is called.
func (w *PeriodicSyncWorker) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	w.Stop()

	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := w.sync.TriggerSyncAndWait(jobCtx); err != nil {
					w.logger.Warn().Err(err).Msg("periodic sync failed")
				}
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until the
// goroutine has fully exited. Safe to call when the job is not running.
func (w *PeriodicSyncWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
