package workers

import (
	"context"
	"sync"

	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/internal/service"
)

// ShareEventWorker drives the sharing coordinator's event loop so the share
// cache stays coherent with changes made by other participants.
type ShareEventWorker struct {
	sharing service.SharingService
	logger  *logger.Logger

	wg sync.WaitGroup
}

func NewShareEventWorker(sharing service.SharingService, log *logger.Logger) *ShareEventWorker {
	return &ShareEventWorker{
		sharing: sharing,
		logger:  log,
	}
}

// Run implements [Worker]. The event loop runs until ctx is cancelled or the
// backend closes its feed.
func (w *ShareEventWorker) Run(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Debug().Msg("share event worker started")
		w.sharing.Run(ctx)
		w.logger.Debug().Msg("share event worker stopped")
	}()
}

// Wait blocks until the event loop has exited.
func (w *ShareEventWorker) Wait() {
	w.wg.Wait()
}
