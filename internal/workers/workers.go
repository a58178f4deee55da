package workers

import (
	"context"

	"github.com/beforetheshoes/traveling-snails/internal/config"
	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/internal/service"
)

// Workers runs the coordinator's background processes as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers assembles the standard worker set: the periodic sync trigger and
// the remote event consumer.
func NewWorkers(cfg config.Workers, services *service.Services, log *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewPeriodicSyncWorker(cfg.SyncInterval, services.Sync, log.GetChildLogger("sync-worker")),
			NewShareEventWorker(services.Sharing, log.GetChildLogger("event-worker")),
		},
	}
}

// Run starts every worker. Each worker manages its own goroutines and stops
// when ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}
