package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/models"
)

// countingSyncService records TriggerSyncAndWait invocations.
type countingSyncService struct {
	calls atomic.Int64
	err   error
}

func (s *countingSyncService) TriggerSync() {}

func (s *countingSyncService) TriggerSyncAndWait(context.Context) error {
	s.calls.Add(1)
	return s.err
}

func (s *countingSyncService) TriggerSyncWithRetry(context.Context) error { return nil }

func (s *countingSyncService) SyncWithProgress(context.Context) (models.SyncProgress, error) {
	return models.SyncProgress{}, nil
}

func (s *countingSyncService) ProcessPendingChanges(context.Context) error   { return nil }
func (s *countingSyncService) ResolveConflicts(context.Context) error        { return nil }
func (s *countingSyncService) SyncAndResolveConflicts(context.Context) error { return nil }
func (s *countingSyncService) SetNetworkStatus(models.NetworkStatus)         {}
func (s *countingSyncService) SetSimulatedInterruptions(int)                 {}
func (s *countingSyncService) State() models.SyncState                       { return models.SyncState{} }
func (s *countingSyncService) ResetStatistics()                              {}

// blockingSharingService runs until its context is cancelled and records
// enter/exit.
type blockingSharingService struct {
	mu      sync.Mutex
	running bool
	stopped bool
}

func (s *blockingSharingService) ProvisionZone(context.Context, string) error { return nil }

func (s *blockingSharingService) CreateShare(context.Context, models.Trip) (models.Share, error) {
	return models.Share{}, nil
}

func (s *blockingSharingService) RemoveShare(context.Context, models.Trip) error { return nil }

func (s *blockingSharingService) AcceptShare(context.Context, models.ShareMetadata) (models.Share, error) {
	return models.Share{}, nil
}

func (s *blockingSharingService) GetSharingInfo(context.Context, models.Trip) models.SharingInfo {
	return models.NotShared
}

func (s *blockingSharingService) Run(ctx context.Context) {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	<-ctx.Done()

	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

func (s *blockingSharingService) state() (running, stopped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.stopped
}

func TestPeriodicSyncWorker_TriggersOnTicks(t *testing.T) {
	svc := &countingSyncService{}
	w := NewPeriodicSyncWorker(10*time.Millisecond, svc, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Run(ctx)
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPeriodicSyncWorker_StopHaltsTicks(t *testing.T) {
	svc := &countingSyncService{}
	w := NewPeriodicSyncWorker(10*time.Millisecond, svc, logger.Nop())

	w.Run(context.Background())
	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	w.Stop()
	after := svc.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load())
}

func TestPeriodicSyncWorker_RestartReplacesJob(t *testing.T) {
	svc := &countingSyncService{}
	w := NewPeriodicSyncWorker(time.Hour, svc, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.Start(ctx, time.Hour)
	// Restart with a short interval: the old hour-long job must be replaced,
	// not accumulated.
	w.Start(ctx, 10*time.Millisecond)
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPeriodicSyncWorker_ContextCancelStopsJob(t *testing.T) {
	svc := &countingSyncService{}
	w := NewPeriodicSyncWorker(10*time.Millisecond, svc, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	w.Run(ctx)
	cancel()

	time.Sleep(30 * time.Millisecond)
	after := svc.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load())
}

func TestPeriodicSyncWorker_SurvivesFailedSyncs(t *testing.T) {
	svc := &countingSyncService{err: assert.AnError}
	w := NewPeriodicSyncWorker(10*time.Millisecond, svc, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Run(ctx)
	defer w.Stop()

	// Failures are logged, not fatal: the ticker keeps going.
	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestShareEventWorker_RunsUntilCancelled(t *testing.T) {
	svc := &blockingSharingService{}
	w := NewShareEventWorker(svc, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	w.Run(ctx)

	assert.Eventually(t, func() bool {
		running, _ := svc.state()
		return running
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	w.Wait()

	_, stopped := svc.state()
	assert.True(t, stopped)
}

func TestWorkers_RunStartsEveryWorker(t *testing.T) {
	syncSvc := &countingSyncService{}
	sharing := &blockingSharingService{}

	w := &Workers{
		workers: []Worker{
			NewPeriodicSyncWorker(10*time.Millisecond, syncSvc, logger.Nop()),
			NewShareEventWorker(sharing, logger.Nop()),
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Run(ctx)

	assert.Eventually(t, func() bool {
		running, _ := sharing.state()
		return running && syncSvc.calls.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)
}
