package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beforetheshoes/traveling-snails/internal/backend"
	"github.com/beforetheshoes/traveling-snails/internal/config"
	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/internal/store"
	"github.com/beforetheshoes/traveling-snails/models"
)

// SyncCoordinator owns the full sync state machine: one mutable [models.SyncState]
// confined behind its lock, pushed-to by the trigger methods and read through
// State snapshots. It implements [SyncService].
type SyncCoordinator struct {
	cfg        config.Sync
	trips      store.TripRepository
	activities store.ActivityRepository
	lodgings   store.LodgingRepository
	remote     backend.RemoteBackend
	writer     BackgroundSaver
	policy     RetryPolicy
	observers  *ObserverRegistry
	logger     *logger.Logger

	// syncProtected resolved once from cfg so the hot path never chases the
	// pointer.
	syncProtected bool

	mu                     sync.Mutex
	state                  models.SyncState
	simulatedInterruptions int

	// syncGen counts sync passes; syncPublished flips true once the current
	// pass's terminal outcome has been written. Together they make finish and
	// failTimeout publish exactly one outcome per pass regardless of which
	// side of a timeout race runs first.
	syncGen       uint64
	syncPublished bool
}

func NewSyncCoordinator(
	cfg config.Sync,
	trips store.TripRepository,
	activities store.ActivityRepository,
	lodgings store.LodgingRepository,
	remote backend.RemoteBackend,
	writer BackgroundSaver,
	observers *ObserverRegistry,
	log *logger.Logger,
) *SyncCoordinator {
	policy := NewRetryPolicy()
	if cfg.MaxRetryAttempts > 0 {
		policy.MaxAttempts = cfg.MaxRetryAttempts
	}

	return &SyncCoordinator{
		cfg:           cfg,
		trips:         trips,
		activities:    activities,
		lodgings:      lodgings,
		remote:        remote,
		writer:        writer,
		policy:        policy,
		observers:     observers,
		logger:        log,
		syncProtected: cfg.SyncProtectedTrips == nil || *cfg.SyncProtectedTrips,
		syncPublished: true,
	}
}

// TriggerSync starts a full sync in the background and returns immediately.
// Failures land in the sync state and the observer feed, not on the caller.
func (c *SyncCoordinator) TriggerSync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.OperationTimeout)
		defer cancel()

		if err := c.performSync(ctx); err != nil {
			c.logger.Err(err).Msg("background sync failed")
		}
	}()
}

// TriggerSyncAndWait performs a full sync and blocks until it completes or the
// ordinary-operation timeout fires.
func (c *SyncCoordinator) TriggerSyncAndWait(ctx context.Context) error {
	return c.runWithTimeout(ctx, c.cfg.OperationTimeout, c.performSync)
}

// TriggerSyncWithRetry performs a full sync with the policy's backoff between
// transient failures, bounded overall by the retry timeout tier.
func (c *SyncCoordinator) TriggerSyncWithRetry(ctx context.Context) error {
	return c.runWithTimeout(ctx, c.cfg.RetryTimeout, c.retryLoop)
}

// SyncWithProgress performs a batched sync, emitting a progress event after
// every batch. Bounded by the progress timeout tier.
func (c *SyncCoordinator) SyncWithProgress(ctx context.Context) (models.SyncProgress, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProgressTimeout)
	defer cancel()

	type result struct {
		progress models.SyncProgress
		err      error
	}

	done := make(chan result, 1)
	go func() {
		p, err := c.performProgressSync(ctx)
		done <- result{progress: p, err: err}
	}()

	select {
	case res := <-done:
		return res.progress, res.err
	case <-ctx.Done():
		c.failTimeout()
		return models.SyncProgress{}, ErrOperationTimeout
	}
}

// ProcessPendingChanges is a no-op while offline. Online, it optimistically
// zeroes the pending counter and runs a full sync; the counter is recomputed
// from the store during that sync, so an optimistic zero can never stick.
func (c *SyncCoordinator) ProcessPendingChanges(ctx context.Context) error {
	c.mu.Lock()
	offline := c.state.NetworkStatus == models.NetworkOffline
	if !offline {
		c.state.PendingChangesCount = 0
	}
	c.mu.Unlock()

	if offline {
		return nil
	}
	return c.runWithTimeout(ctx, c.cfg.OperationTimeout, c.performSync)
}

// ResolveConflicts groups local trip rows by logical id and, for every group
// with more than one row, keeps the copy with the greatest effective end date
// and deletes the rest. A failed delete is logged and the group does not count
// as resolved; resolution continues with the remaining groups.
func (c *SyncCoordinator) ResolveConflicts(ctx context.Context) error {
	trips, err := c.trips.GetAllTrips(ctx)
	if err != nil {
		return fmt.Errorf("resolve conflicts: %w", err)
	}

	// Group while preserving row order so resolution is deterministic.
	groups := make(map[string][]models.Trip)
	var order []string
	for _, trip := range trips {
		if _, ok := groups[trip.ID]; !ok {
			order = append(order, trip.ID)
		}
		groups[trip.ID] = append(groups[trip.ID], trip)
	}

	for _, id := range order {
		copies := groups[id]
		if len(copies) < 2 {
			continue
		}

		c.observers.NotifySync(SyncEvent{Kind: ConflictDetected})

		// Ties keep the earliest row, so repeated resolution is stable.
		winner := copies[0]
		for _, t := range copies[1:] {
			if t.EffectiveEndDate().After(winner.EffectiveEndDate()) {
				winner = t
			}
		}

		resolved := true
		for _, t := range copies {
			if t.LocalID == winner.LocalID {
				continue
			}
			if err = c.trips.DeleteTripCopy(ctx, t.LocalID); err != nil {
				c.logger.Err(err).
					Str("trip_id", id).
					Int64("local_id", t.LocalID).
					Msg("conflict resolution: failed to delete trip copy")
				resolved = false
			}
		}

		if resolved {
			c.mu.Lock()
			c.state.Statistics.ConflictsResolved++
			c.mu.Unlock()

			c.observers.NotifySync(SyncEvent{Kind: ConflictResolved})
			c.logger.Info().
				Str("trip_id", id).
				Int64("winner_local_id", winner.LocalID).
				Int("copies", len(copies)).
				Msg("resolved duplicate trip copies")
		}
	}

	return nil
}

// SyncAndResolveConflicts runs a full sync followed by conflict resolution
// under one ordinary-operation timeout.
func (c *SyncCoordinator) SyncAndResolveConflicts(ctx context.Context) error {
	return c.runWithTimeout(ctx, c.cfg.OperationTimeout, func(ctx context.Context) error {
		if err := c.performSync(ctx); err != nil {
			return err
		}
		return c.ResolveConflicts(ctx)
	})
}

// SetNetworkStatus records the connectivity change. Going offline clears the
// syncing flag: whatever was optimistically in flight will fail on its own,
// and the state should not claim progress meanwhile. Both transitions
// recompute the pending count; coming online never auto-triggers a sync.
func (c *SyncCoordinator) SetNetworkStatus(status models.NetworkStatus) {
	c.mu.Lock()
	c.state.NetworkStatus = status
	if status == models.NetworkOffline {
		c.state.IsSyncing = false
	}
	c.mu.Unlock()

	c.logger.Info().Str("status", status.String()).Msg("network status changed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.refreshPendingCount(ctx); err != nil {
		c.logger.Err(err).Msg("failed to recompute pending changes count")
	}
}

// SetSimulatedInterruptions makes the next n retry attempts fail with a
// network error before reaching the backend.
func (c *SyncCoordinator) SetSimulatedInterruptions(n int) {
	c.mu.Lock()
	c.simulatedInterruptions = n
	c.mu.Unlock()
}

// State returns a snapshot of the current sync state.
func (c *SyncCoordinator) State() models.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ResetStatistics zeroes the accumulated statistics.
func (c *SyncCoordinator) ResetStatistics() {
	c.mu.Lock()
	c.state.Statistics = models.SyncStatistics{}
	c.mu.Unlock()
}

// performSync is the single full-sync pass behind every trigger variant:
// guard, push local changes, settle, publish the outcome. Exactly one
// statistics attempt is recorded per logical sync.
func (c *SyncCoordinator) performSync(ctx context.Context) error {
	c.mu.Lock()
	if c.state.IsSyncing {
		// Another trigger owns this run; observe it and do nothing.
		c.mu.Unlock()
		return nil
	}
	if c.state.NetworkStatus == models.NetworkOffline {
		c.state.SyncError = ErrNetworkUnavailable
		c.state.Statistics.RecordAttempt(0, false)
		c.syncPublished = true
		c.mu.Unlock()

		c.observers.NotifySync(SyncEvent{Kind: SyncFailed, Err: ErrNetworkUnavailable})
		return ErrNetworkUnavailable
	}
	c.state.IsSyncing = true
	c.state.SyncError = nil
	c.syncGen++
	c.syncPublished = false
	gen := c.syncGen
	c.mu.Unlock()

	c.observers.NotifySync(SyncEvent{Kind: SyncStarted})
	started := time.Now()

	pushed, err := c.runSyncPass(ctx)
	return c.finish(ctx, gen, started, pushed, err)
}

// runSyncPass does the remote work of one sync: account check, pending
// recount, atomic push of dirty records, local flush, settle.
func (c *SyncCoordinator) runSyncPass(ctx context.Context) (int, error) {
	status, err := c.remote.AccountStatus(ctx)
	if err != nil {
		return 0, mapBackendError(err)
	}
	if err = mapAccountStatus(status); err != nil {
		return 0, err
	}

	if err = c.refreshPendingCount(ctx); err != nil {
		return 0, err
	}

	records, err := c.gatherRecords(ctx, true)
	if err != nil {
		return 0, err
	}

	for _, batch := range chunkRecords(records, c.cfg.BatchLimit) {
		if _, err = c.remote.SaveRecordsAtomic(ctx, batch); err != nil {
			return 0, mapBackendError(err)
		}
	}

	if len(records) > 0 {
		if err = c.writer.PerformBackgroundSave(ctx, "mark-records-clean", store.MarkAllClean(ctx)); err != nil {
			return 0, fmt.Errorf("flush local changes: %w", err)
		}
	}

	c.settle(ctx)
	return len(records), nil
}

// performProgressSync pushes the full record set in batches, reporting after
// each one. Zero records still count as one (empty) batch so a caller always
// sees completion.
func (c *SyncCoordinator) performProgressSync(ctx context.Context) (models.SyncProgress, error) {
	c.mu.Lock()
	if c.state.IsSyncing {
		c.mu.Unlock()
		return models.SyncProgress{}, nil
	}
	if c.state.NetworkStatus == models.NetworkOffline {
		c.state.SyncError = ErrNetworkUnavailable
		c.state.Statistics.RecordAttempt(0, false)
		c.syncPublished = true
		c.mu.Unlock()

		c.observers.NotifySync(SyncEvent{Kind: SyncFailed, Err: ErrNetworkUnavailable})
		return models.SyncProgress{}, ErrNetworkUnavailable
	}
	c.state.IsSyncing = true
	c.state.SyncError = nil
	c.syncGen++
	c.syncPublished = false
	gen := c.syncGen
	c.mu.Unlock()

	c.observers.NotifySync(SyncEvent{Kind: SyncStarted})
	started := time.Now()

	records, err := c.gatherRecords(ctx, false)
	if err != nil {
		return models.SyncProgress{}, c.finish(ctx, gen, started, 0, err)
	}

	batches := chunkRecords(records, c.cfg.BatchLimit)
	progress := models.SyncProgress{
		TotalBatches: totalBatches(len(records), c.cfg.BatchLimit),
	}

	if len(batches) == 0 {
		// Nothing to transfer; the single logical batch completes instantly.
		progress.CompletedBatches = progress.TotalBatches
		progress.IsCompleted = true
		c.observers.NotifySync(SyncEvent{Kind: SyncProgressed, Progress: progress})
		return progress, c.finish(ctx, gen, started, 0, nil)
	}

	for i, batch := range batches {
		if _, err = c.remote.SaveRecordsAtomic(ctx, batch); err != nil {
			return progress, c.finish(ctx, gen, started, 0, mapBackendError(err))
		}

		progress.CompletedBatches = i + 1
		progress.IsCompleted = progress.CompletedBatches == progress.TotalBatches
		c.observers.NotifySync(SyncEvent{Kind: SyncProgressed, Progress: progress})

		if !progress.IsCompleted {
			select {
			case <-time.After(c.cfg.InterBatchDelay):
			case <-ctx.Done():
				return progress, c.finish(ctx, gen, started, 0, ErrOperationTimeout)
			}
		}
	}

	if err = c.writer.PerformBackgroundSave(ctx, "mark-records-clean", store.MarkAllClean(ctx)); err != nil {
		return progress, c.finish(ctx, gen, started, 0, fmt.Errorf("flush local changes: %w", err))
	}

	c.settle(ctx)
	return progress, c.finish(ctx, gen, started, len(records), nil)
}

// retryLoop drives performSync through the policy's attempt budget. Simulated
// interruptions consume attempts without touching the backend; non-transient
// errors end the loop at once; exhaustion reports the network as the terminal
// cause.
func (c *SyncCoordinator) retryLoop(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		c.mu.Lock()
		c.state.RetryAttempts = attempt
		interrupted := c.simulatedInterruptions > 0
		if interrupted {
			c.simulatedInterruptions--
		}
		c.mu.Unlock()

		var err error
		if interrupted {
			err = fmt.Errorf("simulated interruption: %w", ErrNetworkUnavailable)
			c.mu.Lock()
			c.state.SyncError = err
			c.state.Statistics.RecordAttempt(0, false)
			c.syncPublished = true
			c.mu.Unlock()
			c.observers.NotifySync(SyncEvent{Kind: SyncFailed, Err: err})
		} else {
			err = c.performSync(ctx)
		}

		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if !c.policy.ShouldRetry(attempt) {
			c.mu.Lock()
			c.state.SyncError = ErrNetworkUnavailable
			c.mu.Unlock()
			return ErrNetworkUnavailable
		}

		delay := c.policy.Delay(attempt, err)
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("sync attempt failed, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ErrOperationTimeout
		}
	}
}

// finish publishes the outcome of the sync pass identified by gen. An expired
// ctx turns any outcome into a timeout failure. When the timeout branch
// already published this pass (or a newer pass owns the state), the result is
// returned without touching the state again, keeping the one-attempt-per-pass
// statistics invariant.
func (c *SyncCoordinator) finish(ctx context.Context, gen uint64, started time.Time, transferred int, err error) error {
	if ctx.Err() != nil {
		err = ErrOperationTimeout
	}
	elapsed := time.Since(started)

	c.mu.Lock()
	if gen != c.syncGen || c.syncPublished {
		c.mu.Unlock()
		return err
	}
	c.syncPublished = true

	if err != nil {
		c.state.IsSyncing = false
		c.state.SyncError = err
		c.state.Statistics.RecordAttempt(elapsed, false)
		c.mu.Unlock()

		c.observers.NotifySync(SyncEvent{Kind: SyncFailed, Err: err})
		return err
	}

	now := time.Now()
	c.state.IsSyncing = false
	c.state.SyncError = nil
	c.state.LastSyncDate = &now
	c.state.PendingChangesCount = 0
	c.state.RetryAttempts = 0
	c.state.Statistics.DataTransferred += int64(transferred)
	c.state.Statistics.RecordAttempt(elapsed, true)
	c.mu.Unlock()

	c.observers.NotifySync(SyncEvent{Kind: SyncCompleted})
	return nil
}

// failTimeout is the losing branch of a timeout race: if the in-flight pass
// has not published its outcome yet, publish the timeout for it. A pass that
// already finished keeps its own outcome.
func (c *SyncCoordinator) failTimeout() {
	c.mu.Lock()
	if c.syncPublished {
		c.mu.Unlock()
		return
	}
	c.syncPublished = true
	c.state.IsSyncing = false
	c.state.SyncError = ErrOperationTimeout
	c.state.Statistics.RecordAttempt(0, false)
	c.mu.Unlock()

	c.observers.NotifySync(SyncEvent{Kind: SyncFailed, Err: ErrOperationTimeout})
}

// runWithTimeout races op against the deadline. The op goroutine keeps its
// own ctx and aborts through it; the timeout branch publishes the terminal
// state immediately instead of waiting for the abort to propagate.
func (c *SyncCoordinator) runWithTimeout(ctx context.Context, d time.Duration, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		c.failTimeout()
		return ErrOperationTimeout
	}
}

// refreshPendingCount recomputes the pending counter from the dirty counts of
// all three tables.
func (c *SyncCoordinator) refreshPendingCount(ctx context.Context) error {
	tripCount, err := c.trips.CountDirtyTrips(ctx)
	if err != nil {
		return fmt.Errorf("count dirty trips: %w", err)
	}
	activityCount, err := c.activities.CountDirtyActivities(ctx)
	if err != nil {
		return fmt.Errorf("count dirty activities: %w", err)
	}
	lodgingCount, err := c.lodgings.CountDirtyLodgings(ctx)
	if err != nil {
		return fmt.Errorf("count dirty lodgings: %w", err)
	}

	c.mu.Lock()
	c.state.PendingChangesCount = tripCount + activityCount + lodgingCount
	c.mu.Unlock()
	return nil
}

// gatherRecords builds the outbound record set. With dirtyOnly it carries only
// uncommitted changes; otherwise the full syncable data set. Protected trips
// and their children are skipped when protected-trip sync is off, and
// duplicate local copies of a trip collapse into one record (the conflict
// resolver owns duplicates, the wire never sees them).
func (c *SyncCoordinator) gatherRecords(ctx context.Context, dirtyOnly bool) ([]models.RemoteRecord, error) {
	trips, err := c.trips.GetAllTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("gather records: %w", err)
	}

	var records []models.RemoteRecord
	seen := make(map[string]bool, len(trips))
	for _, trip := range trips {
		if trip.Protected && !c.syncProtected {
			continue
		}
		if seen[trip.ID] {
			continue
		}
		seen[trip.ID] = true

		if !dirtyOnly || trip.Dirty {
			records = append(records, tripToRecord(trip, models.DefaultZone))
		}

		activities, err := c.activities.GetActivitiesByTrip(ctx, trip.ID)
		if err != nil {
			return nil, fmt.Errorf("gather records for trip %s: %w", trip.ID, err)
		}
		for _, a := range activities {
			if !dirtyOnly || a.Dirty {
				records = append(records, activityToRecord(a, models.DefaultZone))
			}
		}

		lodgings, err := c.lodgings.GetLodgingsByTrip(ctx, trip.ID)
		if err != nil {
			return nil, fmt.Errorf("gather records for trip %s: %w", trip.ID, err)
		}
		for _, l := range lodgings {
			if !dirtyOnly || l.Dirty {
				records = append(records, lodgingToRecord(l, models.DefaultZone))
			}
		}
	}

	return records, nil
}

// settle is the bounded wait that stands in for the backend's eventual
// propagation after a push.
func (c *SyncCoordinator) settle(ctx context.Context) {
	select {
	case <-time.After(c.cfg.SettleDelay):
	case <-ctx.Done():
	}
}

// totalBatches is the batch count for n records at the given per-operation
// limit: ceil(n/limit), minimum one so an empty sync still completes a batch.
func totalBatches(n, limit int) int {
	if n <= 0 {
		return 1
	}
	return (n + limit - 1) / limit
}

// chunkRecords splits records into batches of at most limit.
func chunkRecords(records []models.RemoteRecord, limit int) [][]models.RemoteRecord {
	if len(records) == 0 {
		return nil
	}
	var chunks [][]models.RemoteRecord
	for start := 0; start < len(records); start += limit {
		end := start + limit
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}
