package service

import (
	"context"

	"github.com/beforetheshoes/traveling-snails/internal/store"
	"github.com/beforetheshoes/traveling-snails/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// BackgroundSaver runs a local-store mutation in an isolated background
// transaction. Satisfied by [store.BackgroundWriter].
type BackgroundSaver interface {
	PerformBackgroundSave(ctx context.Context, label string, mutate func(tx *store.WriteTx) error) error
}

// SyncService is the application-facing contract of the sync coordinator.
// All methods are safe for concurrent use; state mutations are serialized on
// the coordinator's own confinement lock.
type SyncService interface {
	// TriggerSync starts a full sync in the background and returns
	// immediately. A trigger that overlaps an in-flight sync observes the
	// existing run and does nothing; side effects such as statistics happen
	// exactly once per logical sync.
	TriggerSync()

	// TriggerSyncAndWait performs a full sync and blocks until it completes
	// or the ordinary-operation timeout elapses, whichever is first. On
	// timeout the sync error becomes the timeout error and the syncing flag
	// is forced back to false.
	TriggerSyncAndWait(ctx context.Context) error

	// TriggerSyncWithRetry performs a full sync, retrying transient
	// failures with the retry policy's backoff up to the attempt budget.
	// Non-transient failures end the loop immediately. Exhausting the
	// budget reports the network as the terminal cause. Bounded by the
	// retry timeout tier.
	TriggerSyncWithRetry(ctx context.Context) error

	// SyncWithProgress performs a batched sync, emitting a progress event
	// after each batch. The returned progress reports how many batches
	// completed; IsCompleted is true only when all of them did. Bounded by
	// the progress timeout tier.
	SyncWithProgress(ctx context.Context) (models.SyncProgress, error)

	// ProcessPendingChanges is a no-op while offline; otherwise it
	// optimistically zeroes the pending counter and performs a full sync
	// under the ordinary-operation timeout.
	ProcessPendingChanges(ctx context.Context) error

	// ResolveConflicts groups local trip copies by logical id and, for each
	// group with more than one member, keeps the copy with the greatest
	// effective end date and deletes the rest.
	ResolveConflicts(ctx context.Context) error

	// SyncAndResolveConflicts runs a full sync followed by conflict
	// resolution under one ordinary-operation timeout.
	SyncAndResolveConflicts(ctx context.Context) error

	// SetNetworkStatus feeds connectivity changes into the coordinator.
	// Going offline halts in-progress optimism; both transitions recompute
	// the pending-changes count. Coming online never auto-triggers a sync.
	SetNetworkStatus(status models.NetworkStatus)

	// SetSimulatedInterruptions makes the next n retry attempts fail with a
	// network error before touching the backend. Test and demo hook.
	SetSimulatedInterruptions(n int)

	// State returns a snapshot of the coordinator's current state.
	State() models.SyncState

	// ResetStatistics zeroes the accumulated sync statistics.
	ResetStatistics()
}

// SharingService is the application-facing contract of the sharing
// coordinator.
type SharingService interface {
	// ProvisionZone ensures the collaboration zone exists, creating it on
	// the backend only if absent. Idempotent and cached.
	ProvisionZone(ctx context.Context, name string) error

	// CreateShare returns the trip's share, creating it remotely on first
	// call. Concurrent calls for the same trip coalesce into one backend
	// operation; every caller receives the same share.
	CreateShare(ctx context.Context, trip models.Trip) (models.Share, error)

	// RemoveShare deletes the trip's remote share and clears the local
	// share identifier. Removing an unshared trip logs a warning and
	// returns nil.
	RemoveShare(ctx context.Context, trip models.Trip) error

	// AcceptShare redeems share metadata received from another participant.
	AcceptShare(ctx context.Context, meta models.ShareMetadata) (models.Share, error)

	// GetSharingInfo answers "is this trip shared, and with whom". It never
	// returns an error: fetch failures are logged and reported as not
	// shared.
	GetSharingInfo(ctx context.Context, trip models.Trip) models.SharingInfo

	// Run consumes the remote event feed until ctx is cancelled, keeping
	// the share cache coherent with changes made by other participants.
	Run(ctx context.Context)
}
