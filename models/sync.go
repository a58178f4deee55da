package models

import "time"

// NetworkStatus reflects the coordinator's view of connectivity. It is fed in
// from outside (reachability monitoring is not this layer's job) and gates
// every remote operation.
type NetworkStatus int

const (
	NetworkOnline NetworkStatus = iota
	NetworkOffline
)

func (s NetworkStatus) String() string {
	if s == NetworkOffline {
		return "offline"
	}
	return "online"
}

// SyncStatistics accumulates over the life of the coordinator. Counters only
// grow; AverageSyncDuration is a running mean updated on every attempt,
// successful or not. Reset only through an explicit statistics reset.
type SyncStatistics struct {
	TotalSyncsPerformed int64         `json:"total_syncs_performed"`
	SuccessfulSyncs     int64         `json:"successful_syncs"`
	FailedSyncs         int64         `json:"failed_syncs"`
	AverageSyncDuration time.Duration `json:"average_sync_duration"`
	LastSyncDuration    time.Duration `json:"last_sync_duration"`
	DataTransferred     int64         `json:"data_transferred"`
	ConflictsResolved   int64         `json:"conflicts_resolved"`
}

// RecordAttempt folds one sync attempt into the statistics.
func (s *SyncStatistics) RecordAttempt(d time.Duration, succeeded bool) {
	s.TotalSyncsPerformed++
	if succeeded {
		s.SuccessfulSyncs++
	} else {
		s.FailedSyncs++
	}
	s.LastSyncDuration = d

	// Running mean over all attempts.
	n := s.TotalSyncsPerformed
	s.AverageSyncDuration += (d - s.AverageSyncDuration) / time.Duration(n)
}

// SyncState is the single mutable state value owned by the sync coordinator.
// All mutation happens under the coordinator's lock; callers only ever see
// copies.
type SyncState struct {
	IsSyncing           bool           `json:"is_syncing"`
	LastSyncDate        *time.Time     `json:"last_sync_date,omitempty"`
	SyncError           error          `json:"-"`
	PendingChangesCount int            `json:"pending_changes_count"`
	NetworkStatus       NetworkStatus  `json:"network_status"`
	RetryAttempts       int            `json:"retry_attempts"`
	Statistics          SyncStatistics `json:"statistics"`
}

// SyncProgress is the per-batch progress report emitted during a progress
// sync. It is never persisted.
type SyncProgress struct {
	TotalBatches     int  `json:"total_batches"`
	CompletedBatches int  `json:"completed_batches"`
	IsCompleted      bool `json:"is_completed"`
}
