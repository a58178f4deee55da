package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// traveling-snails sync coordinator. It aggregates all sub-configurations and
// is populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Sync holds the coordinator tuning knobs: retry budget, batch limit,
	// timeout tiers and delays.
	Sync Sync `envPrefix:"SYNC_"`

	// Sharing holds collaboration-zone and share-creation settings.
	Sharing Sharing `envPrefix:"SHARING_"`

	// Storage holds configuration for the local persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Backend holds network address and timeout settings for the remote
	// synchronization backend.
	Backend Backend `envPrefix:"BACKEND_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Sync holds the sync coordinator's tuning parameters.
type Sync struct {
	// MaxRetryAttempts bounds the retry loop of the retrying sync path.
	// Env: SYNC_MAX_RETRY_ATTEMPTS
	MaxRetryAttempts int `env:"MAX_RETRY_ATTEMPTS"`

	// BatchLimit is the backend-imposed per-operation record limit used to
	// compute batch counts for progress sync.
	// Env: SYNC_BATCH_LIMIT
	BatchLimit int `env:"BATCH_LIMIT"`

	// SyncProtectedTrips controls whether protected trips participate in
	// record counts and batch computation.
	// Env: SYNC_PROTECTED_TRIPS
	SyncProtectedTrips *bool `env:"PROTECTED_TRIPS"`

	// OperationTimeout bounds ordinary sync operations (trigger-and-wait,
	// process-pending-changes).
	// Env: SYNC_OPERATION_TIMEOUT
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT"`

	// ProgressTimeout bounds the batch/progress sync path.
	// Env: SYNC_PROGRESS_TIMEOUT
	ProgressTimeout time.Duration `env:"PROGRESS_TIMEOUT"`

	// RetryTimeout bounds the full retry-with-backoff path, which may itself
	// sleep for tens of seconds between attempts.
	// Env: SYNC_RETRY_TIMEOUT
	RetryTimeout time.Duration `env:"RETRY_TIMEOUT"`

	// SettleDelay is the bounded wait after pushing local changes that
	// stands in for the backend's eventual propagation.
	// Env: SYNC_SETTLE_DELAY
	SettleDelay time.Duration `env:"SETTLE_DELAY"`

	// InterBatchDelay is the pause between progress-sync batches so a large
	// sync does not overwhelm the backend.
	// Env: SYNC_INTER_BATCH_DELAY
	InterBatchDelay time.Duration `env:"INTER_BATCH_DELAY"`
}

// Sharing holds collaboration settings for the sharing coordinator.
type Sharing struct {
	// ZoneName is the collaboration zone provisioned before any share is
	// created. The backend's default zone does not support sharing.
	// Env: SHARING_ZONE_NAME
	ZoneName string `env:"ZONE_NAME"`

	// StrictShareURL decides what happens when the backend returns a share
	// without a populated URL after the bounded recovery sequence: true
	// surfaces an error, false degrades to a URL-less share usable for
	// non-link collaboration.
	// Env: SHARING_STRICT_SHARE_URL
	StrictShareURL *bool `env:"STRICT_SHARE_URL"`

	// URLRecoveryDelay is the brief wait before re-checking a share whose
	// URL came back empty.
	// Env: SHARING_URL_RECOVERY_DELAY
	URLRecoveryDelay time.Duration `env:"URL_RECOVERY_DELAY"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path (or ":memory:") used to open the local
	// store.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Backend holds network settings for the remote backend transport.
type Backend struct {
	// HTTPAddress is the remote backend's HTTP endpoint address.
	// Env: BACKEND_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the default timeout for a single outbound request.
	// Env: BACKEND_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// EventPollInterval is how often the event-feed subscription polls for
	// remote changes when the backend has nothing to push.
	// Env: BACKEND_EVENT_POLL_INTERVAL
	EventPollInterval time.Duration `env:"EVENT_POLL_INTERVAL"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval defines how often the periodic sync worker triggers a
	// full sync.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Defaults applied after merging all sources. Values match the remote
// backend's documented limits and the timeout tiers of the coordinator.
const (
	DefaultMaxRetryAttempts  = 3
	DefaultBatchLimit        = 400
	DefaultOperationTimeout  = 30 * time.Second
	DefaultProgressTimeout   = 60 * time.Second
	DefaultRetryTimeout      = 120 * time.Second
	DefaultSettleDelay       = 200 * time.Millisecond
	DefaultInterBatchDelay   = 50 * time.Millisecond
	DefaultURLRecoveryDelay  = 500 * time.Millisecond
	DefaultZoneName          = "TripShareZone"
	DefaultRequestTimeout    = 15 * time.Second
	DefaultEventPollInterval = 5 * time.Second
	DefaultSyncInterval      = 5 * time.Minute
)

// applyDefaults fills every unset field with its documented default.
func (c *StructuredConfig) applyDefaults() {
	if c.Sync.MaxRetryAttempts <= 0 {
		c.Sync.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	if c.Sync.BatchLimit <= 0 {
		c.Sync.BatchLimit = DefaultBatchLimit
	}
	if c.Sync.SyncProtectedTrips == nil {
		v := true
		c.Sync.SyncProtectedTrips = &v
	}
	if c.Sync.OperationTimeout <= 0 {
		c.Sync.OperationTimeout = DefaultOperationTimeout
	}
	if c.Sync.ProgressTimeout <= 0 {
		c.Sync.ProgressTimeout = DefaultProgressTimeout
	}
	if c.Sync.RetryTimeout <= 0 {
		c.Sync.RetryTimeout = DefaultRetryTimeout
	}
	if c.Sync.SettleDelay <= 0 {
		c.Sync.SettleDelay = DefaultSettleDelay
	}
	if c.Sync.InterBatchDelay <= 0 {
		c.Sync.InterBatchDelay = DefaultInterBatchDelay
	}
	if c.Sharing.ZoneName == "" {
		c.Sharing.ZoneName = DefaultZoneName
	}
	if c.Sharing.StrictShareURL == nil {
		v := false
		c.Sharing.StrictShareURL = &v
	}
	if c.Sharing.URLRecoveryDelay <= 0 {
		c.Sharing.URLRecoveryDelay = DefaultURLRecoveryDelay
	}
	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = DefaultRequestTimeout
	}
	if c.Backend.EventPollInterval <= 0 {
		c.Backend.EventPollInterval = DefaultEventPollInterval
	}
	if c.Workers.SyncInterval <= 0 {
		c.Workers.SyncInterval = DefaultSyncInterval
	}
}

// GetConfig loads, merges, and validates the coordinator configuration from
// all available sources in the following priority order (first source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
