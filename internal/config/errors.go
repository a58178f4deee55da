package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidBackendConfigs indicates invalid remote backend settings
	// (for example, missing HTTP address).
	ErrInvalidBackendConfigs = errors.New("invalid backend configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid sync tuning settings
	// (for example, a non-positive batch limit).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidSharingConfigs indicates invalid sharing settings
	// (for example, an empty collaboration zone name).
	ErrInvalidSharingConfigs = errors.New("invalid sharing configuration")
)
