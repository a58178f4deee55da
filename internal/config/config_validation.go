package config

// validate checks that the final merged [StructuredConfig] satisfies all
// coordinator invariants before it is used at startup. applyDefaults runs
// first, so only fields without sensible defaults are checked here.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Backend.HTTPAddress == "" {
		return ErrInvalidBackendConfigs
	}

	if cfg.Sync.BatchLimit <= 0 || cfg.Sync.MaxRetryAttempts <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Sharing.ZoneName == "" {
		return ErrInvalidSharingConfigs
	}

	return nil
}
