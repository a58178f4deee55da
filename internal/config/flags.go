package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a backend address in format [host]:[port] or full URL
//	-d local database DSN (SQLite file path or ":memory:")
//	-c/-config json file path with configs
//	-max-retry-attempts retry budget for the retrying sync path
//	-batch-limit per-operation record limit
//	-sync-interval periodic sync worker interval (e.g., "5m")
//	-request-timeout outbound request timeout (e.g., "15s")
//	-zone-name collaboration zone name
func ParseFlags() *StructuredConfig {
	var backendAddress string
	var databaseDSN string
	var jsonConfigPath string
	var maxRetryAttempts int
	var batchLimit int
	var syncInterval time.Duration
	var requestTimeout time.Duration
	var zoneName string

	flag.StringVar(&backendAddress, "a", "", "Remote backend address")
	flag.StringVar(&databaseDSN, "d", "", "Local database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.IntVar(&maxRetryAttempts, "max-retry-attempts", 0, "Max sync retry attempts")
	flag.IntVar(&batchLimit, "batch-limit", 0, "Per-operation record limit")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Periodic sync interval (e.g., 5m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	flag.StringVar(&zoneName, "zone-name", "", "Collaboration zone name")

	flag.Parse()

	return &StructuredConfig{
		Sync: Sync{
			MaxRetryAttempts: maxRetryAttempts,
			BatchLimit:       batchLimit,
		},
		Sharing: Sharing{
			ZoneName: zoneName,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Backend: Backend{
			HTTPAddress:    backendAddress,
			RequestTimeout: requestTimeout,
		},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}
}
