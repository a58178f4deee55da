package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Sync struct {
		MaxRetryAttempts int      `json:"max_retry_attempts"`
		BatchLimit       int      `json:"batch_limit"`
		ProtectedTrips   *bool    `json:"protected_trips,omitempty"`
		OperationTimeout Duration `json:"operation_timeout"`
		ProgressTimeout  Duration `json:"progress_timeout"`
		RetryTimeout     Duration `json:"retry_timeout"`
		SettleDelay      Duration `json:"settle_delay"`
		InterBatchDelay  Duration `json:"inter_batch_delay"`
	} `json:"sync,omitempty"`

	Sharing struct {
		ZoneName         string   `json:"zone_name"`
		StrictShareURL   *bool    `json:"strict_share_url,omitempty"`
		URLRecoveryDelay Duration `json:"url_recovery_delay"`
	} `json:"sharing,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Backend struct {
		HTTPAddress       string   `json:"http_address"`
		RequestTimeout    Duration `json:"request_timeout"`
		EventPollInterval Duration `json:"event_poll_interval"`
	} `json:"backend,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Sync: Sync{
			MaxRetryAttempts:   jsonCfg.Sync.MaxRetryAttempts,
			BatchLimit:         jsonCfg.Sync.BatchLimit,
			SyncProtectedTrips: jsonCfg.Sync.ProtectedTrips,
			OperationTimeout:   time.Duration(jsonCfg.Sync.OperationTimeout),
			ProgressTimeout:    time.Duration(jsonCfg.Sync.ProgressTimeout),
			RetryTimeout:       time.Duration(jsonCfg.Sync.RetryTimeout),
			SettleDelay:        time.Duration(jsonCfg.Sync.SettleDelay),
			InterBatchDelay:    time.Duration(jsonCfg.Sync.InterBatchDelay),
		},
		Sharing: Sharing{
			ZoneName:         jsonCfg.Sharing.ZoneName,
			StrictShareURL:   jsonCfg.Sharing.StrictShareURL,
			URLRecoveryDelay: time.Duration(jsonCfg.Sharing.URLRecoveryDelay),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Backend: Backend{
			HTTPAddress:       jsonCfg.Backend.HTTPAddress,
			RequestTimeout:    time.Duration(jsonCfg.Backend.RequestTimeout),
			EventPollInterval: time.Duration(jsonCfg.Backend.EventPollInterval),
		},
		Workers:      Workers{SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval)},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
