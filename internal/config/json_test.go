package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSONConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_AllFields(t *testing.T) {
	path := writeTempJSONConfig(t, `{
		"sync": {
			"max_retry_attempts": 4,
			"batch_limit": 100,
			"protected_trips": false,
			"operation_timeout": "10s",
			"progress_timeout": "30s",
			"retry_timeout": "1m",
			"settle_delay": "100ms",
			"inter_batch_delay": "20ms"
		},
		"sharing": {
			"zone_name": "FamilyTrips",
			"strict_share_url": true,
			"url_recovery_delay": "300ms"
		},
		"storage": {"db": {"dsn": "/var/lib/snails/trips.db"}},
		"backend": {
			"http_address": "https://sync.example.com",
			"request_timeout": "20s",
			"event_poll_interval": "3s"
		},
		"workers": {"sync_interval": "15m"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Sync.MaxRetryAttempts)
	assert.Equal(t, 100, cfg.Sync.BatchLimit)
	require.NotNil(t, cfg.Sync.SyncProtectedTrips)
	assert.False(t, *cfg.Sync.SyncProtectedTrips)
	assert.Equal(t, 10*time.Second, cfg.Sync.OperationTimeout)
	assert.Equal(t, 30*time.Second, cfg.Sync.ProgressTimeout)
	assert.Equal(t, time.Minute, cfg.Sync.RetryTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Sync.SettleDelay)
	assert.Equal(t, 20*time.Millisecond, cfg.Sync.InterBatchDelay)

	assert.Equal(t, "FamilyTrips", cfg.Sharing.ZoneName)
	require.NotNil(t, cfg.Sharing.StrictShareURL)
	assert.True(t, *cfg.Sharing.StrictShareURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Sharing.URLRecoveryDelay)

	assert.Equal(t, "/var/lib/snails/trips.db", cfg.Storage.DB.DSN)

	assert.Equal(t, "https://sync.example.com", cfg.Backend.HTTPAddress)
	assert.Equal(t, 20*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.Backend.EventPollInterval)

	assert.Equal(t, 15*time.Minute, cfg.Workers.SyncInterval)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_PartialFields(t *testing.T) {
	path := writeTempJSONConfig(t, `{"backend": {"http_address": "localhost:8080"}}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Backend.HTTPAddress)
	assert.Zero(t, cfg.Sync.MaxRetryAttempts)
	assert.Nil(t, cfg.Sync.SyncProtectedTrips)
	assert.Empty(t, cfg.Sharing.ZoneName)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON("/nonexistent/config.json")
	require.Error(t, err)
}

func TestParseJSON_MalformedJSON(t *testing.T) {
	path := writeTempJSONConfig(t, `{"sync": {`)

	_, err := parseJSON(path)
	require.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", input: `"1h30m"`, want: 90 * time.Minute},
		{name: "seconds string", input: `"45s"`, want: 45 * time.Second},
		{name: "numeric nanoseconds", input: `1000000000`, want: time.Second},
		{name: "invalid string", input: `"yesterday"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(out))
}
