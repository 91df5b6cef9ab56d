package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
port = 9000
storage_backend = "file"
snapshot_file = "/tmp/planner.json"
allowed_origins = ["http://localhost:8080"]

[production]
host = "0.0.0.0"
port = 9100
storage_backend = "postgres"
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "planner"
stats_cache_size_mb = 16
log_max_size_mb = 100
log_max_backups = 30
log_max_age_days = 365
log_compress = true
`

func TestParse(t *testing.T) {
	cfg, err := Parse("dev", testToml)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, StorageFile, cfg.StorageBackend)
	assert.Equal(t, "/tmp/planner.json", cfg.SnapshotFile)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.AllowedOrigins)
	assert.Equal(t, 8, cfg.StatsCacheSizeMB)
	assert.Equal(t, "localhost", cfg.PrometheusMetricsHost)
	assert.Equal(t, 50, cfg.LogMaxSizeMB)
	assert.Zero(t, cfg.LogMaxBackups)
	assert.False(t, cfg.LogCompress)

	cfg, err = Parse("PRODUCTION", testToml)
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, "0.0.0.0", cfg.PrometheusMetricsHost)
	assert.Equal(t, 16, cfg.StatsCacheSizeMB)
	assert.Equal(t, 100, cfg.LogMaxSizeMB)
	assert.Equal(t, 30, cfg.LogMaxBackups)
	assert.Equal(t, 365, cfg.LogMaxAgeDays)
	assert.True(t, cfg.LogCompress)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("staging", testToml)
	require.Error(t, err)

	_, err = Parse("dev", `[production]
port = 1`)
	require.Error(t, err)

	_, err = Parse("dev", `[development]
port = 9000
storage_backend = "redis"`)
	require.ErrorContains(t, err, "redis_host")

	_, err = Parse("dev", `[development]
port = 0
storage_backend = "floppy"`)
	require.ErrorContains(t, err, "port 0 out of range")
	require.ErrorContains(t, err, "unknown storage backend: floppy")

	_, err = Parse("dev", `[development]
port = 9000
log_max_age_days = -1`)
	require.ErrorContains(t, err, "must not be negative")

	_, err = Parse("dev", `[development`)
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testToml), 0600))

	cfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)

	_, err = Load("development", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
