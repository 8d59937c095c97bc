package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "ppms.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, 800*time.Millisecond, cfg.LoginLatency)
	assert.Equal(t, 500*time.Millisecond, cfg.WriteLatency)
	assert.Equal(t, 400*time.Millisecond, cfg.ReadLatency)
	assert.Zero(t, cfg.BcryptCost)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PPMS_DB_PATH", "/tmp/ledger.db")
	t.Setenv("PPMS_LOGIN_LATENCY", "0s")
	t.Setenv("PPMS_BCRYPT_COST", "4")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ledger.db", cfg.DBPath)
	assert.Zero(t, cfg.LoginLatency)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestLoad_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PPMS_LOG_LEVEL=debug\nPPMS_DB_PATH=from-file.db\n"), 0o600))
	t.Setenv("PPMS_DB_PATH", "from-env.db")
	// godotenv sets variables process-wide; make sure t restores it
	t.Setenv("PPMS_LOG_LEVEL", "")
	os.Unsetenv("PPMS_LOG_LEVEL")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("PPMS_READ_LATENCY", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoad_NegativeLatency(t *testing.T) {
	t.Setenv("PPMS_WRITE_LATENCY", "-1s")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}
