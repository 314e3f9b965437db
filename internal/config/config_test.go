package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMinioEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "access")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("MINIO_BUCKET", "mixing")
}

func TestLoadConfigDefaults(t *testing.T) {
	setMinioEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "mixing")
	t.Setenv("DB_NAME", "mixing")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, int64(1000), cfg.CreditPriceCents)
	assert.Equal(t, "usd", cfg.Currency)
	assert.False(t, cfg.MinioSSL)
}

func TestLoadConfigRejectsIncompleteDatabase(t *testing.T) {
	setMinioEnv(t)
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database configuration is incomplete")
}

func TestLoadConfigSQLiteNeedsPath(t *testing.T) {
	setMinioEnv(t)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "")

	_, err := LoadConfig("")
	require.Error(t, err)

	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "mixing.db"))
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
}

func TestLoadConfigRejectsBadPrice(t *testing.T) {
	setMinioEnv(t)
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_PATH", "mixing.db")
	t.Setenv("CREDIT_PRICE_CENTS", "0")

	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	setMinioEnv(t)
	path := filepath.Join(t.TempDir(), "mixing.yaml")
	content := "DB_DRIVER: sqlite\nDB_PATH: /tmp/mixing.db\nCREDIT_PRICE_CENTS: 1500\nAPP_PORT: \"9000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mixing.db", cfg.DBPath)
	assert.Equal(t, int64(1500), cfg.CreditPriceCents)
	assert.Equal(t, "9000", cfg.AppPort)
}

func TestConnectDatabaseSQLite(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, DBPath: filepath.Join(t.TempDir(), "mixing.db")}
	db, err := ConnectDatabase(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	assert.NoError(t, sqlDB.Ping())
}
