package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"SYNCBRIDGE_APP_NAME":                os.Getenv("SYNCBRIDGE_APP_NAME"),
		"SYNCBRIDGE_APP_ENV":                 os.Getenv("SYNCBRIDGE_APP_ENV"),
		"SYNCBRIDGE_APP_PORT":                os.Getenv("SYNCBRIDGE_APP_PORT"),
		"SYNCBRIDGE_DATABASE_HOST":           os.Getenv("SYNCBRIDGE_DATABASE_HOST"),
		"SYNCBRIDGE_DATABASE_PORT":           os.Getenv("SYNCBRIDGE_DATABASE_PORT"),
		"SYNCBRIDGE_DATABASE_PASSWORD":       os.Getenv("SYNCBRIDGE_DATABASE_PASSWORD"),
		"SYNCBRIDGE_DATABASE_MAX_OPEN_CONNS": os.Getenv("SYNCBRIDGE_DATABASE_MAX_OPEN_CONNS"),
		"SYNCBRIDGE_DATABASE_MAX_IDLE_CONNS": os.Getenv("SYNCBRIDGE_DATABASE_MAX_IDLE_CONNS"),
		"SYNCBRIDGE_REMOTE_BASE_URL":         os.Getenv("SYNCBRIDGE_REMOTE_BASE_URL"),
		"SYNCBRIDGE_REMOTE_TIMEOUT":          os.Getenv("SYNCBRIDGE_REMOTE_TIMEOUT"),
		"SYNCBRIDGE_SYNC_INTERVAL":           os.Getenv("SYNCBRIDGE_SYNC_INTERVAL"),
		"SYNCBRIDGE_SYNC_CHUNK_SIZE":         os.Getenv("SYNCBRIDGE_SYNC_CHUNK_SIZE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "syncbridge", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
		assert.Equal(t, 30*time.Minute, cfg.Sync.Interval)
		assert.Equal(t, 50, cfg.Sync.ChunkSize)
		assert.Equal(t, 10, cfg.Sync.MaxReportedFailures)
	})

	t.Run("loads values from environment variables with SYNCBRIDGE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SYNCBRIDGE_APP_PORT", "9000")
		os.Setenv("SYNCBRIDGE_DATABASE_HOST", "testdb.local")
		os.Setenv("SYNCBRIDGE_REMOTE_BASE_URL", "https://catalog.example.com/api")
		os.Setenv("SYNCBRIDGE_SYNC_INTERVAL", "5m")
		os.Setenv("SYNCBRIDGE_SYNC_CHUNK_SIZE", "25")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, "https://catalog.example.com/api", cfg.Remote.BaseURL)
		assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
		assert.Equal(t, 25, cfg.Sync.ChunkSize)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SYNCBRIDGE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SYNCBRIDGE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("rejects relative remote base URL", func(t *testing.T) {
		clearEnv()
		os.Setenv("SYNCBRIDGE_REMOTE_BASE_URL", "catalog.example.com/api")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "remote.base_url")
	})

	t.Run("rejects sub-minute sync interval", func(t *testing.T) {
		clearEnv()
		os.Setenv("SYNCBRIDGE_SYNC_INTERVAL", "10s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sync.interval")
	})

	t.Run("production requires remote base URL and database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("SYNCBRIDGE_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "sync",
		Password: "p@ss/word",
		DBName:   "syncbridge",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
