package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"INVOICELY_APP_NAME":                os.Getenv("INVOICELY_APP_NAME"),
		"INVOICELY_APP_ENV":                 os.Getenv("INVOICELY_APP_ENV"),
		"INVOICELY_APP_PORT":                os.Getenv("INVOICELY_APP_PORT"),
		"INVOICELY_DATABASE_HOST":           os.Getenv("INVOICELY_DATABASE_HOST"),
		"INVOICELY_DATABASE_PORT":           os.Getenv("INVOICELY_DATABASE_PORT"),
		"INVOICELY_DATABASE_USER":           os.Getenv("INVOICELY_DATABASE_USER"),
		"INVOICELY_DATABASE_PASSWORD":       os.Getenv("INVOICELY_DATABASE_PASSWORD"),
		"INVOICELY_DATABASE_DBNAME":         os.Getenv("INVOICELY_DATABASE_DBNAME"),
		"INVOICELY_DATABASE_SSLMODE":        os.Getenv("INVOICELY_DATABASE_SSLMODE"),
		"INVOICELY_DATABASE_MAX_OPEN_CONNS": os.Getenv("INVOICELY_DATABASE_MAX_OPEN_CONNS"),
		"INVOICELY_DATABASE_MAX_IDLE_CONNS": os.Getenv("INVOICELY_DATABASE_MAX_IDLE_CONNS"),
		"INVOICELY_JWT_SECRET":              os.Getenv("INVOICELY_JWT_SECRET"),
		"INVOICELY_STORAGE_BUCKET":          os.Getenv("INVOICELY_STORAGE_BUCKET"),
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

		assert.Equal(t, "invoicely-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "invoicely", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "invoicely", cfg.Storage.Bucket)
		assert.Equal(t, "us-east-1", cfg.Storage.Region)
	})

	t.Run("loads values from environment variables with INVOICELY prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICELY_APP_NAME", "test-app")
		os.Setenv("INVOICELY_APP_PORT", "9000")
		os.Setenv("INVOICELY_DATABASE_HOST", "testdb.local")
		os.Setenv("INVOICELY_DATABASE_PORT", "5433")
		os.Setenv("INVOICELY_DATABASE_PASSWORD", "testpass")
		os.Setenv("INVOICELY_STORAGE_BUCKET", "logos")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "logos", cfg.Storage.Bucket)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICELY_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("INVOICELY_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICELY_APP_ENV", "production")
		os.Setenv("INVOICELY_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "invoicely",
		Password: "p@ss/word",
		DBName:   "invoicely",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters in credentials must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
