package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
				assert.Equal(t, 300*time.Second, cfg.CacheTTLFloor)
				assert.Equal(t, 500*time.Millisecond, cfg.CacheOperationTimeout)
				assert.Equal(t, 5, cfg.CachePingMaxAttempts)
				assert.Equal(t, 2*time.Second, cfg.CachePingInterval)
				assert.Equal(t, "aes-gcm", cfg.EncryptionAlgorithm)
				assert.Empty(t, cfg.EncryptionKey)
				assert.True(t, cfg.SweeperEnabled)
				assert.Equal(t, time.Minute, cfg.SweeperInterval)
				assert.Equal(t, 500, cfg.SweeperBatchSize)
				assert.Equal(t, time.Duration(0), cfg.SecretMaxTTL)
				assert.Equal(t, 65536, cfg.SecretMaxPayloadBytes)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_MAX_IDLE_CONNECTIONS": "10",
				"DB_CONN_MAX_LIFETIME":    "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load custom cache configuration",
			envVars: map[string]string{
				"REDIS_URL":               "redis://cache:6380/2",
				"CACHE_TTL_FLOOR_SECONDS": "60",
				"CACHE_OPERATION_TIMEOUT": "250",
				"CACHE_PING_MAX_ATTEMPTS": "3",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "redis://cache:6380/2", cfg.RedisURL)
				assert.Equal(t, time.Minute, cfg.CacheTTLFloor)
				assert.Equal(t, 250*time.Millisecond, cfg.CacheOperationTimeout)
				assert.Equal(t, 3, cfg.CachePingMaxAttempts)
			},
		},
		{
			name: "load custom sweeper configuration",
			envVars: map[string]string{
				"SWEEPER_ENABLED":    "false",
				"SWEEPER_INTERVAL":   "15",
				"SWEEPER_BATCH_SIZE": "20",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.SweeperEnabled)
				assert.Equal(t, 15*time.Second, cfg.SweeperInterval)
				assert.Equal(t, 20, cfg.SweeperBatchSize)
			},
		},
		{
			name: "load custom encryption configuration",
			envVars: map[string]string{
				"ENCRYPTION_KEY":       "a2V5",
				"ENCRYPTION_ALGORITHM": "chacha20-poly1305",
				"KMS_KEY_URI":          "base64key://",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "a2V5", cfg.EncryptionKey)
				assert.Equal(t, "chacha20-poly1305", cfg.EncryptionAlgorithm)
				assert.Equal(t, "base64key://", cfg.KMSKeyURI)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	for _, level := range []string{"info", "warn", "error", "unknown"} {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, "release", cfg.GetGinMode(), "level %s", level)
	}
}
