package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/secretdrop/secretdrop/internal/database"
	"github.com/secretdrop/secretdrop/internal/secrets/cache"
	secretsHTTP "github.com/secretdrop/secretdrop/internal/secrets/http"
	secretsRepository "github.com/secretdrop/secretdrop/internal/secrets/repository"
	secretsUseCase "github.com/secretdrop/secretdrop/internal/secrets/usecase"
)

// RedisClient returns the Redis client of the cache mirror. No connection is made until
// the first command; use VerifyCache to check reachability.
func (c *Container) RedisClient() (*redis.Client, error) {
	var err error
	c.redisClientInit.Do(func() {
		c.redisClient, err = cache.NewClient(cache.ClientOptions{
			URL:          c.config.RedisURL,
			PoolSize:     c.config.RedisPoolSize,
			ReadTimeout:  c.config.CacheOperationTimeout,
			WriteTimeout: c.config.CacheOperationTimeout,
		})
		if err != nil {
			c.setInitError("redisClient", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("redisClient"); storedErr != nil {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// VerifyCache pings Redis with the configured bounded retries. The server refuses to start
// when it fails.
func (c *Container) VerifyCache(ctx context.Context) error {
	client, err := c.RedisClient()
	if err != nil {
		return err
	}
	return cache.WaitForRedis(
		ctx,
		client,
		c.config.CachePingMaxAttempts,
		c.config.CachePingInterval,
		c.Logger(),
	)
}

// SecretRepository returns the secret repository based on database driver.
func (c *Container) SecretRepository() (secretsUseCase.SecretRepository, error) {
	var err error
	c.secretRepositoryInit.Do(func() {
		c.secretRepository, err = c.initSecretRepository()
		if err != nil {
			c.setInitError("secretRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretRepository, nil
}

// AuditRepository returns the audit trail repository based on database driver.
func (c *Container) AuditRepository() (secretsUseCase.AuditRepository, error) {
	var err error
	c.auditRepositoryInit.Do(func() {
		c.auditRepository, err = c.initAuditRepository()
		if err != nil {
			c.setInitError("auditRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("auditRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.auditRepository, nil
}

// SecretCache returns the Redis cache mirror.
func (c *Container) SecretCache() (*cache.RedisMirror, error) {
	var err error
	c.secretCacheInit.Do(func() {
		var client *redis.Client
		client, err = c.RedisClient()
		if err != nil {
			err = fmt.Errorf("failed to get redis client for secret cache: %w", err)
			c.setInitError("secretCache", err)
			return
		}
		c.secretCache = cache.NewRedisMirror(client, c.config.CacheTTLFloor, c.config.CacheOperationTimeout)
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretCache"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretCache, nil
}

// SecretUseCase returns the secret use case.
func (c *Container) SecretUseCase() (secretsUseCase.SecretUseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase()
		if err != nil {
			c.setInitError("secretUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// ExpirySweeper returns the background sweeper for expired secrets.
func (c *Container) ExpirySweeper() (*secretsUseCase.ExpirySweeper, error) {
	var err error
	c.expirySweeperInit.Do(func() {
		c.expirySweeper, err = c.initExpirySweeper()
		if err != nil {
			c.setInitError("expirySweeper", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("expirySweeper"); storedErr != nil {
		return nil, storedErr
	}
	return c.expirySweeper, nil
}

// SecretHandler returns the HTTP handler for secret operations.
func (c *Container) SecretHandler() (*secretsHTTP.SecretHandler, error) {
	var err error
	c.secretHandlerInit.Do(func() {
		c.secretHandler, err = c.initSecretHandler()
		if err != nil {
			c.setInitError("secretHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretHandler, nil
}

// initSecretRepository creates the secret repository based on the database driver.
func (c *Container) initSecretRepository() (secretsUseCase.SecretRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return secretsRepository.NewPostgreSQLSecretRepository(db), nil
	case database.DriverMySQL:
		return secretsRepository.NewMySQLSecretRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditRepository creates the audit repository based on the database driver.
func (c *Container) initAuditRepository() (secretsUseCase.AuditRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return secretsRepository.NewPostgreSQLAuditRepository(db), nil
	case database.DriverMySQL:
		return secretsRepository.NewMySQLAuditRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecretUseCase creates the secret use case with all its dependencies.
func (c *Container) initSecretUseCase() (secretsUseCase.SecretUseCase, error) {
	secretRepository, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for secret use case: %w", err)
	}

	auditRepository, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for secret use case: %w", err)
	}

	secretCache, err := c.SecretCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret cache for secret use case: %w", err)
	}

	cipherBox, err := c.CipherBox()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher box for secret use case: %w", err)
	}

	baseUseCase := secretsUseCase.NewSecretUseCase(
		secretRepository,
		auditRepository,
		secretCache,
		cipherBox,
		secretsUseCase.Limits{
			MaxPayloadBytes: c.config.SecretMaxPayloadBytes,
			MaxTTLSeconds:   int(c.config.SecretMaxTTL / time.Second),
		},
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for secret use case: %w", err)
		}
		return secretsUseCase.NewSecretUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initExpirySweeper creates the sweeper with all its dependencies.
func (c *Container) initExpirySweeper() (*secretsUseCase.ExpirySweeper, error) {
	secretRepository, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for expiry sweeper: %w", err)
	}

	auditRepository, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for expiry sweeper: %w", err)
	}

	secretCache, err := c.SecretCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret cache for expiry sweeper: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for expiry sweeper: %w", err)
	}

	return secretsUseCase.NewExpirySweeper(
		secretsUseCase.SweeperConfig{
			Interval:  c.config.SweeperInterval,
			BatchSize: c.config.SweeperBatchSize,
		},
		secretRepository,
		auditRepository,
		secretCache,
		businessMetrics,
		c.Logger(),
	), nil
}

// initSecretHandler creates the secret HTTP handler with all its dependencies.
func (c *Container) initSecretHandler() (*secretsHTTP.SecretHandler, error) {
	secretUseCase, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for secret handler: %w", err)
	}

	return secretsHTTP.NewSecretHandler(secretUseCase, c.config.SecretMaxPayloadBytes, c.Logger()), nil
}
