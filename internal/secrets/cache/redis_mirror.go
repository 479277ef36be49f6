// Package cache implements the Redis mirror of stored secrets. Entries hold the
// encrypted snapshot only and are never consulted for existence or expiry.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// keyPrefix namespaces secret snapshots in Redis.
const keyPrefix = "secret:"

// Key returns the Redis key of a secret snapshot.
func Key(secretID uuid.UUID) string {
	return keyPrefix + secretID.String()
}

// RedisMirror stores secret snapshots in Redis with a TTL floor. Every call is
// bounded by the operation timeout so a slow Redis cannot stall a request.
type RedisMirror struct {
	client    redis.UniversalClient
	ttlFloor  time.Duration
	opTimeout time.Duration
}

// NewRedisMirror creates a mirror on top of an existing client.
func NewRedisMirror(client redis.UniversalClient, ttlFloor, opTimeout time.Duration) *RedisMirror {
	return &RedisMirror{
		client:    client,
		ttlFloor:  ttlFloor,
		opTimeout: opTimeout,
	}
}

// EntryTTL returns max(floor, requested). A secret without a TTL gets the floor.
func (m *RedisMirror) EntryTTL(ttlSeconds *int) time.Duration {
	if ttlSeconds == nil {
		return m.ttlFloor
	}
	requested := time.Duration(*ttlSeconds) * time.Second
	if requested < m.ttlFloor {
		return m.ttlFloor
	}
	return requested
}

// Put writes the snapshot under secret:<id>.
func (m *RedisMirror) Put(ctx context.Context, snapshot *secretsDomain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret snapshot")
	}

	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	if err := m.client.Set(ctx, Key(snapshot.ID), data, m.EntryTTL(snapshot.TTLSeconds)).Err(); err != nil {
		return degraded(err, "redis set")
	}
	return nil
}

// Get returns the cached snapshot, or nil when there is none.
func (m *RedisMirror) Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	data, err := m.client.Get(ctx, Key(secretID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, degraded(err, "redis get")
	}

	var snapshot secretsDomain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, degraded(err, "decode snapshot")
	}
	return &snapshot, nil
}

// Evict removes the snapshot. Evicting a missing key is not an error.
func (m *RedisMirror) Evict(ctx context.Context, secretID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	if err := m.client.Del(ctx, Key(secretID)).Err(); err != nil {
		return degraded(err, "redis del")
	}
	return nil
}

// Ping checks that Redis answers within the operation timeout.
func (m *RedisMirror) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	if err := m.client.Ping(ctx).Err(); err != nil {
		return degraded(err, "redis ping")
	}
	return nil
}

func degraded(err error, op string) error {
	return fmt.Errorf("%s: %w", op, apperrors.Join(secretsDomain.ErrCacheDegraded, err))
}
