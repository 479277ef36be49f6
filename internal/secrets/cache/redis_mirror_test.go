package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

func newTestMirror(t *testing.T) (*RedisMirror, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewRedisMirror(client, 300*time.Second, time.Second), server
}

func newSnapshot(ttl *int) *secretsDomain.Snapshot {
	createdAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return &secretsDomain.Snapshot{
		ID:               uuid.Must(uuid.NewV7()),
		AccessKey:        uuid.NewString(),
		EncryptedPayload: []byte{0x01, 0x02, 0xff},
		CreatedAt:        createdAt,
		TTLSeconds:       ttl,
	}
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("0190f1a2-0000-7000-8000-000000000001")
	assert.Equal(t, "secret:0190f1a2-0000-7000-8000-000000000001", Key(id))
}

func TestRedisMirror_EntryTTL(t *testing.T) {
	mirror := NewRedisMirror(nil, 300*time.Second, time.Second)

	short, long := 10, 3600
	assert.Equal(t, 300*time.Second, mirror.EntryTTL(nil))
	assert.Equal(t, 300*time.Second, mirror.EntryTTL(&short))
	assert.Equal(t, 3600*time.Second, mirror.EntryTTL(&long))
}

func TestRedisMirror_PutGetEvict(t *testing.T) {
	ctx := context.Background()
	mirror, server := newTestMirror(t)

	ttl := 3600
	snapshot := newSnapshot(&ttl)

	require.NoError(t, mirror.Put(ctx, snapshot))
	assert.True(t, server.Exists(Key(snapshot.ID)))
	assert.Equal(t, time.Hour, server.TTL(Key(snapshot.ID)))

	got, err := mirror.Get(ctx, snapshot.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snapshot.AccessKey, got.AccessKey)
	assert.Equal(t, snapshot.EncryptedPayload, got.EncryptedPayload)
	assert.True(t, snapshot.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, mirror.Evict(ctx, snapshot.ID))
	assert.False(t, server.Exists(Key(snapshot.ID)))

	got, err = mirror.Get(ctx, snapshot.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisMirror_ShortTTLUsesFloor(t *testing.T) {
	mirror, server := newTestMirror(t)

	ttl := 5
	snapshot := newSnapshot(&ttl)
	require.NoError(t, mirror.Put(context.Background(), snapshot))

	assert.Equal(t, 300*time.Second, server.TTL(Key(snapshot.ID)))
}

func TestRedisMirror_EntryExpires(t *testing.T) {
	mirror, server := newTestMirror(t)

	snapshot := newSnapshot(nil)
	require.NoError(t, mirror.Put(context.Background(), snapshot))

	server.FastForward(301 * time.Second)

	got, err := mirror.Get(context.Background(), snapshot.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisMirror_EvictMissingKey(t *testing.T) {
	mirror, _ := newTestMirror(t)
	assert.NoError(t, mirror.Evict(context.Background(), uuid.Must(uuid.NewV7())))
}

func TestRedisMirror_Unreachable(t *testing.T) {
	ctx := context.Background()
	mirror, server := newTestMirror(t)
	server.Close()

	snapshot := newSnapshot(nil)

	err := mirror.Put(ctx, snapshot)
	assert.ErrorIs(t, err, secretsDomain.ErrCacheDegraded)

	_, err = mirror.Get(ctx, snapshot.ID)
	assert.ErrorIs(t, err, secretsDomain.ErrCacheDegraded)

	err = mirror.Evict(ctx, snapshot.ID)
	assert.ErrorIs(t, err, secretsDomain.ErrCacheDegraded)

	err = mirror.Ping(ctx)
	assert.ErrorIs(t, err, secretsDomain.ErrCacheDegraded)
}

func TestRedisMirror_CorruptEntry(t *testing.T) {
	mirror, server := newTestMirror(t)
	id := uuid.Must(uuid.NewV7())
	require.NoError(t, server.Set(Key(id), "not-json"))

	got, err := mirror.Get(context.Background(), id)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, secretsDomain.ErrCacheDegraded)
}
