package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/secretdrop/secretdrop/internal/crypto/domain"
	cryptoService "github.com/secretdrop/secretdrop/internal/crypto/service"
	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// memStore is an in-memory SecretRepository with the same delete semantics as the SQL stores.
type memStore struct {
	mu      sync.Mutex
	now     func() time.Time
	secrets map[uuid.UUID]*secretsDomain.Secret
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{now: now, secrets: make(map[uuid.UUID]*secretsDomain.Secret)}
}

func (s *memStore) Insert(_ context.Context, secret *secretsDomain.Secret) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret.Stamp(uuid.Must(uuid.NewV7()), s.now())
	stored := *secret
	s.secrets[secret.ID] = &stored
	return nil
}

func (s *memStore) FindByKey(_ context.Context, accessKey string) (*secretsDomain.Secret, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, secret := range s.secrets {
		if secret.AccessKey == accessKey {
			found := *secret
			found.EncryptedPayload = nil
			return &found, nil
		}
	}
	return nil, secretsDomain.ErrSecretNotFound
}

func (s *memStore) FindPayload(_ context.Context, secretID uuid.UUID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret, ok := s.secrets[secretID]
	if !ok {
		return nil, secretsDomain.ErrSecretNotFound
	}
	return secret.EncryptedPayload, nil
}

func (s *memStore) Delete(_ context.Context, secretID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.secrets[secretID]; !ok {
		return false, nil
	}
	delete(s.secrets, secretID)
	return true, nil
}

func (s *memStore) ListExpiredAsOf(
	_ context.Context,
	now time.Time,
	after *secretsDomain.ExpiryCursor,
	limit int,
) ([]*secretsDomain.Secret, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := make([]*secretsDomain.Secret, 0)
	for _, secret := range s.secrets {
		if secret.IsExpired(now) && (after == nil || cursorLess(*after, secret)) {
			found := *secret
			expired = append(expired, &found)
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return cursorLess(secretsDomain.ExpiryCursor{ExpiresAt: *expired[i].ExpiresAt, ID: expired[i].ID}, expired[j])
	})
	if len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

// cursorLess reports whether c sorts before secret in (expires_at, id) order.
func cursorLess(c secretsDomain.ExpiryCursor, secret *secretsDomain.Secret) bool {
	if !c.ExpiresAt.Equal(*secret.ExpiresAt) {
		return c.ExpiresAt.Before(*secret.ExpiresAt)
	}
	return bytes.Compare(c.ID[:], secret.ID[:]) < 0
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.secrets)
}

func (s *memStore) has(accessKey string) bool {
	_, err := s.FindByKey(context.Background(), accessKey)
	return err == nil
}

func (s *memStore) byKey(t *testing.T, accessKey string) *secretsDomain.Secret {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, secret := range s.secrets {
		if secret.AccessKey == accessKey {
			return secret
		}
	}
	t.Fatalf("secret %s not in store", accessKey)
	return nil
}

// memAudit records entries in memory.
type memAudit struct {
	mu      sync.Mutex
	fail    bool
	entries []secretsDomain.AuditEntry
}

func (a *memAudit) Record(_ context.Context, entry *secretsDomain.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return errors.New("audit store down")
	}
	a.entries = append(a.entries, *entry)
	return nil
}

func (a *memAudit) actions(secretID uuid.UUID) []secretsDomain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	actions := make([]secretsDomain.AuditAction, 0)
	for _, entry := range a.entries {
		if entry.SecretID == secretID {
			actions = append(actions, entry.Action)
		}
	}
	return actions
}

func (a *memAudit) last() secretsDomain.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries[len(a.entries)-1]
}

// memCache is an in-memory SecretCache that can be switched into a failing mode.
type memCache struct {
	mu        sync.Mutex
	fail      bool
	snapshots map[uuid.UUID]secretsDomain.Snapshot
}

func newMemCache() *memCache {
	return &memCache{snapshots: make(map[uuid.UUID]secretsDomain.Snapshot)}
}

func (c *memCache) Put(_ context.Context, snapshot *secretsDomain.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return secretsDomain.ErrCacheDegraded
	}
	c.snapshots[snapshot.ID] = *snapshot
	return nil
}

func (c *memCache) Get(_ context.Context, secretID uuid.UUID) (*secretsDomain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, secretsDomain.ErrCacheDegraded
	}
	snapshot, ok := c.snapshots[secretID]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

func (c *memCache) Evict(_ context.Context, secretID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return secretsDomain.ErrCacheDegraded
	}
	delete(c.snapshots, secretID)
	return nil
}

func (c *memCache) has(secretID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.snapshots[secretID]
	return ok
}

// testClock is a settable clock shared by the store and the use case.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCipher(t *testing.T) cryptoService.CipherBox {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	box, err := cryptoService.NewCipherBox(cryptoService.NewAEADManager(), key, cryptoDomain.AESGCM)
	require.NoError(t, err)
	return box
}

// harness wires a secret use case and a sweeper to shared in-memory collaborators.
type harness struct {
	clock   *testClock
	store   *memStore
	audit   *memAudit
	cache   *memCache
	useCase *secretUseCase
	sweeper *ExpirySweeper
}

func newHarness(t *testing.T, limits Limits) *harness {
	t.Helper()
	clock := newTestClock()
	store := newMemStore(clock.Now)
	audit := &memAudit{}
	cache := newMemCache()

	useCase := NewSecretUseCase(store, audit, cache, newTestCipher(t), limits, discardLogger()).(*secretUseCase)
	useCase.now = clock.Now

	sweeper := NewExpirySweeper(
		SweeperConfig{Interval: time.Minute, BatchSize: 3},
		store, audit, cache, nil, discardLogger(),
	)
	sweeper.now = clock.Now

	return &harness{
		clock:   clock,
		store:   store,
		audit:   audit,
		cache:   cache,
		useCase: useCase,
		sweeper: sweeper,
	}
}

func intPtr(v int) *int {
	return &v
}
