// Package mocks provides mock implementations of the secret use case dependencies.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/secretdrop/secretdrop/internal/secrets/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository.
type MockSecretRepository struct {
	mock.Mock
}

// Insert mocks the Insert method.
func (m *MockSecretRepository) Insert(ctx context.Context, secret *secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// FindByKey mocks the FindByKey method.
func (m *MockSecretRepository) FindByKey(ctx context.Context, accessKey string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// FindPayload mocks the FindPayload method.
func (m *MockSecretRepository) FindPayload(ctx context.Context, secretID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) (bool, error) {
	args := m.Called(ctx, secretID)
	return args.Bool(0), args.Error(1)
}

// ListExpiredAsOf mocks the ListExpiredAsOf method.
func (m *MockSecretRepository) ListExpiredAsOf(
	ctx context.Context,
	now time.Time,
	after *secretsDomain.ExpiryCursor,
	limit int,
) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, now, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mock.Mock
}

// Record mocks the Record method.
func (m *MockAuditRepository) Record(ctx context.Context, entry *secretsDomain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockSecretCache is a mock implementation of SecretCache.
type MockSecretCache struct {
	mock.Mock
}

// Put mocks the Put method.
func (m *MockSecretCache) Put(ctx context.Context, snapshot *secretsDomain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockSecretCache) Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Snapshot, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Snapshot), args.Error(1)
}

// Evict mocks the Evict method.
func (m *MockSecretCache) Evict(ctx context.Context, secretID uuid.UUID) error {
	args := m.Called(ctx, secretID)
	return args.Error(0)
}
