package mocks

import (
	"context"

	"github.com/nutriflow/nutriflow/pkg/persistence"
	"github.com/stretchr/testify/mock"
)

// MockDraftRepository is a mock implementation of persistence.DraftRepository interface.
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDraftRepository) Save(ctx context.Context, key string, document []byte) error {
	args := m.Called(ctx, key, document)

	return args.Error(0)
}

func (m *MockDraftRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock

	Drafts *MockDraftRepository
}

// NewMockPersistence creates a mock persistence with an attached draft repository mock.
func NewMockPersistence() *MockPersistence {
	return &MockPersistence{Drafts: &MockDraftRepository{}}
}

func (m *MockPersistence) DraftRepository() persistence.DraftRepository {
	return m.Drafts
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
