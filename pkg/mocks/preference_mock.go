package mocks

import (
	"context"

	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockPreferenceClient is a mock implementation of submission.PreferenceClient interface.
type MockPreferenceClient struct {
	mock.Mock
}

func (m *MockPreferenceClient) Create(ctx context.Context, token string, payload models.PreferencePayload) (*models.RemoteRecord, error) {
	args := m.Called(ctx, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.RemoteRecord), args.Error(1)
}

func (m *MockPreferenceClient) Update(ctx context.Context, token, id string, payload models.PreferencePayload) (*models.RemoteRecord, error) {
	args := m.Called(ctx, token, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.RemoteRecord), args.Error(1)
}
