// Package redis provides Redis persistence implementation for survey drafts.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nutriflow/nutriflow/pkg/persistence"
	goredis "github.com/redis/go-redis/v9"
)

// Persistence implements the persistence layer for Redis. Each draft is a
// single string value under its key.
type Persistence struct {
	client    goredis.UniversalClient
	logger    *slog.Logger
	draftRepo *DraftRepository
}

// NewPersistence connects to the Redis server described by databaseURL.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	opts, err := goredis.ParseURL(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewPersistenceWithClient(logger, client), nil
}

// NewPersistenceWithClient wraps an existing client.
func NewPersistenceWithClient(logger *slog.Logger, client goredis.UniversalClient) *Persistence {
	return &Persistence{
		client:    client,
		logger:    logger,
		draftRepo: NewDraftRepository(client),
	}
}

// DraftRepository returns the draft repository backed by Redis.
func (p *Persistence) DraftRepository() persistence.DraftRepository {
	return p.draftRepo
}

// HealthCheck verifies the Redis connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Close closes the Redis client.
func (p *Persistence) Close(_ context.Context) error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

// DraftRepository handles draft documents stored in Redis.
type DraftRepository struct {
	client goredis.UniversalClient
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(client goredis.UniversalClient) *DraftRepository {
	return &DraftRepository{client: client}
}

// Get returns the document stored under key.
func (dr *DraftRepository) Get(ctx context.Context, key string) ([]byte, error) {
	err := persistence.ValidateKey(key)
	if err != nil {
		return nil, persistence.NewDraftError("Get", key, err)
	}

	data, err := dr.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.NewDraftError("Get", key, persistence.ErrDraftNotFound)
		}

		return nil, persistence.NewDraftError("Get", key, err)
	}

	return data, nil
}

// Save overwrites the document stored under key. Drafts never expire.
func (dr *DraftRepository) Save(ctx context.Context, key string, document []byte) error {
	err := persistence.ValidateKey(key)
	if err != nil {
		return persistence.NewDraftError("Save", key, err)
	}

	err = dr.client.Set(ctx, key, document, 0).Err()
	if err != nil {
		return persistence.NewDraftError("Save", key, err)
	}

	return nil
}

// Delete removes the document stored under key.
func (dr *DraftRepository) Delete(ctx context.Context, key string) error {
	err := persistence.ValidateKey(key)
	if err != nil {
		return persistence.NewDraftError("Delete", key, err)
	}

	err = dr.client.Del(ctx, key).Err()
	if err != nil {
		return persistence.NewDraftError("Delete", key, err)
	}

	return nil
}
