// Package draft implements the durable draft store: one serialized survey
// draft kept under a fixed session key so answers survive restarts.
package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nutriflow/nutriflow/pkg/exclusion"
	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/nutriflow/nutriflow/pkg/persistence"
)

// ErrPersistenceUnavailable marks a failed durable write or delete. Callers
// keep working on the in-memory draft.
var ErrPersistenceUnavailable = errors.New("draft persistence unavailable")

// KeyPrefix namespaces session keys in shared backends.
const KeyPrefix = "survey:draft:"

// Key returns the session key of the flow owned by userID.
func Key(userID string) string {
	return KeyPrefix + userID
}

// Store persists one draft under one session key.
type Store struct {
	repo   persistence.DraftRepository
	key    string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore binds repo to key.
func NewStore(repo persistence.DraftRepository, key string, logger *slog.Logger) *Store {
	return &Store{
		repo:   repo,
		key:    key,
		logger: logger.With("draft_key", key),
		now:    time.Now,
	}
}

// Key returns the session key the store is bound to.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored draft. A missing, unreadable or corrupt document
// yields an empty draft; the problem is logged, never returned. A document
// listing an ingredient as both favorite and hated counts as corrupt.
func (s *Store) Load(ctx context.Context) models.Draft {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if !persistence.IsDraftNotFound(err) {
			s.logger.WarnContext(ctx, "Failed to read draft, starting empty", "error", err)
		}

		return models.Draft{}
	}

	d, err := models.ParseDraft(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "Discarding corrupt draft", "error", err)

		return models.Draft{}
	}

	if !exclusion.Disjoint(d) {
		s.logger.WarnContext(ctx, "Discarding draft with overlapping ingredient sets",
			"favorite", d.FavoriteIngredientIDs, "hated", d.HatedIngredientIDs)

		return models.Draft{}
	}

	return d
}

// Save overwrites the stored draft.
func (s *Store) Save(ctx context.Context, d models.Draft) error {
	d.UpdatedAt = s.now().UTC()

	raw, err := models.EncodeDraft(d)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	err = s.repo.Save(ctx, s.key, raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	return nil
}

// Clear removes the stored draft.
func (s *Store) Clear(ctx context.Context) error {
	err := s.repo.Delete(ctx, s.key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	return nil
}

// IsPersistenceUnavailable checks if an error comes from a failed durable write.
func IsPersistenceUnavailable(err error) bool {
	return errors.Is(err, ErrPersistenceUnavailable)
}
