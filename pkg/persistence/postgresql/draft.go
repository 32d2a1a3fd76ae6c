package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/nutriflow/nutriflow/pkg/persistence"
)

// DraftRepository handles draft-related database operations.
type DraftRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(db *sql.DB, logger *slog.Logger) *DraftRepository {
	return &DraftRepository{db: db, logger: logger}
}

// Get returns the document stored under key.
func (dr *DraftRepository) Get(ctx context.Context, key string) ([]byte, error) {
	err := persistence.ValidateKey(key)
	if err != nil {
		return nil, persistence.NewDraftError("Get", key, err)
	}

	var document []byte

	err = dr.db.QueryRowContext(ctx, "SELECT document FROM survey_drafts WHERE draft_key = $1", key).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewDraftError("Get", key, persistence.ErrDraftNotFound)
		}

		return nil, persistence.NewDraftError("Get", key, err)
	}

	return document, nil
}

// Save upserts the document stored under key.
func (dr *DraftRepository) Save(ctx context.Context, key string, document []byte) error {
	err := persistence.ValidateKey(key)
	if err != nil {
		return persistence.NewDraftError("Save", key, err)
	}

	query := `
		INSERT INTO survey_drafts (draft_key, document, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (draft_key) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = NOW()
	`

	_, err = dr.db.ExecContext(ctx, query, key, document)
	if err != nil {
		dr.logger.ErrorContext(ctx, "Failed to save draft", "key", key, "error", err)

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

	_, err = dr.db.ExecContext(ctx, "DELETE FROM survey_drafts WHERE draft_key = $1", key)
	if err != nil {
		return persistence.NewDraftError("Delete", key, err)
	}

	return nil
}
