package file

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nutriflow/nutriflow/pkg/persistence"
)

const (
	draftsDir = "drafts"

	// maxNameLength keeps encoded names under common file system limits.
	maxNameLength = 240
)

// DraftRepository stores each draft document in its own JSON file.
type DraftRepository struct {
	root string // File system root for storing drafts
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(root string) *DraftRepository {
	return &DraftRepository{root: root}
}

func (dr *DraftRepository) path(key string) (string, error) {
	err := persistence.ValidateKey(key)
	if err != nil {
		return "", err
	}

	// base64url is reversible and file name safe, so distinct keys never
	// share a file.
	name := base64.RawURLEncoding.EncodeToString([]byte(key))
	if len(name) > maxNameLength {
		return "", fmt.Errorf("%w: key too long for file storage", persistence.ErrInvalidKey)
	}

	return filepath.Join(dr.root, draftsDir, name+".json"), nil
}

// Get reads the draft document stored under key.
func (dr *DraftRepository) Get(_ context.Context, key string) ([]byte, error) {
	filePath, err := dr.path(key)
	if err != nil {
		return nil, persistence.NewDraftError("Get", key, err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.NewDraftError("Get", key, persistence.ErrDraftNotFound)
		}

		return nil, persistence.NewDraftError("Get", key, err)
	}

	return data, nil
}

// Save writes the document to a temporary file and renames it over the
// previous one, so a crash mid-write never leaves a truncated draft behind.
func (dr *DraftRepository) Save(_ context.Context, key string, document []byte) error {
	filePath, err := dr.path(key)
	if err != nil {
		return persistence.NewDraftError("Save", key, err)
	}

	dir := filepath.Dir(filePath)

	err = os.MkdirAll(dir, 0o750)
	if err != nil {
		return persistence.NewDraftError("Save", key, fmt.Errorf("failed to create drafts directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return persistence.NewDraftError("Save", key, fmt.Errorf("failed to create temp file: %w", err))
	}

	tmpName := tmp.Name()

	_, err = tmp.Write(document)
	if err == nil {
		err = tmp.Sync()
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmpName)

		return persistence.NewDraftError("Save", key, fmt.Errorf("failed to write draft: %w", err))
	}

	err = os.Rename(tmpName, filePath)
	if err != nil {
		_ = os.Remove(tmpName)

		return persistence.NewDraftError("Save", key, fmt.Errorf("failed to replace draft: %w", err))
	}

	return nil
}

// Delete removes the draft file stored under key.
func (dr *DraftRepository) Delete(_ context.Context, key string) error {
	filePath, err := dr.path(key)
	if err != nil {
		return persistence.NewDraftError("Delete", key, err)
	}

	err = os.Remove(filePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return persistence.NewDraftError("Delete", key, err)
	}

	return nil
}
