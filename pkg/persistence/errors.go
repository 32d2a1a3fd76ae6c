// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
	"strings"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrDraftNotFound indicates no draft is stored under the given key.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrInvalidKey indicates a key that cannot be used by the backend.
	ErrInvalidKey = errors.New("invalid draft key")
)

// DraftError wraps draft-related errors with additional context.
type DraftError struct {
	Op  string // Operation being performed (e.g., "Get", "Save", "Delete")
	Key string // Draft key
	Err error  // Underlying error
}

func (e *DraftError) Error() string {
	return fmt.Sprintf("%s operation failed for draft %s: %v", e.Op, e.Key, e.Err)
}

func (e *DraftError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for draft errors.
func (e *DraftError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDraftError creates a new draft error with context.
func NewDraftError(op, key string, err error) *DraftError {
	return &DraftError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// IsDraftNotFound checks if an error indicates a draft was not found.
func IsDraftNotFound(err error) bool {
	return errors.Is(err, ErrDraftNotFound)
}

// ValidateKey rejects keys that are empty or could escape a storage namespace.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}

	if strings.Contains(key, "..") || strings.ContainsAny(key, "/\\") {
		return fmt.Errorf("%w: key contains invalid characters", ErrInvalidKey)
	}

	return nil
}
