// Package session models the authenticated identity a survey flow runs for.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/nutriflow/nutriflow/pkg/models"
)

// ErrIdentityMissing means no authenticated identity is available; the flow
// must exit to sign-in.
var ErrIdentityMissing = errors.New("identity missing")

// Identity is the signed-in user.
type Identity struct {
	UserID string `json:"user_id"`
	Token  string `json:"-"`

	// UserPreferenceID and Preference are written back after a successful
	// survey submission so other screens can show the result without a re-fetch.
	UserPreferenceID string        `json:"user_preference_id,omitempty"`
	Preference       *models.Draft `json:"preference,omitempty"`
}

// Valid reports whether the identity can stamp a submission.
func (i *Identity) Valid() bool {
	return i != nil && i.UserID != ""
}

// Clone returns a deep copy.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}

	c := *i

	if i.Preference != nil {
		p := i.Preference.Clone()
		c.Preference = &p
	}

	return &c
}

// IsIdentityMissing checks if an error indicates an absent identity.
func IsIdentityMissing(err error) bool {
	return errors.Is(err, ErrIdentityMissing)
}

// Store resolves and updates identities.
type Store interface {
	Lookup(ctx context.Context, token string) (*Identity, error)
	Save(ctx context.Context, identity *Identity) error
}

// MemoryStore keeps identities in process memory, indexed by token.
type MemoryStore struct {
	mu      sync.RWMutex
	byToken map[string]*Identity
}

// NewMemoryStore creates a store seeded with identities.
func NewMemoryStore(identities ...*Identity) *MemoryStore {
	s := &MemoryStore{byToken: make(map[string]*Identity)}

	for _, identity := range identities {
		s.byToken[identity.Token] = identity.Clone()
	}

	return s
}

// Lookup returns a copy of the identity owning token.
func (s *MemoryStore) Lookup(_ context.Context, token string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.byToken[token]
	if !ok || token == "" {
		return nil, ErrIdentityMissing
	}

	return identity.Clone(), nil
}

// Save replaces the stored identity with the same token.
func (s *MemoryStore) Save(_ context.Context, identity *Identity) error {
	if !identity.Valid() || identity.Token == "" {
		return ErrIdentityMissing
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byToken[identity.Token] = identity.Clone()

	return nil
}
