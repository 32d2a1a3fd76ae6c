package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nutriflow/nutriflow/pkg/session"
)

var ErrInvalidSessionSeed = errors.New("invalid session seed")

// NewSessions builds the in-memory session store from a comma separated list
// of token:user_id pairs.
func NewSessions(raw string) (*session.MemoryStore, error) {
	var identities []*session.Identity

	for _, pair := range SplitList(raw) {
		token, userID, found := strings.Cut(pair, ":")
		token, userID = strings.TrimSpace(token), strings.TrimSpace(userID)

		if !found || token == "" || userID == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSessionSeed, pair)
		}

		identities = append(identities, &session.Identity{UserID: userID, Token: token})
	}

	return session.NewMemoryStore(identities...), nil
}

// SplitList splits a comma separated flag value, dropping blanks.
func SplitList(raw string) []string {
	var items []string

	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
