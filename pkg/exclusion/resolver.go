// Package exclusion keeps the favorite and disliked ingredient sets of a
// draft disjoint. An ingredient claimed by one set must be released there
// before the other set can take it.
package exclusion

import (
	"fmt"
	"slices"

	"github.com/nutriflow/nutriflow/pkg/models"
)

// Kind selects one of the two ingredient sets.
type Kind string

const (
	Favorite Kind = "favorite"
	Hated    Kind = "hated"
)

// ParseKind converts a user supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Favorite, Hated:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown ingredient set %q", s)
	}
}

// Field returns the draft field backing the set.
func (k Kind) Field() models.Field {
	if k == Favorite {
		return models.FieldFavoriteIngredientIDs
	}

	return models.FieldHatedIngredientIDs
}

func (k Kind) sets(d *models.Draft) (own *[]string, opposing []string) {
	if k == Favorite {
		return &d.FavoriteIngredientIDs, d.HatedIngredientIDs
	}

	return &d.HatedIngredientIDs, d.FavoriteIngredientIDs
}

// Toggle flips membership of id in the kind set. It is a no-op while id is
// claimed by the opposing set.
func Toggle(kind Kind, id string, draft models.Draft) models.Draft {
	d := draft.Clone()
	own, opposing := kind.sets(&d)

	if slices.Contains(opposing, id) {
		return d
	}

	if i := slices.Index(*own, id); i >= 0 {
		*own = slices.Delete(*own, i, i+1)
		if len(*own) == 0 {
			*own = nil
		}
	} else {
		*own = append(*own, id)
	}

	return d
}

// ToggleFavorite toggles id in the favorite set.
func ToggleFavorite(id string, draft models.Draft) models.Draft {
	return Toggle(Favorite, id, draft)
}

// ToggleHated toggles id in the disliked set.
func ToggleHated(id string, draft models.Draft) models.Draft {
	return Toggle(Hated, id, draft)
}

// SelectAll adds every candidate not claimed by the opposing set.
func SelectAll(kind Kind, draft models.Draft, candidates []string) models.Draft {
	d := draft.Clone()
	own, _ := kind.sets(&d)

	for _, id := range Available(kind, d, candidates) {
		if !slices.Contains(*own, id) {
			*own = append(*own, id)
		}
	}

	return d
}

// DeselectAll removes every candidate from the kind set. Items of the
// opposing set are never touched.
func DeselectAll(kind Kind, draft models.Draft, candidates []string) models.Draft {
	d := draft.Clone()
	own, _ := kind.sets(&d)

	*own = slices.DeleteFunc(*own, func(id string) bool {
		return slices.Contains(candidates, id)
	})

	if len(*own) == 0 {
		*own = nil
	}

	return d
}

// Available returns the candidates the kind set may claim.
func Available(kind Kind, draft models.Draft, candidates []string) []string {
	_, opposing := kind.sets(&draft)

	out := make([]string, 0, len(candidates))

	for _, id := range candidates {
		if id != "" && !slices.Contains(opposing, id) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}

	return out
}

// Disjoint reports whether the draft satisfies the exclusion invariant.
func Disjoint(draft models.Draft) bool {
	for _, id := range draft.FavoriteIngredientIDs {
		if slices.Contains(draft.HatedIngredientIDs, id) {
			return false
		}
	}

	return true
}
