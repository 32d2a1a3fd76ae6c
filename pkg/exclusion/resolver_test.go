package exclusion

import (
	"math/rand"
	"testing"

	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_FavoriteThenHatedIsNoop(t *testing.T) {
	d := ToggleFavorite("X", models.Draft{})
	d = ToggleHated("X", d)

	assert.Equal(t, []string{"X"}, d.FavoriteIngredientIDs)
	assert.Empty(t, d.HatedIngredientIDs)
}

func TestToggle_RemovesWhenPresent(t *testing.T) {
	d := ToggleHated("X", models.Draft{})
	require.Equal(t, []string{"X"}, d.HatedIngredientIDs)

	d = ToggleHated("X", d)
	assert.Nil(t, d.HatedIngredientIDs)

	// Released from hated, X can now become a favorite.
	d = ToggleFavorite("X", d)
	assert.Equal(t, []string{"X"}, d.FavoriteIngredientIDs)
}

func TestToggle_DoesNotMutateInput(t *testing.T) {
	original := models.Draft{FavoriteIngredientIDs: []string{"a", "b"}}

	_ = ToggleFavorite("a", original)

	assert.Equal(t, []string{"a", "b"}, original.FavoriteIngredientIDs)
}

func TestSelectAll_SkipsClaimedCandidates(t *testing.T) {
	d := models.Draft{HatedIngredientIDs: []string{"b"}, FavoriteIngredientIDs: []string{"a"}}

	d = SelectAll(Favorite, d, []string{"a", "b", "c", "c"})

	assert.Equal(t, []string{"a", "c"}, d.FavoriteIngredientIDs)
	assert.Equal(t, []string{"b"}, d.HatedIngredientIDs)
}

func TestDeselectAll_OnlyTouchesOwnSet(t *testing.T) {
	d := models.Draft{FavoriteIngredientIDs: []string{"a", "c", "z"}, HatedIngredientIDs: []string{"b"}}

	d = DeselectAll(Favorite, d, []string{"a", "b", "c"})

	assert.Equal(t, []string{"z"}, d.FavoriteIngredientIDs)
	assert.Equal(t, []string{"b"}, d.HatedIngredientIDs)

	d = DeselectAll(Favorite, d, []string{"z"})
	assert.Nil(t, d.FavoriteIngredientIDs)
}

func TestAvailable(t *testing.T) {
	d := models.Draft{FavoriteIngredientIDs: []string{"a"}}

	assert.Equal(t, []string{"b", "c"}, Available(Hated, d, []string{"a", "b", "", "c", "b"}))
	assert.Equal(t, []string{"a", "b"}, Available(Favorite, d, []string{"a", "b"}))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("hated")
	require.NoError(t, err)
	assert.Equal(t, Hated, k)
	assert.Equal(t, models.FieldHatedIngredientIDs, k.Field())

	_, err = ParseKind("loved")
	require.Error(t, err)
}

func TestInvariant_RandomOperationsStayDisjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pool := []string{"a", "b", "c", "d", "e", "f"}

	var d models.Draft

	for range 2000 {
		kind := Favorite
		if rng.Intn(2) == 0 {
			kind = Hated
		}

		switch rng.Intn(4) {
		case 0, 1:
			d = Toggle(kind, pool[rng.Intn(len(pool))], d)
		case 2:
			d = SelectAll(kind, d, pool[:rng.Intn(len(pool))+1])
		case 3:
			d = DeselectAll(kind, d, pool[rng.Intn(len(pool)):])
		}

		require.True(t, Disjoint(d), "favorite %v hated %v", d.FavoriteIngredientIDs, d.HatedIngredientIDs)
	}
}
