package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_SetAndGet(t *testing.T) {
	var d Draft

	d.Set(FieldFullName, Value{Text: "Ada Lovelace"})
	d.Set(FieldWeight, Value{Number: 70})
	d.Set(FieldGoalOther, Value{Other: "run a marathon"})
	d.Set(FieldCuisines, Value{Choices: []string{"italian", "thai"}})

	assert.Equal(t, "Ada Lovelace", d.FullName)
	assert.InDelta(t, 70.0, d.WeightKG, 0)
	assert.Equal(t, "run a marathon", d.GoalOther)
	assert.Equal(t, []string{"italian", "thai"}, d.Cuisines)

	assert.Equal(t, Value{Text: "Ada Lovelace"}, d.Get(FieldFullName))
	assert.Equal(t, Value{Number: 70}, d.Get(FieldWeight))
	assert.True(t, d.IsSet(FieldCuisines))
	assert.False(t, d.IsSet(FieldSleepHours))
}

func TestDraft_SetCopiesChoices(t *testing.T) {
	var d Draft

	choices := []string{"peanut"}
	d.Set(FieldAllergies, Value{Choices: choices})
	choices[0] = "changed"

	assert.Equal(t, []string{"peanut"}, d.Allergies)
}

func TestDraft_Clone(t *testing.T) {
	d := Draft{FavoriteIngredientIDs: []string{"a", "b"}}

	clone := d.Clone()
	clone.FavoriteIngredientIDs[0] = "z"

	assert.Equal(t, []string{"a", "b"}, d.FavoriteIngredientIDs)
}

func TestDraft_IsEmpty(t *testing.T) {
	var d Draft
	assert.True(t, d.IsEmpty())

	d.Set(FieldAge, Value{Number: 30})
	assert.False(t, d.IsEmpty())

	// Read accessors work on values straight from a call or a literal.
	assert.False(t, d.Clone().IsEmpty())
	assert.True(t, Draft{}.IsEmpty())
	assert.False(t, Draft{UserPreferenceID: "pref-1"}.IsEmpty())
	assert.True(t, Draft{Email: "ada@example.com"}.IsSet(FieldEmail))
	assert.Equal(t, "ada@example.com", Draft{Email: "ada@example.com"}.Get(FieldEmail).Text)
}

func TestParseDraft(t *testing.T) {
	draft, err := ParseDraft([]byte(`{"full_name":"Ada Lovelace","age":36,"hated_ingredient_ids":["x"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", draft.FullName)
	assert.InDelta(t, 36.0, draft.Age, 0)
	assert.Equal(t, []string{"x"}, draft.HatedIngredientIDs)
}

func TestParseDraft_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"full_name":`},
		{"wrong type", `{"age":"thirty"}`},
		{"negative number", `{"height_cm":-5}`},
		{"duplicate ids", `{"favorite_ingredient_ids":["a","a"]}`},
		{"not an object", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDraft([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDraftDocument)
		})
	}
}

func TestEncodeDraft_RoundTrip(t *testing.T) {
	d := Draft{FullName: "Ada Lovelace", Cuisines: []string{"thai"}, UserPreferenceID: "abc123"}

	raw, err := EncodeDraft(d)
	require.NoError(t, err)

	parsed, err := ParseDraft(raw)
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}
