// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/nutriflow/nutriflow/pkg/models"
)

// CompleteDraft returns a draft answering every survey step with valid values
// that can be overridden.
func CompleteDraft(overrides ...func(*models.Draft)) models.Draft {
	d := models.Draft{
		FullName:              "Ada Lovelace",
		Email:                 "ada@example.com",
		Gender:                "female",
		Age:                   36,
		HeightCM:              165,
		WeightKG:              70,
		GoalWeightKG:          64,
		Goal:                  "lose_weight",
		ActivityLevel:         "moderate",
		DietType:              "vegetarian",
		Allergies:             []string{"none"},
		MealsPerDay:           3,
		CookingSkill:          "intermediate",
		CookingTimeMinutes:    30,
		Budget:                "medium",
		Cuisines:              []string{"italian", "japanese"},
		FavoriteIngredientIDs: []string{"ing-tomato", "ing-basil"},
		HatedIngredientIDs:    []string{"ing-olive"},
		WaterLiters:           2,
		ProteinSharePercent:   30,
		SleepHours:            8,
		Consent:               "yes",
	}

	for _, override := range overrides {
		override(&d)
	}

	return d
}

// WithoutField clears field in the draft.
func WithoutField(field models.Field) func(*models.Draft) {
	return func(d *models.Draft) {
		d.Set(field, models.Value{})
	}
}

// WithPreferenceID links the draft to a remote record.
func WithPreferenceID(id string) func(*models.Draft) {
	return func(d *models.Draft) {
		d.UserPreferenceID = id
	}
}
