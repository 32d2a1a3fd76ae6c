// Package models defines the core domain models of the onboarding survey.
package models

import (
	"slices"
	"time"
)

// Field names a single Draft attribute. The value matches the JSON key
// used in the stored draft document and in the submission payload.
type Field string

const (
	FieldFullName              Field = "full_name"
	FieldEmail                 Field = "email"
	FieldGender                Field = "gender"
	FieldAge                   Field = "age"
	FieldHeight                Field = "height_cm"
	FieldWeight                Field = "weight_kg"
	FieldGoalWeight            Field = "goal_weight_kg"
	FieldGoal                  Field = "goal"
	FieldGoalOther             Field = "goal_other"
	FieldActivityLevel         Field = "activity_level"
	FieldDietType              Field = "diet_type"
	FieldDietTypeOther         Field = "diet_type_other"
	FieldAllergies             Field = "allergies"
	FieldMealsPerDay           Field = "meals_per_day"
	FieldCookingSkill          Field = "cooking_skill"
	FieldCookingTime           Field = "cooking_time_minutes"
	FieldBudget                Field = "budget"
	FieldCuisines              Field = "cuisines"
	FieldFavoriteIngredientIDs Field = "favorite_ingredient_ids"
	FieldHatedIngredientIDs    Field = "hated_ingredient_ids"
	FieldWaterIntake           Field = "water_liters"
	FieldProteinShare          Field = "protein_share_percent"
	FieldSleepHours            Field = "sleep_hours"
	FieldConsent               Field = "consent"
)

// Draft is the in-progress preference record accumulated across the survey.
type Draft struct {
	FullName              string   `json:"full_name,omitempty"`
	Email                 string   `json:"email,omitempty"`
	Gender                string   `json:"gender,omitempty"`
	Age                   float64  `json:"age,omitempty"`
	HeightCM              float64  `json:"height_cm,omitempty"`
	WeightKG              float64  `json:"weight_kg,omitempty"`
	GoalWeightKG          float64  `json:"goal_weight_kg,omitempty"`
	Goal                  string   `json:"goal,omitempty"`
	GoalOther             string   `json:"goal_other,omitempty"`
	ActivityLevel         string   `json:"activity_level,omitempty"`
	DietType              string   `json:"diet_type,omitempty"`
	DietTypeOther         string   `json:"diet_type_other,omitempty"`
	Allergies             []string `json:"allergies,omitempty"`
	MealsPerDay           float64  `json:"meals_per_day,omitempty"`
	CookingSkill          string   `json:"cooking_skill,omitempty"`
	CookingTimeMinutes    float64  `json:"cooking_time_minutes,omitempty"`
	Budget                string   `json:"budget,omitempty"`
	Cuisines              []string `json:"cuisines,omitempty"`
	FavoriteIngredientIDs []string `json:"favorite_ingredient_ids,omitempty"`
	HatedIngredientIDs    []string `json:"hated_ingredient_ids,omitempty"`
	WaterLiters           float64  `json:"water_liters,omitempty"`
	ProteinSharePercent   float64  `json:"protein_share_percent,omitempty"`
	SleepHours            float64  `json:"sleep_hours,omitempty"`
	Consent               string   `json:"consent,omitempty"`

	// UserPreferenceID links the draft to the remote record once submitted.
	UserPreferenceID string    `json:"user_preference_id,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitzero"`
}

// Value is an accepted answer ready to be merged into a Draft.
type Value struct {
	Text    string   `json:"text,omitempty"`
	Number  float64  `json:"number,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Other   string   `json:"other,omitempty"`
}

// Set writes v into field. Text and choice fields take Text, numeric
// fields Number, list fields Choices and the "other" sub-fields Other.
func (d *Draft) Set(field Field, v Value) {
	switch field {
	case FieldFullName:
		d.FullName = v.Text
	case FieldEmail:
		d.Email = v.Text
	case FieldGender:
		d.Gender = v.Text
	case FieldAge:
		d.Age = v.Number
	case FieldHeight:
		d.HeightCM = v.Number
	case FieldWeight:
		d.WeightKG = v.Number
	case FieldGoalWeight:
		d.GoalWeightKG = v.Number
	case FieldGoal:
		d.Goal = v.Text
	case FieldGoalOther:
		d.GoalOther = v.Other
	case FieldActivityLevel:
		d.ActivityLevel = v.Text
	case FieldDietType:
		d.DietType = v.Text
	case FieldDietTypeOther:
		d.DietTypeOther = v.Other
	case FieldAllergies:
		d.Allergies = slices.Clone(v.Choices)
	case FieldMealsPerDay:
		d.MealsPerDay = v.Number
	case FieldCookingSkill:
		d.CookingSkill = v.Text
	case FieldCookingTime:
		d.CookingTimeMinutes = v.Number
	case FieldBudget:
		d.Budget = v.Text
	case FieldCuisines:
		d.Cuisines = slices.Clone(v.Choices)
	case FieldFavoriteIngredientIDs:
		d.FavoriteIngredientIDs = slices.Clone(v.Choices)
	case FieldHatedIngredientIDs:
		d.HatedIngredientIDs = slices.Clone(v.Choices)
	case FieldWaterIntake:
		d.WaterLiters = v.Number
	case FieldProteinShare:
		d.ProteinSharePercent = v.Number
	case FieldSleepHours:
		d.SleepHours = v.Number
	case FieldConsent:
		d.Consent = v.Text
	}
}

// Get returns the current content of field in the same shape Set accepts.
func (d Draft) Get(field Field) Value {
	switch field {
	case FieldFullName:
		return Value{Text: d.FullName}
	case FieldEmail:
		return Value{Text: d.Email}
	case FieldGender:
		return Value{Text: d.Gender}
	case FieldAge:
		return Value{Number: d.Age}
	case FieldHeight:
		return Value{Number: d.HeightCM}
	case FieldWeight:
		return Value{Number: d.WeightKG}
	case FieldGoalWeight:
		return Value{Number: d.GoalWeightKG}
	case FieldGoal:
		return Value{Text: d.Goal}
	case FieldGoalOther:
		return Value{Other: d.GoalOther}
	case FieldActivityLevel:
		return Value{Text: d.ActivityLevel}
	case FieldDietType:
		return Value{Text: d.DietType}
	case FieldDietTypeOther:
		return Value{Other: d.DietTypeOther}
	case FieldAllergies:
		return Value{Choices: slices.Clone(d.Allergies)}
	case FieldMealsPerDay:
		return Value{Number: d.MealsPerDay}
	case FieldCookingSkill:
		return Value{Text: d.CookingSkill}
	case FieldCookingTime:
		return Value{Number: d.CookingTimeMinutes}
	case FieldBudget:
		return Value{Text: d.Budget}
	case FieldCuisines:
		return Value{Choices: slices.Clone(d.Cuisines)}
	case FieldFavoriteIngredientIDs:
		return Value{Choices: slices.Clone(d.FavoriteIngredientIDs)}
	case FieldHatedIngredientIDs:
		return Value{Choices: slices.Clone(d.HatedIngredientIDs)}
	case FieldWaterIntake:
		return Value{Number: d.WaterLiters}
	case FieldProteinShare:
		return Value{Number: d.ProteinSharePercent}
	case FieldSleepHours:
		return Value{Number: d.SleepHours}
	case FieldConsent:
		return Value{Text: d.Consent}
	}

	return Value{}
}

// IsSet reports whether field holds an answer.
func (d Draft) IsSet(field Field) bool {
	v := d.Get(field)

	return v.Text != "" || v.Number != 0 || len(v.Choices) > 0 || v.Other != ""
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	d.Allergies = slices.Clone(d.Allergies)
	d.Cuisines = slices.Clone(d.Cuisines)
	d.FavoriteIngredientIDs = slices.Clone(d.FavoriteIngredientIDs)
	d.HatedIngredientIDs = slices.Clone(d.HatedIngredientIDs)

	return d
}

// IsEmpty reports whether no question has been answered yet.
func (d Draft) IsEmpty() bool {
	for _, f := range AllFields() {
		if d.IsSet(f) {
			return false
		}
	}

	return d.UserPreferenceID == ""
}

// AllFields lists every answerable field in survey order.
func AllFields() []Field {
	return []Field{
		FieldFullName, FieldEmail, FieldGender, FieldAge, FieldHeight, FieldWeight,
		FieldGoalWeight, FieldGoal, FieldGoalOther, FieldActivityLevel, FieldDietType,
		FieldDietTypeOther, FieldAllergies, FieldMealsPerDay, FieldCookingSkill,
		FieldCookingTime, FieldBudget, FieldCuisines, FieldFavoriteIngredientIDs,
		FieldHatedIngredientIDs, FieldWaterIntake, FieldProteinShare, FieldSleepHours,
		FieldConsent,
	}
}
