package models

import "time"

// PreferencePayload is the projection of a completed Draft sent to the remote
// preference service. It is built at the terminal step and never stored.
type PreferencePayload struct {
	UserID                string   `json:"user_id"                 validate:"required"`
	FullName              string   `json:"full_name"               validate:"required"`
	Email                 string   `json:"email"                   validate:"required,email"`
	Gender                string   `json:"gender"                  validate:"required"`
	Age                   float64  `json:"age"                     validate:"required,gt=0"`
	HeightCM              float64  `json:"height_cm"               validate:"required,gt=0"`
	WeightKG              float64  `json:"weight_kg"               validate:"required,gt=0"`
	GoalWeightKG          float64  `json:"goal_weight_kg"          validate:"required,gt=0"`
	Goal                  string   `json:"goal"                    validate:"required"`
	GoalOther             string   `json:"goal_other,omitempty"    validate:"required_if=Goal other"`
	ActivityLevel         string   `json:"activity_level"          validate:"required"`
	ActivityMultiplier    float64  `json:"activity_multiplier"     validate:"required,gt=0"`
	DietType              string   `json:"diet_type"               validate:"required"`
	DietTypeOther         string   `json:"diet_type_other,omitempty" validate:"required_if=DietType other"`
	Allergies             []string `json:"allergies"               validate:"required,min=1"`
	MealsPerDay           float64  `json:"meals_per_day"           validate:"required,gt=0"`
	CookingSkill          string   `json:"cooking_skill"           validate:"required"`
	CookingTimeMinutes    float64  `json:"cooking_time_minutes"    validate:"required,gt=0"`
	Budget                string   `json:"budget"                  validate:"required"`
	Cuisines              []string `json:"cuisines"                validate:"required,min=1"`
	FavoriteIngredientIDs []string `json:"favorite_ingredient_ids" validate:"required,min=1"`
	HatedIngredientIDs    []string `json:"hated_ingredient_ids"    validate:"required,min=1"`
	WaterLiters           float64  `json:"water_liters"            validate:"required,gt=0"`
	ProteinSharePercent   float64  `json:"protein_share_percent"   validate:"required,gt=0,lte=100"`
	SleepHours            float64  `json:"sleep_hours"             validate:"required,gt=0,lte=24"`
	Consent               string   `json:"consent"                 validate:"required"`
}

// RemoteRecord is the preference record returned by the remote service.
type RemoteRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}
