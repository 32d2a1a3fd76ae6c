package survey

import (
	"maps"

	"github.com/nutriflow/nutriflow/pkg/models"
)

const (
	StepName                StepID = "name"
	StepEmail               StepID = "email"
	StepGender              StepID = "gender"
	StepAge                 StepID = "age"
	StepHeight              StepID = "height"
	StepWeight              StepID = "weight"
	StepGoalWeight          StepID = "goal_weight"
	StepGoal                StepID = "goal"
	StepActivityLevel       StepID = "activity_level"
	StepDietType            StepID = "diet_type"
	StepAllergies           StepID = "allergies"
	StepMealsPerDay         StepID = "meals_per_day"
	StepCookingSkill        StepID = "cooking_skill"
	StepCookingTime         StepID = "cooking_time"
	StepBudget              StepID = "budget"
	StepCuisines            StepID = "cuisines"
	StepFavoriteIngredients StepID = "favorite_ingredients"
	StepHatedIngredients    StepID = "hated_ingredients"
	StepWaterIntake         StepID = "water_intake"
	StepProteinShare        StepID = "protein_share"
	StepSleep               StepID = "sleep"
	StepConsent             StepID = "consent"
)

// activityMultipliers converts an activity level into the factor applied to
// the basal metabolic rate by the preference service. Read it through
// Step.Multiplier; each step holds its own copy.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// DefaultSteps returns the canonical questionnaire path.
func DefaultSteps() []*Step {
	return []*Step{
		{
			ID: StepName, Title: "About you", Prompt: "What is your full name?", Label: "Full name",
			Kind: KindText, Field: models.FieldFullName, Validator: ValidatorFullName,
		},
		{
			ID: StepEmail, Title: "Contact", Prompt: "Which email can we reach you at?", Label: "Email",
			Kind: KindText, Field: models.FieldEmail, Validator: ValidatorEmail,
		},
		{
			ID: StepGender, Title: "About you", Prompt: "What is your gender?", Label: "Gender",
			Kind: KindChoice, Field: models.FieldGender, Validator: ValidatorChoice,
			Options: []Option{
				{Value: "female", Label: "Female"},
				{Value: "male", Label: "Male"},
				{Value: "non_binary", Label: "Non-binary"},
			},
		},
		{
			ID: StepAge, Title: "About you", Prompt: "How old are you?", Label: "Age",
			Kind: KindNumber, Field: models.FieldAge, Validator: ValidatorNumber, Max: 120, Unit: "years",
		},
		{
			ID: StepHeight, Title: "Body", Prompt: "How tall are you?", Label: "Height",
			Kind: KindNumber, Field: models.FieldHeight, Validator: ValidatorNumber, Max: 300, Unit: "cm",
		},
		{
			ID: StepWeight, Title: "Body", Prompt: "What is your current weight?", Label: "Weight",
			Kind: KindNumber, Field: models.FieldWeight, Validator: ValidatorNumber, Max: 500, Unit: "kg",
		},
		{
			ID: StepGoalWeight, Title: "Body", Prompt: "What weight would you like to reach?", Label: "Goal weight",
			Kind: KindNumber, Field: models.FieldGoalWeight, Validator: ValidatorGoalWeight, Max: 500, Unit: "kg",
		},
		{
			ID: StepGoal, Title: "Goals", Prompt: "What is your main goal?", Label: "Goal",
			Kind: KindChoice, Field: models.FieldGoal, SecondaryField: models.FieldGoalOther, Validator: ValidatorChoice,
			Options: []Option{
				{Value: "lose_weight", Label: "Lose weight"},
				{Value: "maintain", Label: "Maintain my weight"},
				{Value: "gain_muscle", Label: "Gain muscle"},
				{Value: "eat_healthier", Label: "Eat healthier"},
				{Value: OtherOption, Label: "Other"},
			},
		},
		{
			ID: StepActivityLevel, Title: "Lifestyle", Prompt: "How active are you?", Label: "Activity level",
			Kind: KindChoice, Field: models.FieldActivityLevel, Validator: ValidatorChoice,
			Options: []Option{
				{Value: "sedentary", Label: "Sedentary"},
				{Value: "light", Label: "Lightly active"},
				{Value: "moderate", Label: "Moderately active"},
				{Value: "active", Label: "Active"},
				{Value: "very_active", Label: "Very active"},
			},
			Multipliers: maps.Clone(activityMultipliers),
		},
		{
			ID: StepDietType, Title: "Diet", Prompt: "Do you follow a specific diet?", Label: "Diet type",
			Kind: KindChoice, Field: models.FieldDietType, SecondaryField: models.FieldDietTypeOther, Validator: ValidatorChoice,
			Options: []Option{
				{Value: "none", Label: "No specific diet"},
				{Value: "vegetarian", Label: "Vegetarian"},
				{Value: "vegan", Label: "Vegan"},
				{Value: "pescatarian", Label: "Pescatarian"},
				{Value: "keto", Label: "Keto"},
				{Value: "paleo", Label: "Paleo"},
				{Value: OtherOption, Label: "Other"},
			},
		},
		{
			ID: StepAllergies, Title: "Diet", Prompt: "Do you have any allergies?", Label: "Allergies",
			Kind: KindMultiChoice, Field: models.FieldAllergies, Validator: ValidatorMultiChoice,
			Options: []Option{
				{Value: "none", Label: "None"},
				{Value: "gluten", Label: "Gluten"},
				{Value: "lactose", Label: "Lactose"},
				{Value: "peanut", Label: "Peanuts"},
				{Value: "tree_nut", Label: "Tree nuts"},
				{Value: "shellfish", Label: "Shellfish"},
				{Value: "egg", Label: "Eggs"},
				{Value: "soy", Label: "Soy"},
			},
		},
		{
			ID: StepMealsPerDay, Title: "Habits", Prompt: "How many meals do you eat per day?", Label: "Meals per day",
			Kind: KindNumber, Field: models.FieldMealsPerDay, Validator: ValidatorNumber, Max: 8,
		},
		{
			ID: StepCookingSkill, Title: "Kitchen", Prompt: "How would you rate your cooking skills?", Label: "Cooking skill",
			Kind: KindChoice, Field: models.FieldCookingSkill, Validator: ValidatorChoice,
			Options: []Option{
				{Value: "beginner", Label: "Beginner"},
				{Value: "intermediate", Label: "Intermediate"},
				{Value: "advanced", Label: "Advanced"},
			},
		},
		{
			ID: StepCookingTime, Title: "Kitchen", Prompt: "How much time can you spend cooking a meal?", Label: "Cooking time",
			Kind: KindNumber, Field: models.FieldCookingTime, Validator: ValidatorNumber, Max: 240, Unit: "minutes",
		},
		{
			ID: StepBudget, Title: "Kitchen", Prompt: "What is your weekly grocery budget?", Label: "Budget",
			Kind: KindChoice, Field: models.FieldBudget, Validator: ValidatorChoice,
			Options: []Option{
				{Value: "low", Label: "Tight"},
				{Value: "medium", Label: "Moderate"},
				{Value: "high", Label: "Flexible"},
			},
		},
		{
			ID: StepCuisines, Title: "Taste", Prompt: "Which cuisines do you enjoy?", Label: "Cuisines",
			Kind: KindMultiChoice, Field: models.FieldCuisines, Validator: ValidatorMultiChoice,
			Options: []Option{
				{Value: "italian", Label: "Italian"},
				{Value: "mexican", Label: "Mexican"},
				{Value: "japanese", Label: "Japanese"},
				{Value: "indian", Label: "Indian"},
				{Value: "thai", Label: "Thai"},
				{Value: "mediterranean", Label: "Mediterranean"},
				{Value: "american", Label: "American"},
			},
		},
		{
			ID: StepFavoriteIngredients, Title: "Taste", Prompt: "Pick the ingredients you love.", Label: "Favorite ingredients",
			Kind: KindIngredientSet, Field: models.FieldFavoriteIngredientIDs, Validator: ValidatorIngredientSet,
		},
		{
			ID: StepHatedIngredients, Title: "Taste", Prompt: "Pick the ingredients you dislike.", Label: "Disliked ingredients",
			Kind: KindIngredientSet, Field: models.FieldHatedIngredientIDs, Validator: ValidatorIngredientSet,
		},
		{
			ID: StepWaterIntake, Title: "Habits", Prompt: "How much water do you drink per day?", Label: "Water intake",
			Kind: KindNumber, Field: models.FieldWaterIntake, Validator: ValidatorNumber, Max: 10, Unit: "liters",
		},
		{
			ID: StepProteinShare, Title: "Macros", Prompt: "Which share of your calories should come from protein?", Label: "Protein share",
			Kind: KindNumber, Field: models.FieldProteinShare, Validator: ValidatorNumber, Max: 100, Unit: "%",
		},
		{
			ID: StepSleep, Title: "Habits", Prompt: "How many hours do you sleep per night?", Label: "Sleep",
			Kind: KindNumber, Field: models.FieldSleepHours, Validator: ValidatorNumber, Max: 24, Unit: "hours",
		},
		{
			ID: StepConsent, Title: "Almost done", Prompt: "Can we use your answers to build your meal plan?", Label: "Consent",
			Kind: KindChoice, Field: models.FieldConsent, Validator: ValidatorChoice,
			Options: []Option{
				{Value: "yes", Label: "Yes, build my plan"},
			},
		},
	}
}
