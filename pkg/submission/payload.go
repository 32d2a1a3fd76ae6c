package submission

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nutriflow/nutriflow/pkg/exclusion"
	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/nutriflow/nutriflow/pkg/survey"
)

// BuildPayload projects d into the remote schema, stamped with userID. The
// activity multiplier is looked up on the registry's activity_level step.
func BuildPayload(registry *survey.Registry, d models.Draft, userID string) models.PreferencePayload {
	d = d.Clone()

	payload := models.PreferencePayload{
		UserID:                userID,
		FullName:              strings.TrimSpace(d.FullName),
		Email:                 strings.TrimSpace(d.Email),
		Gender:                d.Gender,
		Age:                   d.Age,
		HeightCM:              d.HeightCM,
		WeightKG:              d.WeightKG,
		GoalWeightKG:          d.GoalWeightKG,
		Goal:                  d.Goal,
		GoalOther:             d.GoalOther,
		ActivityLevel:         d.ActivityLevel,
		DietType:              d.DietType,
		DietTypeOther:         d.DietTypeOther,
		Allergies:             d.Allergies,
		MealsPerDay:           d.MealsPerDay,
		CookingSkill:          d.CookingSkill,
		CookingTimeMinutes:    d.CookingTimeMinutes,
		Budget:                d.Budget,
		Cuisines:              d.Cuisines,
		FavoriteIngredientIDs: d.FavoriteIngredientIDs,
		HatedIngredientIDs:    d.HatedIngredientIDs,
		WaterLiters:           d.WaterLiters,
		ProteinSharePercent:   d.ProteinSharePercent,
		SleepHours:            d.SleepHours,
		Consent:               d.Consent,
	}

	if step, ok := registry.Step(survey.StepActivityLevel); ok {
		payload.ActivityMultiplier, _ = step.Multiplier(d.ActivityLevel)
	}

	return payload
}

func newPayloadValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// checkPayload runs the pre-flight check. Every failing field is reported,
// not just the first one.
func checkPayload(v *validator.Validate, payload models.PreferencePayload, d models.Draft) error {
	precondition := &PreconditionError{}

	err := v.Struct(payload)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}

		for _, fe := range validationErrors {
			if isMissing(fe) {
				precondition.Missing = append(precondition.Missing, fe.Field())
			} else {
				precondition.Invalid = append(precondition.Invalid, fe.Field())
			}
		}
	}

	if !exclusion.Disjoint(d) && !slices.Contains(precondition.Invalid, string(models.FieldHatedIngredientIDs)) {
		precondition.Invalid = append(precondition.Invalid, string(models.FieldHatedIngredientIDs))
	}

	if len(precondition.Missing) == 0 && len(precondition.Invalid) == 0 {
		return nil
	}

	return precondition
}

// isMissing treats empty lists like absent scalars.
func isMissing(fe validator.FieldError) bool {
	return strings.HasPrefix(fe.Tag(), "required") || (fe.Kind() == reflect.Slice && fe.Tag() == "min")
}
