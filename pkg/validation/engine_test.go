package validation

import (
	"testing"

	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/nutriflow/nutriflow/pkg/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(t *testing.T, id survey.StepID) *survey.Step {
	t.Helper()

	s, ok := survey.Default().Step(id)
	require.True(t, ok, "unknown step %s", id)

	return s
}

func TestEngine_Numbers(t *testing.T) {
	engine := NewEngine(Config{})

	tests := []struct {
		name   string
		step   survey.StepID
		input  string
		want   float64
		reason string
	}{
		{"valid height", survey.StepHeight, "180", 180, ""},
		{"decimal weight", survey.StepWeight, " 70.5 ", 70.5, ""},
		{"negative height", survey.StepHeight, "-5", 0, "Height must be greater than 0."},
		{"zero age", survey.StepAge, "0", 0, "Age must be greater than 0."},
		{"not a number", survey.StepAge, "thirty", 0, "Age must be a number."},
		{"infinite", survey.StepAge, "Inf", 0, "Age must be a number."},
		{"blank", survey.StepSleep, "  ", 0, "Sleep is required."},
		{"proportion above max", survey.StepProteinShare, "101", 0, "Protein share must be at most 100."},
		{"proportion at max", survey.StepProteinShare, "100", 100, ""},
		{"fractional bound", survey.StepWaterIntake, "10.5", 0, "Water intake must be at most 10."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Validate(step(t, tt.step), Answer{Value: tt.input}, models.Draft{})

			if tt.reason != "" {
				assert.False(t, res.IsAccepted())
				assert.Equal(t, tt.reason, res.Reason())

				return
			}

			require.True(t, res.IsAccepted(), res.Reason())
			assert.InDelta(t, tt.want, res.Value().Number, 0.0001)
		})
	}
}

func TestEngine_GoalWeightSameAsCurrent(t *testing.T) {
	engine := NewEngine(Config{})
	draft := models.Draft{WeightKG: 70}

	res := engine.Validate(step(t, survey.StepGoalWeight), Answer{Value: "70"}, draft)
	assert.False(t, res.IsAccepted())
	assert.Equal(t, "Goal weight cannot be the same as your current weight.", res.Reason())

	res = engine.Validate(step(t, survey.StepGoalWeight), Answer{Value: "65"}, draft)
	assert.True(t, res.IsAccepted())

	// The draft received by the validator is left untouched.
	assert.InDelta(t, 70.0, draft.WeightKG, 0)
	assert.Zero(t, draft.GoalWeightKG)
}

func TestEngine_FullName(t *testing.T) {
	engine := NewEngine(Config{})
	s := step(t, survey.StepName)

	res := engine.Validate(s, Answer{Value: "  Ada   Lovelace "}, models.Draft{})
	require.True(t, res.IsAccepted())
	assert.Equal(t, "Ada Lovelace", res.Value().Text)

	res = engine.Validate(s, Answer{Value: "Ada"}, models.Draft{})
	assert.Equal(t, "Please enter your first and last name.", res.Reason())

	res = engine.Validate(s, Answer{Value: "   "}, models.Draft{})
	assert.Equal(t, "Full name is required.", res.Reason())
}

func TestEngine_EmailDomainRestriction(t *testing.T) {
	s := step(t, survey.StepEmail)

	restricted := NewEngine(Config{AllowedEmailDomains: []string{"@Gmail.com"}})
	assert.Equal(t, []string{"gmail.com"}, restricted.AllowedEmailDomains())

	res := restricted.Validate(s, Answer{Value: "Ada@Gmail.com"}, models.Draft{})
	require.True(t, res.IsAccepted())
	assert.Equal(t, "ada@gmail.com", res.Value().Text)

	res = restricted.Validate(s, Answer{Value: "ada@example.com"}, models.Draft{})
	assert.Equal(t, "Email must be a @gmail.com address.", res.Reason())

	open := NewEngine(Config{})
	res = open.Validate(s, Answer{Value: "ada@example.com"}, models.Draft{})
	assert.True(t, res.IsAccepted())

	res = open.Validate(s, Answer{Value: "not-an-email"}, models.Draft{})
	assert.Equal(t, "Please enter a valid email address.", res.Reason())

	res = open.Validate(s, Answer{Value: "Ada <ada@example.com>"}, models.Draft{})
	assert.False(t, res.IsAccepted())
}

func TestEngine_EmailFormat(t *testing.T) {
	s := step(t, survey.StepEmail)
	engine := NewEngine(Config{})

	tests := []struct {
		value    string
		accepted bool
	}{
		{value: "ada@example.com", accepted: true},
		{value: "  ada.lovelace+food@mail.example.co.uk ", accepted: true},
		{value: "ada@[127.0.0.1]", accepted: false},
		{value: "ada@exa!mple.com", accepted: false},
		{value: "ada@localhost", accepted: false},
		{value: "ada@@example.com", accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			res := engine.Validate(s, Answer{Value: tt.value}, models.Draft{})
			assert.Equal(t, tt.accepted, res.IsAccepted(), res.Reason())
		})
	}
}

func TestEngine_Choice(t *testing.T) {
	engine := NewEngine(Config{})
	s := step(t, survey.StepGoal)

	res := engine.Validate(s, Answer{Value: "maintain"}, models.Draft{})
	require.True(t, res.IsAccepted())
	assert.Equal(t, "maintain", res.Value().Text)

	res = engine.Validate(s, Answer{Value: ""}, models.Draft{})
	assert.Equal(t, "Please select an option for goal.", res.Reason())

	res = engine.Validate(s, Answer{Value: "fly"}, models.Draft{})
	assert.False(t, res.IsAccepted())

	res = engine.Validate(s, Answer{Value: survey.OtherOption}, models.Draft{})
	assert.Equal(t, "Please describe your goal.", res.Reason())

	res = engine.Validate(s, Answer{Value: survey.OtherOption, Other: " run a marathon "}, models.Draft{})
	require.True(t, res.IsAccepted())
	assert.Equal(t, "run a marathon", res.Value().Other)
}

func TestEngine_MultiChoice(t *testing.T) {
	engine := NewEngine(Config{})
	s := step(t, survey.StepAllergies)

	res := engine.Validate(s, Answer{Values: []string{"peanut", " peanut", "soy"}}, models.Draft{})
	require.True(t, res.IsAccepted())
	assert.Equal(t, []string{"peanut", "soy"}, res.Value().Choices)

	res = engine.Validate(s, Answer{}, models.Draft{})
	assert.Equal(t, "Please select at least one option.", res.Reason())

	res = engine.Validate(s, Answer{Values: []string{"none", "soy"}}, models.Draft{})
	assert.False(t, res.IsAccepted())

	res = engine.Validate(s, Answer{Values: []string{"kryptonite"}}, models.Draft{})
	assert.False(t, res.IsAccepted())
}

func TestEngine_IngredientSet(t *testing.T) {
	engine := NewEngine(Config{})
	favorite := step(t, survey.StepFavoriteIngredients)
	hated := step(t, survey.StepHatedIngredients)

	draft := models.Draft{FavoriteIngredientIDs: []string{"x", "y"}}

	// Without explicit values the current selection is confirmed.
	res := engine.Validate(favorite, Answer{}, draft)
	require.True(t, res.IsAccepted())
	assert.Equal(t, []string{"x", "y"}, res.Value().Choices)

	res = engine.Validate(hated, Answer{Values: []string{"x"}}, draft)
	assert.Equal(t, `"x" is already in your favorite ingredients.`, res.Reason())

	res = engine.Validate(hated, Answer{}, draft)
	assert.Equal(t, "Please select at least one ingredient.", res.Reason())
}

func TestEngine_IdempotentRejection(t *testing.T) {
	engine := NewEngine(Config{AllowedEmailDomains: []string{"gmail.com"}})
	draft := models.Draft{WeightKG: 70}

	cases := []struct {
		step  survey.StepID
		input Answer
	}{
		{survey.StepGoalWeight, Answer{Value: "70"}},
		{survey.StepEmail, Answer{Value: "a@b.com"}},
		{survey.StepHeight, Answer{Value: "-5"}},
		{survey.StepCuisines, Answer{}},
	}

	for _, c := range cases {
		first := engine.Validate(step(t, c.step), c.input, draft)
		second := engine.Validate(step(t, c.step), c.input, draft)
		assert.Equal(t, first, second)
	}
}

func TestEngine_UnknownValidator(t *testing.T) {
	engine := NewEngine(Config{})

	res := engine.Validate(&survey.Step{ID: "x", Label: "Mystery", Validator: "nope"}, Answer{Value: "1"}, models.Draft{})
	assert.False(t, res.IsAccepted())
}

func TestResult_Err(t *testing.T) {
	err := Rejected("Height must be greater than 0.").Err(survey.StepHeight)
	require.Error(t, err)
	assert.True(t, IsRejected(err))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, survey.StepHeight, rejected.Step)

	require.NoError(t, Accepted(models.Value{Number: 1}).Err(survey.StepHeight))
}
