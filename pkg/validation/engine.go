package validation

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/nutriflow/nutriflow/pkg/survey"
)

// Func validates an answer for step against the draft collected so far.
// Implementations must be pure.
type Func func(step *survey.Step, answer Answer, draft models.Draft) Result

// Config holds the data-driven parts of validation.
type Config struct {
	// AllowedEmailDomains restricts the contact email to these domains.
	// An empty list accepts any domain.
	AllowedEmailDomains []string
}

// Engine dispatches answers to the validator referenced by each step.
type Engine struct {
	allowedDomains []string
	validators     map[string]Func
	validate       *validator.Validate
}

// NewEngine creates an engine with the built-in validators.
func NewEngine(cfg Config) *Engine {
	e := &Engine{validate: validator.New(validator.WithRequiredStructEnabled())}

	for _, d := range cfg.AllowedEmailDomains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))
		if d != "" {
			e.allowedDomains = append(e.allowedDomains, d)
		}
	}

	e.validators = map[string]Func{
		survey.ValidatorFullName:      validateFullName,
		survey.ValidatorEmail:         e.validateEmail,
		survey.ValidatorNumber:        validateNumber,
		survey.ValidatorGoalWeight:    validateGoalWeight,
		survey.ValidatorChoice:        validateChoice,
		survey.ValidatorMultiChoice:   validateMultiChoice,
		survey.ValidatorIngredientSet: validateIngredientSet,
	}

	return e
}

// AllowedEmailDomains returns the normalized domain allowlist.
func (e *Engine) AllowedEmailDomains() []string {
	return slices.Clone(e.allowedDomains)
}

// Validate checks answer for step. The draft is received by value and never modified.
func (e *Engine) Validate(step *survey.Step, answer Answer, draft models.Draft) Result {
	fn, ok := e.validators[step.Validator]
	if !ok {
		return Rejected(fmt.Sprintf("%s cannot be answered.", step.Label))
	}

	return fn(step, answer, draft)
}

func validateFullName(step *survey.Step, answer Answer, _ models.Draft) Result {
	tokens := strings.Fields(answer.Value)
	if len(tokens) == 0 {
		return Rejected(step.Label + " is required.")
	}

	if len(tokens) < 2 {
		return Rejected("Please enter your first and last name.")
	}

	return Accepted(models.Value{Text: strings.Join(tokens, " ")})
}

func (e *Engine) validateEmail(step *survey.Step, answer Answer, _ models.Draft) Result {
	raw := strings.TrimSpace(answer.Value)
	if raw == "" {
		return Rejected(step.Label + " is required.")
	}

	// Checked with the same rule the submission pre-flight applies, so an
	// accepted address is never refused at submit time.
	email := strings.ToLower(raw)
	if err := e.validate.Var(email, "email"); err != nil {
		return Rejected("Please enter a valid email address.")
	}

	if len(e.allowedDomains) > 0 {
		at := strings.LastIndex(email, "@")
		if !slices.Contains(e.allowedDomains, email[at+1:]) {
			return Rejected(domainMessage(e.allowedDomains))
		}
	}

	return Accepted(models.Value{Text: email})
}

func domainMessage(domains []string) string {
	if len(domains) == 1 {
		return "Email must be a @" + domains[0] + " address."
	}

	return "Email must use one of these domains: " + strings.Join(domains, ", ") + "."
}

func parsePositive(step *survey.Step, raw string) (float64, Result, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, Rejected(step.Label + " is required."), false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, Rejected(step.Label + " must be a number."), false
	}

	if v <= 0 {
		return 0, Rejected(step.Label + " must be greater than 0."), false
	}

	if step.Max > 0 && v > step.Max {
		return 0, Rejected(fmt.Sprintf("%s must be at most %s.", step.Label, strconv.FormatFloat(step.Max, 'f', -1, 64))), false
	}

	return v, Result{}, true
}

func validateNumber(step *survey.Step, answer Answer, _ models.Draft) Result {
	v, rejection, ok := parsePositive(step, answer.Value)
	if !ok {
		return rejection
	}

	return Accepted(models.Value{Number: v})
}

func validateGoalWeight(step *survey.Step, answer Answer, draft models.Draft) Result {
	v, rejection, ok := parsePositive(step, answer.Value)
	if !ok {
		return rejection
	}

	if draft.WeightKG > 0 && v == draft.WeightKG {
		return Rejected("Goal weight cannot be the same as your current weight.")
	}

	return Accepted(models.Value{Number: v})
}

func validateChoice(step *survey.Step, answer Answer, _ models.Draft) Result {
	choice := strings.TrimSpace(answer.Value)
	if choice == "" {
		return Rejected("Please select an option for " + strings.ToLower(step.Label) + ".")
	}

	if !step.HasOption(choice) {
		return Rejected(fmt.Sprintf("%q is not a valid option for %s.", choice, strings.ToLower(step.Label)))
	}

	value := models.Value{Text: choice}

	if step.SecondaryField != "" && choice == survey.OtherOption {
		other := strings.TrimSpace(answer.Other)
		if other == "" {
			return Rejected("Please describe your " + strings.ToLower(step.Label) + ".")
		}

		value.Other = other
	}

	return Accepted(value)
}

// normalizeSet trims values and drops blanks and duplicates, keeping order.
func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}

	return out
}

const noneOption = "none"

func validateMultiChoice(step *survey.Step, answer Answer, _ models.Draft) Result {
	choices := normalizeSet(answer.Values)
	if len(choices) == 0 {
		return Rejected("Please select at least one option.")
	}

	for _, c := range choices {
		if !step.HasOption(c) {
			return Rejected(fmt.Sprintf("%q is not a valid option for %s.", c, strings.ToLower(step.Label)))
		}
	}

	if len(choices) > 1 && slices.Contains(choices, noneOption) {
		return Rejected(`"None" cannot be combined with other options.`)
	}

	return Accepted(models.Value{Choices: choices})
}

func validateIngredientSet(step *survey.Step, answer Answer, draft models.Draft) Result {
	values := answer.Values
	if values == nil {
		values = draft.Get(step.Field).Choices
	}

	ids := normalizeSet(values)
	if len(ids) == 0 {
		return Rejected("Please select at least one ingredient.")
	}

	opposing, label := opposingSet(step.Field, draft)

	for _, id := range ids {
		if slices.Contains(opposing, id) {
			return Rejected(fmt.Sprintf("%q is already in your %s.", id, label))
		}
	}

	return Accepted(models.Value{Choices: ids})
}

func opposingSet(field models.Field, draft models.Draft) ([]string, string) {
	switch field {
	case models.FieldFavoriteIngredientIDs:
		return draft.HatedIngredientIDs, "disliked ingredients"
	case models.FieldHatedIngredientIDs:
		return draft.FavoriteIngredientIDs, "favorite ingredients"
	default:
		return nil, ""
	}
}
