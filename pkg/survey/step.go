// Package survey defines the onboarding questionnaire: its steps, the draft
// fields each step owns and the path the flow walks through them.
package survey

import (
	"slices"

	"github.com/nutriflow/nutriflow/pkg/models"
)

// StepID identifies a step of the questionnaire.
type StepID string

// Kind describes the shape of the answer a step collects.
type Kind string

const (
	KindText          Kind = "text"
	KindNumber        Kind = "number"
	KindChoice        Kind = "choice"
	KindMultiChoice   Kind = "multi_choice"
	KindIngredientSet Kind = "ingredient_set"
)

// OtherOption is the sentinel choice that enables a step's secondary free-text field.
const OtherOption = "other"

// Validator names used by the validation engine.
const (
	ValidatorFullName      = "full_name"
	ValidatorEmail         = "email"
	ValidatorNumber        = "number"
	ValidatorGoalWeight    = "goal_weight"
	ValidatorChoice        = "choice"
	ValidatorMultiChoice   = "multi_choice"
	ValidatorIngredientSet = "ingredient_set"
)

// Option is one selectable answer of a choice step.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Step is the immutable definition of one questionnaire screen.
type Step struct {
	ID     StepID `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
	// Label names the answer in validation messages, e.g. "Height".
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`

	Field          models.Field `json:"field"`
	SecondaryField models.Field `json:"secondary_field,omitempty"`

	Options []Option `json:"options,omitempty"`
	// Max is the inclusive upper bound of numeric answers; zero means unbounded.
	Max  float64 `json:"max,omitempty"`
	Unit string  `json:"unit,omitempty"`

	Validator string `json:"validator"`

	// Multipliers maps a choice to its derived factor (activity level only).
	Multipliers map[string]float64 `json:"-"`
}

// Fields returns every draft field the step owns.
func (s *Step) Fields() []models.Field {
	if s.SecondaryField != "" {
		return []models.Field{s.Field, s.SecondaryField}
	}

	return []models.Field{s.Field}
}

// Owns reports whether field belongs to this step.
func (s *Step) Owns(field models.Field) bool {
	return slices.Contains(s.Fields(), field)
}

// HasOption reports whether value is one of the step's options.
func (s *Step) HasOption(value string) bool {
	return slices.ContainsFunc(s.Options, func(o Option) bool {
		return o.Value == value
	})
}

// Multiplier returns the configured factor for choice.
func (s *Step) Multiplier(choice string) (float64, bool) {
	m, ok := s.Multipliers[choice]

	return m, ok
}

// Apply merges an accepted value into the step's owned fields. The secondary
// field only keeps its text while the primary choice is the "other" sentinel.
func (s *Step) Apply(draft *models.Draft, value models.Value) {
	draft.Set(s.Field, value)

	if s.SecondaryField == "" {
		return
	}

	if value.Text != OtherOption {
		value.Other = ""
	}

	draft.Set(s.SecondaryField, value)
}

// Answered reports whether the step's primary field is populated.
func (s *Step) Answered(draft *models.Draft) bool {
	return draft.IsSet(s.Field)
}
