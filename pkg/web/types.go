package web

import (
	"github.com/nutriflow/nutriflow/pkg/survey"
	"github.com/nutriflow/nutriflow/pkg/validation"
)

// AnswerRequest is the body of POST /survey/answers. When set, Step guards
// against answering a step the client is no longer showing.
type AnswerRequest struct {
	Step   string   `json:"step,omitempty"   validate:"max=64"`
	Value  string   `json:"value,omitempty"  validate:"max=500"`
	Values []string `json:"values,omitempty" validate:"max=200,dive,max=200"`
	Other  string   `json:"other,omitempty"  validate:"max=500"`
}

func (r AnswerRequest) Answer() validation.Answer {
	return validation.Answer{Value: r.Value, Values: r.Values, Other: r.Other}
}

// IngredientsRequest is the body of the ingredient set operations.
type IngredientsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500,dive,required,max=200"`
}

// StepsResponse lists the questionnaire path.
type StepsResponse struct {
	Steps []*survey.Step `json:"steps"`
	Total int            `json:"total"`
}
