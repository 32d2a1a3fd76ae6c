// Package validation decides whether a raw answer is acceptable for a survey step.
package validation

import (
	"errors"
	"fmt"

	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/nutriflow/nutriflow/pkg/survey"
)

// ErrRejected matches every validation rejection.
var ErrRejected = errors.New("answer rejected")

// Answer is the raw input submitted for a step.
type Answer struct {
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
	Other  string   `json:"other,omitempty"`
}

// Result is either an accepted value or a rejection reason.
type Result struct {
	accepted bool
	value    models.Value
	reason   string
}

// Accepted builds a result carrying the value to merge into the draft.
func Accepted(v models.Value) Result {
	return Result{accepted: true, value: v}
}

// Rejected builds a result carrying a user-facing reason.
func Rejected(reason string) Result {
	return Result{reason: reason}
}

func (r Result) IsAccepted() bool {
	return r.accepted
}

func (r Result) Value() models.Value {
	return r.value
}

func (r Result) Reason() string {
	return r.reason
}

// Err converts a rejection into a *RejectedError for step; accepted results return nil.
func (r Result) Err(step survey.StepID) error {
	if r.accepted {
		return nil
	}

	return &RejectedError{Step: step, Reason: r.reason}
}

// RejectedError reports a user-correctable answer for a step.
type RejectedError struct {
	Step   survey.StepID
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("step %s: %s", e.Step, e.Reason)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// IsRejected checks if an error is a validation rejection.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
