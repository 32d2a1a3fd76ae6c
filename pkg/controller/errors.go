package controller

import (
	"errors"
	"fmt"

	"github.com/nutriflow/nutriflow/pkg/survey"
)

var (
	ErrNotEntered    = errors.New("flow not entered")
	ErrFlowCompleted = errors.New("flow already completed")
	ErrWrongStep     = errors.New("operation not available on current step")
)

// StepError reports an operation attempted while another step is current.
type StepError struct {
	Op      string
	Current State
	Want    survey.StepID
}

func (e *StepError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("%s: not available in state %s", e.Op, e.Current)
	}

	return fmt.Sprintf("%s: requires step %s, current state is %s", e.Op, e.Want, e.Current)
}

func (e *StepError) Is(target error) bool {
	return target == ErrWrongStep
}

func IsNotEntered(err error) bool {
	return errors.Is(err, ErrNotEntered)
}

func IsFlowCompleted(err error) bool {
	return errors.Is(err, ErrFlowCompleted)
}

func IsWrongStep(err error) bool {
	return errors.Is(err, ErrWrongStep)
}
