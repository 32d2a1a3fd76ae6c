// Package services hosts survey flows for many users behind one process.
package services

import (
	"errors"
	"fmt"

	"github.com/nutriflow/nutriflow/pkg/controller"
	"github.com/nutriflow/nutriflow/pkg/session"
	"github.com/nutriflow/nutriflow/pkg/submission"
	"github.com/nutriflow/nutriflow/pkg/validation"
)

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrUnknownIngredientKind = errors.New("unknown ingredient kind")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidationError checks if an error is a malformed request that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrUnknownIngredientKind)
}

// IsUnprocessable checks if an error is a user-correctable survey failure that should return HTTP 422.
func IsUnprocessable(err error) bool {
	return validation.IsRejected(err) ||
		submission.IsPreconditionIncomplete(err)
}

// IsConflictError checks if an error conflicts with the flow state and should return HTTP 409.
func IsConflictError(err error) bool {
	return controller.IsWrongStep(err) ||
		controller.IsFlowCompleted(err) ||
		controller.IsNotEntered(err) ||
		submission.IsSubmissionInFlight(err)
}

// IsUnauthorized checks if an error should send the user to sign-in.
func IsUnauthorized(err error) bool {
	return session.IsIdentityMissing(err)
}
