package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nutriflow/nutriflow/pkg/preference"
)

var (
	// ErrSubmissionInFlight is returned to a second concurrent Submit.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrPreconditionIncomplete matches every *PreconditionError.
	ErrPreconditionIncomplete = errors.New("draft incomplete")

	// ErrRemoteSubmissionFailed matches every *RemoteError.
	ErrRemoteSubmissionFailed = errors.New("remote submission failed")
)

// PreconditionError lists what keeps a draft from being submitted. It is
// detected locally, before any network call.
type PreconditionError struct {
	Missing []string
	Invalid []string
}

func (e *PreconditionError) Error() string {
	var parts []string

	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}

	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}

	return fmt.Sprintf("%s: %s", ErrPreconditionIncomplete, strings.Join(parts, "; "))
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionIncomplete
}

// RemoteError wraps a failed call to the preference service. The draft is
// left intact for a retry.
type RemoteError struct {
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", ErrRemoteSubmissionFailed, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteSubmissionFailed
}

// StatusCode returns the remote HTTP status, or zero for transport failures.
func (e *RemoteError) StatusCode() int {
	var statusErr *preference.StatusError
	if errors.As(e.Err, &statusErr) {
		return statusErr.StatusCode
	}

	return 0
}

// IsPreconditionIncomplete checks if an error is a local pre-flight failure.
func IsPreconditionIncomplete(err error) bool {
	return errors.Is(err, ErrPreconditionIncomplete)
}

// IsRemoteSubmissionFailed checks if an error comes from the remote call.
func IsRemoteSubmissionFailed(err error) bool {
	return errors.Is(err, ErrRemoteSubmissionFailed)
}

// IsSubmissionInFlight checks if an error is a rejected concurrent submit.
func IsSubmissionInFlight(err error) bool {
	return errors.Is(err, ErrSubmissionInFlight)
}
