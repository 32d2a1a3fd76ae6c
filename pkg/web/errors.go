package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
	"github.com/nutriflow/nutriflow/pkg/controller"
	"github.com/nutriflow/nutriflow/pkg/navigation"
	"github.com/nutriflow/nutriflow/pkg/services"
	"github.com/nutriflow/nutriflow/pkg/submission"
	"github.com/nutriflow/nutriflow/pkg/validation"
)

// surveyProblem extends an RFC 7807 problem with the survey fields a client
// needs to recover.
type surveyProblem struct {
	*problems.Problem

	Step       string              `json:"step,omitempty"`
	Missing    []string            `json:"missing,omitempty"`
	Invalid    []string            `json:"invalid,omitempty"`
	Navigation *navigation.Command `json:"navigation,omitempty"`
	Flow       *services.View      `json:"flow,omitempty"`
}

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func unauthorized(c fiber.Ctx) error {
	problem := surveyProblem{
		Problem: problems.NewStatusProblem(401).
			WithInstance(c.Path()).
			WithType("identity_missing").
			WithDetail("sign in to continue the survey"),
		Navigation: &navigation.Command{Action: navigation.ActionSignIn},
	}

	return c.Status(fiber.StatusUnauthorized).JSON(problem)
}

// handleFlowError maps a failed flow operation to a problem response. view is
// the flow state after the failure, returned so the client can re-render.
func handleFlowError(c fiber.Ctx, err error, view *services.View) error {
	var (
		rejected     *validation.RejectedError
		precondition *submission.PreconditionError
		remote       *submission.RemoteError
	)

	switch {
	case errors.As(err, &rejected):
		problem := surveyProblem{
			Problem: problems.NewStatusProblem(422).
				WithInstance(c.Path()).
				WithType("validation_rejected").
				WithDetail(rejected.Reason),
			Step: string(rejected.Step),
			Flow: view,
		}

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case errors.As(err, &precondition):
		problem := surveyProblem{
			Problem: problems.NewStatusProblem(422).
				WithInstance(c.Path()).
				WithType("precondition_incomplete").
				WithDetail(precondition.Error()),
			Missing: precondition.Missing,
			Invalid: precondition.Invalid,
			Flow:    view,
		}

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case errors.As(err, &remote):
		problem := surveyProblem{
			Problem: problems.NewStatusProblem(502).
				WithInstance(c.Path()).
				WithType("remote_submission_failed").
				WithDetail("the preference service could not save your answers, please retry"),
			Flow: view,
		}

		return c.Status(fiber.StatusBadGateway).JSON(problem)

	case services.IsUnauthorized(err):
		return unauthorized(c)

	case services.IsValidationError(err):
		return badRequest(c, err.Error())

	case services.IsConflictError(err):
		problem := surveyProblem{
			Problem: problems.NewStatusProblem(409).
				WithInstance(c.Path()).
				WithType(conflictType(err)).
				WithDetail(err.Error()),
			Flow: view,
		}

		return c.Status(fiber.StatusConflict).JSON(problem)

	default:
		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("internal_error").
			WithError(err)

		return c.Status(fiber.StatusInternalServerError).JSON(problem)
	}
}

func conflictType(err error) string {
	switch {
	case submission.IsSubmissionInFlight(err):
		return "submission_in_flight"
	case controller.IsFlowCompleted(err):
		return "flow_completed"
	case controller.IsNotEntered(err):
		return "flow_not_entered"
	default:
		return "wrong_step"
	}
}
