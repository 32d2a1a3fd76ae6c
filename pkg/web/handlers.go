// Package web exposes survey flows over HTTP.
package web

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/nutriflow/nutriflow/pkg/controller"
	"github.com/nutriflow/nutriflow/pkg/services"
	"github.com/nutriflow/nutriflow/pkg/session"
	"github.com/nutriflow/nutriflow/pkg/survey"
)

const identityKey = "identity"

type SurveyHandlers struct {
	surveyService *services.Survey
	validator     *validator.Validate
	logger        *slog.Logger
}

func NewSurveyHandlers(surveyService *services.Survey, validator *validator.Validate, logger *slog.Logger) *SurveyHandlers {
	if logger == nil {
		logger = slog.Default()
	}

	return &SurveyHandlers{
		surveyService: surveyService,
		validator:     validator,
		logger:        logger,
	}
}

// Authenticate resolves the bearer token and stores the identity for later handlers.
func (h *SurveyHandlers) Authenticate(c fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok {
		return unauthorized(c)
	}

	identity, err := h.surveyService.Authenticate(c.Context(), strings.TrimSpace(token))
	if err != nil {
		return unauthorized(c)
	}

	c.Locals(identityKey, identity)

	return c.Next()
}

func (h *SurveyHandlers) flow(c fiber.Ctx) (*services.Flow, error) {
	identity, _ := c.Locals(identityKey).(*session.Identity)

	return h.surveyService.Flow(c.Context(), identity)
}

func (h *SurveyHandlers) GetSteps(c fiber.Ctx) error {
	steps := h.surveyService.Registry().Steps()

	return c.JSON(StepsResponse{Steps: steps, Total: len(steps)})
}

func (h *SurveyHandlers) GetSurvey(c fiber.Ctx) error {
	flow, err := h.flow(c)
	if err != nil {
		return handleFlowError(c, err, nil)
	}

	return c.JSON(flow.View())
}

func (h *SurveyHandlers) PostAnswer(c fiber.Ctx) error {
	var req AnswerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	flow, err := h.flow(c)
	if err != nil {
		return handleFlowError(c, err, nil)
	}

	if current := flow.View(); req.Step != "" && string(current.State) != req.Step {
		return handleFlowError(c, &controller.StepError{Op: "answer", Current: current.State, Want: survey.StepID(req.Step)}, &current)
	}

	view, err := flow.Answer(c.Context(), req.Answer())

	return h.respond(c, view, err)
}

func (h *SurveyHandlers) PostForward(c fiber.Ctx) error {
	flow, err := h.flow(c)
	if err != nil {
		return handleFlowError(c, err, nil)
	}

	view, err := flow.Forward(c.Context())

	return h.respond(c, view, err)
}

func (h *SurveyHandlers) PostBack(c fiber.Ctx) error {
	flow, err := h.flow(c)
	if err != nil {
		return handleFlowError(c, err, nil)
	}

	view, err := flow.Back(c.Context())

	return h.respond(c, view, err)
}

func (h *SurveyHandlers) PostIngredients(c fiber.Ctx) error {
	var req IngredientsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	flow, err := h.flow(c)
	if err != nil {
		return handleFlowError(c, err, nil)
	}

	view, err := flow.Ingredients(c.Context(), c.Params("kind"), c.Params("op"), req.IDs)

	return h.respond(c, view, err)
}

func (h *SurveyHandlers) PostSubmit(c fiber.Ctx) error {
	flow, err := h.flow(c)
	if err != nil {
		return handleFlowError(c, err, nil)
	}

	view, err := flow.Submit(c.Context())

	return h.respond(c, view, err)
}

func (h *SurveyHandlers) DeleteSurvey(c fiber.Ctx) error {
	flow, err := h.flow(c)
	if err != nil {
		return handleFlowError(c, err, nil)
	}

	view, err := flow.Reset(c.Context())

	return h.respond(c, view, err)
}

func (h *SurveyHandlers) respond(c fiber.Ctx, view services.View, err error) error {
	if err != nil {
		h.logger.Debug("survey operation failed", "path", c.Path(), "error", err)

		return handleFlowError(c, err, &view)
	}

	return c.JSON(view)
}

func (h *SurveyHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.surveyService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Nutriflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Nutriflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// Register mounts the survey routes on app.
func (h *SurveyHandlers) Register(app *fiber.App) {
	s := app.Group("/survey", h.Authenticate)
	s.Get("/steps", h.GetSteps)
	s.Get("/", h.GetSurvey)
	s.Delete("/", h.DeleteSurvey)
	s.Post("/answers", h.PostAnswer)
	s.Post("/forward", h.PostForward)
	s.Post("/back", h.PostBack)
	s.Post("/submit", h.PostSubmit)
	s.Post("/ingredients/:kind/:op", h.PostIngredients)

	app.Get("/health", h.HealthCheck)
}
