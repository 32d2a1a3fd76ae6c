// Package main provides the Nutriflow survey API server.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/nutriflow/nutriflow/pkg/eventbus"
	"github.com/nutriflow/nutriflow/pkg/events"
	"github.com/nutriflow/nutriflow/pkg/persistence"
	"github.com/nutriflow/nutriflow/pkg/services"
	"github.com/nutriflow/nutriflow/pkg/session"
	"github.com/nutriflow/nutriflow/pkg/submission"
	"github.com/nutriflow/nutriflow/pkg/validation"
	"github.com/nutriflow/nutriflow/pkg/web"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	sessions    session.Store
	client      submission.PreferenceClient
	engine      *validation.Engine
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	sessions session.Store,
	client submission.PreferenceClient,
	engine *validation.Engine,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		sessions:    sessions,
		client:      client,
		engine:      engine,
		eventBus:    eventBus,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	cfg := services.SurveyConfig{
		Persistence: a.persistence,
		Sessions:    a.sessions,
		Client:      a.client,
		Engine:      a.engine,
		Tracer:      a.tracer,
		Logger:      a.logger,
	}

	if a.eventBus != nil {
		cfg.EventBus = a.eventBus
	}

	surveyService := services.NewSurvey(cfg)
	handlers := web.NewSurveyHandlers(surveyService, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Nutriflow API")
	})

	handlers.Register(app)

	return app
}

// WatchCompletions logs every survey that exits to the host after a
// successful submission.
func (a *API) WatchCompletions(ctx context.Context) error {
	if a.eventBus == nil {
		return nil
	}

	err := a.eventBus.Handle(events.FlowExitedEvent, func(ctx context.Context, event any) error {
		exited, ok := event.(*events.FlowExited)
		if !ok {
			return nil
		}

		a.logger.InfoContext(ctx, "Survey completed",
			"user_id", exited.UserID,
			"screen", exited.Screen,
			"event_id", exited.ID)

		return nil
	})
	if err != nil {
		return err
	}

	return a.eventBus.Subscribe(ctx)
}

// Start serves until ctx is cancelled.
func (a *API) Start(ctx context.Context, port int) error {
	app := a.App()

	go func() {
		<-ctx.Done()

		if err := app.Shutdown(); err != nil {
			a.logger.Error("Failed to shutdown API server", "error", err)
		}
	}()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
