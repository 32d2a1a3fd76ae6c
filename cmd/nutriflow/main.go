// Package main provides the Nutriflow terminal survey runner.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nutriflow/nutriflow/pkg/cmd"
	"github.com/nutriflow/nutriflow/pkg/controller"
	"github.com/nutriflow/nutriflow/pkg/draft"
	"github.com/nutriflow/nutriflow/pkg/log"
	"github.com/nutriflow/nutriflow/pkg/navigation"
	"github.com/nutriflow/nutriflow/pkg/otelhelper"
	"github.com/nutriflow/nutriflow/pkg/persistence"
	"github.com/nutriflow/nutriflow/pkg/preference"
	"github.com/nutriflow/nutriflow/pkg/session"
	"github.com/nutriflow/nutriflow/pkg/submission"
	"github.com/nutriflow/nutriflow/pkg/survey"
	"github.com/nutriflow/nutriflow/pkg/validation"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

const defaultDatabaseURL = "file://.nutriflow"

func main() {
	storeFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "Database connection URL for draft persistence",
			Value:   defaultDatabaseURL,
			Sources: cli.EnvVars("DATABASE_URL"),
		},
		&cli.StringFlag{
			Name:    "user-id",
			Aliases: []string{"u"},
			Usage:   "Signed-in user the survey runs for",
			Sources: cli.EnvVars("NUTRIFLOW_USER_ID"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "warn",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}

	command := &cli.Command{
		Name:                  "nutriflow",
		Usage:                 "Walk the onboarding survey in the terminal",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "Answer the survey, resuming a saved draft",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "token",
						Usage:   "Bearer token sent to the preference service",
						Sources: cli.EnvVars("NUTRIFLOW_TOKEN"),
					},
					&cli.StringFlag{
						Name:     "preference-service-url",
						Usage:    "Base URL of the remote preference service",
						Required: true,
						Sources:  cli.EnvVars("PREFERENCE_SERVICE_URL"),
					},
					&cli.StringFlag{
						Name:    "allowed-email-domains",
						Usage:   "Comma separated email domains accepted by the email step; empty accepts any",
						Sources: cli.EnvVars("ALLOWED_EMAIL_DOMAINS"),
					},
					&cli.BoolFlag{
						Name:    "otel-enabled",
						Usage:   "Export traces over OTLP/HTTP",
						Sources: cli.EnvVars("OTEL_ENABLED"),
					},
				}, storeFlags...),
				Action: func(ctx context.Context, command *cli.Command) error {
					return runSurvey(ctx, command, os.Stdin, os.Stdout)
				},
			},
			{
				Name:  "show",
				Usage: "Print the saved draft",
				Flags: storeFlags,
				Action: func(ctx context.Context, command *cli.Command) error {
					return withStore(ctx, command, func(store *draft.Store) error {
						return showDraft(ctx, store, os.Stdout)
					})
				},
			},
			{
				Name:  "reset",
				Usage: "Discard the saved draft",
				Flags: storeFlags,
				Action: func(ctx context.Context, command *cli.Command) error {
					return withStore(ctx, command, func(store *draft.Store) error {
						if err := store.Clear(ctx); err != nil {
							return err
						}

						fmt.Fprintln(os.Stdout, "Draft discarded.")

						return nil
					})
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withStore(ctx context.Context, command *cli.Command, fn func(store *draft.Store) error) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("cli")

	p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer closePersistence(ctx, p, logger)

	userID := command.String("user-id")
	if userID == "" {
		return session.ErrIdentityMissing
	}

	return fn(draft.NewStore(p.DraftRepository(), draft.Key(userID), logger))
}

func runSurvey(ctx context.Context, command *cli.Command, in io.Reader, out io.Writer) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("cli")

	tracer, shutdown, err := otelhelper.NewTracer(ctx, "nutriflow", command.Bool("otel-enabled"))
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}

	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		}
	}()

	p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer closePersistence(ctx, p, logger)

	identity := &session.Identity{
		UserID: command.String("user-id"),
		Token:  command.String("token"),
	}

	engine := validation.NewEngine(validation.Config{
		AllowedEmailDomains: cmd.SplitList(command.String("allowed-email-domains")),
	})

	client := preference.NewClient(command.String("preference-service-url"), logger)

	ctrl := newController(p, identity, client, engine, navigation.NewConsole(out), logger, tracer)

	return NewRunner(ctrl, in, out).Run(ctx)
}

// newController wires one flow for identity against p. tracer spans both the
// flow operations and the submission.
func newController(
	p persistence.Persistence,
	identity *session.Identity,
	client submission.PreferenceClient,
	engine *validation.Engine,
	navigator navigation.Navigator,
	logger *slog.Logger,
	tracer trace.Tracer,
) *controller.Controller {
	registry := survey.Default()
	store := draft.NewStore(p.DraftRepository(), draft.Key(identity.UserID), logger)
	sessions := session.NewMemoryStore()

	if identity.Valid() && identity.Token != "" {
		sessions = session.NewMemoryStore(identity)
	}

	submitter := submission.NewSubmitter(client, store, sessions, registry, navigator, logger,
		submission.WithTracer(tracer))

	return controller.New(controller.Dependencies{
		Registry:  registry,
		Engine:    engine,
		Store:     store,
		Submitter: submitter,
		Navigator: navigator,
		Logger:    logger,
		Tracer:    tracer,
	}, identity)
}

func showDraft(ctx context.Context, store *draft.Store, out io.Writer) error {
	data, err := json.MarshalIndent(store.Load(ctx), "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(data))

	return err
}

func closePersistence(ctx context.Context, p persistence.Persistence, logger *slog.Logger) {
	if err := p.Close(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
	}
}
