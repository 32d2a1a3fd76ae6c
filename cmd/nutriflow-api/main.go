package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nutriflow/nutriflow/pkg/cmd"
	"github.com/nutriflow/nutriflow/pkg/log"
	"github.com/nutriflow/nutriflow/pkg/otelhelper"
	"github.com/nutriflow/nutriflow/pkg/preference"
	"github.com/nutriflow/nutriflow/pkg/validation"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	command := &cli.Command{
		Name:                  "nutriflow-api",
		Usage:                 "Serve onboarding survey flows over HTTP",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for draft persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "preference-service-url",
				Usage:    "Base URL of the remote preference service",
				Required: true,
				Sources:  cli.EnvVars("PREFERENCE_SERVICE_URL"),
			},
			&cli.StringFlag{
				Name:    "sessions",
				Usage:   "Comma separated token:user_id pairs accepted as bearer tokens",
				Sources: cli.EnvVars("SESSIONS"),
			},
			&cli.StringFlag{
				Name:    "allowed-email-domains",
				Usage:   "Comma separated email domains accepted by the email step; empty accepts any",
				Sources: cli.EnvVars("ALLOWED_EMAIL_DOMAINS"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers, used when the event bus is kafka",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := command.Run(ctx, os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("api")

	logger.InfoContext(ctx, "Initializing Nutriflow API")

	tracer, shutdown, err := otelhelper.NewTracer(ctx, "nutriflow-api", command.Bool("otel-enabled"))
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}

	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		}
	}()

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := persistence.Close(context.Background()); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	sessions, err := cmd.NewSessions(command.String("sessions"))
	if err != nil {
		return err
	}

	engine := validation.NewEngine(validation.Config{
		AllowedEmailDomains: cmd.SplitList(command.String("allowed-email-domains")),
	})

	client := preference.NewClient(command.String("preference-service-url"), logger)

	api := NewAPI(logger, persistence, sessions, client, engine, eventBus, tracer)

	if err := api.WatchCompletions(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to survey events: %w", err)
	}

	return api.Start(ctx, command.Int("port"))
}
