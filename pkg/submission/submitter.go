// Package submission performs the single terminal write of a completed survey
// draft to the remote preference service.
package submission

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/nutriflow/nutriflow/pkg/navigation"
	"github.com/nutriflow/nutriflow/pkg/otelhelper"
	"github.com/nutriflow/nutriflow/pkg/session"
	"github.com/nutriflow/nutriflow/pkg/survey"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

// PreferenceClient is the remote preference endpoint.
type PreferenceClient interface {
	Create(ctx context.Context, token string, payload models.PreferencePayload) (*models.RemoteRecord, error)
	Update(ctx context.Context, token, id string, payload models.PreferencePayload) (*models.RemoteRecord, error)
}

// DraftStore is the durable store of the flow being submitted.
type DraftStore interface {
	Save(ctx context.Context, d models.Draft) error
	Clear(ctx context.Context) error
}

// Submitter assembles and sends the completed draft. One Submitter serves one
// flow; at most one Submit runs at a time.
type Submitter struct {
	client     PreferenceClient
	store      DraftStore
	sessions   session.Store
	registry   *survey.Registry
	navigator  navigation.Navigator
	logger     *slog.Logger
	tracer     trace.Tracer
	validate   *validator.Validate
	exitScreen string
	inFlight   *semaphore.Weighted
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithTracer records every submission in a span. A nil tracer keeps the noop default.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Submitter) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithExitScreen sets the screen the host shows after a successful submission.
func WithExitScreen(screen string) Option {
	return func(s *Submitter) {
		s.exitScreen = screen
	}
}

func NewSubmitter(
	client PreferenceClient,
	store DraftStore,
	sessions session.Store,
	registry *survey.Registry,
	navigator navigation.Navigator,
	logger *slog.Logger,
	opts ...Option,
) *Submitter {
	s := &Submitter{
		client:     client,
		store:      store,
		sessions:   sessions,
		registry:   registry,
		navigator:  navigator,
		logger:     logger.With("module", "submission"),
		tracer:     otelhelper.NoopTracer(),
		validate:   newPayloadValidator(),
		exitScreen: navigation.ScreenHome,
		inFlight:   semaphore.NewWeighted(1),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Submit sends d on behalf of identity. d is a defensive copy owned by the
// caller's flow and is never mutated here.
//
// On success the identity carries the remote id and a copy of the draft, the
// durable draft is cleared and the host is told to leave the flow. On any
// failure the stored draft is untouched.
func (s *Submitter) Submit(ctx context.Context, d models.Draft, identity *session.Identity) (*models.RemoteRecord, error) {
	if !s.inFlight.TryAcquire(1) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Release(1)

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "survey.submit")
	defer span.End()

	if !identity.Valid() {
		s.navigate(ctx, s.navigator.ExitToSignIn(ctx))

		return nil, session.ErrIdentityMissing
	}

	span.SetAttributes(attribute.String(otelhelper.UserIDKey, identity.UserID))

	d = d.Clone()
	payload := BuildPayload(s.registry, d, identity.UserID)

	err := checkPayload(s.validate, payload, d)
	if err != nil {
		otelhelper.SetError(span, err)
		s.logger.InfoContext(ctx, "Draft not ready for submission", "user_id", identity.UserID, "error", err)

		return nil, err
	}

	record, err := s.send(ctx, span, identity, d, payload)
	if err != nil {
		remoteErr := &RemoteError{Err: err}
		otelhelper.SetError(span, remoteErr)
		s.logger.WarnContext(ctx, "Preference submission failed", "user_id", identity.UserID, "error", err)

		return nil, remoteErr
	}

	span.SetAttributes(attribute.String(otelhelper.PreferenceIDKey, record.ID))

	d.UserPreferenceID = record.ID
	s.complete(ctx, d, identity, record)

	return record, nil
}

func (s *Submitter) send(
	ctx context.Context,
	span trace.Span,
	identity *session.Identity,
	d models.Draft,
	payload models.PreferencePayload,
) (*models.RemoteRecord, error) {
	id := identity.UserPreferenceID
	if id == "" {
		id = d.UserPreferenceID
	}

	if id != "" {
		span.SetAttributes(attribute.String(otelhelper.SubmissionModeKey, "update"))

		return s.client.Update(ctx, identity.Token, id, payload)
	}

	span.SetAttributes(attribute.String(otelhelper.SubmissionModeKey, "create"))

	return s.client.Create(ctx, identity.Token, payload)
}

func (s *Submitter) complete(ctx context.Context, d models.Draft, identity *session.Identity, record *models.RemoteRecord) {
	preference := d.Clone()
	identity.UserPreferenceID = record.ID
	identity.Preference = &preference

	err := s.sessions.Save(ctx, identity)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to update session identity", "user_id", identity.UserID, "error", err)
	}

	err = s.store.Clear(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to clear submitted draft, keeping remote link", "user_id", identity.UserID, "error", err)

		err = s.store.Save(ctx, d)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to store remote link of submitted draft", "user_id", identity.UserID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "Preference submitted", "user_id", identity.UserID, "user_preference_id", record.ID)

	s.navigate(ctx, s.navigator.ExitToScreen(ctx, s.exitScreen))
}

func (s *Submitter) navigate(ctx context.Context, err error) {
	if err != nil {
		s.logger.WarnContext(ctx, "Navigation command not delivered", "error", err)
	}
}
