package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nutriflow/nutriflow/pkg/controller"
	"github.com/nutriflow/nutriflow/pkg/draft"
	"github.com/nutriflow/nutriflow/pkg/eventbus"
	"github.com/nutriflow/nutriflow/pkg/exclusion"
	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/nutriflow/nutriflow/pkg/navigation"
	"github.com/nutriflow/nutriflow/pkg/persistence"
	"github.com/nutriflow/nutriflow/pkg/session"
	"github.com/nutriflow/nutriflow/pkg/submission"
	"github.com/nutriflow/nutriflow/pkg/survey"
	"github.com/nutriflow/nutriflow/pkg/validation"
	"go.opentelemetry.io/otel/trace"
)

// SurveyConfig holds the collaborators shared by every flow.
type SurveyConfig struct {
	Persistence persistence.Persistence
	Sessions    session.Store
	Client      submission.PreferenceClient
	Registry    *survey.Registry
	Engine      *validation.Engine
	// EventBus receives navigation events; nil keeps them in the flow only.
	EventBus eventbus.EventPublisher
	Tracer   trace.Tracer
	Logger   *slog.Logger
}

// Survey keeps one flow per signed-in user.
type Survey struct {
	cfg SurveyConfig

	mu    sync.Mutex
	flows map[string]*Flow
}

// NewSurvey creates a new survey service.
func NewSurvey(cfg SurveyConfig) *Survey {
	if cfg.Registry == nil {
		cfg.Registry = survey.Default()
	}

	if cfg.Engine == nil {
		cfg.Engine = validation.NewEngine(validation.Config{})
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Survey{
		cfg:   cfg,
		flows: make(map[string]*Flow),
	}
}

// Registry returns the step registry every flow walks.
func (s *Survey) Registry() *survey.Registry {
	return s.cfg.Registry
}

// HealthCheck checks the health of the persistence layer.
func (s *Survey) HealthCheck(ctx context.Context) (string, bool) {
	if s.cfg.Persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.cfg.Persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// Authenticate resolves a bearer token into an identity.
func (s *Survey) Authenticate(ctx context.Context, token string) (*session.Identity, error) {
	if token == "" {
		return nil, session.ErrIdentityMissing
	}

	return s.cfg.Sessions.Lookup(ctx, token)
}

// Flow returns the flow of identity, entering it on first use.
func (s *Survey) Flow(ctx context.Context, identity *session.Identity) (*Flow, error) {
	if !identity.Valid() {
		return nil, session.ErrIdentityMissing
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if flow, ok := s.flows[identity.UserID]; ok {
		return flow, nil
	}

	flow := s.newFlow(identity)

	_, err := flow.ctrl.Enter(ctx)
	if err != nil {
		return nil, err
	}

	s.flows[identity.UserID] = flow

	return flow, nil
}

// Forget drops the in-memory flow of userID. The stored draft is kept.
func (s *Survey) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.flows, userID)
}

func (s *Survey) newFlow(identity *session.Identity) *Flow {
	logger := s.cfg.Logger.With("user_id", identity.UserID)
	recorder := navigation.NewRecorder()

	var navigator navigation.Navigator = recorder
	if s.cfg.EventBus != nil {
		navigator = navigation.Fanout{recorder, navigation.NewPublisher(s.cfg.EventBus, identity.UserID)}
	}

	store := draft.NewStore(s.cfg.Persistence.DraftRepository(), draft.Key(identity.UserID), logger)

	var opts []submission.Option
	if s.cfg.Tracer != nil {
		opts = append(opts, submission.WithTracer(s.cfg.Tracer))
	}

	submitter := submission.NewSubmitter(s.cfg.Client, store, s.cfg.Sessions, s.cfg.Registry, navigator, logger, opts...)

	ctrl := controller.New(controller.Dependencies{
		Registry:  s.cfg.Registry,
		Engine:    s.cfg.Engine,
		Store:     store,
		Submitter: submitter,
		Navigator: navigator,
		Logger:    logger,
		Tracer:    s.cfg.Tracer,
	}, identity)

	return &Flow{ctrl: ctrl, recorder: recorder, registry: s.cfg.Registry}
}

// Flow is one user's survey with the navigation it produced.
type Flow struct {
	ctrl     *controller.Controller
	recorder *navigation.Recorder
	registry *survey.Registry
}

// View is the client-facing snapshot of a flow.
type View struct {
	State      controller.State     `json:"state"`
	Step       *survey.Step         `json:"step,omitempty"`
	Progress   survey.Progress      `json:"progress"`
	Draft      models.Draft         `json:"draft"`
	Warning    string               `json:"warning,omitempty"`
	Record     *models.RemoteRecord `json:"record,omitempty"`
	Navigation *navigation.Command  `json:"navigation,omitempty"`
}

// Controller exposes the underlying state machine.
func (f *Flow) Controller() *controller.Controller {
	return f.ctrl
}

// View snapshots the flow without running an operation.
func (f *Flow) View() View {
	return f.view(controller.Transition{}, len(f.recorder.Commands()))
}

// Enter re-runs flow entry, e.g. after the stored draft changed elsewhere.
func (f *Flow) Enter(ctx context.Context) (View, error) {
	return f.run(func() (controller.Transition, error) { return f.ctrl.Enter(ctx) })
}

func (f *Flow) Answer(ctx context.Context, answer validation.Answer) (View, error) {
	return f.run(func() (controller.Transition, error) { return f.ctrl.Answer(ctx, answer) })
}

func (f *Flow) Forward(ctx context.Context) (View, error) {
	return f.run(func() (controller.Transition, error) { return f.ctrl.Forward(ctx) })
}

func (f *Flow) Back(ctx context.Context) (View, error) {
	return f.run(func() (controller.Transition, error) { return f.ctrl.Back(ctx) })
}

func (f *Flow) Submit(ctx context.Context) (View, error) {
	return f.run(func() (controller.Transition, error) { return f.ctrl.Submit(ctx) })
}

func (f *Flow) Reset(ctx context.Context) (View, error) {
	return f.run(func() (controller.Transition, error) { return f.ctrl.Reset(ctx) })
}

// Ingredients applies a resolver operation to the ingredient set named kind.
func (f *Flow) Ingredients(ctx context.Context, kind, op string, ids []string) (View, error) {
	k, err := exclusion.ParseKind(kind)
	if err != nil {
		return f.View(), NewValidationError("ingredients", "unknown_kind", err.Error(), ErrUnknownIngredientKind)
	}

	switch op {
	case "toggle":
		if len(ids) != 1 {
			return f.View(), NewValidationError("ingredients", "invalid_ids", "toggle takes exactly one ingredient id", ErrInvalidRequest)
		}

		return f.run(func() (controller.Transition, error) { return f.ctrl.Toggle(ctx, k, ids[0]) })
	case "select-all":
		return f.run(func() (controller.Transition, error) { return f.ctrl.SelectAll(ctx, k, ids) })
	case "deselect-all":
		return f.run(func() (controller.Transition, error) { return f.ctrl.DeselectAll(ctx, k, ids) })
	default:
		return f.View(), NewValidationError("ingredients", "unknown_operation", "unknown operation "+op, ErrInvalidRequest)
	}
}

func (f *Flow) run(op func() (controller.Transition, error)) (View, error) {
	mark := len(f.recorder.Commands())

	t, err := op()

	return f.view(t, mark), err
}

func (f *Flow) view(t controller.Transition, mark int) View {
	v := View{
		State:    f.ctrl.State(),
		Progress: f.ctrl.Progress(),
		Draft:    f.ctrl.Draft(),
		Warning:  t.Warning,
		Record:   t.Record,
	}

	if step, ok := f.ctrl.Current(); ok {
		v.Step = step
	}

	if commands := f.recorder.Commands(); len(commands) > mark {
		last := commands[len(commands)-1]
		v.Navigation = &last
	}

	return v
}
