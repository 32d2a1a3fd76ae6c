// Package controller implements the survey state machine. It owns the
// in-memory draft of one flow, validates answers, persists every accepted
// transition and hands the completed draft to the submitter.
package controller

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/nutriflow/nutriflow/pkg/draft"
	"github.com/nutriflow/nutriflow/pkg/exclusion"
	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/nutriflow/nutriflow/pkg/navigation"
	"github.com/nutriflow/nutriflow/pkg/otelhelper"
	"github.com/nutriflow/nutriflow/pkg/session"
	"github.com/nutriflow/nutriflow/pkg/submission"
	"github.com/nutriflow/nutriflow/pkg/survey"
	"github.com/nutriflow/nutriflow/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PersistenceWarning is shown when an accepted answer could not be stored.
const PersistenceWarning = "Your answers could not be saved on this device. You can keep going, but they may be lost if the app closes."

// State is either a step id or one of the pseudo-states.
type State string

const (
	StateEntry    State = "entry"
	StateTerminal State = "terminal"
)

func stateOf(id survey.StepID) State {
	return State(id)
}

// Transition describes the outcome of one controller operation.
type Transition struct {
	From    State                `json:"from"`
	To      State                `json:"to"`
	Warning string               `json:"warning,omitempty"`
	Record  *models.RemoteRecord `json:"record,omitempty"`
}

// DraftStore is the durable store of one flow.
type DraftStore interface {
	Load(ctx context.Context) models.Draft
	Save(ctx context.Context, d models.Draft) error
	Clear(ctx context.Context) error
}

// Submitter performs the terminal submission.
type Submitter interface {
	Submit(ctx context.Context, d models.Draft, identity *session.Identity) (*models.RemoteRecord, error)
}

// Dependencies are the collaborators of a Controller.
type Dependencies struct {
	Registry  *survey.Registry
	Engine    *validation.Engine
	Store     DraftStore
	Submitter Submitter
	Navigator navigation.Navigator
	Logger    *slog.Logger
	Tracer    trace.Tracer
}

// Controller drives one flow for one identity. All operations are
// serialized; a save always completes before the next operation starts.
type Controller struct {
	mu sync.Mutex

	registry  *survey.Registry
	engine    *validation.Engine
	store     DraftStore
	submitter Submitter
	navigator navigation.Navigator
	logger    *slog.Logger
	tracer    trace.Tracer

	identity   *session.Identity
	state      State
	draft      models.Draft
	submitting bool
}

func New(deps Dependencies, identity *session.Identity) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = otelhelper.NoopTracer()
	}

	navigator := deps.Navigator
	if navigator == nil {
		navigator = navigation.Discard{}
	}

	if identity.Valid() {
		logger = logger.With("user_id", identity.UserID)
	}

	return &Controller{
		registry:  deps.Registry,
		engine:    deps.Engine,
		store:     deps.Store,
		submitter: deps.Submitter,
		navigator: navigation.Logged(navigator, logger),
		logger:    logger.With("module", "controller"),
		tracer:    tracer,
		identity:  identity,
		state:     StateEntry,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Current returns the current step, or false in a pseudo-state.
func (c *Controller) Current() (*survey.Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.registry.Step(survey.StepID(c.state))
}

// Draft returns a copy of the in-memory draft.
func (c *Controller) Draft() models.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.draft.Clone()
}

// Progress locates the current step on the path.
func (c *Controller) Progress() survey.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateTerminal {
		total := len(c.registry.Steps())

		return survey.Progress{Position: total, Total: total, Percent: 100}
	}

	return c.registry.Progress(survey.StepID(c.state))
}

// Enter loads the stored draft and resumes at the first unanswered step. A
// complete draft already linked to a remote record goes straight to terminal.
func (c *Controller) Enter(ctx context.Context) (Transition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "survey.enter")
	defer span.End()

	from := c.state

	if c.submitting {
		return Transition{From: from, To: from}, submission.ErrSubmissionInFlight
	}

	if !c.identity.Valid() {
		_ = c.navigator.ExitToSignIn(ctx)

		return Transition{From: from, To: from}, session.ErrIdentityMissing
	}

	c.draft = c.store.Load(ctx)

	if c.registry.Complete(&c.draft) && c.draft.UserPreferenceID != "" {
		c.state = StateTerminal
		c.logger.InfoContext(ctx, "Survey already completed", "user_preference_id", c.draft.UserPreferenceID)

		return Transition{From: from, To: c.state}, nil
	}

	step, ok := c.registry.FirstUnanswered(&c.draft)
	if !ok {
		// Every answer is present but the submission never succeeded.
		step = c.registry.Last()
	}

	c.state = stateOf(step.ID)
	_ = c.navigator.Advance(ctx, string(step.ID))

	c.logger.InfoContext(ctx, "Survey entered", "step", step.ID)

	return Transition{From: from, To: c.state}, nil
}

// Answer validates answer for the current step. A rejection leaves the draft
// and the store untouched. An accepted answer is merged, saved and the flow
// advances; on the last step the completed draft is submitted.
func (c *Controller) Answer(ctx context.Context, answer validation.Answer) (Transition, error) {
	c.mu.Lock()

	step, err := c.currentStep("answer")
	if err != nil {
		from := c.state
		c.mu.Unlock()

		return Transition{From: from, To: from}, err
	}

	return c.answerLocked(ctx, step, answer)
}

// Forward re-confirms the value already stored for the current step and
// advances, as when a user steps forward again after going back.
func (c *Controller) Forward(ctx context.Context) (Transition, error) {
	c.mu.Lock()

	step, err := c.currentStep("forward")
	if err != nil {
		from := c.state
		c.mu.Unlock()

		return Transition{From: from, To: from}, err
	}

	return c.answerLocked(ctx, step, Prefill(step, c.draft))
}

// answerLocked is entered with c.mu held and always releases it.
func (c *Controller) answerLocked(ctx context.Context, step *survey.Step, answer validation.Answer) (Transition, error) {
	from := c.state

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "survey.answer",
		attribute.String(otelhelper.StepIDKey, string(step.ID)))
	defer span.End()

	result := c.engine.Validate(step, answer, c.draft.Clone())
	if !result.IsAccepted() {
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "Answer rejected", "step", step.ID, "reason", result.Reason())

		return Transition{From: from, To: from}, result.Err(step.ID)
	}

	next := c.draft.Clone()
	step.Apply(&next, result.Value())
	c.draft = next

	t := Transition{From: from, To: from}
	t.Warning = c.save(ctx)

	nextID, hasNext := c.registry.Next(step.ID)
	if !hasNext {
		return c.submitLocked(ctx, t)
	}

	c.state = stateOf(nextID)
	t.To = c.state
	c.mu.Unlock()

	_ = c.navigator.Advance(ctx, string(nextID))

	return t, nil
}

// Prefill builds the answer a step shows for the values already in d.
func Prefill(step *survey.Step, d models.Draft) validation.Answer {
	v := d.Get(step.Field)
	answer := validation.Answer{Value: v.Text, Values: v.Choices}

	if step.Kind == survey.KindNumber && v.Number != 0 {
		answer.Value = strconv.FormatFloat(v.Number, 'f', -1, 64)
	}

	if step.SecondaryField != "" {
		answer.Other = d.Get(step.SecondaryField).Other
	}

	return answer
}

// Submit retries the terminal submission of a draft whose last step has
// already been answered.
func (c *Controller) Submit(ctx context.Context) (Transition, error) {
	c.mu.Lock()

	from := c.state

	step, err := c.currentStep("submit")
	if err != nil {
		c.mu.Unlock()

		return Transition{From: from, To: from}, err
	}

	last := c.registry.Last().ID
	if step.ID != last {
		c.mu.Unlock()

		return Transition{From: from, To: from}, &StepError{Op: "submit", Current: from, Want: last}
	}

	return c.submitLocked(ctx, Transition{From: from, To: from})
}

// submitLocked is entered with c.mu held and releases it while the remote
// call runs. Other mutations are refused until it returns.
func (c *Controller) submitLocked(ctx context.Context, t Transition) (Transition, error) {
	c.submitting = true
	snapshot := c.draft.Clone()
	identity := c.identity
	c.mu.Unlock()

	record, err := c.submitter.Submit(ctx, snapshot, identity)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.submitting = false

	if err != nil {
		c.logger.WarnContext(ctx, "Submission failed, draft kept for retry", "error", err)

		return t, err
	}

	c.draft.UserPreferenceID = record.ID
	c.state = StateTerminal
	t.To = c.state
	t.Record = record

	c.logger.InfoContext(ctx, "Survey completed", "user_preference_id", record.ID)

	return t, nil
}

// Back moves to the previous step without touching any value. On the first
// step it stays put.
func (c *Controller) Back(ctx context.Context) (Transition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "survey.back",
		attribute.String(otelhelper.StepIDKey, string(c.state)))
	defer span.End()

	t := Transition{From: c.state, To: c.state}

	_, err := c.currentStep("back")
	if err != nil {
		return t, err
	}

	prev, ok := c.registry.Previous(survey.StepID(c.state))
	if !ok {
		return t, nil
	}

	c.state = stateOf(prev)
	t.To = c.state

	_ = c.navigator.Advance(ctx, string(prev))

	return t, nil
}

// Toggle flips id in the set of kind. Only the step owning that set may be current.
func (c *Controller) Toggle(ctx context.Context, kind exclusion.Kind, id string) (Transition, error) {
	return c.resolve(ctx, "toggle", kind, func(d models.Draft) models.Draft {
		return exclusion.Toggle(kind, id, d)
	})
}

// SelectAll adds every candidate not claimed by the opposing set.
func (c *Controller) SelectAll(ctx context.Context, kind exclusion.Kind, candidates []string) (Transition, error) {
	return c.resolve(ctx, "select_all", kind, func(d models.Draft) models.Draft {
		return exclusion.SelectAll(kind, d, candidates)
	})
}

// DeselectAll removes every candidate from the set of kind.
func (c *Controller) DeselectAll(ctx context.Context, kind exclusion.Kind, candidates []string) (Transition, error) {
	return c.resolve(ctx, "deselect_all", kind, func(d models.Draft) models.Draft {
		return exclusion.DeselectAll(kind, d, candidates)
	})
}

func (c *Controller) resolve(ctx context.Context, op string, kind exclusion.Kind, apply func(models.Draft) models.Draft) (Transition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	step, err := c.currentStep(op)
	if err != nil {
		return Transition{From: c.state, To: c.state}, err
	}

	if step.Field != kind.Field() {
		owner, _ := c.registry.Owner(kind.Field())

		return Transition{From: c.state, To: c.state}, &StepError{Op: op, Current: c.state, Want: owner}
	}

	c.draft = apply(c.draft.Clone())

	t := Transition{From: c.state, To: c.state}
	t.Warning = c.save(ctx)

	return t, nil
}

// Reset discards the draft, clears the store and restarts at the first step.
func (c *Controller) Reset(ctx context.Context) (Transition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return Transition{From: c.state, To: c.state}, submission.ErrSubmissionInFlight
	}

	t := Transition{From: c.state}

	err := c.store.Clear(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to clear draft on reset", "error", err)
		t.Warning = PersistenceWarning
	}

	c.draft = models.Draft{}
	first := c.registry.First()
	c.state = stateOf(first.ID)
	t.To = c.state

	_ = c.navigator.Advance(ctx, string(first.ID))

	c.logger.InfoContext(ctx, "Survey reset")

	return t, nil
}

// currentStep returns the step a mutating operation applies to. c.mu must be held.
func (c *Controller) currentStep(op string) (*survey.Step, error) {
	switch c.state {
	case StateEntry:
		return nil, ErrNotEntered
	case StateTerminal:
		return nil, ErrFlowCompleted
	}

	if c.submitting {
		return nil, submission.ErrSubmissionInFlight
	}

	step, ok := c.registry.Step(survey.StepID(c.state))
	if !ok {
		return nil, &StepError{Op: op, Current: c.state}
	}

	return step, nil
}

// save persists the in-memory draft and returns a warning on failure. The
// in-memory draft stays authoritative either way.
func (c *Controller) save(ctx context.Context) string {
	err := c.store.Save(ctx, c.draft)
	if err == nil {
		return ""
	}

	if draft.IsPersistenceUnavailable(err) {
		c.logger.WarnContext(ctx, "Draft not persisted", "error", err)
	} else {
		c.logger.ErrorContext(ctx, "Unexpected draft save failure", "error", err)
	}

	return PersistenceWarning
}
