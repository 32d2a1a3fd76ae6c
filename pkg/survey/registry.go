package survey

import (
	"errors"
	"fmt"

	"github.com/nutriflow/nutriflow/pkg/models"
)

var (
	// ErrEmptyRegistry is returned when a registry is built without steps.
	ErrEmptyRegistry = errors.New("registry must define at least one step")

	// ErrDuplicateStep is returned when two steps share an identifier.
	ErrDuplicateStep = errors.New("duplicate step id")

	// ErrSharedField is returned when a draft field is owned by more than one step.
	ErrSharedField = errors.New("field owned by more than one step")
)

// Registry is the ordered path of questionnaire steps.
type Registry struct {
	steps  []*Step
	index  map[StepID]int
	owners map[models.Field]StepID
}

// NewRegistry builds a registry over steps in the given order.
func NewRegistry(steps []*Step) (*Registry, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		steps:  steps,
		index:  make(map[StepID]int, len(steps)),
		owners: make(map[models.Field]StepID),
	}

	for i, step := range steps {
		if _, exists := r.index[step.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStep, step.ID)
		}

		r.index[step.ID] = i

		for _, field := range step.Fields() {
			if owner, taken := r.owners[field]; taken {
				return nil, fmt.Errorf("%w: %s is owned by %s and %s", ErrSharedField, field, owner, step.ID)
			}

			r.owners[field] = step.ID
		}
	}

	return r, nil
}

// Default returns the registry of the canonical questionnaire.
func Default() *Registry {
	r, err := NewRegistry(DefaultSteps())
	if err != nil {
		panic(fmt.Errorf("invalid default survey: %w", err))
	}

	return r
}

// Steps returns the step definitions in path order.
func (r *Registry) Steps() []*Step {
	return r.steps
}

// First returns the first step of the path.
func (r *Registry) First() *Step {
	return r.steps[0]
}

// Last returns the terminal step of the path.
func (r *Registry) Last() *Step {
	return r.steps[len(r.steps)-1]
}

// Step looks up a step by identifier.
func (r *Registry) Step(id StepID) (*Step, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}

	return r.steps[i], true
}

// Next returns the step following id, or false when id is the last step.
func (r *Registry) Next(id StepID) (StepID, bool) {
	i, ok := r.index[id]
	if !ok || i+1 >= len(r.steps) {
		return "", false
	}

	return r.steps[i+1].ID, true
}

// Previous returns the step preceding id, or false at the first step.
func (r *Registry) Previous(id StepID) (StepID, bool) {
	i, ok := r.index[id]
	if !ok || i == 0 {
		return "", false
	}

	return r.steps[i-1].ID, true
}

// IsLast reports whether id is the terminal step.
func (r *Registry) IsLast(id StepID) bool {
	return r.Last().ID == id
}

// Owner returns the step that owns field.
func (r *Registry) Owner(field models.Field) (StepID, bool) {
	id, ok := r.owners[field]

	return id, ok
}

// FirstUnanswered returns the first step whose primary field is empty in
// draft, or false when every step has been answered.
func (r *Registry) FirstUnanswered(draft *models.Draft) (*Step, bool) {
	for _, step := range r.steps {
		if !step.Answered(draft) {
			return step, true
		}
	}

	return nil, false
}

// Complete reports whether every step has been answered.
func (r *Registry) Complete(draft *models.Draft) bool {
	_, pending := r.FirstUnanswered(draft)

	return !pending
}

// Progress locates a step along the path.
type Progress struct {
	Position int `json:"position"`
	Total    int `json:"total"`
	Percent  int `json:"percent"`
}

// Progress returns the 1-based position of id on the path. Unknown steps
// report position zero.
func (r *Registry) Progress(id StepID) Progress {
	total := len(r.steps)

	i, ok := r.index[id]
	if !ok {
		return Progress{Total: total}
	}

	return Progress{
		Position: i + 1,
		Total:    total,
		Percent:  (i + 1) * 100 / total,
	}
}
