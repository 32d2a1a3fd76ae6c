package survey

import (
	"testing"

	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_PathIsWellFormed(t *testing.T) {
	r := Default()

	assert.Equal(t, StepName, r.First().ID)
	assert.Equal(t, StepConsent, r.Last().ID)
	assert.Len(t, r.Steps(), 22)

	// Walking forward visits every step exactly once.
	visited := map[StepID]bool{r.First().ID: true}
	id := r.First().ID

	for {
		next, ok := r.Next(id)
		if !ok {
			break
		}

		require.False(t, visited[next], "cycle at %s", next)
		visited[next] = true
		id = next
	}

	assert.Len(t, visited, len(r.Steps()))
	assert.Equal(t, r.Last().ID, id)
}

func TestRegistry_NextPrevious(t *testing.T) {
	r := Default()

	prev, ok := r.Previous(StepName)
	assert.False(t, ok)
	assert.Empty(t, prev)

	next, ok := r.Next(StepWeight)
	require.True(t, ok)
	assert.Equal(t, StepGoalWeight, next)

	prev, ok = r.Previous(StepGoalWeight)
	require.True(t, ok)
	assert.Equal(t, StepWeight, prev)

	_, ok = r.Next(StepConsent)
	assert.False(t, ok)

	_, ok = r.Next("unknown")
	assert.False(t, ok)
}

func TestRegistry_Owner(t *testing.T) {
	r := Default()

	owner, ok := r.Owner(models.FieldGoalOther)
	require.True(t, ok)
	assert.Equal(t, StepGoal, owner)

	owner, ok = r.Owner(models.FieldHatedIngredientIDs)
	require.True(t, ok)
	assert.Equal(t, StepHatedIngredients, owner)

	// Every answerable field has exactly one owner.
	for _, field := range models.AllFields() {
		_, ok := r.Owner(field)
		assert.True(t, ok, "field %s has no owner", field)
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry(nil)
	require.ErrorIs(t, err, ErrEmptyRegistry)

	_, err = NewRegistry([]*Step{
		{ID: "a", Field: models.FieldAge},
		{ID: "a", Field: models.FieldEmail},
	})
	require.ErrorIs(t, err, ErrDuplicateStep)

	_, err = NewRegistry([]*Step{
		{ID: "a", Field: models.FieldGoal},
		{ID: "b", Field: models.FieldAge, SecondaryField: models.FieldGoal},
	})
	require.ErrorIs(t, err, ErrSharedField)
}

func TestRegistry_FirstUnanswered(t *testing.T) {
	r := Default()

	draft := models.Draft{FullName: "Ada Lovelace", Email: "ada@gmail.com", Gender: "female"}

	step, ok := r.FirstUnanswered(&draft)
	require.True(t, ok)
	assert.Equal(t, StepAge, step.ID)
	assert.False(t, r.Complete(&draft))
}

func TestRegistry_Progress(t *testing.T) {
	r := Default()

	p := r.Progress(StepName)
	assert.Equal(t, Progress{Position: 1, Total: 22, Percent: 4}, p)

	p = r.Progress(StepConsent)
	assert.Equal(t, Progress{Position: 22, Total: 22, Percent: 100}, p)

	p = r.Progress("missing")
	assert.Equal(t, 0, p.Position)
}

func TestStep_ApplyClearsOtherWhenNotSelected(t *testing.T) {
	step, ok := Default().Step(StepGoal)
	require.True(t, ok)

	var d models.Draft

	step.Apply(&d, models.Value{Text: OtherOption, Other: "run a marathon"})
	assert.Equal(t, "other", d.Goal)
	assert.Equal(t, "run a marathon", d.GoalOther)

	step.Apply(&d, models.Value{Text: "maintain", Other: "ignored"})
	assert.Equal(t, "maintain", d.Goal)
	assert.Empty(t, d.GoalOther)
}

func TestStep_Multiplier(t *testing.T) {
	step, ok := Default().Step(StepActivityLevel)
	require.True(t, ok)

	m, ok := step.Multiplier("moderate")
	require.True(t, ok)
	assert.InDelta(t, 1.55, m, 0.0001)

	_, ok = step.Multiplier("couch")
	assert.False(t, ok)
}

func TestStep_MultipliersAreNotShared(t *testing.T) {
	step, ok := Default().Step(StepActivityLevel)
	require.True(t, ok)

	step.Multipliers["moderate"] = 9
	delete(step.Multipliers, "light")

	fresh, ok := Default().Step(StepActivityLevel)
	require.True(t, ok)

	m, ok := fresh.Multiplier("moderate")
	require.True(t, ok)
	assert.InDelta(t, 1.55, m, 0.0001)

	_, ok = fresh.Multiplier("light")
	assert.True(t, ok)
}
