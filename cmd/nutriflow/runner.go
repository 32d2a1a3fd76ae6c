package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nutriflow/nutriflow/pkg/controller"
	"github.com/nutriflow/nutriflow/pkg/exclusion"
	"github.com/nutriflow/nutriflow/pkg/submission"
	"github.com/nutriflow/nutriflow/pkg/survey"
	"github.com/nutriflow/nutriflow/pkg/validation"
)

var errQuit = errors.New("quit")

// Runner walks a survey flow on a line based terminal. Plain lines answer the
// current step; lines starting with ':' are commands.
type Runner struct {
	ctrl *controller.Controller
	in   *bufio.Scanner
	out  io.Writer
}

func NewRunner(ctrl *controller.Controller, in io.Reader, out io.Writer) *Runner {
	return &Runner{ctrl: ctrl, in: bufio.NewScanner(in), out: out}
}

// Run enters the flow and reads answers until the survey completes, the
// input ends or the user quits. Answers are saved as they are accepted, so
// stopping early loses nothing.
func (r *Runner) Run(ctx context.Context) error {
	t, err := r.ctrl.Enter(ctx)
	if err != nil {
		return err
	}

	r.warn(t)

	for r.ctrl.State() != controller.StateTerminal {
		step, ok := r.ctrl.Current()
		if !ok {
			return fmt.Errorf("no current step in state %s", r.ctrl.State())
		}

		r.prompt(step)

		if !r.in.Scan() {
			r.printf("Progress saved. Run again to continue.\n")

			return r.in.Err()
		}

		t, err = r.dispatch(ctx, step, strings.TrimSpace(r.in.Text()))
		if errors.Is(err, errQuit) {
			r.printf("Progress saved. Run again to continue.\n")

			return nil
		}

		if err != nil {
			r.fail(err)

			continue
		}

		r.warn(t)
	}

	if t.Record != nil {
		r.printf("Survey complete. Preference %s saved.\n", t.Record.ID)
	} else {
		r.printf("Survey already complete.\n")
	}

	return nil
}

func (r *Runner) dispatch(ctx context.Context, step *survey.Step, line string) (controller.Transition, error) {
	rest, isCommand := strings.CutPrefix(line, ":")
	if !isCommand {
		return r.ctrl.Answer(ctx, parseAnswer(step, line))
	}

	command, arg, _ := strings.Cut(rest, " ")

	switch command {
	case "back", "b":
		return r.ctrl.Back(ctx)
	case "forward", "f":
		return r.ctrl.Forward(ctx)
	case "submit":
		return r.ctrl.Submit(ctx)
	case "reset":
		return r.ctrl.Reset(ctx)
	case "quit", "q":
		return controller.Transition{}, errQuit
	case "toggle", "all", "none":
		kind, ok := ingredientKind(step)
		if !ok {
			return controller.Transition{}, fmt.Errorf("%s works on ingredient steps only", command)
		}

		ids := splitValues(arg)

		switch command {
		case "toggle":
			if len(ids) != 1 {
				return controller.Transition{}, errors.New("toggle takes exactly one ingredient id")
			}

			return r.ctrl.Toggle(ctx, kind, ids[0])
		case "all":
			return r.ctrl.SelectAll(ctx, kind, ids)
		default:
			return r.ctrl.DeselectAll(ctx, kind, ids)
		}
	default:
		return controller.Transition{}, fmt.Errorf("unknown command :%s", command)
	}
}

func (r *Runner) prompt(step *survey.Step) {
	progress := r.ctrl.Progress()

	r.printf("\n[%d/%d %d%%] %s\n%s\n", progress.Position, progress.Total, progress.Percent, step.Title, step.Prompt)

	for _, option := range step.Options {
		r.printf("  - %s (%s)\n", option.Value, option.Label)
	}

	current := controller.Prefill(step, r.ctrl.Draft())

	switch {
	case len(current.Values) > 0:
		r.printf("current: %s\n", strings.Join(current.Values, ", "))
	case current.Value != "":
		r.printf("current: %s\n", current.Value)
	}

	r.printf("> ")
}

func (r *Runner) warn(t controller.Transition) {
	if t.Warning != "" {
		r.printf("warning: %s\n", t.Warning)
	}
}

func (r *Runner) fail(err error) {
	var (
		rejected     *validation.RejectedError
		precondition *submission.PreconditionError
	)

	switch {
	case errors.As(err, &rejected):
		r.printf("! %s\n", rejected.Reason)
	case errors.As(err, &precondition):
		r.printf("! %s\n", precondition.Error())
	case submission.IsRemoteSubmissionFailed(err):
		r.printf("! Could not reach the preference service. Type :submit to retry.\n")
	default:
		r.printf("! %v\n", err)
	}
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// parseAnswer reads a line as the answer shape of step. Multi value steps
// take comma separated values; "other: text" picks the other option with
// its free text.
func parseAnswer(step *survey.Step, line string) validation.Answer {
	switch step.Kind {
	case survey.KindMultiChoice, survey.KindIngredientSet:
		return validation.Answer{Values: splitValues(line)}
	case survey.KindChoice:
		if rest, ok := strings.CutPrefix(line, survey.OtherOption+":"); ok && step.SecondaryField != "" {
			return validation.Answer{Value: survey.OtherOption, Other: strings.TrimSpace(rest)}
		}
	}

	return validation.Answer{Value: line}
}

func splitValues(line string) []string {
	var values []string

	for value := range strings.SplitSeq(line, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}

	return values
}

func ingredientKind(step *survey.Step) (exclusion.Kind, bool) {
	switch step.ID {
	case survey.StepFavoriteIngredients:
		return exclusion.Favorite, true
	case survey.StepHatedIngredients:
		return exclusion.Hated, true
	default:
		return "", false
	}
}
