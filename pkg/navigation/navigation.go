// Package navigation turns survey flow decisions into commands for the host
// router. The flow never routes by itself; it only emits these commands.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// ScreenHome is where a completed flow exits to.
const ScreenHome = "home"

// Action names a navigation command.
type Action string

const (
	ActionAdvance Action = "advance"
	ActionExit    Action = "exit"
	ActionSignIn  Action = "sign_in"
)

// Command is one opaque instruction for the host router.
type Command struct {
	Action Action `json:"action"`
	Step   string `json:"step,omitempty"`
	Screen string `json:"screen,omitempty"`
}

func (c Command) String() string {
	switch c.Action {
	case ActionAdvance:
		return "advance to step " + c.Step
	case ActionExit:
		return "exit flow to " + c.Screen
	case ActionSignIn:
		return "exit flow to sign-in"
	default:
		return string(c.Action)
	}
}

// Navigator receives the flow's navigation commands.
type Navigator interface {
	Advance(ctx context.Context, step string) error
	ExitToScreen(ctx context.Context, screen string) error
	ExitToSignIn(ctx context.Context) error
}

// Recorder keeps every command it receives.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Advance(_ context.Context, step string) error {
	r.record(Command{Action: ActionAdvance, Step: step})

	return nil
}

func (r *Recorder) ExitToScreen(_ context.Context, screen string) error {
	r.record(Command{Action: ActionExit, Screen: screen})

	return nil
}

func (r *Recorder) ExitToSignIn(_ context.Context) error {
	r.record(Command{Action: ActionSignIn})

	return nil
}

func (r *Recorder) record(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, c)
}

// Commands returns a copy of everything recorded so far.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Command, len(r.commands))
	copy(out, r.commands)

	return out
}

// Last returns the most recent command, if any.
func (r *Recorder) Last() (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.commands) == 0 {
		return Command{}, false
	}

	return r.commands[len(r.commands)-1], true
}

// Console prints commands for the terminal runner.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Advance(_ context.Context, step string) error {
	return c.print(Command{Action: ActionAdvance, Step: step})
}

func (c *Console) ExitToScreen(_ context.Context, screen string) error {
	return c.print(Command{Action: ActionExit, Screen: screen})
}

func (c *Console) ExitToSignIn(_ context.Context) error {
	return c.print(Command{Action: ActionSignIn})
}

func (c *Console) print(cmd Command) error {
	_, err := fmt.Fprintf(c.out, "-> %s\n", cmd)

	return err
}

// Fanout forwards each command to all navigators, joining their errors.
type Fanout []Navigator

func (f Fanout) Advance(ctx context.Context, step string) error {
	var errs []error

	for _, n := range f {
		errs = append(errs, n.Advance(ctx, step))
	}

	return errors.Join(errs...)
}

func (f Fanout) ExitToScreen(ctx context.Context, screen string) error {
	var errs []error

	for _, n := range f {
		errs = append(errs, n.ExitToScreen(ctx, screen))
	}

	return errors.Join(errs...)
}

func (f Fanout) ExitToSignIn(ctx context.Context) error {
	var errs []error

	for _, n := range f {
		errs = append(errs, n.ExitToSignIn(ctx))
	}

	return errors.Join(errs...)
}

// Discard drops every command.
type Discard struct{}

func (Discard) Advance(context.Context, string) error      { return nil }
func (Discard) ExitToScreen(context.Context, string) error { return nil }
func (Discard) ExitToSignIn(context.Context) error         { return nil }

// Logged wraps a navigator and logs failures instead of returning them.
// Navigation is a notification; a failed delivery never undoes a transition.
func Logged(next Navigator, logger *slog.Logger) Navigator {
	return &logged{next: next, logger: logger}
}

type logged struct {
	next   Navigator
	logger *slog.Logger
}

func (l *logged) Advance(ctx context.Context, step string) error {
	l.check(ctx, "advance", l.next.Advance(ctx, step))

	return nil
}

func (l *logged) ExitToScreen(ctx context.Context, screen string) error {
	l.check(ctx, "exit", l.next.ExitToScreen(ctx, screen))

	return nil
}

func (l *logged) ExitToSignIn(ctx context.Context) error {
	l.check(ctx, "sign_in", l.next.ExitToSignIn(ctx))

	return nil
}

func (l *logged) check(ctx context.Context, action string, err error) {
	if err != nil {
		l.logger.WarnContext(ctx, "Navigation command not delivered", "action", action, "error", err)
	}
}
