package navigation

import (
	"context"

	"github.com/nutriflow/nutriflow/pkg/eventbus"
	"github.com/nutriflow/nutriflow/pkg/events"
)

// Publisher emits navigation commands as events keyed by user id.
type Publisher struct {
	bus    eventbus.EventPublisher
	userID string
}

func NewPublisher(bus eventbus.EventPublisher, userID string) *Publisher {
	return &Publisher{bus: bus, userID: userID}
}

func (p *Publisher) Advance(ctx context.Context, step string) error {
	return p.bus.Publish(ctx, p.userID, events.StepAdvanced{
		BaseEvent: events.NewBaseEvent(events.StepAdvancedEvent, p.userID),
		StepID:    step,
	})
}

func (p *Publisher) ExitToScreen(ctx context.Context, screen string) error {
	return p.bus.Publish(ctx, p.userID, events.FlowExited{
		BaseEvent: events.NewBaseEvent(events.FlowExitedEvent, p.userID),
		Screen:    screen,
	})
}

func (p *Publisher) ExitToSignIn(ctx context.Context) error {
	return p.bus.Publish(ctx, p.userID, events.SignInRequired{
		BaseEvent: events.NewBaseEvent(events.SignInRequiredEvent, p.userID),
	})
}
