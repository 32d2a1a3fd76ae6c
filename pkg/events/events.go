// Package events defines the survey flow notifications published on the event bus.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every survey flow event.
const Topic = "nutriflow.survey.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	StepAdvancedEvent   EventType = "survey.step.advanced"
	FlowExitedEvent     EventType = "survey.flow.exited"
	SignInRequiredEvent EventType = "survey.signin.required"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"user_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, userID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Metadata:  make(map[string]any),
	}
}

// StepAdvanced asks the host router to show a survey step.
type StepAdvanced struct {
	BaseEvent

	StepID string `json:"step_id"`
}

func (e StepAdvanced) GetType() EventType {
	return StepAdvancedEvent
}

// FlowExited asks the host router to leave the survey for another screen.
// It is emitted once a submission succeeds.
type FlowExited struct {
	BaseEvent

	Screen string `json:"screen"`
}

func (e FlowExited) GetType() EventType {
	return FlowExitedEvent
}

// SignInRequired asks the host router to show the sign-in screen.
type SignInRequired struct {
	BaseEvent
}

func (e SignInRequired) GetType() EventType {
	return SignInRequiredEvent
}
