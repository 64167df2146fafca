package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/astralis-app/astralis/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Type-safe event constructors

// NewSessionStartedEvent announces an idle -> focusing transition.
func NewSessionStartedEvent(p domain.SessionStartedPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeSessionStarted),
		Payload: p,
	}
}

// NewSessionCompletedEvent announces a natural completion with its settled reward.
func NewSessionCompletedEvent(p domain.SessionCompletedPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeSessionCompleted),
		Payload: p,
	}
}

// NewSessionAbandonedEvent announces a confirmed quit or ended-early reconciliation.
func NewSessionAbandonedEvent(p domain.SessionAbandonedPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeSessionAbandoned),
		Payload: p,
	}
}

// NewTransitionEvent announces a UI-only state change (cooling down, resumed).
func NewTransitionEvent(t domain.EventType) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(t),
		Payload: map[string]interface{}{"at": time.Now().UTC()},
	}
}

// NewMilestoneAchievedEvent announces one newly achieved milestone.
func NewMilestoneAchievedEvent(p domain.MilestoneAchievedPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeMilestoneAchieved),
		Payload: p,
	}
}

// NewGachaPullCompletedEvent announces one resolved pull.
func NewGachaPullCompletedEvent(p domain.GachaPullCompletedPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeGachaPullCompleted),
		Payload: p,
	}
}

// NewStyleChangeEvent announces a purchase, unlock, or upgrade.
func NewStyleChangeEvent(t domain.EventType, p domain.StyleChangePayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(t),
		Payload: p,
	}
}

// NewUsageResetEvent announces a completed daily rollover sweep.
func NewUsageResetEvent(resetTime time.Time, recordsAffected int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeUsageResetComplete),
		Payload: domain.UsageResetPayloadV1{
			ResetTime:       resetTime,
			RecordsAffected: recordsAffected,
		},
	}
}

// NewScheduleToggleEvent announces a schedule being enabled or disabled.
func NewScheduleToggleEvent(t domain.EventType, scheduleID string, currentlyIn bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(t),
		Payload: domain.ScheduleTogglePayloadV1{
			ScheduleID:  scheduleID,
			CurrentlyIn: currentlyIn,
		},
	}
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
