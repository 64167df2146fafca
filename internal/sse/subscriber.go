package sse

import (
	"context"
	"log/slog"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub. Every bus event
// the UI cares about is re-broadcast verbatim with its typed payload.
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// forwardedEventTypes is everything the UI stream carries.
var forwardedEventTypes = []domain.EventType{
	domain.EventTypeSessionStarted,
	domain.EventTypeSessionCoolingDown,
	domain.EventTypeSessionResumed,
	domain.EventTypeSessionCompleted,
	domain.EventTypeSessionAbandoned,
	domain.EventTypeMilestoneAchieved,
	domain.EventTypeGachaPullCompleted,
	domain.EventTypeStylePurchased,
	domain.EventTypeStyleUnlocked,
	domain.EventTypeStyleUpgraded,
	domain.EventTypeScheduleEnabled,
	domain.EventTypeScheduleDisabled,
	domain.EventTypeUsageResetComplete,
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	for _, t := range forwardedEventTypes {
		s.bus.Subscribe(event.Type(t), s.handleEvent)
	}

	slog.Info("SSE subscriber registered", "event_types", len(forwardedEventTypes))
}

// handleEvent re-broadcasts a bus event to connected clients.
func (s *Subscriber) handleEvent(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.Payload)

	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "clients", s.hub.ClientCount())
	return nil
}
