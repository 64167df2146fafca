package metrics

import (
	"context"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/event"
	"github.com/astralis-app/astralis/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []domain.EventType{
		domain.EventTypeSessionStarted,
		domain.EventTypeSessionCompleted,
		domain.EventTypeSessionAbandoned,
		domain.EventTypeMilestoneAchieved,
		domain.EventTypeGachaPullCompleted,
		domain.EventTypeStylePurchased,
		domain.EventTypeStyleUnlocked,
		domain.EventTypeStyleUpgraded,
		domain.EventTypeUsageResetComplete,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(event.Type(eventType), e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch domain.EventType(evt.Type) {
	case domain.EventTypeSessionCompleted:
		payload, ok := evt.Payload.(domain.SessionCompletedPayloadV1)
		if !ok {
			log.Debug(LogMsgPayloadUnexpected, "type", evt.Type)
			return nil
		}
		SessionsCompleted.Inc()
		FocusMinutes.Add(float64(payload.DurationMinutes))
		StardustEarned.Add(float64(payload.Reward))

	case domain.EventTypeSessionAbandoned:
		payload, ok := evt.Payload.(domain.SessionAbandonedPayloadV1)
		if !ok {
			log.Debug(LogMsgPayloadUnexpected, "type", evt.Type)
			return nil
		}
		SessionsAbandoned.WithLabelValues(payload.Cause).Inc()
		AnteBurned.Add(float64(payload.AnteBurned))

	case domain.EventTypeMilestoneAchieved:
		MilestonesAchieved.Inc()

	case domain.EventTypeGachaPullCompleted:
		payload, ok := evt.Payload.(domain.GachaPullCompletedPayloadV1)
		if !ok {
			log.Debug(LogMsgPayloadUnexpected, "type", evt.Type)
			return nil
		}
		GachaPulls.WithLabelValues(string(payload.Rarity)).Inc()

	case domain.EventTypeStylePurchased:
		StyleChanges.WithLabelValues("purchased").Inc()
	case domain.EventTypeStyleUnlocked:
		StyleChanges.WithLabelValues("unlocked").Inc()
	case domain.EventTypeStyleUpgraded:
		StyleChanges.WithLabelValues("upgraded").Inc()

	case domain.EventTypeUsageResetComplete:
		payload, ok := evt.Payload.(domain.UsageResetPayloadV1)
		if !ok {
			log.Debug(LogMsgPayloadUnexpected, "type", evt.Type)
			return nil
		}
		UsageResets.Add(float64(payload.RecordsAffected))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
