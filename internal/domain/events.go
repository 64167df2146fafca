package domain

// EventType identifies an event published on the internal bus. The UI layer
// subscribes to these through the SSE stream instead of observing properties.
type EventType string

const (
	EventTypeSessionStarted     EventType = "session.started"
	EventTypeSessionCoolingDown EventType = "session.cooling_down"
	EventTypeSessionResumed     EventType = "session.resumed"
	EventTypeSessionCompleted   EventType = "session.completed"
	EventTypeSessionAbandoned   EventType = "session.abandoned"

	EventTypeRewardGranted     EventType = "reward.granted"
	EventTypeMilestoneAchieved EventType = "milestone.achieved"
	EventTypeStylePurchased    EventType = "style.purchased"
	EventTypeStyleUnlocked     EventType = "style.unlocked"
	EventTypeStyleUpgraded     EventType = "style.upgraded"

	EventTypeGachaPullCompleted EventType = "gacha.pull.completed"

	EventTypeScheduleEnabled    EventType = "schedule.enabled"
	EventTypeScheduleDisabled   EventType = "schedule.disabled"
	EventTypeUsageResetComplete EventType = "usage.reset.completed"
)
