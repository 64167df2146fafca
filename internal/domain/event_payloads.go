package domain

import "time"

// Typed event payloads shared by the bus, the SSE stream, and the metrics
// collector. Versioned structs rather than maps so consumers stay type safe.

// SessionStartedPayloadV1 is published on idle -> focusing.
type SessionStartedPayloadV1 struct {
	DurationMinutes int       `json:"duration_minutes"`
	AnteAmount      int       `json:"ante_amount"`
	AppCount        int       `json:"app_count"`
	CategoryCount   int       `json:"category_count"`
	StartedAt       time.Time `json:"started_at"`
}

// SessionCompletedPayloadV1 is published on natural completion.
type SessionCompletedPayloadV1 struct {
	DurationMinutes int  `json:"duration_minutes"`
	Reward          int  `json:"reward"`
	AnteReturned    int  `json:"ante_returned"`
	Doubled         bool `json:"doubled"`
	CurrentStreak   int  `json:"current_streak"`
}

// SessionAbandonedPayloadV1 is published on a confirmed quit or an
// ended-early reconciliation.
type SessionAbandonedPayloadV1 struct {
	ElapsedMinutes int    `json:"elapsed_minutes"`
	AnteBurned     int    `json:"ante_burned"`
	Cause          string `json:"cause"` // "confirmed_quit" or "ended_early"
}

// MilestoneAchievedPayloadV1 is published once per newly achieved milestone.
type MilestoneAchievedPayloadV1 struct {
	MilestoneID MilestoneID `json:"milestone_id"`
	Title       string      `json:"title"`
	Bonus       int         `json:"bonus"`
}

// GachaPullCompletedPayloadV1 is published once per pull, including each pull
// of a ten-pull.
type GachaPullCompletedPayloadV1 struct {
	StyleID       StyleID `json:"style_id"`
	Rarity        Rarity  `json:"rarity"`
	ShardsAwarded int     `json:"shards_awarded"`
	WasGuaranteed bool    `json:"was_guaranteed"`
	TotalPulls    int     `json:"total_pulls"`
}

// StyleChangePayloadV1 covers purchase, unlock, and upgrade events.
type StyleChangePayloadV1 struct {
	StyleID   StyleID `json:"style_id"`
	Rarity    Rarity  `json:"rarity"`
	StarLevel int     `json:"star_level,omitempty"`
	Cost      int     `json:"cost,omitempty"`
}

// UsageResetPayloadV1 is published after the midnight rollover sweep.
type UsageResetPayloadV1 struct {
	ResetTime       time.Time `json:"reset_time"`
	RecordsAffected int       `json:"records_affected"`
}

// ScheduleTogglePayloadV1 is published when a schedule is enabled or disabled.
type ScheduleTogglePayloadV1 struct {
	ScheduleID  string `json:"schedule_id"`
	CurrentlyIn bool   `json:"currently_in_window"`
}
