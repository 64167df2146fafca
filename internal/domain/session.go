package domain

import "time"

// SessionState is the focus session machine state.
type SessionState string

const (
	SessionStateIdle        SessionState = "idle"
	SessionStateFocusing    SessionState = "focusing"
	SessionStateCoolingDown SessionState = "cooling_down"
)

// FocusSelection is the set of apps and categories shielded during a session
// or schedule window. The OS tokens are opaque strings to this core.
type FocusSelection struct {
	AppIDs      []string `json:"app_ids"`
	CategoryIDs []string `json:"category_ids"`
}

// IsEmpty reports whether nothing is selected.
func (s FocusSelection) IsEmpty() bool {
	return len(s.AppIDs) == 0 && len(s.CategoryIDs) == 0
}

// SessionSnapshot is the persisted session aggregate shared with the OS
// extension. Active and EndedEarly are externally writable: the extension may
// flip them while the app is backgrounded, so they must be reloaded on
// foreground rather than trusted from cache.
type SessionSnapshot struct {
	Active          bool           `json:"active"`
	StartedAt       time.Time      `json:"started_at"`
	DurationMinutes int            `json:"duration_minutes"`
	Selection       FocusSelection `json:"selection"`
	AnteAmount      int            `json:"ante_amount"`
	// EndedEarly is set by the extension when the user tears down the shield
	// from the OS surface directly, bypassing the app.
	EndedEarly bool `json:"ended_early"`
}

// Remaining computes the countdown from wall clock, never below zero.
// The stored start time plus duration is the source of truth; live timers
// are advisory.
func (s SessionSnapshot) Remaining(now time.Time) time.Duration {
	if !s.Active {
		return 0
	}
	end := s.StartedAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
	remaining := end.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the countdown has reached zero.
func (s SessionSnapshot) Expired(now time.Time) bool {
	return s.Active && s.Remaining(now) == 0
}
