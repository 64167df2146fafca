package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppLimit caps daily usage of a selection. The OS extension increments the
// matching UsageRecord during the day; this core only configures and reads.
type AppLimit struct {
	ID                uuid.UUID      `json:"id"`
	Name              string         `json:"name"`
	Selection         FocusSelection `json:"selection"`
	Enabled           bool           `json:"enabled"`
	DailyLimitMinutes int            `json:"daily_limit_minutes"`
	// ResetHour is the local hour (0-23) at which the daily budget renews.
	ResetHour int `json:"reset_hour"`
}

// TimeSchedule blocks a selection inside a recurring time window. A window
// whose end is earlier than its start wraps past midnight and belongs to its
// start day: 21:00-07:00 on Monday covers Mon 23:00 and Tue 05:00.
type TimeSchedule struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Selection   FocusSelection `json:"selection"`
	Enabled     bool           `json:"enabled"`
	StartHour   int            `json:"start_hour"`
	StartMinute int            `json:"start_minute"`
	EndHour     int            `json:"end_hour"`
	EndMinute   int            `json:"end_minute"`
	ActiveDays  []time.Weekday `json:"active_days"`
}

// IsOvernight reports whether the window wraps past midnight.
func (s TimeSchedule) IsOvernight() bool {
	return s.endMinutes() < s.startMinutes()
}

func (s TimeSchedule) startMinutes() int { return s.StartHour*60 + s.StartMinute }
func (s TimeSchedule) endMinutes() int   { return s.EndHour*60 + s.EndMinute }

func (s TimeSchedule) activeOn(day time.Weekday) bool {
	for _, d := range s.ActiveDays {
		if d == day {
			return true
		}
	}
	return false
}

// Contains reports whether t falls inside the window, independent of Enabled.
// The OS only fires boundary events, so this is re-derived whenever a
// schedule is enabled to decide "am I currently inside this window".
func (s TimeSchedule) Contains(t time.Time) bool {
	mins := t.Hour()*60 + t.Minute()
	start, end := s.startMinutes(), s.endMinutes()

	if !s.IsOvernight() {
		return s.activeOn(t.Weekday()) && mins >= start && mins < end
	}

	// Overnight: the tail before end belongs to the previous day's window.
	if mins >= start {
		return s.activeOn(t.Weekday())
	}
	if mins < end {
		return s.activeOn(t.AddDate(0, 0, -1).Weekday())
	}
	return false
}

// UsageRecord tracks minutes consumed against one limit today. UsedMinutes is
// externally writable: the extension increments it while the app is
// backgrounded, so readers reload rather than cache.
type UsageRecord struct {
	LimitID       uuid.UUID `json:"limit_id"`
	UsedMinutes   int       `json:"used_minutes"`
	LastResetDate time.Time `json:"last_reset_date"`
}

// RolloverIfNeeded zeroes the record when the local day (shifted by resetHour)
// has advanced past LastResetDate. Returns true when a reset happened.
// Checked lazily on every read since the extension never resets.
func (r *UsageRecord) RolloverIfNeeded(now time.Time, resetHour int) bool {
	shift := time.Duration(resetHour) * time.Hour
	if r.LastResetDate.IsZero() {
		r.LastResetDate = now
		return false
	}
	if SameCalendarDay(r.LastResetDate.Add(-shift), now.Add(-shift)) {
		return false
	}
	r.UsedMinutes = 0
	r.LastResetDate = now
	return true
}

// Progress returns usedMinutes/limitMinutes, unclamped above 1.0 so callers
// can detect "exceeded".
func (r UsageRecord) Progress(limitMinutes int) float64 {
	if limitMinutes <= 0 {
		return 0
	}
	return float64(r.UsedMinutes) / float64(limitMinutes)
}
