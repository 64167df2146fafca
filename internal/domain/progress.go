package domain

import "time"

// MilestoneID identifies one entry in the milestone catalog.
type MilestoneID string

// UserProgress accumulates session counters, the daily streak, and the set of
// achieved milestones.
type UserProgress struct {
	TotalSessionsCompleted int                  `json:"total_sessions_completed"`
	TotalFocusMinutes      int                  `json:"total_focus_minutes"`
	CurrentStreak          int                  `json:"current_streak"`
	LongestStreak          int                  `json:"longest_streak"`
	LastSessionDate        *time.Time           `json:"last_session_date,omitempty"`
	AchievedMilestones     map[MilestoneID]bool `json:"achieved_milestones"`
}

// NewUserProgress returns an empty progress tracker.
func NewUserProgress() UserProgress {
	return UserProgress{
		AchievedMilestones: make(map[MilestoneID]bool),
	}
}

// HasAchieved reports whether the milestone was already awarded.
func (p *UserProgress) HasAchieved(id MilestoneID) bool {
	return p.AchievedMilestones[id]
}

// MarkAchieved inserts the milestone into the achieved set.
func (p *UserProgress) MarkAchieved(id MilestoneID) {
	if p.AchievedMilestones == nil {
		p.AchievedMilestones = make(map[MilestoneID]bool)
	}
	p.AchievedMilestones[id] = true
}

// RecordCompletion registers a completed session ending at completedAt.
//
// Streak rules: the streak increments when the completion's calendar day is
// exactly one day after the last recorded day, resets to 1 when a day was
// skipped, and is untouched by same-day repeat sessions.
func (p *UserProgress) RecordCompletion(completedAt time.Time, durationMinutes int) {
	p.TotalSessionsCompleted++
	if durationMinutes > 0 {
		p.TotalFocusMinutes += durationMinutes
	}

	switch {
	case p.LastSessionDate == nil:
		p.CurrentStreak = 1
	default:
		switch calendarDaysBetween(*p.LastSessionDate, completedAt) {
		case 0:
			// Same-day repeat, streak unchanged.
		case 1:
			p.CurrentStreak++
		default:
			p.CurrentStreak = 1
		}
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}

	t := completedAt
	p.LastSessionDate = &t
}

// StreakBonusMultiplier returns the bonus for the current streak. Monotonic
// non-decreasing in the streak length and capped by the top StreakBonusSteps rung.
func (p *UserProgress) StreakBonusMultiplier() float64 {
	for _, step := range StreakBonusSteps {
		if p.CurrentStreak >= step.MinStreak {
			return step.Bonus
		}
	}
	return 0
}

// calendarDaysBetween counts whole calendar days from a to b in b's location.
// Negative when b's day precedes a's.
func calendarDaysBetween(a, b time.Time) int {
	loc := b.Location()
	a = a.In(loc)
	dayA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)
	dayB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return int(dayB.Sub(dayA).Hours() / 24)
}

// SameCalendarDay reports whether a and b fall on the same local calendar day.
func SameCalendarDay(a, b time.Time) bool {
	return calendarDaysBetween(a, b) == 0
}
