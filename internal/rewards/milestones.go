package rewards

import "github.com/astralis-app/astralis/internal/domain"

// Milestone is one entry in the fixed achievement catalog. Bonus is paid in
// stardust once, when the condition first holds.
type Milestone struct {
	ID        domain.MilestoneID `json:"id"`
	Title     string             `json:"title"`
	Bonus     int                `json:"bonus"`
	condition func(p domain.UserProgress) bool
}

// MilestoneStatus pairs a catalog entry with whether the user has earned it.
type MilestoneStatus struct {
	Milestone
	Achieved bool `json:"achieved"`
}

func sessionsAtLeast(n int) func(domain.UserProgress) bool {
	return func(p domain.UserProgress) bool { return p.TotalSessionsCompleted >= n }
}

func minutesAtLeast(n int) func(domain.UserProgress) bool {
	return func(p domain.UserProgress) bool { return p.TotalFocusMinutes >= n }
}

func streakAtLeast(n int) func(domain.UserProgress) bool {
	return func(p domain.UserProgress) bool { return p.CurrentStreak >= n }
}

// MilestoneCatalog is the fixed achievement list, checked in order after every
// completed session.
var MilestoneCatalog = []Milestone{
	{ID: "first-session", Title: "First Light", Bonus: 50, condition: sessionsAtLeast(1)},
	{ID: "sessions-10", Title: "Getting Started", Bonus: 100, condition: sessionsAtLeast(10)},
	{ID: "sessions-50", Title: "Regular Orbit", Bonus: 300, condition: sessionsAtLeast(50)},
	{ID: "sessions-100", Title: "Centennial", Bonus: 600, condition: sessionsAtLeast(100)},
	{ID: "minutes-500", Title: "Deep Focus", Bonus: 200, condition: minutesAtLeast(500)},
	{ID: "minutes-2000", Title: "Stellar Hours", Bonus: 500, condition: minutesAtLeast(2000)},
	{ID: "streak-3", Title: "Three in a Row", Bonus: 75, condition: streakAtLeast(3)},
	{ID: "streak-7", Title: "Full Week", Bonus: 150, condition: streakAtLeast(7)},
	{ID: "streak-14", Title: "Fortnight", Bonus: 300, condition: streakAtLeast(14)},
	{ID: "streak-30", Title: "Lunar Cycle", Bonus: 750, condition: streakAtLeast(30)},
}
