package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 20, 30, 0, 0, time.UTC)
}

func TestUserProgress_StreakRules(t *testing.T) {
	t.Run("first session starts the streak", func(t *testing.T) {
		p := NewUserProgress()
		p.RecordCompletion(day(2025, time.March, 1), 25)

		assert.Equal(t, 1, p.CurrentStreak)
		assert.Equal(t, 1, p.LongestStreak)
		assert.Equal(t, 1, p.TotalSessionsCompleted)
		assert.Equal(t, 25, p.TotalFocusMinutes)
	})

	t.Run("consecutive days increment", func(t *testing.T) {
		p := NewUserProgress()
		p.RecordCompletion(day(2025, time.March, 1), 25)
		p.RecordCompletion(day(2025, time.March, 2), 25)
		p.RecordCompletion(day(2025, time.March, 3), 25)

		assert.Equal(t, 3, p.CurrentStreak)
		assert.Equal(t, 3, p.LongestStreak)
	})

	t.Run("same day repeat does not change the streak", func(t *testing.T) {
		p := NewUserProgress()
		p.RecordCompletion(day(2025, time.March, 1), 25)
		p.RecordCompletion(day(2025, time.March, 2), 25)
		p.RecordCompletion(time.Date(2025, time.March, 2, 23, 50, 0, 0, time.UTC), 25)

		assert.Equal(t, 2, p.CurrentStreak)
		assert.Equal(t, 3, p.TotalSessionsCompleted)
	})

	t.Run("skipped day resets to one", func(t *testing.T) {
		p := NewUserProgress()
		p.RecordCompletion(day(2025, time.March, 1), 25)
		p.RecordCompletion(day(2025, time.March, 2), 25)
		p.RecordCompletion(day(2025, time.March, 5), 25)

		assert.Equal(t, 1, p.CurrentStreak)
		assert.Equal(t, 2, p.LongestStreak, "longest streak is retained")
	})

	t.Run("month boundary counts as consecutive", func(t *testing.T) {
		p := NewUserProgress()
		p.RecordCompletion(day(2025, time.March, 31), 25)
		p.RecordCompletion(day(2025, time.April, 1), 25)

		assert.Equal(t, 2, p.CurrentStreak)
	})
}

func TestUserProgress_StreakBonusMultiplier(t *testing.T) {
	p := NewUserProgress()

	// The exact curve is tuning data; the contract is monotonic and capped.
	prev := -1.0
	for streak := 0; streak <= 60; streak++ {
		p.CurrentStreak = streak
		bonus := p.StreakBonusMultiplier()
		assert.GreaterOrEqual(t, bonus, prev, "bonus must be monotonic non-decreasing at streak %d", streak)
		assert.LessOrEqual(t, bonus, StreakBonusSteps[0].Bonus, "bonus must stay capped")
		prev = bonus
	}

	p.CurrentStreak = 1
	assert.Equal(t, 0.0, p.StreakBonusMultiplier(), "no bonus on the first day")
}

func TestUserProgress_Milestones(t *testing.T) {
	p := NewUserProgress()

	assert.False(t, p.HasAchieved("first_session"))
	p.MarkAchieved("first_session")
	assert.True(t, p.HasAchieved("first_session"))
}
