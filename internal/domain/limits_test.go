package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeSchedule_OvernightWindow(t *testing.T) {
	// 21:00 -> 07:00, active Mondays only.
	s := TimeSchedule{
		StartHour:  21,
		EndHour:    7,
		ActiveDays: []time.Weekday{time.Monday},
	}

	assert.True(t, s.IsOvernight())

	// 2025-03-03 is a Monday.
	monday2300 := time.Date(2025, time.March, 3, 23, 0, 0, 0, time.UTC)
	tuesday0500 := time.Date(2025, time.March, 4, 5, 0, 0, 0, time.UTC)
	monday1200 := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	tuesday2300 := time.Date(2025, time.March, 4, 23, 0, 0, 0, time.UTC)

	assert.True(t, s.Contains(monday2300), "late Monday evening is inside")
	assert.True(t, s.Contains(tuesday0500), "the Tuesday tail belongs to Monday's window")
	assert.False(t, s.Contains(monday1200), "Monday midday is outside")
	assert.False(t, s.Contains(tuesday2300), "Tuesday evening is not an active start day")
}

func TestTimeSchedule_DaytimeWindow(t *testing.T) {
	s := TimeSchedule{
		StartHour:   9,
		EndHour:     17,
		StartMinute: 30,
		ActiveDays:  []time.Weekday{time.Monday, time.Wednesday},
	}

	assert.False(t, s.IsOvernight())

	monday1000 := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	monday0915 := time.Date(2025, time.March, 3, 9, 15, 0, 0, time.UTC)
	monday1700 := time.Date(2025, time.March, 3, 17, 0, 0, 0, time.UTC)
	tuesday1000 := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)

	assert.True(t, s.Contains(monday1000))
	assert.False(t, s.Contains(monday0915), "before the start minute")
	assert.False(t, s.Contains(monday1700), "end is exclusive")
	assert.False(t, s.Contains(tuesday1000), "inactive day")
}

func TestUsageRecord_DailyRollover(t *testing.T) {
	t.Run("rolls over when the day advances", func(t *testing.T) {
		now := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
		r := UsageRecord{
			UsedMinutes:   45,
			LastResetDate: now.AddDate(0, 0, -1),
		}

		reset := r.RolloverIfNeeded(now, 0)

		assert.True(t, reset)
		assert.Equal(t, 0, r.UsedMinutes)
		assert.Equal(t, now, r.LastResetDate)
		assert.InDelta(t, 0.0, r.Progress(60), 0.001)
	})

	t.Run("same day does not reset", func(t *testing.T) {
		now := time.Date(2025, time.March, 2, 21, 0, 0, 0, time.UTC)
		r := UsageRecord{
			UsedMinutes:   45,
			LastResetDate: time.Date(2025, time.March, 2, 8, 0, 0, 0, time.UTC),
		}

		assert.False(t, r.RolloverIfNeeded(now, 0))
		assert.Equal(t, 45, r.UsedMinutes)
	})

	t.Run("reset hour shifts the boundary", func(t *testing.T) {
		// Budget renews at 04:00; 01:00 is still "yesterday".
		r := UsageRecord{
			UsedMinutes:   30,
			LastResetDate: time.Date(2025, time.March, 2, 22, 0, 0, 0, time.UTC),
		}
		now := time.Date(2025, time.March, 3, 1, 0, 0, 0, time.UTC)

		assert.False(t, r.RolloverIfNeeded(now, 4))
		assert.Equal(t, 30, r.UsedMinutes)

		after := time.Date(2025, time.March, 3, 5, 0, 0, 0, time.UTC)
		assert.True(t, r.RolloverIfNeeded(after, 4))
		assert.Equal(t, 0, r.UsedMinutes)
	})
}

func TestUsageRecord_ProgressUnclamped(t *testing.T) {
	r := UsageRecord{UsedMinutes: 90}

	assert.InDelta(t, 1.5, r.Progress(60), 0.001, "progress above 1.0 signals exceeded")
	assert.Equal(t, 0.0, r.Progress(0), "zero limit yields zero progress")
}
