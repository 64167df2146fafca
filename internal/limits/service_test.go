package limits

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/event"
	"github.com/astralis-app/astralis/internal/repository"
)

var testSelection = domain.FocusSelection{AppIDs: []string{"app.social"}}

func newTestService(t *testing.T) (*service, repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewService(store, event.NewMemoryBus()).(*service)
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) }
	return svc, store
}

func validTestLimit() domain.AppLimit {
	return domain.AppLimit{
		Name:              "Social media",
		Selection:         testSelection,
		Enabled:           true,
		DailyLimitMinutes: 60,
	}
}

func TestCreateLimit_AssignsID(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateLimit(ctx, validTestLimit())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	all, err := store.LoadLimits(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
}

func TestCreateLimit_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*domain.AppLimit)
	}{
		{"missing name", func(l *domain.AppLimit) { l.Name = "" }},
		{"empty selection", func(l *domain.AppLimit) { l.Selection = domain.FocusSelection{} }},
		{"zero minutes", func(l *domain.AppLimit) { l.DailyLimitMinutes = 0 }},
		{"reset hour out of range", func(l *domain.AppLimit) { l.ResetHour = 24 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit := validTestLimit()
			tt.mutate(&limit)
			_, err := svc.CreateLimit(ctx, limit)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdateLimit_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	limit := validTestLimit()
	limit.ID = uuid.New()
	err := svc.UpdateLimit(context.Background(), limit)
	assert.ErrorIs(t, err, domain.ErrLimitNotFound)
}

func TestDeleteLimit_RemovesUsageRecord(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateLimit(ctx, validTestLimit())
	require.NoError(t, err)
	require.NoError(t, svc.RecordUsage(ctx, created.ID, 30))

	require.NoError(t, svc.DeleteLimit(ctx, created.ID))

	all, err := store.LoadLimits(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	records, err := store.LoadUsageRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordUsage_AccumulatesAndReportsProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateLimit(ctx, validTestLimit())
	require.NoError(t, err)

	require.NoError(t, svc.RecordUsage(ctx, created.ID, 30))
	require.NoError(t, svc.RecordUsage(ctx, created.ID, 45))

	statuses, err := svc.Limits(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	assert.Equal(t, 75, statuses[0].UsedMinutes)
	assert.InDelta(t, 1.25, statuses[0].Progress, 0.001)
	assert.True(t, statuses[0].Exceeded)
}

func TestLimits_LazyRolloverResetsYesterday(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateLimit(ctx, validTestLimit())
	require.NoError(t, err)

	// Yesterday's record, written as the extension would leave it.
	records := map[string]domain.UsageRecord{
		created.ID.String(): {
			LimitID:       created.ID,
			UsedMinutes:   55,
			LastResetDate: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, store.SaveUsageRecords(ctx, records))
	svc.usageCache.Purge()

	statuses, err := svc.Limits(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, 0, statuses[0].UsedMinutes)

	// The reset was persisted, not just reported.
	saved, err := store.LoadUsageRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, saved[created.ID.String()].UsedMinutes)
}

func TestLimits_ResetHourShiftsTheDayBoundary(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	limit := validTestLimit()
	limit.ResetHour = 4
	created, err := svc.CreateLimit(ctx, limit)
	require.NoError(t, err)

	// 2am today is still "yesterday" under a 4am reset hour, so usage
	// recorded then survives a 3am read.
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC) }
	records := map[string]domain.UsageRecord{
		created.ID.String(): {
			LimitID:       created.ID,
			UsedMinutes:   40,
			LastResetDate: time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, store.SaveUsageRecords(ctx, records))
	svc.usageCache.Purge()

	statuses, err := svc.Limits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, statuses[0].UsedMinutes)

	// After 4am the same record rolls over.
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC) }
	svc.usageCache.Purge()

	statuses, err = svc.Limits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, statuses[0].UsedMinutes)
}

func TestLimits_ConcurrentReadsGetPrivateCopies(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateLimit(ctx, validTestLimit())
	require.NoError(t, err)

	// Prime the cache so every concurrent read serves from it. Each caller
	// mutates the map it gets back, so a shared cached map would race.
	_, err = svc.Limits(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses, err := svc.Limits(ctx)
			assert.NoError(t, err)
			assert.Len(t, statuses, 1)
		}()
	}
	wg.Wait()
}

func validTestSchedule() domain.TimeSchedule {
	return domain.TimeSchedule{
		Name:       "Night wind-down",
		Selection:  testSelection,
		StartHour:  21,
		EndHour:    7,
		ActiveDays: []time.Weekday{time.Monday, time.Tuesday},
	}
}

func TestCreateSchedule_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	schedule := validTestSchedule()
	schedule.ActiveDays = nil
	_, err := svc.CreateSchedule(ctx, schedule)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	schedule = validTestSchedule()
	schedule.StartHour, schedule.EndHour = 9, 9
	_, err = svc.CreateSchedule(ctx, schedule)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetScheduleEnabled_ReportsInWindow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSchedule(ctx, validTestSchedule())
	require.NoError(t, err)

	// Monday 23:00 is inside the overnight Monday window.
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC) }
	currentlyIn, err := svc.SetScheduleEnabled(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, currentlyIn)

	// Monday noon is outside.
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }
	currentlyIn, err = svc.SetScheduleEnabled(ctx, created.ID, true)
	require.NoError(t, err)
	assert.False(t, currentlyIn)

	// Disabling always reports outside.
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC) }
	currentlyIn, err = svc.SetScheduleEnabled(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, currentlyIn)
}

func TestSetScheduleEnabled_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetScheduleEnabled(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestSchedules_AnnotatesWindowState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSchedule(ctx, validTestSchedule())
	require.NoError(t, err)
	_, err = svc.SetScheduleEnabled(ctx, created.ID, true)
	require.NoError(t, err)

	// Tuesday 05:00 belongs to Monday's overnight window.
	svc.now = func() time.Time { return time.Date(2025, 6, 3, 5, 0, 0, 0, time.UTC) }
	statuses, err := svc.Schedules(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].CurrentlyIn)
}

func TestSweepRollover(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateLimit(ctx, validTestLimit())
	require.NoError(t, err)
	second := validTestLimit()
	second.Name = "Games"
	secondCreated, err := svc.CreateLimit(ctx, second)
	require.NoError(t, err)

	yesterday := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	records := map[string]domain.UsageRecord{
		first.ID.String():         {LimitID: first.ID, UsedMinutes: 50, LastResetDate: yesterday},
		secondCreated.ID.String(): {LimitID: secondCreated.ID, UsedMinutes: 20, LastResetDate: today},
	}
	require.NoError(t, store.SaveUsageRecords(ctx, records))
	svc.usageCache.Purge()

	reset, err := svc.SweepRollover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reset)

	saved, err := store.LoadUsageRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, saved[first.ID.String()].UsedMinutes)
	assert.Equal(t, 20, saved[secondCreated.ID.String()].UsedMinutes)
}
