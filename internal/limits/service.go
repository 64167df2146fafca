// Package limits manages daily usage limits and recurring block schedules.
// Usage minutes are written by the OS extension from outside this process, so
// reads go through a short-lived cache and every read applies the lazy daily
// rollover.
package limits

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/event"
	"github.com/astralis-app/astralis/internal/logger"
	"github.com/astralis-app/astralis/internal/repository"
)

const (
	// usageCacheTTL bounds staleness of externally written usage minutes.
	usageCacheTTL = 15 * time.Second

	usageCacheKey  = "usage"
	usageCacheSize = 4
)

// LimitStatus is a limit with today's consumption against it.
type LimitStatus struct {
	domain.AppLimit
	UsedMinutes int     `json:"used_minutes"`
	Progress    float64 `json:"progress"`
	Exceeded    bool    `json:"exceeded"`
}

// ScheduleStatus is a schedule annotated with whether now falls inside it.
type ScheduleStatus struct {
	domain.TimeSchedule
	CurrentlyIn bool `json:"currently_in_window"`
}

// Service defines the limits and schedules interface
type Service interface {
	// CreateLimit registers a new daily limit.
	CreateLimit(ctx context.Context, limit domain.AppLimit) (*domain.AppLimit, error)

	// UpdateLimit replaces the limit with the same ID.
	UpdateLimit(ctx context.Context, limit domain.AppLimit) error

	// DeleteLimit removes the limit and its usage record.
	DeleteLimit(ctx context.Context, id uuid.UUID) error

	// Limits returns every limit with rolled-over usage applied.
	Limits(ctx context.Context) ([]LimitStatus, error)

	// RecordUsage adds consumed minutes against a limit.
	RecordUsage(ctx context.Context, id uuid.UUID, minutes int) error

	// CreateSchedule registers a new recurring block window.
	CreateSchedule(ctx context.Context, schedule domain.TimeSchedule) (*domain.TimeSchedule, error)

	// UpdateSchedule replaces the schedule with the same ID.
	UpdateSchedule(ctx context.Context, schedule domain.TimeSchedule) error

	// DeleteSchedule removes the schedule.
	DeleteSchedule(ctx context.Context, id uuid.UUID) error

	// Schedules returns every schedule annotated with the live window state.
	Schedules(ctx context.Context) ([]ScheduleStatus, error)

	// SetScheduleEnabled toggles a schedule and reports whether now already
	// falls inside its window, so the shield can engage immediately.
	SetScheduleEnabled(ctx context.Context, id uuid.UUID, enabled bool) (bool, error)

	// SweepRollover resets every usage record whose day has turned. Returns
	// the number of records reset. Callers announce the sweep.
	SweepRollover(ctx context.Context) (int, error)
}

type service struct {
	store      repository.Store
	eventBus   event.Bus
	usageCache *expirable.LRU[string, map[string]domain.UsageRecord]
	now        func() time.Time
}

// NewService creates a new limits service
func NewService(store repository.Store, eventBus event.Bus) Service {
	return &service{
		store:      store,
		eventBus:   eventBus,
		usageCache: expirable.NewLRU[string, map[string]domain.UsageRecord](usageCacheSize, nil, usageCacheTTL),
		now:        time.Now,
	}
}

func (s *service) CreateLimit(ctx context.Context, limit domain.AppLimit) (*domain.AppLimit, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	limit.ID = uuid.New()

	all, err := s.store.LoadLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load limits: %w", err)
	}
	all = append(all, limit)

	if err := s.store.SaveLimits(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to save limits: %w", err)
	}

	logger.FromContext(ctx).Info("Limit created", "id", limit.ID, "name", limit.Name, "minutes", limit.DailyLimitMinutes)
	return &limit, nil
}

func (s *service) UpdateLimit(ctx context.Context, limit domain.AppLimit) error {
	if err := validateLimit(limit); err != nil {
		return err
	}

	all, err := s.store.LoadLimits(ctx)
	if err != nil {
		return fmt.Errorf("failed to load limits: %w", err)
	}

	for i := range all {
		if all[i].ID == limit.ID {
			all[i] = limit
			return s.store.SaveLimits(ctx, all)
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrLimitNotFound, limit.ID)
}

func (s *service) DeleteLimit(ctx context.Context, id uuid.UUID) error {
	all, err := s.store.LoadLimits(ctx)
	if err != nil {
		return fmt.Errorf("failed to load limits: %w", err)
	}

	kept := all[:0]
	found := false
	for _, limit := range all {
		if limit.ID == id {
			found = true
			continue
		}
		kept = append(kept, limit)
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrLimitNotFound, id)
	}

	if err := s.store.SaveLimits(ctx, kept); err != nil {
		return fmt.Errorf("failed to save limits: %w", err)
	}

	// Drop the orphaned usage record too.
	records, err := s.loadUsage(ctx, true)
	if err != nil {
		return err
	}
	delete(records, id.String())
	return s.saveUsage(ctx, records)
}

func (s *service) Limits(ctx context.Context) ([]LimitStatus, error) {
	all, err := s.store.LoadLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load limits: %w", err)
	}
	records, err := s.loadUsage(ctx, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rolled := false
	statuses := make([]LimitStatus, 0, len(all))
	for _, limit := range all {
		record := records[limit.ID.String()]
		record.LimitID = limit.ID
		if record.RolloverIfNeeded(now, limit.ResetHour) {
			rolled = true
		}
		records[limit.ID.String()] = record

		progress := record.Progress(limit.DailyLimitMinutes)
		statuses = append(statuses, LimitStatus{
			AppLimit:    limit,
			UsedMinutes: record.UsedMinutes,
			Progress:    progress,
			Exceeded:    progress >= 1.0,
		})
	}

	if rolled {
		if err := s.saveUsage(ctx, records); err != nil {
			return nil, err
		}
	}
	return statuses, nil
}

func (s *service) RecordUsage(ctx context.Context, id uuid.UUID, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: minutes must be positive", domain.ErrInvalidInput)
	}

	limit, err := s.findLimit(ctx, id)
	if err != nil {
		return err
	}

	records, err := s.loadUsage(ctx, true)
	if err != nil {
		return err
	}

	record := records[id.String()]
	record.LimitID = id
	record.RolloverIfNeeded(s.now(), limit.ResetHour)
	record.UsedMinutes += minutes
	records[id.String()] = record

	return s.saveUsage(ctx, records)
}

func (s *service) CreateSchedule(ctx context.Context, schedule domain.TimeSchedule) (*domain.TimeSchedule, error) {
	if err := validateSchedule(schedule); err != nil {
		return nil, err
	}
	schedule.ID = uuid.New()

	all, err := s.store.LoadSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	all = append(all, schedule)

	if err := s.store.SaveSchedules(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to save schedules: %w", err)
	}

	logger.FromContext(ctx).Info("Schedule created", "id", schedule.ID, "name", schedule.Name, "overnight", schedule.IsOvernight())
	return &schedule, nil
}

func (s *service) UpdateSchedule(ctx context.Context, schedule domain.TimeSchedule) error {
	if err := validateSchedule(schedule); err != nil {
		return err
	}

	all, err := s.store.LoadSchedules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for i := range all {
		if all[i].ID == schedule.ID {
			all[i] = schedule
			return s.store.SaveSchedules(ctx, all)
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrScheduleNotFound, schedule.ID)
}

func (s *service) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	all, err := s.store.LoadSchedules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	kept := all[:0]
	found := false
	for _, schedule := range all {
		if schedule.ID == id {
			found = true
			continue
		}
		kept = append(kept, schedule)
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrScheduleNotFound, id)
	}
	return s.store.SaveSchedules(ctx, kept)
}

func (s *service) Schedules(ctx context.Context) ([]ScheduleStatus, error) {
	all, err := s.store.LoadSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	now := s.now()
	statuses := make([]ScheduleStatus, 0, len(all))
	for _, schedule := range all {
		statuses = append(statuses, ScheduleStatus{
			TimeSchedule: schedule,
			CurrentlyIn:  schedule.Enabled && schedule.Contains(now),
		})
	}
	return statuses, nil
}

func (s *service) SetScheduleEnabled(ctx context.Context, id uuid.UUID, enabled bool) (bool, error) {
	log := logger.FromContext(ctx)

	all, err := s.store.LoadSchedules(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load schedules: %w", err)
	}

	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].Enabled = enabled
		if err := s.store.SaveSchedules(ctx, all); err != nil {
			return false, fmt.Errorf("failed to save schedules: %w", err)
		}

		// The OS only fires boundary events, so enabling mid-window must
		// report "already inside" for the shield to engage now.
		currentlyIn := enabled && all[i].Contains(s.now())

		eventType := domain.EventTypeScheduleDisabled
		if enabled {
			eventType = domain.EventTypeScheduleEnabled
		}
		if err := s.eventBus.Publish(ctx, event.NewScheduleToggleEvent(eventType, id.String(), currentlyIn)); err != nil {
			log.Error("Failed to publish schedule toggle event", "schedule", id, "error", err)
		}

		log.Info("Schedule toggled", "id", id, "enabled", enabled, "currentlyIn", currentlyIn)
		return currentlyIn, nil
	}
	return false, fmt.Errorf("%w: %s", domain.ErrScheduleNotFound, id)
}

func (s *service) SweepRollover(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	all, err := s.store.LoadLimits(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load limits: %w", err)
	}
	records, err := s.loadUsage(ctx, true)
	if err != nil {
		return 0, err
	}

	now := s.now()
	reset := 0
	for _, limit := range all {
		record, ok := records[limit.ID.String()]
		if !ok {
			continue
		}
		if record.RolloverIfNeeded(now, limit.ResetHour) {
			reset++
			records[limit.ID.String()] = record
		}
	}

	if reset > 0 {
		if err := s.saveUsage(ctx, records); err != nil {
			return 0, err
		}
	}

	log.Info("Usage rollover sweep finished", "reset", reset, "records", len(records))
	return reset, nil
}

func (s *service) findLimit(ctx context.Context, id uuid.UUID) (*domain.AppLimit, error) {
	all, err := s.store.LoadLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load limits: %w", err)
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrLimitNotFound, id)
}

// loadUsage reads usage records, serving from the short-lived cache unless the
// caller is about to write and needs the latest external state. The cached map
// is shared across requests, so callers always get their own copy to mutate.
func (s *service) loadUsage(ctx context.Context, bypassCache bool) (map[string]domain.UsageRecord, error) {
	if !bypassCache {
		if cached, ok := s.usageCache.Get(usageCacheKey); ok {
			return copyUsageRecords(cached), nil
		}
	}

	records, err := s.store.LoadUsageRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage records: %w", err)
	}
	s.usageCache.Add(usageCacheKey, copyUsageRecords(records))
	return records, nil
}

func (s *service) saveUsage(ctx context.Context, records map[string]domain.UsageRecord) error {
	if err := s.store.SaveUsageRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to save usage records: %w", err)
	}
	s.usageCache.Add(usageCacheKey, copyUsageRecords(records))
	return nil
}

func copyUsageRecords(records map[string]domain.UsageRecord) map[string]domain.UsageRecord {
	out := make(map[string]domain.UsageRecord, len(records))
	for k, v := range records {
		out[k] = v
	}
	return out
}

func validateLimit(limit domain.AppLimit) error {
	if limit.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if limit.Selection.IsEmpty() {
		return fmt.Errorf("%w: selection is empty", domain.ErrInvalidInput)
	}
	if limit.DailyLimitMinutes < 1 {
		return fmt.Errorf("%w: daily limit must be positive", domain.ErrInvalidInput)
	}
	if limit.ResetHour < 0 || limit.ResetHour > 23 {
		return fmt.Errorf("%w: reset hour must be 0-23", domain.ErrInvalidInput)
	}
	return nil
}

func validateSchedule(schedule domain.TimeSchedule) error {
	if schedule.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if schedule.Selection.IsEmpty() {
		return fmt.Errorf("%w: selection is empty", domain.ErrInvalidInput)
	}
	if len(schedule.ActiveDays) == 0 {
		return fmt.Errorf("%w: at least one active day is required", domain.ErrInvalidInput)
	}
	if schedule.StartHour < 0 || schedule.StartHour > 23 || schedule.EndHour < 0 || schedule.EndHour > 23 {
		return fmt.Errorf("%w: hours must be 0-23", domain.ErrInvalidInput)
	}
	if schedule.StartMinute < 0 || schedule.StartMinute > 59 || schedule.EndMinute < 0 || schedule.EndMinute > 59 {
		return fmt.Errorf("%w: minutes must be 0-59", domain.ErrInvalidInput)
	}
	if schedule.StartHour == schedule.EndHour && schedule.StartMinute == schedule.EndMinute {
		return fmt.Errorf("%w: window is empty", domain.ErrInvalidInput)
	}
	return nil
}
