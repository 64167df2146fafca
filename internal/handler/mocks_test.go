package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/gacha"
	"github.com/astralis-app/astralis/internal/limits"
	"github.com/astralis-app/astralis/internal/rewards"
	"github.com/astralis-app/astralis/internal/session"
)

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) Start(ctx context.Context, req session.StartRequest) (*session.Status, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Status), args.Error(1)
}

func (m *mockSessionService) RequestQuit(ctx context.Context) (*session.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Status), args.Error(1)
}

func (m *mockSessionService) Resume(ctx context.Context) (*session.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Status), args.Error(1)
}

func (m *mockSessionService) ConfirmQuit(ctx context.Context) (*session.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Status), args.Error(1)
}

func (m *mockSessionService) Status(ctx context.Context) (*session.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Status), args.Error(1)
}

func (m *mockSessionService) OnForeground(ctx context.Context) (*session.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Status), args.Error(1)
}

func (m *mockSessionService) Shutdown() {
	m.Called()
}

type mockGachaService struct {
	mock.Mock
}

func (m *mockGachaService) PerformPull(ctx context.Context) (*gacha.PullResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gacha.PullResult), args.Error(1)
}

func (m *mockGachaService) PerformTenPull(ctx context.Context) ([]gacha.PullResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gacha.PullResult), args.Error(1)
}

func (m *mockGachaService) History(ctx context.Context) ([]domain.PullRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRecord), args.Error(1)
}

func (m *mockGachaService) Rates(ctx context.Context) (gacha.RatesInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(gacha.RatesInfo), args.Error(1)
}

type mockRewardsService struct {
	mock.Mock
}

func (m *mockRewardsService) Balance(ctx context.Context) (domain.StardustBalance, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StardustBalance), args.Error(1)
}

func (m *mockRewardsService) Progress(ctx context.Context) (domain.UserProgress, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.UserProgress), args.Error(1)
}

func (m *mockRewardsService) Milestones(ctx context.Context) ([]rewards.MilestoneStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rewards.MilestoneStatus), args.Error(1)
}

func (m *mockRewardsService) Collection(ctx context.Context) ([]rewards.StyleStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rewards.StyleStatus), args.Error(1)
}

func (m *mockRewardsService) GrantCompletionReward(ctx context.Context, completedAt time.Time, durationMinutes int) (*rewards.CompletionReward, error) {
	args := m.Called(ctx, completedAt, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rewards.CompletionReward), args.Error(1)
}

func (m *mockRewardsService) ForfeitAnte(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockRewardsService) RecoverOrphanedAnte(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockRewardsService) PurchaseStyle(ctx context.Context, id domain.StyleID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRewardsService) EquipStyle(ctx context.Context, id domain.StyleID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRewardsService) UnlockStyle(ctx context.Context, id domain.StyleID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRewardsService) UpgradeStyle(ctx context.Context, id domain.StyleID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockLimitsService struct {
	mock.Mock
}

func (m *mockLimitsService) CreateLimit(ctx context.Context, limit domain.AppLimit) (*domain.AppLimit, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppLimit), args.Error(1)
}

func (m *mockLimitsService) UpdateLimit(ctx context.Context, limit domain.AppLimit) error {
	args := m.Called(ctx, limit)
	return args.Error(0)
}

func (m *mockLimitsService) DeleteLimit(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLimitsService) Limits(ctx context.Context) ([]limits.LimitStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]limits.LimitStatus), args.Error(1)
}

func (m *mockLimitsService) RecordUsage(ctx context.Context, id uuid.UUID, minutes int) error {
	args := m.Called(ctx, id, minutes)
	return args.Error(0)
}

func (m *mockLimitsService) CreateSchedule(ctx context.Context, schedule domain.TimeSchedule) (*domain.TimeSchedule, error) {
	args := m.Called(ctx, schedule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeSchedule), args.Error(1)
}

func (m *mockLimitsService) UpdateSchedule(ctx context.Context, schedule domain.TimeSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *mockLimitsService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLimitsService) Schedules(ctx context.Context) ([]limits.ScheduleStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]limits.ScheduleStatus), args.Error(1)
}

func (m *mockLimitsService) SetScheduleEnabled(ctx context.Context, id uuid.UUID, enabled bool) (bool, error) {
	args := m.Called(ctx, id, enabled)
	return args.Bool(0), args.Error(1)
}

func (m *mockLimitsService) SweepRollover(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
