// Package session drives the focus session state machine:
// idle -> focusing -> cooling_down and back, with the wall clock as the
// single source of truth for the countdown.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/event"
	"github.com/astralis-app/astralis/internal/logger"
	"github.com/astralis-app/astralis/internal/repository"
	"github.com/astralis-app/astralis/internal/rewards"
)

const (
	// MinQuitDwell is how long the cooldown must run before a quit can be
	// confirmed. The pause is the point: quitting must not be reflexive.
	MinQuitDwell = 3 * time.Second

	// MaxSessionMinutes caps a single session length.
	MaxSessionMinutes = 480
)

// ShieldController applies and removes the OS-level app shield.
type ShieldController interface {
	Apply(ctx context.Context, selection domain.FocusSelection) error
	Remove(ctx context.Context) error
}

// ActivityMonitor starts and stops OS activity monitoring for the session.
type ActivityMonitor interface {
	Start(ctx context.Context, selection domain.FocusSelection) error
	Stop(ctx context.Context) error
}

// NotificationScheduler schedules the completion notification.
type NotificationScheduler interface {
	ScheduleCompletion(ctx context.Context, at time.Time) error
	Cancel(ctx context.Context) error
}

// RewardSettler settles session outcomes into the economy.
type RewardSettler interface {
	GrantCompletionReward(ctx context.Context, completedAt time.Time, durationMinutes int) (*rewards.CompletionReward, error)
	ForfeitAnte(ctx context.Context) (int, error)
	RecoverOrphanedAnte(ctx context.Context) (int, error)
}

// StartRequest is the input to Start.
type StartRequest struct {
	DurationMinutes int                   `json:"duration_minutes" validate:"required,gte=1,lte=480"`
	Selection       domain.FocusSelection `json:"selection"`
	AnteAmount      int                   `json:"ante_amount" validate:"gte=0"`
}

// Status is the session state as reported to the UI.
type Status struct {
	State            domain.SessionState       `json:"state"`
	StartedAt        time.Time                 `json:"started_at,omitempty"`
	DurationMinutes  int                       `json:"duration_minutes,omitempty"`
	RemainingSeconds int                       `json:"remaining_seconds"`
	AnteAmount       int                       `json:"ante_amount,omitempty"`
	LastOutcome      *rewards.CompletionReward `json:"last_outcome,omitempty"`
}

// Service defines the session state machine interface
type Service interface {
	// Start begins a session: holds the ante, raises the shield, starts
	// monitoring, and persists the snapshot. Fails closed: any collaborator
	// failure rolls the economy back to idle.
	Start(ctx context.Context, req StartRequest) (*Status, error)

	// RequestQuit moves focusing -> cooling_down. The shield stays up.
	RequestQuit(ctx context.Context) (*Status, error)

	// Resume moves cooling_down -> focusing. The countdown never paused.
	Resume(ctx context.Context) (*Status, error)

	// ConfirmQuit abandons the session after the cooldown dwell: the ante
	// burns and no reward is paid.
	ConfirmQuit(ctx context.Context) (*Status, error)

	// Status reports the current state with the wall-clock remaining time,
	// settling a completion first if the countdown has expired.
	Status(ctx context.Context) (*Status, error)

	// OnForeground reconciles against the persisted snapshot after the app
	// returns to the foreground: the extension may have ended the session
	// or the countdown may have expired while backgrounded.
	OnForeground(ctx context.Context) (*Status, error)

	// Shutdown stops the completion timer.
	Shutdown()
}

type service struct {
	store    repository.Store
	eventBus event.Bus
	rewards  RewardSettler
	shield   ShieldController
	monitor  ActivityMonitor
	notifier NotificationScheduler
	now      func() time.Time

	mu              sync.Mutex
	state           domain.SessionState
	snapshot        domain.SessionSnapshot
	quitRequestedAt time.Time
	lastOutcome     *rewards.CompletionReward
	completionTimer *time.Timer
}

// NewService creates a new session service. Restore reconciles any snapshot a
// previous process left behind.
func NewService(store repository.Store, eventBus event.Bus, rewards RewardSettler, shield ShieldController, monitor ActivityMonitor, notifier NotificationScheduler) Service {
	return &service{
		store:    store,
		eventBus: eventBus,
		rewards:  rewards,
		shield:   shield,
		monitor:  monitor,
		notifier: notifier,
		now:      time.Now,
		state:    domain.SessionStateIdle,
	}
}

func (s *service) Start(ctx context.Context, req StartRequest) (*Status, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.SessionStateIdle {
		return nil, fmt.Errorf("%w: state is %s", domain.ErrSessionActive, s.state)
	}
	if req.Selection.IsEmpty() {
		return nil, domain.ErrInvalidSelection
	}
	if req.DurationMinutes < 1 || req.DurationMinutes > MaxSessionMinutes {
		return nil, fmt.Errorf("%w: duration must be 1-%d minutes", domain.ErrInvalidInput, MaxSessionMinutes)
	}

	anteHeld := false
	if req.AnteAmount > 0 {
		ledger, err := s.store.LoadLedger(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load ledger: %w", err)
		}
		if ledger.AnteInEscrow != 0 {
			return nil, domain.ErrAnteAlreadyHeld
		}
		if !ledger.HoldAnte(req.AnteAmount) {
			return nil, fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientStardust, req.AnteAmount, ledger.Current)
		}
		if err := s.store.SaveLedger(ctx, ledger); err != nil {
			return nil, fmt.Errorf("failed to save ledger: %w", err)
		}
		anteHeld = true
	}

	rollbackAnte := func() {
		if !anteHeld {
			return
		}
		ledger, err := s.store.LoadLedger(ctx)
		if err != nil {
			log.Error("Failed to load ledger for ante rollback", "error", err)
			return
		}
		ledger.ReturnAnte()
		if err := s.store.SaveLedger(ctx, ledger); err != nil {
			log.Error("Failed to roll back ante", "error", err)
		}
	}

	if err := s.monitor.Start(ctx, req.Selection); err != nil {
		rollbackAnte()
		return nil, fmt.Errorf("%w: %v", domain.ErrMonitoringStart, err)
	}

	if err := s.shield.Apply(ctx, req.Selection); err != nil {
		if stopErr := s.monitor.Stop(ctx); stopErr != nil {
			log.Error("Failed to stop monitor during rollback", "error", stopErr)
		}
		rollbackAnte()
		return nil, fmt.Errorf("failed to apply shield: %w", err)
	}

	startedAt := s.now()
	endAt := startedAt.Add(time.Duration(req.DurationMinutes) * time.Minute)

	// Notification failure is not worth unwinding the session over.
	if err := s.notifier.ScheduleCompletion(ctx, endAt); err != nil {
		log.Warn("Failed to schedule completion notification", "error", err)
	}

	s.snapshot = domain.SessionSnapshot{
		Active:          true,
		StartedAt:       startedAt,
		DurationMinutes: req.DurationMinutes,
		Selection:       req.Selection,
		AnteAmount:      req.AnteAmount,
	}
	if err := s.store.SaveSession(ctx, s.snapshot); err != nil {
		// Fail closed: the shield must not outlive a session we could not
		// record, and the ante goes back.
		s.snapshot = domain.SessionSnapshot{}
		s.teardownCollaborators(ctx)
		rollbackAnte()
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.state = domain.SessionStateFocusing
	s.lastOutcome = nil
	s.armCompletionTimer(endAt.Sub(startedAt))

	if err := s.eventBus.Publish(ctx, event.NewSessionStartedEvent(domain.SessionStartedPayloadV1{
		DurationMinutes: req.DurationMinutes,
		AnteAmount:      req.AnteAmount,
		AppCount:        len(req.Selection.AppIDs),
		CategoryCount:   len(req.Selection.CategoryIDs),
		StartedAt:       startedAt,
	})); err != nil {
		log.Error("Failed to publish session started event", "error", err)
	}

	log.Info("Session started",
		"minutes", req.DurationMinutes,
		"ante", req.AnteAmount,
		"apps", len(req.Selection.AppIDs),
		"categories", len(req.Selection.CategoryIDs))

	return s.statusLocked(), nil
}

func (s *service) RequestQuit(ctx context.Context) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.SessionStateFocusing {
		return nil, fmt.Errorf("%w: cannot request quit from %s", domain.ErrInvalidTransition, s.state)
	}

	s.state = domain.SessionStateCoolingDown
	s.quitRequestedAt = s.now()

	if err := s.eventBus.Publish(ctx, event.NewTransitionEvent(domain.EventTypeSessionCoolingDown)); err != nil {
		logger.FromContext(ctx).Error("Failed to publish cooling down event", "error", err)
	}

	return s.statusLocked(), nil
}

func (s *service) Resume(ctx context.Context) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.SessionStateCoolingDown {
		return nil, fmt.Errorf("%w: cannot resume from %s", domain.ErrInvalidTransition, s.state)
	}

	s.state = domain.SessionStateFocusing
	s.quitRequestedAt = time.Time{}

	if err := s.eventBus.Publish(ctx, event.NewTransitionEvent(domain.EventTypeSessionResumed)); err != nil {
		logger.FromContext(ctx).Error("Failed to publish resume event", "error", err)
	}

	return s.statusLocked(), nil
}

func (s *service) ConfirmQuit(ctx context.Context) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.SessionStateCoolingDown {
		return nil, fmt.Errorf("%w: cannot confirm quit from %s", domain.ErrInvalidTransition, s.state)
	}
	if s.now().Sub(s.quitRequestedAt) < MinQuitDwell {
		return nil, domain.ErrQuitTooSoon
	}

	if err := s.abandonLocked(ctx, "confirmed_quit"); err != nil {
		return nil, err
	}
	return s.statusLocked(), nil
}

func (s *service) Status(ctx context.Context) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.SessionStateIdle && s.snapshot.Expired(s.now()) {
		if err := s.completeLocked(ctx); err != nil {
			return nil, err
		}
	}
	return s.statusLocked(), nil
}

func (s *service) OnForeground(ctx context.Context) (*Status, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The extension writes to the shared snapshot while we are backgrounded,
	// so the persisted copy is the truth, not the in-memory one.
	persisted, err := s.store.LoadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.snapshot = persisted

	switch {
	case !persisted.Active:
		s.state = domain.SessionStateIdle
		s.stopCompletionTimer()
		// A crash between holding the ante and saving the snapshot leaves
		// escrow with no session behind it; settle it now rather than at the
		// next process launch.
		if recovered, err := s.rewards.RecoverOrphanedAnte(ctx); err != nil {
			log.Error("Failed to recover orphaned ante", "error", err)
		} else if recovered > 0 {
			log.Info("Recovered orphaned ante", "amount", recovered)
		}

	case persisted.EndedEarly:
		// Torn down from the OS surface: an abandon, never a completion,
		// even if the countdown has since expired.
		log.Info("Session ended early by extension, settling as abandoned")
		if s.state == domain.SessionStateIdle {
			s.state = domain.SessionStateFocusing
		}
		if err := s.abandonLocked(ctx, "ended_early"); err != nil {
			return nil, err
		}

	case persisted.Expired(s.now()):
		if s.state == domain.SessionStateIdle {
			s.state = domain.SessionStateFocusing
		}
		if err := s.completeLocked(ctx); err != nil {
			return nil, err
		}

	default:
		// Still running; adopt it (this process may have restarted mid-session).
		if s.state == domain.SessionStateIdle {
			s.state = domain.SessionStateFocusing
		}
		s.armCompletionTimer(persisted.Remaining(s.now()))
	}

	return s.statusLocked(), nil
}

// completeLocked settles a natural completion. Callers hold the lock.
func (s *service) completeLocked(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.teardownCollaborators(ctx)

	outcome, err := s.rewards.GrantCompletionReward(ctx, s.snapshot.StartedAt.Add(time.Duration(s.snapshot.DurationMinutes)*time.Minute), s.snapshot.DurationMinutes)
	if err != nil {
		return fmt.Errorf("failed to settle completion reward: %w", err)
	}
	s.lastOutcome = outcome

	s.snapshot = domain.SessionSnapshot{}
	if err := s.store.SaveSession(ctx, s.snapshot); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.state = domain.SessionStateIdle
	s.quitRequestedAt = time.Time{}
	s.stopCompletionTimer()

	log.Info("Session completed", "reward", outcome.Total, "doubled", outcome.Doubled)
	return nil
}

// abandonLocked settles a quit or an ended-early teardown. Callers hold the lock.
func (s *service) abandonLocked(ctx context.Context, cause string) error {
	log := logger.FromContext(ctx)

	s.teardownCollaborators(ctx)

	burned, err := s.rewards.ForfeitAnte(ctx)
	if err != nil {
		return fmt.Errorf("failed to forfeit ante: %w", err)
	}

	elapsed := int(s.now().Sub(s.snapshot.StartedAt).Minutes())
	if elapsed > s.snapshot.DurationMinutes {
		elapsed = s.snapshot.DurationMinutes
	}
	if elapsed < 0 {
		elapsed = 0
	}

	s.snapshot = domain.SessionSnapshot{}
	if err := s.store.SaveSession(ctx, s.snapshot); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.state = domain.SessionStateIdle
	s.quitRequestedAt = time.Time{}
	s.lastOutcome = nil
	s.stopCompletionTimer()

	if err := s.eventBus.Publish(ctx, event.NewSessionAbandonedEvent(domain.SessionAbandonedPayloadV1{
		ElapsedMinutes: elapsed,
		AnteBurned:     burned,
		Cause:          cause,
	})); err != nil {
		log.Error("Failed to publish abandon event", "error", err)
	}

	log.Info("Session abandoned", "cause", cause, "elapsedMinutes", elapsed, "anteBurned", burned)
	return nil
}

// teardownCollaborators removes the shield, stops monitoring, and cancels the
// pending notification. Failures are logged, not propagated: the session
// settlement must not depend on OS teardown succeeding.
func (s *service) teardownCollaborators(ctx context.Context) {
	log := logger.FromContext(ctx)

	if err := s.shield.Remove(ctx); err != nil {
		log.Error("Failed to remove shield", "error", err)
	}
	if err := s.monitor.Stop(ctx); err != nil {
		log.Error("Failed to stop activity monitor", "error", err)
	}
	if err := s.notifier.Cancel(ctx); err != nil {
		log.Warn("Failed to cancel completion notification", "error", err)
	}
}

// armCompletionTimer schedules a best-effort settle at countdown expiry. The
// wall clock stays authoritative; this just avoids waiting for the next poll.
func (s *service) armCompletionTimer(d time.Duration) {
	s.stopCompletionTimer()
	if d <= 0 {
		return
	}
	s.completionTimer = time.AfterFunc(d, func() {
		ctx := context.Background()
		if _, err := s.Status(ctx); err != nil {
			logger.Error("Failed to settle expired session", "error", err)
		}
	})
}

func (s *service) stopCompletionTimer() {
	if s.completionTimer != nil {
		s.completionTimer.Stop()
		s.completionTimer = nil
	}
}

func (s *service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCompletionTimer()
}

func (s *service) statusLocked() *Status {
	st := &Status{
		State:       s.state,
		LastOutcome: s.lastOutcome,
	}
	if s.state != domain.SessionStateIdle {
		st.StartedAt = s.snapshot.StartedAt
		st.DurationMinutes = s.snapshot.DurationMinutes
		st.AnteAmount = s.snapshot.AnteAmount
		st.RemainingSeconds = int(s.snapshot.Remaining(s.now()).Seconds())
	}
	return st
}
