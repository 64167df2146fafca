// Package rewards settles session outcomes into the stardust ledger, sweeps
// the milestone catalog, and manages the cosmetic collection.
package rewards

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/event"
	"github.com/astralis-app/astralis/internal/logger"
	"github.com/astralis-app/astralis/internal/repository"
)

// CompletionReward is the settled outcome of a naturally completed session.
type CompletionReward struct {
	BaseReward    int         `json:"base_reward"`
	Total         int         `json:"total"`
	Doubled       bool        `json:"doubled"`
	AnteReturned  int         `json:"ante_returned"`
	CurrentStreak int         `json:"current_streak"`
	NewMilestones []Milestone `json:"new_milestones,omitempty"`
}

// StyleStatus is one catalog entry annotated with the user's state on it.
type StyleStatus struct {
	domain.OrbStyle
	Owned          bool `json:"owned"`
	Equipped       bool `json:"equipped"`
	Shards         int  `json:"shards"`
	StarLevel      int  `json:"star_level"`
	ShardsToUnlock int  `json:"shards_to_unlock"`
	ShardsPerStar  int  `json:"shards_per_star"`
	CanUnlock      bool `json:"can_unlock"`
	CanUpgrade     bool `json:"can_upgrade"`
}

// Service defines the reward and collection interface
type Service interface {
	// Balance returns the current ledger.
	Balance(ctx context.Context) (domain.StardustBalance, error)

	// Progress returns session counters, streak, and achieved milestones.
	Progress(ctx context.Context) (domain.UserProgress, error)

	// Milestones returns the catalog annotated with achievement state.
	Milestones(ctx context.Context) ([]MilestoneStatus, error)

	// Collection returns the full style catalog annotated with ownership,
	// shard balances, and upgrade state.
	Collection(ctx context.Context) ([]StyleStatus, error)

	// GrantCompletionReward settles a naturally completed session: records the
	// completion, pays the streak-boosted reward (doubled when an ante was
	// held, which is also returned), and sweeps the milestone catalog.
	GrantCompletionReward(ctx context.Context, completedAt time.Time, durationMinutes int) (*CompletionReward, error)

	// ForfeitAnte burns the escrowed ante after a confirmed quit or an
	// ended-early reconciliation. Returns the burned amount.
	ForfeitAnte(ctx context.Context) (int, error)

	// RecoverOrphanedAnte returns any ante left in escrow by a crash when no
	// session is active. Returns the recovered amount, zero when none.
	RecoverOrphanedAnte(ctx context.Context) (int, error)

	// PurchaseStyle buys a direct-purchase style with stardust. The purchased
	// style is owned but not auto-equipped.
	PurchaseStyle(ctx context.Context, id domain.StyleID) error

	// EquipStyle makes an owned style the active one.
	EquipStyle(ctx context.Context, id domain.StyleID) error

	// UnlockStyle converts accumulated shards into ownership of a gacha style.
	UnlockStyle(ctx context.Context, id domain.StyleID) error

	// UpgradeStyle spends shards to raise an owned style's star level by one.
	UpgradeStyle(ctx context.Context, id domain.StyleID) error
}

type service struct {
	store    repository.Store
	eventBus event.Bus
}

// NewService creates a new rewards service
func NewService(store repository.Store, eventBus event.Bus) Service {
	return &service{store: store, eventBus: eventBus}
}

// CalculateReward converts focused minutes into stardust under the streak
// bonus. Floored, with a minimum so short sessions still pay.
func CalculateReward(durationMinutes int, streakBonus float64) int {
	reward := int(math.Floor(float64(durationMinutes) * domain.RewardRatePerMinute * (1 + streakBonus)))
	if reward < domain.MinSessionReward {
		return domain.MinSessionReward
	}
	return reward
}

func (s *service) Balance(ctx context.Context) (domain.StardustBalance, error) {
	return s.store.LoadLedger(ctx)
}

func (s *service) Progress(ctx context.Context) (domain.UserProgress, error) {
	return s.store.LoadProgress(ctx)
}

func (s *service) Milestones(ctx context.Context) ([]MilestoneStatus, error) {
	progress, err := s.store.LoadProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	statuses := make([]MilestoneStatus, 0, len(MilestoneCatalog))
	for _, m := range MilestoneCatalog {
		statuses = append(statuses, MilestoneStatus{
			Milestone: m,
			Achieved:  progress.HasAchieved(m.ID),
		})
	}
	return statuses, nil
}

func (s *service) GrantCompletionReward(ctx context.Context, completedAt time.Time, durationMinutes int) (*CompletionReward, error) {
	log := logger.FromContext(ctx)

	ledger, err := s.store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	progress, err := s.store.LoadProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	// Today's completion counts toward its own streak bonus.
	progress.RecordCompletion(completedAt, durationMinutes)
	base := CalculateReward(durationMinutes, progress.StreakBonusMultiplier())

	result := &CompletionReward{
		BaseReward:    base,
		Total:         base,
		CurrentStreak: progress.CurrentStreak,
	}

	if ledger.AnteInEscrow > 0 {
		result.Doubled = true
		result.AnteReturned = ledger.AnteInEscrow
		result.Total = base * 2
		ledger.ReturnAnte()
	}

	ledger.Add(result.Total)
	ledger.LastSessionReward = result.Total

	result.NewMilestones = s.sweepMilestones(ctx, &progress, &ledger)

	if err := s.store.SaveLedger(ctx, ledger); err != nil {
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}
	if err := s.store.SaveProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	if err := s.eventBus.Publish(ctx, event.NewSessionCompletedEvent(domain.SessionCompletedPayloadV1{
		DurationMinutes: durationMinutes,
		Reward:          result.Total,
		AnteReturned:    result.AnteReturned,
		Doubled:         result.Doubled,
		CurrentStreak:   result.CurrentStreak,
	})); err != nil {
		log.Error("Failed to publish completion event", "error", err)
	}

	log.Info("Session reward settled",
		"minutes", durationMinutes,
		"reward", result.Total,
		"doubled", result.Doubled,
		"streak", result.CurrentStreak,
		"newMilestones", len(result.NewMilestones))

	return result, nil
}

// sweepMilestones awards every catalog milestone whose condition newly holds,
// crediting its bonus and publishing one event each. Mutates progress and
// ledger in place; callers persist.
func (s *service) sweepMilestones(ctx context.Context, progress *domain.UserProgress, ledger *domain.StardustBalance) []Milestone {
	log := logger.FromContext(ctx)

	var achieved []Milestone
	for _, m := range MilestoneCatalog {
		if progress.HasAchieved(m.ID) || !m.condition(*progress) {
			continue
		}
		progress.MarkAchieved(m.ID)
		ledger.Add(m.Bonus)
		achieved = append(achieved, m)

		if err := s.eventBus.Publish(ctx, event.NewMilestoneAchievedEvent(domain.MilestoneAchievedPayloadV1{
			MilestoneID: m.ID,
			Title:       m.Title,
			Bonus:       m.Bonus,
		})); err != nil {
			log.Error("Failed to publish milestone event", "milestone", m.ID, "error", err)
		}
	}
	return achieved
}

func (s *service) ForfeitAnte(ctx context.Context) (int, error) {
	ledger, err := s.store.LoadLedger(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load ledger: %w", err)
	}

	burned := ledger.AnteInEscrow
	if burned == 0 {
		return 0, nil
	}

	ledger.BurnAnte()
	if err := s.store.SaveLedger(ctx, ledger); err != nil {
		return 0, fmt.Errorf("failed to save ledger: %w", err)
	}
	return burned, nil
}

func (s *service) RecoverOrphanedAnte(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	ledger, err := s.store.LoadLedger(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load ledger: %w", err)
	}
	if ledger.AnteInEscrow == 0 {
		return 0, nil
	}

	session, err := s.store.LoadSession(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Active {
		return 0, nil
	}

	recovered := ledger.AnteInEscrow
	ledger.ReturnAnte()
	if err := s.store.SaveLedger(ctx, ledger); err != nil {
		return 0, fmt.Errorf("failed to save ledger: %w", err)
	}

	log.Warn("Recovered orphaned ante", "amount", recovered)
	return recovered, nil
}

func (s *service) Collection(ctx context.Context) ([]StyleStatus, error) {
	collection, err := s.store.LoadCollection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	statuses := make([]StyleStatus, 0, len(domain.OrbCatalog))
	for _, style := range domain.OrbCatalog {
		info := domain.RarityInfoFor(style.Rarity)
		owned := collection.Owns(style.ID)
		shards := collection.Shards(style.ID)

		statuses = append(statuses, StyleStatus{
			OrbStyle:       style,
			Owned:          owned,
			Equipped:       collection.EquippedStyleID == style.ID,
			Shards:         shards,
			StarLevel:      collection.StarLevel(style.ID),
			ShardsToUnlock: info.ShardsToUnlock,
			ShardsPerStar:  info.ShardsPerStar,
			CanUnlock:      !owned && shards >= info.ShardsToUnlock,
			CanUpgrade:     owned && collection.StarLevel(style.ID) < domain.MaxStarLevel && shards >= info.ShardsPerStar,
		})
	}
	return statuses, nil
}

func (s *service) PurchaseStyle(ctx context.Context, id domain.StyleID) error {
	log := logger.FromContext(ctx)

	style := domain.StyleByID(id)
	if style == nil {
		return fmt.Errorf("%w: %s", domain.ErrStyleNotFound, id)
	}
	if style.Cost <= 0 {
		return fmt.Errorf("%w: %s is not purchasable", domain.ErrInvalidInput, id)
	}

	collection, err := s.store.LoadCollection(ctx)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if collection.Owns(id) {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyOwned, id)
	}

	ledger, err := s.store.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	if !ledger.Spend(style.Cost) {
		return fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientStardust, style.Cost, ledger.Current)
	}

	collection.AddOwned(id)

	if err := s.store.SaveLedger(ctx, ledger); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	if err := s.store.SaveCollection(ctx, collection); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}

	if err := s.eventBus.Publish(ctx, event.NewStyleChangeEvent(domain.EventTypeStylePurchased, domain.StyleChangePayloadV1{
		StyleID: id,
		Rarity:  style.Rarity,
		Cost:    style.Cost,
	})); err != nil {
		log.Error("Failed to publish purchase event", "style", id, "error", err)
	}
	return nil
}

func (s *service) EquipStyle(ctx context.Context, id domain.StyleID) error {
	collection, err := s.store.LoadCollection(ctx)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if !collection.Equip(id) {
		return fmt.Errorf("%w: %s", domain.ErrStyleNotOwned, id)
	}
	if err := s.store.SaveCollection(ctx, collection); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

func (s *service) UnlockStyle(ctx context.Context, id domain.StyleID) error {
	log := logger.FromContext(ctx)

	style := domain.StyleByID(id)
	if style == nil {
		return fmt.Errorf("%w: %s", domain.ErrStyleNotFound, id)
	}

	collection, err := s.store.LoadCollection(ctx)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if collection.Owns(id) {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyOwned, id)
	}

	threshold := domain.RarityInfoFor(style.Rarity).ShardsToUnlock
	if !collection.SpendShards(id, threshold) {
		return fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientShards, threshold, collection.Shards(id))
	}
	collection.AddOwned(id)

	if err := s.store.SaveCollection(ctx, collection); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}

	if err := s.eventBus.Publish(ctx, event.NewStyleChangeEvent(domain.EventTypeStyleUnlocked, domain.StyleChangePayloadV1{
		StyleID: id,
		Rarity:  style.Rarity,
	})); err != nil {
		log.Error("Failed to publish unlock event", "style", id, "error", err)
	}
	return nil
}

func (s *service) UpgradeStyle(ctx context.Context, id domain.StyleID) error {
	log := logger.FromContext(ctx)

	style := domain.StyleByID(id)
	if style == nil {
		return fmt.Errorf("%w: %s", domain.ErrStyleNotFound, id)
	}

	collection, err := s.store.LoadCollection(ctx)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if !collection.Owns(id) {
		return fmt.Errorf("%w: %s", domain.ErrStyleNotOwned, id)
	}

	level := collection.StarLevel(id)
	if level >= domain.MaxStarLevel {
		return fmt.Errorf("%w: %s", domain.ErrMaxStarLevel, id)
	}

	cost := domain.RarityInfoFor(style.Rarity).ShardsPerStar
	if !collection.SpendShards(id, cost) {
		return fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientShards, cost, collection.Shards(id))
	}
	collection.SetStarLevel(id, level+1)

	if err := s.store.SaveCollection(ctx, collection); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}

	if err := s.eventBus.Publish(ctx, event.NewStyleChangeEvent(domain.EventTypeStyleUpgraded, domain.StyleChangePayloadV1{
		StyleID:   id,
		Rarity:    style.Rarity,
		StarLevel: level + 1,
	})); err != nil {
		log.Error("Failed to publish upgrade event", "style", id, "error", err)
	}
	return nil
}
