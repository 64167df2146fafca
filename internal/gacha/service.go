// Package gacha implements the pull engine: weighted rarity draws, the
// three-tier pity ladder, shard awards, and the bounded pull history.
package gacha

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/event"
	"github.com/astralis-app/astralis/internal/logger"
	"github.com/astralis-app/astralis/internal/repository"
	"github.com/astralis-app/astralis/internal/utils"
)

// PullResult is one resolved pull plus the balance left after paying for it.
type PullResult struct {
	Record     domain.PullRecord `json:"record"`
	NewBalance int               `json:"new_balance"`
}

// Service defines the gacha interface
type Service interface {
	// PerformPull resolves a single pull, debiting PullCost.
	PerformPull(ctx context.Context) (*PullResult, error)

	// PerformTenPull resolves ten pulls atomically, debiting TenPullCost up
	// front. Either all ten land or none do.
	PerformTenPull(ctx context.Context) ([]PullResult, error)

	// History returns the recent pulls, most recent first.
	History(ctx context.Context) ([]domain.PullRecord, error)

	// Rates exposes the drop table and pity state for the rates screen.
	Rates(ctx context.Context) (RatesInfo, error)
}

// RatesInfo is the published drop table plus the user's live pity counters.
type RatesInfo struct {
	Table []domain.RarityInfo `json:"table"`
	Pity  domain.PityCounter  `json:"pity"`
}

type service struct {
	store    repository.Store
	eventBus event.Bus
	rng      func(int) int // Injectable for testing
	now      func() time.Time
}

// NewService creates a new gacha service
func NewService(store repository.Store, eventBus event.Bus) Service {
	return &service{
		store:    store,
		eventBus: eventBus,
		rng:      func(n int) int { return utils.RandomInt(0, n-1) },
		now:      time.Now,
	}
}

func (s *service) PerformPull(ctx context.Context) (*PullResult, error) {
	results, balance, err := s.performPulls(ctx, 1, PullCost)
	if err != nil {
		return nil, err
	}
	return &PullResult{Record: results[0].Record, NewBalance: balance}, nil
}

func (s *service) PerformTenPull(ctx context.Context) ([]PullResult, error) {
	results, _, err := s.performPulls(ctx, 10, TenPullCost)
	return results, err
}

// performPulls debits totalCost, resolves count pulls against the pity ladder,
// and persists all touched aggregates once at the end.
func (s *service) performPulls(ctx context.Context, count, totalCost int) ([]PullResult, int, error) {
	log := logger.FromContext(ctx)

	ledger, err := s.store.LoadLedger(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load ledger: %w", err)
	}

	if !ledger.Spend(totalCost) {
		return nil, 0, fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientStardust, totalCost, ledger.Current)
	}

	pity, err := s.store.LoadPity(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load pity counters: %w", err)
	}
	collection, err := s.store.LoadCollection(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load collection: %w", err)
	}
	history, err := s.store.LoadPullHistory(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load pull history: %w", err)
	}

	results := make([]PullResult, 0, count)
	for i := 0; i < count; i++ {
		rarity, guaranteed := s.drawRarity(pity)
		style := s.pickStyle(rarity)
		shards := domain.RarityInfoFor(rarity).ShardsPerPull

		collection.AddShards(style.ID, shards)
		pity.Record(rarity)

		record := domain.PullRecord{
			ID:            uuid.New(),
			StyleID:       style.ID,
			Rarity:        rarity,
			ShardsAwarded: shards,
			WasGuaranteed: guaranteed,
			PulledAt:      s.now(),
		}
		history = prependBounded(history, record)
		results = append(results, PullResult{Record: record})
	}

	if err := s.store.SaveLedger(ctx, ledger); err != nil {
		return nil, 0, fmt.Errorf("failed to save ledger: %w", err)
	}
	if err := s.store.SaveCollection(ctx, collection); err != nil {
		return nil, 0, fmt.Errorf("failed to save collection: %w", err)
	}
	if err := s.store.SavePity(ctx, pity); err != nil {
		return nil, 0, fmt.Errorf("failed to save pity counters: %w", err)
	}
	if err := s.store.SavePullHistory(ctx, history); err != nil {
		return nil, 0, fmt.Errorf("failed to save pull history: %w", err)
	}

	for i := range results {
		results[i].NewBalance = ledger.Current

		rec := results[i].Record
		if err := s.eventBus.Publish(ctx, event.NewGachaPullCompletedEvent(domain.GachaPullCompletedPayloadV1{
			StyleID:       rec.StyleID,
			Rarity:        rec.Rarity,
			ShardsAwarded: rec.ShardsAwarded,
			WasGuaranteed: rec.WasGuaranteed,
			TotalPulls:    pity.TotalPulls,
		})); err != nil {
			log.Error("Failed to publish pull event", "style", rec.StyleID, "error", err)
		}
	}

	return results, ledger.Current, nil
}

// drawRarity rolls one rarity against the drop table, forcing the floor the
// pity ladder demands. The ladder is checked top down so a pull that is due
// for both the legendary and the rare guarantee resolves at legendary.
func (s *service) drawRarity(pity domain.PityCounter) (domain.Rarity, bool) {
	switch {
	case pity.PullsSinceLegendary+1 >= PityLegendaryThreshold:
		return domain.RarityLegendary, true
	case pity.PullsSinceEpic+1 >= PityEpicThreshold:
		return s.drawAtLeast(domain.RarityEpic), true
	case pity.PullsSinceRare+1 >= PityRareThreshold:
		return s.drawAtLeast(domain.RarityRare), true
	default:
		return s.drawAtLeast(domain.RarityCommon), false
	}
}

// drawAtLeast rolls over the drop table restricted to tiers at or above floor,
// keeping the surviving tiers' relative weights.
func (s *service) drawAtLeast(floor domain.Rarity) domain.Rarity {
	total := 0
	for _, info := range domain.RarityTable {
		if info.Rarity.AtLeast(floor) {
			total += info.DropRate
		}
	}

	roll := s.rng(total)
	for _, info := range domain.RarityTable {
		if !info.Rarity.AtLeast(floor) {
			continue
		}
		if roll < info.DropRate {
			return info.Rarity
		}
		roll -= info.DropRate
	}
	return floor
}

// pickStyle selects uniformly among the catalog styles of the rarity.
func (s *service) pickStyle(rarity domain.Rarity) domain.OrbStyle {
	styles := domain.StylesByRarity(rarity)
	return styles[s.rng(len(styles))]
}

func prependBounded(history []domain.PullRecord, record domain.PullRecord) []domain.PullRecord {
	history = append([]domain.PullRecord{record}, history...)
	if len(history) > MaxPullHistory {
		history = history[:MaxPullHistory]
	}
	return history
}

func (s *service) History(ctx context.Context) ([]domain.PullRecord, error) {
	history, err := s.store.LoadPullHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pull history: %w", err)
	}
	return history, nil
}

func (s *service) Rates(ctx context.Context) (RatesInfo, error) {
	pity, err := s.store.LoadPity(ctx)
	if err != nil {
		return RatesInfo{}, fmt.Errorf("failed to load pity counters: %w", err)
	}
	return RatesInfo{Table: domain.RarityTable, Pity: pity}, nil
}
