package rewards

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/event"
	"github.com/astralis-app/astralis/internal/repository"
)

func newTestService(t *testing.T) (Service, repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewService(store, event.NewMemoryBus()), store
}

func TestCalculateReward(t *testing.T) {
	tests := []struct {
		name     string
		minutes  int
		bonus    float64
		expected int
	}{
		{"25 minutes no bonus", 25, 0, 10},
		{"60 minutes no bonus", 60, 0, 24},
		{"one minute floors to minimum", 1, 0, 1},
		{"zero minutes pays minimum", 0, 0, 1},
		{"week streak bonus", 60, 0.5, 36},
		{"max streak doubles the rate", 25, 1.0, 20},
		{"fractional result floors", 7, 0, 2}, // 7 * 0.4 = 2.8
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateReward(tt.minutes, tt.bonus))
		})
	}
}

func TestGrantCompletionReward_NoAnte(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result, err := svc.GrantCompletionReward(ctx, time.Now(), 25)
	require.NoError(t, err)

	assert.Equal(t, 10, result.BaseReward)
	assert.Equal(t, 10, result.Total)
	assert.False(t, result.Doubled)
	assert.Equal(t, 0, result.AnteReturned)
	assert.Equal(t, 1, result.CurrentStreak)

	ledger, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	// 10 reward plus the first-session milestone bonus
	assert.Equal(t, 10+50, ledger.Current)
	assert.Equal(t, 10, ledger.LastSessionReward)
}

func TestGrantCompletionReward_AnteDoublesAndReturns(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	ledger := domain.StardustBalance{}
	ledger.Add(300)
	require.True(t, ledger.HoldAnte(100))
	require.NoError(t, store.SaveLedger(ctx, ledger))

	start := ledger.Current + ledger.AnteInEscrow

	result, err := svc.GrantCompletionReward(ctx, time.Now(), 25)
	require.NoError(t, err)

	assert.True(t, result.Doubled)
	assert.Equal(t, 100, result.AnteReturned)
	assert.Equal(t, 20, result.Total)

	settled, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, settled.AnteInEscrow)

	// Net of the milestone bonus, completing with an ante held nets the full
	// ante back plus double the base reward.
	milestoneBonus := 50
	assert.Equal(t, start+2*result.BaseReward+milestoneBonus, settled.Current)
}

func TestGrantCompletionReward_MilestonesAwardOnce(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.GrantCompletionReward(ctx, time.Now(), 25)
	require.NoError(t, err)
	require.Len(t, first.NewMilestones, 1)
	assert.Equal(t, domain.MilestoneID("first-session"), first.NewMilestones[0].ID)

	second, err := svc.GrantCompletionReward(ctx, time.Now(), 25)
	require.NoError(t, err)
	assert.Empty(t, second.NewMilestones)

	progress, err := store.LoadProgress(ctx)
	require.NoError(t, err)
	assert.True(t, progress.HasAchieved("first-session"))
	assert.Equal(t, 2, progress.TotalSessionsCompleted)
}

func TestGrantCompletionReward_StreakBonusApplies(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	day := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	progress := domain.NewUserProgress()
	progress.CurrentStreak = 6
	progress.LongestStreak = 6
	progress.TotalSessionsCompleted = 6
	prev := day.AddDate(0, 0, -1)
	progress.LastSessionDate = &prev
	require.NoError(t, store.SaveProgress(ctx, progress))

	result, err := svc.GrantCompletionReward(ctx, day, 60)
	require.NoError(t, err)

	// Streak becomes 7 and the 0.5 bonus applies to this session.
	assert.Equal(t, 7, result.CurrentStreak)
	assert.Equal(t, 36, result.BaseReward)
}

func TestForfeitAnte(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	ledger := domain.StardustBalance{}
	ledger.Add(200)
	require.True(t, ledger.HoldAnte(80))
	require.NoError(t, store.SaveLedger(ctx, ledger))

	burned, err := svc.ForfeitAnte(ctx)
	require.NoError(t, err)
	assert.Equal(t, 80, burned)

	settled, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, settled.Current)
	assert.Equal(t, 0, settled.AnteInEscrow)

	// Idempotent
	burned, err = svc.ForfeitAnte(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, burned)
}

func TestRecoverOrphanedAnte(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	ledger := domain.StardustBalance{}
	ledger.Add(200)
	require.True(t, ledger.HoldAnte(50))
	require.NoError(t, store.SaveLedger(ctx, ledger))

	// No active session: the escrow is a crash leftover.
	recovered, err := svc.RecoverOrphanedAnte(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, recovered)

	settled, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, settled.Current)
	assert.Equal(t, 0, settled.AnteInEscrow)
}

func TestRecoverOrphanedAnte_SkipsActiveSession(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	ledger := domain.StardustBalance{}
	ledger.Add(200)
	require.True(t, ledger.HoldAnte(50))
	require.NoError(t, store.SaveLedger(ctx, ledger))
	require.NoError(t, store.SaveSession(ctx, domain.SessionSnapshot{Active: true}))

	recovered, err := svc.RecoverOrphanedAnte(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, recovered)

	kept, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, kept.AnteInEscrow)
}

func TestPurchaseStyle(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	ledger := domain.StardustBalance{}
	ledger.Add(500)
	require.NoError(t, store.SaveLedger(ctx, ledger))

	require.NoError(t, svc.PurchaseStyle(ctx, "frost"))

	collection, err := store.LoadCollection(ctx)
	require.NoError(t, err)
	assert.True(t, collection.Owns("frost"))
	// Purchase never auto-equips
	assert.Equal(t, domain.DefaultStyleID, collection.EquippedStyleID)

	settled, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, settled.Current)

	err = svc.PurchaseStyle(ctx, "frost")
	assert.ErrorIs(t, err, domain.ErrAlreadyOwned)
}

func TestPurchaseStyle_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.PurchaseStyle(ctx, "no-such-style")
	assert.ErrorIs(t, err, domain.ErrStyleNotFound)

	// Gacha-only styles cannot be bought
	err = svc.PurchaseStyle(ctx, "nebula")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.PurchaseStyle(ctx, "frost")
	assert.ErrorIs(t, err, domain.ErrInsufficientStardust)
}

func TestEquipStyle(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	err := svc.EquipStyle(ctx, "frost")
	assert.ErrorIs(t, err, domain.ErrStyleNotOwned)

	collection := domain.NewUserCollection()
	collection.AddOwned("frost")
	require.NoError(t, store.SaveCollection(ctx, collection))

	require.NoError(t, svc.EquipStyle(ctx, "frost"))

	loaded, err := store.LoadCollection(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StyleID("frost"), loaded.EquippedStyleID)
}

func TestUnlockStyle_ExactThresholdDeduction(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	threshold := domain.RarityInfoFor(domain.RarityLegendary).ShardsToUnlock

	collection := domain.NewUserCollection()
	collection.AddShards("nebula", threshold+30)
	require.NoError(t, store.SaveCollection(ctx, collection))

	require.NoError(t, svc.UnlockStyle(ctx, "nebula"))

	loaded, err := store.LoadCollection(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Owns("nebula"))
	// Exactly the threshold is spent; the surplus stays for upgrades.
	assert.Equal(t, 30, loaded.Shards("nebula"))
}

func TestUnlockStyle_InsufficientShards(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	collection := domain.NewUserCollection()
	collection.AddShards("nebula", 10)
	require.NoError(t, store.SaveCollection(ctx, collection))

	err := svc.UnlockStyle(ctx, "nebula")
	assert.ErrorIs(t, err, domain.ErrInsufficientShards)
}

func TestUpgradeStyle(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	perStar := domain.RarityInfoFor(domain.RarityCommon).ShardsPerStar

	collection := domain.NewUserCollection()
	collection.AddShards(domain.DefaultStyleID, perStar+5)
	require.NoError(t, store.SaveCollection(ctx, collection))

	require.NoError(t, svc.UpgradeStyle(ctx, domain.DefaultStyleID))

	loaded, err := store.LoadCollection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.StarLevel(domain.DefaultStyleID))
	assert.Equal(t, 5, loaded.Shards(domain.DefaultStyleID))

	err = svc.UpgradeStyle(ctx, domain.DefaultStyleID)
	assert.ErrorIs(t, err, domain.ErrInsufficientShards)
}

func TestUpgradeStyle_CapsAtMaxStarLevel(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	collection := domain.NewUserCollection()
	collection.SetStarLevel(domain.DefaultStyleID, domain.MaxStarLevel)
	collection.AddShards(domain.DefaultStyleID, 10000)
	require.NoError(t, store.SaveCollection(ctx, collection))

	err := svc.UpgradeStyle(ctx, domain.DefaultStyleID)
	assert.ErrorIs(t, err, domain.ErrMaxStarLevel)
}

func TestUpgradeStyle_RequiresOwnership(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	collection := domain.NewUserCollection()
	collection.AddShards("frost", 10000)
	require.NoError(t, store.SaveCollection(ctx, collection))

	err := svc.UpgradeStyle(ctx, "frost")
	assert.ErrorIs(t, err, domain.ErrStyleNotOwned)
}

func TestCollection_Statuses(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	collection := domain.NewUserCollection()
	collection.AddShards("nebula", domain.RarityInfoFor(domain.RarityLegendary).ShardsToUnlock)
	require.NoError(t, store.SaveCollection(ctx, collection))

	statuses, err := svc.Collection(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, len(domain.OrbCatalog))

	byID := make(map[domain.StyleID]StyleStatus)
	for _, st := range statuses {
		byID[st.ID] = st
	}

	assert.True(t, byID[domain.DefaultStyleID].Owned)
	assert.True(t, byID[domain.DefaultStyleID].Equipped)
	assert.True(t, byID["nebula"].CanUnlock)
	assert.False(t, byID["nebula"].Owned)
	assert.False(t, byID["frost"].CanUnlock)
}

func TestMilestones_AnnotatesAchievement(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	progress := domain.NewUserProgress()
	progress.MarkAchieved("first-session")
	require.NoError(t, store.SaveProgress(ctx, progress))

	statuses, err := svc.Milestones(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, len(MilestoneCatalog))

	for _, st := range statuses {
		if st.ID == "first-session" {
			assert.True(t, st.Achieved)
		} else {
			assert.False(t, st.Achieved)
		}
	}
}
