package domain

// Reward tuning values. These are product-tuning numbers, not contract: the
// tests pin the arithmetic, not the specific curve.
const (
	// RewardRatePerMinute is the base stardust earned per focused minute.
	RewardRatePerMinute = 0.4

	// MinSessionReward guarantees even the shortest completed session pays out.
	MinSessionReward = 1

	// MaxStarLevel is the upgrade ceiling for any owned style.
	MaxStarLevel = 5
)

// StreakBonusSteps maps a minimum streak length to its bonus multiplier.
// Evaluated highest-first; must stay monotonic non-decreasing and capped.
var StreakBonusSteps = []StreakStep{
	{MinStreak: 30, Bonus: 1.0},
	{MinStreak: 14, Bonus: 0.75},
	{MinStreak: 7, Bonus: 0.5},
	{MinStreak: 3, Bonus: 0.25},
	{MinStreak: 2, Bonus: 0.1},
}

// StreakStep is one rung of the streak bonus curve.
type StreakStep struct {
	MinStreak int
	Bonus     float64
}
