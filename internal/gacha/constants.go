package gacha

const (
	// PullCost is the stardust price of one pull.
	PullCost = 100

	// TenPullCost prices a ten-pull at a one-pull discount.
	TenPullCost = 9 * PullCost

	// Pity thresholds: the Nth pull since a hit at the tier is guaranteed to
	// land at that tier or above.
	PityRareThreshold      = 10
	PityEpicThreshold      = 50
	PityLegendaryThreshold = 90

	// MaxPullHistory bounds the persisted recent-pull list.
	MaxPullHistory = 100
)
