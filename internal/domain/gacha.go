package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rarity is the draw tier of an orb style.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// rarityRank orders rarities for pity comparisons.
var rarityRank = map[Rarity]int{
	RarityCommon:    0,
	RarityRare:      1,
	RarityEpic:      2,
	RarityLegendary: 3,
}

// AtLeast reports whether r is the same tier as other or higher.
func (r Rarity) AtLeast(other Rarity) bool {
	return rarityRank[r] >= rarityRank[other]
}

// PityCounter tracks pulls since the last hit at each guaranteed tier.
// A counter resets exactly when a pull's awarded rarity is at or above its
// tier, so a legendary win satisfies the rare and epic counters too.
type PityCounter struct {
	PullsSinceRare      int `json:"pulls_since_rare"`
	PullsSinceEpic      int `json:"pulls_since_epic"`
	PullsSinceLegendary int `json:"pulls_since_legendary"`
	TotalPulls          int `json:"total_pulls"`
}

// Record updates the counters for one pull awarded at the given rarity.
func (c *PityCounter) Record(awarded Rarity) {
	c.TotalPulls++

	if awarded.AtLeast(RarityRare) {
		c.PullsSinceRare = 0
	} else {
		c.PullsSinceRare++
	}
	if awarded.AtLeast(RarityEpic) {
		c.PullsSinceEpic = 0
	} else {
		c.PullsSinceEpic++
	}
	if awarded.AtLeast(RarityLegendary) {
		c.PullsSinceLegendary = 0
	} else {
		c.PullsSinceLegendary++
	}
}

// PullRecord is one entry in the bounded recent-pull history.
type PullRecord struct {
	ID            uuid.UUID `json:"id"`
	StyleID       StyleID   `json:"style_id"`
	Rarity        Rarity    `json:"rarity"`
	ShardsAwarded int       `json:"shards_awarded"`
	WasGuaranteed bool      `json:"was_guaranteed"`
	PulledAt      time.Time `json:"pulled_at"`
}
