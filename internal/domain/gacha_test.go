package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPityCounter_Record(t *testing.T) {
	t.Run("common increments every counter", func(t *testing.T) {
		c := PityCounter{}
		c.Record(RarityCommon)

		assert.Equal(t, 1, c.PullsSinceRare)
		assert.Equal(t, 1, c.PullsSinceEpic)
		assert.Equal(t, 1, c.PullsSinceLegendary)
		assert.Equal(t, 1, c.TotalPulls)
	})

	t.Run("rare resets only the rare counter", func(t *testing.T) {
		c := PityCounter{PullsSinceRare: 5, PullsSinceEpic: 5, PullsSinceLegendary: 5}
		c.Record(RarityRare)

		assert.Equal(t, 0, c.PullsSinceRare)
		assert.Equal(t, 6, c.PullsSinceEpic)
		assert.Equal(t, 6, c.PullsSinceLegendary)
	})

	t.Run("epic subsumes rare", func(t *testing.T) {
		c := PityCounter{PullsSinceRare: 5, PullsSinceEpic: 5, PullsSinceLegendary: 5}
		c.Record(RarityEpic)

		assert.Equal(t, 0, c.PullsSinceRare)
		assert.Equal(t, 0, c.PullsSinceEpic)
		assert.Equal(t, 6, c.PullsSinceLegendary)
	})

	t.Run("legendary resets everything", func(t *testing.T) {
		c := PityCounter{PullsSinceRare: 5, PullsSinceEpic: 5, PullsSinceLegendary: 89}
		c.Record(RarityLegendary)

		assert.Equal(t, 0, c.PullsSinceRare)
		assert.Equal(t, 0, c.PullsSinceEpic)
		assert.Equal(t, 0, c.PullsSinceLegendary)
	})
}

func TestRarity_AtLeast(t *testing.T) {
	assert.True(t, RarityLegendary.AtLeast(RarityCommon))
	assert.True(t, RarityEpic.AtLeast(RarityEpic))
	assert.False(t, RarityRare.AtLeast(RarityEpic))
}

func TestRarityTable_SumsToHundred(t *testing.T) {
	total := 0
	for _, info := range RarityTable {
		total += info.DropRate
	}
	assert.Equal(t, 100, total)
}

func TestOrbCatalog_Lookups(t *testing.T) {
	for _, style := range OrbCatalog {
		found := StyleByID(style.ID)
		assert.NotNil(t, found)
		assert.Equal(t, style.Name, found.Name)
	}

	assert.Nil(t, StyleByID("no-such-style"))

	for _, info := range RarityTable {
		assert.NotEmpty(t, StylesByRarity(info.Rarity), "every rarity needs at least one catalog entry")
	}

	def := StyleByID(DefaultStyleID)
	assert.NotNil(t, def, "default style must exist in the catalog")
}
