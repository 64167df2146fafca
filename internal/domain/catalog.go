package domain

// OrbStyle is one cosmetic style in the fixed catalog.
type OrbStyle struct {
	ID     StyleID `json:"id"`
	Name   string  `json:"name"`
	Rarity Rarity  `json:"rarity"`
	// Cost is the direct-purchase price in stardust. Zero means the style is
	// gacha-only and can only be unlocked through shards.
	Cost int `json:"cost"`
}

// RarityInfo is one row of the rarity table driving the gacha engine and the
// shard economy. DropRate values across the table must sum to 100.
type RarityInfo struct {
	Rarity         Rarity `json:"rarity"`
	DropRate       int    `json:"drop_rate"`
	ShardsPerPull  int    `json:"shards_per_pull"`
	ShardsToUnlock int    `json:"shards_to_unlock"`
	ShardsPerStar  int    `json:"shards_per_star"`
}

// DefaultStyleID is owned and equipped from first launch.
const DefaultStyleID StyleID = "ember"

// RarityTable is ordered lowest tier first; weighted draws break ties by
// table order.
var RarityTable = []RarityInfo{
	{Rarity: RarityCommon, DropRate: 60, ShardsPerPull: 10, ShardsToUnlock: 50, ShardsPerStar: 30},
	{Rarity: RarityRare, DropRate: 25, ShardsPerPull: 25, ShardsToUnlock: 100, ShardsPerStar: 60},
	{Rarity: RarityEpic, DropRate: 12, ShardsPerPull: 60, ShardsToUnlock: 200, ShardsPerStar: 120},
	{Rarity: RarityLegendary, DropRate: 3, ShardsPerPull: 150, ShardsToUnlock: 400, ShardsPerStar: 240},
}

// OrbCatalog is the fixed style catalog. Loaded once; never mutated at runtime.
var OrbCatalog = []OrbStyle{
	{ID: DefaultStyleID, Name: "Ember", Rarity: RarityCommon, Cost: 0},
	{ID: "tide", Name: "Tide", Rarity: RarityCommon, Cost: 120},
	{ID: "moss", Name: "Moss", Rarity: RarityCommon, Cost: 120},
	{ID: "dune", Name: "Dune", Rarity: RarityCommon, Cost: 150},
	{ID: "frost", Name: "Frost", Rarity: RarityRare, Cost: 400},
	{ID: "storm", Name: "Storm", Rarity: RarityRare, Cost: 400},
	{ID: "bloom", Name: "Bloom", Rarity: RarityRare, Cost: 450},
	{ID: "aurora", Name: "Aurora", Rarity: RarityEpic, Cost: 1200},
	{ID: "eclipse", Name: "Eclipse", Rarity: RarityEpic, Cost: 1200},
	{ID: "nebula", Name: "Nebula", Rarity: RarityLegendary, Cost: 0},
	{ID: "singularity", Name: "Singularity", Rarity: RarityLegendary, Cost: 0},
}

// StyleByID looks up a catalog entry. Returns nil when the id is unknown.
func StyleByID(id StyleID) *OrbStyle {
	for i := range OrbCatalog {
		if OrbCatalog[i].ID == id {
			return &OrbCatalog[i]
		}
	}
	return nil
}

// StylesByRarity returns the catalog entries of the given rarity in table order.
func StylesByRarity(r Rarity) []OrbStyle {
	var out []OrbStyle
	for _, style := range OrbCatalog {
		if style.Rarity == r {
			out = append(out, style)
		}
	}
	return out
}

// RarityInfoFor looks up the rarity table row. Returns the common row for an
// unknown rarity so callers always get usable thresholds.
func RarityInfoFor(r Rarity) RarityInfo {
	for _, info := range RarityTable {
		if info.Rarity == r {
			return info
		}
	}
	return RarityTable[0]
}
