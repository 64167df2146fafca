package domain

// StyleID identifies one orb style in the catalog.
type StyleID string

// UserCollection is the cosmetic inventory: owned styles, the equipped style,
// and per-style shard balances and star levels.
//
// Invariant: EquippedStyleID is always a member of OwnedStyleIDs. A style
// absent from StarLevelByStyle is at level 1.
type UserCollection struct {
	OwnedStyleIDs    map[StyleID]bool `json:"owned_style_ids"`
	EquippedStyleID  StyleID          `json:"equipped_style_id"`
	ShardsByStyle    map[StyleID]int  `json:"shards_by_style"`
	StarLevelByStyle map[StyleID]int  `json:"star_level_by_style"`
}

// NewUserCollection returns a collection owning and equipping the default style.
func NewUserCollection() UserCollection {
	return UserCollection{
		OwnedStyleIDs:    map[StyleID]bool{DefaultStyleID: true},
		EquippedStyleID:  DefaultStyleID,
		ShardsByStyle:    make(map[StyleID]int),
		StarLevelByStyle: make(map[StyleID]int),
	}
}

// Owns reports whether the style is in the collection.
func (c *UserCollection) Owns(id StyleID) bool {
	return c.OwnedStyleIDs[id]
}

// AddOwned inserts the style into the owned set without equipping it.
func (c *UserCollection) AddOwned(id StyleID) {
	if c.OwnedStyleIDs == nil {
		c.OwnedStyleIDs = make(map[StyleID]bool)
	}
	c.OwnedStyleIDs[id] = true
}

// Equip sets the equipped style. Returns false when the style is not owned.
func (c *UserCollection) Equip(id StyleID) bool {
	if !c.Owns(id) {
		return false
	}
	c.EquippedStyleID = id
	return true
}

// Shards returns the shard balance for the style.
func (c *UserCollection) Shards(id StyleID) int {
	return c.ShardsByStyle[id]
}

// AddShards credits shards toward the style. Non-positive amounts are ignored.
func (c *UserCollection) AddShards(id StyleID, amount int) {
	if amount <= 0 {
		return
	}
	if c.ShardsByStyle == nil {
		c.ShardsByStyle = make(map[StyleID]int)
	}
	c.ShardsByStyle[id] += amount
}

// SpendShards deducts exactly amount shards from the style's balance.
// Returns false without mutation when the balance is short.
func (c *UserCollection) SpendShards(id StyleID, amount int) bool {
	if amount <= 0 || c.ShardsByStyle[id] < amount {
		return false
	}
	c.ShardsByStyle[id] -= amount
	return true
}

// StarLevel returns the style's star level, clamped to [1, MaxStarLevel].
func (c *UserCollection) StarLevel(id StyleID) int {
	level := c.StarLevelByStyle[id]
	if level < 1 {
		return 1
	}
	if level > MaxStarLevel {
		return MaxStarLevel
	}
	return level
}

// SetStarLevel stores the style's star level, clamped to [1, MaxStarLevel].
func (c *UserCollection) SetStarLevel(id StyleID, level int) {
	if c.StarLevelByStyle == nil {
		c.StarLevelByStyle = make(map[StyleID]int)
	}
	if level < 1 {
		level = 1
	}
	if level > MaxStarLevel {
		level = MaxStarLevel
	}
	c.StarLevelByStyle[id] = level
}
