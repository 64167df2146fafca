package domain

// StardustBalance is the currency ledger: spendable balance, lifetime total,
// and the single ante held in escrow while a betted session runs.
//
// Invariants: Current never goes negative; AnteInEscrow is zero except between
// a successful HoldAnte and its matching ReturnAnte/BurnAnte.
type StardustBalance struct {
	Current           int `json:"current"`
	LifetimeEarned    int `json:"lifetime_earned"`
	AnteInEscrow      int `json:"ante_in_escrow"`
	LastSessionReward int `json:"last_session_reward"`
}

// Add credits the balance and the lifetime total. Non-positive amounts are ignored.
func (b *StardustBalance) Add(amount int) {
	if amount <= 0 {
		return
	}
	b.Current += amount
	b.LifetimeEarned += amount
}

// Spend debits the balance. Returns false without mutation when the balance
// cannot cover the amount.
func (b *StardustBalance) Spend(amount int) bool {
	if amount <= 0 || b.Current < amount {
		return false
	}
	b.Current -= amount
	return true
}

// HoldAnte moves amount from the balance into escrow. Fails without mutation
// if the balance is short or an ante is already held.
func (b *StardustBalance) HoldAnte(amount int) bool {
	if amount <= 0 || b.Current < amount || b.AnteInEscrow != 0 {
		return false
	}
	b.Current -= amount
	b.AnteInEscrow = amount
	return true
}

// ReturnAnte releases the escrowed ante back to the balance. No-op when no
// ante is held. The escrowed amount does not re-count toward LifetimeEarned.
func (b *StardustBalance) ReturnAnte() {
	b.Current += b.AnteInEscrow
	b.AnteInEscrow = 0
}

// BurnAnte forfeits the escrowed ante. The amount is lost, not refunded.
func (b *StardustBalance) BurnAnte() {
	b.AnteInEscrow = 0
}
