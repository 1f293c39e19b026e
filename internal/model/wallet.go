package model

import "time"

// Wallet holds a player's spendable balance, split into two buckets.
//
// Cash is unrestricted: deposits and prize payouts land here. Bonus is
// promotional: signup grants and skill rewards land here, and it is only
// spent once Cash is exhausted. Both buckets are never negative.
type Wallet struct {
	PlayerID  PlayerID
	Cash      Money
	Bonus     Money
	UpdatedAt time.Time
}

// Total returns the combined spendable balance.
func (w *Wallet) Total() Money {
	return w.Cash + w.Bonus
}

// CanAfford reports whether the combined balance covers the fee.
func (w *Wallet) CanAfford(fee Money) bool {
	return w.Total() >= fee
}

// Clone returns a copy so storage callers can mutate freely.
func (w *Wallet) Clone() *Wallet {
	c := *w
	return &c
}
