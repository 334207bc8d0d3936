package memory

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/cory-johannsen/adventure/internal/game/encounter"
)

var _ encounter.Ledger = (*Ledger)(nil)

// Ledger is a map-backed currency store. Accounts spring into existence at
// zero; deposits clamp at the configured maximum balance.
type Ledger struct {
	max int64

	mu       sync.Mutex
	balances map[string]int64
}

// NewLedger creates a Ledger capping every balance at max. A non-positive
// max means no cap.
func NewLedger(max int64) *Ledger {
	if max <= 0 {
		max = math.MaxInt64
	}
	return &Ledger{max: max, balances: make(map[string]int64)}
}

// SetBalance seeds or overwrites an account, clamped to the cap.
func (l *Ledger) SetBalance(userID string, amount int64) {
	if amount > l.max {
		amount = l.max
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] = amount
}

// Balance returns the user's balance; unknown accounts hold zero.
func (l *Ledger) Balance(_ context.Context, userID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID], nil
}

// CanSpend reports whether the user's balance covers amount.
func (l *Ledger) CanSpend(_ context.Context, userID string, amount int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID] >= amount, nil
}

// Withdraw removes amount from the user's balance.
//
// Precondition: amount >= 0.
// Postcondition: Returns an error and leaves the balance untouched when it
// does not cover amount.
func (l *Ledger) Withdraw(_ context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("memory: withdraw amount must be >= 0, got %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balances[userID]
	if bal < amount {
		return fmt.Errorf("memory: balance %d does not cover withdrawal of %d", bal, amount)
	}
	l.balances[userID] = bal - amount
	return nil
}

// Deposit credits amount to the user, clamping at the cap.
//
// Precondition: amount >= 0.
// Postcondition: Returns the amount actually credited.
func (l *Ledger) Deposit(_ context.Context, userID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("memory: deposit amount must be >= 0, got %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.credit(userID, amount), nil
}

// credit applies a clamped deposit under the ledger lock.
func (l *Ledger) credit(userID string, amount int64) int64 {
	bal := l.balances[userID]
	room := l.max - bal
	if amount > room {
		amount = room
	}
	l.balances[userID] = bal + amount
	return amount
}

// Transfer moves amount from one account to another, withholding taxRate of
// it on the way. The full amount leaves the sender; the receiver is credited
// the after-tax remainder, clamped at the cap.
//
// Precondition: amount >= 0 and 0 <= taxRate < 1.
// Postcondition: Returns the amount credited to the receiver.
func (l *Ledger) Transfer(_ context.Context, from, to string, amount int64, taxRate float64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("memory: transfer amount must be >= 0, got %d", amount)
	}
	if taxRate < 0 || taxRate >= 1 {
		return 0, fmt.Errorf("memory: tax rate must be in [0, 1), got %v", taxRate)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balances[from]
	if bal < amount {
		return 0, fmt.Errorf("memory: balance %d does not cover transfer of %d", bal, amount)
	}
	l.balances[from] = bal - amount
	net := amount - int64(float64(amount)*taxRate)
	return l.credit(to, net), nil
}
