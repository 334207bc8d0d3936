package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/adventure/internal/game/encounter"
)

var _ encounter.Ledger = (*LedgerRepository)(nil)

// LedgerRepository is the currency store. Accounts spring into existence at
// zero; deposits clamp at the configured maximum balance.
type LedgerRepository struct {
	db  *pgxpool.Pool
	max int64
}

// NewLedgerRepository creates a LedgerRepository capping every balance at
// max. A non-positive max means no cap.
//
// Precondition: db must be a valid, open connection pool.
func NewLedgerRepository(db *pgxpool.Pool, max int64) *LedgerRepository {
	if max <= 0 {
		max = math.MaxInt64
	}
	return &LedgerRepository{db: db, max: max}
}

// Balance returns the user's balance; unknown accounts hold zero.
func (r *LedgerRepository) Balance(ctx context.Context, userID string) (int64, error) {
	var bal int64
	err := r.db.QueryRow(ctx,
		`SELECT balance FROM balances WHERE user_id = $1`,
		userID,
	).Scan(&bal)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying balance: %w", err)
	}
	return bal, nil
}

// CanSpend reports whether the user's balance covers amount.
func (r *LedgerRepository) CanSpend(ctx context.Context, userID string, amount int64) (bool, error) {
	bal, err := r.Balance(ctx, userID)
	if err != nil {
		return false, err
	}
	return bal >= amount, nil
}

// Withdraw removes amount from the user's balance.
//
// Precondition: amount >= 0.
// Postcondition: Returns an error and leaves the balance untouched when it
// does not cover amount.
func (r *LedgerRepository) Withdraw(ctx context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("postgres: withdraw amount must be >= 0, got %d", amount)
	}
	if amount == 0 {
		return nil
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE balances SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2`,
		userID, amount,
	)
	if err != nil {
		return fmt.Errorf("withdrawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		bal, err := r.Balance(ctx, userID)
		if err != nil {
			return err
		}
		return fmt.Errorf("postgres: balance %d does not cover withdrawal of %d", bal, amount)
	}
	return nil
}

// Deposit credits amount to the user, clamping at the cap.
//
// Precondition: amount >= 0.
// Postcondition: Returns the amount actually credited.
func (r *LedgerRepository) Deposit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("postgres: deposit amount must be >= 0, got %d", amount)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning deposit: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	credited, err := r.credit(ctx, tx, userID, amount)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing deposit: %w", err)
	}
	return credited, nil
}

// credit locks the account row, applies the clamped deposit, and returns the
// amount actually credited.
func (r *LedgerRepository) credit(ctx context.Context, tx pgx.Tx, userID string, amount int64) (int64, error) {
	var bal int64
	err := tx.QueryRow(ctx,
		`SELECT balance FROM balances WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&bal)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("locking balance: %w", err)
	}

	room := r.max - bal
	if amount > room {
		amount = room
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO balances (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET balance = balances.balance + $2, updated_at = NOW()`,
		userID, amount,
	)
	if err != nil {
		return 0, fmt.Errorf("crediting balance: %w", err)
	}
	return amount, nil
}

// Transfer moves amount from one account to another, withholding taxRate of
// it on the way. The full amount leaves the sender; the receiver is credited
// the after-tax remainder, clamped at the cap.
//
// Precondition: amount >= 0 and 0 <= taxRate < 1.
// Postcondition: Returns the amount credited to the receiver.
func (r *LedgerRepository) Transfer(ctx context.Context, from, to string, amount int64, taxRate float64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("postgres: transfer amount must be >= 0, got %d", amount)
	}
	if taxRate < 0 || taxRate >= 1 {
		return 0, fmt.Errorf("postgres: tax rate must be in [0, 1), got %v", taxRate)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transfer: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock rows in id order so crossing transfers cannot deadlock.
	var senderBal int64
	for _, id := range lockOrder(from, to) {
		var bal int64
		err := tx.QueryRow(ctx,
			`SELECT balance FROM balances WHERE user_id = $1 FOR UPDATE`,
			id,
		).Scan(&bal)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("locking balance: %w", err)
		}
		if id == from {
			senderBal = bal
		}
	}
	if senderBal < amount {
		return 0, fmt.Errorf("postgres: balance %d does not cover transfer of %d", senderBal, amount)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO balances (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO UPDATE SET balance = balances.balance - $2, updated_at = NOW()`,
		from, amount,
	)
	if err != nil {
		return 0, fmt.Errorf("debiting sender: %w", err)
	}

	net := amount - int64(float64(amount)*taxRate)
	credited, err := r.credit(ctx, tx, to, net)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing transfer: %w", err)
	}
	return credited, nil
}

func lockOrder(a, b string) []string {
	if b < a {
		a, b = b, a
	}
	if a == b {
		return []string{a}
	}
	return []string{a, b}
}
