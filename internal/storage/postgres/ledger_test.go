package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/adventure/internal/storage/postgres"
	"github.com/cory-johannsen/adventure/internal/testutil"
)

func TestLedgerRepository_BalanceDefaultsToZero(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 0)

	bal, err := ledger.Balance(context.Background(), "bo")
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestLedgerRepository_DepositAndBalance(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 0)
	ctx := context.Background()

	credited, err := ledger.Deposit(ctx, "bo", 400)
	require.NoError(t, err)
	assert.Equal(t, int64(400), credited)

	credited, err = ledger.Deposit(ctx, "bo", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), credited)

	bal, err := ledger.Balance(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, int64(500), bal)
}

func TestLedgerRepository_DepositClampsAtCap(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 1000)
	ctx := context.Background()

	_, err := ledger.Deposit(ctx, "bo", 800)
	require.NoError(t, err)

	credited, err := ledger.Deposit(ctx, "bo", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(200), credited, "only the room below the cap is credited")

	bal, err := ledger.Balance(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), bal)
}

func TestLedgerRepository_DepositValidation(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 0)

	_, err := ledger.Deposit(context.Background(), "bo", -1)
	require.Error(t, err)
}

func TestLedgerRepository_CanSpend(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 0)
	ctx := context.Background()

	_, err := ledger.Deposit(ctx, "bo", 250)
	require.NoError(t, err)

	ok, err := ledger.CanSpend(ctx, "bo", 250)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.CanSpend(ctx, "bo", 251)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ledger.CanSpend(ctx, "mim", 1)
	require.NoError(t, err)
	assert.False(t, ok, "unknown accounts hold zero")
}

func TestLedgerRepository_Withdraw(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 0)
	ctx := context.Background()

	_, err := ledger.Deposit(ctx, "bo", 300)
	require.NoError(t, err)

	require.NoError(t, ledger.Withdraw(ctx, "bo", 120))

	bal, err := ledger.Balance(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, int64(180), bal)

	err = ledger.Withdraw(ctx, "bo", 181)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not cover withdrawal")

	bal, err = ledger.Balance(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, int64(180), bal, "a failed withdrawal leaves the balance untouched")

	require.Error(t, ledger.Withdraw(ctx, "bo", -5))
}

func TestLedgerRepository_Transfer(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 0)
	ctx := context.Background()

	_, err := ledger.Deposit(ctx, "bo", 1000)
	require.NoError(t, err)

	credited, err := ledger.Transfer(ctx, "bo", "mim", 100, 0.05)
	require.NoError(t, err)
	assert.Equal(t, int64(95), credited)

	boBal, err := ledger.Balance(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, int64(900), boBal, "the full amount leaves the sender")

	mimBal, err := ledger.Balance(ctx, "mim")
	require.NoError(t, err)
	assert.Equal(t, int64(95), mimBal)
}

func TestLedgerRepository_TransferInsufficient(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 0)
	ctx := context.Background()

	_, err := ledger.Deposit(ctx, "bo", 50)
	require.NoError(t, err)

	_, err = ledger.Transfer(ctx, "bo", "mim", 100, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not cover transfer")

	bal, err := ledger.Balance(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, int64(50), bal)
}

func TestLedgerRepository_TransferClampsReceiverAtCap(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 1000)
	ctx := context.Background()

	_, err := ledger.Deposit(ctx, "bo", 500)
	require.NoError(t, err)
	_, err = ledger.Deposit(ctx, "mim", 950)
	require.NoError(t, err)

	credited, err := ledger.Transfer(ctx, "bo", "mim", 200, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(50), credited, "the receiver only has room for 50")

	boBal, err := ledger.Balance(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, int64(300), boBal, "the sender still pays the full amount")

	mimBal, err := ledger.Balance(ctx, "mim")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), mimBal)
}

func TestLedgerRepository_TransferValidation(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 0)
	ctx := context.Background()

	_, err := ledger.Transfer(ctx, "bo", "mim", -1, 0)
	require.Error(t, err)

	_, err = ledger.Transfer(ctx, "bo", "mim", 10, 1.0)
	require.Error(t, err)

	_, err = ledger.Transfer(ctx, "bo", "mim", 10, -0.1)
	require.Error(t, err)
}

// TestLedgerRepository_Property_DepositWithdrawRoundTrip verifies that
// depositing then withdrawing the same uncapped amount always restores the
// starting balance.
func TestLedgerRepository_Property_DepositWithdrawRoundTrip(t *testing.T) {
	ledger := postgres.NewLedgerRepository(testutil.NewPool(t), 0)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		id := uniqueID("purse")
		amount := rapid.Int64Range(0, 100_000).Draw(rt, "amount")

		credited, err := ledger.Deposit(ctx, id, amount)
		require.NoError(t, err)
		require.Equal(t, amount, credited)

		require.NoError(t, ledger.Withdraw(ctx, id, amount))

		bal, err := ledger.Balance(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, bal)
	})
}
