package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// Serializable isolation must never let two concurrent withdrawals both spend
// the same funds, no matter how the scheduler interleaves them. Conflicted
// attempts are retried here the way the HTTP layer does.
func TestConcurrentWithdrawals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	e := newEnv(t)
	e.DB.TruncateAll(ctx)

	account := e.DB.CreateTestAccount(ctx, "user-1", domain.AccountTypeChecking, "USD")

	if _, err := e.TransactionUC.Deposit(ctx, usecase.DepositInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(1000),
		Currency:  "USD",
	}); err != nil {
		t.Fatalf("failed to fund account: %v", err)
	}

	numWithdrawals := 150 // only 100 can succeed at 10 each
	amount := decimal.NewFromInt(10)

	var (
		wg           sync.WaitGroup
		successCount atomic.Int32
		rejectCount  atomic.Int32
	)

	wg.Add(numWithdrawals)

	for i := 0; i < numWithdrawals; i++ {
		go func() {
			defer wg.Done()

			err := withRetry(ctx, 10, func() error {
				_, err := e.TransactionUC.Withdraw(ctx, usecase.WithdrawInput{
					AccountID: account.ID,
					Amount:    amount,
					Currency:  "USD",
				})
				return err
			})

			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientFunds):
				rejectCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if got := successCount.Load(); got != 100 {
		t.Fatalf("expected exactly 100 successful withdrawals, got %d", got)
	}
	if got := rejectCount.Load(); got != 50 {
		t.Fatalf("expected 50 insufficient-funds rejections, got %d", got)
	}

	balance, err := e.Balances.Balance(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance after draining, got %s", balance)
	}
}

func TestConcurrentTransfersPreserveTotal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	e := newEnv(t)
	e.DB.TruncateAll(ctx)

	a := e.DB.CreateTestAccount(ctx, "user-1", domain.AccountTypeChecking, "USD")
	b := e.DB.CreateTestAccount(ctx, "user-2", domain.AccountTypeChecking, "USD")

	for _, acc := range []string{a.ID, b.ID} {
		if _, err := e.TransactionUC.Deposit(ctx, usecase.DepositInput{
			AccountID: acc,
			Amount:    decimal.NewFromInt(500),
			Currency:  "USD",
		}); err != nil {
			t.Fatalf("failed to fund account: %v", err)
		}
	}

	// Ping-pong transfers in both directions at once.
	numTransfers := 50
	amount := decimal.NewFromInt(5)

	var wg sync.WaitGroup
	wg.Add(numTransfers * 2)

	transfer := func(src, dst string) {
		defer wg.Done()

		err := withRetry(ctx, 10, func() error {
			_, err := e.TransactionUC.Transfer(ctx, usecase.TransferInput{
				SourceAccountID:      src,
				DestinationAccountID: dst,
				Amount:               amount,
				Currency:             "USD",
			})
			return err
		})
		if err != nil && !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Errorf("unexpected transfer error: %v", err)
		}
	}

	for i := 0; i < numTransfers; i++ {
		go transfer(a.ID, b.ID)
		go transfer(b.ID, a.ID)
	}

	wg.Wait()

	balanceA, err := e.Balances.Balance(ctx, a.ID)
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	balanceB, err := e.Balances.Balance(ctx, b.ID)
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}

	total := balanceA.Add(balanceB)
	if !total.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("transfers must conserve total funds, got %s + %s = %s", balanceA, balanceB, total)
	}

	if balanceA.IsNegative() || balanceB.IsNegative() {
		t.Fatalf("no account may go negative, got %s and %s", balanceA, balanceB)
	}
}

func withRetry(ctx context.Context, attempts int, op func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil || !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
	}
	return err
}
