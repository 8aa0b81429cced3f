package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

func seedEntry(t *testing.T, repo *mocks.MockEntryRepository, accountID string, kind domain.EntryKind, amount string) {
	t.Helper()

	err := repo.Create(context.Background(), nil, &domain.LedgerEntry{
		ID:            amount + string(kind),
		AccountID:     accountID,
		TransactionID: "txn-1",
		Kind:          kind,
		Amount:        decimal.RequireFromString(amount),
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}
}

func TestBalanceCalculator_Balance(t *testing.T) {
	t.Run("empty ledger yields zero, not an error", func(t *testing.T) {
		calc := usecase.NewBalanceCalculator(mocks.NewMockEntryRepository())

		balance, err := calc.Balance(context.Background(), "acc-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.IsZero() {
			t.Errorf("expected zero, got %s", balance)
		}
	})

	t.Run("credits minus debits", func(t *testing.T) {
		entryRepo := mocks.NewMockEntryRepository()
		seedEntry(t, entryRepo, "acc-1", domain.EntryKindCredit, "100.50")
		seedEntry(t, entryRepo, "acc-1", domain.EntryKindDebit, "40.25")
		seedEntry(t, entryRepo, "acc-2", domain.EntryKindCredit, "999")

		calc := usecase.NewBalanceCalculator(entryRepo)

		balance, err := calc.Balance(context.Background(), "acc-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.Equal(decimal.RequireFromString("60.25")) {
			t.Errorf("expected 60.25, got %s", balance)
		}
	})

	t.Run("repository error propagates", func(t *testing.T) {
		entryRepo := mocks.NewMockEntryRepository()
		storeErr := errors.New("store unavailable")
		entryRepo.ListByAccountFunc = func(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
			return nil, storeErr
		}

		calc := usecase.NewBalanceCalculator(entryRepo)

		_, err := calc.Balance(context.Background(), "acc-1")
		if !errors.Is(err, storeErr) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}

func TestBalanceCalculator_BalanceTx(t *testing.T) {
	entryRepo := mocks.NewMockEntryRepository()
	seedEntry(t, entryRepo, "acc-1", domain.EntryKindCredit, "10")

	var sawTx usecase.Transaction
	entryRepo.ListByAccountTxFunc = func(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.LedgerEntry, error) {
		sawTx = tx
		return entryRepo.ListByAccount(ctx, accountID)
	}

	calc := usecase.NewBalanceCalculator(entryRepo)
	scope := &mocks.MockTransaction{}

	balance, err := calc.BalanceTx(context.Background(), scope, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected 10, got %s", balance)
	}
	if sawTx != scope {
		t.Error("read must happen inside the caller's scope")
	}
}
