package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// BalanceCalculator derives account balances by folding ledger entries. It is
// read-only and holds no state of its own; every call recomputes from the
// store, which is what keeps the ledger the single source of truth.
type BalanceCalculator struct {
	entryRepo EntryRepository
}

// NewBalanceCalculator creates a new BalanceCalculator.
func NewBalanceCalculator(entryRepo EntryRepository) *BalanceCalculator {
	return &BalanceCalculator{entryRepo: entryRepo}
}

// Balance computes the current balance of an account from its ledger entries.
// An account with no entries has balance zero.
func (c *BalanceCalculator) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	entries, err := c.entryRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return domain.BalanceOf(entries), nil
}

// BalanceTx computes the balance inside an open scope, so the read sees the
// scope's consistent snapshot and conflicts with concurrent writers under
// serializable isolation.
func (c *BalanceCalculator) BalanceTx(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error) {
	entries, err := c.entryRepo.ListByAccountTx(ctx, tx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return domain.BalanceOf(entries), nil
}
