package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind distinguishes the two sides of the ledger.
type EntryKind string

const (
	EntryKindCredit EntryKind = "credit"
	EntryKindDebit  EntryKind = "debit"
)

// LedgerEntry records a single credit or debit against one account, tied to
// one transaction. Entries are immutable once written; there is no update or
// delete path anywhere in the system.
type LedgerEntry struct {
	ID            string
	AccountID     string
	TransactionID string
	Kind          EntryKind
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

// Signed returns the entry amount with its ledger sign applied: credits
// positive, debits negative.
func (e *LedgerEntry) Signed() decimal.Decimal {
	if e.Kind == EntryKindDebit {
		return e.Amount.Neg()
	}

	return e.Amount
}

// BalanceOf folds ledger entries into a balance. The fold is commutative, so
// entry order does not matter; an empty slice yields zero.
func BalanceOf(entries []*LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.Signed())
	}

	return balance
}
