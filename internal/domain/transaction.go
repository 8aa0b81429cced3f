package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the business operation a transaction records.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
)

// TransactionStatus is the terminal state of a transaction. Only completed is
// reachable: a failed business check aborts the whole scope before the row is
// written, so no pending or failed rows ever exist.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

// Transaction records one business operation. Deposits carry only a
// destination account, withdrawals only a source, transfers both. The row and
// its ledger entries are written in the same atomic scope and are immutable
// thereafter.
type Transaction struct {
	ID                   string
	Type                 TransactionType
	SourceAccountID      *string
	DestinationAccountID *string
	Amount               decimal.Decimal
	Currency             string
	Status               TransactionStatus
	Description          *string
	CreatedAt            time.Time
}

// Validate checks the structural invariants of a transaction.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	switch t.Type {
	case TransactionTypeDeposit:
		if t.DestinationAccountID == nil || t.SourceAccountID != nil {
			return ErrMalformedTransaction
		}
	case TransactionTypeWithdrawal:
		if t.SourceAccountID == nil || t.DestinationAccountID != nil {
			return ErrMalformedTransaction
		}
	case TransactionTypeTransfer:
		if t.SourceAccountID == nil || t.DestinationAccountID == nil {
			return ErrMalformedTransaction
		}

		if *t.SourceAccountID == *t.DestinationAccountID {
			return ErrSameAccount
		}
	default:
		return ErrMalformedTransaction
	}

	return nil
}
