package usecase

import (
	"context"
)

// ConsistencyReport is the outcome of a ledger-wide integrity check.
type ConsistencyReport struct {
	Consistent          bool
	UnbalancedTransfers []string
	MalformedMovements  []string
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency verifies the double-entry shape of every transaction:
// each transfer must carry a credit/debit pair with a zero signed sum, and
// each deposit or withdrawal exactly one entry of the matching kind. Deposits
// and withdrawals move money across the system boundary, so the ledger-wide
// sum is not required to be zero; the check is per transaction.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	unbalanced, err := uc.ledgerRepo.UnbalancedTransfers(ctx)
	if err != nil {
		return nil, err
	}

	malformed, err := uc.ledgerRepo.MalformedMovements(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		Consistent:          len(unbalanced) == 0 && len(malformed) == 0,
		UnbalancedTransfers: unbalanced,
		MalformedMovements:  malformed,
	}, nil
}
