package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// AccountUseCase handles account lifecycle and the read-only query surface.
type AccountUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	balances    *BalanceCalculator
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, entryRepo EntryRepository, balances *BalanceCalculator, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		balances:    balances,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UserID   string
	Type     domain.AccountType
	Currency string
}

// CreateAccount creates a new active account. No balance is initialized
// because none is stored.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateUserID(input.UserID); err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountType(input.Type); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		UserID:    input.UserID,
		Type:      input.Type,
		Currency:  normalizeCurrency(input.Currency),
		Status:    domain.AccountStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// AccountWithBalance is an account view with its derived balance attached.
type AccountWithBalance struct {
	Account *domain.Account
	Balance decimal.Decimal
}

// GetAccount retrieves an account with its balance computed from the ledger.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*AccountWithBalance, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	balance, err := uc.balances.Balance(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &AccountWithBalance{Account: account, Balance: balance}, nil
}

// GetLedger returns all ledger entries for an account ordered by creation
// time ascending. An account with no entries yields an empty slice.
func (uc *AccountUseCase) GetLedger(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByAccount(ctx, accountID)
}

// CloseAccount transitions an account to closed. The row is never deleted;
// its ledger history stays queryable.
func (uc *AccountUseCase) CloseAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.IsActive() {
		return nil, domain.ErrAccountNotActive
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateStatus(ctx, account.ID, domain.AccountStatusClosed, now); err != nil {
		return nil, err
	}

	account.Status = domain.AccountStatusClosed
	account.UpdatedAt = now

	return account, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// GetEntriesByTransaction lists the ledger entries written by one transaction.
func (uc *AccountUseCase) GetEntriesByTransaction(ctx context.Context, transactionID string) ([]*domain.LedgerEntry, error) {
	return uc.entryRepo.ListByTransaction(ctx, transactionID)
}
