package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// TransactionUseCase is the transactional ledger engine. Each operation writes
// its transaction record and ledger entries in one atomic scope; withdraw and
// transfer read the source balance inside that same scope at serializable
// isolation, so two racing operations can never both spend the same funds.
// The engine never retries conflicts itself; they surface as
// domain.ErrTxConflict for the caller to retry.
type TransactionUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	entryRepo   EntryRepository
	balances    *BalanceCalculator
	idGen       IDGenerator
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	entryRepo EntryRepository,
	balances *BalanceCalculator,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		entryRepo:   entryRepo,
		balances:    balances,
		idGen:       idGen,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Currency    string
	Description *string
}

// Deposit credits an account. There is no balance precondition; the scope only
// fails on store-level errors.
func (uc *TransactionUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Transaction, error) {
	if err := validateOperation(input.Amount, input.Currency, input.Description); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.checkAccount(ctx, tx, input.AccountID, input.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:                   uc.idGen.Generate(),
		Type:                 domain.TransactionTypeDeposit,
		DestinationAccountID: &account.ID,
		Amount:               input.Amount,
		Currency:             account.Currency,
		Status:               domain.TransactionStatusCompleted,
		Description:          input.Description,
		CreatedAt:            now,
	}

	if err := uc.writeTransaction(ctx, tx, txn, []*domain.LedgerEntry{
		uc.newEntry(account.ID, txn.ID, domain.EntryKindCredit, input.Amount, now),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Currency    string
	Description *string
}

// Withdraw debits an account after checking funds availability. The balance
// read and the writes share one serializable scope; a concurrent commit that
// would invalidate the read aborts this scope with domain.ErrTxConflict.
func (uc *TransactionUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Transaction, error) {
	if err := validateOperation(input.Amount, input.Currency, input.Description); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.BeginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.checkAccount(ctx, tx, input.AccountID, input.Currency)
	if err != nil {
		return nil, err
	}

	balance, err := uc.balances.BalanceTx(ctx, tx, account.ID)
	if err != nil {
		return nil, err
	}

	if balance.Sub(input.Amount).IsNegative() {
		return nil, domain.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:              uc.idGen.Generate(),
		Type:            domain.TransactionTypeWithdrawal,
		SourceAccountID: &account.ID,
		Amount:          input.Amount,
		Currency:        account.Currency,
		Status:          domain.TransactionStatusCompleted,
		Description:     input.Description,
		CreatedAt:       now,
	}

	if err := uc.writeTransaction(ctx, tx, txn, []*domain.LedgerEntry{
		uc.newEntry(account.ID, txn.ID, domain.EntryKindDebit, input.Amount, now),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	SourceAccountID      string
	DestinationAccountID string
	Amount               decimal.Decimal
	Currency             string
	Description          *string
}

// Transfer moves funds between two accounts as a balanced pair of ledger
// entries, one debit and one credit of equal amount, committed together.
func (uc *TransactionUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Transaction, error) {
	if input.SourceAccountID == input.DestinationAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := validateOperation(input.Amount, input.Currency, input.Description); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.BeginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	source, err := uc.checkAccount(ctx, tx, input.SourceAccountID, input.Currency)
	if err != nil {
		return nil, err
	}

	destination, err := uc.checkAccount(ctx, tx, input.DestinationAccountID, input.Currency)
	if err != nil {
		return nil, err
	}

	balance, err := uc.balances.BalanceTx(ctx, tx, source.ID)
	if err != nil {
		return nil, err
	}

	if balance.Sub(input.Amount).IsNegative() {
		return nil, domain.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:                   uc.idGen.Generate(),
		Type:                 domain.TransactionTypeTransfer,
		SourceAccountID:      &source.ID,
		DestinationAccountID: &destination.ID,
		Amount:               input.Amount,
		Currency:             source.Currency,
		Status:               domain.TransactionStatusCompleted,
		Description:          input.Description,
		CreatedAt:            now,
	}

	if err := uc.writeTransaction(ctx, tx, txn, []*domain.LedgerEntry{
		uc.newEntry(source.ID, txn.ID, domain.EntryKindDebit, input.Amount, now),
		uc.newEntry(destination.ID, txn.ID, domain.EntryKindCredit, input.Amount, now),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// ListTransactionsByAccountInput represents input for listing transactions.
type ListTransactionsByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransactionsByAccount lists transactions touching an account.
func (uc *TransactionUseCase) ListTransactionsByAccount(ctx context.Context, input ListTransactionsByAccountInput) ([]*domain.Transaction, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.txnRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

// checkAccount reads an account inside the scope and verifies it can take
// ledger activity in the given currency.
func (uc *TransactionUseCase) checkAccount(ctx context.Context, tx Transaction, accountID, currency string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByIDTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.IsActive() {
		return nil, domain.ErrAccountNotActive
	}

	if account.Currency != normalizeCurrency(currency) {
		return nil, domain.ErrCurrencyMismatch
	}

	return account, nil
}

// writeTransaction persists the transaction record and its ledger entries
// inside the open scope.
func (uc *TransactionUseCase) writeTransaction(ctx context.Context, tx Transaction, txn *domain.Transaction, entries []*domain.LedgerEntry) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}
	}

	return nil
}

func (uc *TransactionUseCase) newEntry(accountID, txnID string, kind domain.EntryKind, amount decimal.Decimal, now time.Time) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		AccountID:     accountID,
		TransactionID: txnID,
		Kind:          kind,
		Amount:        amount,
		CreatedAt:     now,
	}
}

func validateOperation(amount decimal.Decimal, currency string, description *string) error {
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}

	if err := domain.ValidateCurrency(currency); err != nil {
		return err
	}

	return domain.ValidateDescription(description)
}

func normalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
