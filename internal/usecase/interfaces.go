package usecase

import (
	"context"
	"time"

	"github.com/iho/bankledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIDTx reads an account inside an open scope so the row is part of
	// the scope's consistent snapshot.
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transaction records.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	// ListByAccount returns all entries for an account ordered by creation
	// time ascending.
	ListByAccount(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error)
	// ListByAccountTx is ListByAccount inside an open scope. Withdraw and
	// transfer must read balances through this variant so the read and the
	// subsequent writes share one serializable scope.
	ListByAccountTx(ctx context.Context, tx Transaction, accountID string) ([]*domain.LedgerEntry, error)
	ListByTransaction(ctx context.Context, transactionID string) ([]*domain.LedgerEntry, error)
}

// LedgerRepository defines ledger-wide integrity queries.
type LedgerRepository interface {
	// UnbalancedTransfers returns ids of transfer transactions whose entries
	// do not form a two-sided pair with a zero signed sum.
	UnbalancedTransfers(ctx context.Context) ([]string, error)
	// MalformedMovements returns ids of deposit and withdrawal transactions
	// that do not carry exactly one entry of the expected kind.
	MalformedMovements(ctx context.Context) ([]string, error)
}

// Transaction represents a database transaction scope.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction scope lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
	// BeginSerializable opens a scope at SERIALIZABLE isolation. Required for
	// every read-balance-then-write sequence.
	BeginSerializable(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation when it fails with a retryable store conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
