package domain

import (
	"time"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusClosed AccountStatus = "closed"
)

// Account is an entity the ledger posts against. It deliberately carries no
// balance field: the balance is always derived from the account's ledger
// entries.
type Account struct {
	ID        string
	UserID    string
	Type      AccountType
	Currency  string
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the account accepts new ledger activity.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
