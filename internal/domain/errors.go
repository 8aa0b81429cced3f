package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountNotActive = errors.New("account is not active")

	// Transaction errors
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSameAccount          = errors.New("cannot transfer to same account")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrCurrencyMismatch     = errors.New("transaction currency does not match account currency")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrTxConflict marks a serialization conflict or deadlock reported by the
	// store. The operation left no side effects and may be retried by the
	// caller.
	ErrTxConflict = errors.New("transaction conflict, retry")
)
