package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Transaction, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Transaction, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, input usecase.ListTransactionsByAccountInput) ([]*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests. Serialization
// conflicts from the engine are retried here with bounded backoff; the engine
// itself never retries.
type TransactionHandler struct {
	txnUC   TransactionService
	retrier usecase.Retrier
	metrics *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txnUC TransactionService, retrier usecase.Retrier, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{
		txnUC:   txnUC,
		retrier: retrier,
		metrics: m,
	}
}

// Deposit credits an account.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.execute(w, r, string(domain.TransactionTypeDeposit), func(ctx context.Context) (*domain.Transaction, error) {
		return h.txnUC.Deposit(ctx, req.ToUseCaseInput())
	})
}

// Withdraw debits an account.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.execute(w, r, string(domain.TransactionTypeWithdrawal), func(ctx context.Context) (*domain.Transaction, error) {
		return h.txnUC.Withdraw(ctx, req.ToUseCaseInput())
	})
}

// Transfer moves funds between two accounts.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.execute(w, r, string(domain.TransactionTypeTransfer), func(ctx context.Context) (*domain.Transaction, error) {
		return h.txnUC.Transfer(ctx, req.ToUseCaseInput())
	})
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.txnUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// ListByAccount lists transactions touching an account.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	transactions, err := h.txnUC.ListTransactionsByAccount(r.Context(), usecase.ListTransactionsByAccountInput{
		AccountID: accountID,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transactions))
}

func (h *TransactionHandler) execute(w http.ResponseWriter, r *http.Request, operation string, op func(ctx context.Context) (*domain.Transaction, error)) {
	var txn *domain.Transaction

	run := func() error {
		var err error
		txn, err = op(r.Context())
		return err
	}

	var err error
	if h.retrier != nil {
		err = h.retrier.Retry(r.Context(), run)
	} else {
		err = run()
	}

	if err != nil {
		if h.metrics != nil {
			h.metrics.TransactionFailed(operation, err)
		}

		writeDomainError(w, err, "failed to execute "+operation)

		return
	}

	if h.metrics != nil {
		h.metrics.TransactionCompleted(operation)
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}
