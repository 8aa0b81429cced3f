package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/usecase"
)

// ConsistencyService defines the behavior needed by ConsistencyHandler.
type ConsistencyService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// ConsistencyHandler exposes the ledger-wide integrity check.
type ConsistencyHandler struct {
	ledgerUC ConsistencyService
}

// NewConsistencyHandler creates a new ConsistencyHandler.
func NewConsistencyHandler(ledgerUC ConsistencyService) *ConsistencyHandler {
	return &ConsistencyHandler{ledgerUC: ledgerUC}
}

// Check verifies every transaction's double-entry shape. A clean ledger
// answers 200, a ledger with malformed transactions 409 with the offending
// transaction ids.
func (h *ConsistencyHandler) Check(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	if !report.Consistent {
		writeJSON(w, http.StatusConflict, map[string]any{
			"status":               "inconsistent",
			"consistent":           false,
			"unbalanced_transfers": report.UnbalancedTransfers,
			"malformed_movements":  report.MalformedMovements,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "consistent",
		"consistent": true,
	})
}
