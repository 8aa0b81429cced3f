package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
)

func checkConsistency(t *testing.T, e *env) (int, map[string]any) {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, r)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode consistency response: %v", err)
	}
	return w.Code, body
}

func TestLedgerConsistency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	e := newEnv(t)

	t.Run("empty ledger is consistent", func(t *testing.T) {
		e.DB.TruncateAll(ctx)

		code, body := checkConsistency(t, e)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if body["consistent"] != true {
			t.Fatalf("expected consistent ledger, got %v", body)
		}
	})

	t.Run("ledger stays consistent across operations", func(t *testing.T) {
		e.DB.TruncateAll(ctx)
		source := e.DB.CreateTestAccount(ctx, "user-1", domain.AccountTypeChecking, "USD")
		dest := e.DB.CreateTestAccount(ctx, "user-2", domain.AccountTypeSavings, "USD")

		depositJSON(t, e, source.ID, "500", "USD")
		withdrawJSON(t, e, source.ID, "120.25", "USD")

		transferBody, _ := json.Marshal(dto.TransferRequest{
			SourceAccountID:      source.ID,
			DestinationAccountID: dest.ID,
			Amount:               mustDecimal(t, "50"),
			Currency:             "USD",
		})
		r := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(transferBody))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		e.Router.ServeHTTP(w, r)
		if w.Code != http.StatusCreated {
			t.Fatalf("transfer failed: %d: %s", w.Code, w.Body.String())
		}

		code, body := checkConsistency(t, e)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %v", code, body)
		}
		if body["status"] != "consistent" {
			t.Fatalf("expected consistent status, got %v", body)
		}
	})

	t.Run("one-sided transfer is flagged", func(t *testing.T) {
		e.DB.TruncateAll(ctx)
		source := e.DB.CreateTestAccount(ctx, "user-1", domain.AccountTypeChecking, "USD")
		dest := e.DB.CreateTestAccount(ctx, "user-2", domain.AccountTypeChecking, "USD")

		// Write a transfer row with only its debit leg, bypassing the engine.
		_, err := e.DB.Pool.Exec(ctx,
			`INSERT INTO transactions (id, type, source_account_id, destination_account_id, amount, currency, status, created_at)
			 VALUES ('txn-broken', 'transfer', $1, $2, 10, 'USD', 'completed', now())`,
			source.ID, dest.ID)
		if err != nil {
			t.Fatalf("failed to insert transaction: %v", err)
		}
		_, err = e.DB.Pool.Exec(ctx,
			`INSERT INTO ledger_entries (id, account_id, transaction_id, kind, amount, created_at)
			 VALUES ('entry-broken', $1, 'txn-broken', 'debit', 10, now())`,
			source.ID)
		if err != nil {
			t.Fatalf("failed to insert entry: %v", err)
		}

		code, body := checkConsistency(t, e)
		if code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %v", code, body)
		}
		unbalanced, ok := body["unbalanced_transfers"].([]any)
		if !ok || len(unbalanced) != 1 || unbalanced[0] != "txn-broken" {
			t.Fatalf("expected txn-broken flagged, got %v", body["unbalanced_transfers"])
		}
	})

	t.Run("deposit without entry is flagged", func(t *testing.T) {
		e.DB.TruncateAll(ctx)
		account := e.DB.CreateTestAccount(ctx, "user-1", domain.AccountTypeChecking, "USD")

		_, err := e.DB.Pool.Exec(ctx,
			`INSERT INTO transactions (id, type, destination_account_id, amount, currency, status, created_at)
			 VALUES ('txn-empty', 'deposit', $1, 25, 'USD', 'completed', now())`,
			account.ID)
		if err != nil {
			t.Fatalf("failed to insert transaction: %v", err)
		}

		code, body := checkConsistency(t, e)
		if code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %v", code, body)
		}
		malformed, ok := body["malformed_movements"].([]any)
		if !ok || len(malformed) != 1 || malformed[0] != "txn-empty" {
			t.Fatalf("expected txn-empty flagged, got %v", body["malformed_movements"])
		}
	})
}
