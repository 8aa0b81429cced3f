package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/adapter/http/dto"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func depositJSON(t *testing.T, e *env, accountID, amount, currency string) dto.TransactionResponse {
	t.Helper()

	body, _ := json.Marshal(dto.DepositRequest{
		AccountID: accountID,
		Amount:    mustDecimal(t, amount),
		Currency:  currency,
	})

	r := httptest.NewRequest(http.MethodPost, "/api/v1/deposits", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	e.Router.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("deposit failed: %d: %s", w.Code, w.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode deposit response: %v", err)
	}
	return resp
}

func withdrawJSON(t *testing.T, e *env, accountID, amount, currency string) dto.TransactionResponse {
	t.Helper()

	body, _ := json.Marshal(dto.WithdrawRequest{
		AccountID: accountID,
		Amount:    mustDecimal(t, amount),
		Currency:  currency,
	})

	r := httptest.NewRequest(http.MethodPost, "/api/v1/withdrawals", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	e.Router.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("withdraw failed: %d: %s", w.Code, w.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode withdraw response: %v", err)
	}
	return resp
}
