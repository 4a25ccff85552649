package httpout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/accounts/acc-1", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		_ = json.NewEncoder(w).Encode(map[string]any{"balance": 123.45})
	}))
	defer srv.Close()

	c := NewLedgerHTTPClient(srv.URL, "secret")
	got, err := c.Balance(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.InDelta(t, 123.45, got, 1e-9)
}

func TestBalanceNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewLedgerHTTPClient(srv.URL, "secret")
	_, err := c.Balance(context.Background(), "acc-1")
	require.Error(t, err)
}

func TestBalanceMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"nickname": "checking"})
	}))
	defer srv.Close()

	c := NewLedgerHTTPClient(srv.URL, "secret")
	_, err := c.Balance(context.Background(), "acc-1")
	require.ErrorIs(t, err, ErrLedgerInvalidResponse)
}

func TestTransfer(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts/acc-from/transfers", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewLedgerHTTPClient(srv.URL, "secret")
	err := c.Transfer(context.Background(), "acc-from", "acc-to", 35.04)
	require.NoError(t, err)

	assert.Equal(t, "balance", captured["medium"])
	assert.Equal(t, "acc-to", captured["payee_id"])
	assert.InDelta(t, 35.04, captured["amount"].(float64), 1e-9)
	assert.NotEmpty(t, captured["transaction_date"])
}

func TestTransferOnlyAcceptsCreated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK) // 200 is not success for this rail
	}))
	defer srv.Close()

	c := NewLedgerHTTPClient(srv.URL, "secret")
	err := c.Transfer(context.Background(), "acc-from", "acc-to", 35.04)
	require.Error(t, err)
}

func TestTransferValidatesInput(t *testing.T) {
	c := NewLedgerHTTPClient("http://ledger.test", "secret")

	assert.Error(t, c.Transfer(context.Background(), "", "acc-to", 1))
	assert.Error(t, c.Transfer(context.Background(), "acc-from", "", 1))
	assert.Error(t, c.Transfer(context.Background(), "acc-from", "acc-to", 0))
	assert.Error(t, c.Transfer(context.Background(), "acc-from", "acc-to", -5))
}
