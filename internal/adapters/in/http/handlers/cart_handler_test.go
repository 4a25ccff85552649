package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "drip/internal/application/usecase"
	itemdom "drip/internal/domain/item"
	transferdom "drip/internal/domain/transfer"
)

type stubLedger struct {
	balance     float64
	transferErr error
}

func (l *stubLedger) Balance(context.Context, string) (float64, error) { return l.balance, nil }

func (l *stubLedger) Transfer(context.Context, string, string, float64) error {
	return l.transferErr
}

func newTestCartHandler(repo *memItemRepo, ledger *stubLedger) http.Handler {
	checkout := usecase.NewCheckoutUsecase(ledger, nil)
	items := usecase.NewItemUsecase(repo, memImageStore{}, stubClassifier{})
	return NewCartHandler(checkout, items, "merchant_account_123")
}

func addToCart(t *testing.T, h http.Handler, uid, itemID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"itemId":"`+itemID+`"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(req, uid))
	return rec
}

func TestCartAddAndGet(t *testing.T) {
	repo := newMemItemRepo()
	repo.items["item-1"] = itemdom.Item{ID: "item-1", OwnerID: "seller-1", Price: "25.00"}
	h := newTestCartHandler(repo, &stubLedger{})

	rec := addToCart(t, h, "buyer-1", "item-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(req, "buyer-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Cart struct {
			Items []itemdom.Item `json:"items"`
		} `json:"cart"`
		Subtotal float64 `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Cart.Items, 1)
	assert.InDelta(t, 25.00, resp.Subtotal, 1e-9)
}

func TestCartAddUnknownItem(t *testing.T) {
	h := newTestCartHandler(newMemItemRepo(), &stubLedger{})
	rec := addToCart(t, h, "buyer-1", "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartRemove(t *testing.T) {
	repo := newMemItemRepo()
	repo.items["item-1"] = itemdom.Item{ID: "item-1", OwnerID: "seller-1", Price: "25.00"}
	h := newTestCartHandler(repo, &stubLedger{})

	addToCart(t, h, "buyer-1", "item-1")

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/item-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(req, "buyer-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Cart struct {
			Items []itemdom.Item `json:"items"`
		} `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Cart.Items)
}

func TestCartRequiresAuth(t *testing.T) {
	h := newTestCartHandler(newMemItemRepo(), &stubLedger{})
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutEndpoint(t *testing.T) {
	repo := newMemItemRepo()
	repo.items["item-1"] = itemdom.Item{ID: "item-1", OwnerID: "seller-1", Price: "10.00"}
	repo.items["item-2"] = itemdom.Item{ID: "item-2", OwnerID: "seller-2", Price: "15.00"}
	h := newTestCartHandler(repo, &stubLedger{balance: 1000})

	addToCart(t, h, "buyer-1", "item-1")
	addToCart(t, h, "buyer-1", "item-2")

	req := httptest.NewRequest(http.MethodPost, "/cart/checkout",
		strings.NewReader(`{"payerAccountId":"acc-buyer"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(req, "buyer-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tr transferdom.Transfer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	assert.Equal(t, transferdom.StatusCompleted, tr.Status)
	assert.InDelta(t, 35.04, tr.Amount, 1e-9)
	assert.Equal(t, "merchant_account_123", tr.ToAccount, "payee defaults to the merchant account")
}

func TestCheckoutInsufficientFunds(t *testing.T) {
	repo := newMemItemRepo()
	repo.items["item-1"] = itemdom.Item{ID: "item-1", OwnerID: "seller-1", Price: "100.00"}
	h := newTestCartHandler(repo, &stubLedger{balance: 5})

	addToCart(t, h, "buyer-1", "item-1")

	req := httptest.NewRequest(http.MethodPost, "/cart/checkout",
		strings.NewReader(`{"payerAccountId":"acc-buyer"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(req, "buyer-1"))
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestCheckoutEmptyCart(t *testing.T) {
	h := newTestCartHandler(newMemItemRepo(), &stubLedger{balance: 1000})

	req := httptest.NewRequest(http.MethodPost, "/cart/checkout",
		strings.NewReader(`{"payerAccountId":"acc-buyer"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(req, "buyer-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
