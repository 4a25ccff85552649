// internal/adapters/in/http/handlers/cart_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	usecase "drip/internal/application/usecase"
	cartdom "drip/internal/domain/cart"

	"drip/internal/adapters/in/http/middleware"
)

// CartHandler serves the per-buyer cart and checkout.
//
//	GET    /cart
//	POST   /cart/items       {"itemId": "..."}
//	DELETE /cart/items/{id}
//	POST   /cart/checkout    {"payerAccountId": "...", ...}
type CartHandler struct {
	checkout *usecase.CheckoutUsecase
	items    *usecase.ItemUsecase

	// merchantAccountID is the default payee when the request omits one.
	merchantAccountID string
}

func NewCartHandler(checkout *usecase.CheckoutUsecase, items *usecase.ItemUsecase, merchantAccountID string) http.Handler {
	return &CartHandler{checkout: checkout, items: items, merchantAccountID: merchantAccountID}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.checkout == nil || h.items == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/cart"):
		h.handleGet(w, uid)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/cart/items"):
		h.handleAddItem(w, r, uid)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/cart/items/"):
		h.handleRemoveItem(w, uid, trailingID(path, "/cart/items"))
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/cart/checkout"):
		h.handleCheckout(w, r, uid)
	default:
		methodNotAllowed(w)
	}
}

type cartResponse struct {
	Cart     *cartdom.Cart `json:"cart"`
	Subtotal float64       `json:"subtotal"`
}

func (h *CartHandler) writeCart(w http.ResponseWriter, status int, c *cartdom.Cart) {
	writeJSON(w, status, cartResponse{Cart: c, Subtotal: c.Subtotal()})
}

func (h *CartHandler) handleGet(w http.ResponseWriter, uid string) {
	c, err := h.checkout.GetCart(uid)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	h.writeCart(w, http.StatusOK, c)
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request, uid string) {
	var body struct {
		ItemID string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if strings.TrimSpace(body.ItemID) == "" {
		writeErr(w, http.StatusBadRequest, "itemId is required")
		return
	}

	it, err := h.items.Get(r.Context(), body.ItemID)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	c, err := h.checkout.AddItem(uid, *it)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	h.writeCart(w, http.StatusOK, c)
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, uid, itemID string) {
	if itemID == "" {
		writeErr(w, http.StatusBadRequest, "item id is required")
		return
	}
	c, err := h.checkout.RemoveItem(uid, itemID)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	h.writeCart(w, http.StatusOK, c)
}

type checkoutRequest struct {
	PayerAccountID string `json:"payerAccountId"`
	PayeeAccountID string `json:"payeeAccountId"`
	ReceiptEmail   string `json:"receiptEmail"`
}

func (h *CartHandler) handleCheckout(w http.ResponseWriter, r *http.Request, uid string) {
	var body checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if strings.TrimSpace(body.PayeeAccountID) == "" {
		body.PayeeAccountID = h.merchantAccountID
	}
	if strings.TrimSpace(body.ReceiptEmail) == "" {
		if email, ok := middleware.CurrentEmail(r); ok {
			body.ReceiptEmail = email
		}
	}

	t, err := h.checkout.Checkout(r.Context(), uid, usecase.CheckoutInput{
		PayerAccountID: body.PayerAccountID,
		PayeeAccountID: body.PayeeAccountID,
		ReceiptEmail:   body.ReceiptEmail,
	})
	if err != nil {
		log.Printf("[cart_handler] checkout failed owner=%s err=%v", uid, err)
		// A failed transfer still carries the transfer record for the client.
		if t != nil && errors.Is(err, usecase.ErrTransferFailed) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":    err.Error(),
				"transfer": t,
			})
			return
		}
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
