package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cartdom "drip/internal/domain/cart"
	itemdom "drip/internal/domain/item"
	transferdom "drip/internal/domain/transfer"
)

const (
	// ShippingFee is the flat per-order shipping charge.
	ShippingFee = 6.29
	// TaxAndFeesRate is applied to the cart subtotal.
	TaxAndFeesRate = 0.15
)

var (
	ErrCheckoutInvalidArgument = errors.New("checkout_uc: invalid argument")
	ErrCartEmpty               = errors.New("checkout_uc: cart is empty")
	ErrCartInvalidPrice        = errors.New("checkout_uc: cart contains an unparsable price")
	ErrInsufficientFunds       = errors.New("checkout_uc: insufficient funds")
	ErrTransferFailed          = errors.New("checkout_uc: transfer failed")
)

// LedgerClient is the payment-rail outbound port: one balance read and one
// transfer write per checkout, no retries here.
type LedgerClient interface {
	Balance(ctx context.Context, accountID string) (float64, error)
	Transfer(ctx context.Context, fromAccount, toAccount string, amount float64) error
}

// ReceiptMailer sends a best-effort purchase receipt after a completed
// checkout. A nil mailer disables receipts.
type ReceiptMailer interface {
	SendReceipt(ctx context.Context, toEmail string, t *transferdom.Transfer, items []itemdom.Item) error
}

// cartSession guards one buyer's cart: one mutation (or checkout) in flight
// at a time, so a checkout never reads a total that a concurrent remove has
// just invalidated.
type cartSession struct {
	mu   sync.Mutex
	cart *cartdom.Cart
}

// CheckoutUsecase maintains per-buyer in-memory carts and drives a payment
// attempt to completion or failure. Carts are explicitly constructed state,
// not process-wide globals; tests build their own usecase with fakes.
type CheckoutUsecase struct {
	ledger LedgerClient
	mailer ReceiptMailer

	mu       sync.Mutex
	sessions map[string]*cartSession

	now   func() time.Time
	newID func() string
}

func NewCheckoutUsecase(ledger LedgerClient, mailer ReceiptMailer) *CheckoutUsecase {
	return &CheckoutUsecase{
		ledger:   ledger,
		mailer:   mailer,
		sessions: map[string]*cartSession{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (uc *CheckoutUsecase) session(ownerID string) *cartSession {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s, ok := uc.sessions[ownerID]
	if !ok {
		s = &cartSession{cart: cartdom.New(ownerID)}
		uc.sessions[ownerID] = s
	}
	return s
}

// AddItem puts the item in the buyer's cart; adding an id that is already
// present is a no-op.
func (uc *CheckoutUsecase) AddItem(ownerID string, it itemdom.Item) (*cartdom.Cart, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" || strings.TrimSpace(it.ID) == "" {
		return nil, ErrCheckoutInvalidArgument
	}

	s := uc.session(ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(it)
	return snapshotCart(s.cart), nil
}

// RemoveItem drops the item id from the cart; no-op when absent.
func (uc *CheckoutUsecase) RemoveItem(ownerID, itemID string) (*cartdom.Cart, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" || strings.TrimSpace(itemID) == "" {
		return nil, ErrCheckoutInvalidArgument
	}

	s := uc.session(ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(itemID)
	return snapshotCart(s.cart), nil
}

// GetCart returns a copy of the buyer's cart.
func (uc *CheckoutUsecase) GetCart(ownerID string) (*cartdom.Cart, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrCheckoutInvalidArgument
	}

	s := uc.session(ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotCart(s.cart), nil
}

// Total is the cart subtotal (no shipping or fees).
func (uc *CheckoutUsecase) Total(ownerID string) (float64, error) {
	c, err := uc.GetCart(ownerID)
	if err != nil {
		return 0, err
	}
	return c.Subtotal(), nil
}

// CheckoutInput identifies the two ledger accounts and an optional receipt
// address.
type CheckoutInput struct {
	PayerAccountID string
	PayeeAccountID string
	ReceiptEmail   string
}

// Checkout charges subtotal + shipping + tax-and-fees (rounded to cents).
//
// The balance read and the transfer write are the only remote calls; any
// failure before transfer success leaves the cart and every item untouched.
// On success the cart is cleared and a completed Transfer is returned; on
// transfer failure the failed Transfer is returned alongside the error.
func (uc *CheckoutUsecase) Checkout(ctx context.Context, ownerID string, in CheckoutInput) (*transferdom.Transfer, error) {
	ownerID = strings.TrimSpace(ownerID)
	payer := strings.TrimSpace(in.PayerAccountID)
	payee := strings.TrimSpace(in.PayeeAccountID)
	if ownerID == "" || payer == "" || payee == "" {
		return nil, ErrCheckoutInvalidArgument
	}

	s := uc.session(ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Len() == 0 {
		return nil, ErrCartEmpty
	}
	items := s.cart.Snapshot()

	subtotal, err := strictSubtotal(items)
	if err != nil {
		return nil, err
	}
	total := roundToCents(subtotal + ShippingFee + subtotal*TaxAndFeesRate)

	balance, err := uc.ledger.Balance(ctx, payer)
	if err != nil {
		return nil, fmt.Errorf("checkout_uc: balance check: %w", err)
	}
	if balance < total {
		return nil, fmt.Errorf("%w: balance=%.2f total=%.2f", ErrInsufficientFunds, balance, total)
	}

	t, err := transferdom.New(uc.newID(), payer, payee, total, uc.now())
	if err != nil {
		return nil, fmt.Errorf("checkout_uc: %w", err)
	}

	if err := uc.ledger.Transfer(ctx, payer, payee, total); err != nil {
		t.Fail()
		return t, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	t.Complete()
	s.cart.Clear()
	log.Printf("[checkout_uc] checkout completed owner=%s transfer=%s amount=%.2f items=%d",
		ownerID, t.ID, t.Amount, len(items))

	uc.sendReceipt(ctx, in.ReceiptEmail, t, items)

	return t, nil
}

// sendReceipt never fails the checkout; mail problems are only logged.
func (uc *CheckoutUsecase) sendReceipt(ctx context.Context, toEmail string, t *transferdom.Transfer, items []itemdom.Item) {
	toEmail = strings.TrimSpace(toEmail)
	if uc.mailer == nil || toEmail == "" {
		return
	}
	if err := uc.mailer.SendReceipt(ctx, toEmail, t, items); err != nil {
		log.Printf("[checkout_uc] WARN: receipt mail failed transfer=%s err=%v", t.ID, err)
	}
}

// strictSubtotal rejects unparsable prices instead of zero-substituting
// them; a free item sneaking into a charge is worse than a failed checkout.
func strictSubtotal(items []itemdom.Item) (float64, error) {
	var sum float64
	for i := range items {
		v, err := itemdom.ParsePrice(items[i].Price)
		if err != nil {
			return 0, fmt.Errorf("%w: item %s price %q", ErrCartInvalidPrice, items[i].ID, items[i].Price)
		}
		sum += v
	}
	return sum, nil
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func snapshotCart(c *cartdom.Cart) *cartdom.Cart {
	return &cartdom.Cart{
		OwnerID: c.OwnerID,
		Items:   c.Snapshot(),
	}
}
