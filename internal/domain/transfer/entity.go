package transfer

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidTransfer = errors.New("transfer: invalid")

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Transfer is one payment attempt against the ledger.
// It reaches a terminal status synchronously from the ledger response; there
// is no async settlement.
type Transfer struct {
	ID          string    `json:"id"`
	FromAccount string    `json:"fromAccount"`
	ToAccount   string    `json:"toAccount"`
	Amount      float64   `json:"amount"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// New creates a pending transfer. amount must be positive.
func New(id, fromAccount, toAccount string, amount float64, now time.Time) (*Transfer, error) {
	id = strings.TrimSpace(id)
	from := strings.TrimSpace(fromAccount)
	to := strings.TrimSpace(toAccount)
	if id == "" || from == "" || to == "" || amount <= 0 {
		return nil, ErrInvalidTransfer
	}
	return &Transfer{
		ID:          id,
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
		Status:      StatusPending,
		CreatedAt:   now,
	}, nil
}

func (t *Transfer) Complete() { t.Status = StatusCompleted }
func (t *Transfer) Fail()     { t.Status = StatusFailed }
