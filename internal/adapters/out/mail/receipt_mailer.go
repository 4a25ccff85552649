// internal/adapters/out/mail/receipt_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	itemdom "drip/internal/domain/item"
	transferdom "drip/internal/domain/transfer"
)

// EmailClient abstracts the concrete mail provider (SendGrid here, SMTP or
// SES elsewhere).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// ReceiptMailer implements usecase.ReceiptMailer on top of an EmailClient.
type ReceiptMailer struct {
	client      EmailClient
	fromAddress string
}

func NewReceiptMailer(client EmailClient, fromAddress string) *ReceiptMailer {
	return &ReceiptMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
	}
}

// SendReceipt mails a plain-text order receipt.
func (m *ReceiptMailer) SendReceipt(ctx context.Context, toEmail string, t *transferdom.Transfer, items []itemdom.Item) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("receipt mailer is not configured")
	}
	if t == nil {
		return fmt.Errorf("transfer is nil")
	}

	subject := fmt.Sprintf("Your drip order receipt (%s)", t.ID)

	var b strings.Builder
	b.WriteString("Thanks for your order!\n\n")
	for _, it := range items {
		name := strings.TrimSpace(it.Brand + " " + it.Subcategory)
		if name == "" {
			name = it.ID
		}
		fmt.Fprintf(&b, "  - %s  $%s\n", name, it.Price)
	}
	fmt.Fprintf(&b, "\nTotal charged: $%.2f\n", t.Amount)
	fmt.Fprintf(&b, "Transfer id: %s\n", t.ID)

	return m.client.Send(ctx, m.fromAddress, toEmail, subject, b.String())
}
