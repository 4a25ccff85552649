package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itemdom "drip/internal/domain/item"
	transferdom "drip/internal/domain/transfer"
)

type fakeEmailClient struct {
	from, to, subject, body string
	err                     error
}

func (c *fakeEmailClient) Send(_ context.Context, from, to, subject, body string) error {
	if c.err != nil {
		return c.err
	}
	c.from, c.to, c.subject, c.body = from, to, subject, body
	return nil
}

func TestSendReceipt(t *testing.T) {
	client := &fakeEmailClient{}
	m := NewReceiptMailer(client, "no-reply@drip.example.com")

	tr, err := transferdom.New("transfer-1", "acc-buyer", "acc-merchant", 35.04, time.Now())
	require.NoError(t, err)
	tr.Complete()

	items := []itemdom.Item{
		{ID: "item-1", Brand: "Nike", Subcategory: "Hoodies", Price: "25.00"},
		{ID: "item-2", Price: "10.00"},
	}

	require.NoError(t, m.SendReceipt(context.Background(), "buyer@example.com", tr, items))

	assert.Equal(t, "no-reply@drip.example.com", client.from)
	assert.Equal(t, "buyer@example.com", client.to)
	assert.Contains(t, client.subject, "transfer-1")
	assert.Contains(t, client.body, "Nike Hoodies")
	assert.Contains(t, client.body, "item-2", "nameless items fall back to the id")
	assert.Contains(t, client.body, "$35.04")
}

func TestSendReceiptNilTransfer(t *testing.T) {
	m := NewReceiptMailer(&fakeEmailClient{}, "no-reply@drip.example.com")
	require.Error(t, m.SendReceipt(context.Background(), "buyer@example.com", nil, nil))
}
