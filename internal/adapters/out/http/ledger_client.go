// internal/adapters/out/http/ledger_client.go
package httpout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrLedgerInvalidResponse = errors.New("ledger: invalid response")

// LedgerHTTPClient talks to the mock bank rail.
//
// Two endpoints only:
//   - GET  /accounts/{id}            -> {"balance": <number>}
//   - POST /accounts/{id}/transfers  -> 201 Created on success
//
// The api key travels as the `key` query parameter. No retries; callers own
// resilience.
type LedgerHTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewLedgerHTTPClient(baseURL, apiKey string) *LedgerHTTPClient {
	return &LedgerHTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *LedgerHTTPClient) endpoint(path string) string {
	u := c.baseURL + path
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}
	return u
}

// Balance implements usecase.LedgerClient.
func (c *LedgerHTTPClient) Balance(ctx context.Context, accountID string) (float64, error) {
	if c == nil || c.baseURL == "" {
		return 0, errors.New("ledger: client is not configured")
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return 0, errors.New("ledger: accountID is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/accounts/"+url.PathEscape(accountID)), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ledger: balance request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ledger: balance failed status=%d", res.StatusCode)
	}

	var account struct {
		Balance *float64 `json:"balance"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&account); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLedgerInvalidResponse, err)
	}
	if account.Balance == nil {
		return 0, fmt.Errorf("%w: missing balance", ErrLedgerInvalidResponse)
	}
	return *account.Balance, nil
}

// Transfer implements usecase.LedgerClient. A 201 Created is the only
// success signal.
func (c *LedgerHTTPClient) Transfer(ctx context.Context, fromAccount, toAccount string, amount float64) error {
	if c == nil || c.baseURL == "" {
		return errors.New("ledger: client is not configured")
	}
	from := strings.TrimSpace(fromAccount)
	to := strings.TrimSpace(toAccount)
	if from == "" || to == "" {
		return errors.New("ledger: account ids are required")
	}
	if amount <= 0 {
		return errors.New("ledger: amount must be positive")
	}

	payload := map[string]any{
		"medium":           "balance",
		"payee_id":         to,
		"amount":           amount,
		"transaction_date": time.Now().UTC().Format(time.RFC3339),
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/accounts/"+url.PathEscape(from)+"/transfers"), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger: transfer request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		return fmt.Errorf("ledger: transfer failed status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
