// Package payments wraps the server-side TossPayments confirmation
// endpoint. Confirmation is the only payment operation this backend
// performs; the widget flow is entirely client-side.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// The confirmation endpoint tolerates repeat confirmation of the same
// order id (returning success), so retrying and manual re-entry are safe.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

// Confirmation is the provider's response body, kept opaque.
type Confirmation struct {
	Raw json.RawMessage
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Confirm verifies a client-reported payment with the provider.
func (c *Client) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*Confirmation, error) {
	data, err := json.Marshal(ConfirmRequest{
		PaymentKey: paymentKey,
		OrderID:    orderID,
		Amount:     amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/payment/confirm", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment confirmation rejected: %s", rejectionMessage(body, resp.Status))
	}

	return &Confirmation{Raw: json.RawMessage(body)}, nil
}

// rejectionMessage pulls the "detail" field the confirmation endpoint puts
// in its error bodies, falling back to the raw body text.
func rejectionMessage(body []byte, status string) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return status
}
