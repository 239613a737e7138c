// Package saju wraps the saju (four pillars) computation service, the
// second external analysis vendor alongside the face service.
package saju

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"face-fortune-backend/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Compute calculates the saju chart for the given birth information. The
// result payload is owned by the service and stored verbatim.
func (c *Client) Compute(ctx context.Context, in models.SajuComputeRequest) (json.RawMessage, error) {
	timezone := in.Timezone
	if timezone == "" {
		timezone = "Asia/Seoul"
	}
	payload := map[string]interface{}{
		"gender":   in.Gender,
		"date":     in.Date,
		"time":     nullable(in.Time),
		"timezone": timezone,
		"calendar": in.Calendar,
	}
	return c.post(ctx, "/saju/compute", payload)
}

// AnalyzeLove generates the love report for a previously computed chart.
func (c *Client) AnalyzeLove(ctx context.Context, sajuData json.RawMessage, userName, userConcern string, year int) (json.RawMessage, error) {
	payload := map[string]interface{}{
		"saju_data":    sajuData,
		"user_name":    userName,
		"user_concern": userConcern,
		"year":         year,
	}
	return c.post(ctx, "/saju_love/analyze", payload)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(data))
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
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("saju request failed: %s", msg)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("saju service returned invalid JSON")
	}
	return json.RawMessage(body), nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
