// Package analytics ships product events to the Mixpanel ingestion API.
// Events are fire-and-forget: they never block a request and their
// failures are swallowed.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event names shared by the upload, render, and unlock flows.
const (
	EventPaymentCallback = "payment_callback_opened"
	EventPaymentSuccess  = "payment_success"
	EventPaymentFail     = "payment_fail"
	EventPhotoUpload     = "photo_upload"
	EventFaceRetry       = "face_detection_retry"
	EventReportGenerated = "report_generated"
)

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiURL, token string, logger *zap.Logger) *Client {
	return &Client{
		endpoint: apiURL + "/track",
		token:    token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Track queues one event for delivery. It returns immediately; delivery
// errors are logged at debug level and dropped.
func (c *Client) Track(event string, props map[string]interface{}) {
	if c.token == "" {
		return
	}
	go func() {
		if err := c.send(event, props); err != nil {
			c.logger.Debug("analytics event dropped",
				zap.String("event", event),
				zap.Error(err))
		}
	}()
}

func (c *Client) send(event string, props map[string]interface{}) error {
	properties := map[string]interface{}{
		"token":      c.token,
		"time":       time.Now().UnixMilli(),
		"$insert_id": uuid.NewString(),
	}
	for k, v := range props {
		properties[k] = v
	}

	payload, err := json.Marshal([]map[string]interface{}{{
		"event":      event,
		"properties": properties,
	}})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ingestion returned status %d", resp.StatusCode)
	}
	return nil
}
