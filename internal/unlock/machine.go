// Package unlock drives the payment confirmation flow that turns a
// pending report purchase into an unlocked report. Confirmation against
// the payment gateway is retried with exponential backoff before the
// purchase is recorded and the caller is redirected to the report page.
package unlock

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"face-fortune-backend/internal/analytics"
	"face-fortune-backend/internal/metrics"
	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/payments"
	"face-fortune-backend/internal/reporttype"
)

// ErrInvalidEntry marks a callback that arrived without a usable
// payment key, order id, or amount. No confirmation call is made.
var ErrInvalidEntry = errors.New("missing or invalid payment parameters")

const (
	maxAttempts  = 3
	baseDelay    = 1500 * time.Millisecond
	displayDelay = 2 * time.Second
)

type State int

const (
	StateIdle State = iota
	StateConfirming
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConfirming:
		return "confirming"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Entry carries the query parameters the payment gateway appends to the
// success callback, plus the report the purchase belongs to.
type Entry struct {
	PaymentKey string
	OrderID    string
	Amount     string
	RecordID   string
	Type       reporttype.Type
}

// Outcome is the result of one full confirmation run. A Failed outcome
// with Retryable set means the caller may start a fresh run.
type Outcome struct {
	State         State
	Attempts      int
	RedirectURL   string
	RedirectAfter time.Duration
	Retryable     bool
	Err           error
}

// Confirmer confirms a payment with the gateway.
type Confirmer interface {
	Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*payments.Confirmation, error)
}

// Marker records a successful purchase against the report's record.
type Marker interface {
	MarkPaid(ctx context.Context, t reporttype.Type, recordID string, p models.Purchase) error
}

// EventSink receives analytics events from the flow.
type EventSink interface {
	Track(event string, props map[string]interface{})
}

type Machine struct {
	confirmer Confirmer
	marker    Marker
	events    EventSink
	logger    *zap.Logger

	// sleep is swapped out in tests to observe backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewMachine(confirmer Confirmer, marker Marker, events EventSink, logger *zap.Logger) *Machine {
	return &Machine{
		confirmer: confirmer,
		marker:    marker,
		events:    events,
		logger:    logger,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run performs one full confirmation cycle for the given entry.
// Attempts are numbered from 1; attempt n waits baseDelay*2^(n-2)
// before calling the gateway again. A run that exhausts all attempts
// reports exactly one failure event carrying the last gateway error.
// Run holds no state between calls, so a manual retry is simply a new
// run starting back at attempt 1.
func (m *Machine) Run(ctx context.Context, e Entry) Outcome {
	amount, err := e.validate()
	if err != nil {
		return Outcome{State: StateFailed, Err: err}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := baseDelay << (attempt - 2)
			m.logger.Info("retrying payment confirmation",
				zap.String("order_id", e.OrderID),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))
			if err := m.sleep(ctx, delay); err != nil {
				return Outcome{State: StateFailed, Attempts: attempt - 1, Err: err}
			}
		}

		_, err := m.confirmer.Confirm(ctx, e.PaymentKey, e.OrderID, amount)
		if err == nil {
			return m.succeed(ctx, e, amount, attempt)
		}
		lastErr = err
		m.logger.Warn("payment confirmation attempt failed",
			zap.String("order_id", e.OrderID),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	metrics.PaymentsFailed.Inc()
	m.events.Track(analytics.EventPaymentFail, map[string]interface{}{
		"order_id":  e.OrderID,
		"amount":    amount,
		"result_id": e.RecordID,
		"type":      e.Type.String(),
		"error":     lastErr.Error(),
	})
	return Outcome{State: StateFailed, Attempts: maxAttempts, Retryable: true, Err: lastErr}
}

func (m *Machine) succeed(ctx context.Context, e Entry, amount int64, attempt int) Outcome {
	metrics.PaymentsConfirmed.WithLabelValues(e.Type.String()).Inc()
	m.events.Track(analytics.EventPaymentSuccess, map[string]interface{}{
		"order_id":  e.OrderID,
		"amount":    amount,
		"result_id": e.RecordID,
		"type":      e.Type.String(),
	})

	if e.RecordID == "" {
		m.logger.Warn("payment confirmed without a record id, skipping record mutation",
			zap.String("order_id", e.OrderID))
	} else {
		purchase := models.Purchase{
			Method:     "toss",
			Amount:     amount,
			OrderID:    e.OrderID,
			IsDiscount: isDiscountOrder(e.OrderID),
			At:         time.Now(),
		}
		if err := m.marker.MarkPaid(ctx, e.Type, e.RecordID, purchase); err != nil {
			// The payment went through; the user still gets their report.
			m.logger.Error("failed to record paid purchase",
				zap.String("record_id", e.RecordID),
				zap.String("type", e.Type.String()),
				zap.Error(err))
		}
	}

	return Outcome{
		State:         StateSuccess,
		Attempts:      attempt,
		RedirectURL:   e.Type.ResultRoute(e.RecordID),
		RedirectAfter: displayDelay,
	}
}

// validate checks the gateway-supplied parameters. RecordID is not part
// of the required set: a callback without it still confirms the payment,
// it just cannot mutate a record afterwards.
func (e Entry) validate() (int64, error) {
	if e.PaymentKey == "" || e.OrderID == "" || e.Amount == "" {
		return 0, ErrInvalidEntry
	}
	amount, err := strconv.ParseInt(e.Amount, 10, 64)
	if err != nil || amount <= 0 {
		return 0, ErrInvalidEntry
	}
	return amount, nil
}

func isDiscountOrder(orderID string) bool {
	return strings.Contains(orderID, "discount")
}
