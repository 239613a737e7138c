package unlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/payments"
	"face-fortune-backend/internal/reporttype"
)

type fakeConfirmer struct {
	errs  []error
	calls []int64
}

func (f *fakeConfirmer) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*payments.Confirmation, error) {
	f.calls = append(f.calls, amount)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &payments.Confirmation{}, nil
}

type fakeMarker struct {
	err       error
	calls     int
	lastType  reporttype.Type
	lastID    string
	lastPurch models.Purchase
}

func (f *fakeMarker) MarkPaid(ctx context.Context, t reporttype.Type, recordID string, p models.Purchase) error {
	f.calls++
	f.lastType = t
	f.lastID = recordID
	f.lastPurch = p
	return f.err
}

type recordedEvent struct {
	name  string
	props map[string]interface{}
}

type fakeSink struct {
	events []recordedEvent
}

func (f *fakeSink) Track(event string, props map[string]interface{}) {
	f.events = append(f.events, recordedEvent{name: event, props: props})
}

func newTestMachine(c *fakeConfirmer, m *fakeMarker, s *fakeSink) (*Machine, *[]time.Duration) {
	machine := NewMachine(c, m, s, zap.NewNop())
	var slept []time.Duration
	machine.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return machine, &slept
}

func validEntry() Entry {
	return Entry{
		PaymentKey: "pay_abc123",
		OrderID:    "wealth_20260829_xyz",
		Amount:     "16900",
		RecordID:   "rec-1",
		Type:       reporttype.Wealth,
	}
}

func TestRunSucceedsFirstAttempt(t *testing.T) {
	confirmer := &fakeConfirmer{}
	marker := &fakeMarker{}
	sink := &fakeSink{}
	machine, slept := newTestMachine(confirmer, marker, sink)

	out := machine.Run(context.Background(), validEntry())

	assert.Equal(t, StateSuccess, out.State)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, "/wealth/result?id=rec-1", out.RedirectURL)
	assert.Equal(t, 2*time.Second, out.RedirectAfter)
	assert.NoError(t, out.Err)

	assert.Len(t, confirmer.calls, 1)
	assert.Equal(t, int64(16900), confirmer.calls[0])
	assert.Empty(t, *slept)

	require.Equal(t, 1, marker.calls)
	assert.Equal(t, reporttype.Wealth, marker.lastType)
	assert.Equal(t, "rec-1", marker.lastID)
	assert.Equal(t, "toss", marker.lastPurch.Method)
	assert.Equal(t, int64(16900), marker.lastPurch.Amount)
	assert.False(t, marker.lastPurch.IsDiscount)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "payment_success", sink.events[0].name)
	assert.Equal(t, "rec-1", sink.events[0].props["result_id"])
}

func TestRunRetriesWithBackoffThenSucceeds(t *testing.T) {
	confirmer := &fakeConfirmer{errs: []error{
		errors.New("gateway timeout"),
		errors.New("gateway timeout"),
		nil,
	}}
	marker := &fakeMarker{}
	sink := &fakeSink{}
	machine, slept := newTestMachine(confirmer, marker, sink)

	out := machine.Run(context.Background(), validEntry())

	assert.Equal(t, StateSuccess, out.State)
	assert.Equal(t, 3, out.Attempts)
	assert.Len(t, confirmer.calls, 3)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond, 3000 * time.Millisecond}, *slept)
	assert.Equal(t, 1, marker.calls)
}

func TestRunExhaustsRetries(t *testing.T) {
	boom := errors.New("payment confirmation rejected: card declined")
	confirmer := &fakeConfirmer{errs: []error{boom, boom, boom}}
	marker := &fakeMarker{}
	sink := &fakeSink{}
	machine, slept := newTestMachine(confirmer, marker, sink)

	out := machine.Run(context.Background(), validEntry())

	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, 3, out.Attempts)
	assert.True(t, out.Retryable)
	assert.ErrorIs(t, out.Err, boom)
	assert.Empty(t, out.RedirectURL)

	assert.Len(t, confirmer.calls, 3)
	assert.Len(t, *slept, 2)
	assert.Equal(t, 0, marker.calls, "record must not be mutated on failure")

	require.Len(t, sink.events, 1)
	assert.Equal(t, "payment_fail", sink.events[0].name)
	assert.Equal(t, boom.Error(), sink.events[0].props["error"])
}

func TestRunManualRetryStartsFresh(t *testing.T) {
	boom := errors.New("temporary outage")
	confirmer := &fakeConfirmer{errs: []error{boom, boom, boom}}
	marker := &fakeMarker{}
	sink := &fakeSink{}
	machine, slept := newTestMachine(confirmer, marker, sink)

	out := machine.Run(context.Background(), validEntry())
	require.Equal(t, StateFailed, out.State)

	*slept = nil
	out = machine.Run(context.Background(), validEntry())
	assert.Equal(t, StateSuccess, out.State)
	assert.Equal(t, 1, out.Attempts)
	assert.Empty(t, *slept)
}

func TestRunRejectsIncompleteEntry(t *testing.T) {
	cases := map[string]Entry{
		"missing payment key": {OrderID: "o", Amount: "100", RecordID: "r", Type: reporttype.Base},
		"missing order id":    {PaymentKey: "p", Amount: "100", RecordID: "r", Type: reporttype.Base},
		"missing amount":      {PaymentKey: "p", OrderID: "o", RecordID: "r", Type: reporttype.Base},
		"non-numeric amount":  {PaymentKey: "p", OrderID: "o", Amount: "9,900", RecordID: "r", Type: reporttype.Base},
		"negative amount":     {PaymentKey: "p", OrderID: "o", Amount: "-100", RecordID: "r", Type: reporttype.Base},
	}

	for name, entry := range cases {
		t.Run(name, func(t *testing.T) {
			confirmer := &fakeConfirmer{}
			marker := &fakeMarker{}
			sink := &fakeSink{}
			machine, _ := newTestMachine(confirmer, marker, sink)

			out := machine.Run(context.Background(), entry)

			assert.Equal(t, StateFailed, out.State)
			assert.ErrorIs(t, out.Err, ErrInvalidEntry)
			assert.False(t, out.Retryable)
			assert.Empty(t, confirmer.calls, "gateway must not be called")
			assert.Empty(t, sink.events)
			assert.Equal(t, 0, marker.calls)
		})
	}
}

func TestRunConfirmsWithoutRecordID(t *testing.T) {
	confirmer := &fakeConfirmer{}
	marker := &fakeMarker{}
	sink := &fakeSink{}
	machine, _ := newTestMachine(confirmer, marker, sink)

	entry := validEntry()
	entry.RecordID = ""

	out := machine.Run(context.Background(), entry)

	assert.Equal(t, StateSuccess, out.State)
	require.Len(t, confirmer.calls, 1, "confirmation must still be attempted")
	assert.Equal(t, 0, marker.calls, "no record to mutate")

	require.Len(t, sink.events, 1)
	assert.Equal(t, "payment_success", sink.events[0].name)
}

func TestRunSucceedsEvenIfMarkPaidFails(t *testing.T) {
	confirmer := &fakeConfirmer{}
	marker := &fakeMarker{err: errors.New("db down")}
	sink := &fakeSink{}
	machine, _ := newTestMachine(confirmer, marker, sink)

	out := machine.Run(context.Background(), validEntry())

	assert.Equal(t, StateSuccess, out.State)
	assert.NoError(t, out.Err)
	assert.Equal(t, "/wealth/result?id=rec-1", out.RedirectURL)
	assert.Equal(t, 1, marker.calls)
}

func TestRunDetectsDiscountOrders(t *testing.T) {
	confirmer := &fakeConfirmer{}
	marker := &fakeMarker{}
	sink := &fakeSink{}
	machine, _ := newTestMachine(confirmer, marker, sink)

	entry := validEntry()
	entry.OrderID = "saju_discount_20260829_xyz"
	entry.Type = reporttype.Saju
	entry.Amount = "14900"

	out := machine.Run(context.Background(), entry)

	require.Equal(t, StateSuccess, out.State)
	assert.True(t, marker.lastPurch.IsDiscount)
	assert.Equal(t, "/saju-love/result?id=rec-1", out.RedirectURL)
}

func TestRunCancelledDuringBackoff(t *testing.T) {
	confirmer := &fakeConfirmer{errs: []error{errors.New("timeout")}}
	marker := &fakeMarker{}
	sink := &fakeSink{}
	machine, _ := newTestMachine(confirmer, marker, sink)
	machine.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	out := machine.Run(context.Background(), validEntry())

	assert.Equal(t, StateFailed, out.State)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Len(t, confirmer.calls, 1)
	assert.Empty(t, sink.events)
}
