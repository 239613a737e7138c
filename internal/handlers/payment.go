package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"face-fortune-backend/internal/analytics"
	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/reporttype"
	"face-fortune-backend/internal/session"
	"face-fortune-backend/internal/unlock"
)

type PaymentHandler struct {
	machine *unlock.Machine
	events  EventSink
}

func NewPaymentHandler(machine *unlock.Machine, events EventSink) *PaymentHandler {
	return &PaymentHandler{machine: machine, events: events}
}

// Success godoc
// @Summary     Payment success callback
// @Description Entry point the payment gateway redirects to after checkout. Confirms the payment with retries, records the purchase, and tells the client where to redirect.
// @Tags        payments
// @Produce     json
// @Param       paymentKey query string true "Gateway payment key"
// @Param       orderId query string true "Order ID"
// @Param       amount query string true "Charged amount in KRW"
// @Param       id query string true "Record ID"
// @Param       type query string false "Report type (defaults to base)"
// @Success     200 {object} models.UnlockResponse
// @Failure     400 {object} models.UnlockResponse
// @Failure     502 {object} models.UnlockResponse
// @Router      /payment/success [get]
func (h *PaymentHandler) Success(c *gin.Context) {
	h.events.Track(analytics.EventPaymentCallback, map[string]interface{}{
		"distinct_id": session.DistinctID(c),
		"order_id":    c.Query("orderId"),
		"result_id":   c.Query("id"),
	})

	t, err := reporttype.Parse(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.UnlockResponse{
			Status: unlock.StateFailed.String(),
			Error:  err.Error(),
		})
		return
	}

	entry := unlock.Entry{
		PaymentKey: c.Query("paymentKey"),
		OrderID:    c.Query("orderId"),
		Amount:     c.Query("amount"),
		RecordID:   c.Query("id"),
		Type:       t,
	}

	out := h.machine.Run(c.Request.Context(), entry)

	resp := models.UnlockResponse{
		Status:          out.State.String(),
		Attempts:        out.Attempts,
		RedirectURL:     out.RedirectURL,
		RedirectAfterMS: out.RedirectAfter.Milliseconds(),
		Retryable:       out.Retryable,
	}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}

	switch {
	case out.State == unlock.StateSuccess:
		c.JSON(http.StatusOK, resp)
	case errors.Is(out.Err, unlock.ErrInvalidEntry):
		c.JSON(http.StatusBadRequest, resp)
	default:
		c.JSON(http.StatusBadGateway, resp)
	}
}

// Fail godoc
// @Summary     Payment fail callback
// @Description Entry point the payment gateway redirects to when checkout is aborted or rejected. Nothing is confirmed or recorded; the report stays locked.
// @Tags        payments
// @Produce     json
// @Param       code query string false "Gateway error code"
// @Param       message query string false "Gateway error message"
// @Param       id query string false "Record ID"
// @Success     200 {object} models.UnlockResponse
// @Router      /payment/fail [get]
func (h *PaymentHandler) Fail(c *gin.Context) {
	h.events.Track(analytics.EventPaymentFail, map[string]interface{}{
		"distinct_id": session.DistinctID(c),
		"order_id":    c.Query("orderId"),
		"result_id":   c.Query("id"),
		"code":        c.Query("code"),
		"error":       c.Query("message"),
	})

	c.JSON(http.StatusOK, models.UnlockResponse{
		Status:    unlock.StateFailed.String(),
		Retryable: true,
		Error:     c.Query("message"),
	})
}
