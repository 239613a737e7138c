package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/session"
)

// SajuComputer computes the saju chart from birth data.
type SajuComputer interface {
	Compute(ctx context.Context, in models.SajuComputeRequest) (json.RawMessage, error)
}

// SajuStore persists saju records.
type SajuStore interface {
	PutSaju(ctx context.Context, rec *models.SajuRecord) error
}

type SajuHandler struct {
	computer SajuComputer
	store    SajuStore
	events   EventSink
}

func NewSajuHandler(computer SajuComputer, store SajuStore, events EventSink) *SajuHandler {
	return &SajuHandler{computer: computer, store: store, events: events}
}

// Compute godoc
// @Summary     Compute a saju chart
// @Description Computes the saju chart from birth data and creates a record the love report is generated against.
// @Tags        saju
// @Accept      json
// @Produce     json
// @Param       request body models.SajuComputeRequest true "Birth data"
// @Success     201 {object} models.SajuComputeResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/saju/compute [post]
func (h *SajuHandler) Compute(c *gin.Context) {
	var req models.SajuComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	sajuData, err := h.computer.Compute(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "saju computation failed",
			Message: err.Error(),
		})
		return
	}

	input, err := json.Marshal(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to encode input",
			Message: err.Error(),
		})
		return
	}

	rec := &models.SajuRecord{
		ID:        uuid.New().String(),
		Input:     input,
		SajuData:  sajuData,
		CreatedAt: time.Now(),
	}
	if err := h.store.PutSaju(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save record",
			Message: err.Error(),
		})
		return
	}

	h.events.Track("saju_compute", map[string]interface{}{
		"distinct_id": session.DistinctID(c),
		"result_id":   rec.ID,
	})

	c.JSON(http.StatusCreated, models.SajuComputeResponse{
		ID:        rec.ID,
		SajuData:  sajuData,
		CreatedAt: rec.CreatedAt,
	})
}
