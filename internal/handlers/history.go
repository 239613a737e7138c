package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"face-fortune-backend/internal/models"
)

// HistoryStore lists stored face records.
type HistoryStore interface {
	GetAllFaces(ctx context.Context) ([]models.FaceRecord, error)
}

type HistoryHandler struct {
	store HistoryStore
}

func NewHistoryHandler(store HistoryStore) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List godoc
// @Summary     List analysis history
// @Description Returns all face records, newest first, with the report types already purchased for each.
// @Tags        face
// @Produce     json
// @Success     200 {object} models.RecordListResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/face/records [get]
func (h *HistoryHandler) List(c *gin.Context) {
	records, err := h.store.GetAllFaces(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list records",
			Message: err.Error(),
		})
		return
	}

	summaries := make([]models.RecordSummary, 0, len(records))
	for _, rec := range records {
		summary := models.RecordSummary{
			ID:          rec.ID,
			CreatedAt:   rec.CreatedAt,
			Analyzed:    rec.Analyzed,
			PaidReports: []string{},
		}
		for t, entry := range rec.Reports {
			if entry != nil && entry.Paid {
				summary.PaidReports = append(summary.PaidReports, t.String())
			}
		}
		summaries = append(summaries, summary)
	}

	c.JSON(http.StatusOK, models.RecordListResponse{Records: summaries})
}
