package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/report"
	"face-fortune-backend/internal/reporttype"
	"face-fortune-backend/internal/store"
)

type ReportHandler struct {
	renderer *report.Renderer
}

func NewReportHandler(renderer *report.Renderer) *ReportHandler {
	return &ReportHandler{renderer: renderer}
}

// Get godoc
// @Summary     Fetch a report
// @Description Returns the report of the given type for a record, generating it on first access. Unpaid chapters come back masked with a payment CTA attached.
// @Tags        reports
// @Produce     json
// @Param       type path string true "Report type" Enums(base, wealth, love, marriage, career, couple, saju)
// @Param       id query string true "Record ID"
// @Success     200 {object} models.ReportResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/reports/{type} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	t, err := reporttype.Parse(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "unknown report type",
			Message: err.Error(),
		})
		return
	}

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "missing id"})
		return
	}

	ctx := c.Request.Context()
	var resp interface{}
	switch t {
	case reporttype.Couple:
		resp, err = h.renderer.RenderCouple(ctx, id)
	case reporttype.Saju:
		resp, err = h.renderer.RenderSaju(ctx, id)
	default:
		resp, err = h.renderer.RenderFace(ctx, t, id)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "record not found"})
	case errors.Is(err, report.ErrNoFeatures):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "record not analyzable",
			Message: "the record has no extracted features",
		})
	default:
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "report generation failed",
			Message: err.Error(),
		})
	}
}
