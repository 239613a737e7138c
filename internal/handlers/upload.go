package handlers

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"face-fortune-backend/internal/analytics"
	"face-fortune-backend/internal/metrics"
	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/session"
	"face-fortune-backend/internal/supabase"
)

// maxPhotoBytes caps uploaded photo size at 10MB.
const maxPhotoBytes = 10 << 20

// FeatureExtractor extracts facial feature tokens from photos.
type FeatureExtractor interface {
	ExtractFeatures(ctx context.Context, image []byte) (string, error)
	ExtractPairFeatures(ctx context.Context, image1, image2 []byte) (string, string, error)
}

// UploadStore persists new analysis records.
type UploadStore interface {
	PutFace(ctx context.Context, rec *models.FaceRecord) error
	PutCouple(ctx context.Context, rec *models.CoupleRecord) error
}

type EventSink interface {
	Track(event string, props map[string]interface{})
}

type UploadHandler struct {
	extractor FeatureExtractor
	store     UploadStore
	images    *supabase.StorageClient
	mirror    *supabase.Mirror
	events    EventSink
	logger    *zap.Logger
}

func NewUploadHandler(extractor FeatureExtractor, store UploadStore, images *supabase.StorageClient, mirror *supabase.Mirror, events EventSink, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		extractor: extractor,
		store:     store,
		images:    images,
		mirror:    mirror,
		events:    events,
		logger:    logger,
	}
}

// UploadFace godoc
// @Summary     Upload a face photo
// @Description Extracts facial features and creates an analysis record. Returns 422 when no face is detected; the client should retry with a different photo.
// @Tags        face
// @Accept      multipart/form-data
// @Produce     json
// @Param       photo formData file true "Face photo (JPEG/PNG)"
// @Success     201 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/face/upload [post]
func (h *UploadHandler) UploadFace(c *gin.Context) {
	photo, ok := h.readPhoto(c, "photo")
	if !ok {
		return
	}

	features, err := h.extractor.ExtractFeatures(c.Request.Context(), photo)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "analysis unavailable",
			Message: err.Error(),
		})
		return
	}

	if features == models.FeatureRetrySentinel {
		metrics.FaceDetectionRetries.Inc()
		h.events.Track(analytics.EventFaceRetry, map[string]interface{}{
			"distinct_id": session.DistinctID(c),
		})
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "face not detected",
			Message: "no face was detected in the photo, try another one",
		})
		return
	}

	rec := &models.FaceRecord{
		ID:        uuid.New().String(),
		ImageData: base64.StdEncoding.EncodeToString(photo),
		Features:  features,
		Reports:   models.NewReportsSkeleton(),
		CreatedAt: time.Now(),
	}
	if err := h.store.PutFace(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save record",
			Message: err.Error(),
		})
		return
	}

	metrics.PhotosUploaded.Inc()
	h.events.Track(analytics.EventPhotoUpload, map[string]interface{}{
		"distinct_id": session.DistinctID(c),
		"result_id":   rec.ID,
	})
	h.mirrorFace(rec, photo)

	c.JSON(http.StatusCreated, models.UploadResponse{ID: rec.ID, CreatedAt: rec.CreatedAt})
}

// UploadCouple godoc
// @Summary     Upload a couple photo pair
// @Description Extracts features from both photos and creates a couple analysis record.
// @Tags        couple
// @Accept      multipart/form-data
// @Produce     json
// @Param       photo1 formData file true "First person's photo"
// @Param       photo2 formData file true "Second person's photo"
// @Param       relationship_type formData string false "Relationship type"
// @Param       relationship_feeling formData string false "How the relationship feels"
// @Success     201 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/couple/upload [post]
func (h *UploadHandler) UploadCouple(c *gin.Context) {
	photo1, ok := h.readPhoto(c, "photo1")
	if !ok {
		return
	}
	photo2, ok := h.readPhoto(c, "photo2")
	if !ok {
		return
	}

	features1, features2, err := h.extractor.ExtractPairFeatures(c.Request.Context(), photo1, photo2)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "analysis unavailable",
			Message: err.Error(),
		})
		return
	}

	if features1 == models.FeatureRetrySentinel || features2 == models.FeatureRetrySentinel {
		metrics.FaceDetectionRetries.Inc()
		h.events.Track(analytics.EventFaceRetry, map[string]interface{}{
			"distinct_id": session.DistinctID(c),
			"pair":        true,
		})
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "face not detected",
			Message: "no face was detected in one of the photos, try other ones",
		})
		return
	}

	rec := &models.CoupleRecord{
		ID:                  uuid.New().String(),
		Features1:           features1,
		Features2:           features2,
		Image1Data:          base64.StdEncoding.EncodeToString(photo1),
		Image2Data:          base64.StdEncoding.EncodeToString(photo2),
		RelationshipType:    c.PostForm("relationship_type"),
		RelationshipFeeling: c.PostForm("relationship_feeling"),
		CreatedAt:           time.Now(),
	}
	if err := h.store.PutCouple(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save record",
			Message: err.Error(),
		})
		return
	}

	metrics.PhotosUploaded.Inc()
	h.events.Track(analytics.EventPhotoUpload, map[string]interface{}{
		"distinct_id": session.DistinctID(c),
		"result_id":   rec.ID,
		"pair":        true,
	})
	h.mirrorCouple(rec, photo1, photo2)

	c.JSON(http.StatusCreated, models.UploadResponse{ID: rec.ID, CreatedAt: rec.CreatedAt})
}

func (h *UploadHandler) readPhoto(c *gin.Context, field string) ([]byte, bool) {
	file, _, err := c.Request.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing photo",
			Message: "form field " + field + " is required",
		})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read photo",
			Message: err.Error(),
		})
		return nil, false
	}
	if len(data) > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "photo too large",
			Message: "photos are limited to 10MB",
		})
		return nil, false
	}
	return data, true
}

func (h *UploadHandler) mirrorFace(rec *models.FaceRecord, photo []byte) {
	if h.mirror == nil {
		return
	}
	row := supabase.FaceAnalysisRow{
		ID:          rec.ID,
		ServiceType: "face",
		Features:    rec.Features,
		CreatedAt:   rec.CreatedAt,
	}
	if h.images != nil {
		go func() {
			url, err := h.images.UploadImage(rec.ID, "face.jpg", photo)
			if err != nil {
				h.logger.Warn("image upload failed", zap.String("record_id", rec.ID), zap.Error(err))
			} else {
				row.ImagePath = url
			}
			h.mirror.UpsertAsync(row)
		}()
		return
	}
	h.mirror.UpsertAsync(row)
}

func (h *UploadHandler) mirrorCouple(rec *models.CoupleRecord, photo1, photo2 []byte) {
	if h.mirror == nil {
		return
	}
	row := supabase.FaceAnalysisRow{
		ID:          rec.ID,
		ServiceType: "couple",
		Features1:   rec.Features1,
		Features2:   rec.Features2,
		CreatedAt:   rec.CreatedAt,
	}
	if h.images != nil {
		go func() {
			if url, err := h.images.UploadImage(rec.ID, "face1.jpg", photo1); err == nil {
				row.Image1Path = url
			} else {
				h.logger.Warn("image upload failed", zap.String("record_id", rec.ID), zap.Error(err))
			}
			if url, err := h.images.UploadImage(rec.ID, "face2.jpg", photo2); err == nil {
				row.Image2Path = url
			} else {
				h.logger.Warn("image upload failed", zap.String("record_id", rec.ID), zap.Error(err))
			}
			h.mirror.UpsertAsync(row)
		}()
		return
	}
	h.mirror.UpsertAsync(row)
}
