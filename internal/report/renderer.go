// Package report assembles report payloads for the result pages.
// Report content is generated once per record and type, persisted, and
// served with unpaid chapters masked until the purchase is confirmed.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"face-fortune-backend/internal/analytics"
	"face-fortune-backend/internal/fortune"
	"face-fortune-backend/internal/metrics"
	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/reporttype"
)

// ErrNoFeatures marks a record whose facial features were never
// extracted, so no report can be generated for it.
var ErrNoFeatures = errors.New("record has no extracted features")

// RecordStore is the persistence surface the renderer needs.
type RecordStore interface {
	GetFace(ctx context.Context, id string) (*models.FaceRecord, error)
	PutFace(ctx context.Context, rec *models.FaceRecord) error
	GetCouple(ctx context.Context, id string) (*models.CoupleRecord, error)
	PutCouple(ctx context.Context, rec *models.CoupleRecord) error
	GetSaju(ctx context.Context, id string) (*models.SajuRecord, error)
	PutSaju(ctx context.Context, rec *models.SajuRecord) error
}

// Analyzer generates report content from extracted features.
type Analyzer interface {
	AnalyzeBase(ctx context.Context, feature string) (*fortune.BaseReportResponse, error)
	GenerateDetails(ctx context.Context, t reporttype.Type, feature string) ([]string, error)
	CoupleReport(ctx context.Context, rec *models.CoupleRecord) ([]string, error)
	CoupleScore(ctx context.Context, detail string) (int, error)
}

// LoveAnalyzer generates the saju love report from computed saju data.
type LoveAnalyzer interface {
	AnalyzeLove(ctx context.Context, sajuData json.RawMessage, userName, userConcern string, year int) (json.RawMessage, error)
}

type EventSink interface {
	Track(event string, props map[string]interface{})
}

type Renderer struct {
	store   RecordStore
	faces   Analyzer
	saju    LoveAnalyzer
	events  EventSink
	logger  *zap.Logger
	baseURL string
	// tossClientKey is handed to the result page so it can open the
	// payment widget.
	tossClientKey string
}

func NewRenderer(store RecordStore, faces Analyzer, saju LoveAnalyzer, events EventSink, logger *zap.Logger, baseURL, tossClientKey string) *Renderer {
	return &Renderer{
		store:         store,
		faces:         faces,
		saju:          saju,
		events:        events,
		logger:        logger,
		baseURL:       baseURL,
		tossClientKey: tossClientKey,
	}
}

// RenderFace returns the report of the given type for a face record,
// generating and persisting the content on first access.
func (r *Renderer) RenderFace(ctx context.Context, t reporttype.Type, id string) (*models.ReportResponse, error) {
	rec, err := r.store.GetFace(ctx, id)
	if err != nil {
		return nil, err
	}
	// Records imported from older clients may carry the retry sentinel
	// instead of a real feature token.
	if rec.Features == "" || rec.Features == models.FeatureRetrySentinel {
		return nil, ErrNoFeatures
	}

	entry := rec.Reports[t]
	if entry == nil {
		entry = &models.ReportEntry{}
		rec.Reports[t] = entry
	}

	if entry.Data == nil {
		data, err := r.generateFaceReport(ctx, t, rec.Features)
		if err != nil {
			return nil, err
		}
		entry.Data = data
		rec.Analyzed = true
		if err := r.store.PutFace(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to persist generated report: %w", err)
		}
		metrics.ReportsGenerated.WithLabelValues(t.String()).Inc()
		r.events.Track(analytics.EventReportGenerated, map[string]interface{}{
			"result_id": id,
			"type":      t.String(),
		})
	}

	resp := &models.ReportResponse{
		ID:       id,
		Type:     t.String(),
		Paid:     entry.Paid,
		Sections: faceSections(t, entry),
	}
	if !entry.Paid {
		resp.Payment = r.paymentInfo(t, id)
	}
	return resp, nil
}

func (r *Renderer) generateFaceReport(ctx context.Context, t reporttype.Type, features string) (*models.ReportData, error) {
	if t == reporttype.Base {
		base, err := r.faces.AnalyzeBase(ctx, features)
		if err != nil {
			return nil, err
		}
		return &models.ReportData{Summary: base.Summary, Detail: base.Detail}, nil
	}

	details, err := r.faces.GenerateDetails(ctx, t, features)
	if err != nil {
		return nil, err
	}
	return &models.ReportData{IsMulti: true, Details: details}, nil
}

// faceSections maps stored report content to response sections. The
// base summary stays visible as a teaser; everything else is emptied
// and flagged masked until the report is paid for.
func faceSections(t reporttype.Type, entry *models.ReportEntry) []models.ReportSection {
	if t == reporttype.Base {
		detail := models.ReportSection{Title: "detail", Body: entry.Data.Detail}
		if !entry.Paid {
			detail.Body = ""
			detail.Masked = true
		}
		return []models.ReportSection{
			{Title: "summary", Body: entry.Data.Summary},
			detail,
		}
	}

	sections := make([]models.ReportSection, 0, len(entry.Data.Details))
	for i, body := range entry.Data.Details {
		sec := models.ReportSection{Title: fmt.Sprintf("detail%d", i+1), Body: body}
		if !entry.Paid {
			sec.Body = ""
			sec.Masked = true
		}
		sections = append(sections, sec)
	}
	return sections
}

// RenderCouple returns the couple compatibility report, generating the
// six chapters and compatibility score on first access.
func (r *Renderer) RenderCouple(ctx context.Context, id string) (*models.ReportResponse, error) {
	rec, err := r.store.GetCouple(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Features1 == "" || rec.Features2 == "" {
		return nil, ErrNoFeatures
	}

	if rec.Report == nil {
		details, err := r.faces.CoupleReport(ctx, rec)
		if err != nil {
			return nil, err
		}
		score, err := r.faces.CoupleScore(ctx, details[0])
		if err != nil {
			r.logger.Warn("couple score unavailable", zap.String("record_id", id), zap.Error(err))
			score = 0
		}
		rec.Report = &models.ReportData{IsMulti: true, Details: details}
		rec.Score = score
		if err := r.store.PutCouple(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to persist couple report: %w", err)
		}
		metrics.ReportsGenerated.WithLabelValues(reporttype.Couple.String()).Inc()
		r.events.Track(analytics.EventReportGenerated, map[string]interface{}{
			"result_id": id,
			"type":      reporttype.Couple.String(),
		})
	}

	sections := make([]models.ReportSection, 0, len(rec.Report.Details))
	for i, body := range rec.Report.Details {
		sec := models.ReportSection{Title: fmt.Sprintf("detail%d", i+1), Body: body}
		// The first chapter doubles as the free preview.
		if !rec.Paid && i > 0 {
			sec.Body = ""
			sec.Masked = true
		}
		sections = append(sections, sec)
	}

	resp := &models.ReportResponse{
		ID:       id,
		Type:     reporttype.Couple.String(),
		Paid:     rec.Paid,
		Score:    rec.Score,
		Sections: sections,
	}
	if !rec.Paid {
		resp.Payment = r.paymentInfo(reporttype.Couple, id)
	}
	return resp, nil
}

// RenderSaju returns the saju love report, generating it from the
// computed saju data on first access. The report payload is opaque and
// withheld entirely until paid.
func (r *Renderer) RenderSaju(ctx context.Context, id string) (*models.SajuReportResponse, error) {
	rec, err := r.store.GetSaju(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Report == nil {
		var in models.SajuComputeRequest
		if err := json.Unmarshal(rec.Input, &in); err != nil {
			return nil, fmt.Errorf("failed to decode saju input: %w", err)
		}
		report, err := r.saju.AnalyzeLove(ctx, rec.SajuData, in.UserName, in.UserConcern, time.Now().Year())
		if err != nil {
			return nil, err
		}
		rec.Report = report
		if err := r.store.PutSaju(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to persist saju report: %w", err)
		}
		metrics.ReportsGenerated.WithLabelValues(reporttype.Saju.String()).Inc()
		r.events.Track(analytics.EventReportGenerated, map[string]interface{}{
			"result_id": id,
			"type":      reporttype.Saju.String(),
		})
	}

	resp := &models.SajuReportResponse{
		ID:       id,
		Paid:     rec.Paid,
		SajuData: rec.SajuData,
	}
	if rec.Paid {
		resp.Report = rec.Report
	} else {
		resp.Payment = r.paymentInfo(reporttype.Saju, id)
	}
	return resp, nil
}

func (r *Renderer) paymentInfo(t reporttype.Type, id string) *models.PaymentInfo {
	query := url.Values{}
	query.Set("id", id)
	query.Set("type", t.String())
	return &models.PaymentInfo{
		ClientKey:     r.tossClientKey,
		Price:         t.Price(),
		OriginalPrice: t.OriginalPrice(),
		OrderName:     t.OrderName(),
		SuccessURL:    r.baseURL + "/payment/success?" + query.Encode(),
		FailURL:       r.baseURL + "/payment/fail?" + query.Encode(),
	}
}
