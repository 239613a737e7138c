package models

import (
	"encoding/json"
	"time"

	"face-fortune-backend/internal/reporttype"
)

// FeatureRetrySentinel is returned by the analysis service in place of a
// feature token when no face could be detected. A record is never created
// for such an attempt; the user has to upload a new photo.
const FeatureRetrySentinel = "again"

// ReportData is the generated content of one report. Base reports are flat
// summary/detail; the chaptered reports carry an ordered list of markdown
// sections.
type ReportData struct {
	IsMulti bool     `json:"isMulti"`
	Summary string   `json:"summary,omitempty"`
	Detail  string   `json:"detail,omitempty"`
	Details []string `json:"details,omitempty"`
}

// ReportEntry gates one report type inside a face record. Paid transitions
// only false -> true, and only through the unlock flow.
type ReportEntry struct {
	Paid        bool        `json:"paid"`
	PurchasedAt *time.Time  `json:"purchasedAt,omitempty"`
	Method      string      `json:"method,omitempty"`
	Data        *ReportData `json:"data"`
}

// FaceRecord is one analyzed photo. ID and Features are set once at
// creation. Type/Paid/Analyzed are legacy single-report fields kept for
// records written by older clients; the per-report flags in Reports are
// authoritative.
type FaceRecord struct {
	ID        string                            `json:"id"`
	ImageData string                            `json:"imageData"`
	Features  string                            `json:"features"`
	Reports   map[reporttype.Type]*ReportEntry  `json:"reports"`
	Type      string                            `json:"type,omitempty"`
	Paid      bool                              `json:"paid"`
	Analyzed  bool                              `json:"analyzed"`
	CreatedAt time.Time                         `json:"timestamp"`
}

// NewReportsSkeleton seeds the per-type report map for a fresh record.
func NewReportsSkeleton() map[reporttype.Type]*ReportEntry {
	m := make(map[reporttype.Type]*ReportEntry, len(reporttype.FaceTypes()))
	for _, t := range reporttype.FaceTypes() {
		m[t] = &ReportEntry{Paid: false, Data: nil}
	}
	return m
}

// CoupleRecord is one analyzed photo pair.
type CoupleRecord struct {
	ID                  string      `json:"id"`
	Features1           string      `json:"features1"`
	Features2           string      `json:"features2"`
	Image1Data          string      `json:"image1Data"`
	Image2Data          string      `json:"image2Data"`
	RelationshipType    string      `json:"relationshipType"`
	RelationshipFeeling string      `json:"relationshipFeeling"`
	Paid                bool        `json:"paid"`
	PaidAt              *time.Time  `json:"paidAt,omitempty"`
	Report              *ReportData `json:"report"`
	Score               int         `json:"score,omitempty"`
	CreatedAt           time.Time   `json:"createdAt"`
}

// SajuPayment records how a saju report was purchased.
type SajuPayment struct {
	Method     string `json:"method"`
	Price      int64  `json:"price"`
	IsDiscount bool   `json:"isDiscount"`
}

// SajuRecord is one computed saju chart plus its (optionally generated)
// love report. Input and SajuData are opaque payloads owned by the saju
// service; this backend only stores and forwards them.
type SajuRecord struct {
	ID        string          `json:"id"`
	Input     json.RawMessage `json:"input"`
	SajuData  json.RawMessage `json:"sajuData"`
	Report    json.RawMessage `json:"report,omitempty"`
	Paid      bool            `json:"paid"`
	Payment   *SajuPayment    `json:"payment,omitempty"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Purchase is what the unlock flow records onto whichever store owns the
// report type.
type Purchase struct {
	Method     string
	Amount     int64
	OrderID    string
	IsDiscount bool
	At         time.Time
}
