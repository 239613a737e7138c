package models

import (
	"encoding/json"
	"time"
)

type UploadResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type RecordSummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Analyzed    bool      `json:"analyzed"`
	PaidReports []string  `json:"paid_reports"`
}

type RecordListResponse struct {
	Records []RecordSummary `json:"records"`
}

// ReportSection is one rendered chapter. Body is markdown; Masked marks a
// teaser section that the frontend blurs behind the payment CTA.
type ReportSection struct {
	Title  string `json:"title,omitempty"`
	Body   string `json:"body"`
	Masked bool   `json:"masked"`
}

// PaymentInfo is the call-to-action attached to an unpaid report. The
// success URL feeds the unlock flow's entry route.
type PaymentInfo struct {
	ClientKey     string `json:"client_key"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"original_price"`
	OrderName     string `json:"order_name"`
	SuccessURL    string `json:"success_url"`
	FailURL       string `json:"fail_url"`
}

type ReportResponse struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Paid     bool            `json:"paid"`
	Score    int             `json:"score,omitempty"`
	Sections []ReportSection `json:"sections"`
	Payment  *PaymentInfo    `json:"payment,omitempty"`
}

// SajuReportResponse carries the saju love report. The report payload is
// opaque to this service and omitted entirely until the purchase clears.
type SajuReportResponse struct {
	ID       string          `json:"id"`
	Paid     bool            `json:"paid"`
	SajuData json.RawMessage `json:"saju_data,omitempty"`
	Report   json.RawMessage `json:"report,omitempty"`
	Payment  *PaymentInfo    `json:"payment,omitempty"`
}

type SajuComputeResponse struct {
	ID        string      `json:"id"`
	SajuData  interface{} `json:"saju_data"`
	CreatedAt time.Time   `json:"created_at"`
}

// UnlockResponse reports the outcome of one pass through the payment
// confirmation flow.
type UnlockResponse struct {
	Status          string `json:"status"`
	Attempts        int    `json:"attempts,omitempty"`
	RedirectURL     string `json:"redirect_url,omitempty"`
	RedirectAfterMS int64  `json:"redirect_after_ms,omitempty"`
	Retryable       bool   `json:"retryable,omitempty"`
	Error           string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
