package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"face-fortune-backend/internal/models"
)

func (s *Store) GetSaju(ctx context.Context, id string) (*models.SajuRecord, error) {
	var rec models.SajuRecord
	var paymentJSON []byte
	var report []byte
	var paidAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, input, saju_data, report, paid, payment, paid_at, created_at
		FROM saju_records
		WHERE id = $1
	`, id).Scan(
		&rec.ID, (*[]byte)(&rec.Input), (*[]byte)(&rec.SajuData), &report,
		&rec.Paid, &paymentJSON, &paidAt, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saju record: %w", err)
	}

	if len(report) > 0 && string(report) != "null" {
		rec.Report = json.RawMessage(report)
	}
	if len(paymentJSON) > 0 && string(paymentJSON) != "null" {
		if err := json.Unmarshal(paymentJSON, &rec.Payment); err != nil {
			return nil, fmt.Errorf("failed to decode saju payment: %w", err)
		}
	}
	if paidAt.Valid {
		t := paidAt.Time
		rec.PaidAt = &t
	}
	return &rec, nil
}

func (s *Store) PutSaju(ctx context.Context, rec *models.SajuRecord) error {
	paymentJSON, err := json.Marshal(rec.Payment)
	if err != nil {
		return fmt.Errorf("failed to encode saju payment: %w", err)
	}
	report := rec.Report
	if report == nil {
		report = json.RawMessage("null")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saju_records (id, input, saju_data, report, paid, payment, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			report = EXCLUDED.report,
			paid = EXCLUDED.paid,
			payment = EXCLUDED.payment,
			paid_at = EXCLUDED.paid_at
	`, rec.ID, []byte(rec.Input), []byte(rec.SajuData), []byte(report),
		rec.Paid, paymentJSON, rec.PaidAt, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to put saju record: %w", err)
	}
	return nil
}

func (s *Store) markSajuPaid(ctx context.Context, id string, p models.Purchase) error {
	rec, err := s.GetSaju(ctx, id)
	if err != nil {
		return err
	}

	rec.Paid = true
	rec.Payment = &models.SajuPayment{
		Method:     p.Method,
		Price:      p.Amount,
		IsDiscount: p.IsDiscount,
	}
	at := p.At
	rec.PaidAt = &at

	return s.PutSaju(ctx, rec)
}
