package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/reporttype"
)

func (s *Store) GetFace(ctx context.Context, id string) (*models.FaceRecord, error) {
	var rec models.FaceRecord
	var reportsJSON []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, image_data, features, reports, record_type, paid, analyzed, created_at
		FROM face_records
		WHERE id = $1 AND quarantined = FALSE
	`, id).Scan(
		&rec.ID, &rec.ImageData, &rec.Features, &reportsJSON,
		&rec.Type, &rec.Paid, &rec.Analyzed, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get face record: %w", err)
	}

	if err := json.Unmarshal(reportsJSON, &rec.Reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	if rec.Reports == nil {
		rec.Reports = models.NewReportsSkeleton()
	}
	return &rec, nil
}

// PutFace upserts a record wholesale. Last write wins; there is no
// cross-operation locking because one record id is driven by a single
// client at a time.
func (s *Store) PutFace(ctx context.Context, rec *models.FaceRecord) error {
	if rec.Reports == nil {
		rec.Reports = models.NewReportsSkeleton()
	}
	reportsJSON, err := json.Marshal(rec.Reports)
	if err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO face_records (id, image_data, features, reports, record_type, paid, analyzed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			image_data = EXCLUDED.image_data,
			features = EXCLUDED.features,
			reports = EXCLUDED.reports,
			record_type = EXCLUDED.record_type,
			paid = EXCLUDED.paid,
			analyzed = EXCLUDED.analyzed
	`, rec.ID, rec.ImageData, rec.Features, reportsJSON,
		rec.Type, rec.Paid, rec.Analyzed, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to put face record: %w", err)
	}
	return nil
}

func (s *Store) GetAllFaces(ctx context.Context) ([]models.FaceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, image_data, features, reports, record_type, paid, analyzed, created_at
		FROM face_records
		WHERE quarantined = FALSE
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list face records: %w", err)
	}
	defer rows.Close()

	var records []models.FaceRecord
	for rows.Next() {
		var rec models.FaceRecord
		var reportsJSON []byte
		err := rows.Scan(
			&rec.ID, &rec.ImageData, &rec.Features, &reportsJSON,
			&rec.Type, &rec.Paid, &rec.Analyzed, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan face record: %w", err)
		}
		if err := json.Unmarshal(reportsJSON, &rec.Reports); err != nil {
			return nil, fmt.Errorf("failed to decode reports: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// markFaceReportPaid flips reports[type].paid and the legacy record-level
// flag, the same double write the legacy single-report flow relied on.
func (s *Store) markFaceReportPaid(ctx context.Context, t reporttype.Type, id string, p models.Purchase) error {
	rec, err := s.GetFace(ctx, id)
	if err != nil {
		return err
	}

	applyReportPurchase(rec, t, p)

	return s.PutFace(ctx, rec)
}

// applyReportPurchase records a purchase on the in-memory record. Only the
// paid flags change; the legacy type field describes the record, not the
// purchase, and stays untouched.
func applyReportPurchase(rec *models.FaceRecord, t reporttype.Type, p models.Purchase) {
	entry := rec.Reports[t]
	if entry == nil {
		entry = &models.ReportEntry{}
		rec.Reports[t] = entry
	}
	entry.Paid = true
	entry.Method = p.Method
	at := p.At
	entry.PurchasedAt = &at

	rec.Paid = true
}
