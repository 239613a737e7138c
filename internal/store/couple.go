package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"face-fortune-backend/internal/models"
)

func (s *Store) GetCouple(ctx context.Context, id string) (*models.CoupleRecord, error) {
	var rec models.CoupleRecord
	var reportJSON []byte
	var paidAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, features1, features2, image1_data, image2_data,
		       relationship_type, relationship_feeling, paid, paid_at, score, report, created_at
		FROM couple_records
		WHERE id = $1
	`, id).Scan(
		&rec.ID, &rec.Features1, &rec.Features2, &rec.Image1Data, &rec.Image2Data,
		&rec.RelationshipType, &rec.RelationshipFeeling, &rec.Paid, &paidAt,
		&rec.Score, &reportJSON, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get couple record: %w", err)
	}

	if paidAt.Valid {
		t := paidAt.Time
		rec.PaidAt = &t
	}
	if len(reportJSON) > 0 {
		if err := json.Unmarshal(reportJSON, &rec.Report); err != nil {
			return nil, fmt.Errorf("failed to decode couple report: %w", err)
		}
	}
	return &rec, nil
}

func (s *Store) PutCouple(ctx context.Context, rec *models.CoupleRecord) error {
	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("failed to encode couple report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO couple_records (id, features1, features2, image1_data, image2_data,
			relationship_type, relationship_feeling, paid, paid_at, score, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			paid = EXCLUDED.paid,
			paid_at = EXCLUDED.paid_at,
			score = EXCLUDED.score,
			report = EXCLUDED.report
	`, rec.ID, rec.Features1, rec.Features2, rec.Image1Data, rec.Image2Data,
		rec.RelationshipType, rec.RelationshipFeeling, rec.Paid, rec.PaidAt,
		rec.Score, reportJSON, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to put couple record: %w", err)
	}
	return nil
}

func (s *Store) markCouplePaid(ctx context.Context, id string, p models.Purchase) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE couple_records
		SET paid = TRUE, paid_at = $1
		WHERE id = $2
	`, p.At, id)
	if err != nil {
		return fmt.Errorf("failed to mark couple record paid: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
