// Package store is the persistence layer for analysis records. One table
// per record family (face, couple, saju); every operation is a single
// statement or a get-then-put with no cross-operation atomicity, matching
// the access pattern the rest of the service assumes.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/reporttype"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to the database. Safe to call repeatedly; each call
// returns an independent handle.
func Open(connectionString string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Validate runs the structural check once after open. Records missing a
// required field (id, timestamp, features, image) are quarantined — hidden
// from all reads — instead of wiping the whole store.
func (s *Store) Validate(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE face_records
		SET quarantined = TRUE
		WHERE quarantined = FALSE
		  AND (id = '' OR features = '' OR image_data = '' OR created_at IS NULL)
	`)
	if err != nil {
		return fmt.Errorf("failed to validate records: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Warn("quarantined records failing structural validation",
			zap.Int64("count", n))
	}
	return nil
}

// MarkPaid flips the paid flag for the record owning the given report
// type. The mutation is a set-to-true and safe to repeat for an
// already-confirmed order.
func (s *Store) MarkPaid(ctx context.Context, t reporttype.Type, recordID string, p models.Purchase) error {
	switch t.Store() {
	case reporttype.SajuStore:
		return s.markSajuPaid(ctx, recordID, p)
	case reporttype.CoupleStore:
		return s.markCouplePaid(ctx, recordID, p)
	default:
		return s.markFaceReportPaid(ctx, t, recordID, p)
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}
