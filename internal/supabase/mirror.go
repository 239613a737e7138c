package supabase

import (
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// Mirror keeps a secondary copy of analysis records in a Supabase
// face_analyses table. The primary store stays authoritative; mirror
// writes are best effort and callers fire them asynchronously.
type Mirror struct {
	client *supabase.Client
	logger *zap.Logger
}

// FaceAnalysisRow is the mirrored row shape shared by the face and
// couple services.
type FaceAnalysisRow struct {
	ID          string     `json:"id"`
	ServiceType string     `json:"service_type"`
	Features    string     `json:"features,omitempty"`
	ImagePath   string     `json:"image_path,omitempty"`
	Features1   string     `json:"features1,omitempty"`
	Features2   string     `json:"features2,omitempty"`
	Image1Path  string     `json:"image1_path,omitempty"`
	Image2Path  string     `json:"image2_path,omitempty"`
	IsPaid      bool       `json:"is_paid"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewMirror(supabaseURL, apiKey string, logger *zap.Logger) (*Mirror, error) {
	client, err := supabase.NewClient(supabaseURL, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Mirror{client: client, logger: logger}, nil
}

// Upsert writes one row, creating or updating on id.
func (m *Mirror) Upsert(row FaceAnalysisRow) error {
	_, _, err := m.client.From("face_analyses").
		Upsert(row, "id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert mirror row: %w", err)
	}
	return nil
}

// UpsertAsync mirrors a row on a background goroutine, logging failures
// instead of surfacing them.
func (m *Mirror) UpsertAsync(row FaceAnalysisRow) {
	go func() {
		if err := m.Upsert(row); err != nil {
			m.logger.Warn("record mirror failed",
				zap.String("record_id", row.ID),
				zap.Error(err))
		}
	}()
}

// MarkPaid flips the paid flag on the mirrored row.
func (m *Mirror) MarkPaid(id string, paidAt time.Time) error {
	_, _, err := m.client.From("face_analyses").
		Update(map[string]interface{}{
			"is_paid": true,
			"paid_at": paidAt.Format(time.RFC3339),
		}, "", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to mark mirror row paid: %w", err)
	}
	return nil
}
