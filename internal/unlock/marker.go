package unlock

import (
	"context"
	"time"

	"go.uber.org/zap"

	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/reporttype"
)

// PaidMirror receives best-effort paid notifications for records that are
// also mirrored remotely.
type PaidMirror interface {
	MarkPaid(id string, paidAt time.Time) error
}

// MirroredMarker records a purchase in the primary store, then flips the
// mirrored row's paid flag on a background goroutine. Mirror failures are
// logged and dropped; the primary store stays authoritative. Saju records
// are not mirrored and skip the notification.
type MirroredMarker struct {
	primary Marker
	mirror  PaidMirror
	logger  *zap.Logger
}

func NewMirroredMarker(primary Marker, mirror PaidMirror, logger *zap.Logger) *MirroredMarker {
	return &MirroredMarker{primary: primary, mirror: mirror, logger: logger}
}

func (m *MirroredMarker) MarkPaid(ctx context.Context, t reporttype.Type, recordID string, p models.Purchase) error {
	if err := m.primary.MarkPaid(ctx, t, recordID, p); err != nil {
		return err
	}
	if t.Store() != reporttype.SajuStore {
		go func() {
			if err := m.mirror.MarkPaid(recordID, p.At); err != nil {
				m.logger.Warn("mirror paid update failed",
					zap.String("record_id", recordID),
					zap.Error(err))
			}
		}()
	}
	return nil
}
