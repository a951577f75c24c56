package links

import (
	"context"
	"encoding/json"

	"qrtrack/internal/domain"
)

// Storage is the persistence port shared by every service. InsertShortLink
// must enforce id uniqueness atomically and report collisions as
// domain.ErrDuplicateID.
type Storage interface {
	InsertShortLink(ctx context.Context, id, originalURL string, styleOptions json.RawMessage) (domain.ShortLink, error)
	GetShortLink(ctx context.Context, id string) (domain.ShortLink, error)
	InsertScan(ctx context.Context, scan domain.ScanInput) (int64, error)
	CountScans(ctx context.Context, qrID string) (int64, error)
	CountDistinctIPs(ctx context.Context, qrID string) (int64, error)
	ListRecentScans(ctx context.Context, qrID string, limit int) ([]domain.Scan, error)
	ListShortLinks(ctx context.Context, limit int) ([]domain.LinkSummary, error)
}

// ScanRecorder accepts scans from the redirect path. Record must not block
// on the write and has no error result: failures belong to the recorder.
type ScanRecorder interface {
	Record(ctx context.Context, scan domain.ScanInput)
}
