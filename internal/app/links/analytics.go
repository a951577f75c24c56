package links

import (
	"context"
	"fmt"
	"time"

	"qrtrack/internal/domain"
)

const (
	RecentScansLimit = 100

	DefaultListLimit = 50
)

type Analytics struct {
	store Storage
	now   func() time.Time
}

func NewAnalytics(store Storage) *Analytics {
	return &Analytics{store: store, now: time.Now}
}

var _ AnalyticsUseCase = (*Analytics)(nil)

func (a *Analytics) Get(ctx context.Context, id string) (domain.AnalyticsSummary, error) {
	link, err := a.store.GetShortLink(ctx, id)
	if err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("links analytics: %w", err)
	}

	total, err := a.store.CountScans(ctx, id)
	if err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("links count scans: %w", err)
	}

	unique, err := a.store.CountDistinctIPs(ctx, id)
	if err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("links count unique scans: %w", err)
	}

	scans, err := a.store.ListRecentScans(ctx, id, RecentScansLimit)
	if err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("links recent scans: %w", err)
	}

	return domain.AnalyticsSummary{
		Link:        link,
		TotalScans:  total,
		UniqueScans: unique,
		Scans:       scans,
	}, nil
}

func (a *Analytics) Report(ctx context.Context, id string) (domain.ScanReport, error) {
	summary, err := a.Get(ctx, id)
	if err != nil {
		return domain.ScanReport{}, err
	}

	return BuildReport(summary, a.now()), nil
}

func (a *Analytics) ListAll(ctx context.Context, limit int) ([]domain.LinkSummary, error) {
	items, err := a.store.ListShortLinks(ctx, NormalizeListLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("links list all: %w", err)
	}

	return items, nil
}

// NormalizeListLimit maps non-positive values to the default; any positive
// limit is passed to storage as is.
func NormalizeListLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}

	return limit
}
