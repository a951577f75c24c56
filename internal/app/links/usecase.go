package links

import (
	"context"
	"encoding/json"

	"qrtrack/internal/domain"
)

// RegisterUseCase is an input port for issuing short links.
type RegisterUseCase interface {
	Create(ctx context.Context, originalURL string, styleOptions json.RawMessage) (domain.Registration, error)
}

// RedirectUseCase is an input port for resolving short links.
type RedirectUseCase interface {
	Resolve(ctx context.Context, id string, meta VisitMeta) (string, error)
}

// AnalyticsUseCase is an input port for reading scan history.
type AnalyticsUseCase interface {
	Get(ctx context.Context, id string) (domain.AnalyticsSummary, error)
	Report(ctx context.Context, id string) (domain.ScanReport, error)
	ListAll(ctx context.Context, limit int) ([]domain.LinkSummary, error)
}
