package domain

import (
	"encoding/json"
	"time"
)

// ShortLink maps a short id to its destination. Both fields are immutable
// once stored.
type ShortLink struct {
	ID           string
	OriginalURL  string
	StyleOptions json.RawMessage
	CreatedAt    time.Time
}

type LinkSummary struct {
	ID          string
	OriginalURL string
	CreatedAt   time.Time
	ScanCount   int64
}

type Registration struct {
	Link        ShortLink
	TrackingURL string
}
