package domain

import "time"

type Scan struct {
	ID        int64
	QRID      string
	Timestamp time.Time
	IP        string
	UserAgent string
}

// ScanInput is what the redirect path knows about a visitor. Empty strings
// mean the value was absent.
type ScanInput struct {
	QRID      string
	IP        string
	UserAgent string
}

type AnalyticsSummary struct {
	Link        ShortLink
	TotalScans  int64
	UniqueScans int64
	Scans       []Scan
}

type DailyCount struct {
	Date  string
	Count int
}

type ReportScan struct {
	Timestamp time.Time
	MaskedIP  string
	Client    string
}

// ScanReport is the display-oriented view of an AnalyticsSummary.
type ScanReport struct {
	ID            string
	OriginalURL   string
	CreatedAt     time.Time
	TotalScans    int64
	UniqueScans   int64
	AveragePerDay float64
	ByDate        []DailyCount
	Scans         []ReportScan
}
