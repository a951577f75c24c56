package dto

import (
	"encoding/json"
	"time"

	"qrtrack/internal/domain"
)

const createdMessage = "QR code created successfully"

type CreateRequest struct {
	URL          string          `json:"url" validate:"required" example:"https://example.com"`
	StyleOptions json.RawMessage `json:"styleOptions,omitempty"`
}

type CreateResponse struct {
	Success     bool   `json:"success" example:"true"`
	ShortID     string `json:"shortId" example:"Ab3dE6gH"`
	TrackingURL string `json:"trackingUrl" example:"https://qr.example/r/Ab3dE6gH"`
	OriginalURL string `json:"originalUrl" example:"https://example.com"`
	Message     string `json:"message" example:"QR code created successfully"`
}

func FromRegistration(r domain.Registration) CreateResponse {
	return CreateResponse{
		Success:     true,
		ShortID:     r.Link.ID,
		TrackingURL: r.TrackingURL,
		OriginalURL: r.Link.OriginalURL,
		Message:     createdMessage,
	}
}

type ScanResponse struct {
	Timestamp time.Time `json:"timestamp"`
	IP        *string   `json:"ip"`
	UserAgent *string   `json:"user_agent"`
}

type StatsResponse struct {
	Success      bool            `json:"success" example:"true"`
	ID           string          `json:"id" example:"Ab3dE6gH"`
	OriginalURL  string          `json:"originalUrl" example:"https://example.com"`
	StyleOptions json.RawMessage `json:"styleOptions"`
	CreatedAt    time.Time       `json:"createdAt"`
	TotalScans   int64           `json:"totalScans" example:"5"`
	UniqueScans  int64           `json:"uniqueScans" example:"2"`
	Scans        []ScanResponse  `json:"scans"`
}

func FromSummary(s domain.AnalyticsSummary) StatsResponse {
	style := s.Link.StyleOptions
	if len(style) == 0 {
		style = json.RawMessage(`{}`)
	}

	scans := make([]ScanResponse, 0, len(s.Scans))
	for _, scan := range s.Scans {
		scans = append(scans, ScanResponse{
			Timestamp: scan.Timestamp,
			IP:        optional(scan.IP),
			UserAgent: optional(scan.UserAgent),
		})
	}

	return StatsResponse{
		Success:      true,
		ID:           s.Link.ID,
		OriginalURL:  s.Link.OriginalURL,
		StyleOptions: style,
		CreatedAt:    s.Link.CreatedAt,
		TotalScans:   s.TotalScans,
		UniqueScans:  s.UniqueScans,
		Scans:        scans,
	}
}

type DailyCountResponse struct {
	Date  string `json:"date" example:"2024-03-05"`
	Count int    `json:"count" example:"3"`
}

type ReportScanResponse struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip" example:"192.168.***.***"`
	Client    string    `json:"client" example:"Chrome on Desktop"`
}

type ReportResponse struct {
	Success       bool                 `json:"success" example:"true"`
	ID            string               `json:"id" example:"Ab3dE6gH"`
	OriginalURL   string               `json:"originalUrl" example:"https://example.com"`
	CreatedAt     time.Time            `json:"createdAt"`
	TotalScans    int64                `json:"totalScans" example:"5"`
	UniqueScans   int64                `json:"uniqueScans" example:"2"`
	AveragePerDay float64              `json:"averagePerDay" example:"1.7"`
	ByDate        []DailyCountResponse `json:"byDate"`
	Scans         []ReportScanResponse `json:"scans"`
}

func FromReport(r domain.ScanReport) ReportResponse {
	byDate := make([]DailyCountResponse, 0, len(r.ByDate))
	for _, d := range r.ByDate {
		byDate = append(byDate, DailyCountResponse{Date: d.Date, Count: d.Count})
	}

	scans := make([]ReportScanResponse, 0, len(r.Scans))
	for _, s := range r.Scans {
		scans = append(scans, ReportScanResponse{
			Timestamp: s.Timestamp,
			IP:        s.MaskedIP,
			Client:    s.Client,
		})
	}

	return ReportResponse{
		Success:       true,
		ID:            r.ID,
		OriginalURL:   r.OriginalURL,
		CreatedAt:     r.CreatedAt,
		TotalScans:    r.TotalScans,
		UniqueScans:   r.UniqueScans,
		AveragePerDay: r.AveragePerDay,
		ByDate:        byDate,
		Scans:         scans,
	}
}

type QRCodeSummary struct {
	ID          string    `json:"id" example:"Ab3dE6gH"`
	OriginalURL string    `json:"original_url" example:"https://example.com"`
	CreatedAt   time.Time `json:"created_at"`
	ScanCount   int64     `json:"scan_count" example:"5"`
}

type ListResponse struct {
	Success bool            `json:"success" example:"true"`
	Count   int             `json:"count" example:"1"`
	QRCodes []QRCodeSummary `json:"qrCodes"`
}

func FromSummaries(items []domain.LinkSummary) ListResponse {
	out := make([]QRCodeSummary, 0, len(items))
	for _, it := range items {
		out = append(out, QRCodeSummary{
			ID:          it.ID,
			OriginalURL: it.OriginalURL,
			CreatedAt:   it.CreatedAt,
			ScanCount:   it.ScanCount,
		})
	}

	return ListResponse{Success: true, Count: len(out), QRCodes: out}
}

type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime" example:"12.5"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
