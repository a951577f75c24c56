package links

import (
	"math"
	"net"
	"sort"
	"strings"
	"time"

	"qrtrack/internal/domain"
)

const (
	reportDays    = 10
	reportDateFmt = "2006-01-02"
	unknownValue  = "Unknown"
)

// BuildReport derives the display view of a summary. Dates are UTC calendar
// days; the average covers whole days since creation, at least one.
func BuildReport(s domain.AnalyticsSummary, now time.Time) domain.ScanReport {
	days := math.Floor(now.Sub(s.Link.CreatedAt).Hours() / 24)
	if days < 1 {
		days = 1
	}

	out := domain.ScanReport{
		ID:            s.Link.ID,
		OriginalURL:   s.Link.OriginalURL,
		CreatedAt:     s.Link.CreatedAt,
		TotalScans:    s.TotalScans,
		UniqueScans:   s.UniqueScans,
		AveragePerDay: math.Round(float64(s.TotalScans)/days*10) / 10,
		ByDate:        groupByDate(s.Scans),
		Scans:         make([]domain.ReportScan, 0, len(s.Scans)),
	}

	for _, scan := range s.Scans {
		out.Scans = append(out.Scans, domain.ReportScan{
			Timestamp: scan.Timestamp,
			MaskedIP:  MaskIP(scan.IP),
			Client:    DescribeUserAgent(scan.UserAgent),
		})
	}

	return out
}

func groupByDate(scans []domain.Scan) []domain.DailyCount {
	counts := make(map[string]int)
	for _, scan := range scans {
		counts[scan.Timestamp.UTC().Format(reportDateFmt)]++
	}

	out := make([]domain.DailyCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, domain.DailyCount{Date: date, Count: n})
	}

	// ISO dates sort lexically.
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })

	if len(out) > reportDays {
		out = out[:reportDays]
	}

	return out
}

// MaskIP hides the host part of an address: the last two octets of IPv4,
// the second half of anything else.
func MaskIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return unknownValue
	}

	if parsed := net.ParseIP(ip); parsed != nil && parsed.To4() != nil && !strings.Contains(ip, ":") {
		parts := strings.Split(ip, ".")

		return parts[0] + "." + parts[1] + ".***.***"
	}

	return ip[:len(ip)/2] + "***"
}

// DescribeUserAgent is a best-effort "<browser> on <device>" label.
func DescribeUserAgent(ua string) string {
	if strings.TrimSpace(ua) == "" || ua == unknownValue {
		return unknownValue
	}

	browser := unknownValue
	switch {
	case strings.Contains(ua, "Edg"):
		browser = "Edge"
	case strings.Contains(ua, "Firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "Chrome"), strings.Contains(ua, "CriOS"):
		browser = "Chrome"
	case strings.Contains(ua, "Safari"):
		browser = "Safari"
	}

	device := "Desktop"
	switch {
	case strings.Contains(ua, "Tablet"), strings.Contains(ua, "iPad"):
		device = "Tablet"
	case strings.Contains(ua, "Mobile"):
		device = "Mobile"
	}

	return browser + " on " + device
}
