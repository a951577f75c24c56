package links

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"qrtrack/internal/domain"
)

type stubStorage struct {
	t testing.TB

	insertShortLinkFunc  func(context.Context, string, string, json.RawMessage) (domain.ShortLink, error)
	getShortLinkFunc     func(context.Context, string) (domain.ShortLink, error)
	insertScanFunc       func(context.Context, domain.ScanInput) (int64, error)
	countScansFunc       func(context.Context, string) (int64, error)
	countDistinctIPsFunc func(context.Context, string) (int64, error)
	listRecentScansFunc  func(context.Context, string, int) ([]domain.Scan, error)
	listShortLinksFunc   func(context.Context, int) ([]domain.LinkSummary, error)
}

func (s *stubStorage) InsertShortLink(
	ctx context.Context,
	id, originalURL string,
	styleOptions json.RawMessage,
) (domain.ShortLink, error) {
	s.t.Helper()
	if s.insertShortLinkFunc == nil {
		s.t.Fatalf("unexpected InsertShortLink call")
	}
	return s.insertShortLinkFunc(ctx, id, originalURL, styleOptions)
}

func (s *stubStorage) GetShortLink(ctx context.Context, id string) (domain.ShortLink, error) {
	s.t.Helper()
	if s.getShortLinkFunc == nil {
		s.t.Fatalf("unexpected GetShortLink call")
	}
	return s.getShortLinkFunc(ctx, id)
}

func (s *stubStorage) InsertScan(ctx context.Context, scan domain.ScanInput) (int64, error) {
	s.t.Helper()
	if s.insertScanFunc == nil {
		s.t.Fatalf("unexpected InsertScan call")
	}
	return s.insertScanFunc(ctx, scan)
}

func (s *stubStorage) CountScans(ctx context.Context, qrID string) (int64, error) {
	s.t.Helper()
	if s.countScansFunc == nil {
		s.t.Fatalf("unexpected CountScans call")
	}
	return s.countScansFunc(ctx, qrID)
}

func (s *stubStorage) CountDistinctIPs(ctx context.Context, qrID string) (int64, error) {
	s.t.Helper()
	if s.countDistinctIPsFunc == nil {
		s.t.Fatalf("unexpected CountDistinctIPs call")
	}
	return s.countDistinctIPsFunc(ctx, qrID)
}

func (s *stubStorage) ListRecentScans(ctx context.Context, qrID string, limit int) ([]domain.Scan, error) {
	s.t.Helper()
	if s.listRecentScansFunc == nil {
		s.t.Fatalf("unexpected ListRecentScans call")
	}
	return s.listRecentScansFunc(ctx, qrID, limit)
}

func (s *stubStorage) ListShortLinks(ctx context.Context, limit int) ([]domain.LinkSummary, error) {
	s.t.Helper()
	if s.listShortLinksFunc == nil {
		s.t.Fatalf("unexpected ListShortLinks call")
	}
	return s.listShortLinksFunc(ctx, limit)
}

type seqGenerator struct {
	ids   []string
	calls int
}

func (g *seqGenerator) Generate() (string, error) {
	if g.calls >= len(g.ids) {
		return "", fmt.Errorf("seqGenerator: exhausted after %d ids", len(g.ids))
	}

	id := g.ids[g.calls]
	g.calls++

	return id, nil
}

type logEntry struct {
	level string
	msg   string
	kv    []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries *[]logEntry
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{entries: &[]logEntry{}}
}

func (l *captureLogger) With(...any) Logger { return l }

func (l *captureLogger) Debug(msg string, kv ...any) { l.add("debug", msg, kv) }
func (l *captureLogger) Info(msg string, kv ...any)  { l.add("info", msg, kv) }
func (l *captureLogger) Warn(msg string, kv ...any)  { l.add("warn", msg, kv) }
func (l *captureLogger) Error(msg string, kv ...any) { l.add("error", msg, kv) }

func (l *captureLogger) add(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, kv: kv})
}

func (l *captureLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range *l.entries {
		if e.level == level {
			n++
		}
	}

	return n
}
