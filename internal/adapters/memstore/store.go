// Package memstore is a process-local links.Storage. Data does not survive a
// restart; it backs STORAGE_DRIVER=memory and handler tests.
package memstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"qrtrack/internal/app/links"
	"qrtrack/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	links  map[string]domain.ShortLink
	scans  map[string][]domain.Scan
	nextID int64
	now    func() time.Time
}

func New() *Store {
	return &Store{
		links: make(map[string]domain.ShortLink),
		scans: make(map[string][]domain.Scan),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

var _ links.Storage = (*Store)(nil)

func (s *Store) InsertShortLink(
	ctx context.Context,
	id, originalURL string,
	styleOptions json.RawMessage,
) (domain.ShortLink, error) {
	if err := ctx.Err(); err != nil {
		return domain.ShortLink{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[id]; ok {
		return domain.ShortLink{}, domain.ErrDuplicateID
	}

	if len(styleOptions) == 0 {
		styleOptions = json.RawMessage(`{}`)
	}

	link := domain.ShortLink{
		ID:           id,
		OriginalURL:  originalURL,
		StyleOptions: append(json.RawMessage(nil), styleOptions...),
		CreatedAt:    s.now(),
	}
	s.links[id] = link

	return cloneLink(link), nil
}

func (s *Store) GetShortLink(ctx context.Context, id string) (domain.ShortLink, error) {
	if err := ctx.Err(); err != nil {
		return domain.ShortLink{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[id]
	if !ok {
		return domain.ShortLink{}, domain.ErrNotFound
	}

	return cloneLink(link), nil
}

// cloneLink detaches StyleOptions from the stored record.
func cloneLink(link domain.ShortLink) domain.ShortLink {
	link.StyleOptions = append(json.RawMessage(nil), link.StyleOptions...)

	return link
}

func (s *Store) InsertScan(ctx context.Context, scan domain.ScanInput) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.scans[scan.QRID] = append(s.scans[scan.QRID], domain.Scan{
		ID:        s.nextID,
		QRID:      scan.QRID,
		Timestamp: s.now(),
		IP:        scan.IP,
		UserAgent: scan.UserAgent,
	})

	return s.nextID, nil
}

func (s *Store) CountScans(ctx context.Context, qrID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.scans[qrID])), nil
}

// CountDistinctIPs counts a missing IP as one more distinct value.
func (s *Store) CountDistinctIPs(ctx context.Context, qrID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, scan := range s.scans[qrID] {
		seen[scan.IP] = struct{}{}
	}

	return int64(len(seen)), nil
}

// ListRecentScans relies on scans being appended in insertion order.
func (s *Store) ListRecentScans(ctx context.Context, qrID string, limit int) ([]domain.Scan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.scans[qrID]
	n := len(all)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]domain.Scan, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}

	return out, nil
}

func (s *Store) ListShortLinks(ctx context.Context, limit int) ([]domain.LinkSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LinkSummary, 0, len(s.links))
	for _, link := range s.links {
		out = append(out, domain.LinkSummary{
			ID:          link.ID,
			OriginalURL: link.OriginalURL,
			CreatedAt:   link.CreatedAt,
			ScanCount:   int64(len(s.scans[link.ID])),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].ID > out[j].ID
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}

	return out, nil
}
