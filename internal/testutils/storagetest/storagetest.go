// Package storagetest is the behavioural contract every links.Storage
// implementation must satisfy. Adapters run it from their own tests.
package storagetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"qrtrack/internal/app/links"
	"qrtrack/internal/domain"
	"qrtrack/internal/shortid"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) links.Storage

func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("short link round trip", func(t *testing.T) { testRoundTrip(t, newStore(t)) })
	t.Run("duplicate id", func(t *testing.T) { testDuplicateID(t, newStore(t)) })
	t.Run("missing link", func(t *testing.T) { testNotFound(t, newStore(t)) })
	t.Run("scan counts", func(t *testing.T) { testScanCounts(t, newStore(t)) })
	t.Run("missing ip counts once", func(t *testing.T) { testMissingIP(t, newStore(t)) })
	t.Run("recent scans window", func(t *testing.T) { testRecentScans(t, newStore(t)) })
	t.Run("list short links", func(t *testing.T) { testListShortLinks(t, newStore(t)) })
	t.Run("concurrent same id", func(t *testing.T) { testConcurrentSameID(t, newStore(t)) })
	t.Run("concurrent registration", func(t *testing.T) { testConcurrentRegistration(t, newStore(t)) })
}

func testRoundTrip(t *testing.T, store links.Storage) {
	ctx := context.Background()
	style := json.RawMessage(`{"color":"#000"}`)

	created, err := store.InsertShortLink(ctx, "Ab3dE6gH", "https://example.com/a?b=c", style)
	require.NoError(t, err)
	require.Equal(t, "Ab3dE6gH", created.ID)
	require.Equal(t, "https://example.com/a?b=c", created.OriginalURL)
	require.JSONEq(t, string(style), string(created.StyleOptions))
	require.False(t, created.CreatedAt.IsZero())

	got, err := store.GetShortLink(ctx, "Ab3dE6gH")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, created.OriginalURL, got.OriginalURL)
	require.JSONEq(t, string(style), string(got.StyleOptions))
	require.WithinDuration(t, created.CreatedAt, got.CreatedAt, 0)
}

func testDuplicateID(t *testing.T, store links.Storage) {
	ctx := context.Background()

	_, err := store.InsertShortLink(ctx, "dup00001", "https://a.example", nil)
	require.NoError(t, err)

	_, err = store.InsertShortLink(ctx, "dup00001", "https://b.example", nil)
	require.ErrorIs(t, err, domain.ErrDuplicateID)

	got, err := store.GetShortLink(ctx, "dup00001")
	require.NoError(t, err)
	require.Equal(t, "https://a.example", got.OriginalURL)
}

func testNotFound(t *testing.T, store links.Storage) {
	_, err := store.GetShortLink(context.Background(), "missing1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testScanCounts(t *testing.T, store links.Storage) {
	ctx := context.Background()

	_, err := store.InsertShortLink(ctx, "count001", "https://example.com", nil)
	require.NoError(t, err)

	for _, ip := range []string{"1.1.1.1", "1.1.1.1", "1.1.1.1", "2.2.2.2", "2.2.2.2"} {
		_, err := store.InsertScan(ctx, domain.ScanInput{QRID: "count001", IP: ip, UserAgent: "test"})
		require.NoError(t, err)
	}

	total, err := store.CountScans(ctx, "count001")
	require.NoError(t, err)
	require.EqualValues(t, 5, total)

	unique, err := store.CountDistinctIPs(ctx, "count001")
	require.NoError(t, err)
	require.EqualValues(t, 2, unique)

	total, err = store.CountScans(ctx, "other001")
	require.NoError(t, err)
	require.Zero(t, total)
}

func testMissingIP(t *testing.T, store links.Storage) {
	ctx := context.Background()

	for _, ip := range []string{"", "", "3.3.3.3"} {
		_, err := store.InsertScan(ctx, domain.ScanInput{QRID: "noip0001", IP: ip})
		require.NoError(t, err)
	}

	unique, err := store.CountDistinctIPs(ctx, "noip0001")
	require.NoError(t, err)
	require.EqualValues(t, 2, unique)

	scans, err := store.ListRecentScans(ctx, "noip0001", 10)
	require.NoError(t, err)
	require.Len(t, scans, 3)
	require.Empty(t, scans[1].IP)
	require.Empty(t, scans[1].UserAgent)
}

func testRecentScans(t *testing.T, store links.Storage) {
	ctx := context.Background()

	const n = 150
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := store.InsertScan(ctx, domain.ScanInput{
			QRID:      "recent01",
			IP:        fmt.Sprintf("10.0.%d.%d", i/256, i%256),
			UserAgent: "ua",
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	scans, err := store.ListRecentScans(ctx, "recent01", 100)
	require.NoError(t, err)
	require.Len(t, scans, 100)
	require.Equal(t, ids[n-1], scans[0].ID)
	require.Equal(t, ids[n-100], scans[99].ID)

	for i := 1; i < len(scans); i++ {
		require.False(t, scans[i].Timestamp.After(scans[i-1].Timestamp), "scans must be newest first")
		require.Equal(t, "recent01", scans[i].QRID)
	}

	empty, err := store.ListRecentScans(ctx, "nothing1", 100)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func testListShortLinks(t *testing.T, store links.Storage) {
	ctx := context.Background()

	for _, id := range []string{"list0001", "list0002", "list0003"} {
		_, err := store.InsertShortLink(ctx, id, "https://example.com/"+id, nil)
		require.NoError(t, err)
	}

	for i := 0; i < 2; i++ {
		_, err := store.InsertScan(ctx, domain.ScanInput{QRID: "list0002", IP: "1.1.1.1"})
		require.NoError(t, err)
	}

	all, err := store.ListShortLinks(ctx, 50)
	require.NoError(t, err)
	require.Len(t, all, 3)

	counts := map[string]int64{}
	for i, item := range all {
		counts[item.ID] = item.ScanCount
		require.Equal(t, "https://example.com/"+item.ID, item.OriginalURL)
		if i > 0 {
			require.False(t, item.CreatedAt.After(all[i-1].CreatedAt), "links must be newest first")
		}
	}
	require.Equal(t, map[string]int64{"list0001": 0, "list0002": 2, "list0003": 0}, counts)

	limited, err := store.ListShortLinks(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func testConcurrentSameID(t *testing.T, store links.Storage) {
	ctx := context.Background()

	const workers = 8

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		dups int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, err := store.InsertShortLink(ctx, "race0001", fmt.Sprintf("https://example.com/%d", i), nil)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrDuplicateID):
				dups++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, ok)
	require.Equal(t, workers-1, dups)
}

func testConcurrentRegistration(t *testing.T, store links.Storage) {
	ctx := context.Background()
	reg := links.NewRegistration(store, shortid.NewRandom(), "https://qr.example", nil)

	const workers = 20

	results := make([]domain.Registration, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = reg.Create(ctx, fmt.Sprintf("https://example.com/%d", i), nil)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, workers)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])

		id := results[i].Link.ID
		require.True(t, shortid.IsValid(id))
		require.Equal(t, "https://qr.example/r/"+id, results[i].TrackingURL)

		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}

		got, err := store.GetShortLink(ctx, id)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("https://example.com/%d", i), got.OriginalURL)
		require.JSONEq(t, `{}`, string(got.StyleOptions))
	}
}
