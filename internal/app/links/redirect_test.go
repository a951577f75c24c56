package links

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"qrtrack/internal/domain"
)

type scanRecorderFunc func(context.Context, domain.ScanInput)

func (f scanRecorderFunc) Record(ctx context.Context, scan domain.ScanInput) { f(ctx, scan) }

func TestRedirectorResolve_InvalidIDSkipsStorage(t *testing.T) {
	ctx := context.Background()

	for _, id := range []string{"", "abc1234", "abcdefg!", "abcdefghi", "abcd efg"} {
		t.Run(id, func(t *testing.T) {
			svc := NewRedirector(&stubStorage{t: t}, nil, nil)
			_, err := svc.Resolve(ctx, id, VisitMeta{})
			require.ErrorIs(t, err, domain.ErrInvalidID)
		})
	}
}

func TestRedirectorResolve_NotFound(t *testing.T) {
	ctx := context.Background()

	repo := &stubStorage{
		t: t,
		getShortLinkFunc: func(ctx context.Context, id string) (domain.ShortLink, error) {
			return domain.ShortLink{}, domain.ErrNotFound
		},
	}

	recorder := scanRecorderFunc(func(context.Context, domain.ScanInput) {
		t.Fatalf("no scan expected for unknown id")
	})

	svc := NewRedirector(repo, recorder, nil)
	_, err := svc.Resolve(ctx, "Zz000000", VisitMeta{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedirectorResolve_RecordsScan(t *testing.T) {
	ctx := context.Background()

	repo := &stubStorage{
		t: t,
		getShortLinkFunc: func(ctx context.Context, id string) (domain.ShortLink, error) {
			return domain.ShortLink{ID: id, OriginalURL: "https://example.com/dest"}, nil
		},
	}

	var got []domain.ScanInput
	recorder := scanRecorderFunc(func(_ context.Context, scan domain.ScanInput) {
		got = append(got, scan)
	})

	svc := NewRedirector(repo, recorder, nil)
	dest, err := svc.Resolve(ctx, "aB3dE6gH", VisitMeta{IP: "1.1.1.1", UserAgent: "curl/8.5.0"})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/dest", dest)
	require.Equal(t, []domain.ScanInput{{QRID: "aB3dE6gH", IP: "1.1.1.1", UserAgent: "curl/8.5.0"}}, got)
}

func TestRedirectorResolve_ScanFailureIsIsolated(t *testing.T) {
	ctx := context.Background()

	repo := &stubStorage{
		t: t,
		getShortLinkFunc: func(ctx context.Context, id string) (domain.ShortLink, error) {
			return domain.ShortLink{ID: id, OriginalURL: "https://example.com/dest"}, nil
		},
		insertScanFunc: func(ctx context.Context, scan domain.ScanInput) (int64, error) {
			return 0, errors.New("disk full")
		},
	}

	t.Run("sync recorder", func(t *testing.T) {
		log := newCaptureLogger()
		svc := NewRedirector(repo, NewSyncScanRecorder(repo, log), nil)

		dest, err := svc.Resolve(ctx, "aB3dE6gH", VisitMeta{IP: "2.2.2.2"})
		require.NoError(t, err)
		require.Equal(t, "https://example.com/dest", dest)
		require.Equal(t, 1, log.count("error"))
	})

	t.Run("panicking recorder", func(t *testing.T) {
		log := newCaptureLogger()
		recorder := scanRecorderFunc(func(context.Context, domain.ScanInput) { panic("boom") })
		svc := NewRedirector(repo, recorder, log)

		dest, err := svc.Resolve(ctx, "aB3dE6gH", VisitMeta{})
		require.NoError(t, err)
		require.Equal(t, "https://example.com/dest", dest)
		require.Equal(t, 1, log.count("error"))
	})
}

func TestRedirectorResolve_DoesNotWaitForScanWrite(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	var written atomic.Int32

	repo := &stubStorage{
		t: t,
		getShortLinkFunc: func(ctx context.Context, id string) (domain.ShortLink, error) {
			return domain.ShortLink{ID: id, OriginalURL: "https://example.com/slow"}, nil
		},
		insertScanFunc: func(ctx context.Context, scan domain.ScanInput) (int64, error) {
			<-release
			written.Add(1)
			return 1, nil
		},
	}

	recorder := NewAsyncScanRecorder(repo, RecorderConfig{QueueSize: 4, Workers: 1, WriteTimeout: time.Second}, nil)
	svc := NewRedirector(repo, recorder, nil)

	dest, err := svc.Resolve(ctx, "aB3dE6gH", VisitMeta{})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/slow", dest)
	require.Zero(t, written.Load())

	close(release)
	require.NoError(t, recorder.Close(ctx))
	require.EqualValues(t, 1, written.Load())
}
