package links

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"qrtrack/internal/domain"
)

func TestAsyncScanRecorder_WritesAllQueuedScans(t *testing.T) {
	ctx := context.Background()

	var (
		mu  sync.Mutex
		got []domain.ScanInput
	)

	repo := &stubStorage{
		t: t,
		insertScanFunc: func(ctx context.Context, scan domain.ScanInput) (int64, error) {
			_, hasDeadline := ctx.Deadline()
			if !hasDeadline {
				return 0, errors.New("write without deadline")
			}

			mu.Lock()
			defer mu.Unlock()
			got = append(got, scan)

			return int64(len(got)), nil
		},
	}

	log := newCaptureLogger()
	r := NewAsyncScanRecorder(repo, RecorderConfig{QueueSize: 64, Workers: 3}, log)

	for range 50 {
		r.Record(ctx, domain.ScanInput{QRID: "aB3dE6gH", IP: "1.1.1.1"})
	}

	require.NoError(t, r.Close(ctx))
	require.Len(t, got, 50)
	require.Zero(t, log.count("error"))
}

func TestAsyncScanRecorder_FailuresGoToLogger(t *testing.T) {
	ctx := context.Background()

	repo := &stubStorage{
		t: t,
		insertScanFunc: func(ctx context.Context, scan domain.ScanInput) (int64, error) {
			return 0, domain.ErrStorageUnavailable
		},
	}

	log := newCaptureLogger()
	r := NewAsyncScanRecorder(repo, RecorderConfig{Workers: 1}, log)

	r.Record(ctx, domain.ScanInput{QRID: "aB3dE6gH"})
	r.Record(ctx, domain.ScanInput{QRID: "aB3dE6gH"})

	require.NoError(t, r.Close(ctx))
	require.Equal(t, 2, log.count("error"))
}

func TestAsyncScanRecorder_DropsWhenQueueFull(t *testing.T) {
	ctx := context.Background()
	block := make(chan struct{})
	started := make(chan struct{}, 1)

	repo := &stubStorage{
		t: t,
		insertScanFunc: func(ctx context.Context, scan domain.ScanInput) (int64, error) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-block
			return 1, nil
		},
	}

	log := newCaptureLogger()
	r := NewAsyncScanRecorder(repo, RecorderConfig{QueueSize: 1, Workers: 1, WriteTimeout: time.Second}, log)

	r.Record(ctx, domain.ScanInput{QRID: "first000"})
	<-started

	// the worker is busy; one slot left in the queue.
	r.Record(ctx, domain.ScanInput{QRID: "second00"})
	r.Record(ctx, domain.ScanInput{QRID: "third000"})

	require.Equal(t, 1, log.count("warn"))

	close(block)
	require.NoError(t, r.Close(ctx))
}

func TestAsyncScanRecorder_RecordAfterClose(t *testing.T) {
	ctx := context.Background()

	log := newCaptureLogger()
	r := NewAsyncScanRecorder(&stubStorage{t: t}, RecorderConfig{}, log)
	require.NoError(t, r.Close(ctx))
	require.NoError(t, r.Close(ctx))

	require.NotPanics(t, func() {
		r.Record(ctx, domain.ScanInput{QRID: "aB3dE6gH"})
	})
	require.Equal(t, 1, log.count("warn"))
}

func TestAsyncScanRecorder_CloseHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	repo := &stubStorage{
		t: t,
		insertScanFunc: func(ctx context.Context, scan domain.ScanInput) (int64, error) {
			<-block
			return 1, nil
		},
	}

	r := NewAsyncScanRecorder(repo, RecorderConfig{Workers: 1, WriteTimeout: time.Minute}, nil)
	r.Record(context.Background(), domain.ScanInput{QRID: "aB3dE6gH"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, r.Close(ctx), context.DeadlineExceeded)
}
