package links

import (
	"context"
	"errors"
	"sync"
	"time"

	"qrtrack/internal/domain"
)

const (
	defaultScanQueueSize    = 1024
	defaultScanWorkers      = 4
	defaultScanWriteTimeout = 5 * time.Second
)

var ErrRecorderClosed = errors.New("scan recorder closed")

type RecorderConfig struct {
	QueueSize    int
	Workers      int
	WriteTimeout time.Duration
}

// AsyncScanRecorder writes scans from a bounded queue on its own goroutines.
// A full queue drops the scan with a warning instead of blocking a redirect.
type AsyncScanRecorder struct {
	store   Storage
	log     Logger
	timeout time.Duration

	queue chan domain.ScanInput
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewAsyncScanRecorder(store Storage, cfg RecorderConfig, log Logger) *AsyncScanRecorder {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultScanQueueSize
	}

	if cfg.Workers <= 0 {
		cfg.Workers = defaultScanWorkers
	}

	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultScanWriteTimeout
	}

	if log == nil {
		log = NopLogger{}
	}

	r := &AsyncScanRecorder{
		store:   store,
		log:     log.With("component", "scan_recorder"),
		timeout: cfg.WriteTimeout,
		queue:   make(chan domain.ScanInput, cfg.QueueSize),
	}

	r.wg.Add(cfg.Workers)
	for range cfg.Workers {
		go r.work()
	}

	return r
}

var _ ScanRecorder = (*AsyncScanRecorder)(nil)

func (r *AsyncScanRecorder) Record(_ context.Context, scan domain.ScanInput) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.log.Warn("scan dropped", "id", scan.QRID, "error", ErrRecorderClosed)

		return
	}

	select {
	case r.queue <- scan:
	default:
		r.log.Warn("scan dropped: queue full", "id", scan.QRID, "capacity", cap(r.queue))
	}
}

// Close stops accepting scans and waits for queued ones to be written or
// for ctx to end, whichever comes first.
func (r *AsyncScanRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *AsyncScanRecorder) work() {
	defer r.wg.Done()

	for scan := range r.queue {
		r.write(scan)
	}
}

func (r *AsyncScanRecorder) write(scan domain.ScanInput) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("scan write panicked", "id", scan.QRID, "panic", rec)
		}
	}()

	if _, err := r.store.InsertScan(ctx, scan); err != nil {
		r.log.Error("record scan failed", "id", scan.QRID, "error", err)
	}
}

// SyncScanRecorder writes in the caller's goroutine and only logs failures.
// It suits tests and tooling that need the write to be visible on return.
type SyncScanRecorder struct {
	store Storage
	log   Logger
}

func NewSyncScanRecorder(store Storage, log Logger) *SyncScanRecorder {
	if log == nil {
		log = NopLogger{}
	}

	return &SyncScanRecorder{store: store, log: log}
}

var _ ScanRecorder = (*SyncScanRecorder)(nil)

func (r *SyncScanRecorder) Record(ctx context.Context, scan domain.ScanInput) {
	if _, err := r.store.InsertScan(context.WithoutCancel(ctx), scan); err != nil {
		r.log.Error("record scan failed", "id", scan.QRID, "error", err)
	}
}
