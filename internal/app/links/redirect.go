package links

import (
	"context"
	"fmt"

	"qrtrack/internal/domain"
	"qrtrack/internal/shortid"
)

// VisitMeta carries what the transport knows about the scanner.
type VisitMeta struct {
	IP        string
	UserAgent string
}

type Redirector struct {
	store    Storage
	recorder ScanRecorder
	log      Logger
}

func NewRedirector(store Storage, recorder ScanRecorder, log Logger) *Redirector {
	if log == nil {
		log = NopLogger{}
	}

	return &Redirector{store: store, recorder: recorder, log: log}
}

var _ RedirectUseCase = (*Redirector)(nil)

// Resolve returns the destination for id and queues a scan. The scan write
// never delays or fails the result.
func (r *Redirector) Resolve(ctx context.Context, id string, meta VisitMeta) (string, error) {
	if !shortid.IsValid(id) {
		return "", domain.ErrInvalidID
	}

	link, err := r.store.GetShortLink(ctx, id)
	if err != nil {
		return "", fmt.Errorf("links resolve: %w", err)
	}

	r.record(ctx, domain.ScanInput{
		QRID:      link.ID,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})

	r.log.Debug("scan queued", "id", link.ID)

	return link.OriginalURL, nil
}

func (r *Redirector) record(ctx context.Context, scan domain.ScanInput) {
	if r.recorder == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("scan recorder panicked", "id", scan.QRID, "panic", rec)
		}
	}()

	r.recorder.Record(ctx, scan)
}
