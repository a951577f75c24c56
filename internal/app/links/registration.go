package links

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"qrtrack/internal/domain"
	"qrtrack/internal/shortid"
)

const (
	createAttempts = 5

	createErrWrapFmt = "links create: %w"
	trackingPath     = "/r/"
)

var emptyStyleOptions = json.RawMessage(`{}`)

type Registration struct {
	store   Storage
	ids     shortid.Generator
	baseURL string
	log     Logger
}

func NewRegistration(store Storage, ids shortid.Generator, baseURL string, log Logger) *Registration {
	if ids == nil {
		ids = shortid.NewRandom()
	}

	if log == nil {
		log = NopLogger{}
	}

	return &Registration{
		store:   store,
		ids:     ids,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

var _ RegisterUseCase = (*Registration)(nil)

func (r *Registration) Create(
	ctx context.Context,
	originalURL string,
	styleOptions json.RawMessage,
) (domain.Registration, error) {
	originalURL = strings.TrimSpace(originalURL)

	if err := domain.ValidateOriginalURL(originalURL); err != nil {
		return domain.Registration{}, err
	}

	if isAbsentJSON(styleOptions) {
		styleOptions = emptyStyleOptions
	}

	for attempt := 1; attempt <= createAttempts; attempt++ {
		id, err := r.ids.Generate()
		if err != nil {
			return domain.Registration{}, fmt.Errorf("links generate short id: %w", err)
		}

		link, err := r.store.InsertShortLink(ctx, id, originalURL, styleOptions)
		if errors.Is(err, domain.ErrDuplicateID) {
			r.log.Warn("short id collision", "attempt", attempt, "id", id)

			continue
		}

		if err != nil {
			return domain.Registration{}, fmt.Errorf(createErrWrapFmt, err)
		}

		return domain.Registration{
			Link:        link,
			TrackingURL: r.TrackingURL(link.ID),
		}, nil
	}

	r.log.Error("short id space exhausted", "attempts", createAttempts)

	return domain.Registration{}, fmt.Errorf(createErrWrapFmt, domain.ErrExhaustedRetries)
}

// TrackingURL is the public redirect URL for id.
func (r *Registration) TrackingURL(id string) string {
	return r.baseURL + trackingPath + id
}

func isAbsentJSON(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))

	return trimmed == "" || trimmed == "null"
}
