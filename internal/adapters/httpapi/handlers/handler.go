package handlers

import (
	"time"

	"qrtrack/internal/app/links"
)

type Deps struct {
	Register  links.RegisterUseCase
	Redirect  links.RedirectUseCase
	Analytics links.AnalyticsUseCase
	Log       links.Logger
	// StartedAt feeds the uptime reported by /health.
	StartedAt time.Time
}

type Handler struct {
	register  links.RegisterUseCase
	redirect  links.RedirectUseCase
	analytics links.AnalyticsUseCase
	log       links.Logger
	startedAt time.Time
	now       func() time.Time
}

func New(deps Deps) *Handler {
	log := deps.Log
	if log == nil {
		log = links.NopLogger{}
	}

	startedAt := deps.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	return &Handler{
		register:  deps.Register,
		redirect:  deps.Redirect,
		analytics: deps.Analytics,
		log:       log,
		startedAt: startedAt,
		now:       time.Now,
	}
}
