package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"qrtrack/internal/adapters/httpapi/handlers"
	"qrtrack/internal/app/links"
)

const (
	createPath = "/create"
	statsPath  = "/stats/:id"
	reportPath = "/stats/:id/report"
	listPath   = "/list"

	redirectPath = "/r/:id"
	healthPath   = "/health"
	pingPath     = "/ping"
)

type RouterDeps struct {
	Register  links.RegisterUseCase
	Redirect  links.RedirectUseCase
	Analytics links.AnalyticsUseCase
	Log       links.Logger
	StartedAt time.Time
}

type EnginePlugin func(*gin.Engine)

// NewEngine creates a bare gin.Engine and applies plugins in order.
func NewEngine(plugins ...EnginePlugin) *gin.Engine {
	r := gin.New()

	for _, p := range plugins {
		p(r)
	}

	return r
}

// RegisterRoutes attaches routes/handlers to an existing engine.
func RegisterRoutes(r *gin.Engine, deps RouterDeps) {
	h := handlers.New(handlers.Deps{
		Register:  deps.Register,
		Redirect:  deps.Redirect,
		Analytics: deps.Analytics,
		Log:       deps.Log,
		StartedAt: deps.StartedAt,
	})

	r.NoRoute(h.NotFound)
	r.GET(healthPath, h.Health)
	r.GET(pingPath, h.Ping)

	api := r.Group("/api")
	{
		api.POST(createPath, h.CreateQRCode)
		api.GET(statsPath, h.GetStats)
		api.GET(reportPath, h.GetReport)
		api.GET(listPath, h.ListQRCodes)
	}

	r.GET(redirectPath, h.Redirect)
}
