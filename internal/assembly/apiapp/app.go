package apiapp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"

	httpapi "qrtrack/internal/adapters/httpapi"
	"qrtrack/internal/adapters/httpapi/stack"
	"qrtrack/internal/adapters/memstore"
	"qrtrack/internal/adapters/rediscache"
	"qrtrack/internal/adapters/sqlstore"
	"qrtrack/internal/app/links"
	"qrtrack/internal/platform/config"
	"qrtrack/internal/platform/migrations"
	"qrtrack/internal/platform/postgres"
	"qrtrack/internal/platform/sqlite"
)

const recorderDrainTimeout = 5 * time.Second

// App is a composition root for the HTTP API.
type App struct {
	cfg      config.Config
	log      links.Logger
	db       *sql.DB
	rdb      *redis.Client
	recorder *links.AsyncScanRecorder
	router   http.Handler
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}

	log := newLinksLogger(logger)
	app := &App{cfg: cfg, log: log}

	store, err := app.openStorage(ctx)
	if err != nil {
		_ = app.Close()

		return nil, err
	}

	store = app.withCache(ctx, store)

	app.recorder = links.NewAsyncScanRecorder(store, links.RecorderConfig{
		QueueSize:    cfg.ScanQueueSize,
		Workers:      cfg.ScanWorkers,
		WriteTimeout: cfg.ScanWriteTimeout,
	}, log)

	r := httpapi.NewEngine(
		stack.TrustedProxies(cfg.TrustedProxies),
		stack.RequestID(),
		stack.Logger(),
		stack.Sentry(cfg.SentryMiddlewareTimeout),
		stack.Recovery(log),
		stack.RequestTimeout(cfg.RequestBudget),
		stack.CORS(cfg.CORSAllowedOrigins),
		stack.RateLimit(cfg.RateLimitMaxRequests, cfg.RateLimitWindow),
		stack.SecurityHeaders(),
	)

	httpapi.RegisterRoutes(r, httpapi.RouterDeps{
		Register:  links.NewRegistration(store, nil, cfg.BaseURL, log),
		Redirect:  links.NewRedirector(store, app.recorder, log),
		Analytics: links.NewAnalytics(store),
		Log:       log,
		StartedAt: time.Now(),
	})

	app.router = r

	log.Info("api ready",
		"addr", cfg.HTTPAddr,
		"storage", string(cfg.StorageDriver),
		"cache", app.rdb != nil,
	)

	return app, nil
}

func (a *App) openStorage(ctx context.Context) (links.Storage, error) {
	switch a.cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, postgres.OpenConfig{
			DSN:             a.cfg.DatabaseURL,
			MaxOpenConns:    a.cfg.DBMaxOpenConns,
			MaxIdleConns:    a.cfg.DBMaxIdleConns,
			ConnMaxLifetime: a.cfg.DBConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}

		a.db = db

		if err := migrations.Up(ctx, db, migrations.Postgres); err != nil {
			return nil, err
		}

		return sqlstore.New(db, sqlstore.Postgres), nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, sqlite.OpenConfig{Path: a.cfg.DatabasePath})
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}

		a.db = db

		if err := migrations.Up(ctx, db, migrations.SQLite); err != nil {
			return nil, err
		}

		return sqlstore.New(db, sqlstore.SQLite), nil

	case config.DriverMemory:
		a.log.Warn("using in-memory storage; data is lost on restart")

		return memstore.New(), nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidStorageDriver, a.cfg.StorageDriver)
	}
}

// withCache runs without Redis when it is unset or unreachable.
func (a *App) withCache(ctx context.Context, store links.Storage) links.Storage {
	if a.cfg.RedisURL == "" {
		return store
	}

	rdb, err := rediscache.Open(ctx, a.cfg.RedisURL)
	if err != nil {
		a.log.Warn("redis cache disabled", "error", err)

		return store
	}

	a.rdb = rdb

	return rediscache.New(store, rdb, rediscache.Config{TTL: a.cfg.RedisCacheTTL}, a.log)
}

func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Close() error {
	var errs []error

	if a.recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recorderDrainTimeout)
		if err := a.recorder.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain scan recorder: %w", err))
		}
		cancel()
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}

	sentry.Flush(a.cfg.SentryFlushTimeout)

	return errors.Join(errs...)
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.router,
		ReadHeaderTimeout: a.cfg.HTTPReadHeaderTimeout,
		ReadTimeout:       a.cfg.HTTPReadTimeout,
		WriteTimeout:      a.cfg.HTTPWriteTimeout,
		IdleTimeout:       a.cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("http server: %w", err)

	case <-ctx.Done():
		a.log.Info("shutting down")

		return gracefulShutdown(ctx, srv, a.cfg.HTTPShutdownTimeout, errCh)
	}
}

func gracefulShutdown(ctx context.Context, srv *http.Server, timeout time.Duration, errCh <-chan error) error {
	srv.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("http shutdown timed out; forced close: %w", err)
		}

		return fmt.Errorf("http shutdown failed; forced close: %w", err)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("http server stopped with error: %w", err)
	default:
		return nil
	}
}
