package apiapp

import (
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"qrtrack/internal/app/links"
)

// linksSlogLogger adapts slog to links.Logger. Error records are also sent
// to Sentry; the SDK drops them when no DSN is configured.
type linksSlogLogger struct {
	l *slog.Logger
}

func newLinksLogger(l *slog.Logger) links.Logger {
	if l == nil {
		return links.NopLogger{}
	}

	return linksSlogLogger{l: l}
}

func (l linksSlogLogger) With(kv ...any) links.Logger {
	return linksSlogLogger{l: l.l.With(kv...)}
}

func (l linksSlogLogger) Debug(msg string, kv ...any) { l.l.Debug(msg, kv...) }
func (l linksSlogLogger) Info(msg string, kv ...any)  { l.l.Info(msg, kv...) }
func (l linksSlogLogger) Warn(msg string, kv ...any)  { l.l.Warn(msg, kv...) }

func (l linksSlogLogger) Error(msg string, kv ...any) {
	l.l.Error(msg, kv...)

	sentry.WithScope(func(scope *sentry.Scope) {
		extras := make(map[string]any, len(kv)/2)

		var cause error
		for i := 0; i+1 < len(kv); i += 2 {
			key := fmt.Sprint(kv[i])
			if err, ok := kv[i+1].(error); ok && cause == nil {
				cause = err
			}

			extras[key] = fmt.Sprint(kv[i+1])
		}

		scope.SetExtras(extras)

		if cause != nil {
			sentry.CaptureException(fmt.Errorf("%s: %w", msg, cause))

			return
		}

		sentry.CaptureMessage(msg)
	})
}

var _ links.Logger = linksSlogLogger{}
