package apiapp

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"qrtrack/internal/app/links"
)

func TestLinksLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLinksLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	log.With("component", "test").Error("write failed", "id", "Ab3dE6gH", "error", errors.New("boom"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "ERROR", rec["level"])
	require.Equal(t, "write failed", rec["msg"])
	require.Equal(t, "test", rec["component"])
	require.Equal(t, "Ab3dE6gH", rec["id"])
	require.Equal(t, "boom", rec["error"])
}

func TestLinksLogger_NilIsNop(t *testing.T) {
	require.IsType(t, links.NopLogger{}, newLinksLogger(nil))
}
