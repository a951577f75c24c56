package testutils

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func DecodeErrorEnvelope(t *testing.T, resp *http.Response) ErrorEnvelope {
	t.Helper()

	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"),
		"content-type %q", resp.Header.Get("Content-Type"))

	var e ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))

	return e
}

func RequireErrorEnvelope(t *testing.T, resp *http.Response, wantStatus int, wantError string) ErrorEnvelope {
	t.Helper()

	require.Equal(t, wantStatus, resp.StatusCode)

	e := DecodeErrorEnvelope(t, resp)
	require.False(t, e.Success)
	require.Equal(t, wantError, e.Error)

	return e
}
