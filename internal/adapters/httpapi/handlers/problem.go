package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"qrtrack/internal/adapters/httpapi/problems"
	"qrtrack/internal/domain"
)

// fail maps err to a JSON envelope. fallback is the message used for
// unclassified server errors so clients get an operation-specific hint.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	status, msg := statusFromError(err, fallback)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
	}

	problems.WriteProblem(c, status, msg)
}

func (h *Handler) NotFound(c *gin.Context) {
	problems.WriteProblem(c, http.StatusNotFound, problems.ErrorEndpointNotFound)
}

func statusFromError(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, problems.ErrorNotFound
	case errors.Is(err, domain.ErrInvalidURL):
		return http.StatusBadRequest, problems.ErrorInvalidURL
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusNotFound, problems.ErrorNotFound
	case isTimeout(err):
		return http.StatusGatewayTimeout, problems.ErrorTimeout
	case isCanceled(err):
		return problems.StatusClientClosedRequest, problems.ErrorRequestCanceled
	default:
		return http.StatusInternalServerError, fallback
	}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if errors.Is(err, http.ErrHandlerTimeout) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func isCanceled(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, context.Canceled)
}
