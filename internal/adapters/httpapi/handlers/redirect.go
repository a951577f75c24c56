package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qrtrack/internal/adapters/httpapi/problems"
	"qrtrack/internal/app/links"
	"qrtrack/internal/domain"
)

const unknownUserAgent = "Unknown"

// Redirect reports failures as plain text.
func (h *Handler) Redirect(c *gin.Context) {
	userAgent := c.GetHeader("User-Agent")
	if userAgent == "" {
		userAgent = unknownUserAgent
	}

	meta := links.VisitMeta{
		IP:        c.ClientIP(),
		UserAgent: userAgent,
	}

	target, err := h.redirect.Resolve(c.Request.Context(), c.Param("id"), meta)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, target)
	case errors.Is(err, domain.ErrInvalidID):
		c.String(http.StatusBadRequest, problems.TextInvalidID)
	case errors.Is(err, domain.ErrNotFound):
		c.String(http.StatusNotFound, problems.TextNotFound)
	default:
		h.log.Error("redirect failed", "id", c.Param("id"), "error", err)
		c.String(http.StatusInternalServerError, problems.TextInternal)
	}
}
