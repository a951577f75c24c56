package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrtrack/internal/adapters/httpapi/dto"
)

func (h *Handler) Health(c *gin.Context) {
	now := h.now()

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.startedAt).Seconds(),
	})
}

func (h *Handler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
