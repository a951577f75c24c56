package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"qrtrack/internal/adapters/httpapi/problems"
	"qrtrack/internal/app/links"
)

func Recovery(log links.Logger) gin.HandlerFunc {
	if log == nil {
		log = links.NopLogger{}
	}

	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)

		problems.AbortWithProblem(c, http.StatusInternalServerError, problems.ErrorInternal)
	})
}
