package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"qrtrack/internal/adapters/httpapi/dto"
	"qrtrack/internal/adapters/httpapi/problems"
)

const statsPathPrefix = "/api/stats/"

func (h *Handler) CreateQRCode(c *gin.Context) {
	var req dto.CreateRequest

	if err := bindJSON(c, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "url" {
			problems.WriteProblem(c, http.StatusBadRequest, problems.ErrorURLRequired)

			return
		}

		badJSON(c)

		return
	}

	req.URL = strings.TrimSpace(req.URL)

	if field := firstInvalidField(req); field != "" {
		problems.WriteProblem(c, http.StatusBadRequest, problems.ErrorURLRequired)

		return
	}

	reg, err := h.register.Create(c.Request.Context(), req.URL, req.StyleOptions)
	if err != nil {
		h.fail(c, err, problems.ErrorCreateFailed)

		return
	}

	c.Header("Location", statsPathPrefix+reg.Link.ID)
	c.JSON(http.StatusCreated, dto.FromRegistration(reg))
}

func (h *Handler) GetStats(c *gin.Context) {
	summary, err := h.analytics.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, problems.ErrorAnalyticsFailed)

		return
	}

	c.JSON(http.StatusOK, dto.FromSummary(summary))
}

func (h *Handler) GetReport(c *gin.Context) {
	report, err := h.analytics.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, problems.ErrorAnalyticsFailed)

		return
	}

	c.JSON(http.StatusOK, dto.FromReport(report))
}

// ListQRCodes treats a missing or non-numeric limit as the default.
func (h *Handler) ListQRCodes(c *gin.Context) {
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))

	items, err := h.analytics.ListAll(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, problems.ErrorListFailed)

		return
	}

	c.JSON(http.StatusOK, dto.FromSummaries(items))
}
