package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/activity-insights-api/internal/dto"
	"github.com/noah-isme/activity-insights-api/internal/middleware"
	appErrors "github.com/noah-isme/activity-insights-api/pkg/errors"
	"github.com/noah-isme/activity-insights-api/pkg/response"
)

type activityService interface {
	DailyMetrics(ctx context.Context, employeeID, date string) (*dto.DailyMetricsResponse, bool, error)
	Assessment(ctx context.Context, employeeID, date string) (*dto.AssessmentResponse, bool, error)
	AvailableDates(ctx context.Context, employeeID string) (*dto.AvailableDatesResponse, bool, error)
	Summary(ctx context.Context, employeeID string) (*dto.SummaryResponse, bool, error)
}

// ActivityHandler wires the activity pipeline to HTTP endpoints.
type ActivityHandler struct {
	service activityService
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service activityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// DailyMetrics serves computed metrics for one employee and date.
func (h *ActivityHandler) DailyMetrics(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	employeeID := strings.TrimSpace(c.Param("employeeId"))
	date := strings.TrimSpace(c.Query("date"))

	start := time.Now()
	resp, cacheHit, err := h.service.DailyMetrics(c.Request.Context(), employeeID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, start, cacheHit, resp)
}

// Assessment serves metrics plus tiered qualitative judgements.
func (h *ActivityHandler) Assessment(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	employeeID := strings.TrimSpace(c.Param("employeeId"))
	date := strings.TrimSpace(c.Query("date"))

	start := time.Now()
	resp, cacheHit, err := h.service.Assessment(c.Request.Context(), employeeID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, start, cacheHit, resp)
}

// AvailableDates lists an employee's tracked dates in ascending order.
func (h *ActivityHandler) AvailableDates(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	employeeID := strings.TrimSpace(c.Param("employeeId"))

	start := time.Now()
	resp, cacheHit, err := h.service.AvailableDates(c.Request.Context(), employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, start, cacheHit, resp)
}

// Summary serves the multi-date aggregate for an employee.
func (h *ActivityHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	employeeID := strings.TrimSpace(c.Param("employeeId"))

	start := time.Now()
	resp, cacheHit, err := h.service.Summary(c.Request.Context(), employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, start, cacheHit, resp)
}

func (h *ActivityHandler) respond(c *gin.Context, start time.Time, cacheHit bool, payload interface{}) {
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetProcessingTime(c, start)
	response.JSON(c, http.StatusOK, payload, middleware.ExtractMeta(c))
}
