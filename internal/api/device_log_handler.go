package api

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"edutrack-backend-go/internal/core"
	"edutrack-backend-go/internal/models"
)

// DeviceLogHandler handles the read-only device activity log endpoints.
type DeviceLogHandler struct {
	activityService core.ActivityService
}

// NewDeviceLogHandler creates a new DeviceLogHandler.
func NewDeviceLogHandler(as core.ActivityService) *DeviceLogHandler {
	return &DeviceLogHandler{activityService: as}
}

// parseLogDate accepts RFC 3339 or a bare date query value.
func parseLogDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", value)
	}
	return &t, nil
}

// parseLogFilter builds a LogFilter from the request's query parameters.
func parseLogFilter(c *gin.Context) (models.LogFilter, error) {
	filter := models.LogFilter{
		Action:   models.LogAction(c.Query("action")),
		DeviceID: c.Query("deviceId"),
		UserID:   c.Query("userId"),
	}

	startDate, err := parseLogDate(c.Query("startDate"))
	if err != nil {
		return filter, err
	}
	endDate, err := parseLogDate(c.Query("endDate"))
	if err != nil {
		return filter, err
	}
	filter.StartDate = startDate
	filter.EndDate = endDate
	return filter, nil
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// ListLogs handles GET /device-logs with action, deviceId, userId, startDate,
// endDate, page and limit query parameters.
func (h *DeviceLogHandler) ListLogs(c *gin.Context) {
	filter, err := parseLogFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date filter", Details: err.Error()})
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), core.DefaultLogPageSize)

	result, err := h.activityService.ListLogs(c.Request.Context(), filter, page, limit)
	if err != nil {
		log.Printf("ListLogs Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListDeviceLogs handles GET /devices/:deviceId/logs, the per-device view of
// the activity trail.
func (h *DeviceLogHandler) ListDeviceLogs(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), core.DefaultDeviceLogPageSize)
	action := models.LogAction(c.Query("action"))

	result, err := h.activityService.ListLogsForDevice(c.Request.Context(), c.Param("deviceId"), action, page, limit)
	if err != nil {
		log.Printf("ListDeviceLogs Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportLogs handles GET /device-logs/export, streaming the filtered trail as
// a CSV attachment.
func (h *DeviceLogHandler) ExportLogs(c *gin.Context) {
	filter, err := parseLogFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date filter", Details: err.Error()})
		return
	}

	limit := parsePositiveInt(c.Query("limit"), core.MaxExportRows)

	rows, err := h.activityService.ExportLogs(c.Request.Context(), filter, limit)
	if err != nil {
		log.Printf("ExportLogs Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}

	filename := fmt.Sprintf("device-logs-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	if err := writer.WriteAll(rows); err != nil {
		// Headers are already out; the best we can do is log.
		log.Printf("ExportLogs Error: failed to write CSV: %v", err)
	}
}
