package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"edutrack-backend-go/internal/core"
	"edutrack-backend-go/internal/middleware"
	"edutrack-backend-go/internal/models"
)

// DeviceHandler handles device CRUD and status transition endpoints.
type DeviceHandler struct {
	deviceService core.DeviceService
}

// NewDeviceHandler creates a new DeviceHandler.
func NewDeviceHandler(ds core.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: ds}
}

// mapDeviceErrorToStatus maps errors from core.DeviceService to HTTP status
// codes and ErrorResponse.
func mapDeviceErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbidden.Error()}
	case errors.Is(err, core.ErrDeviceNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrDeviceNotFound.Error()}
	case errors.Is(err, core.ErrLocationNotFound):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrLocationNotFound.Error()}
	case errors.Is(err, core.ErrSchoolNotFound):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrSchoolNotFound.Error()}
	case errors.Is(err, core.ErrLocationSchoolMismatch):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrLocationSchoolMismatch.Error()}
	case errors.Is(err, core.ErrInvalidStatus):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidStatus.Error()}
	case errors.Is(err, core.ErrInvalidDeviceType):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidDeviceType.Error()}
	case errors.Is(err, core.ErrReasonRequired):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrReasonRequired.Error()}
	case errors.Is(err, core.ErrInvalidDate):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid date format", Details: err.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListDevices handles GET /devices with optional ?location= and ?school=
// filters.
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices, err := h.deviceService.ListDevices(c.Request.Context(), c.Query("location"), c.Query("school"))
	if err != nil {
		mapDeviceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// GetDevice handles GET /devices/:deviceId
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	device, err := h.deviceService.GetDevice(c.Request.Context(), c.Param("deviceId"))
	if err != nil {
		mapDeviceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// CreateDevice handles POST /devices
func (h *DeviceHandler) CreateDevice(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	var req models.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	device, err := h.deviceService.CreateDevice(c.Request.Context(), actor, req, c.Request)
	if err != nil {
		mapDeviceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, device)
}

// UpdateDevice handles PUT /devices/:deviceId
func (h *DeviceHandler) UpdateDevice(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	var req models.UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	device, err := h.deviceService.UpdateDevice(c.Request.Context(), actor, c.Param("deviceId"), req, c.Request)
	if err != nil {
		mapDeviceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// UpdateDeviceStatus handles PATCH /devices/:deviceId/status
func (h *DeviceHandler) UpdateDeviceStatus(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	var req models.UpdateDeviceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	device, err := h.deviceService.UpdateDeviceStatus(c.Request.Context(), actor, c.Param("deviceId"), req, c.Request)
	if err != nil {
		mapDeviceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// DeleteDevice handles DELETE /devices/:deviceId
func (h *DeviceHandler) DeleteDevice(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	if err := h.deviceService.DeleteDevice(c.Request.Context(), actor, c.Param("deviceId"), c.Request); err != nil {
		mapDeviceErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Device deleted successfully"})
}
