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

// LocationHandler handles location management endpoints.
type LocationHandler struct {
	locationService core.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(ls core.LocationService) *LocationHandler {
	return &LocationHandler{locationService: ls}
}

// mapLocationErrorToStatus maps errors from core.LocationService to HTTP
// status codes and ErrorResponse.
func mapLocationErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbidden.Error()}
	case errors.Is(err, core.ErrLocationNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrLocationNotFound.Error()}
	case errors.Is(err, core.ErrSchoolNotFound):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrSchoolNotFound.Error()}
	case errors.Is(err, core.ErrLocationHasDevices):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrLocationHasDevices.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListLocations handles GET /locations with an optional ?school= filter.
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations, err := h.locationService.ListLocations(c.Request.Context(), c.Query("school"))
	if err != nil {
		mapLocationErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// GetLocation handles GET /locations/:locationId
func (h *LocationHandler) GetLocation(c *gin.Context) {
	location, err := h.locationService.GetLocation(c.Request.Context(), c.Param("locationId"))
	if err != nil {
		mapLocationErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

// CreateLocation handles POST /locations
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	location, err := h.locationService.CreateLocation(c.Request.Context(), actor, req)
	if err != nil {
		mapLocationErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

// UpdateLocation handles PUT /locations/:locationId
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	location, err := h.locationService.UpdateLocation(c.Request.Context(), actor, c.Param("locationId"), req)
	if err != nil {
		mapLocationErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

// DeleteLocation handles DELETE /locations/:locationId
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	if err := h.locationService.DeleteLocation(c.Request.Context(), actor, c.Param("locationId")); err != nil {
		mapLocationErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Location deleted successfully"})
}
