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

// RegionHandler handles region management endpoints.
type RegionHandler struct {
	regionService core.RegionService
}

// NewRegionHandler creates a new RegionHandler.
func NewRegionHandler(rs core.RegionService) *RegionHandler {
	return &RegionHandler{regionService: rs}
}

// mapRegionErrorToStatus maps errors from core.RegionService to HTTP status
// codes and ErrorResponse.
func mapRegionErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbidden.Error()}
	case errors.Is(err, core.ErrRegionNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrRegionNotFound.Error()}
	case errors.Is(err, core.ErrRegionNameTaken):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrRegionNameTaken.Error()}
	case errors.Is(err, core.ErrRegionHasSchools):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrRegionHasSchools.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListRegions handles GET /regions
func (h *RegionHandler) ListRegions(c *gin.Context) {
	regions, err := h.regionService.ListRegions(c.Request.Context())
	if err != nil {
		mapRegionErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, regions)
}

// GetRegion handles GET /regions/:regionId
func (h *RegionHandler) GetRegion(c *gin.Context) {
	region, err := h.regionService.GetRegion(c.Request.Context(), c.Param("regionId"))
	if err != nil {
		mapRegionErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, region)
}

// CreateRegion handles POST /regions
func (h *RegionHandler) CreateRegion(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	var req models.CreateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	region, err := h.regionService.CreateRegion(c.Request.Context(), actor, req)
	if err != nil {
		mapRegionErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, region)
}

// UpdateRegion handles PUT /regions/:regionId
func (h *RegionHandler) UpdateRegion(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	var req models.UpdateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	region, err := h.regionService.UpdateRegion(c.Request.Context(), actor, c.Param("regionId"), req)
	if err != nil {
		mapRegionErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, region)
}

// DeleteRegion handles DELETE /regions/:regionId
func (h *RegionHandler) DeleteRegion(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	if err := h.regionService.DeleteRegion(c.Request.Context(), actor, c.Param("regionId")); err != nil {
		mapRegionErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Region deleted successfully"})
}
