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

// SchoolHandler handles school management endpoints.
type SchoolHandler struct {
	schoolService core.SchoolService
}

// NewSchoolHandler creates a new SchoolHandler.
func NewSchoolHandler(ss core.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolService: ss}
}

// mapSchoolErrorToStatus maps errors from core.SchoolService to HTTP status
// codes and ErrorResponse.
func mapSchoolErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbidden.Error()}
	case errors.Is(err, core.ErrSchoolNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrSchoolNotFound.Error()}
	case errors.Is(err, core.ErrRegionNotFound):
		// The referenced region is part of the payload, not the route.
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrRegionNotFound.Error()}
	case errors.Is(err, core.ErrSchoolHasLocations):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrSchoolHasLocations.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListSchools handles GET /schools with an optional ?region= filter.
func (h *SchoolHandler) ListSchools(c *gin.Context) {
	schools, err := h.schoolService.ListSchools(c.Request.Context(), c.Query("region"))
	if err != nil {
		mapSchoolErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, schools)
}

// GetSchool handles GET /schools/:schoolId
func (h *SchoolHandler) GetSchool(c *gin.Context) {
	school, err := h.schoolService.GetSchool(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		mapSchoolErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, school)
}

// CreateSchool handles POST /schools
func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	var req models.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	school, err := h.schoolService.CreateSchool(c.Request.Context(), actor, req)
	if err != nil {
		mapSchoolErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, school)
}

// UpdateSchool handles PUT /schools/:schoolId
func (h *SchoolHandler) UpdateSchool(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	var req models.UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	school, err := h.schoolService.UpdateSchool(c.Request.Context(), actor, c.Param("schoolId"), req)
	if err != nil {
		mapSchoolErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, school)
}

// DeleteSchool handles DELETE /schools/:schoolId
func (h *SchoolHandler) DeleteSchool(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Actor not found in context"})
		return
	}

	if err := h.schoolService.DeleteSchool(c.Request.Context(), actor, c.Param("schoolId")); err != nil {
		mapSchoolErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "School deleted successfully"})
}
