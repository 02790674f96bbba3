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

// AuthHandler handles login and profile endpoints.
type AuthHandler struct {
	authService core.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as core.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login handles POST /auth/login. Unknown email and wrong password return the
// same 401 body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: core.ErrInvalidCredentials.Error()})
			return
		}
		log.Printf("Login Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: &models.UserView{User: *user}})
}

// GetCurrentUser handles GET /auth/me. It returns the profile of the
// authenticated actor with the affiliated school name resolved.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: actor not found in context"})
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
			return
		}
		log.Printf("GetCurrentUser Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
