package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"edutrack-backend-go/internal/core"
	"edutrack-backend-go/internal/models"
)

// Context keys set by the auth middleware for downstream handlers.
const (
	ContextActorID   = "actorID"
	ContextActorRole = "actorRole"
)

// ErrorResponse is a local definition for sending standardized error messages.
// It mirrors the one in internal/api/dto_models.go to avoid import cycles.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware provides Gin middleware for bearer token authentication.
type AuthMiddleware struct {
	authService core.AuthService
}

// NewAuthMiddleware creates a new AuthMiddleware instance. It panics if the
// auth service is nil, as authenticated routes cannot function without it.
func NewAuthMiddleware(authService core.AuthService) *AuthMiddleware {
	if authService == nil {
		panic("AuthMiddleware requires a non-nil AuthService")
	}
	return &AuthMiddleware{authService: authService}
}

// VerifyToken validates the Authorization header and sets the actor's ID and
// role in the Gin context. Specific verification failures are not surfaced to
// the client.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		actor, err := m.authService.VerifyToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(ContextActorID, actor.ID)
		c.Set(ContextActorRole, actor.Role)
		c.Next()
	}
}

// ActorFromContext reconstructs the authenticated actor placed in the context
// by VerifyToken. The second return is false when the middleware did not run.
func ActorFromContext(c *gin.Context) (core.Actor, bool) {
	id := c.GetString(ContextActorID)
	if id == "" {
		return core.Actor{}, false
	}
	roleVal, exists := c.Get(ContextActorRole)
	if !exists {
		return core.Actor{}, false
	}
	role, ok := roleVal.(models.Role)
	if !ok {
		return core.Actor{}, false
	}
	return core.Actor{ID: id, Role: role}, true
}
