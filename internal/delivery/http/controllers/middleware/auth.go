package middleware

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ClientIDCtx       = "client_id"
	ClientRolesCtx    = "client_roles"
	ClientIdentityCtx = "client_identity"
)

type IdentityService interface {
	Authenticate(ctx context.Context, token string) (models.Identity, *models.User, error)
}

type AuthMiddlewareProvider struct {
	log     logger.Log
	service IdentityService
}

func NewAuthMiddlewareProvider(log logger.Log, s IdentityService) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:     log,
		service: s,
	}
}

// AuthMiddleware rejects requests without a valid bearer token.
func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	if !h.authenticate(c, token) {
		return
	}
	c.Next()
}

// OptionalAuth attaches the caller's identity when a token is sent and lets
// anonymous requests through. A bad token is still rejected.
func (h *AuthMiddlewareProvider) OptionalAuth(c *gin.Context) {
	token := bearerToken(c)
	if token != "" && !h.authenticate(c, token) {
		return
	}
	c.Next()
}

func (h *AuthMiddlewareProvider) authenticate(c *gin.Context, token string) bool {
	identity, user, err := h.service.Authenticate(c.Request.Context(), token)
	if err != nil {
		h.log.Info("failed to authenticate token", "error", err.Error())
		switch {
		case errors.Is(err, app_errors.ErrTokenExpired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
		case errors.Is(err, app_errors.ErrUnauthorized):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "cant parse token"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return false
	}

	c.Set(ClientIDCtx, user.ID)
	c.Set(ClientRolesCtx, identity.Roles)
	c.Set(ClientIdentityCtx, identity)
	return true
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if parts := strings.SplitN(authHeader, "Bearer ", 2); len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Caller returns the identity attached by the auth middleware.
func Caller(c *gin.Context) (models.Identity, bool) {
	raw, ok := c.Get(ClientIdentityCtx)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := raw.(models.Identity)
	return identity, ok
}
