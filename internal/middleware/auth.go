package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/handler"
	authService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/auth"
)

const (
	// AuthCookieName is the fallback token source when the Authorization
	// header is absent.
	AuthCookieName = "AuthToken"

	userIDKey = "userID"

	roleCacheTTL = 5 * time.Minute
)

type AuthMiddleware struct {
	authSvc   *authService.Service
	roleCache *cache.Cache
}

func NewAuthMiddleware(authSvc *authService.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authSvc:   authSvc,
		roleCache: cache.New(roleCacheTTL, 10*time.Minute),
	}
}

// Authenticate verifies the JWT and stores the caller's user id in the
// request context. The Authorization header wins over the cookie when both
// are present.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Missing authentication token!"))
			c.Abort()
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("Invalid token"))
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose stored role differs from
// the given one. Roles are cached briefly so repeated calls from the same
// user skip the lookup.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Missing authentication token!"))
			c.Abort()
			return
		}

		userRole, err := m.lookupRole(c, userID)
		if err != nil {
			handler.RespondError(c, err)
			c.Abort()
			return
		}

		if userRole != role {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("Access denied. Required role: "+role))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) lookupRole(c *gin.Context, userID uuid.UUID) (string, error) {
	key := userID.String()
	if cached, ok := m.roleCache.Get(key); ok {
		return cached.(string), nil
	}

	user, err := m.authSvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		return "", err
	}

	m.roleCache.Set(key, user.Role, cache.DefaultExpiration)
	return user.Role, nil
}

// InvalidateRole drops a user's cached role, called after role changes.
func (m *AuthMiddleware) InvalidateRole(userID uuid.UUID) {
	m.roleCache.Delete(userID.String())
}

// UserIDFromContext returns the authenticated caller's id set by
// Authenticate.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}
