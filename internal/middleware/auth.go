package middleware

import (
	"net/http"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/service"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/auth"
	"github.com/gin-gonic/gin"
)

const (
	ctxCaller             = "caller"
	ctxMustChangePassword = "must_change_password"
)

// Authenticate requires a valid bearer access token and stores the caller.
func Authenticate(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			return
		}

		claims, err := jwt.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ctxCaller, service.Caller{
			UserID: claims.UserID,
			Role:   claims.Role,
			Email:  claims.Email,
			IP:     c.ClientIP(),
		})
		c.Set(ctxMustChangePassword, claims.MustChangePassword)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not listed.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, r := range roles {
			if caller.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	}
}

// RequirePasswordChanged blocks accounts still on their provisioned password.
func RequirePasswordChanged() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(ctxMustChangePassword) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "password change required",
				"code":  "PASSWORD_CHANGE_REQUIRED",
			})
			return
		}
		c.Next()
	}
}

// Caller returns the authenticated caller, or an anonymous one carrying
// only the client IP on public routes.
func Caller(c *gin.Context) service.Caller {
	if caller, ok := callerFromContext(c); ok {
		return caller
	}
	return service.Caller{IP: c.ClientIP()}
}

func callerFromContext(c *gin.Context) (service.Caller, bool) {
	v, ok := c.Get(ctxCaller)
	if !ok {
		return service.Caller{}, false
	}
	caller, ok := v.(service.Caller)
	return caller, ok
}
