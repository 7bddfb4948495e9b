package middleware

import (
	"errors"
	"strings"

	"go_attendance/internal/auth"
	"go_attendance/internal/httpx"
	"go_attendance/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthRequired validates the JWT bearer token and rejects revoked tokens.
// Every authenticated route uses this one middleware; there is no separate
// cookie-session path.
func AuthRequired(denylist *auth.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.FailErr(c, httpx.ErrUnauthorized("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpx.FailErr(c, httpx.ErrUnauthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				httpx.FailErr(c, httpx.ErrTokenExpired("token expired"))
			} else {
				httpx.FailErr(c, httpx.ErrInvalidToken("invalid token"))
			}
			c.Abort()
			return
		}

		if denylist.IsRevoked(c.Request.Context(), claims.ID) {
			httpx.FailErr(c, httpx.ErrInvalidToken("token revoked"))
			c.Abort()
			return
		}

		c.Set("uid", claims.UID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set("employee_id", claims.EmployeeID)
		c.Set("jti", claims.ID)
		c.Set("token_expires", claims.ExpiresAt.Time)

		c.Next()
	}
}

// AdminRequired rejects callers without the admin role. Must run after
// AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != model.RoleAdmin {
			httpx.FailErr(c, httpx.ErrForbidden("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
