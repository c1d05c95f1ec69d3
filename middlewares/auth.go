package middlewares

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

// sessionToken reads the JWT from the session cookie, falling back to a Bearer header.
func sessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// AuthMiddleware validates the session and, when roles are given, enforces one of them.
func AuthMiddleware(secret, cookieName string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := sessionToken(c, cookieName)
		if tokenStr == "" {
			resp.AbortUnauthorized(c, resp.MsgUnauthorized)
			return
		}
		claims, err := utils.ParseToken(tokenStr, secret)
		if err != nil {
			resp.AbortUnauthorized(c, "Sesiune invalidă sau expirată")
			return
		}
		utils.SetCurrentUser(c, claims.UserID, claims.Role)

		if len(requiredRoles) > 0 && !slices.Contains(requiredRoles, claims.Role) {
			resp.AbortForbidden(c, resp.MsgForbidden)
			return
		}
		c.Next()
	}
}

// RequireRoles gates a sub-group that already passed AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, utils.CurrentRole(c)) {
			resp.AbortForbidden(c, resp.MsgForbidden)
			return
		}
		c.Next()
	}
}
