package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

// WSAuthMiddleware accepts the token from ?token= (browsers cannot set headers on
// websocket upgrades), then the session cookie, then the Authorization header.
func WSAuthMiddleware(secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			tokenStr = sessionToken(c, cookieName)
		}
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
		c.Set("claims", claims)

		c.Next()
	}
}
