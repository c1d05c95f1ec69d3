package middlewares

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

// SessionLoader resolves the account behind a session.
type SessionLoader interface {
	Session(userID uint) (*entity.User, error)
}

// ActiveSession runs after AuthMiddleware. It rejects deactivated or deleted accounts and
// replaces the role from the token with the current one, so role changes apply immediately.
func ActiveSession(loader SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := loader.Session(utils.CurrentUserID(c))
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				resp.AbortUnauthorized(c, err.Error())
				return
			}
			logger.FromGin(c).Error("load session", zap.Error(err))
			resp.ServerError(c)
			c.Abort()
			return
		}
		utils.SetCurrentUser(c, user.ID, user.Role)
		c.Next()
	}
}
