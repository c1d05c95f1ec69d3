package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

// fail maps a service error to its HTTP status. Unknown errors are logged and hidden.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalid):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		resp.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, resp.MsgNotFound)
	default:
		logger.FromGin(c).Error("request failed", zap.Error(err))
		resp.ServerError(c)
	}
}

func actor(c *gin.Context) services.Actor {
	return services.Actor{ID: utils.CurrentUserID(c), Role: utils.CurrentRole(c)}
}

// bindingMessage turns validator errors into "field: rule" pairs.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s (%s=%s)", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}

func badInput(c *gin.Context, err error) {
	resp.BadRequest(c, "Date invalide: "+bindingMessage(err))
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badInput(c, err)
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, dst)
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		badInput(c, err)
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		resp.BadRequest(c, "ID invalid: "+c.Param(name))
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (uint, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		resp.BadRequest(c, fmt.Sprintf("Parametrul %s trebuie să fie un număr", name))
		return 0, false
	}
	return uint(n), true
}

func queryBool(c *gin.Context, name string) (*bool, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		resp.BadRequest(c, fmt.Sprintf("Parametrul %s trebuie să fie true sau false", name))
		return nil, false
	}
	return &b, true
}

// queryTime accepts RFC 3339 timestamps.
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		resp.BadRequest(c, fmt.Sprintf("Parametrul %s trebuie să fie în format RFC 3339", name))
		return nil, false
	}
	return &t, true
}

// parseDate reads an optional YYYY-MM-DD value already checked by the date_ymd rule.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return &t
}
