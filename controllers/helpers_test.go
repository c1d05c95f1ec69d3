package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFailMapsErrorKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{fmt.Errorf("capacitate: %w", services.ErrInvalid), http.StatusBadRequest, "capacitate"},
		{services.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{services.ErrForbidden, http.StatusForbidden, "forbidden"},
		{services.ErrNotFound, http.StatusNotFound, "not found"},
		{gorm.ErrRecordNotFound, http.StatusNotFound, resp.MsgNotFound},
		{errors.New("disk full"), http.StatusInternalServerError, resp.MsgServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		fail(c, tt.err)

		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), tt.body)
		assert.Contains(t, w.Body.String(), `"ok":false`)
	}
}

func TestParamID(t *testing.T) {
	for raw, want := range map[string]bool{"12": true, "0": false, "-1": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		id, ok := paramID(c, "id")
		assert.Equal(t, want, ok, raw)
		if ok {
			assert.Equal(t, uint(12), id)
		} else {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}

func TestQueryHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?active=true&tag=3&from=2026-06-20T10:00:00Z", nil)

	active, ok := queryBool(c, "active")
	assert.True(t, ok)
	assert.True(t, *active)

	missing, ok := queryBool(c, "missing")
	assert.True(t, ok)
	assert.Nil(t, missing)

	tag, ok := queryUint(c, "tag")
	assert.True(t, ok)
	assert.Equal(t, uint(3), tag)

	from, ok := queryTime(c, "from")
	assert.True(t, ok)
	assert.Equal(t, 10, from.Hour())

	c.Request = httptest.NewRequest(http.MethodGet, "/?from=ieri", nil)
	_, ok = queryTime(c, "from")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
