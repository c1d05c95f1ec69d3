package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

const (
	secret = "middleware-test-secret"
	cookie = "lz_session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(userID, role, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": gin.H{"id": utils.CurrentUserID(c), "role": utils.CurrentRole(c)}})
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/any", AuthMiddleware(secret, cookie), whoami)
	r.GET("/admin", AuthMiddleware(secret, cookie, entity.RoleAdmin), whoami)

	tests := []struct {
		name   string
		path   string
		setup  func(req *http.Request)
		status int
	}{
		{"no token", "/any", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage token", "/any", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer not-a-jwt")
		}, http.StatusUnauthorized},
		{"wrong secret", "/any", func(req *http.Request) {
			tok, _ := utils.GenerateToken(1, entity.RoleAdmin, "other", time.Hour)
			req.Header.Set("Authorization", "Bearer "+tok)
		}, http.StatusUnauthorized},
		{"bearer header", "/any", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token(t, 4, entity.RoleEmployee))
		}, http.StatusOK},
		{"session cookie", "/any", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: cookie, Value: token(t, 4, entity.RoleEmployee)})
		}, http.StatusOK},
		{"role mismatch", "/admin", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token(t, 4, entity.RoleEmployee))
		}, http.StatusForbidden},
		{"role match", "/admin", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token(t, 1, entity.RoleAdmin))
		}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			assert.Equal(t, tt.status == http.StatusOK, env.OK)
			if !env.OK {
				assert.NotEmpty(t, env.Error)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	r := gin.New()
	r.GET("/mgr", AuthMiddleware(secret, cookie), RequireRoles(entity.RoleAdmin, entity.RoleManager), whoami)

	for role, want := range map[string]int{
		entity.RoleAdmin:    http.StatusOK,
		entity.RoleManager:  http.StatusOK,
		entity.RoleEmployee: http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/mgr", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, 9, role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestWSAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	r := gin.New()
	r.GET("/ws", WSAuthMiddleware(secret, cookie), whoami)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+token(t, 3, entity.RoleManager), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":3,"role":"manager"}`, string(decode(t, w).Data))
}

type sessionLoaderMock struct {
	mock.Mock
}

func (m *sessionLoaderMock) Session(userID uint) (*entity.User, error) {
	args := m.Called(userID)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func TestActiveSession(t *testing.T) {
	loader := new(sessionLoaderMock)
	promoted := &entity.User{Role: entity.RoleManager, IsActive: true}
	promoted.ID = 5
	loader.On("Session", uint(5)).Return(promoted, nil)
	loader.On("Session", uint(6)).Return(nil, services.ErrUnauthorized)
	loader.On("Session", uint(7)).Return(nil, errors.New("db down"))

	r := gin.New()
	r.GET("/me", AuthMiddleware(secret, cookie), ActiveSession(loader), whoami)

	call := func(id uint) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, id, entity.RoleEmployee))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// The stored role wins over the one in the token.
	w := call(5)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5,"role":"manager"}`, string(decode(t, w).Data))

	assert.Equal(t, http.StatusUnauthorized, call(6).Code)

	w = call(7)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")

	loader.AssertExpectations(t)
}

func TestRequestIDPropagation(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.False(t, env.OK)
	assert.NotContains(t, env.Error, "boom")
}
