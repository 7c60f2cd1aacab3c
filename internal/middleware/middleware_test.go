package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-tracker/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubUsers map[uint]*models.User

func (s stubUsers) UserByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func newRouter(users UserLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("secret"))))
	r.Use(InjectUser(users))

	r.GET("/signin/:id", func(c *gin.Context) {
		sess := sessions.Default(c)
		sess.Set(SessionUserKey, uint(1))
		if c.Param("id") == "2" {
			sess.Set(SessionUserKey, uint(2))
		}
		_ = sess.Save()
		c.String(http.StatusOK, "ok")
	})
	r.GET("/login", RedirectIfAuthenticated("/dashboard"), func(c *gin.Context) {
		c.String(http.StatusOK, "login")
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.String(http.StatusOK, u.Username)
	})
	return r
}

func get(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRedirectsWithNext(t *testing.T) {
	r := newRouter(stubUsers{})

	w := get(r, "/private?tab=1", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fprivate%3Ftab%3D1", w.Header().Get("Location"))
}

func TestSignedInUserIsInjected(t *testing.T) {
	r := newRouter(stubUsers{1: {ID: 1, Username: "admin"}})

	login := get(r, "/signin/1", nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()

	w := get(r, "/private", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())

	w = get(r, "/login", cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestSessionForMissingUserIsCleared(t *testing.T) {
	r := newRouter(stubUsers{1: {ID: 1, Username: "admin"}})

	login := get(r, "/signin/2", nil)
	cookies := login.Result().Cookies()

	w := get(r, "/login", cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/private", w.Result().Cookies())
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := get(r, "/ping", nil)
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[1]
	assert.Equal(t, "http request", entry.Message)
	assert.Equal(t, "abc-123", entry.ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entry.ContextMap()["status"])
}
