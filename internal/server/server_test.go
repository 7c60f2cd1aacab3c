package server

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"inventory-tracker/internal/accounts"
	"inventory-tracker/internal/config"
	"inventory-tracker/internal/database"
	"inventory-tracker/internal/handlers"
	"inventory-tracker/internal/inventory"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DBDriver:          config.DriverSQLite,
		DBDSN:             filepath.Join(t.TempDir(), "server.db"),
		DBConnectAttempts: 1,
		SessionSecret:     "server-test-secret",
		SessionStore:      config.SessionCookie,
		SessionMaxAge:     600,
		MaxUploadBytes:    1 << 20,
	}
}

func TestNewSessionStoreCookie(t *testing.T) {
	store, err := NewSessionStore(testConfig(t))
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestNewSessionStoreRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.SessionStore = config.SessionRedis
	cfg.RedisAddr = addr

	_, err := NewSessionStore(cfg)
	assert.Error(t, err)
}

func TestRedisSessionsSurviveRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.SessionStore = config.SessionRedis
	cfg.RedisAddr = mr.Addr()

	log := zap.NewNop()
	db, err := database.Open(cfg, log)
	require.NoError(t, err)

	acc := accounts.New(db, log)
	require.NoError(t, acc.EnsureAdmin(context.Background(), "admin", "admin@example.com", "admin123"))

	store, err := NewSessionStore(cfg)
	require.NoError(t, err)

	router := NewRouter(Options{
		Config:   cfg,
		Sessions: store,
		Handlers: handlers.New(acc, inventory.New(db), log),
		Users:    acc,
		Logger:   log,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	form := url.Values{"username": {"admin"}, "password": {"admin123"}}
	resp, err := client.Post(srv.URL+"/login", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	assert.NotEmpty(t, mr.Keys(), "session should be stored in redis")

	resp, err = client.Get(srv.URL + "/dashboard")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// dropping the server side session logs the user out
	mr.FlushAll()
	resp, err = client.Get(srv.URL + "/dashboard")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestUploadRoutesAreBodyLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/upload", limitBody(10), func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	body := strings.NewReader("field=" + strings.Repeat("x", 2<<20))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
