package server

import (
	"fmt"
	"net/http"

	"inventory-tracker/internal/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
)

const (
	sessionName      = "inventory_session"
	redisIdleConns   = 10
	redisNetworkType = "tcp"
)

// NewSessionStore builds the cookie or redis backed session store.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case config.SessionRedis:
		s, err := redis.NewStore(redisIdleConns, redisNetworkType, cfg.RedisAddr, cfg.RedisPassword, []byte(cfg.SessionSecret))
		if err != nil {
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		store = s
	default:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
