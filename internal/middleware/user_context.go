package middleware

import (
	"context"

	"inventory-tracker/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "CurrentUser"

type UserLookup interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

// InjectUser loads the session's user into the gin context. A session that
// points at a missing user is cleared.
func InjectUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserKey).(uint); ok && uid > 0 {
			user, err := users.UserByID(c.Request.Context(), uid)
			if err == nil {
				c.Set(currentUserKey, user)
			} else {
				sess.Delete(SessionUserKey)
				_ = sess.Save()
			}
		}

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}
