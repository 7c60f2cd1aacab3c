package handlers

import (
	"inventory-tracker/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccess = "success"
	flashError   = "danger"
)

// render wraps c.HTML, passing the signed-in user and pending flash messages
// to every template.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if u, ok := middleware.CurrentUser(c); ok {
		data["CurrentUser"] = u
	}

	sess := sessions.Default(c)
	success := sess.Flashes(flashSuccess)
	failure := sess.Flashes(flashError)
	if len(success) > 0 || len(failure) > 0 {
		_ = sess.Save()
	}
	data["flashSuccess"] = success
	data["flashError"] = failure

	c.HTML(status, tmpl, data)
}

func flash(c *gin.Context, category, message string) {
	sess := sessions.Default(c)
	sess.AddFlash(message, category)
	_ = sess.Save()
}
