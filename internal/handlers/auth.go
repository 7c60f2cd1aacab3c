package handlers

import (
	"net/http"
	"strings"

	"inventory-tracker/internal/accounts"
	"inventory-tracker/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"form": registerForm{}})
}

func (h *Handlers) Register(c *gin.Context) {
	var form registerForm
	data := gin.H{}
	if err := c.ShouldBind(&form); err != nil {
		data["form"] = form
		h.formError(c, "register.html", data, bindError(err))
		return
	}
	data["form"] = form

	_, err := h.accounts.Register(c.Request.Context(), accounts.RegisterInput{
		Username:        form.Username,
		Email:           form.Email,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
	})
	if err != nil {
		h.formError(c, "register.html", data, err)
		return
	}

	flash(c, flashSuccess, "Registration successful. Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handlers) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"next": c.Query("next"), "username": ""})
}

func (h *Handlers) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.formError(c, "login.html", gin.H{"next": form.Next, "username": form.Username}, bindError(err))
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		h.formError(c, "login.html", gin.H{"next": form.Next, "username": form.Username}, err)
		return
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserKey, user.ID)
	sess.AddFlash("Logged in successfully.", flashSuccess)
	_ = sess.Save()

	c.Redirect(http.StatusFound, safeNext(form.Next))
}

func (h *Handlers) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.AddFlash("You have been logged out.", flashSuccess)
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/login")
}

// safeNext only follows local paths so login cannot be used as an open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/dashboard"
	}
	return next
}
