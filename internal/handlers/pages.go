package handlers

import (
	"net/http"

	"inventory-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) Index(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handlers) Dashboard(c *gin.Context) {
	stats, err := h.inventory.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{"stats": stats})
}
