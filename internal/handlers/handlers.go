// Package handlers holds the gin handlers of the inventory web UI.
package handlers

import (
	"strconv"

	"inventory-tracker/internal/accounts"
	"inventory-tracker/internal/inventory"
	"inventory-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	accounts  *accounts.Service
	inventory *inventory.Service
	log       *zap.Logger
}

func New(acc *accounts.Service, inv *inventory.Service, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	useFormFieldNames()
	return &Handlers{accounts: acc, inventory: inv, log: log}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func operator(c *gin.Context) string {
	if u, ok := middleware.CurrentUser(c); ok {
		return u.Username
	}
	return ""
}
