package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListAreas(c *gin.Context) {
	areas, err := h.inventory.ListAreas(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "areas_list.html", gin.H{"areas": areas})
}

func areaPage(title, action string, form areaForm) gin.H {
	return gin.H{"title": title, "action": action, "form": form}
}

func (h *Handlers) ShowNewArea(c *gin.Context) {
	render(c, http.StatusOK, "area_form.html", areaPage("Add Area", "/areas/add", areaForm{}))
}

func (h *Handlers) CreateArea(c *gin.Context) {
	var form areaForm
	if err := c.ShouldBind(&form); err != nil {
		h.formError(c, "area_form.html", areaPage("Add Area", "/areas/add", form), bindError(err))
		return
	}
	if _, err := h.inventory.CreateArea(c.Request.Context(), form.input()); err != nil {
		h.formError(c, "area_form.html", areaPage("Add Area", "/areas/add", form), err)
		return
	}
	flash(c, flashSuccess, "Area added successfully.")
	c.Redirect(http.StatusFound, "/areas")
}

func (h *Handlers) ShowEditArea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	a, err := h.inventory.GetArea(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	form := areaForm{Name: a.Name, Description: a.Description, Location: a.Location}
	render(c, http.StatusOK, "area_form.html", areaPage("Edit Area", editPath("areas", a.ID), form))
}

func (h *Handlers) UpdateArea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	if _, err := h.inventory.GetArea(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	var form areaForm
	page := func() gin.H { return areaPage("Edit Area", editPath("areas", id), form) }
	if err := c.ShouldBind(&form); err != nil {
		h.formError(c, "area_form.html", page(), bindError(err))
		return
	}
	if _, err := h.inventory.UpdateArea(c.Request.Context(), id, form.input()); err != nil {
		h.formError(c, "area_form.html", page(), err)
		return
	}
	flash(c, flashSuccess, "Area updated successfully.")
	c.Redirect(http.StatusFound, "/areas")
}

func (h *Handlers) DeleteArea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	err := h.inventory.DeleteArea(c.Request.Context(), id)
	h.actionResult(c, err, "Area deleted successfully.", "/areas")
}
