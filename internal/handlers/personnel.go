package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListPersonnel(c *gin.Context) {
	personnel, err := h.inventory.ListPersonnel(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "personnel_list.html", gin.H{"personnel": personnel})
}

// personnelPage builds the form data; a failure to load the choices is
// reported through err so the caller can render an error page.
func (h *Handlers) personnelPage(c *gin.Context, title, action string, form personnelForm) (gin.H, error) {
	data := gin.H{"title": title, "action": action, "form": form}
	return data, h.ownerChoices(c, data)
}

func (h *Handlers) ShowNewPersonnel(c *gin.Context) {
	data, err := h.personnelPage(c, "Add Personnel", "/personnel/add", personnelForm{})
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "personnel_form.html", data)
}

func (h *Handlers) CreatePersonnel(c *gin.Context) {
	var form personnelForm
	bindErr := c.ShouldBind(&form)
	data, err := h.personnelPage(c, "Add Personnel", "/personnel/add", form)
	if err != nil {
		h.fail(c, err)
		return
	}
	if bindErr != nil {
		h.formError(c, "personnel_form.html", data, bindError(bindErr))
		return
	}
	if _, err := h.inventory.CreatePersonnel(c.Request.Context(), form.input()); err != nil {
		h.formError(c, "personnel_form.html", data, err)
		return
	}
	flash(c, flashSuccess, "Personnel added successfully.")
	c.Redirect(http.StatusFound, "/personnel")
}

func (h *Handlers) ShowEditPersonnel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	p, err := h.inventory.GetPersonnel(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	data, err := h.personnelPage(c, "Edit Personnel", editPath("personnel", id), personnelFormFrom(p))
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "personnel_form.html", data)
}

func (h *Handlers) UpdatePersonnel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	if _, err := h.inventory.GetPersonnel(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	var form personnelForm
	bindErr := c.ShouldBind(&form)
	data, err := h.personnelPage(c, "Edit Personnel", editPath("personnel", id), form)
	if err != nil {
		h.fail(c, err)
		return
	}
	if bindErr != nil {
		h.formError(c, "personnel_form.html", data, bindError(bindErr))
		return
	}
	if _, err := h.inventory.UpdatePersonnel(c.Request.Context(), id, form.input()); err != nil {
		h.formError(c, "personnel_form.html", data, err)
		return
	}
	flash(c, flashSuccess, "Personnel updated successfully.")
	c.Redirect(http.StatusFound, "/personnel")
}

func (h *Handlers) DeletePersonnel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	err := h.inventory.DeletePersonnel(c.Request.Context(), id)
	h.actionResult(c, err, "Personnel deleted successfully.", "/personnel")
}
