package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListDepartments(c *gin.Context) {
	departments, err := h.inventory.ListDepartments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "departments_list.html", gin.H{"departments": departments})
}

func departmentPage(title, action string, form departmentForm) gin.H {
	return gin.H{"title": title, "action": action, "form": form}
}

func (h *Handlers) ShowNewDepartment(c *gin.Context) {
	render(c, http.StatusOK, "department_form.html", departmentPage("Add Department", "/departments/add", departmentForm{}))
}

func (h *Handlers) CreateDepartment(c *gin.Context) {
	var form departmentForm
	if err := c.ShouldBind(&form); err != nil {
		h.formError(c, "department_form.html", departmentPage("Add Department", "/departments/add", form), bindError(err))
		return
	}
	if _, err := h.inventory.CreateDepartment(c.Request.Context(), form.input()); err != nil {
		h.formError(c, "department_form.html", departmentPage("Add Department", "/departments/add", form), err)
		return
	}
	flash(c, flashSuccess, "Department added successfully.")
	c.Redirect(http.StatusFound, "/departments")
}

func (h *Handlers) ShowEditDepartment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	d, err := h.inventory.GetDepartment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	form := departmentForm{Name: d.Name, Description: d.Description}
	render(c, http.StatusOK, "department_form.html", departmentPage("Edit Department", editPath("departments", d.ID), form))
}

func (h *Handlers) UpdateDepartment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	if _, err := h.inventory.GetDepartment(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	var form departmentForm
	page := func() gin.H { return departmentPage("Edit Department", editPath("departments", id), form) }
	if err := c.ShouldBind(&form); err != nil {
		h.formError(c, "department_form.html", page(), bindError(err))
		return
	}
	if _, err := h.inventory.UpdateDepartment(c.Request.Context(), id, form.input()); err != nil {
		h.formError(c, "department_form.html", page(), err)
		return
	}
	flash(c, flashSuccess, "Department updated successfully.")
	c.Redirect(http.StatusFound, "/departments")
}

func (h *Handlers) DeleteDepartment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	err := h.inventory.DeleteDepartment(c.Request.Context(), id)
	h.actionResult(c, err, "Department deleted successfully.", "/departments")
}

// ownerChoices loads the department and area options shared by the
// personnel and equipment forms.
func (h *Handlers) ownerChoices(c *gin.Context, data gin.H) error {
	departments, err := h.inventory.ListDepartments(c.Request.Context())
	if err != nil {
		return err
	}
	areas, err := h.inventory.ListAreas(c.Request.Context())
	if err != nil {
		return err
	}
	data["departments"] = departments
	data["areas"] = areas
	return nil
}

func editPath(entity string, id uint) string {
	return "/" + entity + "/edit/" + strconv.FormatUint(uint64(id), 10)
}
