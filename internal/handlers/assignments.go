package handlers

import (
	"net/http"
	"strconv"
	"time"

	"inventory-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListAssignments(c *gin.Context) {
	assignments, err := h.inventory.ListAssignments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "assignments_list.html", gin.H{"assignments": assignments})
}

// assignmentPage builds the form data. current is the assignment being
// edited, whose equipment stays selectable even when it is no longer
// Available or Assigned.
func (h *Handlers) assignmentPage(c *gin.Context, title, action string, form assignmentForm, current *models.Assignment) (gin.H, error) {
	ctx := c.Request.Context()
	equipment, err := h.inventory.AssignableEquipment(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		found := false
		for _, e := range equipment {
			if e.ID == current.EquipmentID {
				found = true
				break
			}
		}
		if !found && current.Equipment.ID != 0 {
			equipment = append(equipment, current.Equipment)
		}
	}
	personnel, err := h.inventory.ListPersonnel(ctx)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"title":     title,
		"action":    action,
		"form":      form,
		"equipment": equipment,
		"personnel": personnel,
		"statuses":  models.AssignmentStatuses,
	}, nil
}

func (h *Handlers) ShowNewAssignment(c *gin.Context) {
	form := assignmentForm{
		AssignmentDate: time.Now().Format("2006-01-02"),
		Status:         string(models.AssignmentActive),
	}
	if id, ok := queryID(c, "equipment_id"); ok {
		form.EquipmentID = id
	}
	data, err := h.assignmentPage(c, "New Assignment", "/assignments/add", form, nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "assignment_form.html", data)
}

func (h *Handlers) CreateAssignment(c *gin.Context) {
	var form assignmentForm
	bindErr := c.ShouldBind(&form)
	data, err := h.assignmentPage(c, "New Assignment", "/assignments/add", form, nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	if bindErr != nil {
		h.formError(c, "assignment_form.html", data, bindError(bindErr))
		return
	}
	in, err := form.input()
	if err != nil {
		h.formError(c, "assignment_form.html", data, err)
		return
	}
	if _, err := h.inventory.CreateAssignment(c.Request.Context(), in, operator(c)); err != nil {
		h.formError(c, "assignment_form.html", data, err)
		return
	}
	flash(c, flashSuccess, "Assignment created successfully.")
	c.Redirect(http.StatusFound, "/assignments")
}

func (h *Handlers) ShowEditAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	a, err := h.inventory.GetAssignment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	data, err := h.assignmentPage(c, "Edit Assignment", editPath("assignments", id), assignmentFormFrom(a), a)
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "assignment_form.html", data)
}

func (h *Handlers) UpdateAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	current, err := h.inventory.GetAssignment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	var form assignmentForm
	bindErr := c.ShouldBind(&form)
	data, err := h.assignmentPage(c, "Edit Assignment", editPath("assignments", id), form, current)
	if err != nil {
		h.fail(c, err)
		return
	}
	if bindErr != nil {
		h.formError(c, "assignment_form.html", data, bindError(bindErr))
		return
	}
	in, err := form.input()
	if err != nil {
		h.formError(c, "assignment_form.html", data, err)
		return
	}
	if _, err := h.inventory.UpdateAssignment(c.Request.Context(), id, in); err != nil {
		h.formError(c, "assignment_form.html", data, err)
		return
	}
	flash(c, flashSuccess, "Assignment updated successfully.")
	c.Redirect(http.StatusFound, "/assignments")
}

func (h *Handlers) ReturnAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	_, err := h.inventory.ReturnAssignment(c.Request.Context(), id)
	h.actionResult(c, err, "Equipment returned successfully.", "/assignments")
}

func (h *Handlers) DeleteAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	err := h.inventory.DeleteAssignment(c.Request.Context(), id)
	h.actionResult(c, err, "Assignment deleted successfully.", "/assignments")
}

func queryID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
