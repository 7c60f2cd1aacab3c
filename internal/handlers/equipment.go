package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"inventory-tracker/internal/apperrors"
	"inventory-tracker/internal/inventory"
	"inventory-tracker/internal/models"
	"inventory-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handlers) ListEquipment(c *gin.Context) {
	equipment, err := h.inventory.ListEquipment(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "equipment_list.html", gin.H{"equipment": equipment})
}

func (h *Handlers) ViewEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	e, err := h.inventory.GetEquipment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "equipment_view.html", gin.H{"equipment": e})
}

func (h *Handlers) equipmentPage(c *gin.Context, title, action string, form equipmentForm) (gin.H, error) {
	data := gin.H{
		"title":    title,
		"action":   action,
		"form":     form,
		"types":    models.EquipmentTypes,
		"statuses": models.EquipmentStatuses,
	}
	return data, h.ownerChoices(c, data)
}

func (h *Handlers) ShowNewEquipment(c *gin.Context) {
	form := equipmentForm{
		Status:           string(models.EquipmentAvailable),
		RegistrationDate: time.Now().Format("2006-01-02"),
	}
	data, err := h.equipmentPage(c, "Add Equipment", "/equipment/add", form)
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, "equipment_form.html", data)
}

func (h *Handlers) CreateEquipment(c *gin.Context) {
	var form equipmentForm
	bindErr := c.ShouldBind(&form)
	data, err := h.equipmentPage(c, "Add Equipment", "/equipment/add", form)
	if err != nil {
		h.fail(c, err)
		return
	}
	if bindErr != nil {
		h.formError(c, "equipment_form.html", data, bindError(bindErr))
		return
	}
	in, err := form.input()
	if err != nil {
		h.formError(c, "equipment_form.html", data, err)
		return
	}

	img, cleanup, err := imageUpload(c)
	if err != nil {
		h.formError(c, "equipment_form.html", data, err)
		return
	}
	defer cleanup()

	if _, err := h.inventory.CreateEquipment(c.Request.Context(), in, img); err != nil {
		h.formError(c, "equipment_form.html", data, err)
		return
	}
	flash(c, flashSuccess, "Equipment added successfully.")
	c.Redirect(http.StatusFound, "/equipment")
}

func (h *Handlers) ShowEditEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	e, err := h.inventory.GetEquipment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	data, err := h.equipmentPage(c, "Edit Equipment", editPath("equipment", id), equipmentFormFrom(e))
	if err != nil {
		h.fail(c, err)
		return
	}
	data["equipment"] = e
	render(c, http.StatusOK, "equipment_form.html", data)
}

func (h *Handlers) UpdateEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	if _, err := h.inventory.GetEquipment(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	var form equipmentForm
	bindErr := c.ShouldBind(&form)
	data, err := h.equipmentPage(c, "Edit Equipment", editPath("equipment", id), form)
	if err != nil {
		h.fail(c, err)
		return
	}
	if bindErr != nil {
		h.formError(c, "equipment_form.html", data, bindError(bindErr))
		return
	}
	in, err := form.input()
	if err != nil {
		h.formError(c, "equipment_form.html", data, err)
		return
	}

	img, cleanup, err := imageUpload(c)
	if err != nil {
		h.formError(c, "equipment_form.html", data, err)
		return
	}
	defer cleanup()

	if _, err := h.inventory.UpdateEquipment(c.Request.Context(), id, in, img); err != nil {
		h.formError(c, "equipment_form.html", data, err)
		return
	}
	flash(c, flashSuccess, "Equipment updated successfully.")
	c.Redirect(http.StatusFound, "/equipment")
}

func (h *Handlers) DeleteEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFoundPage(c)
		return
	}
	err := h.inventory.DeleteEquipment(c.Request.Context(), id)
	h.actionResult(c, err, "Equipment deleted successfully.", "/equipment")
}

func (h *Handlers) ExportEquipment(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.inventory.ExportEquipment(c.Request.Context(), &buf); err != nil {
		h.fail(c, err)
		return
	}
	fileName := fmt.Sprintf("equipment_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ServeImage streams a stored equipment image.
func (h *Handlers) ServeImage(c *gin.Context) {
	name := c.Param("filename")
	rc, size, err := h.inventory.OpenImage(c.Request.Context(), name)
	if errors.Is(err, storage.ErrImageNotFound) {
		c.String(http.StatusNotFound, "image not found")
		return
	}
	if err != nil {
		status, msg := h.classify(c, err)
		c.String(status, msg)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, size, storage.ContentType(name), rc, nil)
}

// EquipmentIP answers the JSON lookup used by the equipment list.
func (h *Handlers) EquipmentIP(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
		return
	}
	ip, err := h.inventory.EquipmentIP(c.Request.Context(), id)
	if err != nil {
		status, msg := h.classify(c, err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ip_address": ip})
}

// imageUpload opens the optional "image" file of a multipart form. cleanup
// must be called once the upload has been consumed.
func imageUpload(c *gin.Context) (*inventory.ImageUpload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperrors.Validation("image", "the image could not be read")
	}
	if fh.Filename == "" {
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open upload: %w", err)
	}
	return &inventory.ImageUpload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: contentType(fh),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return storage.ContentType(fh.Filename)
}
