package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"inventory-tracker/internal/apperrors"
	"inventory-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const genericFailure = "Something went wrong. Please try again."

var registerTagNames sync.Once

// useFormFieldNames makes validator errors report the form field name
// instead of the Go struct field.
func useFormFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// bindError turns a binding failure into a ValidationError naming the first
// failing field.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return apperrors.Validation("", "The submitted form could not be read.")
	}
	fe := ve[0]
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return apperrors.Validation(fe.Field(), "%s is required", label)
	case "max":
		return apperrors.Validation(fe.Field(), "%s must be at most %s characters", label, fe.Param())
	case "min":
		return apperrors.Validation(fe.Field(), "%s must be at least %s characters", label, fe.Param())
	case "email":
		return apperrors.Validation(fe.Field(), "%s must be a valid email address", label)
	case "eqfield":
		return apperrors.Validation(fe.Field(), "passwords do not match")
	case "ip":
		return apperrors.Validation(fe.Field(), "%s must be a valid IP address", label)
	case "mac":
		return apperrors.Validation(fe.Field(), "%s must be a valid MAC address", label)
	default:
		return apperrors.Validation(fe.Field(), "%s is invalid", label)
	}
}

// classify maps an error to an HTTP status and a message safe to show.
// Unexpected errors are logged.
func (h *Handlers) classify(c *gin.Context, err error) (int, string) {
	var (
		verr     *apperrors.ValidationError
		dup      *apperrors.DuplicateValueError
		conflict *apperrors.ConflictError
		already  *apperrors.AlreadyReturnedError
		missing  *apperrors.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.As(err, &dup):
		return http.StatusConflict, dup.Error()
	case errors.As(err, &conflict):
		return http.StatusConflict, conflict.Message
	case errors.As(err, &already):
		return http.StatusConflict, "This assignment was already returned."
	case errors.As(err, &missing):
		return http.StatusNotFound, missing.Error()
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password."
	}

	h.log.Error("request failed",
		zap.String("request_id", middleware.RequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	return http.StatusInternalServerError, genericFailure
}

// formError re-renders a form with the error message and the submitted input.
func (h *Handlers) formError(c *gin.Context, tmpl string, data gin.H, err error) {
	status, msg := h.classify(c, err)
	data["error"] = msg
	render(c, status, tmpl, data)
}

// actionResult flashes the outcome of a delete or return and goes back to the
// list. A missing target renders the not found page instead.
func (h *Handlers) actionResult(c *gin.Context, err error, success, redirect string) {
	if apperrors.IsNotFound(err) {
		notFoundPage(c)
		return
	}
	if err != nil {
		_, msg := h.classify(c, err)
		flash(c, flashError, msg)
	} else {
		flash(c, flashSuccess, success)
	}
	c.Redirect(http.StatusFound, redirect)
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status, msg := h.classify(c, err)
	if status == http.StatusNotFound {
		notFoundPage(c)
		return
	}
	render(c, status, "error.html", gin.H{"status": status, "message": msg})
}

func notFoundPage(c *gin.Context) {
	render(c, http.StatusNotFound, "error.html", gin.H{
		"status":  http.StatusNotFound,
		"message": "The page you were looking for does not exist.",
	})
}
