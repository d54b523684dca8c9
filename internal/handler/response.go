package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Dan9191/task-tracker/internal/auth"
	"github.com/Dan9191/task-tracker/internal/service"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"msg": msg})
}

// writeError maps service errors to status codes. Unknown errors are logged and never echoed.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeMsg(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, service.ErrConflict):
		writeMsg(w, http.StatusConflict, "Username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMsg(w, http.StatusUnauthorized, "Bad username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		writeMsg(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, service.ErrNotFound):
		writeMsg(w, http.StatusNotFound, "Task not found")
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		writeMsg(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown fields, then validates it
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return &service.ValidationError{Message: "request body is required"}
		case errors.As(err, &maxErr):
			return &service.ValidationError{Message: "request body too large"}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return &service.ValidationError{Message: strings.TrimPrefix(err.Error(), "json: ")}
		default:
			return &service.ValidationError{Message: "invalid JSON body"}
		}
	}
	if dec.More() {
		return &service.ValidationError{Message: "request body must contain a single JSON object"}
	}

	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &service.ValidationError{Message: fieldMessage(fieldErrs[0])}
		}
		return err
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
