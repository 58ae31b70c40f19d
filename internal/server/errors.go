package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/tOgg1/parrot/internal/contact"
	"github.com/tOgg1/parrot/internal/models"
	"github.com/tOgg1/parrot/internal/notify"
	"github.com/tOgg1/parrot/internal/palette"
)

const maxContactBodyBytes = 16 * 1024

// errorBody is the shape of every error response.
type errorBody struct {
	Code         string               `json:"code"`
	Message      string               `json:"message"`
	Status       string               `json:"status"`
	Fields       []string             `json:"fields,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, maxBytes int64, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(target); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			writeErr(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds max size")
		case strings.Contains(err.Error(), "unknown field"):
			writeErr(w, http.StatusBadRequest, "BAD_JSON", "request contains unknown fields")
		default:
			writeErr(w, http.StatusBadRequest, "BAD_JSON", "request body must be valid JSON")
		}
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeErr(w, http.StatusBadRequest, "BAD_JSON", "request body must contain exactly one JSON object")
		return errors.New("trailing data after JSON object")
	}
	return nil
}

func writeMappedErr(w http.ResponseWriter, err error) {
	status, body := mapError(err)
	writeJSON(w, status, body)
}

func mapError(err error) (int, errorBody) {
	var validation *models.ValidationErrors
	switch {
	case errors.As(err, &validation):
		body := newErrorBody(http.StatusBadRequest, "INVALID_CONTACT", validation.Error())
		body.Fields = validation.Fields()
		return http.StatusBadRequest, body
	case errors.Is(err, contact.ErrStoreFailed):
		return http.StatusServiceUnavailable, newErrorBody(http.StatusServiceUnavailable, "PERSISTENCE_FAILED", "contact submission could not be recorded")
	case errors.Is(err, palette.ErrInvalidConfiguration):
		return http.StatusInternalServerError, newErrorBody(http.StatusInternalServerError, "INVALID_CONFIGURATION", "theme table is not configured")
	case errors.Is(err, palette.ErrUnknownTheme):
		return http.StatusNotFound, newErrorBody(http.StatusNotFound, "THEME_NOT_FOUND", "no theme matches the request")
	default:
		return http.StatusInternalServerError, newErrorBody(http.StatusInternalServerError, "INTERNAL_ERROR", "parrot internal error")
	}
}

func newErrorBody(status int, code, message string) errorBody {
	return errorBody{Code: code, Message: message, Status: strconv.Itoa(status)}
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, newErrorBody(status, code, message))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
