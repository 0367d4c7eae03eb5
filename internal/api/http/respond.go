package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/service"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "status", status, "error", err)
	}
}

// writeError renders err as {"code","error"} with the status of its kind.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeJSON(w, status, errorResponse{Code: code, Error: service.Message(err)})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusBadRequest, "invalid_state"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrDeliveryFailure):
		return http.StatusInternalServerError, "delivery_failure"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func badRequest(format string, args ...any) error {
	return &service.Error{Kind: service.ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest("invalid request body")
	}
	return nil
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. Empty
// input yields nil.
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, badRequest("invalid %s: %q", field, value)
}
