package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/izposoja/internal/imaging"
	"github.com/erazemk/izposoja/internal/service"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// writeError maps a service failure to its HTTP status. Anything that is not
// a business failure is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	switch {
	case errors.As(err, &svcErr):
		jsonError(w, statusFor(svcErr), svcErr.Msg)
	case errors.Is(err, imaging.ErrUnsupported):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID(r.Context()),
			"error", err,
		)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// statusFor maps a service error to a status code. Ownership failures are
// reported as 404 and state conflicts as 400. Only a taken email is a 409.
func statusFor(err *service.Error) int {
	switch err.Reason {
	case service.ReasonDuplicateEmail:
		return http.StatusConflict
	case service.ReasonNotACompletedRenter:
		return http.StatusBadRequest
	}

	switch err.Kind {
	case service.ErrNotFound, service.ErrForbidden:
		return http.StatusNotFound
	case service.ErrInvalidRange, service.ErrConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
