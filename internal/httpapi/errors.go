package httpapi

import (
	"encoding/json"
	"net/http"

	"fleetd/internal/scheduler"
	"fleetd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps scheduler errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case scheduler.IsUnknownModel(err), scheduler.IsNotLoaded(err):
		return http.StatusNotFound
	case scheduler.IsInsufficientResources(err), scheduler.IsMainBrainProtected(err):
		return http.StatusConflict
	case scheduler.IsRuntimeUnreachable(err):
		return http.StatusBadGateway
	case scheduler.IsNoModelAvailable(err):
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
