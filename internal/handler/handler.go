// Package handler exposes the household API over JSON. Handlers apply
// mutations through the state store and broadcast a change message so
// every connected display refreshes.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hearthside/hearth/internal/state"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeOpError maps a state operation error to an HTTP status.
func writeOpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrLastUser):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, state.ErrUserNotFound),
		errors.Is(err, state.ErrChoreNotFound),
		errors.Is(err, state.ErrRewardNotFound),
		errors.Is(err, state.ErrEventNotFound),
		errors.Is(err, state.ErrMealNotFound),
		errors.Is(err, state.ErrPhotoNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, state.ErrInvalidRole),
		errors.Is(err, state.ErrInvalidRecurrence),
		errors.Is(err, state.ErrInvalidMealType),
		errors.Is(err, state.ErrTitleRequired),
		errors.Is(err, state.ErrNegativePoints):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "operation failed")
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
