package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trop3n/event-management-board/internal/auth"
	"github.com/trop3n/event-management-board/internal/services"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the JSON error envelope the board client surfaces to
// users, so the reason string here is what they will read.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrNoteNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRoomNotTracked):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotAuthor):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyAssigned):
		return http.StatusConflict
	case errors.Is(err, services.ErrEmptyNote):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// currentUserID extracts the authenticated user's ID from the request context.
func currentUserID(r *http.Request) (int, bool) {
	claims, ok := r.Context().Value(auth.UserClaimsKey).(*auth.Claims)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}
