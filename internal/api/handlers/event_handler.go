package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/trop3n/event-management-board/internal/services"
	ws "github.com/trop3n/event-management-board/internal/websocket"
)

// EventHandler handles HTTP requests for events and their notes and assignments.
type EventHandler struct {
	service services.EventServiceProvider
	hub     *ws.Hub
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider, hub *ws.Hub) *EventHandler {
	return &EventHandler{service: service, hub: hub}
}

// notifyBoards hints the boards watching the mutated event's room, and
// the all-rooms boards, to re-fetch. When the room cannot be resolved the
// hint falls back to every connected board.
func (h *EventHandler) notifyBoards(eventID int) {
	if h.hub == nil {
		return
	}
	roomID, err := h.service.RoomForEvent(eventID)
	if err != nil {
		log.Warn().Err(err).Int("event_id", eventID).Msg("Could not resolve room for refresh hint")
		h.hub.Broadcast <- ws.EventsUpdated(0)
		return
	}
	message := ws.EventsUpdated(roomID)
	h.hub.BroadcastTo(strconv.Itoa(roomID), message)
	h.hub.BroadcastTo("all", message)
}

// GetAll handles listing events, optionally filtered by room_id. Cancelled
// events are excluded unless include_cancelled=true.
func (h *EventHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var roomID *int
	if raw := r.URL.Query().Get("room_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "room_id must be numeric")
			return
		}
		roomID = &id
	}
	includeCancelled := r.URL.Query().Get("include_cancelled") == "true"

	events, err := h.service.ListEvents(roomID, includeCancelled)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list events")
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Get handles retrieving a single event.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "event id must be numeric")
		return
	}

	event, err := h.service.GetEvent(id)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// NotePayload defines the request body for note create/update.
type NotePayload struct {
	Note string `json:"note"`
}

// AddNote handles attaching a note to an event.
func (h *EventHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not resolve user from token")
		return
	}
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "event id must be numeric")
		return
	}

	var payload NotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.service.AddNote(eventID, userID, payload.Note)
	if err != nil {
		log.Warn().Err(err).Int("event_id", eventID).Msg("Failed to add note")
		writeError(w, statusForError(err), err.Error())
		return
	}
	h.notifyBoards(eventID)
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles rewriting a note's text. Author-only.
func (h *EventHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not resolve user from token")
		return
	}
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "event id must be numeric")
		return
	}
	noteID, err := strconv.Atoi(chi.URLParam(r, "noteId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "note id must be numeric")
		return
	}

	var payload NotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.service.UpdateNote(eventID, noteID, userID, payload.Note)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	h.notifyBoards(eventID)
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles removing a note. Author-only.
func (h *EventHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not resolve user from token")
		return
	}
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "event id must be numeric")
		return
	}
	noteID, err := strconv.Atoi(chi.URLParam(r, "noteId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "note id must be numeric")
		return
	}

	if err := h.service.DeleteNote(eventID, noteID, userID); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	h.notifyBoards(eventID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}

// AssignmentPayload defines the request body for assignment create/update.
type AssignmentPayload struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
}

// AddAssignment handles assigning a user to an event.
func (h *EventHandler) AddAssignment(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "event id must be numeric")
		return
	}

	var payload AssignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	assignment, err := h.service.AddAssignment(eventID, payload.UserID, payload.Role)
	if err != nil {
		log.Warn().Err(err).Int("event_id", eventID).Int("user_id", payload.UserID).Msg("Failed to add assignment")
		writeError(w, statusForError(err), err.Error())
		return
	}
	h.notifyBoards(eventID)
	writeJSON(w, http.StatusCreated, assignment)
}

// UpdateAssignment handles changing an assignment's role label.
func (h *EventHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "event id must be numeric")
		return
	}
	assignmentID, err := strconv.Atoi(chi.URLParam(r, "assignmentId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "assignment id must be numeric")
		return
	}

	var payload AssignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assignment, err := h.service.UpdateAssignment(eventID, assignmentID, payload.Role)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	h.notifyBoards(eventID)
	writeJSON(w, http.StatusOK, assignment)
}

// DeleteAssignment handles removing an assignment from an event.
func (h *EventHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "event id must be numeric")
		return
	}
	assignmentID, err := strconv.Atoi(chi.URLParam(r, "assignmentId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "assignment id must be numeric")
		return
	}

	if err := h.service.DeleteAssignment(eventID, assignmentID); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	h.notifyBoards(eventID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "assignment removed"})
}
