package board

import (
	"context"
	"fmt"
	"strconv"

	"github.com/trop3n/event-management-board/internal/models"
)

// Scope is the active filter for the event list: one room, or all rooms.
// The zero value means all rooms.
type Scope struct {
	RoomID int
}

// AllRooms is the unfiltered scope.
var AllRooms = Scope{}

// IsAll reports whether the scope covers every tracked room.
func (s Scope) IsAll() bool { return s.RoomID == 0 }

func (s Scope) String() string {
	if s.IsAll() {
		return "all"
	}
	return fmt.Sprintf("room %d", s.RoomID)
}

// ParseScope derives a scope from the navigation target's room parameter.
// An absent parameter means all rooms.
func ParseScope(param string) (Scope, error) {
	if param == "" {
		return AllRooms, nil
	}
	id, err := strconv.Atoi(param)
	if err != nil {
		return Scope{}, &ValidationError{Reason: fmt.Sprintf("room parameter %q is not numeric", param)}
	}
	return Scope{RoomID: id}, nil
}

// Transport is the board's view of the HTTP API. Implementations translate
// failures into the package error taxonomy: *TransportError for network or
// server breakage, *NotFoundError for missing scopes and resources, and
// *ServerRejection carrying the server's reason string verbatim.
type Transport interface {
	FetchEvents(ctx context.Context, scope Scope) ([]models.Event, error)
	FetchTrackedRooms(ctx context.Context) (map[int]string, error)
	FetchUsers(ctx context.Context) ([]models.UserRef, error)
	AddNote(ctx context.Context, eventID int, text string) (models.Note, error)
	DeleteNote(ctx context.Context, eventID, noteID int) error
	AddAssignment(ctx context.Context, eventID, userID int, role string) (models.Assignment, error)
	DeleteAssignment(ctx context.Context, eventID, assignmentID int) error
	TriggerSync(ctx context.Context) error
}

// SessionInfo is the read-only session state injected into the controller
// and detail sessions. The board only ever reads the current user's ID, to
// decide whether a note's delete control applies.
type SessionInfo struct {
	CurrentUser models.UserRef
}

// Confirmer asks the user to approve a destructive action before the
// request is issued. Deletions are aborted when it reports false.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Notifier delivers a blocking acknowledgment to the user, used for
// mutation and sync failures (and sync success).
type Notifier interface {
	Notify(message string)
}
