package services

import "errors"

var (
	// ErrEventNotFound is returned when an event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrNoteNotFound is returned when a note does not exist on the given event.
	ErrNoteNotFound = errors.New("note not found")
	// ErrAssignmentNotFound is returned when an assignment does not exist on the given event.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotAuthor is returned when a user tries to modify a note they did not write.
	ErrNotAuthor = errors.New("only the author can modify this note")
	// ErrAlreadyAssigned is returned when a user already holds an assignment on the event.
	ErrAlreadyAssigned = errors.New("user already assigned to this event")
	// ErrEmptyNote is returned when a note body is missing or blank.
	ErrEmptyNote = errors.New("note text is required")
	// ErrRoomNotTracked is returned when a requested room is not in the tracked set.
	ErrRoomNotTracked = errors.New("room is not tracked")
)
