package board

import (
	"context"
	"strings"

	"github.com/trop3n/event-management-board/internal/models"
)

// EventDetailSession is the transient editing state for one event's notes
// and assignments while its detail view is open. It starts from the
// snapshot the board already holds rather than re-fetching, applies
// mutations only after the server acknowledges them (no optimistic
// inserts), and on close carries nothing back except a refresh of the
// owning event list.
//
// Mutations are not pipelined: one must settle before the next is issued.
type EventDetailSession struct {
	transport Transport
	session   SessionInfo
	confirm   Confirmer
	onClose   func(context.Context)

	event       models.Event
	notes       []models.Note
	assignments []models.Assignment
	pending     bool
	closed      bool
}

// NewEventDetailSession opens a session over one event's snapshot.
// onClose is invoked exactly once when the session closes.
func NewEventDetailSession(transport Transport, session SessionInfo, event models.Event, confirm Confirmer, onClose func(context.Context)) *EventDetailSession {
	s := &EventDetailSession{
		transport: transport,
		session:   session,
		confirm:   confirm,
		onClose:   onClose,
		event:     event,
	}
	s.notes = append(s.notes, event.Notes...)
	s.assignments = append(s.assignments, event.Assignments...)
	return s
}

// Event returns the event snapshot this session was opened with.
func (s *EventDetailSession) Event() models.Event { return s.event }

// Notes returns the session's current note list.
func (s *EventDetailSession) Notes() []models.Note {
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Assignments returns the session's current assignment list.
func (s *EventDetailSession) Assignments() []models.Assignment {
	out := make([]models.Assignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

// Pending reports whether a mutation is outstanding. The UI disables
// mutation controls while this is true.
func (s *EventDetailSession) Pending() bool { return s.pending }

// CanDeleteNote reports whether the current user may delete a note. Only
// the author sees the delete control; the server enforces it regardless.
func (s *EventDetailSession) CanDeleteNote(note models.Note) bool {
	return note.Author.ID == s.session.CurrentUser.ID
}

func (s *EventDetailSession) begin() error {
	if s.pending {
		return ErrMutationInFlight
	}
	s.pending = true
	return nil
}

// AddNote submits a note and appends the server-returned entity on
// success. Blank text is rejected locally without a request, and the
// pending note is never shown before acknowledgment.
func (s *EventDetailSession) AddNote(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Reason: "note text is empty"}
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer func() { s.pending = false }()

	note, err := s.transport.AddNote(ctx, s.event.ID, text)
	if err != nil {
		return &MutationFailed{Op: "add note", Err: err}
	}
	s.notes = append(s.notes, note)
	return nil
}

// DeleteNote deletes a note after user confirmation. Declining the
// confirmation aborts without a request or an error.
func (s *EventDetailSession) DeleteNote(ctx context.Context, noteID int) error {
	if !s.confirm.Confirm("Delete this note?") {
		return nil
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer func() { s.pending = false }()

	if err := s.transport.DeleteNote(ctx, s.event.ID, noteID); err != nil {
		return &MutationFailed{Op: "delete note", Err: err}
	}
	s.notes = removeNote(s.notes, noteID)
	return nil
}

// AddAssignment assigns a user to the event. A missing user is rejected
// locally; whether the user is already assigned is the server's call, and
// its rejection reason is passed through verbatim.
func (s *EventDetailSession) AddAssignment(ctx context.Context, userID int, role string) error {
	if userID == 0 {
		return &ValidationError{Reason: "no user selected"}
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer func() { s.pending = false }()

	assignment, err := s.transport.AddAssignment(ctx, s.event.ID, userID, role)
	if err != nil {
		return &MutationFailed{Op: "add assignment", Err: err}
	}
	s.assignments = append(s.assignments, assignment)
	return nil
}

// DeleteAssignment removes an assignment after user confirmation.
func (s *EventDetailSession) DeleteAssignment(ctx context.Context, assignmentID int) error {
	if !s.confirm.Confirm("Remove this assignment?") {
		return nil
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer func() { s.pending = false }()

	if err := s.transport.DeleteAssignment(ctx, s.event.ID, assignmentID); err != nil {
		return &MutationFailed{Op: "remove assignment", Err: err}
	}
	s.assignments = removeAssignment(s.assignments, assignmentID)
	return nil
}

// Close discards the session. The only thing it carries back is the
// onClose refresh, which makes the board reflect every change made here
// and by any concurrent session.
func (s *EventDetailSession) Close(ctx context.Context) {
	if s.closed {
		return
	}
	s.closed = true
	if s.onClose != nil {
		s.onClose(ctx)
	}
}

func removeNote(notes []models.Note, id int) []models.Note {
	out := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

func removeAssignment(assignments []models.Assignment, id int) []models.Assignment {
	out := assignments[:0]
	for _, a := range assignments {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
