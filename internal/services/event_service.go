package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/trop3n/event-management-board/internal/models"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	ListEvents(roomID *int, includeCancelled bool) ([]models.Event, error)
	GetEvent(id int) (models.Event, error)
	RoomForEvent(eventID int) (int, error)
	AddNote(eventID, authorID int, text string) (models.Note, error)
	UpdateNote(eventID, noteID, authorID int, text string) (models.Note, error)
	DeleteNote(eventID, noteID, authorID int) error
	AddAssignment(eventID, userID int, role string) (models.Assignment, error)
	UpdateAssignment(eventID, assignmentID int, role string) (models.Assignment, error)
	DeleteAssignment(eventID, assignmentID int) error
}

// EventService provides business logic for events and their notes and
// assignments. Events themselves are written only by the sync service;
// everything here besides reads operates on the attached entities.
type EventService struct {
	db           *sql.DB
	trackedRooms map[int]string
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, trackedRooms map[int]string) *EventService {
	return &EventService{db: db, trackedRooms: trackedRooms}
}

const eventColumns = `id, event_id, event_title, event_type_id, room_id, room_name,
	event_start_date, event_end_date, event_reservation_start, event_reservation_end,
	minutes_for_setup, minutes_for_cleanup, cancelled, approved, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID, &event.EventID, &event.EventTitle, &event.EventTypeID,
		&event.RoomID, &event.RoomName,
		&event.EventStartDate, &event.EventEndDate,
		&event.EventReservationStart, &event.EventReservationEnd,
		&event.MinutesForSetup, &event.MinutesForCleanup,
		&event.Cancelled, &event.Approved,
		&event.CreatedAt, &event.UpdatedAt,
	)
	return event, err
}

// ListEvents retrieves events ordered by start date, optionally filtered to
// one room. Cancelled events are excluded unless includeCancelled is set.
// Requesting a room outside the tracked set is an error, matching what the
// sync service would ever have stored.
func (s *EventService) ListEvents(roomID *int, includeCancelled bool) ([]models.Event, error) {
	query := "SELECT " + eventColumns + " FROM events"
	var conds []string
	var args []any

	if roomID != nil {
		if _, ok := s.trackedRooms[*roomID]; !ok {
			return nil, ErrRoomNotTracked
		}
		conds = append(conds, "room_id = ?")
		args = append(args, *roomID)
	}
	if !includeCancelled {
		conds = append(conds, "cancelled = 0")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY event_start_date"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		if err := s.attachDetails(&events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// GetEvent retrieves a single event with its notes and assignments.
func (s *EventService) GetEvent(id int) (models.Event, error) {
	row := s.db.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	event, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Event{}, ErrEventNotFound
		}
		return models.Event{}, err
	}
	if err := s.attachDetails(&event); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

// attachDetails loads the notes and assignments for an event.
func (s *EventService) attachDetails(event *models.Event) error {
	notes, err := s.notesForEvent(event.ID)
	if err != nil {
		return err
	}
	assignments, err := s.assignmentsForEvent(event.ID)
	if err != nil {
		return err
	}
	event.Notes = notes
	event.Assignments = assignments
	return nil
}

func (s *EventService) notesForEvent(eventID int) ([]models.Note, error) {
	rows, err := s.db.Query(`
		SELECT n.id, n.event_id, n.note, n.created_at, n.updated_at, u.id, u.full_name
		FROM event_notes n JOIN users u ON u.id = n.user_id
		WHERE n.event_id = ? ORDER BY n.created_at, n.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.EventID, &note.Note, &note.CreatedAt, &note.UpdatedAt,
			&note.Author.ID, &note.Author.FullName); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (s *EventService) assignmentsForEvent(eventID int) ([]models.Assignment, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.event_id, a.role, a.created_at, u.id, u.full_name
		FROM event_assignments a JOIN users u ON u.id = a.user_id
		WHERE a.event_id = ? ORDER BY a.created_at, a.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var assignment models.Assignment
		var role sql.NullString
		if err := rows.Scan(&assignment.ID, &assignment.EventID, &role, &assignment.CreatedAt,
			&assignment.User.ID, &assignment.User.FullName); err != nil {
			return nil, err
		}
		assignment.Role = role.String
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

// RoomForEvent resolves the room an event is booked in, used to target
// refresh hints at the boards watching that room.
func (s *EventService) RoomForEvent(eventID int) (int, error) {
	var roomID int
	err := s.db.QueryRow("SELECT room_id FROM events WHERE id = ?", eventID).Scan(&roomID)
	if err == sql.ErrNoRows {
		return 0, ErrEventNotFound
	}
	return roomID, err
}

func (s *EventService) eventExists(eventID int) error {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM events WHERE id = ?", eventID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrEventNotFound
	}
	return err
}

// AddNote attaches a note to an event on behalf of its author.
func (s *EventService) AddNote(eventID, authorID int, text string) (models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return models.Note{}, ErrEmptyNote
	}
	if err := s.eventExists(eventID); err != nil {
		return models.Note{}, err
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO event_notes (event_id, user_id, note, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		eventID, authorID, text, now, now,
	)
	if err != nil {
		return models.Note{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Note{}, err
	}
	return s.getNote(eventID, int(id))
}

func (s *EventService) getNote(eventID, noteID int) (models.Note, error) {
	var note models.Note
	err := s.db.QueryRow(`
		SELECT n.id, n.event_id, n.note, n.created_at, n.updated_at, u.id, u.full_name
		FROM event_notes n JOIN users u ON u.id = n.user_id
		WHERE n.id = ? AND n.event_id = ?`, noteID, eventID).
		Scan(&note.ID, &note.EventID, &note.Note, &note.CreatedAt, &note.UpdatedAt,
			&note.Author.ID, &note.Author.FullName)
	if err == sql.ErrNoRows {
		return models.Note{}, ErrNoteNotFound
	}
	return note, err
}

// UpdateNote rewrites a note's text. Only the author may update it.
func (s *EventService) UpdateNote(eventID, noteID, authorID int, text string) (models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return models.Note{}, ErrEmptyNote
	}
	note, err := s.getNote(eventID, noteID)
	if err != nil {
		return models.Note{}, err
	}
	if note.Author.ID != authorID {
		return models.Note{}, ErrNotAuthor
	}

	_, err = s.db.Exec("UPDATE event_notes SET note = ?, updated_at = ? WHERE id = ?",
		text, time.Now().UTC(), noteID)
	if err != nil {
		return models.Note{}, err
	}
	return s.getNote(eventID, noteID)
}

// DeleteNote removes a note. Only the author may delete it.
func (s *EventService) DeleteNote(eventID, noteID, authorID int) error {
	note, err := s.getNote(eventID, noteID)
	if err != nil {
		return err
	}
	if note.Author.ID != authorID {
		return ErrNotAuthor
	}
	_, err = s.db.Exec("DELETE FROM event_notes WHERE id = ?", noteID)
	return err
}

// AddAssignment assigns a user to an event. A user can hold only one
// assignment per event; a duplicate is rejected with ErrAlreadyAssigned.
func (s *EventService) AddAssignment(eventID, userID int, role string) (models.Assignment, error) {
	if err := s.eventExists(eventID); err != nil {
		return models.Assignment{}, err
	}
	var one int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE id = ?", userID).Scan(&one)
	if err == sql.ErrNoRows {
		return models.Assignment{}, ErrUserNotFound
	} else if err != nil {
		return models.Assignment{}, err
	}

	err = s.db.QueryRow("SELECT 1 FROM event_assignments WHERE event_id = ? AND user_id = ?",
		eventID, userID).Scan(&one)
	if err == nil {
		return models.Assignment{}, ErrAlreadyAssigned
	} else if err != sql.ErrNoRows {
		return models.Assignment{}, err
	}

	res, err := s.db.Exec(
		"INSERT INTO event_assignments (event_id, user_id, role, created_at) VALUES (?, ?, ?, ?)",
		eventID, userID, role, time.Now().UTC(),
	)
	if err != nil {
		return models.Assignment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Assignment{}, err
	}
	return s.getAssignment(eventID, int(id))
}

func (s *EventService) getAssignment(eventID, assignmentID int) (models.Assignment, error) {
	var assignment models.Assignment
	var role sql.NullString
	err := s.db.QueryRow(`
		SELECT a.id, a.event_id, a.role, a.created_at, u.id, u.full_name
		FROM event_assignments a JOIN users u ON u.id = a.user_id
		WHERE a.id = ? AND a.event_id = ?`, assignmentID, eventID).
		Scan(&assignment.ID, &assignment.EventID, &role, &assignment.CreatedAt,
			&assignment.User.ID, &assignment.User.FullName)
	if err == sql.ErrNoRows {
		return models.Assignment{}, ErrAssignmentNotFound
	}
	assignment.Role = role.String
	return assignment, err
}

// UpdateAssignment changes the role label on an assignment.
func (s *EventService) UpdateAssignment(eventID, assignmentID int, role string) (models.Assignment, error) {
	if _, err := s.getAssignment(eventID, assignmentID); err != nil {
		return models.Assignment{}, err
	}
	_, err := s.db.Exec("UPDATE event_assignments SET role = ? WHERE id = ?", role, assignmentID)
	if err != nil {
		return models.Assignment{}, err
	}
	return s.getAssignment(eventID, assignmentID)
}

// DeleteAssignment removes an assignment from an event.
func (s *EventService) DeleteAssignment(eventID, assignmentID int) error {
	if _, err := s.getAssignment(eventID, assignmentID); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM event_assignments WHERE id = ?", assignmentID)
	return err
}
