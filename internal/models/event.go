package models

import "time"

// Event represents one scheduled occupation of a room, pulled from the
// upstream calendar by the sync service. Events are never created through
// this API, only read and refreshed.
type Event struct {
	ID                    int          `json:"id"`
	EventID               int          `json:"event_id"` // upstream event-room identifier
	EventTitle            string       `json:"event_title"`
	EventTypeID           *int         `json:"event_type_id,omitempty"`
	RoomID                int          `json:"room_id"`
	RoomName              string       `json:"room_name"`
	EventStartDate        time.Time    `json:"event_start_date"`
	EventEndDate          time.Time    `json:"event_end_date"`
	EventReservationStart *time.Time   `json:"event_reservation_start,omitempty"`
	EventReservationEnd   *time.Time   `json:"event_reservation_end,omitempty"`
	MinutesForSetup       int          `json:"minutes_for_setup"`
	MinutesForCleanup     int          `json:"minutes_for_cleanup"`
	Cancelled             bool         `json:"cancelled"`
	Approved              bool         `json:"approved"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
	Notes                 []Note       `json:"notes"`
	Assignments           []Assignment `json:"assignments"`
}

// Note is a free-text annotation on an event, owned by its author.
type Note struct {
	ID        int       `json:"id"`
	EventID   int       `json:"event_id"`
	Author    UserRef   `json:"author"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Assignment binds a staff member to an event, optionally with a role
// label such as "Tech Lead" or "Audio". A user can hold at most one
// assignment per event.
type Assignment struct {
	ID        int       `json:"id"`
	EventID   int       `json:"event_id"`
	User      UserRef   `json:"user"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
