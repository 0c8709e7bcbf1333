package models

// TrackedRoom is a room known to the sync subsystem. The set of tracked
// rooms is configuration, not data: it is loaded once and never mutated
// by the API.
type TrackedRoom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
