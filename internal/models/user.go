package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"created_at"`
}

// UserRef is the compact user shape embedded in notes and assignments.
type UserRef struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
}

// Ref returns the embeddable reference for a user.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, FullName: u.FullName}
}
