package models

import "time"

const (
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User is an account allowed to create tournaments and record results.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
