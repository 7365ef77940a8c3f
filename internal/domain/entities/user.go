package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is a chatbot account. Location is captured during onboarding and is a
// precondition for hospital recommendations.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Nickname     string    `json:"nickname" db:"nickname"`
	Latitude     *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64  `json:"longitude,omitempty" db:"longitude"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasLocation reports whether the user has stored coordinates.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
