package types

import (
	"time"

	"github.com/google/uuid"
)

// User represents the core user entity in the domain.
type User struct {
	ID        uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Email     string    `json:"email" example:"john.doe@example.com"`              // Unique email address used for login.
	Username  string    `json:"username" example:"johndoe"`                        // Unique username.
	Password  string    `json:"-"`                                                 // Hashed password (never exposed).
	CreatedAt time.Time `json:"created_at"`                                        // Timestamp when the user was created.
	UpdatedAt time.Time `json:"updated_at"`                                        // Timestamp when the user was last updated.
}

// UserSummary is the public shape of a user embedded in other responses.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
}

// Summary strips everything but the public identity fields.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
	}
}
