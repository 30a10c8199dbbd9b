package model

import "time"

// User is an account in the system. The password hash and the current
// refresh-token hash are never exposed in JSON responses.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Password         string    `json:"-"`
	Name             string    `json:"name"`
	PhoneNumber      string    `json:"phone_number"`
	Address          string    `json:"address"`
	RefreshTokenHash string    `json:"-"`
	Role             *Role     `json:"role,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
