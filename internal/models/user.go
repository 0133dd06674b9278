package models

import "time"

// User represents a messenger account and its recovery credentials.
type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	HashedPassword string         `json:"-"` // Never expose this to the client
	SecretQuestion SecretQuestion `json:"secretQuestion"`
	SecretAnswer   string         `json:"-"` // Stored verbatim, compared verbatim
	Image          string         `json:"image,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Sanitized returns a copy of the user that is safe to send to a client.
func (u User) Sanitized() User {
	u.HashedPassword = ""
	u.SecretAnswer = ""
	return u
}
