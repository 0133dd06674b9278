package models

import "time"

// Event types recorded for credential activity.
const (
	EventUserRegister        = "user.register"
	EventUserLoginFailed     = "user.login_failed"
	EventPasswordReset       = "user.password_reset"
	EventPasswordResetDenied = "user.password_reset_denied"
	EventLevelInfo           = "info"
	EventLevelWarn           = "warn"
)

// Event represents an auditable credential action.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "user.register", "user.password_reset"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"` // Nullable when the account is unknown
	CreatedAt time.Time `json:"createdAt"`
}
