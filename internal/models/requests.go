package models

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Password       string         `json:"password"`
	SecretQuestion SecretQuestion `json:"secretQuestion"`
	SecretAnswer   string         `json:"secretAnswer"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /api/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SecretQuestionResponse is returned by GET /api/secret.
type SecretQuestionResponse struct {
	SecretQuestion SecretQuestion `json:"secretQuestion"`
}

// ResetRequest is the body of POST /api/reset.
type ResetRequest struct {
	Email        string `json:"email"`
	SecretAnswer string `json:"secretAnswer"`
	NewPassword  string `json:"newPassword"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
