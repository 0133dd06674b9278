package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/messenger-auth/internal/auth"
	"github.com/isdelr/messenger-auth/internal/models"
	"github.com/isdelr/messenger-auth/internal/services"
	"github.com/rs/zerolog/log"
)

// CredentialHandler handles registration, login and session requests.
type CredentialHandler struct {
	service       services.CredentialServiceProvider
	secureCookies bool
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(service services.CredentialServiceProvider, secureCookies bool) *CredentialHandler {
	return &CredentialHandler{service: service, secureCookies: secureCookies}
}

func (h *CredentialHandler) setSessionCookie(w http.ResponseWriter, session auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// Register handles new user registration and signs the user in.
func (h *CredentialHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload models.RegisterRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	reg, err := h.service.Register(r.Context(), services.RegisterInput{
		Email:          payload.Email,
		Name:           payload.Name,
		Password:       payload.Password,
		SecretQuestion: payload.SecretQuestion,
		SecretAnswer:   payload.SecretAnswer,
	})
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeError(w, r, err, "register")
		return
	}

	if reg.Session.Token != "" {
		h.setSessionCookie(w, reg.Session)
	}
	writeJSON(w, http.StatusOK, reg.User)
}

// Login handles user authentication and session issuance.
func (h *CredentialHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload models.LoginRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	session, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		writeError(w, r, err, "login")
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: session.Token, User: session.User})
}

// Logout clears the session cookie.
func (h *CredentialHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the currently authenticated user from the token.
func (h *CredentialHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err, "me")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
