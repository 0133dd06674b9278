package handlers

import (
	"net/http"

	"github.com/isdelr/messenger-auth/internal/models"
	"github.com/isdelr/messenger-auth/internal/services"
	"github.com/rs/zerolog/log"
)

// RecoveryHandler handles the unauthenticated secret-question recovery endpoints.
type RecoveryHandler struct {
	service services.RecoveryServiceProvider
}

// NewRecoveryHandler creates a new RecoveryHandler.
func NewRecoveryHandler(service services.RecoveryServiceProvider) *RecoveryHandler {
	return &RecoveryHandler{service: service}
}

// SecretQuestion returns the secret question for ?email=.
func (h *RecoveryHandler) SecretQuestion(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	question, err := h.service.GetSecretQuestion(r.Context(), email)
	if err != nil {
		writeError(w, r, err, "fetch secret question")
		return
	}
	writeJSON(w, http.StatusOK, models.SecretQuestionResponse{SecretQuestion: question})
}

// Reset verifies the secret answer and replaces the password.
func (h *RecoveryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var payload models.ResetRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	err := h.service.ResetPassword(r.Context(), services.ResetInput{
		Email:        payload.Email,
		SecretAnswer: payload.SecretAnswer,
		NewPassword:  payload.NewPassword,
	})
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Password reset rejected")
		writeError(w, r, err, "reset password")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Password successfully changed"})
}
