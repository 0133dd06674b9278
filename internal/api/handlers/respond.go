package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/messenger-auth/internal/common"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// detail strips the sentinel prefix from a wrapped error message.
func detail(err error) string {
	msg := err.Error()
	if _, rest, ok := strings.Cut(msg, ": "); ok && rest != "" {
		return rest
	}
	return ""
}

// writeError converts a service error into its status code and a plain
// message. Internal errors are logged and stay opaque to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch common.KindOf(err) {
	case common.KindValidation:
		msg := "Bad Request"
		if d := detail(err); d != "" {
			msg += ": " + d
		}
		http.Error(w, msg, http.StatusBadRequest)
	case common.KindNotFound:
		http.Error(w, "User not found", http.StatusNotFound)
	case common.KindAuthorization:
		msg := "Unauthorized"
		if d := detail(err); d != "" {
			msg = strings.ToUpper(d[:1]) + d[1:]
		}
		http.Error(w, msg, http.StatusUnauthorized)
	case common.KindConflict:
		http.Error(w, "Email already registered", http.StatusConflict)
	default:
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg(op + " failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
