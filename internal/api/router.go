package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/messenger-auth/internal/api/handlers"
	"github.com/isdelr/messenger-auth/internal/auth"
	"github.com/isdelr/messenger-auth/internal/services"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// RouterOptions carries the HTTP-facing configuration.
type RouterOptions struct {
	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	opts RouterOptions,
	authn *auth.JWTAuthenticator,
	credentialService services.CredentialServiceProvider,
	recoveryService services.RecoveryServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	credentialHandler := handlers.NewCredentialHandler(credentialService, opts.SecureCookies)
	recoveryHandler := handlers.NewRecoveryHandler(recoveryService)
	eventHandler := handlers.NewEventHandler(eventService)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", credentialHandler.Register)
		r.Post("/login", credentialHandler.Login)
		r.Post("/logout", credentialHandler.Logout)

		// Recovery endpoints take no session.
		r.Get("/secret", recoveryHandler.SecretQuestion)
		r.Post("/reset", recoveryHandler.Reset)

		r.Group(func(r chi.Router) {
			r.Use(authn.JWTMiddleware())
			r.Get("/me", credentialHandler.Me)
			r.Get("/me/events", eventHandler.GetMine)
		})
	})

	return r
}
