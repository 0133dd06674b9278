package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/messenger-auth/internal/common"
	"github.com/isdelr/messenger-auth/internal/models"
	"github.com/isdelr/messenger-auth/internal/store"
	"github.com/rs/zerolog/log"
)

// CookieName is the cookie carrying the session token.
const CookieName = "token"

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// UserClaimsKey is the context key for user claims.
type contextKey string

const UserClaimsKey = contextKey("userClaims")

// Credentials are what a user signs in with.
type Credentials struct {
	Email    string
	Password string
}

// Session is an issued sign-in.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// Authenticator verifies credentials and issues sessions.
type Authenticator interface {
	SignIn(ctx context.Context, creds Credentials) (Session, error)
}

// JWTAuthenticator checks passwords against the user store and issues HS256 tokens.
type JWTAuthenticator struct {
	users  store.UserStore
	hasher PasswordHasher
	key    []byte
	ttl    time.Duration
}

// NewJWTAuthenticator creates a new JWTAuthenticator.
func NewJWTAuthenticator(users store.UserStore, hasher PasswordHasher, secret string, ttl time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{users: users, hasher: hasher, key: []byte(secret), ttl: ttl}
}

// SignIn verifies a user's credentials. Every failure caused by the
// credentials themselves is reported as common.ErrorUnauthorized with no
// detail about which part was wrong.
func (a *JWTAuthenticator) SignIn(ctx context.Context, creds Credentials) (Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return Session{}, fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
	}
	user, err := a.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Session{}, fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
		}
		return Session{}, err
	}
	if err := a.hasher.Compare(user.HashedPassword, creds.Password); err != nil {
		if errors.Is(err, ErrMismatchedPassword) {
			return Session{}, fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
		}
		return Session{}, fmt.Errorf("%w: compare password: %v", common.ErrorInternal, err)
	}

	expiresAt := time.Now().Add(a.ttl)
	token, err := a.GenerateJWT(user, expiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user.Sanitized()}, nil
}

// GenerateJWT creates a new JWT for a given user.
func (a *JWTAuthenticator) GenerateJWT(user models.User, expiresAt time.Time) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.key)
}

// ValidateJWT parses and validates a JWT string.
func (a *JWTAuthenticator) ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return a.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ClaimsFromContext returns the claims stored by JWTMiddleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// JWTMiddleware creates a middleware for protecting routes.
func (a *JWTAuthenticator) JWTMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the Authorization header
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				if bearer, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
					tokenStr = bearer
				}
			}

			// 2. If not in header, fall back to the cookie
			if tokenStr == "" {
				if cookie, err := r.Cookie(CookieName); err == nil {
					tokenStr = cookie.Value
				}
			}

			if tokenStr == "" {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}

			claims, err := a.ValidateJWT(tokenStr)
			if err != nil {
				log.Debug().Err(err).Msg("Rejected auth token")
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
