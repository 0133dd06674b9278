// Package client is the HTTP client for the credential API. Status codes are
// mapped back onto the common error sentinels so callers can classify
// failures with common.KindOf.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/isdelr/messenger-auth/internal/common"
	"github.com/isdelr/messenger-auth/internal/models"
)

// Client calls the credential API. The session cookie set by login and
// registration is kept in a cookie jar.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New creates a Client for the server at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https, got %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

// Register creates an account; the server signs the new user in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/api/register", nil, req, &user)
	return user, err
}

// Login signs in and stores the session cookie.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", nil, req, &out)
	return out, err
}

// Logout drops the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/me", nil, nil, &user)
	return user, err
}

// Events returns the signed-in user's recent credential activity.
func (c *Client) Events(ctx context.Context, limit int) ([]models.Event, error) {
	var out []models.Event
	err := c.do(ctx, http.MethodGet, "/api/me/events", url.Values{"limit": {strconv.Itoa(limit)}}, nil, &out)
	return out, err
}

// SecretQuestion fetches the recovery question for email.
func (c *Client) SecretQuestion(ctx context.Context, email string) (models.SecretQuestion, error) {
	var out models.SecretQuestionResponse
	err := c.do(ctx, http.MethodGet, "/api/secret", url.Values{"email": {email}}, nil, &out)
	return out.SecretQuestion, err
}

// ResetPassword submits the secret answer and the new password.
func (c *Client) ResetPassword(ctx context.Context, req models.ResetRequest) (string, error) {
	var out models.MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/reset", nil, req, &out)
	return out.Message, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	u.Path += path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", common.ErrorInternal, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", common.ErrorInternal, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", common.ErrorInternal, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", common.ErrorInternal, err)
	}
	return nil
}

func statusError(code int, msg string) error {
	var sentinel error
	switch code {
	case http.StatusBadRequest:
		sentinel = common.ErrorValidation
	case http.StatusUnauthorized:
		sentinel = common.ErrorUnauthorized
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case http.StatusConflict:
		sentinel = common.ErrorConflict
	default:
		sentinel = common.ErrorInternal
	}
	if msg == "" {
		msg = http.StatusText(code)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
