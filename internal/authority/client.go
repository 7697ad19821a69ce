package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/station-console/internal/config"
	"github.com/spec-kit/station-console/internal/domain"
)

// AuthErrorKind distinguishes why a login attempt failed.
type AuthErrorKind string

const (
	// KindInvalidCredentials means the authority rejected the credentials.
	KindInvalidCredentials AuthErrorKind = "invalid_credentials"
	// KindTransport means the authority could not be reached or answered
	// with something other than a credential verdict.
	KindTransport AuthErrorKind = "transport"
)

// AuthError is a failed login attempt. Message is shown to the user verbatim.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Client talks to the remote login authority.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds an authority client from config.
func NewClient(cfg config.AuthorityConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Data struct {
		Identifier  string `json:"identifier"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
		Role        string `json:"role"`
		Token       string `json:"token"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Authenticate posts the credentials and returns the resulting session on
// success. Failures come back as *AuthError, with the kind telling a
// credential rejection apart from a transport problem.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*domain.Session, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, &AuthError{Kind: KindTransport, Message: "sign-in failed", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, &AuthError{Kind: KindTransport, Message: "sign-in failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("authority unreachable", zap.Error(err))
		return nil, &AuthError{Kind: KindTransport, Message: "cannot reach the authentication service", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusOK:
		var payload loginResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, &AuthError{Kind: KindTransport, Message: "unexpected response from the authentication service", Err: err}
		}
		return &domain.Session{
			Identifier:  payload.Data.Identifier,
			DisplayName: payload.Data.DisplayName,
			Email:       payload.Data.Email,
			Role:        payload.Data.Role,
			Token:       payload.Data.Token,
			ExpiresAt:   tokenExpiry(payload.Data.Token),
		}, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		message := "invalid username or password"
		var payload errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error.Message != "" {
			message = payload.Error.Message
		}
		return nil, &AuthError{Kind: KindInvalidCredentials, Message: message}

	default:
		return nil, &AuthError{
			Kind:    KindTransport,
			Message: fmt.Sprintf("authentication service error (status %d)", resp.StatusCode),
		}
	}
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// signing secret lives with the authority. A missing or unreadable claim
// yields a zero time, meaning no client-side expiry.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
