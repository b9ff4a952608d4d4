package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession      = errors.New("not logged in")
	ErrSessionExpired = errors.New("session expired")
)

// Session is the authenticated identity handed to components that talk to
// the remote API. It is created at login and restored from the token store.
type Session struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type tokenClaims struct {
	UserID any    `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// NewSession builds a session and, when the token is a JWT, copies its
// expiry. The signature is not checked: the server is the verifier.
func NewSession(userID, email, name, token string) *Session {
	s := &Session{
		UserID: userID,
		Email:  email,
		Name:   name,
		Token:  token,
	}

	if token == "" {
		return s
	}

	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if claims.ExpiresAt != nil {
			exp := claims.ExpiresAt.Time
			s.ExpiresAt = &exp
		}
	}

	return s
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Validate reports whether the session can be used for authenticated calls.
func (s *Session) Validate(now time.Time) error {
	if s == nil || s.UserID == "" {
		return ErrNoSession
	}
	if s.Expired(now) {
		return ErrSessionExpired
	}
	return nil
}

// Authorization returns the header value, or "" when there is no token.
func (s *Session) Authorization() string {
	if s == nil || s.Token == "" {
		return ""
	}
	return BearerHeader(s.Token)
}
