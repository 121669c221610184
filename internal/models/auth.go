package models

import "time"

// Credentials is the body of the login and register endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by the login and register endpoints.
type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresIn int64  `json:"expiresIn,omitempty"`
}

// Session is the persisted result of a successful login for one profile.
type Session struct {
	CreatedAt time.Time `json:"createdAt"`
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	APIURL    string    `json:"apiUrl,omitempty"`
	ExpiresIn int64     `json:"expiresIn,omitempty"`
}

// NewSession builds a session from a login response.
func NewSession(resp *LoginResponse, apiURL string, now time.Time) Session {
	return Session{
		Token:     resp.Token,
		Username:  resp.Username,
		APIURL:    apiURL,
		ExpiresIn: resp.ExpiresIn,
		CreatedAt: now,
	}
}

// ExpiresAt returns the advisory expiry reported at login, or the zero time
// when the backend did not report one. It is never enforced client-side.
func (s *Session) ExpiresAt() time.Time {
	if s.ExpiresIn <= 0 || s.CreatedAt.IsZero() {
		return time.Time{}
	}
	return s.CreatedAt.Add(time.Duration(s.ExpiresIn) * time.Second)
}
