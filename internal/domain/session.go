package domain

import "time"

// Session is the authenticated identity the console operates on behalf of.
// It exists iff a login succeeded and no logout has happened since.
type Session struct {
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Remember    bool      `json:"remember"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the session's token has passed its expiry.
// Sessions without an expiry claim never expire client-side.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}

// Credentials is the transient login input. It is never stored beyond the
// in-flight authentication call.
type Credentials struct {
	Username string `validate:"notblank"`
	Password string `validate:"notblank"`
	Remember bool
}

// FieldErrors maps a form field name to its inline validation message.
type FieldErrors map[string]string

// Clone returns a copy safe to hand to callers.
func (f FieldErrors) Clone() FieldErrors {
	if f == nil {
		return nil
	}
	out := make(FieldErrors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// FeedbackSeverity tags a transient notice.
type FeedbackSeverity string

const (
	FeedbackSuccess FeedbackSeverity = "success"
	FeedbackError   FeedbackSeverity = "error"
)

// Feedback is a transient notice shown after an operation. Visible flips to
// false when the notice is dismissed or its display duration elapses.
type Feedback struct {
	Message  string           `json:"message"`
	Severity FeedbackSeverity `json:"severity"`
	Visible  bool             `json:"visible"`
}
