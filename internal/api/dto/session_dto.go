package dto

import (
	"time"

	"github.com/spec-kit/station-console/internal/domain"
	"github.com/spec-kit/station-console/internal/loginform"
)

// LoginRequest payload for signing in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// SessionResponse describes the current identity for the shell header.
type SessionResponse struct {
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Remember    bool      `json:"remember"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// NewSessionResponse maps a domain session; nil in, nil out.
func NewSessionResponse(sess *domain.Session) *SessionResponse {
	if sess == nil {
		return nil
	}
	return &SessionResponse{
		Identifier:  sess.Identifier,
		DisplayName: sess.DisplayName,
		Email:       sess.Email,
		Role:        sess.Role,
		Remember:    sess.Remember,
		ExpiresAt:   sess.ExpiresAt,
	}
}

// FeedbackResponse mirrors a transient notice.
type FeedbackResponse struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Visible  bool   `json:"visible"`
}

// FormStateResponse is what the login page renders from.
type FormStateResponse struct {
	Username    string            `json:"username"`
	Remember    bool              `json:"remember"`
	Loading     bool              `json:"loading"`
	FieldErrors map[string]string `json:"field_errors"`
	Feedback    *FeedbackResponse `json:"feedback,omitempty"`
	NavigateTo  string            `json:"navigate_to,omitempty"`
}

// NewFormStateResponse maps a controller snapshot. The password never leaves
// the controller.
func NewFormStateResponse(state loginform.State, navigateTo string) FormStateResponse {
	resp := FormStateResponse{
		Username:    state.Username,
		Remember:    state.Remember,
		Loading:     state.Loading,
		FieldErrors: state.FieldErrors,
		NavigateTo:  navigateTo,
	}
	if state.Feedback != nil {
		resp.Feedback = &FeedbackResponse{
			Message:  state.Feedback.Message,
			Severity: string(state.Feedback.Severity),
			Visible:  state.Feedback.Visible,
		}
	}
	return resp
}

// MenuEntryResponse is one navigation item.
type MenuEntryResponse struct {
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}
