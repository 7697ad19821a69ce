package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/station-console/internal/api/dto"
	"github.com/spec-kit/station-console/internal/authority"
	"github.com/spec-kit/station-console/internal/loginform"
	"github.com/spec-kit/station-console/internal/nav"
	"github.com/spec-kit/station-console/internal/observability"
	"github.com/spec-kit/station-console/internal/session"
	"github.com/spec-kit/station-console/pkg/util"
)

// SessionHandler exposes the session lifecycle and login form state.
type SessionHandler struct {
	form      *loginform.Controller
	store     *session.Store
	intent    *nav.Intent
	metrics   *observability.Metrics
	loginPath string
}

// NewSessionHandler constructs handler.
func NewSessionHandler(form *loginform.Controller, store *session.Store, intent *nav.Intent, metrics *observability.Metrics, loginPath string) *SessionHandler {
	return &SessionHandler{form: form, store: store, intent: intent, metrics: metrics, loginPath: loginPath}
}

// Login handles POST /api/v1/session.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewDomainError("INVALID_PAYLOAD", "invalid payload", http.StatusBadRequest, nil)
	}

	h.form.SetUsername(req.Username)
	h.form.SetPassword(req.Password)
	h.form.SetRemember(req.Remember)

	err := h.form.Submit(c.Context())
	if err != nil {
		var authErr *authority.AuthError
		if errors.As(err, &authErr) {
			if authErr.Kind == authority.KindInvalidCredentials {
				h.metrics.RecordLogin("invalid")
				return util.NewAuthRejected(authErr.Message)
			}
			h.metrics.RecordLogin("unreachable")
			return util.NewAuthUnreachable(authErr.Message)
		}
		var domainErr *util.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "VALIDATION_FAILED" {
			h.metrics.RecordLogin("rejected")
		}
		return err
	}

	h.metrics.RecordLogin("success")
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"session": dto.NewSessionResponse(h.store.Current()),
			"form":    dto.NewFormStateResponse(h.form.State(), ""),
		},
	})
}

// Current handles GET /api/v1/session.
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	sess := h.store.Current()
	if sess == nil {
		return util.NewUnauthorized("no active session", map[string]any{
			"redirect": h.loginPath,
		})
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(sess)})
}

// Logout handles DELETE /api/v1/session. Logging out without a session is
// still a success.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.store.Logout(c.Context()); err != nil {
		return util.MapError(err)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"redirect": h.loginPath},
	})
}

// FormState handles GET /api/v1/login-form. A pending deferred navigation is
// delivered once and cleared.
func (h *SessionHandler) FormState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": dto.NewFormStateResponse(h.form.State(), h.intent.Take()),
	})
}

// DismissFeedback handles DELETE /api/v1/login-form/feedback.
func (h *SessionHandler) DismissFeedback(c *fiber.Ctx) error {
	h.form.DismissFeedback()
	return c.JSON(fiber.Map{
		"data": dto.NewFormStateResponse(h.form.State(), ""),
	})
}
