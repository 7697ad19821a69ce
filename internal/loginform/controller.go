package loginform

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/station-console/internal/authority"
	"github.com/spec-kit/station-console/internal/config"
	"github.com/spec-kit/station-console/internal/domain"
	"github.com/spec-kit/station-console/internal/session"
	"github.com/spec-kit/station-console/pkg/util"
)

// Form field names used in FieldErrors.
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// Navigator performs a view change. The console shell injects it.
type Navigator func(path string)

// LoginService is the slice of the session store the form drives.
type LoginService interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
}

// State is a render snapshot of the form.
type State struct {
	Username    string
	Password    string
	Remember    bool
	Loading     bool
	FieldErrors domain.FieldErrors
	Feedback    *domain.Feedback
}

// Controller owns the login form's field state, validation, and submission
// flow. One submission attempt runs Idle -> Validating -> (Invalid |
// Submitting) -> (Succeeded | Failed) -> Idle.
type Controller struct {
	mu       sync.Mutex
	sessions LoginService
	navigate Navigator
	validate *validator.Validate
	logger   *zap.Logger

	shellPath     string
	navigateDelay time.Duration
	feedbackTTL   time.Duration

	username    string
	password    string
	remember    bool
	loading     bool
	fieldErrors domain.FieldErrors
	feedback    *domain.Feedback

	submission    string
	navTimer      *time.Timer
	feedbackTimer *time.Timer
	closed        bool
}

// NewController builds the controller.
func NewController(sessions LoginService, navigate Navigator, cfg config.ConsoleConfig, logger *zap.Logger) *Controller {
	v := validator.New()
	_ = v.RegisterValidation("notblank", notBlank)

	return &Controller{
		sessions:      sessions,
		navigate:      navigate,
		validate:      v,
		logger:        logger,
		shellPath:     cfg.ShellPath,
		navigateDelay: cfg.NavigateDelay(),
		feedbackTTL:   cfg.FeedbackTTL(),
		remember:      true,
		fieldErrors:   domain.FieldErrors{},
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// SetUsername updates the field and clears only its own error.
func (c *Controller) SetUsername(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = value
	delete(c.fieldErrors, FieldUsername)
}

// SetPassword updates the field and clears only its own error.
func (c *Controller) SetPassword(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.password = value
	delete(c.fieldErrors, FieldPassword)
}

// SetRemember updates the remember flag.
func (c *Controller) SetRemember(value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remember = value
}

// State returns a render snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	var feedback *domain.Feedback
	if c.feedback != nil {
		copy := *c.feedback
		feedback = &copy
	}
	return State{
		Username:    c.username,
		Password:    c.password,
		Remember:    c.remember,
		Loading:     c.loading,
		FieldErrors: c.fieldErrors.Clone(),
		Feedback:    feedback,
	}
}

// DismissFeedback hides the current notice.
func (c *Controller) DismissFeedback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.feedback != nil {
		c.feedback.Visible = false
	}
}

// Submit runs one submission attempt with the current field values.
//
// Blank fields never reach the session store: they set FieldErrors and return
// a validation error. Otherwise the attempt submits, and on success a
// navigation to the shell is scheduled after the configured delay. Submitting
// while an attempt is already in flight is ignored.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.loading {
		c.mu.Unlock()
		return nil
	}

	creds := domain.Credentials{
		Username: c.username,
		Password: c.password,
		Remember: c.remember,
	}

	if fieldErrors := c.validateCredentials(creds); len(fieldErrors) > 0 {
		c.fieldErrors = fieldErrors
		c.mu.Unlock()

		details := make(map[string]any, len(fieldErrors))
		for field, message := range fieldErrors {
			details[field] = message
		}
		return util.NewValidationFailed("validation failed", details)
	}

	c.fieldErrors = domain.FieldErrors{}
	c.loading = true
	token := uuid.NewString()
	c.submission = token
	c.mu.Unlock()

	sess, err := c.sessions.Login(ctx, creds)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submission != token {
		// Torn down while in flight; nothing left to update.
		return nil
	}
	c.submission = ""
	c.loading = false

	if errors.Is(err, session.ErrSuperseded) {
		return nil
	}
	if err != nil {
		message := "sign-in failed"
		var authErr *authority.AuthError
		if errors.As(err, &authErr) {
			message = authErr.Message
		}
		c.logger.Warn("sign-in failed", zap.String("username", creds.Username), zap.Error(err))
		c.setFeedbackLocked(message, domain.FeedbackError)
		return err
	}

	c.logger.Info("sign-in succeeded", zap.String("identifier", sess.Identifier))
	c.setFeedbackLocked("signed in", domain.FeedbackSuccess)
	c.scheduleNavigationLocked()
	return nil
}

// Close tears the controller down, cancelling any pending deferred
// navigation and feedback dismissal. No navigation fires afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.submission = ""
	if c.navTimer != nil {
		c.navTimer.Stop()
		c.navTimer = nil
	}
	if c.feedbackTimer != nil {
		c.feedbackTimer.Stop()
		c.feedbackTimer = nil
	}
}

func (c *Controller) validateCredentials(creds domain.Credentials) domain.FieldErrors {
	err := c.validate.Struct(creds)
	if err == nil {
		return nil
	}

	fieldErrors := domain.FieldErrors{}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fieldErrors[FieldUsername] = "username is required"
		fieldErrors[FieldPassword] = "password is required"
		return fieldErrors
	}
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		fieldErrors[field] = field + " is required"
	}
	return fieldErrors
}

func (c *Controller) setFeedbackLocked(message string, severity domain.FeedbackSeverity) {
	if c.feedbackTimer != nil {
		c.feedbackTimer.Stop()
	}

	feedback := &domain.Feedback{Message: message, Severity: severity, Visible: true}
	c.feedback = feedback
	c.feedbackTimer = time.AfterFunc(c.feedbackTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.feedback == feedback {
			c.feedback.Visible = false
		}
	})
}

func (c *Controller) scheduleNavigationLocked() {
	if c.navTimer != nil {
		c.navTimer.Stop()
	}
	c.navTimer = time.AfterFunc(c.navigateDelay, func() {
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if !closed {
			c.navigate(c.shellPath)
		}
	})
}
