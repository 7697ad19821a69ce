package nav

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/station-console/internal/domain"
	"github.com/spec-kit/station-console/internal/observability"
	"github.com/spec-kit/station-console/pkg/util"
)

// SessionReader is the store query the guard consumes. It must reflect the
// latest login or logout at every call; the guard keeps no cached verdict.
type SessionReader func() *domain.Session

// Decision is the guard's verdict for one view evaluation.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Guard gates protected views on session presence. The protected path set
// and the login route are injected configuration, not a hardcoded list.
type Guard struct {
	current   SessionReader
	loginPath string
	protected map[string]struct{}
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewGuard builds a guard over the given protected view paths.
func NewGuard(current SessionReader, loginPath string, protectedPaths []string, metrics *observability.Metrics, logger *zap.Logger) *Guard {
	protected := make(map[string]struct{}, len(protectedPaths))
	for _, path := range protectedPaths {
		protected[path] = struct{}{}
	}
	return &Guard{
		current:   current,
		loginPath: loginPath,
		protected: protected,
		metrics:   metrics,
		logger:    logger,
	}
}

// Check evaluates one view entry. Unprotected paths always pass; protected
// paths pass only with a session present, otherwise the decision redirects
// to the login route and the view must render nothing.
func (g *Guard) Check(path string) Decision {
	if _, ok := g.protected[path]; !ok {
		return Decision{Allowed: true}
	}
	if g.current() == nil {
		g.metrics.RecordGuardRedirect()
		g.logger.Info("guard redirect", zap.String("path", path))
		return Decision{Allowed: false, RedirectTo: g.loginPath}
	}
	return Decision{Allowed: true}
}

// Handler is the transport integration point: every route registered behind
// it is a protected view, rejected before its handler runs when no session
// exists. The response carries the login route as the redirect target.
func (g *Guard) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if g.current() == nil {
			g.metrics.RecordGuardRedirect()
			g.logger.Info("guard redirect", zap.String("path", c.Path()))
			return util.NewUnauthorized("sign-in required", map[string]any{
				"redirect": g.loginPath,
			})
		}
		return c.Next()
	}
}
