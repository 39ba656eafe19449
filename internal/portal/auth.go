package portal

import (
	"context"
	"strings"

	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
	"go.uber.org/zap"
)

// The coworking portal runs on a stock web login form. These selectors are the
// brittle part of the integration; keep them in one place.
const (
	selLoginField    = `input[name="login"]`
	selPasswordField = `input[name="password"]`
	selLoginSubmit   = `button[type="submit"]`
)

// AuthResult reports how a login attempt landed.
type AuthResult struct {
	Authenticated bool
	LandingURL    string
}

// Authenticator drives the portal's login form. The portal answers 200 on
// both good and bad credentials, so the only rejection signal is the browser
// landing back on the login page after submit.
type Authenticator struct {
	loginURL string
}

func NewAuthenticator(loginURL string) *Authenticator {
	return &Authenticator{loginURL: loginURL}
}

// LogIn navigates to the login page, submits the credentials and inspects
// where the browser ended up. The post-submit wait has no deadline on
// purpose: the portal's own load event is the only bound, so a hung portal
// suspends the call rather than producing a spurious rejection.
func (a *Authenticator) LogIn(ctx context.Context, drv Driver, userName, password string) (AuthResult, error) {
	if err := drv.Navigate(ctx, a.loginURL); err != nil {
		metrics.PortalLoginTotal.WithLabelValues("error").Inc()
		return AuthResult{}, errs.PortalError("open login page", err)
	}
	if err := drv.WaitVisible(ctx, selLoginField); err != nil {
		metrics.PortalLoginTotal.WithLabelValues("error").Inc()
		return AuthResult{}, errs.PortalError("wait for login form", err)
	}
	if err := drv.SendKeys(ctx, selLoginField, userName); err != nil {
		metrics.PortalLoginTotal.WithLabelValues("error").Inc()
		return AuthResult{}, errs.PortalError("fill user name", err)
	}
	if err := drv.SendKeys(ctx, selPasswordField, password); err != nil {
		metrics.PortalLoginTotal.WithLabelValues("error").Inc()
		return AuthResult{}, errs.PortalError("fill password", err)
	}
	if err := drv.Click(ctx, selLoginSubmit); err != nil {
		metrics.PortalLoginTotal.WithLabelValues("error").Inc()
		return AuthResult{}, errs.PortalError("submit login form", err)
	}

	landing, err := drv.Location(ctx)
	if err != nil {
		metrics.PortalLoginTotal.WithLabelValues("error").Inc()
		return AuthResult{}, errs.PortalError("read landing url", err)
	}

	if sameURL(landing, a.loginURL) {
		metrics.PortalLoginTotal.WithLabelValues("rejected").Inc()
		logger.Warn("Portal rejected credentials", zap.String("user", userName))
		return AuthResult{Authenticated: false, LandingURL: landing}, nil
	}

	metrics.PortalLoginTotal.WithLabelValues("ok").Inc()
	logger.Info("Logged in to portal", zap.String("user", userName))
	return AuthResult{Authenticated: true, LandingURL: landing}, nil
}

func sameURL(a, b string) bool {
	trim := func(s string) string {
		if i := strings.IndexAny(s, "?#"); i >= 0 {
			s = s[:i]
		}
		return strings.TrimSuffix(s, "/")
	}
	return trim(a) == trim(b)
}
