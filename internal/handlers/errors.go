package handlers

import (
	"net/http"

	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

const invalidCredentialsMessage = "Username or Password is invalid."

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends a plain-text error body, matching the legacy clients'
// expectations, and attaches the error for the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.String(status, message)
}

// respondDomainError maps a domain operation failure onto the 401-based
// error surface: invalid portal credentials get the canonical message, any
// other failure passes its message through verbatim.
func respondDomainError(c *gin.Context, err error) {
	if errs.Is(err, errs.ErrInvalidCredentials) {
		respondError(c, http.StatusUnauthorized, invalidCredentialsMessage, err)
		return
	}
	respondError(c, http.StatusUnauthorized, err.Error(), err)
}
