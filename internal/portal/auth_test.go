package portal

import (
	"context"
	"errors"
	"testing"

	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLoginURL = "https://coworking.example.com/web/login"

func TestLogIn_Authenticated(t *testing.T) {
	// Setup
	drv := newFakeDriver()
	drv.location = "https://coworking.example.com/web/home"
	auth := NewAuthenticator(testLoginURL)

	// Execute
	result, err := auth.LogIn(context.Background(), drv, "user@example.com", "secret")

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Authenticated)
	assert.Equal(t, "https://coworking.example.com/web/home", result.LandingURL)
	assert.Equal(t, []string{testLoginURL}, drv.navigations)
	assert.Equal(t, "user@example.com", drv.typedValue(selLoginField))
	assert.Equal(t, "secret", drv.typedValue(selPasswordField))
	assert.Equal(t, []string{selLoginSubmit}, drv.clicks)
}

func TestLogIn_RejectedWhenLandingBackOnLoginPage(t *testing.T) {
	drv := newFakeDriver()
	// The portal redirects back with an error marker in the query string
	drv.location = testLoginURL + "?oops=credentials"
	auth := NewAuthenticator(testLoginURL)

	result, err := auth.LogIn(context.Background(), drv, "user@example.com", "wrong")

	require.NoError(t, err)
	assert.False(t, result.Authenticated)
}

func TestLogIn_RejectedWithTrailingSlash(t *testing.T) {
	drv := newFakeDriver()
	drv.location = testLoginURL + "/"
	auth := NewAuthenticator(testLoginURL)

	result, err := auth.LogIn(context.Background(), drv, "user@example.com", "wrong")

	require.NoError(t, err)
	assert.False(t, result.Authenticated)
}

func TestLogIn_NavigateFailureIsStructural(t *testing.T) {
	drv := newFakeDriver()
	drv.failNavigate[testLoginURL] = errors.New("net::ERR_CONNECTION_REFUSED")
	auth := NewAuthenticator(testLoginURL)

	_, err := auth.LogIn(context.Background(), drv, "user@example.com", "secret")

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrPortalUnavailable))
}

func TestLogIn_MissingLoginFormIsStructural(t *testing.T) {
	drv := newFakeDriver()
	drv.failWait[selLoginField] = errors.New("timeout")
	auth := NewAuthenticator(testLoginURL)

	_, err := auth.LogIn(context.Background(), drv, "user@example.com", "secret")

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrPortalUnavailable))
}

func TestSameURL(t *testing.T) {
	assert.True(t, sameURL("https://a.example/login", "https://a.example/login"))
	assert.True(t, sameURL("https://a.example/login/", "https://a.example/login"))
	assert.True(t, sameURL("https://a.example/login?err=1", "https://a.example/login"))
	assert.True(t, sameURL("https://a.example/login#top", "https://a.example/login"))
	assert.False(t, sameURL("https://a.example/home", "https://a.example/login"))
}
