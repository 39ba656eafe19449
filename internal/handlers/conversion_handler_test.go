package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cv-helper/cv-helper-api/internal/cache"
	"github.com/cv-helper/cv-helper-api/internal/services"
	"github.com/cv-helper/cv-helper-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conversionRouter(t *testing.T, scraper *fakeRateScraper, factory *fakeFactory) (*gin.Engine, *cache.ConversionCache) {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	c := cache.NewConversionCache(store, 10*time.Minute, nil)
	h := NewConversionHandler(services.NewConversionService(c, factory, scraper))

	router := gin.New()
	router.GET("/convert", h.Convert)
	return router, c
}

func TestConvert_ScrapesOnMiss(t *testing.T) {
	scraper := &fakeRateScraper{result: "0.90"}
	factory := &fakeFactory{session: &fakeSession{}}
	router, _ := conversionRouter(t, scraper, factory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/convert?from=USD&to=EUR&amount=1", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.90", w.Body.String())
	assert.Equal(t, 1, scraper.scrapes)
}

func TestConvert_AnswersFromCache(t *testing.T) {
	scraper := &fakeRateScraper{result: "0.95"}
	factory := &fakeFactory{session: &fakeSession{}}
	router, c := conversionRouter(t, scraper, factory)
	require.NoError(t, c.Put("USD", "EUR", "0.90"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/convert?from=usd&to=eur", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.90", w.Body.String())
	assert.Zero(t, scraper.scrapes)
	assert.Zero(t, factory.acquired)
}

func TestConvert_DefaultsAmountToOne(t *testing.T) {
	scraper := &fakeRateScraper{result: "0.90"}
	factory := &fakeFactory{session: &fakeSession{}}
	router, _ := conversionRouter(t, scraper, factory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/convert?from=USD&to=EUR", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, scraper.scrapes)
}

func TestConvert_RejectsInvalidCurrencyCodes(t *testing.T) {
	scraper := &fakeRateScraper{result: "0.90"}
	factory := &fakeFactory{session: &fakeSession{}}
	router, _ := conversionRouter(t, scraper, factory)

	cases := []string{
		"/convert?to=EUR",             // missing from
		"/convert?from=USD",           // missing to
		"/convert?from=US&to=EUR",     // too short
		"/convert?from=USDX&to=EUR",   // too long
		"/convert?from=U5D&to=EUR",    // not alphabetic
		"/convert?from=USD&to=EUR%20", // trailing whitespace
	}
	for _, target := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", target, nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "target=%s", target)
	}
	assert.Zero(t, scraper.scrapes, "invalid codes must never reach the browser")
}
