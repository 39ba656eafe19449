package services

import (
	"context"
	"strings"

	"github.com/cv-helper/cv-helper-api/internal/cache"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/tracing"
	"go.uber.org/zap"
)

// ConversionService answers currency conversions from the cache and falls
// back to a browser scrape on miss or staleness.
type ConversionService struct {
	cache    *cache.ConversionCache
	sessions SessionFactory
	scraper  RateScraper
}

func NewConversionService(cache *cache.ConversionCache, sessions SessionFactory, scraper RateScraper) *ConversionService {
	return &ConversionService{
		cache:    cache,
		sessions: sessions,
		scraper:  scraper,
	}
}

// Convert returns the rate for (from, to). A fresh cached entry in either
// direction answers without touching the browser; otherwise the converter is
// scraped for the exact (from, to, amount) triple and the entry overwritten.
func (s *ConversionService) Convert(ctx context.Context, from, to, amount string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "ConversionService.Convert")
	defer span.End()

	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if rate, ok := s.cache.Lookup(from, to); ok {
		return rate, nil
	}

	sess, err := s.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer sess.Release()

	result, err := s.scraper.Scrape(ctx, sess, from, to, amount)
	if err != nil {
		return "", err
	}

	// Persistence is a side effect of the scrape; a failed write must not
	// hide the freshly scraped rate from the caller.
	if err := s.cache.Put(from, to, result); err != nil {
		logger.Warn("Failed to persist conversion rate",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err),
		)
	}
	return result, nil
}
