package services

import (
	"context"
	"time"

	"github.com/cv-helper/cv-helper-api/internal/bank"
	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/internal/portal"
)

// BrowserSession is one exclusively-owned browser + tab pair. Release must be
// safe to call on every exit path and idempotent.
type BrowserSession interface {
	portal.Driver
	Screenshot(ctx context.Context) ([]byte, error)
	Release()
}

// SessionFactory acquires a fresh session per orchestrated call; sessions are
// never reused across calls.
type SessionFactory interface {
	Acquire(ctx context.Context) (BrowserSession, error)
}

// CoworkingPortal bundles the browser-driven coworking flows.
type CoworkingPortal interface {
	LogIn(ctx context.Context, drv portal.Driver, userName, password string) (portal.AuthResult, error)
	BookDays(ctx context.Context, drv portal.Driver, branchCode string, start time.Time, numDays, durationMinutes int) (int, error)
	AcceptInvitations(ctx context.Context, drv portal.Driver, n int) (int, error)
	GetMeetings(ctx context.Context, drv portal.Driver) ([]models.Meeting, error)
}

// RateScraper fetches a conversion rate from the converter site.
type RateScraper interface {
	Scrape(ctx context.Context, drv portal.Driver, from, to, amount string) (string, error)
}

// BankRegistry resolves a bank name to its scraper.
type BankRegistry interface {
	Lookup(name string) bank.Scraper
}

// ScreenshotArchiver stores failure screenshots for later inspection.
type ScreenshotArchiver interface {
	Upload(ctx context.Context, key string, png []byte) (string, error)
}
