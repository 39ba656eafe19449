package handlers

import (
	"context"
	"time"

	"github.com/cv-helper/cv-helper-api/internal/bank"
	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/internal/portal"
	"github.com/cv-helper/cv-helper-api/internal/services"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// The handler tests run the real orchestrators over scripted portal fakes so
// a request exercises the whole path below the router.

type fakeSession struct{ releases int }

func (s *fakeSession) Navigate(context.Context, string) error            { return nil }
func (s *fakeSession) WaitVisible(context.Context, string) error         { return nil }
func (s *fakeSession) Click(context.Context, string) error               { return nil }
func (s *fakeSession) SendKeys(context.Context, string, string) error    { return nil }
func (s *fakeSession) Clear(context.Context, string) error               { return nil }
func (s *fakeSession) Text(context.Context, string) (string, error)      { return "", nil }
func (s *fakeSession) Location(context.Context) (string, error)          { return "", nil }
func (s *fakeSession) OuterHTML(context.Context) (string, error)         { return "", nil }
func (s *fakeSession) EvaluateString(context.Context, string) (string, error) {
	return "", nil
}
func (s *fakeSession) Screenshot(context.Context) ([]byte, error) { return nil, nil }
func (s *fakeSession) Release()                                   { s.releases++ }

type fakeFactory struct {
	session  *fakeSession
	acquired int
}

func (f *fakeFactory) Acquire(context.Context) (services.BrowserSession, error) {
	f.acquired++
	return f.session, nil
}

type fakePortal struct {
	authenticated bool
	booked        int
	accepted      int
	meetings      []models.Meeting
}

func (p *fakePortal) LogIn(context.Context, portal.Driver, string, string) (portal.AuthResult, error) {
	return portal.AuthResult{Authenticated: p.authenticated}, nil
}

func (p *fakePortal) BookDays(context.Context, portal.Driver, string, time.Time, int, int) (int, error) {
	return p.booked, nil
}

func (p *fakePortal) AcceptInvitations(context.Context, portal.Driver, int) (int, error) {
	return p.accepted, nil
}

func (p *fakePortal) GetMeetings(context.Context, portal.Driver) ([]models.Meeting, error) {
	return p.meetings, nil
}

type fakeRateScraper struct {
	result  string
	scrapes int
}

func (s *fakeRateScraper) Scrape(context.Context, portal.Driver, string, string, string) (string, error) {
	s.scrapes++
	return s.result, nil
}

type fakeBankScraper struct {
	assets *models.BankAssets
}

func (s *fakeBankScraper) Name() string { return s.assets.Bank }

func (s *fakeBankScraper) Assets(context.Context, portal.Driver, string, string) (*models.BankAssets, error) {
	return s.assets, nil
}

func meetingFixture() []models.Meeting {
	return []models.Meeting{
		{Subject: "Standup", Attendee: "Ana", Time: "2024-03-10 09:00"},
	}
}

type fakeBankRegistry struct {
	scraper *fakeBankScraper
	lookups []string
}

func (r *fakeBankRegistry) Lookup(name string) bank.Scraper {
	r.lookups = append(r.lookups, name)
	return r.scraper
}
