package services

import (
	"context"
	"errors"
	"time"

	"github.com/cv-helper/cv-helper-api/internal/bank"
	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/internal/portal"
)

// fakeSession counts releases so tests can assert the session lifecycle. The
// driver methods are inert; portal behavior is scripted on fakePortal instead.
type fakeSession struct {
	releases    int
	screenshots int
}

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

func (s *fakeSession) Screenshot(context.Context) ([]byte, error) {
	s.screenshots++
	return []byte("png"), nil
}

func (s *fakeSession) Release() { s.releases++ }

type fakeFactory struct {
	session    *fakeSession
	acquireErr error
	acquired   int
}

func (f *fakeFactory) Acquire(context.Context) (BrowserSession, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired++
	return f.session, nil
}

// fakePortal scripts the coworking flows.
type fakePortal struct {
	authenticated bool
	loginErr      error

	booked  int
	bookErr error

	accepted      int
	acceptErr     error
	acceptedCalls []int

	meetings    []models.Meeting
	meetingsErr error

	logins int
}

func (p *fakePortal) LogIn(context.Context, portal.Driver, string, string) (portal.AuthResult, error) {
	p.logins++
	if p.loginErr != nil {
		return portal.AuthResult{}, p.loginErr
	}
	return portal.AuthResult{Authenticated: p.authenticated}, nil
}

func (p *fakePortal) BookDays(context.Context, portal.Driver, string, time.Time, int, int) (int, error) {
	return p.booked, p.bookErr
}

func (p *fakePortal) AcceptInvitations(_ context.Context, _ portal.Driver, n int) (int, error) {
	p.acceptedCalls = append(p.acceptedCalls, n)
	if p.acceptErr != nil {
		return 0, p.acceptErr
	}
	return p.accepted, nil
}

func (p *fakePortal) GetMeetings(context.Context, portal.Driver) ([]models.Meeting, error) {
	return p.meetings, p.meetingsErr
}

type fakeRateScraper struct {
	result  string
	err     error
	scrapes int
}

func (s *fakeRateScraper) Scrape(_ context.Context, _ portal.Driver, from, to, amount string) (string, error) {
	s.scrapes++
	return s.result, s.err
}

type fakeArchiver struct {
	keys []string
	err  error
}

func (a *fakeArchiver) Upload(_ context.Context, key string, _ []byte) (string, error) {
	a.keys = append(a.keys, key)
	if a.err != nil {
		return "", a.err
	}
	return "https://storage.example.com/" + key, nil
}

type fakeBankScraper struct {
	name   string
	assets *models.BankAssets
	err    error
	users  []string
}

func (s *fakeBankScraper) Name() string { return s.name }

func (s *fakeBankScraper) Assets(_ context.Context, _ portal.Driver, userName, _ string) (*models.BankAssets, error) {
	s.users = append(s.users, userName)
	return s.assets, s.err
}

type fakeBankRegistry struct {
	scraper *fakeBankScraper
	lookups []string
}

func (r *fakeBankRegistry) Lookup(name string) bank.Scraper {
	r.lookups = append(r.lookups, name)
	return r.scraper
}

var errBoom = errors.New("boom")
