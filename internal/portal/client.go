package portal

import (
	"context"
	"time"

	"github.com/cv-helper/cv-helper-api/config"
	"github.com/cv-helper/cv-helper-api/internal/models"
)

// Client bundles the coworking portal flows behind one dependency.
type Client struct {
	auth     *Authenticator
	booker   *Booker
	acceptor *Acceptor
	meetings *MeetingReader
}

func NewClient(cfg config.CoworkingConfig) *Client {
	return &Client{
		auth:     NewAuthenticator(cfg.LoginURL()),
		booker:   NewBooker(cfg.BaseURL),
		acceptor: NewAcceptor(cfg.BaseURL),
		meetings: NewMeetingReader(cfg.BaseURL),
	}
}

func (c *Client) LogIn(ctx context.Context, drv Driver, userName, password string) (AuthResult, error) {
	return c.auth.LogIn(ctx, drv, userName, password)
}

func (c *Client) BookDays(ctx context.Context, drv Driver, branchCode string, start time.Time, numDays, durationMinutes int) (int, error) {
	return c.booker.BookDays(ctx, drv, branchCode, start, numDays, durationMinutes)
}

func (c *Client) AcceptInvitations(ctx context.Context, drv Driver, n int) (int, error) {
	return c.acceptor.AcceptInvitations(ctx, drv, n)
}

func (c *Client) GetMeetings(ctx context.Context, drv Driver) ([]models.Meeting, error) {
	return c.meetings.GetMeetings(ctx, drv)
}
