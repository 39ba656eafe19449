package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cv-helper/cv-helper-api/internal/models"
	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/tracing"
	"go.uber.org/zap"
)

// CoworkingService orchestrates one browser-driven portal call: acquire a
// session, authenticate, run exactly one domain operation, release. The
// release is deferred so it runs on every outcome path, including invalid
// credentials and structural failures mid-sequence.
type CoworkingService struct {
	sessions SessionFactory
	portal   CoworkingPortal
	shots    ScreenshotArchiver // optional, may be nil
}

func NewCoworkingService(sessions SessionFactory, portal CoworkingPortal, shots ScreenshotArchiver) *CoworkingService {
	return &CoworkingService{
		sessions: sessions,
		portal:   portal,
		shots:    shots,
	}
}

// BookDays books the requested day range and, when the caller opted in and at
// least one day was booked, chains invitation acceptance on the same session.
// Partial success is surfaced as a count, never collapsed into an error.
func (s *CoworkingService) BookDays(ctx context.Context, req *models.BookingRequest) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "CoworkingService.BookDays")
	defer span.End()

	sess, err := s.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer sess.Release()

	auth, err := s.portal.LogIn(ctx, sess, req.UserName, req.Password)
	if err != nil {
		s.archiveFailure(ctx, sess, "login")
		return "", err
	}
	if !auth.Authenticated {
		return "", errs.ErrInvalidCredentials
	}

	booked, err := s.portal.BookDays(ctx, sess, req.BranchCode, req.Start, req.NumDays, req.DurationMinutes)
	if err != nil {
		s.archiveFailure(ctx, sess, "booking")
		return "", err
	}

	if booked > 0 && req.AcceptBookings {
		accepted, err := s.portal.AcceptInvitations(ctx, sess, booked)
		if err != nil {
			s.archiveFailure(ctx, sess, "accept-invitations")
			return "", err
		}
		return fmt.Sprintf("%d days booked. %d invitations accepted.", booked, accepted), nil
	}

	return fmt.Sprintf("%d days booked. Those days invitations were not accepted.", booked), nil
}

// AcceptInvitations logs in and accepts up to numBookings pending invitations.
func (s *CoworkingService) AcceptInvitations(ctx context.Context, userName, password string, numBookings int) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "CoworkingService.AcceptInvitations")
	defer span.End()

	sess, err := s.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer sess.Release()

	auth, err := s.portal.LogIn(ctx, sess, userName, password)
	if err != nil {
		s.archiveFailure(ctx, sess, "login")
		return "", err
	}
	if !auth.Authenticated {
		return "", errs.ErrInvalidCredentials
	}

	accepted, err := s.portal.AcceptInvitations(ctx, sess, numBookings)
	if err != nil {
		s.archiveFailure(ctx, sess, "accept-invitations")
		return "", err
	}
	return fmt.Sprintf("%d invitations accepted.", accepted), nil
}

// GetMeetings logs in and scrapes the current meetings listing.
func (s *CoworkingService) GetMeetings(ctx context.Context, userName, password string) ([]models.Meeting, error) {
	ctx, span := tracing.StartSpan(ctx, "CoworkingService.GetMeetings")
	defer span.End()

	sess, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	auth, err := s.portal.LogIn(ctx, sess, userName, password)
	if err != nil {
		s.archiveFailure(ctx, sess, "login")
		return nil, err
	}
	if !auth.Authenticated {
		return nil, errs.ErrInvalidCredentials
	}

	meetings, err := s.portal.GetMeetings(ctx, sess)
	if err != nil {
		s.archiveFailure(ctx, sess, "meetings")
		return nil, err
	}
	return meetings, nil
}

// archiveFailure captures a screenshot of the failed page and uploads it.
// Archiving failures never affect the caller-visible outcome.
func (s *CoworkingService) archiveFailure(ctx context.Context, sess BrowserSession, step string) {
	if s.shots == nil {
		return
	}
	png, err := sess.Screenshot(ctx)
	if err != nil {
		logger.Warn("Failed to capture failure screenshot", zap.String("step", step), zap.Error(err))
		return
	}
	key := fmt.Sprintf("failures/%s-%d.png", step, time.Now().UnixMilli())
	if _, err := s.shots.Upload(ctx, key, png); err != nil {
		logger.Warn("Failed to upload failure screenshot", zap.String("step", step), zap.Error(err))
	}
}
