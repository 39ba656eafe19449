package services

import (
	"context"
	"testing"
	"time"

	"github.com/cv-helper/cv-helper-api/internal/models"
	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRequest(numDays int, accept bool) *models.BookingRequest {
	return &models.BookingRequest{
		UserName:        "user@example.com",
		Password:        "secret",
		BranchCode:      "praia",
		Start:           time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		NumDays:         numDays,
		DurationMinutes: 60,
		AcceptBookings:  accept,
	}
}

func TestBookDays_BooksAndAcceptsWhenOptedIn(t *testing.T) {
	// Setup
	sess := &fakeSession{}
	factory := &fakeFactory{session: sess}
	p := &fakePortal{authenticated: true, booked: 3, accepted: 3}
	svc := NewCoworkingService(factory, p, nil)

	// Execute
	msg, err := svc.BookDays(context.Background(), bookingRequest(3, true))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "3 days booked. 3 invitations accepted.", msg)
	assert.Equal(t, []int{3}, p.acceptedCalls, "acceptance should target the booked count")
	assert.Equal(t, 1, sess.releases, "session must be released exactly once")
}

func TestBookDays_SkipsAcceptanceWithoutOptIn(t *testing.T) {
	sess := &fakeSession{}
	factory := &fakeFactory{session: sess}
	p := &fakePortal{authenticated: true, booked: 2}
	svc := NewCoworkingService(factory, p, nil)

	msg, err := svc.BookDays(context.Background(), bookingRequest(2, false))

	require.NoError(t, err)
	assert.Equal(t, "2 days booked. Those days invitations were not accepted.", msg)
	assert.Empty(t, p.acceptedCalls)
	assert.Equal(t, 1, sess.releases)
}

func TestBookDays_SkipsAcceptanceWhenNothingWasBooked(t *testing.T) {
	sess := &fakeSession{}
	factory := &fakeFactory{session: sess}
	p := &fakePortal{authenticated: true, booked: 0}
	svc := NewCoworkingService(factory, p, nil)

	msg, err := svc.BookDays(context.Background(), bookingRequest(3, true))

	require.NoError(t, err)
	assert.Equal(t, "0 days booked. Those days invitations were not accepted.", msg)
	assert.Empty(t, p.acceptedCalls, "acceptance must not run when zero days were booked")
	assert.Equal(t, 1, sess.releases)
}

func TestBookDays_InvalidCredentials(t *testing.T) {
	sess := &fakeSession{}
	factory := &fakeFactory{session: sess}
	p := &fakePortal{authenticated: false}
	svc := NewCoworkingService(factory, p, nil)

	_, err := svc.BookDays(context.Background(), bookingRequest(3, true))

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrInvalidCredentials))
	assert.Equal(t, 1, sess.releases, "session must be released on the rejection path")
}

func TestBookDays_ReleasesSessionOnBookingFailure(t *testing.T) {
	sess := &fakeSession{}
	factory := &fakeFactory{session: sess}
	p := &fakePortal{authenticated: true, bookErr: errs.PortalError("open booking page", errBoom)}
	svc := NewCoworkingService(factory, p, nil)

	_, err := svc.BookDays(context.Background(), bookingRequest(3, true))

	require.Error(t, err)
	assert.Equal(t, 1, sess.releases)
}

func TestBookDays_AcquireFailureSurfaces(t *testing.T) {
	factory := &fakeFactory{acquireErr: errs.PortalError("launch browser", errBoom)}
	svc := NewCoworkingService(factory, &fakePortal{}, nil)

	_, err := svc.BookDays(context.Background(), bookingRequest(1, false))

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrPortalUnavailable))
}

func TestBookDays_ArchivesScreenshotOnLoginFailure(t *testing.T) {
	sess := &fakeSession{}
	factory := &fakeFactory{session: sess}
	p := &fakePortal{loginErr: errs.PortalError("wait for login form", errBoom)}
	shots := &fakeArchiver{}
	svc := NewCoworkingService(factory, p, shots)

	_, err := svc.BookDays(context.Background(), bookingRequest(1, false))

	require.Error(t, err)
	assert.Equal(t, 1, sess.screenshots)
	require.Len(t, shots.keys, 1)
	assert.Contains(t, shots.keys[0], "failures/login-")
	assert.Equal(t, 1, sess.releases)
}

func TestAcceptInvitations_Succeeds(t *testing.T) {
	sess := &fakeSession{}
	factory := &fakeFactory{session: sess}
	p := &fakePortal{authenticated: true, accepted: 2}
	svc := NewCoworkingService(factory, p, nil)

	msg, err := svc.AcceptInvitations(context.Background(), "user@example.com", "secret", 2)

	require.NoError(t, err)
	assert.Equal(t, "2 invitations accepted.", msg)
	assert.Equal(t, []int{2}, p.acceptedCalls)
	assert.Equal(t, 1, sess.releases)
}

func TestAcceptInvitations_InvalidCredentials(t *testing.T) {
	sess := &fakeSession{}
	factory := &fakeFactory{session: sess}
	p := &fakePortal{authenticated: false}
	svc := NewCoworkingService(factory, p, nil)

	_, err := svc.AcceptInvitations(context.Background(), "user@example.com", "wrong", 2)

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrInvalidCredentials))
	assert.Equal(t, 1, sess.releases)
}

func TestGetMeetings_ReturnsScrapedList(t *testing.T) {
	sess := &fakeSession{}
	factory := &fakeFactory{session: sess}
	p := &fakePortal{
		authenticated: true,
		meetings: []models.Meeting{
			{Subject: "Standup", Attendee: "Ana", Time: "2024-03-10 09:00"},
		},
	}
	svc := NewCoworkingService(factory, p, nil)

	meetings, err := svc.GetMeetings(context.Background(), "user@example.com", "secret")

	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "Standup", meetings[0].Subject)
	assert.Equal(t, 1, sess.releases)
}
