package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cv-helper/cv-helper-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func coworkingRouter(p *fakePortal, factory *fakeFactory) *gin.Engine {
	svc := services.NewCoworkingService(factory, p, nil)
	h := NewCoworkingHandler(svc)

	router := gin.New()
	router.GET("/coworking/book", h.Book)
	router.GET("/coworking/accept-invitations", h.AcceptInvitations)
	router.GET("/coworking/meetings", h.Meetings)
	return router
}

func TestBook_Succeeds(t *testing.T) {
	// Setup
	factory := &fakeFactory{session: &fakeSession{}}
	router := coworkingRouter(&fakePortal{authenticated: true, booked: 2, accepted: 2}, factory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/coworking/book?userName=u&password=p&numDays=2&timeStamp=1710061200000&acceptBookings=true", nil)

	// Execute
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2 days booked. 2 invitations accepted.", w.Body.String())
	assert.Equal(t, 1, factory.session.releases, "session released exactly once")
}

func TestBook_WithoutAcceptance(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}
	router := coworkingRouter(&fakePortal{authenticated: true, booked: 1}, factory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/coworking/book?userName=u&password=p&numDays=1&timeStamp=1710061200000", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1 days booked. Those days invitations were not accepted.", w.Body.String())
}

func TestBook_MissingCredentials(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}
	router := coworkingRouter(&fakePortal{}, factory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/coworking/book?numDays=2&timeStamp=1710061200000", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Username or Password is missing.", w.Body.String())
	assert.Zero(t, factory.acquired, "no browser may be launched for an invalid request")
}

func TestBook_NumDaysOutOfRange(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}
	router := coworkingRouter(&fakePortal{}, factory)

	for _, numDays := range []string{"0", "31", "-2", "abc", ""} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET",
			"/coworking/book?userName=u&password=p&timeStamp=1710061200000&numDays="+numDays, nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "numDays=%s", numDays)
		assert.Equal(t, "The number of days has to be between 1 and 30.", w.Body.String())
	}
	assert.Zero(t, factory.acquired)
}

func TestBook_InvalidCredentials(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}
	router := coworkingRouter(&fakePortal{authenticated: false}, factory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/coworking/book?userName=u&password=wrong&numDays=2&timeStamp=1710061200000", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Username or Password is invalid.", w.Body.String())
}

func TestAcceptInvitations_Succeeds(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}
	router := coworkingRouter(&fakePortal{authenticated: true, accepted: 3}, factory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/coworking/accept-invitations?userName=u&password=p&numBookings=3", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3 invitations accepted.", w.Body.String())
}

func TestAcceptInvitations_NumBookingsMustBePositive(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}
	router := coworkingRouter(&fakePortal{}, factory)

	for _, numBookings := range []string{"0", "-1", "abc", ""} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET",
			"/coworking/accept-invitations?userName=u&password=p&numBookings="+numBookings, nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "numBookings=%s", numBookings)
		assert.Equal(t, "The number of bookings has to be greater than 0.", w.Body.String())
	}
	assert.Zero(t, factory.acquired)
}

func TestMeetings_ReturnsJSONList(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}
	p := &fakePortal{authenticated: true}
	p.meetings = append(p.meetings, meetingFixture()...)
	router := coworkingRouter(p, factory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/coworking/meetings?userName=u&password=p", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"subject":"Standup","attendee":"Ana","time":"2024-03-10 09:00"}]`, w.Body.String())
}
