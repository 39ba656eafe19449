package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cv-helper/cv-helper-api/internal/models"
	"github.com/cv-helper/cv-helper-api/internal/services"
	"github.com/gin-gonic/gin"
)

const defaultMeetingMinutes = 60

type CoworkingHandler struct {
	service *services.CoworkingService
}

func NewCoworkingHandler(service *services.CoworkingService) *CoworkingHandler {
	return &CoworkingHandler{service: service}
}

// Book validates the request range before any browser is launched, then runs
// the booking orchestration and answers with the legacy plain-text summary.
func (h *CoworkingHandler) Book(c *gin.Context) {
	userName := c.Query("userName")
	password := c.Query("password")
	if userName == "" || password == "" {
		respondError(c, http.StatusUnauthorized, "Username or Password is missing.", nil)
		return
	}

	numDays, err := strconv.Atoi(c.Query("numDays"))
	if err != nil || numDays < models.MinBookingDays || numDays > models.MaxBookingDays {
		respondError(c, http.StatusUnauthorized, "The number of days has to be between 1 and 30.", err)
		return
	}

	timeStampMS, err := strconv.ParseInt(c.Query("timeStamp"), 10, 64)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "The start timestamp is invalid.", err)
		return
	}

	numMinutes := defaultMeetingMinutes
	if raw := c.Query("numMinutes"); raw != "" {
		numMinutes, err = strconv.Atoi(raw)
		if err != nil || numMinutes <= 0 {
			respondError(c, http.StatusUnauthorized, "The meeting duration is invalid.", err)
			return
		}
	}

	req := &models.BookingRequest{
		UserName:        userName,
		Password:        password,
		BranchCode:      c.Query("branchCode"),
		Start:           time.UnixMilli(timeStampMS),
		NumDays:         numDays,
		DurationMinutes: numMinutes,
		AcceptBookings:  c.Query("acceptBookings") == "true",
	}

	msg, err := h.service.BookDays(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.String(http.StatusOK, msg)
}

// AcceptInvitations accepts pending invitations without booking first.
func (h *CoworkingHandler) AcceptInvitations(c *gin.Context) {
	userName := c.Query("userName")
	password := c.Query("password")
	if userName == "" || password == "" {
		respondError(c, http.StatusUnauthorized, "Username or Password is missing.", nil)
		return
	}

	numBookings, err := strconv.Atoi(c.Query("numBookings"))
	if err != nil || numBookings <= 0 {
		respondError(c, http.StatusUnauthorized, "The number of bookings has to be greater than 0.", err)
		return
	}

	msg, err := h.service.AcceptInvitations(c.Request.Context(), userName, password, numBookings)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.String(http.StatusOK, msg)
}

// Meetings returns the scraped meeting list.
func (h *CoworkingHandler) Meetings(c *gin.Context) {
	userName := c.Query("userName")
	password := c.Query("password")
	if userName == "" || password == "" {
		respondError(c, http.StatusUnauthorized, "Username or Password is missing.", nil)
		return
	}

	meetings, err := h.service.GetMeetings(c.Request.Context(), userName, password)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, meetings)
}
