package portal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	selBookingForm      = `form.o_booking_form`
	selBookingBranch    = `select[name="branch"]`
	selBookingDate      = `input[name="date"]`
	selBookingDuration  = `input[name="duration"]`
	selBookingSubmit    = `button.o_booking_submit`
	selBookingResult    = `.o_booking_result`
	bookingDateFormat   = "2006-01-02"
	bookingConfirmation = "confirmed"
)

// Booker books coworking days one date at a time. Range validation of the day
// count happens at the boundary; the booker assumes a pre-validated request.
type Booker struct {
	bookingURL string
}

func NewBooker(baseURL string) *Booker {
	return &Booker{bookingURL: strings.TrimSuffix(baseURL, "/") + "/web/booking"}
}

// BookDays attempts numDays bookings starting at start, one calendar day
// apart, strictly in chronological order. A date that cannot be booked (slot
// taken, branch closed) is skipped and counted as a failure; a structural
// failure (booking UI unreachable) aborts the whole run so the caller sees
// the triggering message. Returns the number of days actually booked; zero
// booked days is a valid outcome, not an error.
func (b *Booker) BookDays(ctx context.Context, drv Driver, branchCode string, start time.Time, numDays, durationMinutes int) (int, error) {
	startedAt := time.Now()
	defer func() {
		metrics.PortalScrapeDuration.WithLabelValues("coworking", "book_days").Observe(metrics.MeasureDuration(startedAt))
	}()

	booked := 0
	for i := 0; i < numDays; i++ {
		day := start.AddDate(0, 0, i)
		if err := b.bookOne(ctx, drv, branchCode, day, durationMinutes); err != nil {
			if errs.Is(err, errs.ErrPortalUnavailable) {
				metrics.BookingAttemptsTotal.WithLabelValues("error").Inc()
				return booked, err
			}
			metrics.BookingAttemptsTotal.WithLabelValues("skipped").Inc()
			logger.Warn("Day could not be booked",
				zap.String("date", day.Format(bookingDateFormat)),
				zap.Error(err),
			)
			continue
		}
		metrics.BookingAttemptsTotal.WithLabelValues("booked").Inc()
		logger.Info("Day booked",
			zap.String("date", day.Format(bookingDateFormat)),
			zap.String("branch", branchCode),
		)
		booked++
	}
	return booked, nil
}

func (b *Booker) bookOne(ctx context.Context, drv Driver, branchCode string, day time.Time, durationMinutes int) error {
	if err := drv.Navigate(ctx, b.bookingURL); err != nil {
		return errs.PortalError("open booking page", err)
	}
	if err := drv.WaitVisible(ctx, selBookingForm); err != nil {
		return errs.PortalError("wait for booking form", err)
	}

	if err := drv.SendKeys(ctx, selBookingBranch, branchCode); err != nil {
		return errs.PortalError("select branch", err)
	}
	if err := drv.Clear(ctx, selBookingDate); err != nil {
		return errs.PortalError("clear date field", err)
	}
	if err := drv.SendKeys(ctx, selBookingDate, day.Format(bookingDateFormat)); err != nil {
		return errs.PortalError("fill date", err)
	}
	if err := drv.Clear(ctx, selBookingDuration); err != nil {
		return errs.PortalError("clear duration field", err)
	}
	if err := drv.SendKeys(ctx, selBookingDuration, strconv.Itoa(durationMinutes)); err != nil {
		return errs.PortalError("fill duration", err)
	}
	if err := drv.Click(ctx, selBookingSubmit); err != nil {
		return errs.PortalError("submit booking", err)
	}

	result, err := drv.Text(ctx, selBookingResult)
	if err != nil {
		return errs.PortalError("read booking result", err)
	}
	if !strings.Contains(strings.ToLower(result), bookingConfirmation) {
		// Not structural: this date simply had no bookable slot.
		return fmt.Errorf("portal answered %q for %s", strings.TrimSpace(result), day.Format(bookingDateFormat))
	}
	return nil
}
