package portal

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/cv-helper/cv-helper-api/internal/models"
	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
)

const (
	selMeetingTable = `table.o_meeting_list`
	selMeetingRows  = `table.o_meeting_list tbody tr`
)

// MeetingReader scrapes the meetings listing into a flat record list. Only
// what is visible on first load is read; the portal's pagination is ignored.
type MeetingReader struct {
	meetingsURL string
}

func NewMeetingReader(baseURL string) *MeetingReader {
	return &MeetingReader{meetingsURL: strings.TrimSuffix(baseURL, "/") + "/web/meetings"}
}

func (m *MeetingReader) GetMeetings(ctx context.Context, drv Driver) ([]models.Meeting, error) {
	startedAt := time.Now()
	defer func() {
		metrics.PortalScrapeDuration.WithLabelValues("coworking", "get_meetings").Observe(metrics.MeasureDuration(startedAt))
	}()

	if err := drv.Navigate(ctx, m.meetingsURL); err != nil {
		return nil, errs.PortalError("open meetings page", err)
	}
	if err := drv.WaitVisible(ctx, selMeetingTable); err != nil {
		return nil, errs.PortalError("wait for meeting list", err)
	}
	html, err := drv.OuterHTML(ctx)
	if err != nil {
		return nil, errs.PortalError("read meetings page", err)
	}
	return parseMeetings(html)
}

// parseMeetings extracts meeting rows from the rendered listing. Cells are
// subject, attendee, time, in the order the portal renders them.
func parseMeetings(html string) ([]models.Meeting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errs.PortalError("parse meetings page", err)
	}

	meetings := []models.Meeting{}
	doc.Find(selMeetingRows).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		meetings = append(meetings, models.Meeting{
			Subject:  strings.TrimSpace(cells.Eq(0).Text()),
			Attendee: strings.TrimSpace(cells.Eq(1).Text()),
			Time:     strings.TrimSpace(cells.Eq(2).Text()),
		})
	})
	return meetings, nil
}
