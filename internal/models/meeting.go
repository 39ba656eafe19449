package models

// Meeting is one row scraped from the coworking portal's meetings listing,
// passed through to the caller unmodified.
type Meeting struct {
	Subject  string `json:"subject"`
	Attendee string `json:"attendee"`
	Time     string `json:"time"`
}
