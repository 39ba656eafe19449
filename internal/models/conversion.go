package models

import "time"

// ConversionRate is one cached converter scrape. Entries are keyed by the
// unordered currency pair; Result always reads From → To, so a lookup in the
// opposite direction inverts it.
type ConversionRate struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Result string `json:"result"`
	Date   int64  `json:"date"` // capture time, unix milliseconds
}

// CapturedAt returns the entry's capture time.
func (r ConversionRate) CapturedAt() time.Time {
	return time.UnixMilli(r.Date)
}
