package models

// ConnectionDateLayout matches the date strings the legacy store wrote, so
// existing log files keep sorting correctly.
const ConnectionDateLayout = "02/01/2006 15:04:05"

// MaxConnectionRecords caps each visitor's log; the oldest record is evicted
// when a new one would exceed it.
const MaxConnectionRecords = 100

// Fingerprint is the subset of the client-side fingerprinting payload we keep.
type Fingerprint struct {
	LocalStorage     any     `json:"localStorage,omitempty"`
	VisitorID        string  `json:"visitorId"`
	Confidence       float64 `json:"confidence,omitempty"`
	OsCPU            any     `json:"osCpu,omitempty"`
	Languages        any     `json:"languages,omitempty"`
	TimeZone         any     `json:"timeZone,omitempty"`
	ScreenResolution any     `json:"screenResolution,omitempty"`
	Vendor           any     `json:"vendor,omitempty"`
	Platform         any     `json:"platform,omitempty"`
	Pathname         string  `json:"react_app_pathname,omitempty"`
}

// ConnectionRecord is one tracked visit, stored most-recent-first.
type ConnectionRecord struct {
	Headers     map[string][]string `json:"headers"`
	IP          string              `json:"ip"`
	Fingerprint Fingerprint         `json:"fingerPrint"`
	TimeStamp   int64               `json:"timeStamp"`
	Date        string              `json:"date"`
}

// TrackRequest mirrors the fingerprinting client's POST body. Everything is
// optional; tracking must never fail the caller.
type TrackRequest struct {
	VisitorID    string `json:"visitorId"`
	LocalStorage any    `json:"localStorage"`
	Pathname     string `json:"pathname"`
	Confidence   struct {
		Score float64 `json:"score"`
	} `json:"confidence"`
	Components map[string]struct {
		Value any `json:"value"`
	} `json:"components"`
}

// Fingerprint extracts the stored fingerprint fields from the raw payload.
func (r TrackRequest) Fingerprint() Fingerprint {
	fp := Fingerprint{
		LocalStorage: r.LocalStorage,
		VisitorID:    r.VisitorID,
		Confidence:   r.Confidence.Score,
		Pathname:     r.Pathname,
	}
	if c, ok := r.Components["osCpu"]; ok {
		fp.OsCPU = c.Value
	}
	if c, ok := r.Components["languages"]; ok {
		fp.Languages = c.Value
	}
	if c, ok := r.Components["timeZone"]; ok {
		fp.TimeZone = c.Value
	}
	if c, ok := r.Components["screenResolution"]; ok {
		fp.ScreenResolution = c.Value
	}
	if c, ok := r.Components["vendor"]; ok {
		fp.Vendor = c.Value
	}
	if c, ok := r.Components["platform"]; ok {
		fp.Platform = c.Value
	}
	return fp
}
