package models

import "time"

// CalendarEvent represents a meeting on the user's calendar
type CalendarEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Attendees     []Person  `json:"attendees"`
	ConferenceURL string    `json:"conference_url,omitempty"`
	IsPast        bool      `json:"is_past"`
}

// StartsWithin reports whether the event starts in (0, d] from now
func (e *CalendarEvent) StartsWithin(now time.Time, d time.Duration) bool {
	until := e.StartTime.Sub(now)
	return until > 0 && until <= d && !e.IsPast
}

// IsToday reports whether the event starts on the same calendar day as now
func (e *CalendarEvent) IsToday(now time.Time) bool {
	y1, m1, d1 := e.StartTime.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
