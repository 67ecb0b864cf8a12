package domain

import (
	"strings"
	"time"
)

const (
	ISODateLayout   = "2006-01-02"
	InputDateLayout = "02-01-2006"
	ClockLayout     = "15:04"

	endOfDay = "24:00"
)

// NormalizeDate accepts DD-MM-YYYY (the request format) or YYYY-MM-DD and returns YYYY-MM-DD.
func NormalizeDate(date string) (string, error) {
	s := strings.TrimSpace(date)
	for _, layout := range []string{InputDateLayout, ISODateLayout} {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return d.Format(ISODateLayout), nil
		}
	}
	return "", &ParseError{Kind: "date", Value: date}
}

// ParseDate returns midnight UTC of an ISO calendar date.
func ParseDate(isoDate string) (time.Time, error) {
	d, err := time.ParseInLocation(ISODateLayout, strings.TrimSpace(isoDate), time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Kind: "date", Value: isoDate, Err: err}
	}
	return d, nil
}

// ParseTimeOfDay anchors an HH:mm time of day on an ISO date in UTC.
// "24:00" denotes the end of the day.
func ParseTimeOfDay(isoDate, hhmm string) (time.Time, error) {
	day, err := ParseDate(isoDate)
	if err != nil {
		return time.Time{}, err
	}

	s := strings.TrimSpace(hhmm)
	if s == endOfDay {
		return day.AddDate(0, 0, 1), nil
	}
	clock, err := time.Parse(ClockLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Kind: "time of day", Value: hhmm, Err: err}
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
}

// AddMinutes adds signed minutes to t and renders the result as HH:mm. Results outside
// the calendar day of t fail with ErrDayRollover; the next midnight renders as "24:00".
func AddMinutes(t time.Time, minutes int) (string, error) {
	t = t.UTC()
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	out := t.Add(time.Duration(minutes) * time.Minute)
	switch {
	case out.Before(dayStart), out.After(dayEnd):
		return "", ErrDayRollover
	case out.Equal(dayEnd):
		return endOfDay, nil
	}
	return out.Format(ClockLayout), nil
}

// FormatTimeOfDay renders an instant anchored on isoDate back to HH:mm.
func FormatTimeOfDay(isoDate string, t time.Time) (string, error) {
	day, err := ParseDate(isoDate)
	if err != nil {
		return "", err
	}
	return AddMinutes(day, int(t.Sub(day)/time.Minute))
}
