package domain

import (
	"sort"
	"time"
)

// DayWindow is an open availability window declared for a date.
type DayWindow struct {
	Start string
	End   string
}

// BookedSession is an already-committed booking on a date.
type BookedSession struct {
	Start string
	End   string
}

// FreeInterval is a part of a day window that no booked session touches.
type FreeInterval struct {
	Start string
	End   string
}

// BookableSlot is the reserved span [StartHour, EndHour] of a bookable unit. The client
// sees only [ClientStartHour, ClientEndHour]; the rest are the before/after buffers.
type BookableSlot struct {
	StartHour       time.Time
	EndHour         time.Time
	ClientStartHour time.Time
	ClientEndHour   time.Time
}

// CalendarConfig is a read-only snapshot of one calendar. Slots and Sessions are keyed by
// YYYY-MM-DD.
type CalendarConfig struct {
	DurationBefore int
	DurationAfter  int
	Slots          map[string][]DayWindow
	Sessions       map[string][]BookedSession
}

// Validate checks the parts of a snapshot that must hold before any request is served.
// Time-of-day strings are left to request time, where they surface as *ParseError.
func (c CalendarConfig) Validate(source string) error {
	if c.DurationBefore < 0 {
		return configurationError(source, "durationBefore must not be negative")
	}
	if c.DurationAfter < 0 {
		return configurationError(source, "durationAfter must not be negative")
	}
	for date := range c.Slots {
		if _, err := ParseDate(date); err != nil {
			return configurationError(source, "slots key %q is not a YYYY-MM-DD date", date)
		}
	}
	for date := range c.Sessions {
		if _, err := ParseDate(date); err != nil {
			return configurationError(source, "sessions key %q is not a YYYY-MM-DD date", date)
		}
	}
	return nil
}

// RequiredConfig builds a snapshot from loader fields, normalizing date keys and failing
// when a buffer field is absent.
func RequiredConfig(source string, before, after *int, slots map[string][]DayWindow, sessions map[string][]BookedSession) (CalendarConfig, error) {
	if before == nil {
		return CalendarConfig{}, configurationError(source, "durationBefore is required")
	}
	if after == nil {
		return CalendarConfig{}, configurationError(source, "durationAfter is required")
	}

	cfg := CalendarConfig{
		DurationBefore: *before,
		DurationAfter:  *after,
		Slots:          make(map[string][]DayWindow, len(slots)),
		Sessions:       make(map[string][]BookedSession, len(sessions)),
	}
	// DD-MM-YYYY and YYYY-MM-DD keys can name the same day; merge them in key order.
	for _, key := range sortedKeys(slots) {
		windows := slots[key]
		date, err := NormalizeDate(key)
		if err != nil {
			return CalendarConfig{}, configurationError(source, "slots key %q is not a date", key)
		}
		cfg.Slots[date] = append(cfg.Slots[date], windows...)
	}
	for _, key := range sortedKeys(sessions) {
		booked := sessions[key]
		date, err := NormalizeDate(key)
		if err != nil {
			return CalendarConfig{}, configurationError(source, "sessions key %q is not a date", key)
		}
		cfg.Sessions[date] = append(cfg.Sessions[date], booked...)
	}

	if err := cfg.Validate(source); err != nil {
		return CalendarConfig{}, err
	}
	return cfg, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
