package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type SubtractionMode string

const (
	// SubtractionSweep computes the exact difference of windows and sessions.
	SubtractionSweep SubtractionMode = "sweep"
	// SubtractionNested applies the four-case rule and requires sessions to be pairwise
	// disjoint and each nested in, or covering, the windows it touches.
	SubtractionNested SubtractionMode = "nested"
)

func ParseSubtractionMode(s string) (SubtractionMode, error) {
	switch SubtractionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SubtractionSweep:
		return SubtractionSweep, nil
	case SubtractionNested:
		return SubtractionNested, nil
	default:
		return "", fmt.Errorf("unknown subtraction mode %q", s)
	}
}

type timeSpan struct {
	Start time.Time
	End   time.Time
}

func (s timeSpan) overlaps(o timeSpan) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

func parseSpan(date, start, end string) (timeSpan, error) {
	s, err := ParseTimeOfDay(date, start)
	if err != nil {
		return timeSpan{}, err
	}
	e, err := ParseTimeOfDay(date, end)
	if err != nil {
		return timeSpan{}, err
	}
	return timeSpan{Start: s, End: e}, nil
}

func sessionSpans(date string, sessions []BookedSession) ([]timeSpan, error) {
	out := make([]timeSpan, 0, len(sessions))
	for _, s := range sessions {
		span, err := parseSpan(date, s.Start, s.End)
		if err != nil {
			return nil, err
		}
		out = append(out, span)
	}
	return out, nil
}

func freeInterval(date string, span timeSpan) (FreeInterval, error) {
	start, err := FormatTimeOfDay(date, span.Start)
	if err != nil {
		return FreeInterval{}, err
	}
	end, err := FormatTimeOfDay(date, span.End)
	if err != nil {
		return FreeInterval{}, err
	}
	return FreeInterval{Start: start, End: end}, nil
}

// Subtract dispatches to the subtractor selected by mode.
func Subtract(mode SubtractionMode, date string, windows []DayWindow, sessions []BookedSession) ([]FreeInterval, error) {
	if mode == SubtractionNested {
		return SubtractNested(date, windows, sessions)
	}
	return SubtractSessions(date, windows, sessions)
}

// SubtractSessions removes every session from every window of date. Intervals are
// half-open, so a session ending exactly where a window starts leaves it untouched.
// Empty or inverted spans cover no time and are ignored.
// Output follows window order, then ascending time within a window.
func SubtractSessions(date string, windows []DayWindow, sessions []BookedSession) ([]FreeInterval, error) {
	spans, err := sessionSpans(date, sessions)
	if err != nil {
		return nil, err
	}
	busy := spans[:0]
	for _, b := range spans {
		if b.Start.Before(b.End) {
			busy = append(busy, b)
		}
	}
	sort.Slice(busy, func(i, j int) bool {
		if busy[i].Start.Equal(busy[j].Start) {
			return busy[i].End.Before(busy[j].End)
		}
		return busy[i].Start.Before(busy[j].Start)
	})

	out := make([]FreeInterval, 0, len(windows)+len(busy))
	for _, w := range windows {
		ws, err := parseSpan(date, w.Start, w.End)
		if err != nil {
			return nil, err
		}
		if !ws.Start.Before(ws.End) {
			continue
		}

		var free []timeSpan
		cursor := ws.Start
		for _, b := range busy {
			if !b.End.After(cursor) {
				continue
			}
			if !b.Start.Before(ws.End) {
				break
			}
			if b.Start.After(cursor) {
				free = append(free, timeSpan{Start: cursor, End: b.Start})
			}
			cursor = b.End
			if !cursor.Before(ws.End) {
				break
			}
		}
		if cursor.Before(ws.End) {
			free = append(free, timeSpan{Start: cursor, End: ws.End})
		}

		for _, span := range free {
			fi, err := freeInterval(date, span)
			if err != nil {
				return nil, err
			}
			out = append(out, fi)
		}
	}
	return out, nil
}

// SubtractNested applies the four-case conflict rule: a session covering the window
// removes it, one sharing its start or end trims it, one strictly inside splits it.
// Every session is applied to the fragments left by the previous ones.
func SubtractNested(date string, windows []DayWindow, sessions []BookedSession) ([]FreeInterval, error) {
	busy, err := sessionSpans(date, sessions)
	if err != nil {
		return nil, err
	}
	spans := make([]timeSpan, 0, len(windows))
	for _, w := range windows {
		ws, err := parseSpan(date, w.Start, w.End)
		if err != nil {
			return nil, err
		}
		if !ws.Start.Before(ws.End) {
			continue
		}
		spans = append(spans, ws)
	}
	if err := checkNesting(date, spans, busy); err != nil {
		return nil, err
	}

	out := make([]FreeInterval, 0, len(windows))
	for _, ws := range spans {
		fragments := []timeSpan{ws}
		for _, b := range busy {
			next := make([]timeSpan, 0, len(fragments)+1)
			for _, f := range fragments {
				next = append(next, subtractFourCase(f, b)...)
			}
			fragments = next
		}
		for _, f := range fragments {
			fi, err := freeInterval(date, f)
			if err != nil {
				return nil, err
			}
			out = append(out, fi)
		}
	}
	return out, nil
}

func subtractFourCase(w, s timeSpan) []timeSpan {
	switch {
	case !s.Start.After(w.Start) && !s.End.Before(w.End):
		return nil
	case s.Start.Equal(w.Start) && s.End.Before(w.End):
		return []timeSpan{{Start: s.End, End: w.End}}
	case s.Start.After(w.Start) && s.End.Equal(w.End):
		return []timeSpan{{Start: w.Start, End: s.Start}}
	case s.Start.After(w.Start) && s.End.Before(w.End):
		return []timeSpan{{Start: w.Start, End: s.Start}, {Start: s.End, End: w.End}}
	}
	return []timeSpan{w}
}

func checkNesting(date string, windows, busy []timeSpan) error {
	sorted := make([]timeSpan, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	for i, s := range sorted {
		if !s.Start.Before(s.End) {
			return &PreconditionError{Date: date, msg: "session ends before it starts"}
		}
		if i > 0 && s.Start.Before(sorted[i-1].End) {
			return &PreconditionError{Date: date, msg: "sessions overlap"}
		}
		for _, w := range windows {
			if !s.overlaps(w) {
				continue
			}
			nested := !s.Start.Before(w.Start) && !s.End.After(w.End)
			covers := !s.Start.After(w.Start) && !s.End.Before(w.End)
			if !nested && !covers {
				return &PreconditionError{Date: date, msg: "session straddles a window boundary"}
			}
		}
	}
	return nil
}
