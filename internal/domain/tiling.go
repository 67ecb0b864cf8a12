package domain

import (
	"errors"
	"fmt"
	"strings"
)

type TilingMode string

const (
	// TilingSingle anchors at most one slot at the start of each free interval.
	TilingSingle TilingMode = "single"
	// TilingPacked places slots back to back from the start of each free interval
	// until the next one no longer fits.
	TilingPacked TilingMode = "packed"
)

func ParseTilingMode(s string) (TilingMode, error) {
	switch TilingMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", TilingSingle:
		return TilingSingle, nil
	case TilingPacked:
		return TilingPacked, nil
	default:
		return "", fmt.Errorf("unknown tiling mode %q", s)
	}
}

// Footprint is the number of minutes a slot blocks on the calendar.
func Footprint(duration, before, after int) int {
	return before + duration + after
}

// TileSlots turns free intervals of date into bookable slots of the given client duration
// padded with before/after buffers. Slots that would overrun their interval are dropped.
func TileSlots(date string, free []FreeInterval, duration, before, after int, mode TilingMode) ([]BookableSlot, error) {
	out := make([]BookableSlot, 0, len(free))
	for _, iv := range free {
		start := iv.Start
		for {
			slot, ok, err := tileOne(date, start, iv.End, duration, before, after)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			out = append(out, slot)
			if mode != TilingPacked || !slot.EndHour.After(slot.StartHour) {
				break
			}
			next, err := FormatTimeOfDay(date, slot.EndHour)
			if err != nil {
				return nil, err
			}
			start = next
		}
	}
	return out, nil
}

func tileOne(date, startClock, endClock string, duration, before, after int) (BookableSlot, bool, error) {
	start, err := ParseTimeOfDay(date, startClock)
	if err != nil {
		return BookableSlot{}, false, err
	}
	end, err := ParseTimeOfDay(date, endClock)
	if err != nil {
		return BookableSlot{}, false, err
	}
	if !start.Before(end) {
		return BookableSlot{}, false, nil
	}

	endHour, err := AddMinutes(start, Footprint(duration, before, after))
	if errors.Is(err, ErrDayRollover) {
		return BookableSlot{}, false, nil
	}
	if err != nil {
		return BookableSlot{}, false, err
	}
	endAt, err := ParseTimeOfDay(date, endHour)
	if err != nil {
		return BookableSlot{}, false, err
	}
	if endAt.After(end) {
		return BookableSlot{}, false, nil
	}

	clientStart, err := AddMinutes(start, before)
	if err != nil {
		return BookableSlot{}, false, err
	}
	clientEnd, err := AddMinutes(start, before+duration)
	if err != nil {
		return BookableSlot{}, false, err
	}
	clientStartAt, err := ParseTimeOfDay(date, clientStart)
	if err != nil {
		return BookableSlot{}, false, err
	}
	clientEndAt, err := ParseTimeOfDay(date, clientEnd)
	if err != nil {
		return BookableSlot{}, false, err
	}

	return BookableSlot{
		StartHour:       start,
		EndHour:         endAt,
		ClientStartHour: clientStartAt,
		ClientEndHour:   clientEndAt,
	}, true, nil
}
