package postgres

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"calspots/backend/internal/domain"
	"calspots/backend/internal/store"
)

func TestBuildCalendarConfig_GroupsEntriesByDayAndKind(t *testing.T) {
	calID := uuid.MustParse("00000000-0000-0000-0000-000000000101")
	day := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)

	entries := []domain.CalendarEntry{
		{CalendarID: calID, Kind: domain.CalendarEntryWindow, Day: day, Position: 1, Start: "16:00", End: "17:00"},
		{CalendarID: calID, Kind: domain.CalendarEntrySession, Day: day, Position: 0, Start: "09:30", End: "10:00"},
		{CalendarID: calID, Kind: domain.CalendarEntryWindow, Day: day, Position: 0, Start: "09:00", End: "12:00"},
	}

	cfg, err := buildCalendarConfig(domain.Calendar{ID: calID, Name: "1", DurationBefore: 15, DurationAfter: 5}, entries)
	if err != nil {
		t.Fatalf("buildCalendarConfig error: %v", err)
	}
	if cfg.DurationBefore != 15 || cfg.DurationAfter != 5 {
		t.Fatalf("buffers = %d/%d, want 15/5", cfg.DurationBefore, cfg.DurationAfter)
	}
	wantSlots := []domain.DayWindow{{Start: "09:00", End: "12:00"}, {Start: "16:00", End: "17:00"}}
	if got := cfg.Slots["2023-04-10"]; !reflect.DeepEqual(got, wantSlots) {
		t.Fatalf("slots = %v, want %v", got, wantSlots)
	}
	wantSessions := []domain.BookedSession{{Start: "09:30", End: "10:00"}}
	if got := cfg.Sessions["2023-04-10"]; !reflect.DeepEqual(got, wantSessions) {
		t.Fatalf("sessions = %v, want %v", got, wantSessions)
	}
}

func TestBuildCalendarConfig_RejectsUnknownKind(t *testing.T) {
	entries := []domain.CalendarEntry{{Kind: "holiday", Day: time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)}}
	_, err := buildCalendarConfig(domain.Calendar{Name: "1"}, entries)
	if !errors.Is(err, store.ErrInvalidCalendar) {
		t.Fatalf("error = %v, want ErrInvalidCalendar", err)
	}
}

func TestBuildEntries_PreservesOrderWithinDay(t *testing.T) {
	calID := uuid.MustParse("00000000-0000-0000-0000-000000000102")
	cfg := domain.CalendarConfig{
		Slots: map[string][]domain.DayWindow{
			"2023-04-11": {{Start: "08:00", End: "09:00"}},
			"2023-04-10": {{Start: "16:00", End: "17:00"}, {Start: "09:00", End: "12:00"}},
		},
		Sessions: map[string][]domain.BookedSession{
			"2023-04-10": {{Start: "09:30", End: "10:00"}},
		},
	}

	entries, err := buildEntries(calID, cfg)
	if err != nil {
		t.Fatalf("buildEntries error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}

	first := entries[0]
	if first.Kind != domain.CalendarEntryWindow || first.Start != "16:00" || first.Position != 0 {
		t.Fatalf("entries[0] = %+v, want first window of 2023-04-10", first)
	}
	if entries[1].Start != "09:00" || entries[1].Position != 1 {
		t.Fatalf("entries[1] = %+v, want second window of 2023-04-10", entries[1])
	}
	if got := entries[2].Day.Format(domain.ISODateLayout); got != "2023-04-11" {
		t.Fatalf("entries[2].Day = %s, want 2023-04-11", got)
	}
	if entries[3].Kind != domain.CalendarEntrySession || entries[3].CalendarID != calID {
		t.Fatalf("entries[3] = %+v, want session of calendar %s", entries[3], calID)
	}

	back, err := buildCalendarConfig(domain.Calendar{ID: calID, Name: "x"}, entries)
	if err != nil {
		t.Fatalf("buildCalendarConfig error: %v", err)
	}
	if !reflect.DeepEqual(back.Slots, cfg.Slots) || !reflect.DeepEqual(back.Sessions, cfg.Sessions) {
		t.Fatalf("round trip = %+v, want %+v", back, cfg)
	}
}
