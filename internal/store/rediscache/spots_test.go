package rediscache

import (
	"testing"
	"time"

	"calspots/backend/internal/domain"
	"calspots/backend/internal/service/availability"
)

func TestSpotCache_Key(t *testing.T) {
	c := NewSpotCache(nil, 0, "")
	got := c.key(availability.SpotKey{
		CalendarID:  "1",
		Fingerprint: "9f2c",
		Date:        "2023-04-10",
		Duration:    30,
		Subtraction: domain.SubtractionSweep,
		Tiling:      domain.TilingSingle,
	})
	if want := "calspots:spots:1:9f2c:2023-04-10:30:sweep:single"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
	if c.ttl != 10*time.Minute {
		t.Fatalf("ttl = %v, want 10m", c.ttl)
	}
}

func TestEncodeSlots_RestoresUTCInstants(t *testing.T) {
	start := time.Date(2023, 4, 10, 16, 0, 0, 0, time.UTC)
	slots := []domain.BookableSlot{{
		StartHour:       start,
		ClientStartHour: start.Add(10 * time.Minute),
		ClientEndHour:   start.Add(40 * time.Minute),
		EndHour:         start.Add(50 * time.Minute),
	}}

	b, err := encodeSlots(slots)
	if err != nil {
		t.Fatalf("encodeSlots error: %v", err)
	}
	got, err := decodeSlots(b)
	if err != nil {
		t.Fatalf("decodeSlots error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !got[0].StartHour.Equal(start) || !got[0].EndHour.Equal(start.Add(50*time.Minute)) {
		t.Fatalf("slot = %+v, want %+v", got[0], slots[0])
	}
	if got[0].ClientEndHour.Location() != time.UTC {
		t.Fatalf("location = %v, want UTC", got[0].ClientEndHour.Location())
	}

	empty, err := encodeSlots(nil)
	if err != nil {
		t.Fatalf("encodeSlots(nil) error: %v", err)
	}
	if got, err := decodeSlots(empty); err != nil || len(got) != 0 {
		t.Fatalf("decodeSlots(empty) = %v, %v", got, err)
	}
}
