package domain

import (
	"errors"
	"testing"
	"time"
)

func at(clock string) time.Time {
	t, err := ParseTimeOfDay(testDate, clock)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTileSlots_SingleAnchorsAtIntervalStart(t *testing.T) {
	free := []FreeInterval{{Start: "09:00", End: "17:00"}}

	slots, err := TileSlots(testDate, free, 30, 10, 10, TilingSingle)
	if err != nil {
		t.Fatalf("TileSlots error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}

	want := BookableSlot{
		StartHour:       at("09:00"),
		ClientStartHour: at("09:10"),
		ClientEndHour:   at("09:40"),
		EndHour:         at("09:50"),
	}
	got := slots[0]
	if !got.StartHour.Equal(want.StartHour) || !got.ClientStartHour.Equal(want.ClientStartHour) ||
		!got.ClientEndHour.Equal(want.ClientEndHour) || !got.EndHour.Equal(want.EndHour) {
		t.Fatalf("slot = %+v, want %+v", got, want)
	}
}

func TestTileSlots_DropsIntervalsThatCannotFitBuffers(t *testing.T) {
	free := []FreeInterval{
		{Start: "09:00", End: "09:45"},
		{Start: "10:00", End: "10:50"},
	}

	slots, err := TileSlots(testDate, free, 30, 10, 10, TilingSingle)
	if err != nil {
		t.Fatalf("TileSlots error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
	if !slots[0].StartHour.Equal(at("10:00")) || !slots[0].EndHour.Equal(at("10:50")) {
		t.Fatalf("slot = %v-%v, want 10:00-10:50", slots[0].StartHour, slots[0].EndHour)
	}
}

func TestTileSlots_PackedFillsBackToBack(t *testing.T) {
	free := []FreeInterval{{Start: "09:00", End: "11:00"}}

	slots, err := TileSlots(testDate, free, 30, 5, 5, TilingPacked)
	if err != nil {
		t.Fatalf("TileSlots error: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("len(slots) = %d, want 3", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].StartHour.Equal(slots[i-1].EndHour) {
			t.Fatalf("slot %d starts at %v, want %v", i, slots[i].StartHour, slots[i-1].EndHour)
		}
	}
	if !slots[2].EndHour.Equal(at("11:00")) {
		t.Fatalf("last slot ends at %v, want 11:00", slots[2].EndHour)
	}
}

func TestTileSlots_EndOfDayInterval(t *testing.T) {
	free := []FreeInterval{{Start: "23:00", End: "24:00"}}

	slots, err := TileSlots(testDate, free, 40, 10, 10, TilingPacked)
	if err != nil {
		t.Fatalf("TileSlots error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
	if !slots[0].EndHour.Equal(at("24:00")) {
		t.Fatalf("end = %v, want next midnight", slots[0].EndHour)
	}

	slots, err = TileSlots(testDate, []FreeInterval{{Start: "23:30", End: "24:00"}}, 40, 10, 10, TilingSingle)
	if err != nil {
		t.Fatalf("TileSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("len(slots) = %d, want 0", len(slots))
	}
}

func TestTileSlots_BufferInvariant(t *testing.T) {
	free := []FreeInterval{{Start: "08:00", End: "12:00"}, {Start: "13:15", End: "18:00"}}
	before, after, duration := 15, 5, 45

	slots, err := TileSlots(testDate, free, duration, before, after, TilingPacked)
	if err != nil {
		t.Fatalf("TileSlots error: %v", err)
	}
	if len(slots) == 0 {
		t.Fatalf("expected slots")
	}
	for _, s := range slots {
		if got := s.ClientStartHour.Sub(s.StartHour); got != time.Duration(before)*time.Minute {
			t.Fatalf("before buffer = %v, want %dm", got, before)
		}
		if got := s.EndHour.Sub(s.ClientEndHour); got != time.Duration(after)*time.Minute {
			t.Fatalf("after buffer = %v, want %dm", got, after)
		}
		if got := s.ClientEndHour.Sub(s.ClientStartHour); got != time.Duration(duration)*time.Minute {
			t.Fatalf("client duration = %v, want %dm", got, duration)
		}
	}
}

func TestTileSlots_PropagatesParseError(t *testing.T) {
	_, err := TileSlots(testDate, []FreeInterval{{Start: "09:00", End: "late"}}, 30, 0, 0, TilingSingle)
	var pErr *ParseError
	if !errors.As(err, &pErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestParseTilingMode(t *testing.T) {
	if m, err := ParseTilingMode(""); err != nil || m != TilingSingle {
		t.Fatalf("ParseTilingMode(\"\") = %q, %v", m, err)
	}
	if m, err := ParseTilingMode("PACKED"); err != nil || m != TilingPacked {
		t.Fatalf("ParseTilingMode(PACKED) = %q, %v", m, err)
	}
	if _, err := ParseTilingMode("greedy"); err == nil {
		t.Fatalf("expected error")
	}
}
