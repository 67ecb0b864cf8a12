package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Calendar struct {
	bun.BaseModel `bun:"table:calendars"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	Name           string    `bun:"name,notnull"`
	DurationBefore int       `bun:"duration_before_minutes,notnull"`
	DurationAfter  int       `bun:"duration_after_minutes,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

func (c *Calendar) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if c.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			c.ID = id
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		c.UpdatedAt = now
	}
	return nil
}

type CalendarEntryKind string

const (
	CalendarEntryWindow  CalendarEntryKind = "window"
	CalendarEntrySession CalendarEntryKind = "session"
)

// CalendarEntry is one stored day window or booked session. Start and End keep the HH:mm
// text as entered so malformed values surface as *ParseError at request time.
type CalendarEntry struct {
	bun.BaseModel `bun:"table:calendar_entries"`

	ID         uuid.UUID         `bun:"id,pk,type:uuid"`
	CalendarID uuid.UUID         `bun:"calendar_id,notnull,type:uuid"`
	Kind       CalendarEntryKind `bun:"kind,notnull"`
	Day        time.Time         `bun:"day,notnull,type:date"`
	Position   int               `bun:"position,notnull"`
	Start      string            `bun:"start_time,notnull"`
	End        string            `bun:"end_time,notnull"`
	CreatedAt  time.Time         `bun:"created_at,notnull"`
}

func (e *CalendarEntry) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if e.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		e.ID = id
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return nil
}
