package store

import (
	"context"

	"calspots/backend/internal/domain"
)

// DataSource supplies the snapshot a processor computes over. Repeated calls must return
// the same snapshot.
type DataSource interface {
	GetData() domain.CalendarConfig
}

// CalendarLoader lists and loads calendar snapshots from a backing store.
type CalendarLoader interface {
	ListCalendars(ctx context.Context) ([]string, error)
	LoadCalendar(ctx context.Context, calendarID string) (domain.CalendarConfig, error)
}

// StaticSource serves a snapshot that was loaded once.
type StaticSource struct {
	cfg domain.CalendarConfig
}

func NewStaticSource(cfg domain.CalendarConfig) *StaticSource {
	return &StaticSource{cfg: cfg}
}

func (s *StaticSource) GetData() domain.CalendarConfig {
	return s.cfg
}
