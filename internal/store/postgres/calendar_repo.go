package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"calspots/backend/internal/domain"
	"calspots/backend/internal/store"
)

type CalendarRepo struct {
	db *bun.DB
}

func NewCalendarRepo(db *bun.DB) *CalendarRepo {
	return &CalendarRepo{db: db}
}

func (r *CalendarRepo) ListCalendars(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.NewSelect().
		Model((*domain.Calendar)(nil)).
		Column("name").
		OrderExpr("name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *CalendarRepo) LoadCalendar(ctx context.Context, calendarID string) (domain.CalendarConfig, error) {
	var cal domain.Calendar
	err := r.db.NewSelect().
		Model(&cal).
		Where("name = ?", calendarID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CalendarConfig{}, fmt.Errorf("calendar %q: %w", calendarID, store.ErrNotFound)
	}
	if err != nil {
		return domain.CalendarConfig{}, err
	}

	var entries []domain.CalendarEntry
	err = r.db.NewSelect().
		Model(&entries).
		Where("calendar_id = ?", cal.ID).
		OrderExpr("day ASC, kind ASC, position ASC").
		Scan(ctx)
	if err != nil {
		return domain.CalendarConfig{}, err
	}

	return buildCalendarConfig(cal, entries)
}

// SaveCalendar creates or replaces the named calendar. Its windows and sessions are
// swapped in one transaction so readers never see a half-written calendar.
func (r *CalendarRepo) SaveCalendar(ctx context.Context, name string, cfg domain.CalendarConfig) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, fmt.Errorf("%w: empty name", store.ErrInvalidCalendar)
	}
	if err := cfg.Validate(name); err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", name).Exec(ctx); err != nil {
			return err
		}

		cal := domain.Calendar{
			Name:           name,
			DurationBefore: cfg.DurationBefore,
			DurationAfter:  cfg.DurationAfter,
		}
		_, err := tx.NewInsert().
			Model(&cal).
			On("CONFLICT (name) DO UPDATE").
			Set("duration_before_minutes = EXCLUDED.duration_before_minutes").
			Set("duration_after_minutes = EXCLUDED.duration_after_minutes").
			Set("updated_at = EXCLUDED.updated_at").
			Returning("id").
			Exec(ctx)
		if err != nil {
			return mapWriteError(err)
		}
		id = cal.ID

		_, err = tx.NewDelete().
			Model((*domain.CalendarEntry)(nil)).
			Where("calendar_id = ?", cal.ID).
			Exec(ctx)
		if err != nil {
			return err
		}

		entries, err := buildEntries(cal.ID, cfg)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&entries).Exec(ctx); err != nil {
			return mapWriteError(err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23514" || pgErr.Code == "23502") {
		return fmt.Errorf("%w: %s", store.ErrInvalidCalendar, pgErr.Message)
	}
	return err
}

func buildCalendarConfig(cal domain.Calendar, entries []domain.CalendarEntry) (domain.CalendarConfig, error) {
	slots := make(map[string][]domain.DayWindow)
	sessions := make(map[string][]domain.BookedSession)

	sorted := make([]domain.CalendarEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	for _, e := range sorted {
		day := e.Day.UTC().Format(domain.ISODateLayout)
		switch e.Kind {
		case domain.CalendarEntryWindow:
			slots[day] = append(slots[day], domain.DayWindow{Start: e.Start, End: e.End})
		case domain.CalendarEntrySession:
			sessions[day] = append(sessions[day], domain.BookedSession{Start: e.Start, End: e.End})
		default:
			return domain.CalendarConfig{}, fmt.Errorf("%w: entry %s has kind %q", store.ErrInvalidCalendar, e.ID, e.Kind)
		}
	}

	before, after := cal.DurationBefore, cal.DurationAfter
	return domain.RequiredConfig(cal.Name, &before, &after, slots, sessions)
}

func buildEntries(calendarID uuid.UUID, cfg domain.CalendarConfig) ([]domain.CalendarEntry, error) {
	out := make([]domain.CalendarEntry, 0)

	for _, date := range sortedKeys(cfg.Slots) {
		day, err := domain.ParseDate(date)
		if err != nil {
			return nil, err
		}
		for i, w := range cfg.Slots[date] {
			out = append(out, domain.CalendarEntry{
				CalendarID: calendarID,
				Kind:       domain.CalendarEntryWindow,
				Day:        day,
				Position:   i,
				Start:      w.Start,
				End:        w.End,
			})
		}
	}
	for _, date := range sortedKeys(cfg.Sessions) {
		day, err := domain.ParseDate(date)
		if err != nil {
			return nil, err
		}
		for i, s := range cfg.Sessions[date] {
			out = append(out, domain.CalendarEntry{
				CalendarID: calendarID,
				Kind:       domain.CalendarEntrySession,
				Day:        day,
				Position:   i,
				Start:      s.Start,
				End:        s.End,
			})
		}
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
