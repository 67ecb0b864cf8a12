package availability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"calspots/backend/internal/domain"
	"calspots/backend/internal/store"
)

// SpotKey identifies one computed slot list. Fingerprint changes whenever the calendar
// snapshot does, so entries computed from an older snapshot are never read back.
type SpotKey struct {
	CalendarID  string
	Fingerprint string
	Date        string
	Duration    int
	Subtraction domain.SubtractionMode
	Tiling      domain.TilingMode
}

type SpotCache interface {
	Get(ctx context.Context, key SpotKey) ([]domain.BookableSlot, bool, error)
	Set(ctx context.Context, key SpotKey, slots []domain.BookableSlot) error
}

type calendarEntry struct {
	calendar    *Calendar
	fingerprint string
}

// Service serves several calendars loaded once at start-up.
type Service struct {
	calendars map[string]calendarEntry
	ids       []string
	opts      Options
	cache     SpotCache
	log       *slog.Logger
}

// NewService loads every calendar the loader lists. A calendar that fails to load or
// validate fails the whole service. cache may be nil.
func NewService(ctx context.Context, loader store.CalendarLoader, opts Options, cache SpotCache) (*Service, error) {
	if loader == nil {
		return nil, ErrInvalidDataSource
	}
	if opts.Subtraction == "" {
		opts.Subtraction = domain.SubtractionSweep
	}
	if opts.Tiling == "" {
		opts.Tiling = domain.TilingSingle
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ids, err := loader.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}

	s := &Service{
		calendars: make(map[string]calendarEntry, len(ids)),
		opts:      opts,
		cache:     cache,
		log:       opts.Logger.With(slog.String("component", "availability.service")),
	}
	for _, id := range ids {
		cfg, err := loader.LoadCalendar(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load calendar %s: %w", id, err)
		}
		if err := s.add(id, cfg); err != nil {
			return nil, err
		}
	}
	sort.Strings(s.ids)

	s.log.Info("calendars loaded", slog.Int("count", len(s.ids)))
	return s, nil
}

func (s *Service) add(id string, cfg domain.CalendarConfig) error {
	processor, err := NewProcessor(store.NewStaticSource(cfg), s.opts)
	if err != nil {
		return fmt.Errorf("calendar %s: %w", id, err)
	}
	calendar, err := NewCalendar(processor)
	if err != nil {
		return err
	}
	fingerprint, err := Fingerprint(cfg)
	if err != nil {
		return fmt.Errorf("fingerprint calendar %s: %w", id, err)
	}

	if _, exists := s.calendars[id]; !exists {
		s.ids = append(s.ids, id)
	}
	s.calendars[id] = calendarEntry{calendar: calendar, fingerprint: fingerprint}
	return nil
}

// Calendars returns the loaded calendar ids in ascending order.
func (s *Service) Calendars() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Service) GetAvailableSpots(ctx context.Context, calendarID, date string, duration int) ([]domain.BookableSlot, error) {
	entry, ok := s.calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("calendar %q: %w", calendarID, store.ErrNotFound)
	}

	isoDate, err := domain.NormalizeDate(date)
	if err != nil || s.cache == nil || duration <= 0 {
		return entry.calendar.GetAvailability(date, duration)
	}

	key := SpotKey{
		CalendarID:  calendarID,
		Fingerprint: entry.fingerprint,
		Date:        isoDate,
		Duration:    duration,
		Subtraction: s.opts.Subtraction,
		Tiling:      s.opts.Tiling,
	}
	if slots, hit, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("spot cache get failed", slog.String("calendar_id", calendarID), slog.Any("err", err))
	} else if hit {
		return slots, nil
	}

	slots, err := entry.calendar.GetAvailability(date, duration)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, slots); err != nil {
		s.log.Warn("spot cache set failed", slog.String("calendar_id", calendarID), slog.Any("err", err))
	}
	return slots, nil
}

// Fingerprint hashes a snapshot. Map keys are encoded in sorted order so equal snapshots
// always hash alike.
func Fingerprint(cfg domain.CalendarConfig) (string, error) {
	h := xxhash.New()
	enc := msgpack.NewEncoder(h)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(cfg); err != nil {
		return "", err
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}
