package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"calspots/backend/internal/domain"
	"calspots/backend/internal/store"
)

const filePrefix = "calendar."

var extensions = []string{"json", "yaml", "yml"}

type timeRange struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type calendarFile struct {
	DurationBefore *int                   `mapstructure:"durationBefore"`
	DurationAfter  *int                   `mapstructure:"durationAfter"`
	Slots          map[string][]timeRange `mapstructure:"slots"`
	Sessions       map[string][]timeRange `mapstructure:"sessions"`
}

// Store reads calendars from files named calendar.<id>.json (or .yaml/.yml) in one
// directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) ListCalendars(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read calendar dir: %w", err)
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := calendarID(e.Name())
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) LoadCalendar(ctx context.Context, calendarID string) (domain.CalendarConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.CalendarConfig{}, err
	}
	if !validID(calendarID) {
		return domain.CalendarConfig{}, fmt.Errorf("%w: id %q", store.ErrInvalidCalendar, calendarID)
	}

	path, err := s.find(calendarID)
	if err != nil {
		return domain.CalendarConfig{}, err
	}

	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return domain.CalendarConfig{}, fmt.Errorf("%w: %s: %v", store.ErrInvalidCalendar, path, err)
	}

	var rec calendarFile
	if err := v.Unmarshal(&rec); err != nil {
		return domain.CalendarConfig{}, fmt.Errorf("%w: %s: %v", store.ErrInvalidCalendar, path, err)
	}

	return domain.RequiredConfig(filePrefix+calendarID, rec.DurationBefore, rec.DurationAfter, windows(rec.Slots), sessions(rec.Sessions))
}

func (s *Store) find(calendarID string) (string, error) {
	for _, ext := range extensions {
		path := filepath.Join(s.dir, filePrefix+calendarID+"."+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("calendar %q: %w", calendarID, store.ErrNotFound)
}

func calendarID(name string) (string, bool) {
	if !strings.HasPrefix(name, filePrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(name, filePrefix)
	for _, ext := range extensions {
		if id, ok := strings.CutSuffix(rest, "."+ext); ok && validID(id) {
			return id, true
		}
	}
	return "", false
}

func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

func windows(in map[string][]timeRange) map[string][]domain.DayWindow {
	out := make(map[string][]domain.DayWindow, len(in))
	for date, ranges := range in {
		list := make([]domain.DayWindow, 0, len(ranges))
		for _, r := range ranges {
			list = append(list, domain.DayWindow{Start: r.Start, End: r.End})
		}
		out[date] = list
	}
	return out
}

func sessions(in map[string][]timeRange) map[string][]domain.BookedSession {
	out := make(map[string][]domain.BookedSession, len(in))
	for date, ranges := range in {
		list := make([]domain.BookedSession, 0, len(ranges))
		for _, r := range ranges {
			list = append(list, domain.BookedSession{Start: r.Start, End: r.End})
		}
		out[date] = list
	}
	return out
}
