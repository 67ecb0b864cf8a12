package availability

import (
	"log/slog"
	"time"

	"calspots/backend/internal/domain"
	"calspots/backend/internal/store"
)

// Processor computes bookable slots for a DD-MM-YYYY date and a client duration in minutes.
type Processor interface {
	GetAvailableSpots(date string, duration int) ([]domain.BookableSlot, error)
}

type Options struct {
	Subtraction domain.SubtractionMode
	Tiling      domain.TilingMode
	Logger      *slog.Logger
}

type DefaultProcessor struct {
	source store.DataSource
	opts   Options
	days   *dayWindowCache
	log    *slog.Logger
}

// NewProcessor validates the snapshot served by source and fails before any request is
// handled when it cannot be served.
func NewProcessor(source store.DataSource, opts Options) (*DefaultProcessor, error) {
	if source == nil {
		return nil, ErrInvalidDataSource
	}
	if err := source.GetData().Validate(""); err != nil {
		return nil, err
	}
	if opts.Subtraction == "" {
		opts.Subtraction = domain.SubtractionSweep
	}
	if opts.Tiling == "" {
		opts.Tiling = domain.TilingSingle
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &DefaultProcessor{
		source: source,
		opts:   opts,
		days:   newDayWindowCache(),
		log:    log.With(slog.String("component", "availability.processor")),
	}, nil
}

func (p *DefaultProcessor) GetAvailableSpots(date string, duration int) ([]domain.BookableSlot, error) {
	cfg := p.source.GetData()

	if duration <= 0 {
		return nil, validationError("duration must be a positive number of minutes")
	}

	isoDate, err := domain.NormalizeDate(date)
	if err != nil {
		p.log.Debug("date not recognized", slog.String("date", date))
		return []domain.BookableSlot{}, nil
	}

	windows, err := p.fittingWindows(isoDate, duration)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []domain.BookableSlot{}, nil
	}

	free, err := domain.Subtract(p.opts.Subtraction, isoDate, windows, cfg.Sessions[isoDate])
	if err != nil {
		return nil, err
	}

	slots, err := domain.TileSlots(isoDate, free, duration, cfg.DurationBefore, cfg.DurationAfter, p.opts.Tiling)
	if err != nil {
		return nil, err
	}

	p.log.Debug(
		"spots computed",
		slog.String("date", isoDate),
		slog.Int("duration", duration),
		slog.Int("windows", len(windows)),
		slog.Int("free_intervals", len(free)),
		slog.Int("count", len(slots)),
	)
	return slots, nil
}

// fittingWindows returns the day's windows long enough to hold the client duration alone.
// Buffers are checked later by the tiler.
func (p *DefaultProcessor) fittingWindows(isoDate string, duration int) ([]domain.DayWindow, error) {
	all := p.days.windows(isoDate, func() []domain.DayWindow {
		return p.source.GetData().Slots[isoDate]
	})

	need := time.Duration(duration) * time.Minute
	out := make([]domain.DayWindow, 0, len(all))
	for _, w := range all {
		start, err := domain.ParseTimeOfDay(isoDate, w.Start)
		if err != nil {
			return nil, err
		}
		end, err := domain.ParseTimeOfDay(isoDate, w.End)
		if err != nil {
			return nil, err
		}
		if end.Sub(start) < need {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}
