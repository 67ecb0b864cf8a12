package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"calspots/backend/internal/config"
	"calspots/backend/internal/domain"
	"calspots/backend/internal/service/availability"
	"calspots/backend/internal/store"
	"calspots/backend/internal/store/file"
	"calspots/backend/internal/store/postgres"
)

const usage = `usage:
  calspots spots  --calendar ID --date DD-MM-YYYY --duration MINUTES [--dir DIR] [--tiling single|packed] [--subtraction sweep|nested]
  calspots import [--calendar ID] [--dir DIR] [--database-url URL]
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "spots":
		err = runSpots(ctx, args[1:], stdout, stderr)
	case "import":
		err = runImport(ctx, args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "calspots %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func newFlagSet(name string, stderr io.Writer) (*pflag.FlagSet, *viper.Viper) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("dir", "calendars", "directory holding calendar.<id>.json files")
	fs.String("calendar", "", "calendar id")
	fs.String("log-level", "warn", "log level")
	return fs, config.New()
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, flag := range keys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func runSpots(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, v := newFlagSet("spots", stderr)
	date := fs.String("date", "", "date as DD-MM-YYYY")
	duration := fs.Int("duration", 0, "client duration in minutes")
	fs.String("tiling", string(domain.TilingSingle), "tiling mode: single or packed")
	fs.String("subtraction", string(domain.SubtractionSweep), "subtraction mode: sweep or nested")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := bindFlags(v, fs, map[string]string{
		"calendar.dir":             "dir",
		"log.level":                "log-level",
		"availability.tiling":      "tiling",
		"availability.subtraction": "subtraction",
	}); err != nil {
		return err
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	calendarID, _ := fs.GetString("calendar")
	if calendarID == "" || *date == "" {
		return errors.New("--calendar and --date are required")
	}

	log := newLogger(stderr, cfg.LogLevel)
	data, err := file.NewStore(cfg.CalendarDir).LoadCalendar(ctx, calendarID)
	if err != nil {
		return err
	}
	processor, err := availability.NewProcessor(store.NewStaticSource(data), availability.Options{
		Subtraction: cfg.Subtraction,
		Tiling:      cfg.Tiling,
		Logger:      log,
	})
	if err != nil {
		return err
	}
	calendar, err := availability.NewCalendar(processor)
	if err != nil {
		return err
	}

	slots, err := calendar.GetAvailability(*date, *duration)
	if err != nil {
		return err
	}
	return printSlots(stdout, *date, slots)
}

func printSlots(w io.Writer, date string, slots []domain.BookableSlot) error {
	isoDate, err := domain.NormalizeDate(date)
	if err != nil {
		fmt.Fprintln(w, "0 slots")
		return nil
	}

	fmt.Fprintf(w, "%d slots on %s\n", len(slots), isoDate)
	for _, s := range slots {
		clocks := make([]string, 0, 4)
		for _, at := range []time.Time{s.StartHour, s.EndHour, s.ClientStartHour, s.ClientEndHour} {
			c, err := domain.FormatTimeOfDay(isoDate, at)
			if err != nil {
				return err
			}
			clocks = append(clocks, c)
		}
		fmt.Fprintf(w, "%s-%s client %s-%s\n", clocks[0], clocks[1], clocks[2], clocks[3])
	}
	return nil
}

func runImport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, v := newFlagSet("import", stderr)
	fs.String("database-url", "", "postgres url (defaults to CALSPOTS_DATABASE_URL)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	keys := map[string]string{
		"calendar.dir": "dir",
		"log.level":    "log-level",
	}
	if fs.Changed("database-url") {
		keys["database.url"] = "database-url"
	}
	if err := bindFlags(v, fs, keys); err != nil {
		return err
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	log := newLogger(stderr, cfg.LogLevel)

	source := file.NewStore(cfg.CalendarDir)
	ids, err := source.ListCalendars(ctx)
	if err != nil {
		return err
	}
	if calendarID, _ := fs.GetString("calendar"); calendarID != "" {
		ids = []string{calendarID}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no calendars in %s", cfg.CalendarDir)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{MaxOpenConns: 2})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	repo := postgres.NewCalendarRepo(db)
	for _, id := range ids {
		data, err := source.LoadCalendar(ctx, id)
		if err != nil {
			return err
		}
		dbID, err := repo.SaveCalendar(ctx, id, data)
		if err != nil {
			return fmt.Errorf("save calendar %s: %w", id, err)
		}
		log.Info("calendar imported", slog.String("calendar_id", id), slog.String("id", dbID.String()))
		fmt.Fprintf(stdout, "imported calendar %s\n", id)
	}
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})).With(slog.String("service", "calspots"))
}
