package grpc

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"calspots/backend/internal/domain"
	"calspots/backend/internal/service/availability"
	"calspots/backend/internal/store"
)

type AvailabilityServer struct {
	svc availabilityService
	log *slog.Logger
}

type availabilityService interface {
	GetAvailableSpots(ctx context.Context, calendarID, date string, duration int) ([]domain.BookableSlot, error)
	Calendars() []string
}

func NewAvailabilityServer(svc availabilityService, log *slog.Logger) *AvailabilityServer {
	if log == nil {
		log = slog.Default()
	}
	return &AvailabilityServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.availability")),
	}
}

func (s *AvailabilityServer) GetAvailableSpots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "GetAvailableSpots"), slog.String("request_id", RequestIDFromContext(ctx)))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	fields := req.GetFields()
	calendarID := strings.TrimSpace(fields["calendar_id"].GetStringValue())
	if calendarID == "" {
		log.Warn("invalid request", slog.String("reason", "missing_calendar_id"))
		return nil, status.Error(codes.InvalidArgument, "calendar_id is required")
	}
	date := strings.TrimSpace(fields["date"].GetStringValue())
	if date == "" {
		log.Warn("invalid request", slog.String("reason", "missing_date"), slog.String("calendar_id", calendarID))
		return nil, status.Error(codes.InvalidArgument, "date is required")
	}
	duration, ok := wholeNumber(fields["duration"])
	if !ok {
		log.Warn("invalid request", slog.String("reason", "bad_duration"), slog.String("calendar_id", calendarID))
		return nil, status.Error(codes.InvalidArgument, "duration must be a whole number of minutes")
	}

	slots, err := s.svc.GetAvailableSpots(ctx, calendarID, date, duration)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("calendar not found", slog.String("calendar_id", calendarID))
			return nil, status.Error(codes.NotFound, "calendar not found")
		}
		var vErr *availability.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err), slog.String("calendar_id", calendarID))
			return nil, status.Error(codes.InvalidArgument, vErr.Error())
		}
		var pErr *domain.ParseError
		var preErr *domain.PreconditionError
		if errors.As(err, &pErr) || errors.As(err, &preErr) {
			log.Error("calendar data unusable", slog.Any("err", err), slog.String("calendar_id", calendarID), slog.String("date", date))
			return nil, status.Error(codes.FailedPrecondition, "calendar data for this date cannot be processed")
		}
		log.Error("availability lookup failed", slog.Any("err", err), slog.String("calendar_id", calendarID))
		return nil, status.Error(codes.Internal, "internal error")
	}

	spots := make([]any, 0, len(slots))
	for _, slot := range slots {
		spots = append(spots, toSpotValue(slot))
	}
	out, err := structpb.NewStruct(map[string]any{"spots": spots})
	if err != nil {
		log.Error("response encode failed", slog.Any("err", err))
		return nil, status.Error(codes.Internal, "internal error")
	}

	log.Info(
		"spots listed",
		slog.String("calendar_id", calendarID),
		slog.String("date", date),
		slog.Int("duration", duration),
		slog.Int("count", len(slots)),
	)
	return out, nil
}

func (s *AvailabilityServer) ListCalendars(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "ListCalendars"), slog.String("request_id", RequestIDFromContext(ctx)))

	ids := s.svc.Calendars()
	calendars := make([]any, 0, len(ids))
	for _, id := range ids {
		calendars = append(calendars, id)
	}
	out, err := structpb.NewStruct(map[string]any{"calendars": calendars})
	if err != nil {
		log.Error("response encode failed", slog.Any("err", err))
		return nil, status.Error(codes.Internal, "internal error")
	}

	log.Debug("calendars listed", slog.Int("count", len(ids)))
	return out, nil
}

func wholeNumber(v *structpb.Value) (int, bool) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	f := n.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func toSpotValue(slot domain.BookableSlot) map[string]any {
	return map[string]any{
		"start_hour":        slot.StartHour.UTC().Format(time.RFC3339),
		"end_hour":          slot.EndHour.UTC().Format(time.RFC3339),
		"client_start_hour": slot.ClientStartHour.UTC().Format(time.RFC3339),
		"client_end_hour":   slot.ClientEndHour.UTC().Format(time.RFC3339),
	}
}
