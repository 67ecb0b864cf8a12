package config

import (
	"testing"
	"time"

	"calspots/backend/internal/domain"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(New())
	if err != nil {
		t.Fatalf("FromViper error: %v", err)
	}
	if cfg.GRPCAddr != "0.0.0.0:50051" {
		t.Fatalf("GRPCAddr = %q, want %q", cfg.GRPCAddr, "0.0.0.0:50051")
	}
	if cfg.CalendarSource != SourceFile || cfg.CalendarDir != "calendars" {
		t.Fatalf("calendar = %q %q, want file calendars", cfg.CalendarSource, cfg.CalendarDir)
	}
	if cfg.Subtraction != domain.SubtractionSweep || cfg.Tiling != domain.TilingSingle {
		t.Fatalf("modes = %q/%q, want sweep/single", cfg.Subtraction, cfg.Tiling)
	}
	if cfg.RedisAddr != "" || cfg.RedisTTL != 10*time.Minute {
		t.Fatalf("redis = %q %v, want disabled with 10m ttl", cfg.RedisAddr, cfg.RedisTTL)
	}
}

func TestFromViper_Env(t *testing.T) {
	t.Setenv("CALSPOTS_GRPC_ADDR", "127.0.0.1:9000")
	t.Setenv("CALSPOTS_CALENDAR_SOURCE", "Postgres")
	t.Setenv("CALSPOTS_AVAILABILITY_TILING", "packed")
	t.Setenv("CALSPOTS_AVAILABILITY_SUBTRACTION", "nested")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CALSPOTS_REDIS_TTL", "30s")
	t.Setenv("CALSPOTS_DATABASE_MIGRATE", "false")

	cfg, err := FromViper(New())
	if err != nil {
		t.Fatalf("FromViper error: %v", err)
	}
	if cfg.GRPCAddr != "127.0.0.1:9000" {
		t.Fatalf("GRPCAddr = %q, want %q", cfg.GRPCAddr, "127.0.0.1:9000")
	}
	if cfg.CalendarSource != SourcePostgres {
		t.Fatalf("CalendarSource = %q, want %q", cfg.CalendarSource, SourcePostgres)
	}
	if cfg.Tiling != domain.TilingPacked || cfg.Subtraction != domain.SubtractionNested {
		t.Fatalf("modes = %q/%q, want nested/packed", cfg.Subtraction, cfg.Tiling)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisTTL != 30*time.Second {
		t.Fatalf("redis = %q %v", cfg.RedisAddr, cfg.RedisTTL)
	}
	if cfg.DatabaseMigrate {
		t.Fatalf("DatabaseMigrate = true, want false")
	}
}

func TestFromViper_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad duration", key: "CALSPOTS_GRPC_REQUEST_TIMEOUT", val: "soon"},
		{name: "unknown source", key: "CALSPOTS_CALENDAR_SOURCE", val: "s3"},
		{name: "unknown tiling", key: "CALSPOTS_AVAILABILITY_TILING", val: "greedy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := FromViper(New()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
