package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

var sampleDir = filepath.Join("..", "..", "calendars")

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunSpots_SampleCalendars(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "calendar 1 buffered slot",
			args: []string{"spots", "--dir", sampleDir, "--calendar", "1", "--date", "10-04-2023", "--duration", "30"},
			want: "1 slots on 2023-04-10\n16:00-16:50 client 16:15-16:45\n",
		},
		{
			name: "calendar 2 unbuffered slot",
			args: []string{"spots", "--dir", sampleDir, "--calendar", "2", "--date", "13-04-2023", "--duration", "25"},
			want: "1 slots on 2023-04-13\n18:00-18:25 client 18:00-18:25\n",
		},
		{
			name: "fully booked day",
			args: []string{"spots", "--dir", sampleDir, "--calendar", "2", "--date", "16-04-2023", "--duration", "25"},
			want: "0 slots on 2023-04-16\n",
		},
		{
			name: "packed tiling",
			args: []string{"spots", "--dir", sampleDir, "--calendar", "2", "--date", "13-04-2023", "--duration", "25", "--tiling", "packed"},
			want: "2 slots on 2023-04-13\n18:00-18:25 client 18:00-18:25\n18:25-18:50 client 18:25-18:50\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr)
			}
			if stdout != tt.want {
				t.Fatalf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestRunSpots_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing calendar", args: []string{"spots", "--dir", sampleDir, "--date", "10-04-2023", "--duration", "30"}, wantErr: "--calendar and --date are required"},
		{name: "unknown calendar", args: []string{"spots", "--dir", sampleDir, "--calendar", "404", "--date", "10-04-2023", "--duration", "30"}, wantErr: "not found"},
		{name: "zero duration", args: []string{"spots", "--dir", sampleDir, "--calendar", "1", "--date", "10-04-2023"}, wantErr: "duration"},
		{name: "bad tiling", args: []string{"spots", "--dir", sampleDir, "--calendar", "1", "--date", "10-04-2023", "--duration", "30", "--tiling", "greedy"}, wantErr: "tiling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Fatalf("stderr = %q, want it to contain %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestRun_Usage(t *testing.T) {
	if code, _, stderr := runCLI(t); code != 2 || !strings.Contains(stderr, "usage:") {
		t.Fatalf("no args: code = %d, stderr = %q", code, stderr)
	}
	if code, _, _ := runCLI(t, "publish"); code != 2 {
		t.Fatalf("unknown command code = %d, want 2", code)
	}
	if code, stdout, _ := runCLI(t, "help"); code != 0 || !strings.Contains(stdout, "calspots spots") {
		t.Fatalf("help: code = %d, stdout = %q", code, stdout)
	}
}
