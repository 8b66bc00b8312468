package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	origLevel := GetLevel()
	defer SetLevel(origLevel)

	SetLevel(LevelWarn)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Errorf("debug message logged at warn level: %q", out)
	}
	if strings.Contains(out, "info message") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "error message") {
		t.Errorf("error message missing: %q", out)
	}
}

func TestPrefixAndFormatting(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	origLevel := GetLevel()
	defer SetLevel(origLevel)
	SetLevel(LevelInfo)

	Info("compiled %d chunks", 3)

	got := buf.String()
	want := "[VTC] compiled 3 chunks\n"
	if got != want {
		t.Errorf("log output = %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{" error ", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	for _, tt := range []struct {
		level Level
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
	} {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestNilOutput(t *testing.T) {
	SetOutput(nil)
	defer SetOutput(nil)

	// must not panic
	Info("dropped")
}
