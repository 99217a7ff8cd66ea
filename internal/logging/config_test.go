package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARNING ", zerolog.WarnLevel, true},
		{"diagnostics", zerolog.TraceLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tc := range tests {
		got, ok := ParseLevel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "true")
	t.Setenv(EnvLogNoColor, "1")
	t.Setenv(EnvLogBypass, "nope")

	opts := DefaultOptions(ProfileTest)
	applyEnvOverrides(&opts)
	if opts.Level != zerolog.ErrorLevel {
		t.Fatalf("unexpected level: %v", opts.Level)
	}
	if !opts.Timestamp || !opts.NoColor {
		t.Fatalf("expected timestamp and no_color overrides: %+v", opts)
	}
	if opts.Bypass {
		t.Fatalf("invalid bool must not override bypass")
	}
}
