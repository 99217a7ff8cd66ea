package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "LWCP_LOG_LEVEL"
	EnvLogTimestamp = "LWCP_LOG_TIMESTAMP"
	EnvLogNoColor   = "LWCP_LOG_NOCOLOR"
	EnvLogBypass    = "LWCP_LOG_BYPASS"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Options describes the process-wide logger. Bypass skips console
// formatting and writes raw JSON lines.
type Options struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Bypass    bool
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	ConfigureWith(DefaultOptions(profile))
}

// ConfigureWith installs opts as the global logger. Environment overrides
// still apply on top. Only the first call in a process has any effect.
func ConfigureWith(opts Options) {
	configureOnce.Do(func() {
		applyEnvOverrides(&opts)
		Apply(opts)
	})
}

func DefaultOptions(profile Profile) Options {
	switch profile {
	case ProfileTest:
		return Options{Level: zerolog.DebugLevel, Timestamp: false}
	default:
		return Options{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

// Apply replaces the global logger unconditionally.
func Apply(opts Options) {
	zerolog.SetGlobalLevel(opts.Level)

	var ctx zerolog.Context
	if opts.Bypass {
		ctx = zerolog.New(os.Stderr).With()
	} else {
		out := zerolog.ConsoleWriter{
			Out:        colorable.NewColorableStderr(),
			NoColor:    opts.NoColor || !isatty.IsTerminal(os.Stderr.Fd()),
			TimeFormat: time.RFC3339,
		}
		if !opts.Timestamp {
			out.PartsExclude = []string{zerolog.TimestampFieldName}
		}
		ctx = zerolog.New(out).With()
	}
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	log.Logger = ctx.Logger()
}

// For returns a child of the global logger tagged with component.
func For(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

func applyEnvOverrides(opts *Options) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		opts.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		opts.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		opts.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogBypass)); ok {
		opts.Bypass = v
	}
}

// ParseLevel maps a level name to a zerolog level. ok is false for an
// empty or unknown name.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
