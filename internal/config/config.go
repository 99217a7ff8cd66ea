package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/lwcp/internal/logging"
	"github.com/danmuck/lwcp/internal/protocol"
	"github.com/danmuck/lwcp/internal/protocol/schema"
	"github.com/danmuck/lwcp/internal/protocol/stream"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Config struct {
	Log    logging.Options
	Decode DecodeConfig
	Rules  []schema.Rule
}

type DecodeConfig struct {
	Format string
	Stream stream.Config
	Strict bool
}

type fileConfig struct {
	Log    logSection    `toml:"log"`
	Decode decodeSection `toml:"decode"`
	Schema []ruleSection `toml:"schema"`
}

type logSection struct {
	Level     string `toml:"level"`
	Timestamp bool   `toml:"timestamp"`
	NoColor   bool   `toml:"no_color"`
}

type decodeSection struct {
	Format          string `toml:"format"`
	ChunkSize       int    `toml:"chunk_size"`
	MaxPendingBytes int    `toml:"max_pending_bytes"`
	MaxMessageBytes int    `toml:"max_message_bytes"`
	Strict          bool   `toml:"strict"`
}

type ruleSection struct {
	Op         string            `toml:"op"`
	MinObjects int               `toml:"min_objects"`
	Required   []string          `toml:"required"`
	Types      map[string]string `toml:"types"`
}

func Default() Config {
	return Config{
		Log: logging.DefaultOptions(logging.ProfileRuntime),
		Decode: DecodeConfig{
			Format: FormatText,
			Stream: stream.DefaultConfig(),
		},
	}
}

// Load reads a TOML file over Default. Keys absent from the file keep their
// default. An empty path yields Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	var raw fileConfig
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := apply(&cfg, raw, meta); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func apply(cfg *Config, raw fileConfig, meta toml.MetaData) error {
	if meta.IsDefined("log", "level") {
		lvl, ok := logging.ParseLevel(raw.Log.Level)
		if !ok {
			return fmt.Errorf("unknown log level %q", raw.Log.Level)
		}
		cfg.Log.Level = lvl
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}

	if meta.IsDefined("decode", "format") {
		cfg.Decode.Format = strings.ToLower(strings.TrimSpace(raw.Decode.Format))
	}
	if meta.IsDefined("decode", "chunk_size") {
		cfg.Decode.Stream.ChunkSize = raw.Decode.ChunkSize
	}
	if meta.IsDefined("decode", "max_pending_bytes") {
		cfg.Decode.Stream.Limits.MaxPendingBytes = raw.Decode.MaxPendingBytes
	}
	if meta.IsDefined("decode", "max_message_bytes") {
		cfg.Decode.Stream.Limits.MaxMessageBytes = raw.Decode.MaxMessageBytes
	}
	if meta.IsDefined("decode", "strict") {
		cfg.Decode.Strict = raw.Decode.Strict
	}

	for i, rs := range raw.Schema {
		rule := schema.Rule{
			Op:         strings.TrimSpace(rs.Op),
			MinObjects: rs.MinObjects,
			Required:   rs.Required,
		}
		if len(rs.Types) > 0 {
			rule.Types = make(map[string]protocol.Type, len(rs.Types))
			for name, typeName := range rs.Types {
				t, ok := protocol.ParseType(typeName)
				if !ok {
					return fmt.Errorf("schema[%d] property %q: unknown type %q", i, name, typeName)
				}
				rule.Types[name] = t
			}
		}
		cfg.Rules = append(cfg.Rules, rule)
	}
	return nil
}

func Validate(cfg Config) error {
	switch cfg.Decode.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("decode config format %q unsupported", cfg.Decode.Format)
	}
	if cfg.Decode.Stream.ChunkSize <= 0 {
		return fmt.Errorf("decode config chunk_size must be positive")
	}
	if cfg.Decode.Stream.Limits.MaxPendingBytes < 0 || cfg.Decode.Stream.Limits.MaxMessageBytes < 0 {
		return fmt.Errorf("decode config limits must not be negative")
	}
	if _, err := schema.New(cfg.Rules...); err != nil {
		return fmt.Errorf("schema config invalid: %w", err)
	}
	return nil
}

// Registry builds the schema registry for cfg.Rules.
func (c Config) Registry() (*schema.Registry, error) {
	return schema.New(c.Rules...)
}
