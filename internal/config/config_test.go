package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/lwcp/internal/protocol"
	"github.com/danmuck/lwcp/internal/protocol/schema"
	"github.com/danmuck/lwcp/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lwcp.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Decode.Format != FormatText {
		t.Fatalf("unexpected format: %q", cfg.Decode.Format)
	}
	if cfg.Decode.Stream.ChunkSize != 4096 {
		t.Fatalf("unexpected chunk size: %d", cfg.Decode.Stream.ChunkSize)
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[log]
level = "warn"

[decode]
format = "JSON"
max_message_bytes = 128
strict = true

[[schema]]
op = "call"
min_objects = 1
required = ["number"]
  [schema.types]
  number = "string"
  hybrid = "enum"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Log.Level != zerolog.WarnLevel {
		t.Fatalf("unexpected level: %v", cfg.Log.Level)
	}
	if !cfg.Log.Timestamp {
		t.Fatalf("timestamp default should survive a partial [log] section")
	}
	if cfg.Decode.Format != FormatJSON || !cfg.Decode.Strict {
		t.Fatalf("unexpected decode config: %+v", cfg.Decode)
	}
	if cfg.Decode.Stream.Limits.MaxMessageBytes != 128 {
		t.Fatalf("unexpected message limit: %d", cfg.Decode.Stream.Limits.MaxMessageBytes)
	}
	if cfg.Decode.Stream.Limits.MaxPendingBytes != 1<<20 {
		t.Fatalf("pending limit default lost: %d", cfg.Decode.Stream.Limits.MaxPendingBytes)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Types["hybrid"] != protocol.TypeEnum {
		t.Fatalf("unexpected rules: %+v", cfg.Rules)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	msg, err := protocol.ParseMessage("call studio#1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := reg.Validate(msg); !errors.Is(err, schema.ErrMissingProperty) {
		t.Fatalf("expected missing property, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "syntax", body: "[decode\n", want: "config parse failed"},
		{name: "level", body: "[log]\nlevel = \"loud\"\n", want: "unknown log level"},
		{name: "type", body: "[[schema]]\nop = \"call\"\n[schema.types]\nx = \"blob\"\n", want: "unknown type"},
		{name: "format", body: "[decode]\nformat = \"xml\"\n", want: "unsupported"},
		{name: "chunk", body: "[decode]\nchunk_size = 0\n", want: "chunk_size"},
		{name: "rule", body: "[[schema]]\nop = \"9x\"\n", want: "schema config invalid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "config load failed") {
		t.Fatalf("expected load failure, got %v", err)
	}
}
