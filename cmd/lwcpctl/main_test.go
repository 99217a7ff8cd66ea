package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/danmuck/lwcp/internal/testutil/testlog"
)

const sample = "call studio#room700.line#3 number=\"555-1234\", hybrid=false $ack\n" +
	"drop studio.line#6\n"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecodeTextEchoesCanonicalMessages(t *testing.T) {
	testlog.Start(t)
	out, err := run(t, sample, "decode")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "call studio#room700.line#3 number=\"555-1234\",hybrid=false $ack\ndrop studio.line#6\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDecodeJSONLines(t *testing.T) {
	testlog.Start(t)
	out, err := run(t, sample, "decode", "--format", "json")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	var view messageView
	if err := json.Unmarshal([]byte(lines[0]), &view); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if view.Op != "call" || len(view.Objects) != 2 || view.Objects[0].ID != "room700" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Properties[0].Name != "number" || view.Properties[0].Value != "555-1234" {
		t.Fatalf("unexpected number property: %+v", view.Properties[0])
	}
	if view.Properties[1].Type != "ENUM" || view.SystemProperties[0].Name != "$ack" {
		t.Fatalf("unexpected properties: %+v %+v", view.Properties, view.SystemProperties)
	}
}

func TestDecodeYAMLDocuments(t *testing.T) {
	testlog.Start(t)
	out, err := run(t, sample, "decode", "--format", "yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	dec := yaml.NewDecoder(strings.NewReader(out))
	var ops []string
	for {
		var view messageView
		if err := dec.Decode(&view); err != nil {
			break
		}
		ops = append(ops, view.Op)
	}
	if strings.Join(ops, ",") != "call,drop" {
		t.Fatalf("unexpected ops: %v", ops)
	}
}

func TestDecodeStrictFailsOnDroppedMessage(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "lwcp.toml")
	if err := os.WriteFile(path, []byte("[decode]\nstrict = true\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := run(t, "9bad studio\nping\n", "--config", path, "decode")
	if !errors.Is(err, errStrict) {
		t.Fatalf("expected strict failure, got %v", err)
	}
	if _, err := run(t, "9bad studio\nping\n", "decode"); err != nil {
		t.Fatalf("non-strict decode should pass: %v", err)
	}
}

func TestDecodeValidateRejectsMessages(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "lwcp.toml")
	body := "[[schema]]\nop = \"call\"\nmin_objects = 1\nrequired = [\"number\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := run(t, "call studio\ncall studio number=1\n", "--config", path, "decode", "--validate")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != "call studio number=1\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDecodeReadsFileArgument(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "in.lwcp")
	if err := os.WriteFile(path, []byte("ping"), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out, err := run(t, "", "decode", path)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != "ping\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestFmtCheck(t *testing.T) {
	testlog.Start(t)
	if _, err := run(t, "ping\nset mixer gain=1\n", "fmt", "--check"); err != nil {
		t.Fatalf("canonical input rejected: %v", err)
	}
	_, err := run(t, "set  mixer gain=1 , mode=ON\n", "fmt", "--check")
	if !errors.Is(err, errNotCanonical) {
		t.Fatalf("expected errNotCanonical, got %v", err)
	}
	out, err := run(t, "set  mixer gain=1 , mode=ON\n\n", "fmt")
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if out != "set mixer gain=1,mode=ON\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestBuildMessage(t *testing.T) {
	testlog.Start(t)
	out, err := run(t, "", "build",
		"--op", "call",
		"--obj", "studio#1",
		"--obj", "line#3",
		"--prop", `number="101"`,
		"--prop", "hybrid=ON",
		"--prop", "$ack",
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if out != "call studio#1.line#3 number=\"101\",hybrid=ON $ack\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	testlog.Start(t)
	cases := [][]string{
		{"build", "--op", "9call"},
		{"build", "--op", "call", "--obj", "studio#a-b"},
		{"build", "--op", "call", "--prop", "gain=!!!"},
		{"build", "--op", "call", "--prop", "gain=1 2"},
		{"build", "--op", "call", "--prop", "bad name"},
	}
	for _, args := range cases {
		if _, err := run(t, "", args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestInvalidFormatFlag(t *testing.T) {
	testlog.Start(t)
	if _, err := run(t, "", "--format", "xml", "decode"); err == nil {
		t.Fatalf("expected invalid format error")
	}
}
