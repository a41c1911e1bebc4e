package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestCLI() *CLI {
	return New(io.Discard, log.InfoLevel)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := map[string]bool{
		"place":      false,
		"column":     false,
		"graph":      false,
		"settings":   false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command is missing %q", name)
		}
	}
}

func TestRootCommandName(t *testing.T) {
	root := newTestCLI().RootCommand()
	if root.Use != "pilaster" {
		t.Errorf("Use = %q", root.Use)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug should be filtered at info level")
	}

	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug should pass after SetLogLevel")
	}
}

func TestLoadSettingsExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte(`base_family = "Steel Column"`), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI()
	c.configPath = path
	s, err := c.loadSettings()
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if s.BaseFamily != "Steel Column" {
		t.Errorf("base_family = %q", s.BaseFamily)
	}
}

func TestLoadSettingsMissingExplicitPath(t *testing.T) {
	c := newTestCLI()
	c.configPath = filepath.Join(t.TempDir(), "absent.toml")
	if _, err := c.loadSettings(); err == nil {
		t.Error("an explicit --config path that does not exist should fail")
	}
}

func TestOpenOutputStdout(t *testing.T) {
	out, err := openOutput("")
	if err != nil {
		t.Fatalf("openOutput: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOpenOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	out, err := openOutput(path)
	if err != nil {
		t.Fatalf("openOutput: %v", err)
	}
	if _, err := out.Write([]byte("data")); err != nil {
		t.Fatal(err)
	}
	out.Close()

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "data" {
		t.Errorf("file content = %q, err = %v", data, err)
	}
}
