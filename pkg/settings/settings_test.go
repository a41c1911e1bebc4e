package settings

import (
	"os"
	"path/filepath"
	"testing"

	"pilaster/pkg/batch"
	"pilaster/pkg/errors"
)

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilaster.toml")
	content := `
tolerance = 0.001
base_family = "Concrete Column"
width_params = ["b", "Breite"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Tolerance != 0.001 {
		t.Errorf("tolerance = %v", s.Tolerance)
	}
	if s.BaseFamily != "Concrete Column" {
		t.Errorf("base_family = %q", s.BaseFamily)
	}
	if len(s.WidthParams) != 2 || s.WidthParams[1] != "Breite" {
		t.Errorf("width_params = %v", s.WidthParams)
	}
	// Keys absent from the file stay zero.
	if s.MaxSize != 0 {
		t.Errorf("max_size = %v, want 0", s.MaxSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeSettingsIO) {
		t.Errorf("err = %v, want SETTINGS_IO", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("tolerance = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeSettingsIO) {
		t.Errorf("err = %v, want SETTINGS_IO", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilaster.toml")
	src := Default()
	src.BaseFamily = "Steel Column"
	src.Elevation = 3.5

	if err := Save(src, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BaseFamily != "Steel Column" || got.Elevation != 3.5 {
		t.Errorf("round trip lost values: %+v", got)
	}
	if got.FailurePreview != batch.DefaultFailurePreview {
		t.Errorf("failure_preview = %d", got.FailurePreview)
	}
}

func TestApplyFlagsWin(t *testing.T) {
	s := Settings{Tolerance: 0.002, BaseFamily: "From File", Elevation: 9}
	opts := batch.Options{Tolerance: 0.5, BaseFamily: "From Flag"}

	s.Apply(&opts)
	if opts.Tolerance != 0.5 {
		t.Errorf("tolerance = %v, flag should win", opts.Tolerance)
	}
	if opts.BaseFamily != "From Flag" {
		t.Errorf("base_family = %q, flag should win", opts.BaseFamily)
	}
	if opts.Elevation != 9 {
		t.Errorf("elevation = %v, file should fill the gap", opts.Elevation)
	}
}
