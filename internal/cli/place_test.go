package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pilaster/pkg/modelio"
)

// writeSnapshotFile writes a minimal placeable snapshot and returns its path.
func writeSnapshotFile(t *testing.T, dir string) string {
	t.Helper()
	content := `{
		"levels": [{"name": "Ground", "elevation": 0}],
		"symbols": [{
			"family": "Concrete Column",
			"name": "Base",
			"params": {"b": 0.3, "h": 0.3},
			"active": true
		}],
		"segments": [
			{"start": {"x": 0, "y": 0}, "end": {"x": 2, "y": 0}},
			{"start": {"x": 2, "y": 0}, "end": {"x": 2, "y": 1}},
			{"start": {"x": 2, "y": 1}, "end": {"x": 0, "y": 1}},
			{"start": {"x": 0, "y": 1}, "end": {"x": 0, "y": 0}}
		]
	}`
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlaceCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshotFile(t, dir)
	out := filepath.Join(dir, "out.json")

	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"place", in, "-y", "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("place: %v", err)
	}

	snap, err := modelio.Import(out)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(snap.Columns) != 1 {
		t.Fatalf("output has %d columns, want 1", len(snap.Columns))
	}
	if c := snap.Columns[0].Center; c.X != 1 || c.Y != 0.5 {
		t.Errorf("column at %v, want (1, 0.5)", c)
	}
	// Input selection survives the round trip.
	if len(snap.Segments) != 4 {
		t.Errorf("output has %d segments, want 4", len(snap.Segments))
	}
}

func TestPlaceCommandMissingFile(t *testing.T) {
	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"place", filepath.Join(t.TempDir(), "absent.json"), "-y"})
	if err := root.Execute(); err == nil {
		t.Error("missing snapshot should fail")
	}
}

func TestPlaceCommandNoSegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"levels": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"place", path, "-y"})
	if err := root.Execute(); err == nil {
		t.Error("snapshot without segments should fail")
	}
}

func TestColumnCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshotFile(t, dir)
	out := filepath.Join(dir, "out.json")

	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"column", in, "4", "5", "0.4", "0.6", "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("column: %v", err)
	}

	snap, err := modelio.Import(out)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(snap.Columns) != 1 {
		t.Fatalf("output has %d columns, want 1", len(snap.Columns))
	}
	if c := snap.Columns[0].Center; c.X != 4 || c.Y != 5 {
		t.Errorf("column at %v, want (4, 5)", c)
	}
}

func TestColumnCommandBadNumber(t *testing.T) {
	in := writeSnapshotFile(t, t.TempDir())

	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"column", in, "4", "five", "0.4", "0.6"})
	if err := root.Execute(); err == nil {
		t.Error("non-numeric coordinate should fail")
	}
}

func TestGraphCommandDOT(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshotFile(t, dir)
	out := filepath.Join(dir, "graph.dot")

	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"graph", in, "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("graph: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); !strings.Contains(got, "graph connectivity") {
		t.Errorf("dot output missing header:\n%s", got)
	}
}

func TestGraphCommandBadFormat(t *testing.T) {
	in := writeSnapshotFile(t, t.TempDir())

	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"graph", in, "-f", "png"})
	if err := root.Execute(); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestSettingsInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilaster.toml")

	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"settings", "init", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("settings init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "tolerance") {
		t.Errorf("settings file missing keys:\n%s", data)
	}
}
