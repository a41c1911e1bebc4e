// Package modelio reads and writes model snapshot files.
//
// A snapshot is a JSON document holding everything a batch run needs from a
// host model: levels, the symbol catalog, the input segment selection, and
// any columns already placed. The CLI uses snapshots to drive the engine
// without a live host and to persist run results for inspection.
package modelio

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"pilaster/pkg/errors"
	"pilaster/pkg/geometry"
	"pilaster/pkg/host"
	"pilaster/pkg/host/memmodel"
)

// Snapshot is the on-disk model document.
type Snapshot struct {
	Levels   []host.Level          `json:"levels"`
	Symbols  []memmodel.SymbolSpec `json:"symbols,omitempty"`
	Defaults []memmodel.SymbolSpec `json:"defaults,omitempty"`
	Segments []geometry.Segment    `json:"segments,omitempty"`
	Columns  []memmodel.Column     `json:"columns,omitempty"`
}

// Write encodes a snapshot as indented JSON to w.
func Write(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeSnapshotIO, err, "encode snapshot")
	}
	return nil
}

// Export writes a snapshot to a JSON file at path.
// This is a convenience wrapper around [Write] for file-based output.
func Export(s *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSnapshotIO, err, "create %s", path)
	}
	defer f.Close()
	return Write(s, f)
}

// Read decodes a snapshot from r.
//
// Segment IDs are optional in the input; segments without one are assigned
// a positional ID so detection logs and reports can name them. Read does
// not close r.
func Read(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSnapshotIO, err, "decode snapshot")
	}

	seen := make(map[string]bool, len(s.Symbols))
	for _, spec := range s.Symbols {
		if spec.Name == "" {
			return nil, errors.New(errors.ErrCodeSnapshotIO, "symbol without a name")
		}
		if seen[spec.Name] {
			return nil, errors.New(errors.ErrCodeSnapshotIO, "duplicate symbol %q", spec.Name)
		}
		seen[spec.Name] = true
	}
	for i := range s.Segments {
		if s.Segments[i].ID == "" {
			s.Segments[i].ID = "s" + strconv.Itoa(i+1)
		}
	}
	return &s, nil
}

// Import reads a snapshot file at path.
//
// Import opens the file, decodes it using [Read], and closes the file.
// Errors wrap the underlying cause with the file path for context.
func Import(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSnapshotIO, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// BuildModel constructs an in-memory model from a snapshot. Columns in the
// snapshot are not re-created; they record past runs, not pending work.
func BuildModel(s *Snapshot) *memmodel.Model {
	m := memmodel.New()
	for _, lvl := range s.Levels {
		m.AddLevel(lvl.Name, lvl.Elevation)
	}
	for _, spec := range s.Symbols {
		m.AddSymbol(spec)
	}
	m.Defaults = s.Defaults
	return m
}

// Capture extracts a snapshot from a model, preserving the segment
// selection from the source snapshot so a run's input and output live in
// one document.
func Capture(m *memmodel.Model, segments []geometry.Segment) (*Snapshot, error) {
	levels, err := m.Levels(context.Background())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSnapshotIO, err, "list levels")
	}
	return &Snapshot{
		Levels:   levels,
		Symbols:  m.SymbolSpecs(),
		Segments: segments,
		Columns:  m.Columns(),
	}, nil
}
