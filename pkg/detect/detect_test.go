package detect

import (
	"fmt"
	"strings"
	"testing"

	"pilaster/pkg/geometry"
)

// rectSegments builds the 4 edges of an axis-aligned rectangle with the
// given origin and size. IDs are prefixed so multiple rectangles can share
// a segment list.
func rectSegments(prefix string, x, y, w, h float64) []geometry.Segment {
	return []geometry.Segment{
		{ID: prefix + "-bottom", Start: geometry.Pt(x, y), End: geometry.Pt(x+w, y)},
		{ID: prefix + "-right", Start: geometry.Pt(x+w, y), End: geometry.Pt(x+w, y+h)},
		{ID: prefix + "-top", Start: geometry.Pt(x+w, y+h), End: geometry.Pt(x, y+h)},
		{ID: prefix + "-left", Start: geometry.Pt(x, y+h), End: geometry.Pt(x, y)},
	}
}

func TestDetectSingleRectangle(t *testing.T) {
	segs := rectSegments("r", 0, 0, 4, 3)

	candidates, unused := Detect(segs, Options{})
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if len(unused) != 0 {
		t.Errorf("got %d unused segments, want 0", len(unused))
	}

	a := candidates[0].Analysis
	if a.Width != 4 || a.Height != 3 {
		t.Errorf("size = %vx%v, want 4x3", a.Width, a.Height)
	}
	if a.Center != geometry.Pt(2, 1.5) {
		t.Errorf("center = %v", a.Center)
	}
}

func TestDetectIncompleteLoop(t *testing.T) {
	// Removing any one of the 4 edges must yield no candidate.
	full := rectSegments("r", 0, 0, 4, 3)
	for drop := range full {
		var segs []geometry.Segment
		for i, s := range full {
			if i != drop {
				segs = append(segs, s)
			}
		}
		candidates, unused := Detect(segs, Options{})
		if len(candidates) != 0 {
			t.Errorf("drop %d: got %d candidates, want 0", drop, len(candidates))
		}
		if len(unused) != 3 {
			t.Errorf("drop %d: got %d unused, want 3", drop, len(unused))
		}
	}
}

func TestDetectDirectionSymmetric(t *testing.T) {
	// Reversing any segment's stored endpoints must not change the outcome.
	base := rectSegments("r", 1, 1, 2, 2)
	for flip := 0; flip < len(base); flip++ {
		segs := make([]geometry.Segment, len(base))
		copy(segs, base)
		segs[flip].Start, segs[flip].End = segs[flip].End, segs[flip].Start

		candidates, _ := Detect(segs, Options{})
		if len(candidates) != 1 {
			t.Errorf("flip %d: got %d candidates, want 1", flip, len(candidates))
		}
	}
}

func TestDetectTwoRectanglesWithStrays(t *testing.T) {
	// Scenario: 8 segments forming 2 disjoint rectangles plus 3 stray
	// segments; expect exactly 2 candidates and 3 unused segments.
	var segs []geometry.Segment
	segs = append(segs, rectSegments("a", 0, 0, 2, 1)...)
	segs = append(segs, geometry.Segment{ID: "stray-1", Start: geometry.Pt(10, 10), End: geometry.Pt(12, 10)})
	segs = append(segs, rectSegments("b", 5, 5, 3, 2)...)
	segs = append(segs, geometry.Segment{ID: "stray-2", Start: geometry.Pt(-3, 0), End: geometry.Pt(-3, 4)})
	segs = append(segs, geometry.Segment{ID: "stray-3", Start: geometry.Pt(20, 0), End: geometry.Pt(21, 1)})

	candidates, unused := Detect(segs, Options{})
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if len(unused) != 3 {
		t.Fatalf("got %d unused, want 3", len(unused))
	}
	for _, s := range unused {
		if s.ID[:5] != "stray" {
			t.Errorf("unexpected unused segment %s", s.ID)
		}
	}
}

func TestDetectSharedCornerStrays(t *testing.T) {
	// A stray touching a rectangle corner must not break detection: the
	// walk may pick it up, fail validation or closure, and retry without
	// consuming the rectangle's edges.
	segs := []geometry.Segment{
		{ID: "stray", Start: geometry.Pt(4, 0), End: geometry.Pt(8, -2)},
	}
	segs = append(segs, rectSegments("r", 0, 0, 4, 3)...)

	candidates, unused := Detect(segs, Options{})
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if len(unused) != 1 || unused[0].ID != "stray" {
		t.Errorf("unused = %v", unused)
	}
}

func TestDetectManyRectangles(t *testing.T) {
	var segs []geometry.Segment
	const n = 66
	for i := 0; i < n; i++ {
		x := float64(i%11) * 10
		y := float64(i/11) * 10
		segs = append(segs, rectSegments(fmt.Sprintf("r%d", i), x, y, 2.5, 1.5)...)
	}

	candidates, unused := Detect(segs, Options{})
	if len(candidates) != n {
		t.Fatalf("got %d candidates, want %d", len(candidates), n)
	}
	if len(unused) != 0 {
		t.Errorf("got %d unused, want 0", len(unused))
	}
}

func TestDetectToleranceGaps(t *testing.T) {
	// Endpoints jittered within tolerance still connect.
	eps := 1e-7
	segs := []geometry.Segment{
		{ID: "b", Start: geometry.Pt(0, 0), End: geometry.Pt(4+eps, -eps)},
		{ID: "r", Start: geometry.Pt(4, 0), End: geometry.Pt(4-eps, 3)},
		{ID: "t", Start: geometry.Pt(4, 3+eps), End: geometry.Pt(eps, 3)},
		{ID: "l", Start: geometry.Pt(0, 3), End: geometry.Pt(-eps, eps)},
	}
	candidates, _ := Detect(segs, Options{Tolerance: 1e-6})
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
}

func TestIndexAt(t *testing.T) {
	segs := rectSegments("r", 0, 0, 4, 3)
	ix := BuildIndex(segs, 1e-6)

	hits := ix.At(geometry.Pt(4, 0))
	if len(hits) != 2 {
		t.Fatalf("corner should touch 2 segments, got %d", len(hits))
	}
	// Results come back in input order.
	if hits[0] != 0 || hits[1] != 1 {
		t.Errorf("hits = %v, want [0 1]", hits)
	}

	if got := ix.At(geometry.Pt(2, 2)); len(got) != 0 {
		t.Errorf("interior point should touch nothing, got %v", got)
	}
}

func TestToDOT(t *testing.T) {
	segs := rectSegments("r", 0, 0, 1, 1)
	ix := BuildIndex(segs, 1e-6)

	dot := ToDOT(ix, DOTOptions{Detailed: true})
	if len(dot) == 0 {
		t.Fatal("empty DOT output")
	}
	for _, want := range []string{"graph connectivity", "r-bottom", "--"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
}
