package detect

import (
	"strings"
	"testing"

	"pilaster/pkg/geometry"
)

// loopOf builds a closed 4-segment loop through the given corner points.
func loopOf(p0, p1, p2, p3 geometry.Point2D) [4]geometry.Segment {
	return [4]geometry.Segment{
		{ID: "s0", Start: p0, End: p1},
		{ID: "s1", Start: p1, End: p2},
		{ID: "s2", Start: p2, End: p3},
		{ID: "s3", Start: p3, End: p0},
	}
}

func TestAnalyzeValidRectangle(t *testing.T) {
	loop := loopOf(geometry.Pt(0, 0), geometry.Pt(4, 0), geometry.Pt(4, 3), geometry.Pt(0, 3))
	a := Analyze(loop, Options{})
	if !a.Valid {
		t.Fatalf("rejected valid rectangle: %s", a.Reason)
	}
	if a.Width != 4 || a.Height != 3 {
		t.Errorf("size = %vx%v", a.Width, a.Height)
	}
	if a.Center != geometry.Pt(2, 1.5) {
		t.Errorf("center = %v", a.Center)
	}
}

func TestAnalyzeParallelogram(t *testing.T) {
	// Corners (0,0),(4,0),(5,3),(1,3): a closed quadrilateral but not
	// axis-aligned - must fail the 2-X-levels-of-2 clustering.
	loop := loopOf(geometry.Pt(0, 0), geometry.Pt(4, 0), geometry.Pt(5, 3), geometry.Pt(1, 3))
	a := Analyze(loop, Options{})
	if a.Valid {
		t.Fatal("parallelogram must be rejected")
	}
	if !strings.Contains(a.Reason, "X-levels") {
		t.Errorf("reason = %q, want X-level clustering failure", a.Reason)
	}
}

func TestAnalyzeRotatedRectangle(t *testing.T) {
	// A 45-degree rectangle: right angles, but not axis-aligned.
	loop := loopOf(geometry.Pt(0, 0), geometry.Pt(2, 2), geometry.Pt(1, 3), geometry.Pt(-1, 1))
	a := Analyze(loop, Options{})
	if a.Valid {
		t.Fatal("rotated rectangle must be rejected")
	}
}

func TestAnalyzeOpenLoop(t *testing.T) {
	// Fourth segment does not return to the start: 5 distinct corners.
	loop := [4]geometry.Segment{
		{Start: geometry.Pt(0, 0), End: geometry.Pt(4, 0)},
		{Start: geometry.Pt(4, 0), End: geometry.Pt(4, 3)},
		{Start: geometry.Pt(4, 3), End: geometry.Pt(0, 3)},
		{Start: geometry.Pt(0, 3), End: geometry.Pt(0, 1)},
	}
	a := Analyze(loop, Options{})
	if a.Valid {
		t.Fatal("open loop must be rejected")
	}
	if !strings.Contains(a.Reason, "corners") {
		t.Errorf("reason = %q", a.Reason)
	}
}

func TestAnalyzeSizeBounds(t *testing.T) {
	opts := Options{MinSize: 0.01, MaxSize: 50}

	cases := []struct {
		name  string
		w, h  float64
		valid bool
	}{
		{"at minimum", 0.01, 0.01, true},
		{"below minimum", 0.009, 0.01, false},
		{"at maximum", 50, 50, true},
		{"above maximum", 50.001, 50, false},
		{"typical", 2.5, 1.5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loop := loopOf(geometry.Pt(0, 0), geometry.Pt(tc.w, 0), geometry.Pt(tc.w, tc.h), geometry.Pt(0, tc.h))
			a := Analyze(loop, opts)
			if a.Valid != tc.valid {
				t.Errorf("%gx%g: valid = %v, want %v (%s)", tc.w, tc.h, a.Valid, tc.valid, a.Reason)
			}
		})
	}
}

func TestAnalyzeJitteredCorners(t *testing.T) {
	// Corners displaced well inside tolerance still validate.
	eps := 1e-8
	loop := loopOf(
		geometry.Pt(0+eps, 0-eps),
		geometry.Pt(4-eps, 0+eps),
		geometry.Pt(4+eps, 3+eps),
		geometry.Pt(0-eps, 3-eps),
	)
	a := Analyze(loop, Options{Tolerance: 1e-6})
	if !a.Valid {
		t.Fatalf("jittered rectangle rejected: %s", a.Reason)
	}
}
