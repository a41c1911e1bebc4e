package geometry

import (
	"math"
	"testing"
)

func TestEqualPoints(t *testing.T) {
	a := Pt(1.0, 2.0)
	b := Pt(1.0+5e-7, 2.0-5e-7)
	if !EqualPoints(a, b, 1e-6) {
		t.Error("points within tolerance should be equal")
	}
	c := Pt(1.0+2e-6, 2.0)
	if EqualPoints(a, c, 1e-6) {
		t.Error("points outside tolerance should not be equal")
	}
}

func TestSegmentOther(t *testing.T) {
	s := Segment{ID: "s1", Start: Pt(0, 0), End: Pt(4, 0)}

	if got := s.Other(Pt(0, 0), 1e-6); got != s.End {
		t.Errorf("Other(start) = %v, want end", got)
	}
	if got := s.Other(Pt(4, 0), 1e-6); got != s.Start {
		t.Errorf("Other(end) = %v, want start", got)
	}
	// Near-coincident point still resolves to the far endpoint.
	if got := s.Other(Pt(1e-7, -1e-7), 1e-6); got != s.End {
		t.Errorf("Other(near start) = %v, want end", got)
	}
}

func TestSegmentTouches(t *testing.T) {
	s := Segment{Start: Pt(1, 1), End: Pt(1, 5)}
	if !s.Touches(Pt(1, 5), 1e-6) {
		t.Error("endpoint should touch")
	}
	if s.Touches(Pt(1, 3), 1e-6) {
		t.Error("midpoint should not touch")
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{Pt(1, 3), Pt(5, 1), Pt(5, 3), Pt(1, 1)}
	box := BoundingBox(pts)
	if box.X != 1 || box.Y != 1 || box.Width != 4 || box.Height != 2 {
		t.Errorf("unexpected bbox: %+v", box)
	}
	center := box.Center()
	if center.X != 3 || center.Y != 2 {
		t.Errorf("unexpected center: %v", center)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	box := BoundingBox(nil)
	if box != (Rect{}) {
		t.Errorf("empty input should yield zero rect, got %+v", box)
	}
}

func TestQuantize(t *testing.T) {
	tol := 1e-6
	a := Quantize(Pt(1.0, 2.0), tol)
	b := Quantize(Pt(1.0+1e-8, 2.0-1e-8), tol)
	if a != b {
		t.Error("points well inside one cell should share a key")
	}
	c := Quantize(Pt(1.1, 2.0), tol)
	if a == c {
		t.Error("distant points must not share a key")
	}
}

func TestDimKey(t *testing.T) {
	if DimKey(2.5, 1.5) != "2.500x1.500" {
		t.Errorf("unexpected key: %s", DimKey(2.5, 1.5))
	}
	// Rounding collapses sub-millimeter noise into one key.
	if DimKey(2.5001, 1.4999) != DimKey(2.4999, 1.5001) {
		t.Error("keys within rounding should collapse")
	}
}

func TestDistance(t *testing.T) {
	d := Pt(0, 0).Distance(Pt(3, 4))
	if math.Abs(d-5) > 1e-12 {
		t.Errorf("distance = %v, want 5", d)
	}
}
