package detect

import (
	"fmt"

	"pilaster/pkg/geometry"
)

// Analysis is the result of validating a 4-segment loop.
//
// When Valid is true the corners partition into exactly two distinct
// X-levels and two distinct Y-levels, each shared by exactly two corners,
// and Width and Height are within the configured size bounds.
type Analysis struct {
	Corners [4]geometry.Point2D
	Width   float64
	Height  float64
	Center  geometry.Point2D
	Valid   bool
	Reason  string
}

// Analyze checks whether a closed 4-segment loop forms a true axis-aligned
// rectangle within size bounds.
//
// It rejects any closed quadrilateral that is not an axis-aligned
// rectangle: parallelograms, trapezoids, and rotated rectangles all fail
// the two-X-levels/two-Y-levels clustering test. Degenerate (near-zero)
// loops fail the size bounds.
func Analyze(loop [4]geometry.Segment, opts Options) Analysis {
	opts.setDefaults()
	tol := opts.Tolerance

	// The 8 endpoints must reduce to exactly 4 distinct corners.
	var corners []geometry.Point2D
	for _, s := range loop {
		for _, p := range []geometry.Point2D{s.Start, s.End} {
			known := false
			for _, c := range corners {
				if geometry.EqualPoints(p, c, tol) {
					known = true
					break
				}
			}
			if !known {
				corners = append(corners, p)
			}
		}
	}
	if len(corners) != 4 {
		return invalid("loop has %d distinct corners, want 4", len(corners))
	}

	box := geometry.BoundingBox(corners)
	a := Analysis{
		Width:  box.Width,
		Height: box.Height,
		Center: box.Center(),
	}
	copy(a.Corners[:], corners)

	if a.Width < opts.MinSize-tol || a.Height < opts.MinSize-tol {
		a.Reason = fmt.Sprintf("size %.3fx%.3f below minimum %.3f", a.Width, a.Height, opts.MinSize)
		return a
	}
	if a.Width > opts.MaxSize+tol || a.Height > opts.MaxSize+tol {
		a.Reason = fmt.Sprintf("size %.3fx%.3f above maximum %.3f", a.Width, a.Height, opts.MaxSize)
		return a
	}

	// Axis alignment: corners must cluster into 2 X-levels and 2 Y-levels
	// of 2 corners each.
	if !clustersInPairs(corners, tol, func(p geometry.Point2D) float64 { return p.X }) {
		a.Reason = "corners do not form 2 X-levels of 2"
		return a
	}
	if !clustersInPairs(corners, tol, func(p geometry.Point2D) float64 { return p.Y }) {
		a.Reason = "corners do not form 2 Y-levels of 2"
		return a
	}

	a.Valid = true
	return a
}

// clustersInPairs reports whether the coordinate values extracted from the
// 4 points form exactly 2 tolerance-distinct levels of exactly 2 points.
func clustersInPairs(points []geometry.Point2D, tol float64, coord func(geometry.Point2D) float64) bool {
	var levels []float64
	counts := make(map[int]int)
	for _, p := range points {
		v := coord(p)
		found := -1
		for i, lv := range levels {
			if v >= lv-tol && v <= lv+tol {
				found = i
				break
			}
		}
		if found < 0 {
			levels = append(levels, v)
			found = len(levels) - 1
		}
		counts[found]++
	}
	return len(levels) == 2 && counts[0] == 2 && counts[1] == 2
}

func invalid(format string, args ...any) Analysis {
	return Analysis{Reason: fmt.Sprintf(format, args...)}
}
