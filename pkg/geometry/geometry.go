// Package geometry provides the 2D primitives and tolerance reasoning used
// by the detection and placement engine.
//
// All comparisons between coordinates go through an explicit tolerance.
// Model units are arbitrary; the engine never assumes millimetres or feet.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Point2D is a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for constructing a Point2D.
func Pt(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// String formats the point for logs and reports.
func (p Point2D) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// EqualPoints reports whether two points coincide within tol on both axes.
func EqualPoints(a, b Point2D, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol)
}

// Segment is a bounded 2D line owned by the host model. The engine only
// reads it; Start/End carry no orientation meaning for detection.
type Segment struct {
	ID    string  `json:"id"`
	Start Point2D `json:"start"`
	End   Point2D `json:"end"`
	Layer string  `json:"layer,omitempty"`
}

// Length returns the segment's Euclidean length.
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Other returns the endpoint opposite to p. It assumes p coincides with one
// of the two endpoints within tol; if neither matches, End is returned.
func (s Segment) Other(p Point2D, tol float64) Point2D {
	if EqualPoints(s.Start, p, tol) {
		return s.End
	}
	return s.Start
}

// Touches reports whether either endpoint coincides with p within tol.
func (s Segment) Touches(p Point2D, tol float64) bool {
	return EqualPoints(s.Start, p, tol) || EqualPoints(s.End, p, tol)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// PointKey is a point quantized to the tolerance grid. It is the map key of
// the connectivity index. Two points within tolerance of each other may
// land in adjacent cells, so index lookups probe the 3x3 neighborhood.
type PointKey struct {
	X int64
	Y int64
}

// Quantize maps a point onto the tolerance grid.
func Quantize(p Point2D, tol float64) PointKey {
	return PointKey{
		X: int64(math.Round(p.X / tol)),
		Y: int64(math.Round(p.Y / tol)),
	}
}

// DimKey builds the rounded "width x height" cache key used by the symbol
// cache. Three decimals keeps one guard digit under the 0.01 unit symbol
// match tolerance.
func DimKey(width, height float64) string {
	return fmt.Sprintf("%.3fx%.3f", width, height)
}
