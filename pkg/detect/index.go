package detect

import (
	"sort"

	"pilaster/pkg/geometry"
)

// Index is the connectivity index: it maps quantized segment endpoints to
// the segments touching them, so the detector's per-step scan is O(1)
// amortized instead of a linear sweep.
//
// The index is derived and transient; it is rebuilt for every batch run and
// never outlives the segment slice it was built from.
type Index struct {
	tol      float64
	segments []geometry.Segment
	cells    map[geometry.PointKey][]int
}

// BuildIndex indexes both endpoints of every segment on the tolerance grid.
func BuildIndex(segments []geometry.Segment, tol float64) *Index {
	ix := &Index{
		tol:      tol,
		segments: segments,
		cells:    make(map[geometry.PointKey][]int, len(segments)*2),
	}
	for i, s := range segments {
		ix.add(geometry.Quantize(s.Start, tol), i)
		ix.add(geometry.Quantize(s.End, tol), i)
	}
	return ix
}

func (ix *Index) add(key geometry.PointKey, i int) {
	ids := ix.cells[key]
	// A zero-length segment puts both endpoints in one cell; index it once.
	if n := len(ids); n > 0 && ids[n-1] == i {
		return
	}
	ix.cells[key] = append(ids, i)
}

// At returns the indices of all segments with an endpoint within tolerance
// of p, sorted ascending so callers scanning for the first match preserve
// input order. Quantization can split near-equal points across adjacent
// cells, so the 3x3 neighborhood is probed and candidates are re-checked
// by exact distance.
func (ix *Index) At(p geometry.Point2D) []int {
	center := geometry.Quantize(p, ix.tol)

	var out []int
	seen := make(map[int]bool)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			key := geometry.PointKey{X: center.X + dx, Y: center.Y + dy}
			for _, i := range ix.cells[key] {
				if seen[i] {
					continue
				}
				seen[i] = true
				if ix.segments[i].Touches(p, ix.tol) {
					out = append(out, i)
				}
			}
		}
	}
	sort.Ints(out)
	return out
}

// Junctions returns every distinct quantized endpoint together with the
// segments meeting there. Used by the DOT export.
func (ix *Index) Junctions() map[geometry.PointKey][]int {
	out := make(map[geometry.PointKey][]int, len(ix.cells))
	for k, v := range ix.cells {
		ids := make([]int, len(v))
		copy(ids, v)
		out[k] = ids
	}
	return out
}

// Segment returns the indexed segment at i.
func (ix *Index) Segment(i int) geometry.Segment {
	return ix.segments[i]
}

// Len returns the number of indexed segments.
func (ix *Index) Len() int {
	return len(ix.segments)
}

// Tolerance returns the grid tolerance the index was built with.
func (ix *Index) Tolerance() float64 {
	return ix.tol
}
