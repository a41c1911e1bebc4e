// Package detect finds axis-aligned rectangles among 2D line segments.
//
// Detection is a greedy, order-dependent walk: segments are seeded in input
// order, extended endpoint-to-endpoint into 4-segment closed loops, and
// each loop is validated as a true axis-aligned rectangle within size
// bounds. A segment is consumed (removed from the available pool) only
// after validation confirms its loop - invalid loops leave their segments
// available for later seeds.
//
// The greedy order means a segment consumed by an earlier loop is
// unavailable to a possibly better-fitting later one. That trade-off is
// deliberate: it keeps detection single-pass and deterministic for batch
// sizes of a few hundred segments.
package detect

import (
	"io"

	"github.com/charmbracelet/log"

	"pilaster/pkg/geometry"
)

// Default detection parameters, in model units.
const (
	DefaultTolerance = 1e-6
	DefaultMinSize   = 0.01
	DefaultMaxSize   = 50.0
)

// loopLen is the number of segments in a rectangle loop.
const loopLen = 4

// Options configures detection and validation.
type Options struct {
	// Tolerance is the endpoint-coincidence tolerance in model units.
	Tolerance float64

	// MinSize and MaxSize bound the accepted rectangle edge lengths,
	// inclusive on both ends.
	MinSize float64
	MaxSize float64

	Logger *log.Logger
}

// setDefaults fills unset fields.
func (o *Options) setDefaults() {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MinSize <= 0 {
		o.MinSize = DefaultMinSize
	}
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Candidate is a validated 4-segment closed loop.
type Candidate struct {
	// Loop holds the segments in walk order, starting at the seed.
	Loop [loopLen]geometry.Segment

	// Analysis carries the rectangle's corners, dimensions, and center.
	Analysis Analysis
}

// Detect walks the segment list and returns all detected rectangle
// candidates plus the segments left unconsumed.
//
// Results are ordered by seed position in the input. Detection never
// mutates the input slice.
func Detect(segments []geometry.Segment, opts Options) ([]Candidate, []geometry.Segment) {
	opts.setDefaults()

	index := BuildIndex(segments, opts.Tolerance)
	used := make([]bool, len(segments))

	var candidates []Candidate
	for seed := range segments {
		if used[seed] {
			continue
		}
		loop, members, ok := walkLoop(segments, index, used, seed, opts)
		if !ok {
			continue
		}

		analysis := Analyze(loop, opts)
		if !analysis.Valid {
			// Segments stay available for other loops.
			opts.Logger.Debug("loop rejected",
				"seed", segments[seed].ID,
				"reason", analysis.Reason)
			continue
		}

		for _, i := range members {
			used[i] = true
		}
		opts.Logger.Debug("rectangle detected",
			"seed", segments[seed].ID,
			"width", analysis.Width,
			"height", analysis.Height,
			"center", analysis.Center)
		candidates = append(candidates, Candidate{Loop: loop, Analysis: analysis})
	}

	var unused []geometry.Segment
	for i, s := range segments {
		if !used[i] {
			unused = append(unused, s)
		}
	}
	return candidates, unused
}

// walkLoop attempts a directed walk of loopLen segments starting at seed.
// It never touches the used set; ownership transfer happens in Detect only
// after validation.
func walkLoop(segments []geometry.Segment, index *Index, used []bool, seed int, opts Options) ([loopLen]geometry.Segment, []int, bool) {
	var loop [loopLen]geometry.Segment
	loop[0] = segments[seed]

	members := []int{seed}
	chosen := map[int]bool{seed: true}
	currentEnd := segments[seed].End

	for step := 1; step < loopLen; step++ {
		next := -1
		for _, i := range index.At(currentEnd) {
			if used[i] || chosen[i] {
				continue
			}
			next = i
			break
		}
		if next < 0 {
			return loop, nil, false
		}
		chosen[next] = true
		members = append(members, next)
		loop[step] = segments[next]
		currentEnd = segments[next].Other(currentEnd, opts.Tolerance)
	}

	// Closed loop: the walk must return to the seed's free endpoint.
	if !geometry.EqualPoints(currentEnd, segments[seed].Start, opts.Tolerance) {
		return loop, nil, false
	}
	return loop, members, true
}
