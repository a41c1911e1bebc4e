package batch

import (
	"fmt"
	"strings"

	"pilaster/pkg/errors"
	"pilaster/pkg/geometry"
	"pilaster/pkg/host"
)

// Placement records one successfully created column.
type Placement struct {
	Ref    host.ElementRef  `json:"ref"`
	Symbol string           `json:"symbol"`
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Center geometry.Point2D `json:"center"`
	Level  host.Level       `json:"level"`
}

// Failure records one candidate that could not be placed.
type Failure struct {
	Code   errors.Code      `json:"code"`
	Reason string           `json:"reason"`
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Center geometry.Point2D `json:"center"`
}

// Report aggregates per-candidate outcomes into the run-level summary.
// It is populated during the create phase and read-only afterwards.
type Report struct {
	Detected int `json:"detected"`
	Consumed int `json:"consumed"`
	Unused   int `json:"unused"`
	Created  int `json:"created"`
	Failed   int `json:"failed"`

	Placements []Placement `json:"placements,omitempty"`
	Failures   []Failure   `json:"failures,omitempty"`

	// FailurePreview caps the failure list rendered by Summary.
	FailurePreview int `json:"-"`
}

func (r *Report) addPlacement(p Placement) {
	r.Placements = append(r.Placements, p)
	r.Created++
}

func (r *Report) addFailure(f Failure) {
	r.Failures = append(r.Failures, f)
	r.Failed++
}

// Summary renders the consolidated end-of-run report: counts, the
// per-item dimension/location list, and a capped failure preview.
func (r Report) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Rectangles detected: %d (segments consumed: %d, unused: %d)\n",
		r.Detected, r.Consumed, r.Unused)
	fmt.Fprintf(&b, "Columns created: %d, failed: %d\n", r.Created, r.Failed)

	for _, p := range r.Placements {
		fmt.Fprintf(&b, "  %.3f x %.3f at %s on %s (%s)\n",
			p.Width, p.Height, p.Center, p.Level.Name, p.Symbol)
	}

	if len(r.Failures) > 0 {
		b.WriteString("Failures:\n")
		preview := r.FailurePreview
		if preview <= 0 {
			preview = DefaultFailurePreview
		}
		for i, f := range r.Failures {
			if i == preview {
				fmt.Fprintf(&b, "  ... and %d more\n", len(r.Failures)-preview)
				break
			}
			fmt.Fprintf(&b, "  %.3f x %.3f at %s: %s\n", f.Width, f.Height, f.Center, f.Reason)
		}
	}
	return b.String()
}
