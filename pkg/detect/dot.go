package detect

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"pilaster/pkg/geometry"
)

// DOTOptions configures connectivity-graph export.
type DOTOptions struct {
	// Detailed includes segment IDs and layer names on edges.
	Detailed bool
}

// ToDOT converts a connectivity index to Graphviz DOT format. Junction
// points become nodes, segments become edges. The export exists for
// debugging detection runs: dangling endpoints and near-miss junctions are
// immediately visible in the rendered graph.
func ToDOT(ix *Index, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph connectivity {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	junctions := ix.Junctions()
	keys := make([]geometry.PointKey, 0, len(junctions))
	for k := range junctions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Y < keys[j].Y
	})

	tol := ix.Tolerance()
	for _, k := range keys {
		x := float64(k.X) * tol
		y := float64(k.Y) * tol
		fmt.Fprintf(&buf, "  %q [pos=\"%f,%f!\", xlabel=\"(%.2f, %.2f)\"];\n",
			nodeID(k), x, y, x, y)
	}

	buf.WriteString("\n")
	for i := 0; i < ix.Len(); i++ {
		s := ix.Segment(i)
		from := nodeID(geometry.Quantize(s.Start, tol))
		to := nodeID(geometry.Quantize(s.End, tol))
		attrs := ""
		if opts.Detailed {
			attrs = fmt.Sprintf(" [label=%q]", edgeLabel(s))
		}
		fmt.Fprintf(&buf, "  %q -- %q%s;\n", from, to, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(k geometry.PointKey) string {
	return fmt.Sprintf("p_%d_%d", k.X, k.Y)
}

func edgeLabel(s geometry.Segment) string {
	parts := []string{s.ID}
	if s.Layer != "" {
		parts = append(parts, s.Layer)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
