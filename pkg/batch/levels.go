package batch

import (
	"math"
	"sort"

	"pilaster/pkg/host"
)

// SelectLevel picks the level whose elevation is nearest to z.
//
// Deterministic: levels are ordered ascending by elevation before the scan
// and ties resolve to the first encountered, so equal distances always
// pick the lower level. Returns host.ErrNoLevels when the list is empty.
func SelectLevel(z float64, levels []host.Level) (host.Level, error) {
	if len(levels) == 0 {
		return host.Level{}, host.ErrNoLevels
	}

	sorted := make([]host.Level, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Elevation < sorted[j].Elevation })

	best := sorted[0]
	bestDist := math.Abs(best.Elevation - z)
	for _, lvl := range sorted[1:] {
		if d := math.Abs(lvl.Elevation - z); d < bestDist {
			best = lvl
			bestDist = d
		}
	}
	return best, nil
}
