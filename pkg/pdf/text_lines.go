package pdf

import (
	"sort"
	"strings"
)

// DefaultLineTolerance is the vertical distance within which fragments
// are treated as sitting on the same line
const DefaultLineTolerance = 3.0

// Lines groups the fragments into lines, top to bottom, each read left
// to right. Fragments whose baselines differ by at most tolerance share
// a line.
func (p PageText) Lines(tolerance float64) []string {
	if len(p.Fragments) == 0 {
		return nil
	}
	if tolerance < 0 {
		tolerance = 0
	}

	sorted := make([]TextFragment, len(p.Fragments))
	copy(sorted, p.Fragments)
	// PDF coordinates: Y increases upward
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]TextFragment
	var current []TextFragment
	currentY := sorted[0].Y
	for _, f := range sorted {
		if currentY-f.Y > tolerance {
			lines = append(lines, current)
			current = nil
			currentY = f.Y
		}
		current = append(current, f)
	}
	lines = append(lines, current)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})
		var b strings.Builder
		for _, f := range line {
			b.WriteString(f.Text)
		}
		out = append(out, b.String())
	}
	return out
}
