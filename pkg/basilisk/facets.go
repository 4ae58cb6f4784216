package basilisk

import (
	"strconv"
	"strings"
)

// Point is a location in the (r, z) cross-section.
type Point struct {
	R float64
	Z float64
}

// Segment is one facet of the fluid interface polyline.
type Segment struct {
	P1 Point
	P2 Point
}

// Mirror returns the segment reflected about the symmetry axis r = 0.
func (s Segment) Mirror() Segment {
	return Segment{
		P1: Point{R: -s.P1.R, Z: s.P1.Z},
		P2: Point{R: -s.P2.R, Z: s.P2.Z},
	}
}

// ParseFacets reconstructs the full-domain interface from getFacet output.
//
// The helper emits runs of non-blank lines separated by blank lines, one
// run per interface fragment. Each line holds "z r" for one point, and
// points arrive two-at-a-time per facet: a line is paired with its
// immediate successor, then one line is skipped before the next pair.
// Since the solver computes only the r >= 0 half, every parsed segment is
// emitted together with its mirror about r = 0. A run ending in a lone
// unpaired line contributes no segment.
func ParseFacets(lines []string) ([]Segment, error) {
	var segs []Segment
	consumed := false

	for i := 0; i < len(lines); i++ {
		first := strings.Fields(lines[i])
		if len(first) == 0 {
			consumed = false
			continue
		}
		if consumed {
			// Second point of the previous facet.
			consumed = false
			continue
		}
		if i+1 >= len(lines) {
			break
		}
		second := strings.Fields(lines[i+1])
		if len(second) == 0 {
			// Lone point at the end of a run.
			continue
		}

		p1, err := parsePoint(first, i)
		if err != nil {
			return nil, err
		}
		p2, err := parsePoint(second, i+1)
		if err != nil {
			return nil, err
		}

		seg := Segment{P1: p1, P2: p2}
		segs = append(segs, seg, seg.Mirror())
		consumed = true
	}

	return segs, nil
}

// parsePoint reads one "z r ..." facet line.
func parsePoint(fields []string, line int) (Point, error) {
	if len(fields) < 2 {
		return Point{}, malformedf("facet line %d has %d fields, want at least 2", line+1, len(fields))
	}
	z, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Point{}, malformedf("facet line %d: bad z value %q", line+1, fields[0])
	}
	r, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Point{}, malformedf("facet line %d: bad r value %q", line+1, fields[1])
	}
	return Point{R: r, Z: z}, nil
}
