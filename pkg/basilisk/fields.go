package basilisk

import (
	"strconv"
	"strings"
)

// FieldGrid holds the reshaped sample grids for one snapshot. All
// matrices share the shape RowCount x ColumnCount, filled row-major with
// the radial direction varying fastest, exactly as getData emits them.
type FieldGrid struct {
	R          [][]float64
	Z          [][]float64
	StrainRate [][]float64 // log10(D:D)
	Velocity   [][]float64 // velocity magnitude
	ConfTrace  [][]float64 // log10(tr(A) - 1)

	RowCount    int
	ColumnCount int
}

// RadialExtent returns the min and max sampled radial coordinates so the
// renderer can recover the physical extents without recomputation.
func (g *FieldGrid) RadialExtent() (float64, float64) {
	return matrixExtent(g.R)
}

// AxialExtent returns the min and max sampled axial coordinates.
func (g *FieldGrid) AxialExtent() (float64, float64) {
	return matrixExtent(g.Z)
}

func matrixExtent(m [][]float64) (float64, float64) {
	min, max := 0.0, 0.0
	first := true
	for _, row := range m {
		for _, v := range row {
			if first {
				min, max = v, v
				first = false
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

// ParseFieldGrid parses getData output into a FieldGrid.
//
// Each non-blank line carries five whitespace-separated values in fixed
// order: z, r, strain rate, velocity, conformation tensor trace. The
// total sample count must divide evenly by columnCount; anything else
// means the extraction failed or the configuration does not match the
// requested domain, and a MalformedOutputError is returned rather than a
// silently truncated grid.
func ParseFieldGrid(lines []string, columnCount int) (*FieldGrid, error) {
	if columnCount <= 0 {
		return nil, malformedf("column count must be positive, got %d", columnCount)
	}

	var zs, rs, d2s, vels, tras []float64
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 5 {
			return nil, malformedf("field line %d has %d fields, want 5", i+1, len(fields))
		}
		vals := make([]float64, 5)
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, malformedf("field line %d: bad value %q", i+1, f)
			}
			vals[j] = v
		}
		zs = append(zs, vals[0])
		rs = append(rs, vals[1])
		d2s = append(d2s, vals[2])
		vels = append(vels, vals[3])
		tras = append(tras, vals[4])
	}

	total := len(zs)
	if total%columnCount != 0 {
		return nil, malformedf("%d samples do not divide evenly into %d columns", total, columnCount)
	}
	rowCount := total / columnCount

	return &FieldGrid{
		R:           Reshape(rs, rowCount, columnCount),
		Z:           Reshape(zs, rowCount, columnCount),
		StrainRate:  Reshape(d2s, rowCount, columnCount),
		Velocity:    Reshape(vels, rowCount, columnCount),
		ConfTrace:   Reshape(tras, rowCount, columnCount),
		RowCount:    rowCount,
		ColumnCount: columnCount,
	}, nil
}

// Reshape views a flat sequence as a rows x cols matrix in row-major
// order. len(flat) must equal rows*cols; ParseFieldGrid guarantees this.
func Reshape(flat []float64, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		m[i] = flat[i*cols : (i+1)*cols]
	}
	return m
}
