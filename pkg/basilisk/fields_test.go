package basilisk

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldLines fabricates getData output with n sample lines whose values
// encode their flat index, so reshape order can be checked exactly.
func fieldLines(n int) []string {
	lines := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		v := float64(i)
		lines = append(lines, fmt.Sprintf("%g %g %g %g %g", v, v+0.1, v+0.2, v+0.3, v+0.4))
	}
	lines = append(lines, "")
	return lines
}

func TestParseFieldGridReshapeLaw(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		cols    int
		wantErr bool
		rows    int
	}{
		{name: "exact division", samples: 5120, cols: 512, rows: 10},
		{name: "one extra sample", samples: 5121, cols: 512, wantErr: true},
		{name: "one missing sample", samples: 5119, cols: 512, wantErr: true},
		{name: "small grid", samples: 8, cols: 4, rows: 2},
		{name: "empty output", samples: 0, cols: 4, rows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := ParseFieldGrid(fieldLines(tt.samples), tt.cols)
			if tt.wantErr {
				require.Error(t, err)
				var malformed *MalformedOutputError
				assert.ErrorAs(t, err, &malformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, grid.RowCount)
			assert.Equal(t, tt.cols, grid.ColumnCount)
			assert.Len(t, grid.Z, tt.rows)
		})
	}
}

func TestParseFieldGridRowMajorOrder(t *testing.T) {
	// 8 samples into 2x4: flat index k lands at [k/4][k%4], radial
	// direction fastest.
	grid, err := ParseFieldGrid(fieldLines(8), 4)
	require.NoError(t, err)

	assert.Equal(t, 0.0, grid.Z[0][0])
	assert.Equal(t, 3.0, grid.Z[0][3])
	assert.Equal(t, 4.0, grid.Z[1][0])
	assert.Equal(t, 6.0, grid.Z[1][2])

	// Column order per line is z r D2 vel trA.
	assert.InDelta(t, 6.1, grid.R[1][2], 1e-12)
	assert.InDelta(t, 6.2, grid.StrainRate[1][2], 1e-12)
	assert.InDelta(t, 6.3, grid.Velocity[1][2], 1e-12)
	assert.InDelta(t, 6.4, grid.ConfTrace[1][2], 1e-12)
}

func TestParseFieldGridExtents(t *testing.T) {
	grid, err := ParseFieldGrid(fieldLines(8), 4)
	require.NoError(t, err)

	zmin, zmax := grid.AxialExtent()
	assert.Equal(t, 0.0, zmin)
	assert.Equal(t, 7.0, zmax)

	rmin, rmax := grid.RadialExtent()
	assert.InDelta(t, 0.1, rmin, 1e-12)
	assert.InDelta(t, 7.1, rmax, 1e-12)
}

func TestParseFieldGridMalformedLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{name: "four fields", lines: []string{"1 2 3 4"}},
		{name: "six fields", lines: []string{"1 2 3 4 5 6"}},
		{name: "non-numeric value", lines: []string{"1 2 x 4 5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFieldGrid(tt.lines, 4)
			require.Error(t, err)

			var malformed *MalformedOutputError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestParseFieldGridBadColumnCount(t *testing.T) {
	_, err := ParseFieldGrid(fieldLines(8), 0)
	require.Error(t, err)
}

func TestReshape(t *testing.T) {
	flat := []float64{1, 2, 3, 4, 5, 6}
	m := Reshape(flat, 2, 3)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, m)
}
