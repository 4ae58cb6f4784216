package basilisk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFacetsSingleRun(t *testing.T) {
	// One run of two points: exactly one parsed segment plus its mirror.
	lines := []string{
		"1.5 0.25",
		"1.7 0.35",
		"",
	}

	segs, err := ParseFacets(lines)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.Equal(t, Segment{P1: Point{R: 0.25, Z: 1.5}, P2: Point{R: 0.35, Z: 1.7}}, segs[0])
	assert.Equal(t, Segment{P1: Point{R: -0.25, Z: 1.5}, P2: Point{R: -0.35, Z: 1.7}}, segs[1])
}

func TestParseFacetsPairingSkipsConsumedPoint(t *testing.T) {
	// Four points in one run pair up as (1,2) and (3,4), never (2,3).
	lines := []string{
		"0.0 1.0",
		"0.1 1.1",
		"0.2 1.2",
		"0.3 1.3",
	}

	segs, err := ParseFacets(lines)
	require.NoError(t, err)
	require.Len(t, segs, 4)

	assert.Equal(t, Point{R: 1.0, Z: 0.0}, segs[0].P1)
	assert.Equal(t, Point{R: 1.1, Z: 0.1}, segs[0].P2)
	assert.Equal(t, Point{R: 1.2, Z: 0.2}, segs[2].P1)
	assert.Equal(t, Point{R: 1.3, Z: 0.3}, segs[2].P2)
}

func TestParseFacetsMirrorLaw(t *testing.T) {
	lines := []string{
		"0.0 1.0",
		"0.1 1.1",
		"",
		"2.0 0.5",
		"2.1 0.6",
		"2.2 0.7",
		"2.3 0.8",
	}

	segs, err := ParseFacets(lines)
	require.NoError(t, err)

	// Total count is exactly double the parsed half-domain segments.
	require.Equal(t, 6, len(segs))

	// Every even entry has its mirror right after it, exactly once.
	for i := 0; i < len(segs); i += 2 {
		parsed, mirrored := segs[i], segs[i+1]
		assert.Equal(t, -parsed.P1.R, mirrored.P1.R)
		assert.Equal(t, -parsed.P2.R, mirrored.P2.R)
		assert.Equal(t, parsed.P1.Z, mirrored.P1.Z)
		assert.Equal(t, parsed.P2.Z, mirrored.P2.Z)
	}
}

func TestParseFacetsLoneLineContributesNothing(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{
			name:  "single point run",
			lines: []string{"1.0 0.5", ""},
			want:  0,
		},
		{
			name:  "trailing lone point after complete pair",
			lines: []string{"1.0 0.5", "1.1 0.6", "1.2 0.7"},
			want:  2,
		},
		{
			name:  "lone point between runs",
			lines: []string{"1.0 0.5", "", "2.0 0.1", "2.1 0.2"},
			want:  2,
		},
		{
			name:  "empty input",
			lines: nil,
			want:  0,
		},
		{
			name:  "blank lines only",
			lines: []string{"", "", ""},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := ParseFacets(tt.lines)
			require.NoError(t, err)
			assert.Len(t, segs, tt.want)
		})
	}
}

func TestParseFacetsBlankLineResetsPairing(t *testing.T) {
	// The second run must not pair across the blank separator.
	lines := []string{
		"0.0 1.0",
		"0.1 1.1",
		"",
		"5.0 2.0",
		"5.1 2.1",
	}

	segs, err := ParseFacets(lines)
	require.NoError(t, err)
	require.Len(t, segs, 4)
	assert.Equal(t, Point{R: 2.0, Z: 5.0}, segs[2].P1)
}

func TestParseFacetsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{name: "non-numeric z", lines: []string{"abc 0.5", "1.0 0.6"}},
		{name: "non-numeric r", lines: []string{"1.0 xyz", "1.1 0.6"}},
		{name: "too few fields", lines: []string{"1.0", "1.1 0.6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFacets(tt.lines)
			require.Error(t, err)

			var malformed *MalformedOutputError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}
