package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	viper.Set("case", filepath.Join("simulationCases", "1000"))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultNSnapshots, cfg.NSnapshots)
	assert.Equal(t, DefaultGridsPerR, cfg.GridsPerR)
	assert.Equal(t, DefaultTSnap, cfg.TSnap)
	assert.Equal(t, DefaultRMax, cfg.RMax)
	assert.Equal(t, DefaultFramerate, cfg.Framerate)
	assert.Equal(t, DefaultOutputFPS, cfg.OutputFPS)
	assert.False(t, cfg.SkipEncode)
}

func TestLoadConfigDerivedValues(t *testing.T) {
	viper.Reset()
	viper.Set("case", filepath.Join("simulationCases", "1000"))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// rmin mirrors rmax about the symmetry axis.
	assert.Equal(t, -cfg.RMax, cfg.RMin())

	bounds := cfg.Bounds()
	assert.Equal(t, DomainBounds{RMin: -2.0, RMax: 2.0, ZMin: -4.0, ZMax: 4.0}, bounds)

	// grids-per-r 256 at rmax 2.0 samples 512 radial columns.
	assert.Equal(t, 512, cfg.ColumnCount())

	// Output directory defaults to <case>/Video.
	assert.Equal(t, filepath.Join("simulationCases", "1000", "Video"), cfg.OutputDir)

	// Helper paths are resolved to absolute for use with a changed cwd.
	assert.True(t, filepath.IsAbs(cfg.GetFacetPath))
	assert.True(t, filepath.IsAbs(cfg.GetDataPath))
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
	}{
		{
			name:     "missing case",
			settings: map[string]interface{}{},
		},
		{
			name: "inverted z bounds",
			settings: map[string]interface{}{
				"case": "c", "zmin": 4.0, "zmax": -4.0,
			},
		},
		{
			name: "non-positive rmax",
			settings: map[string]interface{}{
				"case": "c", "rmax": 0.0,
			},
		},
		{
			name: "non-positive tsnap",
			settings: map[string]interface{}{
				"case": "c", "tsnap": -0.01,
			},
		},
		{
			name: "non-positive grid density",
			settings: map[string]interface{}{
				"case": "c", "grids-per-r": 0,
			},
		},
		{
			name: "inverted strain-rate colorbar",
			settings: map[string]interface{}{
				"case": "c", "d2-vmin": 2.0, "d2-vmax": -3.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			for k, v := range tt.settings {
				viper.Set(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigExplicitOverrides(t *testing.T) {
	viper.Reset()
	viper.Set("case", "c")
	viper.Set("cpus", 16)
	viper.Set("output-dir", "frames")
	viper.Set("rmax", 4.0)
	viper.Set("grids-per-r", 128)
	viper.Set("skip-encode", true)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, "frames", cfg.OutputDir)
	assert.Equal(t, 512, cfg.ColumnCount())
	assert.True(t, cfg.SkipEncode)
}
