package config

import (
	"math"
)

// DomainBounds describes the axisymmetric computational domain in
// cylindrical coordinates. The solver computes only the r >= 0 half;
// rmin is always the mirror of rmax.
type DomainBounds struct {
	RMin float64 `json:"rmin"`
	RMax float64 `json:"rmax"`
	ZMin float64 `json:"zmin"`
	ZMax float64 `json:"zmax"`
}

// RuntimeConfig holds all run parameters for one post-processing pass.
// It is constructed once at startup and treated as read-only afterwards;
// workers receive it by pointer but never mutate it.
type RuntimeConfig struct {
	// Execution
	Workers    int `mapstructure:"cpus"`
	NSnapshots int `mapstructure:"n-snapshots"`

	// Sampling grid and domain
	GridsPerR int     `mapstructure:"grids-per-r"`
	TSnap     float64 `mapstructure:"tsnap"`
	ZMin      float64 `mapstructure:"zmin"`
	ZMax      float64 `mapstructure:"zmax"`
	RMax      float64 `mapstructure:"rmax"`

	// Paths
	CaseDir   string `mapstructure:"case"`
	OutputDir string `mapstructure:"output-dir"`

	// Helper executables compiled as part of the Basilisk workflow.
	GetFacetPath string `mapstructure:"getfacet"`
	GetDataPath  string `mapstructure:"getdata"`

	// Video encoding
	SkipEncode bool `mapstructure:"skip-encode"`
	Framerate  int  `mapstructure:"framerate"`
	OutputFPS  int  `mapstructure:"output-fps"`

	// Colorbar bounds for the two rendered physical fields:
	// log10(D:D) strain rate and log10(tr(A)-1) conformation trace.
	D2VMin  float64 `mapstructure:"d2-vmin"`
	D2VMax  float64 `mapstructure:"d2-vmax"`
	TraVMin float64 `mapstructure:"tra-vmin"`
	TraVMax float64 `mapstructure:"tra-vmax"`

	// Optional artifact upload after encoding
	UploadTarget string `mapstructure:"upload-target"`
	UploadFrames bool   `mapstructure:"upload-frames"`
	AWSRegion    string `mapstructure:"aws-region"`
	AWSEndpoint  string `mapstructure:"aws-endpoint"`
	AWSProfile   string `mapstructure:"aws-profile"`
}

// RMin returns the mirrored radial minimum.
func (c *RuntimeConfig) RMin() float64 {
	return -c.RMax
}

// Bounds returns the full-domain view used by the renderer.
func (c *RuntimeConfig) Bounds() DomainBounds {
	return DomainBounds{
		RMin: c.RMin(),
		RMax: c.RMax,
		ZMin: c.ZMin,
		ZMax: c.ZMax,
	}
}

// ColumnCount returns the number of radial sample points requested from
// the field-extraction helper. The flat output of the helper must divide
// evenly by this count when reshaped.
func (c *RuntimeConfig) ColumnCount() int {
	return int(math.Round(float64(c.GridsPerR) * c.RMax))
}
