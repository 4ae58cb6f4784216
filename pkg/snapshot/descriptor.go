// Package snapshot maps timestep indices to solver dump and frame paths.
package snapshot

import (
	"fmt"
	"math"
	"path/filepath"

	"ve-video-toolkit/pkg/config"
)

// IntermediateDir is where the solver writes its state dumps, relative
// to the case directory.
const IntermediateDir = "intermediate"

// Descriptor ties a timestep index to its physical time, its solver dump,
// and the frame it will produce. Built once per index and never mutated.
type Descriptor struct {
	Index  int
	Time   float64
	Source string
	Target string
}

// Build constructs the descriptor for a timestep index. It is a pure
// function of (index, config): repeated calls yield identical paths.
func Build(index int, cfg *config.RuntimeConfig) Descriptor {
	t := cfg.TSnap * float64(index)
	return Descriptor{
		Index:  index,
		Time:   t,
		Source: filepath.Join(cfg.CaseDir, IntermediateDir, sourceName(t)),
		Target: filepath.Join(cfg.OutputDir, targetName(t)),
	}
}

// RelSource returns the source path relative to the case directory, the
// form the Basilisk helpers require.
func (d Descriptor) RelSource() string {
	return filepath.Join(IntermediateDir, sourceName(d.Time))
}

func sourceName(t float64) string {
	return fmt.Sprintf("snapshot-%.4f", t)
}

// targetName embeds the time in milliseconds so a lexical sort of the
// frame directory is also a chronological sort.
func targetName(t float64) string {
	return fmt.Sprintf("%08d.png", int(math.Floor(t*1000)))
}
