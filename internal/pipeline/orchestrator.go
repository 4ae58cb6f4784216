// Package pipeline drives per-snapshot processing across a worker pool.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"ve-video-toolkit/pkg/basilisk"
	"ve-video-toolkit/pkg/config"
	"ve-video-toolkit/pkg/render"
	"ve-video-toolkit/pkg/snapshot"
)

// Outcome is the terminal state of one snapshot task.
type Outcome int

const (
	OutcomeRendered Outcome = iota
	OutcomeSkippedMissing
	OutcomeSkippedDone
	OutcomeFailed
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeRendered:
		return "rendered"
	case OutcomeSkippedMissing:
		return "skipped-missing-input"
	case OutcomeSkippedDone:
		return "skipped-already-done"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Orchestrator processes one snapshot index end to end: skip checks,
// helper invocations, parsing, and rendering.
type Orchestrator struct {
	cfg      *config.RuntimeConfig
	runner   basilisk.Runner
	renderer render.Renderer
	logger   *zap.Logger
	absCase  string
}

// NewOrchestrator creates an orchestrator. The case directory is
// resolved to an absolute path once, since helpers run with it as their
// working directory.
func NewOrchestrator(cfg *config.RuntimeConfig, runner basilisk.Runner, renderer render.Renderer, logger *zap.Logger) (*Orchestrator, error) {
	absCase, err := filepath.Abs(cfg.CaseDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve case directory %s: %w", cfg.CaseDir, err)
	}
	return &Orchestrator{
		cfg:      cfg,
		runner:   runner,
		renderer: renderer,
		logger:   logger,
		absCase:  absCase,
	}, nil
}

// Process runs the full per-snapshot state machine for one index.
//
// A missing source is expected while the solver is still running and is
// skipped with a warning. An existing target means a previous run
// already rendered this frame; it is never recomputed or overwritten,
// which makes re-invocation of the whole pipeline idempotent. Neither
// skip invokes the helpers.
func (o *Orchestrator) Process(ctx context.Context, index int) (Outcome, error) {
	snap := snapshot.Build(index, o.cfg)

	if _, err := os.Stat(snap.Source); os.IsNotExist(err) {
		o.logger.Warn("Snapshot missing, skipping",
			zap.Int("index", index),
			zap.String("source", snap.Source))
		return OutcomeSkippedMissing, nil
	}
	if _, err := os.Stat(snap.Target); err == nil {
		o.logger.Info("Frame exists, skipping",
			zap.Int("index", index),
			zap.String("target", snap.Target))
		return OutcomeSkippedDone, nil
	}

	o.logger.Info("Processing snapshot",
		zap.Int("index", index),
		zap.Float64("time", snap.Time),
		zap.String("source", snap.RelSource()))

	if err := o.renderFrame(ctx, snap); err != nil {
		o.logger.Error("Snapshot processing failed",
			zap.Int("index", index),
			zap.Float64("time", snap.Time),
			zap.String("source", snap.Source),
			zap.Error(err))
		return OutcomeFailed, err
	}

	o.logger.Info("Frame saved",
		zap.Int("index", index),
		zap.String("target", snap.Target))
	return OutcomeRendered, nil
}

// renderFrame extracts facets and fields for one snapshot and hands them
// to the renderer.
func (o *Orchestrator) renderFrame(ctx context.Context, snap snapshot.Descriptor) error {
	rel := snap.RelSource()

	facetLines, err := o.runner.Run(ctx, o.cfg.GetFacetPath, []string{rel}, o.absCase)
	if err != nil {
		return fmt.Errorf("interface extraction: %w", err)
	}
	facets, err := basilisk.ParseFacets(facetLines)
	if err != nil {
		return fmt.Errorf("interface extraction: %w", err)
	}

	cols := o.cfg.ColumnCount()
	fieldLines, err := o.runner.Run(ctx, o.cfg.GetDataPath, []string{
		rel,
		formatFloat(o.cfg.ZMin),
		"0",
		formatFloat(o.cfg.ZMax),
		formatFloat(o.cfg.RMax),
		strconv.Itoa(cols),
	}, o.absCase)
	if err != nil {
		return fmt.Errorf("field extraction: %w", err)
	}
	grid, err := basilisk.ParseFieldGrid(fieldLines, cols)
	if err != nil {
		return fmt.Errorf("field extraction: %w", err)
	}

	o.logger.Debug("Grid reshaped",
		zap.Int("rows", grid.RowCount),
		zap.Int("cols", grid.ColumnCount),
		zap.Int("facets", len(facets)))

	return o.renderer.Render(grid, facets, o.cfg.Bounds(), snap)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
