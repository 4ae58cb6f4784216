package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"ve-video-toolkit/internal/pipeline"
	"ve-video-toolkit/pkg/basilisk"
	"ve-video-toolkit/pkg/config"
	"ve-video-toolkit/pkg/ffmpeg"
	"ve-video-toolkit/pkg/render"
)

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render snapshot frames and encode the video",
		Long: `Process all solver snapshots of a case into raster frames and stitch
them into a video. Already-rendered frames are skipped, so the command can be
re-run while the solver is still producing snapshots.`,
		RunE: runRender,
	}

	addRenderFlags(cmd)
	return cmd
}

func addRenderFlags(cmd *cobra.Command) {
	// Required flags
	cmd.Flags().String("case", "", "Case directory to process (required)")

	// Execution
	cmd.Flags().Int("cpus", config.DefaultWorkers, "Number of parallel workers")
	cmd.Flags().Int("n-snapshots", config.DefaultNSnapshots, "Number of snapshot indices to process")

	// Sampling grid and domain
	cmd.Flags().Int("grids-per-r", config.DefaultGridsPerR, "Radial grid density")
	cmd.Flags().Float64("tsnap", config.DefaultTSnap, "Time interval between snapshots")
	cmd.Flags().Float64("zmin", config.DefaultZMin, "Minimum axial coordinate")
	cmd.Flags().Float64("zmax", config.DefaultZMax, "Maximum axial coordinate")
	cmd.Flags().Float64("rmax", config.DefaultRMax, "Maximum radial coordinate")

	// Paths
	cmd.Flags().String("output-dir", "", "Frame output directory (default: <case>/Video)")
	cmd.Flags().String("getfacet", config.DefaultGetFacetPath, "Path to the getFacet helper")
	cmd.Flags().String("getdata", config.DefaultGetDataPath, "Path to the getData helper")

	// Encoding
	cmd.Flags().Bool("skip-encode", false, "Skip ffmpeg video encoding after frame generation")
	cmd.Flags().Int("framerate", config.DefaultFramerate, "Input framerate for ffmpeg")
	cmd.Flags().Int("output-fps", config.DefaultOutputFPS, "Output video framerate")

	// Colorbar bounds
	cmd.Flags().Float64("d2-vmin", config.DefaultD2VMin, "Min value for strain-rate colorbar")
	cmd.Flags().Float64("d2-vmax", config.DefaultD2VMax, "Max value for strain-rate colorbar")
	cmd.Flags().Float64("tra-vmin", config.DefaultTraVMin, "Min value for conformation trace colorbar")
	cmd.Flags().Float64("tra-vmax", config.DefaultTraVMax, "Max value for conformation trace colorbar")

	// Optional artifact upload
	cmd.Flags().String("upload-target", "", "Archive destination (directory or s3://bucket/prefix)")
	cmd.Flags().Bool("upload-frames", false, "Also upload the rendered frames")
	cmd.Flags().String("aws-region", "", "AWS region for S3 uploads")
	cmd.Flags().String("aws-endpoint", "", "Custom S3 endpoint (e.g. R2)")
	cmd.Flags().String("aws-profile", "", "AWS shared config profile")

	cmd.MarkFlagRequired("case")
}

// loadCommandConfig binds the invoked command's flags into viper and
// loads the runtime configuration. Binding must happen at run time:
// sibling commands register overlapping flag names, and binding every
// command at construction time would let the last-constructed sibling
// shadow the invoked command's values.
func loadCommandConfig(cmd *cobra.Command) (*config.RuntimeConfig, error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return config.LoadConfig()
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Get logger from context
	logger, ok := ctx.Value("logger").(*zap.Logger)
	if !ok {
		return fmt.Errorf("logger not found in context")
	}

	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", cfg.OutputDir, err)
	}

	logger.Info("Processing case",
		zap.String("case", cfg.CaseDir),
		zap.Int("snapshots", cfg.NSnapshots),
		zap.Int("workers", cfg.Workers),
		zap.Float64("rmin", cfg.RMin()),
		zap.Float64("rmax", cfg.RMax),
		zap.Float64("zmin", cfg.ZMin),
		zap.Float64("zmax", cfg.ZMax))

	runner := basilisk.NewExecRunner(logger)
	renderer := render.NewRasterRenderer(
		render.DefaultStyle(),
		render.Range{Min: cfg.D2VMin, Max: cfg.D2VMax},
		render.Range{Min: cfg.TraVMin, Max: cfg.TraVMax},
		logger,
	)

	orch, err := pipeline.NewOrchestrator(cfg, runner, renderer, logger)
	if err != nil {
		return err
	}

	driver := pipeline.NewDriver(cfg.Workers, orch, logger)
	summary, runErr := driver.Run(ctx, cfg.NSnapshots)
	fmt.Println(summary.Table())

	if runErr != nil {
		for _, failure := range summary.Failures {
			logger.Error("Snapshot failed",
				zap.Int("index", failure.Index),
				zap.Error(failure.Err))
		}
		return runErr
	}

	if cfg.SkipEncode {
		logger.Info("Video encoding skipped")
		return nil
	}

	outputPath := ffmpeg.OutputPath(cfg.CaseDir)
	encoder := ffmpeg.NewEncoder(logger)
	if err := encoder.Encode(ctx, ffmpeg.EncodeRequest{
		FrameDir:   cfg.OutputDir,
		Framerate:  cfg.Framerate,
		OutputFPS:  cfg.OutputFPS,
		OutputPath: outputPath,
	}); err != nil {
		return err
	}

	return uploadArtifacts(ctx, cfg, outputPath, logger)
}

// uploadArtifacts pushes the encoded video, and optionally every frame,
// to the configured archive target. Upload failures are reported but
// never destroy the local outputs.
func uploadArtifacts(ctx context.Context, cfg *config.RuntimeConfig, videoPath string, logger *zap.Logger) error {
	if cfg.UploadTarget == "" {
		return nil
	}

	store, err := newStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	caseName := caseBasename(cfg.CaseDir)

	if videoPath != "" {
		if err := store.Upload(ctx, videoPath, caseName+"/"+baseName(videoPath)); err != nil {
			return fmt.Errorf("uploading video: %w", err)
		}
		logger.Info("Video uploaded", zap.String("target", cfg.UploadTarget))
	}

	if cfg.UploadFrames {
		frames, err := listFrames(cfg.OutputDir)
		if err != nil {
			return err
		}
		for _, frame := range frames {
			if err := store.Upload(ctx, frame, caseName+"/frames/"+baseName(frame)); err != nil {
				return fmt.Errorf("uploading frame %s: %w", frame, err)
			}
		}
		logger.Info("Frames uploaded",
			zap.Int("count", len(frames)),
			zap.String("target", cfg.UploadTarget))
	}

	return nil
}
