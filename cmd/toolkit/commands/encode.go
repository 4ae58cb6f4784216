package commands

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ve-video-toolkit/pkg/config"
	"ve-video-toolkit/pkg/ffmpeg"
	"ve-video-toolkit/pkg/storage"
)

// NewEncodeCommand creates the encode command
func NewEncodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Stitch an existing frame directory into a video",
		Long: `Re-run only the ffmpeg encoding step over frames rendered by a previous
invocation, without touching the snapshots or the frames themselves.`,
		RunE: runEncode,
	}

	cmd.Flags().String("case", "", "Case directory to process (required)")
	cmd.Flags().String("output-dir", "", "Frame directory (default: <case>/Video)")
	cmd.Flags().Int("framerate", config.DefaultFramerate, "Input framerate for ffmpeg")
	cmd.Flags().Int("output-fps", config.DefaultOutputFPS, "Output video framerate")
	cmd.Flags().String("upload-target", "", "Archive destination (directory or s3://bucket/prefix)")
	cmd.Flags().Bool("upload-frames", false, "Also upload the rendered frames")
	cmd.Flags().String("aws-region", "", "AWS region for S3 uploads")
	cmd.Flags().String("aws-endpoint", "", "Custom S3 endpoint (e.g. R2)")
	cmd.Flags().String("aws-profile", "", "AWS shared config profile")

	cmd.MarkFlagRequired("case")

	return cmd
}

func runEncode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger, ok := ctx.Value("logger").(*zap.Logger)
	if !ok {
		return fmt.Errorf("logger not found in context")
	}

	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}

	frames, err := listFrames(cfg.OutputDir)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames found in %s", cfg.OutputDir)
	}
	logger.Info("Encoding existing frames",
		zap.String("frame_dir", cfg.OutputDir),
		zap.Int("count", len(frames)))

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

// listFrames globs the frame directory, sorted by the millisecond
// timestamp embedded in the file names.
func listFrames(dir string) ([]string, error) {
	frames, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("listing frames in %s: %w", dir, err)
	}
	sort.Strings(frames)
	return frames, nil
}

func newStorage(cfg *config.RuntimeConfig, logger *zap.Logger) (storage.Storage, error) {
	return storage.New(cfg.UploadTarget, storage.Options{
		AWSRegion:   cfg.AWSRegion,
		AWSEndpoint: cfg.AWSEndpoint,
		AWSProfile:  cfg.AWSProfile,
	}, logger)
}

func caseBasename(caseDir string) string {
	return filepath.Base(filepath.Clean(caseDir))
}

func baseName(p string) string {
	return filepath.Base(p)
}
