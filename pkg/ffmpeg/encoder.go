// Package ffmpeg stitches rendered frame directories into videos.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// EncodeRequest describes one stitching run over a frame directory. The
// frames carry millisecond timestamps in their names, so the glob input
// is already chronologically ordered.
type EncodeRequest struct {
	FrameDir   string
	Framerate  int
	OutputFPS  int
	OutputPath string
}

// EncodeError reports a non-zero ffmpeg exit.
type EncodeError struct {
	Cmd      []string
	ExitCode int
	Stderr   string
}

// Error implements the error interface
func (e *EncodeError) Error() string {
	return fmt.Sprintf("ffmpeg %s failed with code %d:\n%s",
		strings.Join(e.Cmd, " "), e.ExitCode, e.Stderr)
}

// Encoder invokes ffmpeg as a single blocking subprocess.
type Encoder struct {
	ffmpegPath string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewEncoder creates an encoder that expects ffmpeg on PATH.
func NewEncoder(logger *zap.Logger) *Encoder {
	return &Encoder{
		ffmpegPath: "ffmpeg",
		timeout:    30 * time.Minute,
		logger:     logger,
	}
}

// NewEncoderWithPath creates an encoder with a custom ffmpeg binary and timeout.
func NewEncoderWithPath(ffmpegPath string, timeout time.Duration, logger *zap.Logger) *Encoder {
	return &Encoder{
		ffmpegPath: ffmpegPath,
		timeout:    timeout,
		logger:     logger,
	}
}

// BuildArgs assembles the ffmpeg argument list: glob input over the
// frame directory, even-dimension pad filter, libx264, yuv420p.
func (e *Encoder) BuildArgs(req EncodeRequest) []string {
	return []string{
		"-y",
		"-framerate", strconv.Itoa(req.Framerate),
		"-pattern_type", "glob",
		"-i", filepath.Join(req.FrameDir, "*.png"),
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", "libx264",
		"-r", strconv.Itoa(req.OutputFPS),
		"-pix_fmt", "yuv420p",
		req.OutputPath,
	}
}

// Encode runs ffmpeg to completion. There is no retry; a failure here is
// fatal to the whole run.
func (e *Encoder) Encode(ctx context.Context, req EncodeRequest) error {
	args := e.BuildArgs(req)

	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, e.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Info("Encoding video",
		zap.String("frame_dir", req.FrameDir),
		zap.String("output", req.OutputPath),
		zap.Int("framerate", req.Framerate),
		zap.Int("output_fps", req.OutputFPS))

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &EncodeError{
			Cmd:      append([]string{e.ffmpegPath}, args...),
			ExitCode: exitCode,
			Stderr:   stderr.String(),
		}
	}

	e.logger.Info("Video saved", zap.String("output", req.OutputPath))
	return nil
}

// OutputPath derives the video destination from the case directory:
// <case>/<basename of case>.mp4.
func OutputPath(caseDir string) string {
	base := filepath.Base(filepath.Clean(caseDir))
	return filepath.Join(caseDir, base+".mp4")
}
