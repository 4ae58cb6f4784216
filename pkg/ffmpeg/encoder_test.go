package ffmpeg

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildArgs(t *testing.T) {
	e := NewEncoder(zap.NewNop())

	args := e.BuildArgs(EncodeRequest{
		FrameDir:   filepath.Join("simulationCases", "1000", "Video"),
		Framerate:  90,
		OutputFPS:  30,
		OutputPath: filepath.Join("simulationCases", "1000", "1000.mp4"),
	})

	assert.Equal(t, []string{
		"-y",
		"-framerate", "90",
		"-pattern_type", "glob",
		"-i", filepath.Join("simulationCases", "1000", "Video", "*.png"),
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", "libx264",
		"-r", "30",
		"-pix_fmt", "yuv420p",
		filepath.Join("simulationCases", "1000", "1000.mp4"),
	}, args)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		caseDir string
		want    string
	}{
		{
			name:    "plain case directory",
			caseDir: filepath.Join("simulationCases", "1000"),
			want:    filepath.Join("simulationCases", "1000", "1000.mp4"),
		},
		{
			name:    "trailing separator",
			caseDir: filepath.Join("simulationCases", "1000") + string(filepath.Separator),
			want:    filepath.Join("simulationCases", "1000", "1000.mp4"),
		},
		{
			name:    "bare name",
			caseDir: "burst",
			want:    filepath.Join("burst", "burst.mp4"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.caseDir))
		})
	}
}

func TestEncodeFailure(t *testing.T) {
	// /bin/false stands in for a crashing ffmpeg.
	e := NewEncoderWithPath("false", time.Minute, zap.NewNop())

	err := e.Encode(context.Background(), EncodeRequest{
		FrameDir:   t.TempDir(),
		Framerate:  90,
		OutputFPS:  30,
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	})
	require.Error(t, err)

	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, 1, encErr.ExitCode)
	assert.Contains(t, err.Error(), "false")
}
