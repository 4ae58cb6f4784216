package basilisk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExecRunnerReturnsStderrLines(t *testing.T) {
	runner := NewExecRunner(zap.NewNop())

	// Payload goes to stderr; stdout must be discarded.
	lines, err := runner.Run(context.Background(), "sh",
		[]string{"-c", `echo "stdout noise"; printf '1.0 0.5\n1.1 0.6\n' >&2`},
		t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, lines, "1.0 0.5")
	assert.Contains(t, lines, "1.1 0.6")
	assert.NotContains(t, lines, "stdout noise")
}

func TestExecRunnerUsesWorkdir(t *testing.T) {
	runner := NewExecRunner(zap.NewNop())
	dir := t.TempDir()

	lines, err := runner.Run(context.Background(), "sh",
		[]string{"-c", "pwd >&2"}, dir)
	require.NoError(t, err)
	assert.Contains(t, lines, dir)
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	runner := NewExecRunner(zap.NewNop())

	_, err := runner.Run(context.Background(), "sh",
		[]string{"-c", `echo "bad file" >&2; exit 1`},
		t.TempDir())
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, 1, toolErr.ExitCode)
	assert.Contains(t, toolErr.Diagnostics, "bad file")

	// The message must carry the command line and the diagnostics.
	assert.Contains(t, err.Error(), "sh")
	assert.Contains(t, err.Error(), "bad file")
}

func TestExecRunnerMissingTool(t *testing.T) {
	runner := NewExecRunner(zap.NewNop())

	_, err := runner.Run(context.Background(), "/nonexistent/getFacet",
		[]string{"intermediate/snapshot-0.0100"}, t.TempDir())
	require.Error(t, err)

	var toolErr *ToolError
	assert.ErrorAs(t, err, &toolErr)
}
