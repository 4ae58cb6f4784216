package basilisk

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Runner invokes a field- or interface-extraction helper for one snapshot
// and returns its diagnostic output as lines.
//
// The compiled helpers deliberately emit their payload on stderr; stdout
// is discarded. Callers must pass the snapshot path relative to workdir:
// the helpers reject long absolute paths, and workdir is always the
// absolute case directory.
type Runner interface {
	Run(ctx context.Context, tool string, args []string, workdir string) ([]string, error)
}

// ExecRunner runs helpers as real subprocesses.
type ExecRunner struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewExecRunner creates an ExecRunner with the default per-invocation timeout.
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	return &ExecRunner{
		timeout: 5 * time.Minute,
		logger:  logger,
	}
}

// Run executes one helper synchronously and splits its stderr into lines.
// A non-zero exit status is returned as a *ToolError.
func (r *ExecRunner) Run(ctx context.Context, tool string, args []string, workdir string) ([]string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, tool, args...)
	cmd.Dir = workdir

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	r.logger.Debug("Running helper",
		zap.String("tool", tool),
		zap.Strings("args", args),
		zap.String("workdir", workdir))

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &ToolError{
			Cmd:         append([]string{tool}, args...),
			ExitCode:    exitCode,
			Diagnostics: stderr.String(),
		}
	}

	return strings.Split(stderr.String(), "\n"), nil
}
