package basilisk

import (
	"fmt"
	"strings"
)

// ToolError reports a helper executable that exited non-zero. It carries
// the full command line and the diagnostic stream so the failing snapshot
// can be reproduced by hand.
type ToolError struct {
	Cmd         []string
	ExitCode    int
	Diagnostics string
}

// Error implements the error interface
func (e *ToolError) Error() string {
	return fmt.Sprintf("command %s failed with code %d:\n%s",
		strings.Join(e.Cmd, " "), e.ExitCode, e.Diagnostics)
}

// MalformedOutputError reports helper output that cannot be parsed or
// reshaped. It always indicates a broken extraction or a configuration
// that does not match the requested sampling domain, never a recoverable
// condition.
type MalformedOutputError struct {
	Reason string
}

// Error implements the error interface
func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed helper output: %s", e.Reason)
}

func malformedf(format string, args ...interface{}) *MalformedOutputError {
	return &MalformedOutputError{Reason: fmt.Sprintf(format, args...)}
}
