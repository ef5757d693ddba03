// Package installer provides the two backend installation strategies for
// skill dependencies: the clawhub registry CLI and git sparse checkout.
//
// Both backends run external processes synchronously with a bounded timeout
// and are never retried automatically; a timed-out process is reported the
// same way as a non-zero exit.
package installer

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Options configures a single install invocation.
type Options struct {
	// Force reinstalls even when the dependency already appears present.
	Force bool
}

// Result is the outcome of a successful backend invocation.
type Result struct {
	// Skipped is true when the backend did nothing because the target
	// already existed (repository backend, force not set).
	Skipped bool
	// Output is the captured process output, for debug logging.
	Output string
}

// runCommand executes an external command bounded by the given timeout and
// returns its combined output. timedOut reports whether the deadline, not
// the process itself, caused the failure.
func runCommand(ctx context.Context, timeout time.Duration, dir, name string, args ...string) (output string, timedOut bool, err error) {
	cctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	out, err := cmd.CombinedOutput()
	output = strings.TrimSpace(string(out))
	if err != nil {
		return output, cctx.Err() == context.DeadlineExceeded, err
	}
	return output, false, nil
}
