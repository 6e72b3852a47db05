// Package shell runs the external build tools (npm, grunt) a new project needs.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

// DefaultCommandTimeout is the default timeout for external commands
const DefaultCommandTimeout = 10 * time.Minute

// ErrNotInstalled indicates the command is not on PATH
var ErrNotInstalled = errors.New("command not found on PATH")

// Runner handles execution of external commands
type Runner struct {
	// Output, when set, also receives the command's stdout and stderr as it runs
	Output  io.Writer
	timeout time.Duration
}

// NewRunner creates a new Runner
func NewRunner() *Runner {
	return &Runner{timeout: DefaultCommandTimeout}
}

// SetTimeout overrides the per-command timeout used when ctx has no deadline
func (r *Runner) SetTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

// LookPath reports where name is installed
func (r *Runner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	return path, nil
}

// Run executes name with args in dir. The process working directory of
// wpstarter itself is never changed.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if _, err := r.LookPath(name); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Output != nil {
		cmd.Stdout = io.MultiWriter(&stdout, r.Output)
		cmd.Stderr = io.MultiWriter(&stderr, r.Output)
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return wperrors.NewCommandError(name, args, dir,
			strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err)
	}
	return nil
}
