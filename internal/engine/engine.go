// Package engine invokes a resolved qgis_process binary and captures
// what it prints. Every call runs under a deadline; a hung QGIS install
// must never hang the prober.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Default time limits for each probe operation.
const (
	DefaultVersionTimeout = 30 * time.Second
	DefaultListTimeout    = 60 * time.Second
	DefaultHelpTimeout    = 30 * time.Second
)

// Timeouts holds the per-operation time limits.
type Timeouts struct {
	Version time.Duration
	List    time.Duration
	Help    time.Duration
}

// Result captures everything a finished invocation produced. On timeout
// the streams hold whatever the process managed to write before it was
// killed and ExitCode is -1.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	TimedOut bool
}

// TimeoutError reports an invocation that hit its time limit and was killed.
type TimeoutError struct {
	Args  []string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("qgis_process %s timed out after %s", strings.Join(e.Args, " "), e.Limit)
}

// ExitError reports an invocation that ran to completion but exited non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("qgis_process %s exited with code %d", strings.Join(e.Args, " "), e.Code)
	if line := firstLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

// StartError reports a binary that could not be launched at all, for
// example a missing file or a permission problem.
type StartError struct {
	Path string
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// Engine drives a single qgis_process binary.
type Engine struct {
	Path     string
	Timeouts Timeouts
}

// New creates an Engine for the given binary with default timeouts.
func New(path string) *Engine {
	return &Engine{
		Path: path,
		Timeouts: Timeouts{
			Version: DefaultVersionTimeout,
			List:    DefaultListTimeout,
			Help:    DefaultHelpTimeout,
		},
	}
}

// Version asks the binary for its version string.
func (e *Engine) Version(ctx context.Context) (string, error) {
	res, err := e.Invoke(ctx, e.Timeouts.Version, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// List returns the raw algorithm listing, one provider/algorithm per line.
func (e *Engine) List(ctx context.Context) (string, error) {
	res, err := e.Invoke(ctx, e.Timeouts.List, "list")
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// Help returns the help text for a single algorithm.
func (e *Engine) Help(ctx context.Context, algorithm string) (string, error) {
	res, err := e.Invoke(ctx, e.Timeouts.Help, "help", algorithm)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Invoke runs the binary once with the given arguments and time limit.
// The child runs in its own process group so that a timeout kills the
// whole tree; qgis_process forks Python workers that would otherwise
// outlive a killed parent.
func (e *Engine) Invoke(ctx context.Context, limit time.Duration, args ...string) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcessGroup(cmd)

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &StartError{Path: e.Path, Err: err}
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case err := <-waitCh:
		res := &Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Duration: time.Since(started),
		}
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				res.ExitCode = exitErr.ExitCode()
				return res, &ExitError{Args: args, Code: res.ExitCode, Stderr: res.Stderr}
			}
			return res, fmt.Errorf("wait for %s: %w", e.Path, err)
		}
		return res, nil

	case <-runCtx.Done():
		killTree(cmd)
		// Reap the child so no zombie is left behind.
		select {
		case <-waitCh:
		case <-time.After(2 * time.Second):
		}
		res := &Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: -1,
			Duration: time.Since(started),
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			res.TimedOut = true
			return res, &TimeoutError{Args: args, Limit: limit}
		}
		return res, fmt.Errorf("qgis_process %s: %w", strings.Join(args, " "), runCtx.Err())
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
