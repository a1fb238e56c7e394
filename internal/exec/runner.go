// Package exec provides the internal process spawn wrapper.
// This is the ONLY package in the library that imports os/exec.
// All command execution goes through this package.
package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// waitDelay bounds how long Wait blocks after the process is killed when a
// descendant still holds the output pipes open.
const waitDelay = 3 * time.Second

// Runner executes commands using os/exec.CommandContext.
type Runner struct{}

// NewRunner creates a new command runner.
func NewRunner() *Runner {
	return &Runner{}
}

// RunConfig contains configuration for running one command.
type RunConfig struct {
	// Path is the absolute path to the executable.
	Path string

	// Args are the command arguments (excluding the executable name).
	Args []string

	// Env is the complete environment. If nil, the process environment
	// is inherited.
	Env []string

	// WorkingDir is the working directory. Empty means the caller's.
	WorkingDir string

	// Stdin provides input to the command.
	Stdin io.Reader

	// CaptureOutput enables bounded capture of stdout and stderr.
	CaptureOutput bool

	// MaxOutputBytes caps each captured stream. Zero or negative means
	// unlimited.
	MaxOutputBytes int64
}

// RunResult contains the raw outcome of one spawn.
type RunResult struct {
	// ExitCode is the process exit code, or -1 if it never exited
	// normally.
	ExitCode int

	// Signal is the signal that terminated the process, if any.
	Signal syscall.Signal

	// Stdout and Stderr hold captured output, already truncated and
	// marked if the cap was hit.
	Stdout []byte
	Stderr []byte

	// StdoutTruncated and StderrTruncated report whether the cap was hit.
	StdoutTruncated bool
	StderrTruncated bool

	// Duration is the wall clock time of the execution.
	Duration time.Duration

	// TimedOut reports whether the context deadline expired.
	TimedOut bool

	// ProcessState contains OS process accounting, when available.
	ProcessState *ProcessState
}

// ProcessState contains OS-level process information.
type ProcessState struct {
	Pid        int
	UserTime   time.Duration
	SystemTime time.Duration
}

// Run executes one command bounded by the context deadline. The deadline is
// mandatory: it is the sole cancellation mechanism, and on expiry the whole
// process tree is forcibly terminated before Run returns.
//
// A non-zero exit is not an error here; it is reported through ExitCode.
// The returned error is non-nil only for deadline expiry (the result still
// carries everything captured up to that point) or a spawn-level failure.
func (r *Runner) Run(ctx context.Context, config *RunConfig) (*RunResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, fmt.Errorf("context must have a deadline for timeout enforcement")
	}

	// #nosec G204 -- the path was resolved and validated by the caller;
	// separate path/args spawning prevents shell injection.
	cmd := exec.CommandContext(ctx, config.Path, config.Args...)

	if config.Env != nil {
		cmd.Env = config.Env
	} else {
		cmd.Env = os.Environ()
	}
	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}
	if config.Stdin != nil {
		cmd.Stdin = config.Stdin
	}

	var stdout, stderr *cappedBuffer
	if config.CaptureOutput {
		stdout = newCappedBuffer(config.MaxOutputBytes)
		stderr = newCappedBuffer(config.MaxOutputBytes)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
	}

	// The child leads its own process group so deadline expiry can kill
	// every descendant, not just the direct child.
	cmd.SysProcAttr = defaultSysProcAttr()
	cmd.Cancel = func() error { return terminateTree(cmd) }
	cmd.WaitDelay = waitDelay

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	result := &RunResult{
		ExitCode: -1,
		Duration: duration,
	}
	if config.CaptureOutput {
		result.Stdout, result.StdoutTruncated = stdout.Contents()
		result.Stderr, result.StderrTruncated = stderr.Contents()
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
		result.ProcessState = &ProcessState{
			Pid:        cmd.ProcessState.Pid(),
			UserTime:   cmd.ProcessState.UserTime(),
			SystemTime: cmd.ProcessState.SystemTime(),
		}
		if sig, ok := extractSignal(cmd.ProcessState.Sys()); ok {
			result.Signal = sig
		}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		return result, context.DeadlineExceeded
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Non-zero exit; the code is already in the result.
			return result, nil
		}
		return result, runErr
	}

	return result, nil
}
