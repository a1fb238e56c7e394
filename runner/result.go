package runner

import (
	"strings"
	"time"
)

// Result is the immutable outcome of one executable invocation. It is
// created exactly once per Run call and owned by the caller; the library
// never mutates it after construction.
type Result struct {
	// InvocationID uniquely identifies this invocation in logs and traces.
	InvocationID string

	// Path is the resolved absolute path that was executed.
	Path string

	// Args are the arguments the executable was invoked with.
	Args []string

	// WorkingDir is the working directory the process ran in.
	WorkingDir string

	// Env holds the explicit environment overrides used, not the full
	// inherited environment.
	Env map[string]string

	// ExitCode is the process exit code, or -1 if it never exited
	// normally.
	ExitCode int

	// Stdout and Stderr hold captured output. Streams that overran the
	// configured limit end with a truncation marker.
	Stdout string
	Stderr string

	// StdoutTruncated and StderrTruncated report whether capture hit the
	// configured limit.
	StdoutTruncated bool
	StderrTruncated bool

	// Duration is the wall clock execution time.
	Duration time.Duration

	// TimedOut reports termination by the timeout deadline rather than
	// natural completion.
	TimedOut bool
}

// Success reports whether the invocation completed with exit code zero and
// without hitting the timeout deadline.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// Failed reports the inverse of Success.
func (r *Result) Failed() bool {
	return !r.Success()
}

// CommandLine returns the full command line that was executed.
func (r *Result) CommandLine() string {
	if len(r.Args) == 0 {
		return r.Path
	}
	return r.Path + " " + strings.Join(r.Args, " ")
}
