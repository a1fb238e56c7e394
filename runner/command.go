// Package runner provides the core executable invocation abstraction.
package runner

import (
	"fmt"
	"io"
	"time"
)

// Command describes one executable invocation. Commands are immutable once
// built; construct them with NewCommand.
type Command struct {
	// Name is the executable to run. A bare name is resolved through the
	// configured search paths and the host PATH; a path-qualified name
	// must already point at an executable file.
	Name string

	// Args are the command arguments (excluding the executable name).
	Args []string

	// WorkingDir is the working directory. Empty means the caller's
	// current directory. When set, it must exist.
	WorkingDir string

	// Env holds explicit environment overrides, merged over the inherited
	// process environment. Inherited variables are never removed.
	Env map[string]string

	// Timeout bounds the execution. Zero means the configured default.
	Timeout time.Duration

	// CaptureOutput enables bounded stdout/stderr capture. Defaults to
	// true for built commands.
	CaptureOutput bool

	// CheckExitCode makes a non-zero exit an error. Defaults to true for
	// built commands.
	CheckExitCode bool

	// Stdin provides input to the command.
	Stdin io.Reader

	// ExtraPaths are consulted before the configured search paths when
	// resolving a bare name.
	ExtraPaths []string
}

// CommandBuilder provides a fluent API for constructing commands.
type CommandBuilder struct {
	cmd *Command
	err error
}

// NewCommand creates a CommandBuilder for the given executable and
// arguments, with output capture and exit-code checking enabled.
func NewCommand(name string, args ...string) *CommandBuilder {
	return &CommandBuilder{
		cmd: &Command{
			Name:          name,
			Args:          args,
			Env:           make(map[string]string),
			CaptureOutput: true,
			CheckExitCode: true,
		},
	}
}

// WithWorkingDir sets the working directory.
func (b *CommandBuilder) WithWorkingDir(dir string) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.WorkingDir = dir
	return b
}

// WithTimeout sets the execution timeout.
func (b *CommandBuilder) WithTimeout(timeout time.Duration) *CommandBuilder {
	if b.err != nil {
		return b
	}
	if timeout <= 0 {
		b.err = fmt.Errorf("timeout must be positive")
		return b
	}
	b.cmd.Timeout = timeout
	return b
}

// WithEnv adds one environment override.
func (b *CommandBuilder) WithEnv(key, value string) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.Env[key] = value
	return b
}

// WithEnvMap adds multiple environment overrides.
func (b *CommandBuilder) WithEnvMap(env map[string]string) *CommandBuilder {
	if b.err != nil {
		return b
	}
	for k, v := range env {
		b.cmd.Env[k] = v
	}
	return b
}

// WithStdin sets the standard input reader.
func (b *CommandBuilder) WithStdin(stdin io.Reader) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.Stdin = stdin
	return b
}

// WithExtraPaths prepends directories to the resolution search order.
func (b *CommandBuilder) WithExtraPaths(paths ...string) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.ExtraPaths = append(b.cmd.ExtraPaths, paths...)
	return b
}

// WithCaptureOutput toggles stdout/stderr capture.
func (b *CommandBuilder) WithCaptureOutput(capture bool) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.CaptureOutput = capture
	return b
}

// WithCheckExitCode toggles whether a non-zero exit is an error.
func (b *CommandBuilder) WithCheckExitCode(check bool) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.CheckExitCode = check
	return b
}

// Build validates and returns the command.
func (b *CommandBuilder) Build() (*Command, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.cmd.Name == "" {
		return nil, fmt.Errorf("executable name is required")
	}
	return b.cmd, nil
}

// MustBuild validates and returns the command, panicking on error.
// Use only when the inputs are known to be valid.
func (b *CommandBuilder) MustBuild() *Command {
	cmd, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cmd
}

// Clone creates a deep copy of the command. Stdin is shared, not copied.
func (c *Command) Clone() *Command {
	clone := &Command{
		Name:          c.Name,
		Args:          append([]string(nil), c.Args...),
		WorkingDir:    c.WorkingDir,
		Env:           make(map[string]string, len(c.Env)),
		Timeout:       c.Timeout,
		CaptureOutput: c.CaptureOutput,
		CheckExitCode: c.CheckExitCode,
		Stdin:         c.Stdin,
		ExtraPaths:    append([]string(nil), c.ExtraPaths...),
	}
	for k, v := range c.Env {
		clone.Env[k] = v
	}
	return clone
}

// String returns the command line representation.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s %v", c.Name, c.Args)
}
