package skoglib

import (
	"context"
	"time"

	"github.com/skogai/skoglib/config"
	"github.com/skogai/skoglib/errdefs"
	"github.com/skogai/skoglib/logging"
	"github.com/skogai/skoglib/runner"
)

// =============================================================================
// Core Types
// =============================================================================

// Runner is the primary interface for executable invocation.
type Runner = runner.Runner

// Command represents one executable invocation. Use Cmd to create commands.
type Command = runner.Command

// CommandBuilder creates commands with a fluent interface.
type CommandBuilder = runner.CommandBuilder

// Result contains the outcome of one invocation.
type Result = runner.Result

// Builder creates configured Runner instances.
type Builder = runner.Builder

// Hook defines extension points around invocations.
type Hook = runner.Hook

// Config is the process-wide settings snapshot.
type Config = config.Config

// Error is the structured typed error carried by every failure.
type Error = errdefs.Error

// =============================================================================
// Error Variables
// =============================================================================

// Sentinel errors for classification with errors.Is.
var (
	// ErrNotFound indicates an executable could not be resolved.
	ErrNotFound = errdefs.ErrNotFound

	// ErrExecutionFailure indicates a command ran but did not succeed.
	ErrExecutionFailure = errdefs.ErrExecutionFailure

	// ErrConfigurationInvalid indicates a bad setting or candidate.
	ErrConfigurationInvalid = errdefs.ErrConfigurationInvalid
)

// IsTimeout reports whether err is an execution failure caused by the
// timeout deadline.
func IsTimeout(err error) bool {
	return errdefs.IsTimeout(err)
}

// =============================================================================
// Factory Functions
// =============================================================================

// New creates a Runner with default settings, backed by the process-wide
// configuration.
func New() (Runner, error) {
	return runner.New()
}

// NewBuilder creates a runner builder for configuring the Runner.
//
// Example:
//
//	run, err := skoglib.NewBuilder().
//	    WithConfig(cfg).
//	    WithHooks(registry).
//	    Build()
func NewBuilder() *Builder {
	return runner.NewBuilder()
}

// =============================================================================
// Command Construction
// =============================================================================

// Cmd creates a CommandBuilder for the given executable and arguments.
// Call Build on the returned builder to get the final Command.
func Cmd(name string, args ...string) *CommandBuilder {
	return runner.NewCommand(name, args...)
}

// MustCmd creates a command and panics on error.
// Use only when the inputs are known to be valid.
func MustCmd(name string, args ...string) *Command {
	return runner.NewCommand(name, args...).MustBuild()
}

// =============================================================================
// Convenience Functions
// =============================================================================

// Run is a convenience function for one-off execution with defaults.
// For repeated executions, create a Runner instance instead.
//
// Example:
//
//	result, err := skoglib.Run(ctx, "echo", "hello")
func Run(ctx context.Context, name string, args ...string) (*Result, error) {
	run, err := New()
	if err != nil {
		return nil, err
	}
	cmd, err := Cmd(name, args...).Build()
	if err != nil {
		return nil, err
	}
	return run.Run(ctx, cmd)
}

// RunWithTimeout is a convenience function with an explicit timeout.
func RunWithTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) (*Result, error) {
	run, err := New()
	if err != nil {
		return nil, err
	}
	cmd, err := Cmd(name, args...).WithTimeout(timeout).Build()
	if err != nil {
		return nil, err
	}
	return run.Run(ctx, cmd)
}

// =============================================================================
// Configuration & Logging
// =============================================================================

// GetConfig returns the process-wide configuration, loading it on first use.
func GetConfig() (*Config, error) {
	return config.Get()
}

// ResetConfig clears the process-wide configuration and its resolution
// cache. Intended for test isolation.
func ResetConfig() {
	config.Reset()
}

// ConfigureLogging applies logging options process-wide.
func ConfigureLogging(opts logging.Options) error {
	return logging.Configure(opts)
}

// ConfigureLoggingFromEnv applies logging options from SKOGLIB_LOG_*
// environment variables.
func ConfigureLoggingFromEnv() error {
	return logging.ConfigureFromEnv()
}

// =============================================================================
// Version Information
// =============================================================================

// Version returns the library version.
func Version() string {
	return "1.0.0"
}
