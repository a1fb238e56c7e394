package runner

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skogai/skoglib/config"
	"github.com/skogai/skoglib/errdefs"
	"github.com/skogai/skoglib/internal/envutil"
	internalexec "github.com/skogai/skoglib/internal/exec"
	"github.com/skogai/skoglib/logging"
	"github.com/skogai/skoglib/observability"
)

// Runner is the abstraction for executable invocation. Implementations are
// safe for concurrent use; each Run spawns and awaits exactly one process.
type Runner interface {
	// Run executes a command synchronously and returns its result.
	//
	// Failure classification:
	//   - resolution misses return a NotFound error
	//   - an invalid working directory returns a ConfigurationInvalid error
	//   - timeout, spawn failure, and (with CheckExitCode) non-zero exit
	//     return an ExecutionFailure error
	//
	// Whenever a process actually ran, the Result is returned alongside
	// the error with everything captured up to that point.
	Run(ctx context.Context, cmd *Command) (*Result, error)
}

// Hook defines extension points around a single invocation.
type Hook interface {
	// PreRun is called before resolution and spawn. It may return a
	// modified command.
	PreRun(ctx context.Context, cmd *Command) (*Command, error)

	// PostRun is called after the invocation with its result and error.
	PostRun(ctx context.Context, cmd *Command, result *Result, err error) error
}

// procRunner is the internal spawn seam, mockable in tests.
type procRunner interface {
	Run(ctx context.Context, config *internalexec.RunConfig) (*internalexec.RunResult, error)
}

// runner is the default implementation.
type runner struct {
	cfg       *config.Config
	proc      procRunner
	telemetry observability.Telemetry
	hooks     []Hook
	logger    *zap.Logger
}

// Builder creates configured Runner instances.
type Builder struct {
	cfg       *config.Config
	telemetry observability.Telemetry
	hooks     []Hook
}

// NewBuilder creates a new runner builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithConfig injects an explicit configuration instead of the process-wide
// singleton.
func (b *Builder) WithConfig(cfg *config.Config) *Builder {
	b.cfg = cfg
	return b
}

// WithTelemetry sets the telemetry provider.
func (b *Builder) WithTelemetry(t observability.Telemetry) *Builder {
	b.telemetry = t
	return b
}

// WithHooks adds invocation hooks, run in registration order.
func (b *Builder) WithHooks(hooks ...Hook) *Builder {
	b.hooks = append(b.hooks, hooks...)
	return b
}

// Build creates the runner.
func (b *Builder) Build() (Runner, error) {
	return &runner{
		cfg:       b.cfg,
		proc:      internalexec.NewRunner(),
		telemetry: b.telemetry,
		hooks:     b.hooks,
		logger:    logging.GetLogger("runner"),
	}, nil
}

// New creates a Runner with default settings.
func New() (Runner, error) {
	return NewBuilder().Build()
}

// Run implements Runner.
func (r *runner) Run(ctx context.Context, cmd *Command) (*Result, error) {
	if cmd == nil || cmd.Name == "" {
		return nil, errdefs.NewConfigurationInvalid("command", "", "an executable name is required", nil)
	}

	cfg := r.cfg
	if cfg == nil {
		var err error
		if cfg, err = config.Get(); err != nil {
			return nil, err
		}
	}

	timer := logging.StartTimer(r.logger, "run "+cmd.Name)
	defer timer.Stop()

	if r.telemetry != nil {
		var end func()
		ctx, end = r.telemetry.StartSpan(ctx, "runner.Run")
		defer end()
	}

	cmd, err := r.runPreHooks(ctx, cmd)
	if err != nil {
		return nil, err
	}

	path, err := cfg.FindExecutable(cmd.Name, cmd.ExtraPaths...)
	if err != nil {
		return nil, err
	}

	if cmd.WorkingDir != "" {
		fi, statErr := os.Stat(cmd.WorkingDir)
		if statErr != nil || !fi.IsDir() {
			return nil, errdefs.NewConfigurationInvalid(
				"working_dir", cmd.WorkingDir, "not an existing directory", statErr)
		}
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = cfg.DefaultTimeout
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.logger.Debug("executing",
		zap.String("path", path),
		zap.Strings("args", cmd.Args),
		zap.String("working_dir", cmd.WorkingDir),
		zap.Duration("timeout", timeout),
	)

	runResult, runErr := r.proc.Run(execCtx, &internalexec.RunConfig{
		Path:           path,
		Args:           cmd.Args,
		Env:            envutil.Snapshot(cmd.Env),
		WorkingDir:     cmd.WorkingDir,
		Stdin:          cmd.Stdin,
		CaptureOutput:  cmd.CaptureOutput,
		MaxOutputBytes: cfg.MaxOutputSize,
	})

	result := buildResult(path, cmd, runResult)
	execErr := classify(cmd, path, timeout, result, runResult, runErr)

	if r.telemetry != nil {
		r.telemetry.RecordExecution(ctx, observability.ExecutionRecord{
			Path:     path,
			ExitCode: result.ExitCode,
			TimedOut: result.TimedOut,
			Duration: result.Duration,
		})
	}

	if hookErr := r.runPostHooks(ctx, cmd, result, execErr); hookErr != nil {
		return result, hookErr
	}
	return result, execErr
}

// runPreHooks runs pre-run hooks in order. Hooks are immutable after Build.
func (r *runner) runPreHooks(ctx context.Context, cmd *Command) (*Command, error) {
	current := cmd
	for _, hook := range r.hooks {
		modified, err := hook.PreRun(ctx, current)
		if err != nil {
			return nil, err
		}
		current = modified
	}
	return current, nil
}

// runPostHooks runs post-run hooks in order.
func (r *runner) runPostHooks(ctx context.Context, cmd *Command, result *Result, execErr error) error {
	for _, hook := range r.hooks {
		if err := hook.PostRun(ctx, cmd, result, execErr); err != nil {
			return err
		}
	}
	return nil
}

// buildResult converts the internal run result into the public Result.
func buildResult(path string, cmd *Command, runResult *internalexec.RunResult) *Result {
	result := &Result{
		InvocationID: uuid.New().String(),
		Path:         path,
		Args:         append([]string(nil), cmd.Args...),
		WorkingDir:   cmd.WorkingDir,
		Env:          cloneEnv(cmd.Env),
		ExitCode:     -1,
	}
	if result.WorkingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			result.WorkingDir = wd
		}
	}
	if runResult == nil {
		return result
	}

	result.ExitCode = runResult.ExitCode
	result.Stdout = string(runResult.Stdout)
	result.Stderr = string(runResult.Stderr)
	result.StdoutTruncated = runResult.StdoutTruncated
	result.StderrTruncated = runResult.StderrTruncated
	result.Duration = runResult.Duration
	result.TimedOut = runResult.TimedOut
	return result
}

// classify applies the success policy and produces the typed error for
// failed invocations, or nil.
func classify(cmd *Command, path string, timeout time.Duration, result *Result, runResult *internalexec.RunResult, runErr error) error {
	switch {
	case result.TimedOut:
		return errdefs.NewTimeout(path, cmd.Args, timeout, result.Duration, result.Stdout, result.Stderr)
	case runResult == nil, runErr != nil:
		return errdefs.NewSpawnFailure(path, cmd.Args, runErr)
	case cmd.CheckExitCode && result.ExitCode != 0:
		return errdefs.NewExecutionFailure(path, cmd.Args, result.ExitCode, result.Duration, result.Stdout, result.Stderr)
	default:
		return nil
	}
}

// cloneEnv copies the explicit overrides into the result snapshot.
func cloneEnv(env map[string]string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
