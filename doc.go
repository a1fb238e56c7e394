// Package skoglib provides structured execution of external executables.
//
// skoglib centralizes process invocation behind a small API that returns a
// typed result instead of raw process plumbing: consistent error
// classification, timeout enforcement that kills the whole process tree,
// bounded output capture, and diagnosable logging around every command.
//
// # Quick Start
//
//	result, err := skoglib.Run(ctx, "git", "status")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stdout)
//
// # Reusable Runner
//
// For repeated executions, build a Runner once and share it; it is safe for
// concurrent use:
//
//	run, err := skoglib.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cmd, _ := skoglib.Cmd("make", "test").
//	    WithWorkingDir("/src/project").
//	    WithTimeout(2 * time.Minute).
//	    Build()
//	result, err := run.Run(ctx, cmd)
//
// # Error Model
//
// Every failure is one of three kinds, matchable with errors.Is:
//
//   - errdefs.ErrNotFound: the executable could not be resolved; the error
//     context lists every searched path.
//   - errdefs.ErrExecutionFailure: the command ran but violated the success
//     policy (non-zero exit, timeout, or spawn failure). Timeouts carry a
//     timed_out context flag.
//   - errdefs.ErrConfigurationInvalid: a setting or executable candidate
//     failed validation.
//
// Constructing a typed error logs it once through the logging bridge; the
// error is still always propagated to the caller.
//
// # Configuration
//
// Process-wide settings load lazily from SKOGLIB_* environment variables on
// first use (see the config package) and can be reset for test isolation.
// Explicit configurations can be injected per runner:
//
//	cfg := config.Merge(config.Default(), &config.Config{
//	    DefaultTimeout: 10 * time.Second,
//	})
//	run, _ := skoglib.NewBuilder().WithConfig(cfg).Build()
//
// # Architecture
//
// The library is organized into focused packages:
//
//   - skoglib (this package): facade and convenience functions
//   - runner: core Runner interface, Command builder and Result
//   - config: process-wide configuration and executable resolution
//   - errdefs: typed error values with context mappings
//   - logging: namespaced logging bridge and performance timing
//   - hooks: extension points around invocations
//   - observability: OpenTelemetry spans and execution metrics
//
// # Thread Safety
//
// All exported types are safe for concurrent use by multiple goroutines.
// Concurrent Run calls each spawn and await their own process; the only
// shared state is the configuration and its guarded resolution cache.
package skoglib
