// Package errdefs defines the typed error values raised across skoglib.
//
// Every failure in the library is one of three kinds: NotFound (an executable
// could not be resolved), ExecutionFailure (a resolved executable ran but
// violated the caller's success policy) or ConfigurationInvalid (a setting or
// executable candidate failed validation). Each carries a human-readable
// message, a context mapping with diagnostic key/values, and an optional
// wrapped cause.
//
// Constructing an error through the New* constructors emits exactly one
// structured ERROR record through the logging bridge before the value is
// returned to the failure site. The emission is an explicit call at the
// construction boundary, is suppressible with SetAutoLog, and is guarded so
// that a broken log sink can never prevent the error from propagating.
package errdefs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/skogai/skoglib/logging"
)

// Sentinel errors for classification with errors.Is.
var (
	// ErrNotFound indicates an executable could not be resolved.
	ErrNotFound = errors.New("executable not found")

	// ErrExecutionFailure indicates a command ran but did not succeed.
	ErrExecutionFailure = errors.New("execution failed")

	// ErrConfigurationInvalid indicates a bad setting or executable candidate.
	ErrConfigurationInvalid = errors.New("invalid configuration")
)

// Kind classifies an Error.
type Kind string

const (
	// KindNotFound is an executable resolution failure.
	KindNotFound Kind = "NOT_FOUND"

	// KindExecutionFailure is a non-zero exit, timeout or spawn failure.
	KindExecutionFailure Kind = "EXECUTION_FAILURE"

	// KindConfigurationInvalid is a failed settings or candidate validation.
	KindConfigurationInvalid Kind = "CONFIGURATION_INVALID"
)

// excerptLimit caps the stdout/stderr excerpts attached to error context.
const excerptLimit = 512

// Error is the structured error value used throughout skoglib.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Message is the human-readable description.
	Message string

	// Context holds structured diagnostic key/values, e.g. name,
	// search_paths, exit_code, field.
	Context map[string]any

	// Cause is the wrapped underlying error, if any.
	Cause error
}

// Error renders the message followed by the sorted context mapping.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

// Unwrap exposes the kind sentinel and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	unwrapped := []error{e.sentinel()}
	if e.Cause != nil {
		unwrapped = append(unwrapped, e.Cause)
	}
	return unwrapped
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindNotFound:
		return ErrNotFound
	case KindExecutionFailure:
		return ErrExecutionFailure
	case KindConfigurationInvalid:
		return ErrConfigurationInvalid
	default:
		return errors.New(string(e.Kind))
	}
}

// autoLog controls whether constructors emit a log record. Enabled by default.
var autoLog atomic.Bool

func init() {
	autoLog.Store(true)
}

// SetAutoLog enables or disables the logging side effect of the error
// constructors. It returns the previous setting so callers can restore it.
func SetAutoLog(enabled bool) bool {
	return autoLog.Swap(enabled)
}

// newError builds the error and performs the one logging side effect.
func newError(kind Kind, message string, context map[string]any, cause error) *Error {
	e := &Error{
		Kind:    kind,
		Message: message,
		Context: context,
		Cause:   cause,
	}
	e.emit()
	return e
}

// emit logs the error once. Any fault in the sink is swallowed here and only
// here: logging is a side effect, never a reason to lose the error itself.
func (e *Error) emit() {
	if !autoLog.Load() {
		return
	}
	defer func() {
		_ = recover()
	}()

	fields := make([]zap.Field, 0, len(e.Context)+2)
	fields = append(fields, zap.String("kind", string(e.Kind)))

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, e.Context[k]))
	}
	if e.Cause != nil {
		fields = append(fields, zap.NamedError("cause", e.Cause))
	}

	logging.GetLogger("errors").Error(e.Message, fields...)
}

// NewNotFound reports that name could not be resolved to an executable.
// The context always includes every path that was searched.
func NewNotFound(name string, searchPaths []string) *Error {
	return newError(KindNotFound,
		fmt.Sprintf("executable %q not found", name),
		map[string]any{
			"name":         name,
			"search_paths": searchPaths,
		}, nil)
}

// NewExecutionFailure reports a command that ran and exited non-zero.
func NewExecutionFailure(command string, args []string, exitCode int, duration time.Duration, stdout, stderr string) *Error {
	context := map[string]any{
		"command":   command,
		"args":      args,
		"exit_code": exitCode,
		"duration":  duration,
	}
	if stdout != "" {
		context["stdout_excerpt"] = excerpt(stdout)
	}
	if stderr != "" {
		context["stderr_excerpt"] = excerpt(stderr)
	}
	return newError(KindExecutionFailure,
		fmt.Sprintf("command %q failed with exit code %d", command, exitCode),
		context, nil)
}

// NewTimeout reports a command that was forcibly terminated at the timeout
// deadline. The error is an ExecutionFailure distinguished by a timed_out
// context flag rather than a separate kind, so callers can handle "command
// did not succeed" uniformly.
func NewTimeout(command string, args []string, timeout, duration time.Duration, stdout, stderr string) *Error {
	context := map[string]any{
		"command":   command,
		"args":      args,
		"timed_out": true,
		"timeout":   timeout,
		"duration":  duration,
	}
	if stdout != "" {
		context["stdout_excerpt"] = excerpt(stdout)
	}
	if stderr != "" {
		context["stderr_excerpt"] = excerpt(stderr)
	}
	return newError(KindExecutionFailure,
		fmt.Sprintf("command %q timed out after %s", command, timeout),
		context, nil)
}

// NewSpawnFailure reports a command that could not be started at all, for
// example due to permissions or a broken interpreter line.
func NewSpawnFailure(command string, args []string, cause error) *Error {
	return newError(KindExecutionFailure,
		fmt.Sprintf("command %q failed to start", command),
		map[string]any{
			"command": command,
			"args":    args,
		}, cause)
}

// NewConfigurationInvalid reports a setting or candidate that failed
// validation. The context always includes the offending field and value.
func NewConfigurationInvalid(field string, rawValue any, reason string, cause error) *Error {
	return newError(KindConfigurationInvalid,
		fmt.Sprintf("invalid configuration for %s: %s", field, reason),
		map[string]any{
			"field":     field,
			"raw_value": rawValue,
			"reason":    reason,
		}, cause)
}

// IsTimeout reports whether err is an execution failure caused by the
// timeout deadline.
func IsTimeout(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	timedOut, ok := e.Context["timed_out"].(bool)
	return ok && timedOut
}

// GetContext returns the context mapping of a typed error, or nil when err
// is not one.
func GetContext(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Context
	}
	return nil
}

// excerpt truncates s for inclusion in error context.
func excerpt(s string) string {
	if len(s) <= excerptLimit {
		return s
	}
	return s[:excerptLimit] + "..."
}
