// Package hooks provides extension points around executable invocation.
//
// A Registry collects named, priority-ordered hooks and itself satisfies the
// runner's Hook interface, so a whole registry can be attached to a runner
// with a single WithHooks call.
package hooks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/skogai/skoglib/runner"
)

// Hook is a named, prioritized extension point. Lower priority runs earlier.
type Hook interface {
	runner.Hook

	// Name returns a unique identifier for the hook.
	Name() string

	// Priority determines execution order (lower = earlier).
	Priority() int
}

// Registry manages hook registration and invocation.
type Registry struct {
	mu    sync.RWMutex
	hooks []Hook
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a hook, keeping the set ordered by priority.
func (r *Registry) Register(hook Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
	sort.SliceStable(r.hooks, func(i, j int) bool {
		return r.hooks[i].Priority() < r.hooks[j].Priority()
	})
}

// Unregister removes a hook by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.hooks[:0]
	for _, h := range r.hooks {
		if h.Name() != name {
			kept = append(kept, h)
		}
	}
	r.hooks = kept
}

// PreRun runs every registered hook's PreRun in priority order.
func (r *Registry) PreRun(ctx context.Context, cmd *runner.Command) (*runner.Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	current := cmd
	for _, hook := range r.hooks {
		modified, err := hook.PreRun(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("hook %s: %w", hook.Name(), err)
		}
		current = modified
	}
	return current, nil
}

// PostRun runs every registered hook's PostRun in priority order.
func (r *Registry) PostRun(ctx context.Context, cmd *runner.Command, result *runner.Result, execErr error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.hooks {
		if err := hook.PostRun(ctx, cmd, result, execErr); err != nil {
			return fmt.Errorf("hook %s: %w", hook.Name(), err)
		}
	}
	return nil
}

// LoggingHook is a built-in hook that logs every invocation.
type LoggingHook struct {
	logger *zap.Logger
}

// NewLoggingHook creates a logging hook writing through the given logger.
func NewLoggingHook(logger *zap.Logger) *LoggingHook {
	return &LoggingHook{logger: logger}
}

// Name implements Hook.
func (h *LoggingHook) Name() string { return "logging" }

// Priority implements Hook; logging runs after other hooks.
func (h *LoggingHook) Priority() int { return 1000 }

// PreRun logs the command about to execute.
func (h *LoggingHook) PreRun(_ context.Context, cmd *runner.Command) (*runner.Command, error) {
	h.logger.Info("executing",
		zap.String("command", cmd.Name),
		zap.Strings("args", cmd.Args),
	)
	return cmd, nil
}

// PostRun logs the outcome.
func (h *LoggingHook) PostRun(_ context.Context, cmd *runner.Command, result *runner.Result, execErr error) error {
	if execErr != nil {
		h.logger.Warn("execution failed",
			zap.String("command", cmd.Name),
			zap.Error(execErr),
		)
		return nil
	}
	h.logger.Info("execution completed",
		zap.String("command", cmd.Name),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration),
	)
	return nil
}
