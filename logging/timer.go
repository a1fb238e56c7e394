package logging

import (
	"time"

	"go.uber.org/zap"
)

// Timer measures the duration of a single operation and logs it when it ran
// longer than the slow threshold. The usual pattern is:
//
//	timer := logging.StartTimer(logger, "resolve executable")
//	defer timer.Stop()
//
// Stop runs on every exit path, including panics unwinding through the
// deferred call, and itself never panics or returns an error.
type Timer struct {
	logger    *zap.Logger
	operation string
	threshold time.Duration
	start     time.Time
	stopped   bool
}

// StartTimer begins timing an operation against the configured slow
// threshold. A nil logger produces a timer that measures but never logs.
func StartTimer(logger *zap.Logger, operation string) *Timer {
	mu.RLock()
	threshold := slowThreshold
	mu.RUnlock()

	return &Timer{
		logger:    logger,
		operation: operation,
		threshold: threshold,
		start:     time.Now(),
	}
}

// WithThreshold overrides the slow threshold for this timer only.
func (t *Timer) WithThreshold(d time.Duration) *Timer {
	if t != nil && d > 0 {
		t.threshold = d
	}
	return t
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	if t == nil {
		return 0
	}
	return time.Since(t.start)
}

// Stop records the elapsed duration and emits a debug record if it meets the
// threshold. Stop is idempotent and swallows any internal fault: timing is
// diagnostics only and must never break the operation being timed.
func (t *Timer) Stop() {
	defer func() {
		_ = recover()
	}()

	if t == nil || t.stopped {
		return
	}
	t.stopped = true

	elapsed := time.Since(t.start)
	if elapsed < t.threshold || t.logger == nil {
		return
	}

	t.logger.Debug("operation completed",
		zap.String("operation", t.operation),
		zap.Duration("elapsed", elapsed),
	)
}
