// Package trace provides structured execution tracing for the thread
// scheduler and execution core: status transitions, scheduling decisions,
// and fatal host-side invariant violations. Adapted from the teacher's
// fmt.Fprintf-based verb tracer onto github.com/sirupsen/logrus so that
// thread-id/status/task fields are queryable structured fields rather than
// positional text.
package trace

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Tracer wraps a logrus logger with an enable flag and an optional filter
// over thread-scheduler event names, mirroring the teacher's Tracer shape
// (enabled + filters + guarded writer) with logrus fields in place of
// fmt.Fprintf positional text.
type Tracer struct {
	enabled bool
	filters []string
	logger  *logrus.Logger
	mu      sync.Mutex
}

var globalTracer *Tracer

// Init initializes the global tracer. A nil writer defaults to os.Stderr
// (via logrus's own default output).
func Init(enabled bool, filters []string, writer io.Writer, level logrus.Level) {
	logger := logrus.New()
	logger.SetLevel(level)
	if writer != nil {
		logger.SetOutput(writer)
	}
	globalTracer = &Tracer{
		enabled: enabled,
		filters: filters,
		logger:  logger,
	}
}

// IsEnabled reports whether the global tracer is initialized and enabled.
func IsEnabled() bool {
	return globalTracer != nil && globalTracer.enabled
}

func (t *Tracer) matchesFilter(event string) bool {
	if len(t.filters) == 0 {
		return true
	}
	for _, pattern := range t.filters {
		if pattern == event {
			return true
		}
	}
	return false
}

// StatusTransition logs a thread's status change (from and to).
func (t *Tracer) StatusTransition(threadID int64, from, to string) {
	if !t.enabled || !t.matchesFilter("status") {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.WithFields(logrus.Fields{
		"thread_id": threadID,
		"from":      from,
		"to":        to,
	}).Debug("thread status transition")
}

// SchedulerDecision logs a pool scheduling decision (promote/defer/empty).
func (t *Tracer) SchedulerDecision(decision string, threadID int64) {
	if !t.enabled || !t.matchesFilter("schedule") {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.WithFields(logrus.Fields{
		"thread_id": threadID,
		"decision":  decision,
	}).Trace("scheduler decision")
}

// ParkChange logs a park/unpark/completelyUnpark adjustment.
func (t *Tracer) ParkChange(threadID int64, op string, count int32) {
	if !t.enabled || !t.matchesFilter("park") {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.WithFields(logrus.Fields{
		"thread_id": threadID,
		"op":        op,
		"count":     count,
	}).Trace("park count changed")
}

// Fatal logs a host-side invariant violation (spec.md §7) at Error level.
// The caller is responsible for panicking afterward — this function only
// ensures the failure is visible in logs even if a host embedder later
// recovers the panic.
func (t *Tracer) Fatal(msg string, fields logrus.Fields) {
	if t == nil {
		logrus.WithFields(fields).Error(msg)
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.WithFields(fields).Error(msg)
}

// Global convenience functions. StatusTransition, SchedulerDecision and
// ParkChange are no-ops until Init is called; Fatal logs through the
// standard logrus logger until then.

func StatusTransition(threadID int64, from, to string) {
	if globalTracer != nil {
		globalTracer.StatusTransition(threadID, from, to)
	}
}

func SchedulerDecision(decision string, threadID int64) {
	if globalTracer != nil {
		globalTracer.SchedulerDecision(decision, threadID)
	}
}

func ParkChange(threadID int64, op string, count int32) {
	if globalTracer != nil {
		globalTracer.ParkChange(threadID, op, count)
	}
}

func Fatal(msg string, fields logrus.Fields) {
	globalTracer.Fatal(msg, fields)
}
