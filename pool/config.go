package pool

import "time"

// Config is the pool's tunable surface: a plain struct with yaml tags in
// the style of the teacher's conformance fixtures, read once by New. This
// package does not load it from a file itself.
type Config struct {
	// SchedulerTick is how often the pool's deferred scheduling loop
	// wakes up even without an explicit schedule request, giving pending
	// class-resolution/monitor callbacks a chance to land between
	// quanta. Scheduling itself is event-driven (spec §4.5); this is a
	// backstop, not a polling interval for thread state.
	SchedulerTick time.Duration `yaml:"scheduler_tick"`

	// ScheduleQueueDepth bounds the buffered "please schedule" signal
	// channel. One pending signal is always enough: requestSchedule never
	// blocks, and a request that finds the channel full is dropped.
	ScheduleQueueDepth int `yaml:"schedule_queue_depth"`
}

// DefaultConfig mirrors the teacher's 10ms scheduler tick.
func DefaultConfig() Config {
	return Config{
		SchedulerTick:      10 * time.Millisecond,
		ScheduleQueueDepth: 4,
	}
}
