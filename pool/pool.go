// Package pool implements the thread pool scheduler: admission,
// park/unpark bookkeeping, and the one-thread-at-a-time dispatch policy
// that promotes a runnable thread to RUNNING. Modeled on the teacher's
// Scheduler — a mutex-guarded registry drained by one dedicated
// goroutine running a select loop over a signal channel and a ticker —
// retargeted from MOO task queues to JVM thread admission.
package pool

import (
	"context"
	"sync"
	"time"

	"loom/thread"
	"loom/trace"
	"loom/types"
)

// EmptyCallback is invoked by every scheduling decision that finds the
// thread set empty; with the background loop running, that includes each
// ticker wake-up while the set stays empty.
type EmptyCallback func()

// Pool tracks every live Thread, picks the next runnable one, and
// accounts for park/unpark permits. At most one thread has status
// RUNNING at any instant (spec §3, §4.5).
type Pool struct {
	cfg             Config
	bootstrapLoader thread.ClassLoader
	emptyCallback   EmptyCallback

	mu         sync.Mutex
	order      []*thread.Thread // insertion order, for round-robin-ish pick
	byID       map[types.ThreadID]*thread.Thread
	running    *thread.Thread
	parkCounts map[types.ThreadID]int32

	scheduleCh chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a pool with the given config and bootstrap class loader
// (handed to every thread it mints). Call Start before admitting any
// thread so the deferred scheduling loop is running to pick it up.
func New(cfg Config, bootstrapLoader thread.ClassLoader, onEmpty EmptyCallback) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	if cfg.ScheduleQueueDepth <= 0 {
		cfg.ScheduleQueueDepth = 1
	}
	return &Pool{
		cfg:             cfg,
		bootstrapLoader: bootstrapLoader,
		emptyCallback:   onEmpty,
		byID:            make(map[types.ThreadID]*thread.Thread),
		parkCounts:      make(map[types.ThreadID]int32),
		scheduleCh:      make(chan struct{}, cfg.ScheduleQueueDepth),
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start launches the deferred scheduling loop on its own goroutine.
func (p *Pool) Start() {
	p.wg.Add(1)
	go p.run()
}

// Stop halts the scheduling loop and waits for it to exit.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.SchedulerTick)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.scheduleCh:
			p.scheduleNextTick()
		case <-ticker.C:
			p.scheduleNextTick()
		}
	}
}

// requestSchedule defers a scheduling decision to the pool's own
// goroutine, on the next tick. Deferral (rather than an inline pick)
// prevents a thread's suspension/termination from recursively invoking
// the scheduler in the same call stack, and gives external async
// callbacks room to land between quanta (spec §4.5, §5).
func (p *Pool) requestSchedule() {
	select {
	case p.scheduleCh <- struct{}{}:
	default:
		// A schedule request is already pending; one is enough.
	}
}

// Tick forces one scheduling decision synchronously, without waiting for
// the background loop's next tick or signal. Embedders that drive the
// pool without calling Start (single-threaded hosts, tests) use this to
// advance the scheduler explicitly.
func (p *Pool) Tick() {
	p.scheduleNextTick()
}

// scheduleNextTick is the deferred scheduling decision itself: if no
// thread is RUNNING, promote the first RUNNABLE thread in insertion
// order. An empty thread set fires the empty callback instead.
func (p *Pool) scheduleNextTick() {
	p.mu.Lock()
	if p.running != nil {
		p.mu.Unlock()
		return
	}
	if len(p.order) == 0 {
		p.mu.Unlock()
		if p.emptyCallback != nil {
			p.emptyCallback()
		}
		return
	}
	var next *thread.Thread
	for _, t := range p.order {
		if t.GetStatus() == types.Runnable {
			next = t
			break
		}
	}
	if next == nil {
		p.mu.Unlock()
		return
	}
	// Recorded before the nested SetStatus(RUNNING) call so that the
	// thread's own suspend/terminate notifications (fired synchronously,
	// from within that same call) see p.running already pointing at it.
	p.running = next
	p.mu.Unlock()

	trace.SchedulerDecision("promote", int64(next.ID()))
	next.SetStatus(types.Running, nil)
}

// NewThread creates and admits a new Thread, in status NEW.
func (p *Pool) NewThread() *thread.Thread {
	t := thread.New(p, p.bootstrapLoader)
	p.mu.Lock()
	p.order = append(p.order, t)
	p.byID[t.ID()] = t
	p.mu.Unlock()
	return t
}

// ResurrectThread re-admits a previously terminated thread to the set.
func (p *Pool) ResurrectThread(t *thread.Thread) {
	p.mu.Lock()
	if _, ok := p.byID[t.ID()]; !ok {
		p.order = append(p.order, t)
		p.byID[t.ID()] = t
	}
	p.mu.Unlock()
}

// GetThreads returns a snapshot of every admitted thread, in insertion
// order.
func (p *Pool) GetThreads() []*thread.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*thread.Thread, len(p.order))
	copy(out, p.order)
	return out
}

// ThreadRunnable implements thread.PoolNotifier: if no thread is
// currently RUNNING, request a scheduling decision.
func (p *Pool) ThreadRunnable(t *thread.Thread) {
	p.mu.Lock()
	idle := p.running == nil
	p.mu.Unlock()
	if idle {
		p.requestSchedule()
	}
}

// ThreadSuspended implements thread.PoolNotifier: if t was the running
// thread, clear that and request the next pick.
func (p *Pool) ThreadSuspended(t *thread.Thread) {
	p.mu.Lock()
	wasRunning := p.running == t
	if wasRunning {
		p.running = nil
	}
	p.mu.Unlock()
	if wasRunning {
		p.requestSchedule()
	}
}

// ThreadTerminated implements thread.PoolNotifier: remove t from the
// set; if it was running, clear that and request the next pick.
func (p *Pool) ThreadTerminated(t *thread.Thread) {
	p.mu.Lock()
	wasRunning := p.running == t
	if wasRunning {
		p.running = nil
	}
	delete(p.byID, t.ID())
	for i, o := range p.order {
		if o == t {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	empty := len(p.order) == 0
	p.mu.Unlock()

	if wasRunning || empty {
		p.requestSchedule()
	}
}

// Park increments t's park count; a positive result transitions t to
// PARKED.
func (p *Pool) Park(t *thread.Thread) {
	p.mu.Lock()
	p.parkCounts[t.ID()]++
	count := p.parkCounts[t.ID()]
	p.mu.Unlock()

	trace.ParkChange(int64(t.ID()), "park", count)
	if count > 0 {
		t.SetStatus(types.Parked, nil)
	}
}

// Unpark decrements t's park count; a result <= 0 transitions t to
// RUNNABLE. An unpark preceding a park still consumes that park,
// producing POSIX-semaphore-like semantics — the counter may go
// negative.
func (p *Pool) Unpark(t *thread.Thread) {
	p.mu.Lock()
	p.parkCounts[t.ID()]--
	count := p.parkCounts[t.ID()]
	p.mu.Unlock()

	trace.ParkChange(int64(t.ID()), "unpark", count)
	if count <= 0 {
		t.SetStatus(types.Runnable, nil)
	}
}

// CompletelyUnpark forces t's park count to zero and transitions it to
// RUNNABLE, regardless of whether it was parked.
func (p *Pool) CompletelyUnpark(t *thread.Thread) {
	p.mu.Lock()
	p.parkCounts[t.ID()] = 0
	p.mu.Unlock()

	trace.ParkChange(int64(t.ID()), "completely_unpark", 0)
	t.SetStatus(types.Runnable, nil)
}

// IsParked reports whether t currently holds a positive park count.
func (p *Pool) IsParked(t *thread.Thread) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parkCounts[t.ID()] > 0
}

var _ thread.PoolNotifier = (*Pool)(nil)
