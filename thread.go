package fiber

import (
	"runtime"

	"golang.org/x/exp/slices"
)

// ThreadFunc is the body of a Thread, analogous to a traditional thread
// start routine. self is the Thread executing the function, so a thread
// can Create children, Yield, Join, or Exit without needing a package
// level "current thread" lookup.
type ThreadFunc func(self *Thread, arg any)

// Thread is a single cooperatively-scheduled unit of execution: a user
// level thread, or "fiber". A Thread is created by Scheduler.Spawn (for
// a root thread) or by an existing Thread's Create (for a child), and is
// always owned by exactly one Scheduler for its entire lifetime.
//
// A Thread runs on its own goroutine, but at most one Thread (or the
// Scheduler's engine loop) is ever actually executing at a time - see
// Scheduler.Run. The goroutine exists purely to give the thread body a
// real Go call stack to suspend and resume; it is not a unit of
// parallelism.
type Thread struct {
	id    int
	sched *Scheduler
	fn    ThreadFunc
	arg   any

	resume chan struct{}

	parent    *Thread
	children  []*Thread
	childSlot int // this thread's index in parent.children, or -1 for a root

	exited bool

	// blocked is set while this thread is parked waiting for something
	// other than its turn on the ready queue - a specific child (Join),
	// any child (JoinAll), or a Semaphore - and cleared the instant it
	// is woken. Exactly one of waitingForChild, waitingForAnyChild, and
	// "currently a member of some Semaphore's wait queue" holds while
	// blocked is true; a Semaphore wait is otherwise tracked only by
	// this Thread's presence on that Semaphore's own wait queue, not by
	// a field on Thread, since it is never this Thread's job to know
	// which Semaphore it is queued on.
	blocked            bool
	waitingForChild    *Thread
	waitingForAnyChild bool

	// qnext/qprev are the intrusive links used by threadQueue. A Thread
	// is a member of at most one queue at a time: the Scheduler's ready
	// queue, or a single Semaphore's wait queue.
	qnext, qprev *Thread
}

// ID returns a value unique among the Threads and Semaphores created by
// the same Scheduler. Threads and Semaphores draw IDs from one shared
// counter, starting at 1 and increasing in creation order. It exists for logging and
// tests; the scheduler itself never looks threads up by ID.
func (t *Thread) ID() int {
	return t.id
}

// Create spawns a new child Thread of t, running fn(child, arg). The
// child is appended to the ready queue and will run for the first time
// only once the engine gets around to it - Create never runs fn
// synchronously, matching Yield/Join/Exit's rule that control only ever
// changes hands at an explicit suspension point.
func (t *Thread) Create(fn ThreadFunc, arg any) *Thread {
	return t.sched.newThread(t, fn, arg)
}

// Yield suspends t, moves it to the tail of the ready queue, and gives
// up control until the engine schedules it again. It is the only way a
// thread voluntarily gives another ready thread a turn without blocking
// on a child or a Semaphore.
func (t *Thread) Yield() {
	t.sched.traceYield(t)
	t.sched.ready.enqueue(t)
	t.park()
}

// Join blocks t until target, an immediate live child of t, exits. It
// returns ErrNotImmediateChild without blocking if target is nil, was
// never created by t, belongs to another Scheduler, or has already
// exited - a Thread is removed from its parent's child set the instant
// it exits, so a stale handle is always detected here rather than
// producing undefined behaviour.
func (t *Thread) Join(target *Thread) error {
	if target == nil || !t.hasChild(target) {
		return ErrNotImmediateChild
	}
	t.waitingForChild = target
	t.blocked = true
	t.sched.traceBlock(t, `join`)
	t.park()
	return nil
}

// JoinAll blocks t until t has no live children left. A child's own
// children are not waited for: they are orphaned when that child exits.
// If t has no live children, JoinAll returns immediately without
// suspending.
func (t *Thread) JoinAll() {
	for len(t.children) > 0 {
		t.waitingForAnyChild = true
		t.blocked = true
		t.sched.traceBlock(t, `join_all`)
		t.park()
	}
}

// SemWait decrements sem's value. If the value drops below zero, t
// blocks on sem's wait queue until a matching Signal wakes it; a
// negative value is the record of how many threads are currently
// queued (see Semaphore).
func (t *Thread) SemWait(sem *Semaphore) {
	sem.value--
	if sem.value < 0 {
		t.sched.traceSemWait(sem, t, true)
		t.sched.traceBlock(t, `semaphore`)
		t.blocked = true
		sem.wait.enqueue(t)
		if t.sched.cfg.invariantChecks {
			checkSemaphoreInvariants(sem)
		}
		t.park()
		return
	}
	t.sched.traceSemWait(sem, t, false)
	if t.sched.cfg.invariantChecks {
		checkSemaphoreInvariants(sem)
	}
}

// Exit terminates t immediately: any blocked parent is woken, any live
// children are orphaned, and t's goroutine stack is unwound via
// runtime.Goexit. Exit does not return to its caller - the deferred
// cleanup in a Thread's body runs, but no statement after the call to
// Exit ever executes.
func (t *Thread) Exit() {
	t.finishExit(nil)
	runtime.Goexit()
}

// hasChild reports whether target is currently a live, immediate child
// of t.
func (t *Thread) hasChild(target *Thread) bool {
	return slices.Contains(t.children, target)
}

// removeChild drops c from t.children using a swap-with-last, keeping
// the operation O(1) regardless of how many children t has. c.childSlot
// must be current.
func (t *Thread) removeChild(c *Thread) {
	last := len(t.children) - 1
	slot := c.childSlot
	t.children[slot] = t.children[last]
	t.children[slot].childSlot = slot
	t.children = t.children[:last]
	c.childSlot = -1
}

// park hands control back to the engine and blocks this goroutine until
// the engine resumes it. Every suspension point (Yield, Join, JoinAll,
// SemWait) funnels through here; it is the "context switch back to the
// scheduler" half of the execution-context primitive described by
// Scheduler.Run.
func (t *Thread) park() {
	t.sched.handoff <- struct{}{}
	<-t.resume
}

// finishExit performs the bookkeeping shared by a thread exiting
// normally, exiting via Exit, and exiting via an unrecovered panic. It
// is idempotent: Exit calls it directly, and the deferred recover in
// body calls it again unconditionally on every path out of the thread,
// so it must tolerate running twice.
func (t *Thread) finishExit(panicVal any) {
	if t.exited {
		return
	}
	t.exited = true

	if panicVal != nil {
		t.sched.panics = append(t.sched.panics, &PanicError{ThreadID: t.id, Value: panicVal})
	}
	t.sched.traceExit(t, panicVal != nil)

	for _, c := range t.children {
		c.parent = nil
		c.childSlot = -1
	}
	t.children = nil

	p := t.parent
	if p == nil {
		return
	}

	// The join-all wake test uses children.size == 1 (t is the sole
	// remaining child) evaluated before unlinking, per the exit path's
	// documented step order: waking the parent is decided first, then
	// t is removed from p.children.
	wakeForChild := p.blocked && p.waitingForChild == t
	wakeForAll := p.blocked && p.waitingForAnyChild && len(p.children) == 1

	p.removeChild(t)
	t.parent = nil
	t.sched.traceReap(t)

	if wakeForChild || wakeForAll {
		p.blocked = false
		p.waitingForChild = nil
		p.waitingForAnyChild = false
		t.sched.traceWake(p, `child exit`)
		t.sched.ready.enqueue(p)
	}
}

// body is the goroutine entry point for t. It first waits for the
// engine's first resume (without sending on handoff), then runs the thread's
// function to completion. However the function leaves - a normal
// return, a call to Exit, or an unrecovered panic - the deferred
// cleanup below runs exactly once and hands control back to the engine
// exactly once.
func (t *Thread) body() {
	defer func() {
		r := recover()
		t.finishExit(r)
		t.sched.handoff <- struct{}{}
	}()
	<-t.resume
	t.fn(t, t.arg)
}
