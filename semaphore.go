package fiber

// Semaphore is a counting semaphore for coordinating Threads within a
// single Scheduler. Unlike a Thread, which may have a parent Thread,
// a Semaphore is created directly on a Scheduler via NewSemaphore and
// has no ownership relationship to the threads that wait on it.
//
// value may go negative: a negative value records how many threads are
// currently queued on wait, so that value < 0 iff the wait queue is
// non-empty, and -value always equals the wait queue's length.
type Semaphore struct {
	id    int
	sched *Scheduler
	value int
	wait  threadQueue
	slot  int // this semaphore's index in sched.semaphores
}

// ID returns a value unique among the Semaphores and Threads created by
// the same Scheduler. Semaphores and Threads draw IDs from one shared
// counter, starting at 1 and increasing in creation order.
func (sem *Semaphore) ID() int {
	return sem.id
}

// Signal releases one unit of sem. If the incremented value is still
// not positive, a waiter was already queued (by the I5/P3 invariant);
// that waiter - the one that has been queued longest - is moved to the
// tail of the ready queue. Signal never wakes more than one waiter.
func (sem *Semaphore) Signal() {
	sem.value++
	var woken *Thread
	if sem.value <= 0 {
		t, ok := sem.wait.dequeue()
		if ok {
			woken = t
			t.blocked = false
			sem.sched.traceWake(t, `semaphore`)
			sem.sched.ready.enqueue(t)
		}
	}
	sem.sched.traceSemSignal(sem, woken)
	if sem.sched.cfg.invariantChecks {
		checkSemaphoreInvariants(sem)
	}
}

// Destroy releases sem's resources. It returns ErrSemaphoreBusy, without
// changing any state, if any thread is currently queued waiting on sem -
// destroying a semaphore out from under its waiters would otherwise
// strand them forever.
func (sem *Semaphore) Destroy() error {
	if !sem.wait.empty() {
		return ErrSemaphoreBusy
	}
	sem.sched.traceSemDestroy(sem)
	sem.sched.removeSemaphore(sem)
	return nil
}
