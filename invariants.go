package fiber

import "fmt"

// checkInvariants asserts the data model's invariants (I1-I6 in the
// design notes; P1-P3 in the testable properties) against the current
// state of s. It is only ever called when the Scheduler was built with
// WithInvariantChecks(true); it panics, naming the violated invariant,
// on the first inconsistency found.
//
// A thread blocked on a child is never itself a member of any queue - a
// Join or JoinAll wait is recorded only via the blocked parent's own fields,
// not via any link structure - so the only way to reach one is to walk
// up from something that IS directly reachable (a ready thread, the
// running thread, or a semaphore waiter) via its parent chain. Every
// blocked-on-child thread has a live descendant that is itself ready,
// running, or blocked on a semaphore, so this walk reaches every
// blocked thread in the scheduler, which is what lets P2 ("every
// blocked thread is either in exactly one semaphore wait queue or
// referenced as a blocked parent") actually get exercised.
func (s *Scheduler) checkInvariants() {
	visited := make(map[*Thread]bool)
	semWaiters := make(map[*Thread]bool)

	var visit func(t *Thread)
	visit = func(t *Thread) {
		for t != nil && !visited[t] {
			visited[t] = true
			s.checkThreadInvariants(t)
			s.checkBlockReason(t, semWaiters)
			t = t.parent
		}
	}

	for _, sem := range s.semaphores {
		checkSemaphoreInvariants(sem)
		count := 0
		for t := sem.wait.head; t != nil; t = t.qnext {
			count++
			if !t.blocked {
				panic(fmt.Sprintf(`fiber: invariant I3 violated: thread %d present in semaphore %d's wait queue but not marked blocked`, t.id, sem.id))
			}
			semWaiters[t] = true
		}
		if count != sem.wait.len {
			panic(fmt.Sprintf(`fiber: semaphore %d wait queue length field inconsistent with its links`, sem.id))
		}
	}

	seenReady := make(map[*Thread]bool, s.ready.len)
	for t := s.ready.head; t != nil; t = t.qnext {
		if t == s.running {
			panic(`fiber: invariant I2 violated: running thread present in ready queue`)
		}
		if seenReady[t] {
			panic(fmt.Sprintf(`fiber: ready queue invariant violated: thread %d enqueued twice`, t.id))
		}
		seenReady[t] = true
		if t.blocked {
			panic(fmt.Sprintf(`fiber: invariant I3 violated: blocked thread %d present in ready queue`, t.id))
		}
		visit(t)
	}
	if s.ready.len != len(seenReady) {
		panic(`fiber: ready queue length field inconsistent with its links`)
	}

	if s.running != nil {
		if s.running.blocked {
			panic(fmt.Sprintf(`fiber: invariant I1 violated: running thread %d is also marked blocked`, s.running.id))
		}
		visit(s.running)
	}

	for t := range semWaiters {
		visit(t)
	}
}

// checkThreadInvariants asserts invariants I4 and I6 for t: a live
// thread with a parent is found in that parent's children at its
// recorded childSlot (I4), and a parentless thread carries no
// childSlot (I6).
func (s *Scheduler) checkThreadInvariants(t *Thread) {
	if t.parent == nil {
		if t.childSlot != -1 {
			panic(fmt.Sprintf(`fiber: invariant I6 violated: orphan/root thread %d has a child_slot`, t.id))
		}
	} else {
		p := t.parent
		if t.childSlot < 0 || t.childSlot >= len(p.children) || p.children[t.childSlot] != t {
			panic(fmt.Sprintf(`fiber: invariant I4 violated: thread %d not found in parent %d's children at its child_slot`, t.id, p.id))
		}
	}
}

// checkBlockReason asserts invariant I3 for a blocked thread t: exactly
// one of "waiting for a specific child", "waiting for any child", or
// "queued on a semaphore's wait queue" (semWaiters, gathered by the
// caller from every live semaphore) holds. t that isn't blocked is
// ignored - I3 only constrains blocked threads.
func (s *Scheduler) checkBlockReason(t *Thread, semWaiters map[*Thread]bool) {
	if !t.blocked {
		return
	}
	reasons := 0
	if t.waitingForChild != nil {
		reasons++
	}
	if t.waitingForAnyChild {
		reasons++
	}
	if semWaiters[t] {
		reasons++
	}
	if reasons != 1 {
		panic(fmt.Sprintf(`fiber: invariant I3 violated: blocked thread %d has %d simultaneous wait reasons, want exactly 1`, t.id, reasons))
	}
}

// checkSemaphoreInvariants asserts invariant I5 / P3 for sem: the value
// is negative exactly when the wait queue is non-empty, and its
// magnitude equals the wait queue's length.
func checkSemaphoreInvariants(sem *Semaphore) {
	if sem.value < 0 && -sem.value != sem.wait.len {
		panic(fmt.Sprintf(`fiber: invariant I5 violated: semaphore %d value %d but wait queue length %d`, sem.id, sem.value, sem.wait.len))
	}
	if sem.value >= 0 && sem.wait.len != 0 {
		panic(fmt.Sprintf(`fiber: invariant I5 violated: semaphore %d value %d non-negative but wait queue length %d`, sem.id, sem.value, sem.wait.len))
	}
}
