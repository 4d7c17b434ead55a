// Package fiber implements a user-level cooperative threading library:
// lightweight, explicitly-yielding threads of control ("fibers") and
// counting semaphores, with one Thread at a time running per Scheduler.
//
// A Scheduler owns a ready queue and runs exactly one Thread at a time.
// Threads cooperate by calling Yield, Join, JoinAll, or SemWait on a
// Semaphore; none of these are ever called implicitly. There is no
// preemption, no time slicing, and no parallelism within a single
// Scheduler - the engine goroutine and every Thread goroutine hand a
// single baton back and forth, so at most one of them is ever doing
// work.
//
// Threads form a tree: Create records the calling Thread as the new
// Thread's parent, and a parent may Join a specific child or JoinAll of
// its children. Exit wakes a blocked parent (if any), orphans any
// remaining children, and never returns to its caller.
package fiber
