package fiber

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Scenario 1: three threads each record their creation index (1, 2, 3)
// then yield, three times, then exit; fairness guarantees the transcript
// 1 2 3 1 2 3 1 2 3.
func TestYieldRoundRobin(t *testing.T) {
	var sequence []int

	s := NewScheduler(WithInvariantChecks(true))
	s.Spawn(func(self *Thread, _ any) {
		for i := 1; i <= 3; i++ {
			id := i
			self.Create(func(self *Thread, _ any) {
				for round := 0; round < 3; round++ {
					sequence = append(sequence, id)
					self.Yield()
				}
				self.Exit()
			}, nil)
		}
		self.JoinAll()
	}, nil)

	require.NoError(t, s.Run())
	require.Equal(t, []int{1, 2, 3, 1, 2, 3, 1, 2, 3}, sequence)
}

// Scenario 2: Join(A) only returns once A exits, regardless of when a
// sibling B (which does not yield at all) exits.
func TestJoinWaitsForTargetedChild(t *testing.T) {
	var order []string

	s := NewScheduler(WithInvariantChecks(true))
	s.Spawn(func(self *Thread, _ any) {
		a := self.Create(func(self *Thread, _ any) {
			for i := 0; i < 5; i++ {
				self.Yield()
			}
			order = append(order, `A`)
			self.Exit()
		}, nil)
		self.Create(func(self *Thread, _ any) {
			order = append(order, `B`)
			self.Exit()
		}, nil)

		require.NoError(t, self.Join(a))
		order = append(order, `parent`)
	}, nil)

	require.NoError(t, s.Run())
	require.Equal(t, []string{`B`, `A`, `parent`}, order)
}

// Scenario 3: JoinAll unblocks only once the last of several children
// exits, not on every intermediate child exit.
func TestJoinAllUnblocksOnLastChild(t *testing.T) {
	var order []int

	s := NewScheduler(WithInvariantChecks(true))
	s.Spawn(func(self *Thread, _ any) {
		for i := 0; i < 4; i++ {
			id := i
			self.Create(func(self *Thread, _ any) {
				self.Yield()
				order = append(order, id)
				self.Exit()
			}, nil)
		}
		self.JoinAll()
		order = append(order, -1)
	}, nil)

	require.NoError(t, s.Run())
	require.Equal(t, []int{0, 1, 2, 3, -1}, order)
}

// Scenario 7: a parent that exits without joining orphans its child;
// the child still runs to completion and the whole run still drains.
func TestOrphanedChildStillRuns(t *testing.T) {
	childRan := false

	s := NewScheduler(WithInvariantChecks(true))
	s.Spawn(func(self *Thread, _ any) {
		self.Create(func(self *Thread, _ any) {
			self.Yield()
			childRan = true
			self.Exit()
		}, nil)
		self.Exit()
	}, nil)

	require.NoError(t, s.Run())
	require.True(t, childRan)
}

// Join on a nil handle or on a handle that already exited reports
// ErrNotImmediateChild rather than blocking or panicking. (A handle that
// was never this thread's child is covered by
// TestJoinRejectsAnotherThreadsChild.)
func TestJoinRejectsNonImmediateChildren(t *testing.T) {
	var results []error

	s := NewScheduler()
	s.Spawn(func(self *Thread, _ any) {
		results = append(results, self.Join(nil))

		exited := self.Create(func(self *Thread, _ any) { self.Exit() }, nil)
		self.Yield() // let exited run to completion and unlink itself
		results = append(results, self.Join(exited))
	}, nil)

	require.NoError(t, s.Run())
	require.Len(t, results, 2)
	for _, err := range results {
		require.ErrorIs(t, err, ErrNotImmediateChild)
	}
}

func TestJoinRejectsAnotherThreadsChild(t *testing.T) {
	var stolen *Thread
	var err error

	s := NewScheduler()
	s.Spawn(func(self *Thread, _ any) {
		cousin := self.Create(func(self *Thread, _ any) {
			self.Yield()
			self.Exit()
		}, nil)
		self.Create(func(self *Thread, _ any) {
			// not cousin's parent - must not be allowed to join it.
			err = self.Join(cousin)
			stolen = cousin
		}, nil)
		self.JoinAll()
	}, nil)

	require.NoError(t, s.Run())
	require.NotNil(t, stolen)
	require.ErrorIs(t, err, ErrNotImmediateChild)
}

// A panicking thread is isolated: the scheduler keeps running every
// other thread, and the panic is reported via RunError only once Run
// returns.
func TestPanicIsolatedAndAggregated(t *testing.T) {
	var survivorRan bool

	s := NewScheduler()
	s.Spawn(func(self *Thread, _ any) {
		self.Create(func(self *Thread, _ any) {
			panic(`boom`)
		}, nil)
		self.Create(func(self *Thread, _ any) {
			self.Yield()
			survivorRan = true
			self.Exit()
		}, nil)
		self.JoinAll()
	}, nil)

	err := s.Run()
	require.True(t, survivorRan)

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	require.Len(t, runErr.Panics, 1)
	require.Equal(t, `boom`, runErr.Panics[0].Value)
}

func TestRunTwiceReturnsErrEngineAlreadyRunning(t *testing.T) {
	s := NewScheduler()
	s.Spawn(func(self *Thread, _ any) { self.Exit() }, nil)

	require.NoError(t, s.Run())
	require.ErrorIs(t, s.Run(), errEngineAlreadyRunning)
}

func TestThreadIDsAreUniqueAndIncreasing(t *testing.T) {
	var ids []int

	s := NewScheduler()
	s.Spawn(func(self *Thread, _ any) {
		ids = append(ids, self.ID())
		for i := 0; i < 3; i++ {
			child := self.Create(func(self *Thread, _ any) {
				ids = append(ids, self.ID())
				self.Exit()
			}, nil)
			_ = child
			self.Yield()
		}
		self.JoinAll()
	}, nil)

	require.NoError(t, s.Run())
	for i := 1; i < len(ids); i++ {
		require.Greater(t, ids[i], ids[i-1])
	}
}
