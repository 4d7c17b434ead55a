package fiber

import "github.com/joeycumines/logiface"

// TraceEvent describes one thread or semaphore lifecycle transition.
// Op names the transition (e.g. "create", "yield", "block", "wake",
// "exit", "reap", "sem_init", "sem_wait", "sem_signal", "sem_destroy");
// the remaining fields are populated only as relevant to that Op - a
// zero value for ParentID, SemID, or Reason means "not applicable",
// never "zero ID" or "no reason".
type TraceEvent struct {
	Op       string
	ThreadID int
	ParentID int
	SemID    int
	Value    int
	Blocked  bool
	Panicked bool
	Reason   string
}

// Logger receives every TraceEvent a Scheduler emits. It exists so
// WithLogger does not need to leak any particular backend's generic
// Event type into this package's own API - see NewLogifaceLogger for an
// adapter onto the corpus's structured logging stack.
type Logger interface {
	Trace(TraceEvent)
}

// NewLogifaceLogger adapts any github.com/joeycumines/logiface Logger
// (for example one built via stumpy.L.New(...)) into a Logger suitable
// for WithLogger. Every TraceEvent is logged at Trace level.
func NewLogifaceLogger[E logiface.Event](logger *logiface.Logger[E]) Logger {
	return logifaceAdapter[E]{logger: logger}
}

type logifaceAdapter[E logiface.Event] struct {
	logger *logiface.Logger[E]
}

func (a logifaceAdapter[E]) Trace(e TraceEvent) {
	b := a.logger.Trace().Int(`thread_id`, e.ThreadID)
	if e.ParentID != 0 {
		b = b.Int(`parent_id`, e.ParentID)
	}
	if e.SemID != 0 {
		b = b.Int(`sem_id`, e.SemID)
	}
	if e.Reason != `` {
		b = b.Str(`reason`, e.Reason)
	}
	switch e.Op {
	case `exit`:
		b = b.Bool(`panicked`, e.Panicked)
	case `sem_init`, `sem_signal`:
		b = b.Int(`value`, e.Value)
	case `block`, `wake`:
		b = b.Bool(`blocked`, e.Blocked)
	}
	b.Log(e.Op)
}

// Trace-level tracing hooks, nil-checked up front and costing nothing
// when no logger was configured; none of them affect scheduling
// decisions, so a Scheduler built without WithLogger behaves
// identically to one with full tracing enabled.

func (s *Scheduler) traceCreate(parent, child *Thread) {
	if l := s.cfg.logger; l != nil {
		e := TraceEvent{Op: `create`, ThreadID: child.id}
		if parent != nil {
			e.ParentID = parent.id
		}
		l.Trace(e)
	}
}

func (s *Scheduler) traceYield(t *Thread) {
	if l := s.cfg.logger; l != nil {
		l.Trace(TraceEvent{Op: `yield`, ThreadID: t.id})
	}
}

func (s *Scheduler) traceBlock(t *Thread, reason string) {
	if l := s.cfg.logger; l != nil {
		l.Trace(TraceEvent{Op: `block`, ThreadID: t.id, Reason: reason, Blocked: true})
	}
}

func (s *Scheduler) traceWake(t *Thread, reason string) {
	if l := s.cfg.logger; l != nil {
		l.Trace(TraceEvent{Op: `wake`, ThreadID: t.id, Reason: reason, Blocked: false})
	}
}

func (s *Scheduler) traceExit(t *Thread, panicked bool) {
	if l := s.cfg.logger; l != nil {
		l.Trace(TraceEvent{Op: `exit`, ThreadID: t.id, Panicked: panicked})
	}
}

func (s *Scheduler) traceReap(t *Thread) {
	if l := s.cfg.logger; l != nil {
		l.Trace(TraceEvent{Op: `reap`, ThreadID: t.id})
	}
}

func (s *Scheduler) traceSemInit(sem *Semaphore, value int) {
	if l := s.cfg.logger; l != nil {
		l.Trace(TraceEvent{Op: `sem_init`, SemID: sem.id, Value: value})
	}
}

func (s *Scheduler) traceSemWait(sem *Semaphore, t *Thread, blocked bool) {
	if l := s.cfg.logger; l != nil {
		l.Trace(TraceEvent{Op: `sem_wait`, ThreadID: t.id, SemID: sem.id, Blocked: blocked})
	}
}

func (s *Scheduler) traceSemSignal(sem *Semaphore, woken *Thread) {
	if l := s.cfg.logger; l != nil {
		e := TraceEvent{Op: `sem_signal`, SemID: sem.id, Value: sem.value}
		if woken != nil {
			e.ThreadID = woken.id
		}
		l.Trace(e)
	}
}

func (s *Scheduler) traceSemDestroy(sem *Semaphore) {
	if l := s.cfg.logger; l != nil {
		l.Trace(TraceEvent{Op: `sem_destroy`, SemID: sem.id})
	}
}
