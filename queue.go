package fiber

// threadQueue is a doubly-linked intrusive FIFO queue of *Thread. The link
// fields live on Thread itself (qnext/qprev), so enqueue/dequeue are O(1)
// and allocation-free. Per the data model's invariant I3, a Thread is a
// member of at most one queue at a time, which is exactly what lets a
// single pair of link fields live on the Thread instead of the queue.
//
// A threadQueue is also used, unmodified, as a Semaphore's wait queue - see
// semaphore.go.
type threadQueue struct {
	head, tail *Thread
	len        int
}

// empty reports whether the queue has no members.
func (q *threadQueue) empty() bool {
	return q.head == nil
}

// enqueue appends t at the tail. t must not currently belong to any queue.
func (q *threadQueue) enqueue(t *Thread) {
	t.qnext = nil
	t.qprev = q.tail
	if q.tail != nil {
		q.tail.qnext = t
	} else {
		q.head = t
	}
	q.tail = t
	q.len++
}

// dequeue removes and returns the head of the queue, or (nil, false) if
// the queue is empty.
func (q *threadQueue) dequeue() (*Thread, bool) {
	t := q.head
	if t == nil {
		return nil, false
	}
	q.head = t.qnext
	if q.head != nil {
		q.head.qprev = nil
	} else {
		q.tail = nil
	}
	t.qnext = nil
	t.qprev = nil
	q.len--
	return t, true
}
