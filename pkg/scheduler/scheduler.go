// Package scheduler provides the task deferral used for effects and
// unmount callbacks.
//
// The engine never runs deferred work inline. Effect bodies, their
// cleanups and unmount cascades are handed to a Scheduler, which must run
// them strictly after the current synchronous render and patch completes.
package scheduler

// Scheduler defers a task until the current synchronous work is done.
type Scheduler interface {
	Schedule(task func())
}

// Func adapts an ordinary function to the Scheduler interface.
type Func func(task func())

// Schedule implements Scheduler.
func (f Func) Schedule(task func()) { f(task) }

// Queue is a FIFO microtask queue. Tasks run only when Drain is called.
// A Queue is not safe for concurrent use.
type Queue struct {
	tasks    []func()
	draining bool
	ran      uint64
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule appends task to the queue.
func (q *Queue) Schedule(task func()) {
	if task == nil {
		return
	}
	q.tasks = append(q.tasks, task)
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Ran returns the number of tasks run since the queue was created.
func (q *Queue) Ran() uint64 {
	return q.ran
}

// Drain runs pending tasks in order, including tasks scheduled by tasks
// that run during the drain, and returns how many ran. A nested Drain
// call from inside a task is a no-op.
//
// A panicking task propagates to the caller; the tasks after it stay
// queued.
func (q *Queue) Drain() int {
	if q.draining {
		return 0
	}
	q.draining = true
	defer func() { q.draining = false }()

	n := 0
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		n++
		q.ran++
		task()
	}
	q.tasks = nil
	return n
}
