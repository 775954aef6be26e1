package scheduler

import (
	"context"
	"sync"
)

// Loop is a single-goroutine event loop. Macrotasks posted from any
// goroutine run one at a time on the goroutine calling Run, and the
// microtask queue is drained after each one, as in a browser.
type Loop struct {
	micro *Queue

	mu     sync.Mutex
	macros []func()
	wake   chan struct{}
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{
		micro: NewQueue(),
		wake:  make(chan struct{}, 1),
	}
}

// Schedule queues a microtask. It must be called from the loop goroutine,
// which is always the case for tasks scheduled during a render.
func (l *Loop) Schedule(task func()) {
	l.micro.Schedule(task)
}

// Post queues a macrotask. Safe for concurrent use.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.macros = append(l.macros, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			task, ok := l.next()
			if !ok {
				break
			}
			task()
			l.micro.Drain()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunPending processes every queued macrotask (and the microtasks they
// schedule) and returns. Useful in tests and batch tools.
func (l *Loop) RunPending() {
	l.micro.Drain()
	for {
		task, ok := l.next()
		if !ok {
			return
		}
		task()
		l.micro.Drain()
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.macros) == 0 {
		return nil, false
	}
	task := l.macros[0]
	l.macros[0] = nil
	l.macros = l.macros[1:]
	return task, true
}
