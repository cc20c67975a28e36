package core

import (
	"sync"
)

// Loop runs posted tasks one at a time, in posting order, on a single
// goroutine. Every completion, callback navigation and outbound notification
// of a client runs on its loop so handlers never execute on the caller's stack
// and never interleave.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	closed  bool
	stopped chan struct{}
}

func NewLoop() *Loop {
	l := &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

// Post enqueues task and returns immediately. Tasks posted after Close are
// dropped; Post reports whether task was accepted.
func (l *Loop) Post(task func()) bool {
	if l == nil || task == nil {
		return false
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Flush blocks until every task posted before the call, and every task those
// tasks posted in turn, has run. It must not be called from a task.
func (l *Loop) Flush() {
	if l == nil {
		return
	}
	for {
		done := make(chan struct{})
		if !l.Post(func() { close(done) }) {
			return
		}
		<-done
		l.mu.Lock()
		idle := len(l.queue) == 0
		l.mu.Unlock()
		if idle {
			return
		}
	}
}

// Close drains the queue, stops the loop goroutine and waits for it to exit.
// It must not be called from a task.
func (l *Loop) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.stopped
		return
	}
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	<-l.stopped
}

func (l *Loop) run() {
	defer close(l.stopped)
	for range l.wake {
		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				closed := l.closed
				l.mu.Unlock()
				if closed {
					return
				}
				break
			}
			task := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()

			task()
		}
	}
}
