package capture

import (
	"sync"
	"sync/atomic"
)

// Queue is an unbounded FIFO between the render loop and the worker.
// Push never waits on the consumer; a pump goroutine buffers frames until
// the consumer takes them. After Close, buffered frames still drain and
// Out is closed once the buffer is empty.
type Queue struct {
	in      chan Frame
	out     chan Frame
	mu      sync.Mutex
	closed  bool
	pending atomic.Int64
}

func NewQueue() *Queue {
	q := &Queue{
		in:  make(chan Frame),
		out: make(chan Frame),
	}
	go q.pump()
	return q
}

func (q *Queue) pump() {
	defer close(q.out)

	var buf []Frame
	in := q.in
	for in != nil || len(buf) > 0 {
		var out chan Frame
		var next Frame
		if len(buf) > 0 {
			out = q.out
			next = buf[0]
		}

		select {
		case f, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			buf = append(buf, f)
		case out <- next:
			buf[0] = Frame{}
			buf = buf[1:]
			q.pending.Add(-1)
		}
	}
}

// Push enqueues f. It fails with ErrQueueClosed after Close.
func (q *Queue) Push(f Frame) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.pending.Add(1)
	q.in <- f
	return nil
}

// Out delivers frames in push order.
func (q *Queue) Out() <-chan Frame {
	return q.out
}

// Close stops intake. It is safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.in)
}

// Len is the number of frames pushed but not yet taken by the consumer.
func (q *Queue) Len() int {
	return int(q.pending.Load())
}
