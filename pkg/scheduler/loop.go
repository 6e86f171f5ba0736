package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/reactivity/internal/errors"
)

// DefaultLoopBuffer is the number of submitted functions a Loop holds before
// Dispatch starts dropping work.
const DefaultLoopBuffer = 256

// Loop owns a single goroutine on which all reactive work runs. The engine is
// single-threaded, so code on other goroutines submits closures with Do or
// Dispatch instead of touching reactive state directly. The queue is flushed
// after every submitted function.
type Loop struct {
	queue  *Queue
	work   chan task
	done   chan struct{}
	closed atomic.Bool
	wg     sync.WaitGroup
	logger *slog.Logger
}

type task struct {
	fn     func()
	result chan error
}

// LoopOption configures a Loop.
type LoopOption func(*loopConfig)

type loopConfig struct {
	buffer int
	logger *slog.Logger
}

// WithBuffer sets the capacity of the work channel.
func WithBuffer(n int) LoopOption {
	return func(c *loopConfig) {
		if n >= 0 {
			c.buffer = n
		}
	}
}

// WithLoopLogger sets the logger used for dispatch warnings and panics.
func WithLoopLogger(l *slog.Logger) LoopOption {
	return func(c *loopConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewLoop starts a loop that flushes q after each unit of work. A nil q gets
// a fresh queue with default options.
func NewLoop(q *Queue, opts ...LoopOption) *Loop {
	cfg := loopConfig{
		buffer: DefaultLoopBuffer,
		logger: slog.Default().With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if q == nil {
		q = NewQueue(WithLogger(cfg.logger))
	}

	l := &Loop{
		queue:  q,
		work:   make(chan task, cfg.buffer),
		done:   make(chan struct{}),
		logger: cfg.logger,
	}
	l.wg.Add(1)
	go l.run()
	return l
}

// Queue returns the queue flushed by the loop. It must only be used from
// functions running on the loop.
func (l *Loop) Queue() *Queue {
	return l.queue
}

// Do runs fn on the loop goroutine and waits for it and the following flush
// to finish. The returned error is ErrPanic if fn panicked, ErrBudgetExceeded
// if the flush was abandoned, ErrLoopClosed if the loop is closed, or the
// context's error if ctx ends first.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if l.closed.Load() {
		return ErrLoopClosed
	}

	t := task{fn: fn, result: make(chan error, 1)}
	select {
	case l.work <- t:
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.result:
		return err
	case <-l.done:
		// The loop drains nothing after close; a task accepted just before
		// close may still have completed.
		select {
		case err := <-t.result:
			return err
		default:
			return ErrLoopClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch queues fn without waiting. It reports false when the loop is
// closed or its buffer is full.
func (l *Loop) Dispatch(fn func()) bool {
	if l.closed.Load() {
		return false
	}
	select {
	case l.work <- task{fn: fn}:
		return true
	case <-l.done:
		return false
	default:
		l.logger.Warn("dispatch buffer full, dropping work")
		return false
	}
}

// Close stops the loop and waits for the goroutine to exit. Work still
// buffered is discarded. Close is idempotent.
func (l *Loop) Close() {
	if l.closed.Swap(true) {
		return
	}
	close(l.done)
	l.wg.Wait()
}

// Closed reports whether Close has been called.
func (l *Loop) Closed() bool {
	return l.closed.Load()
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case t := <-l.work:
			err := l.execute(t.fn)
			if t.result != nil {
				t.result <- err
			}
		case <-l.done:
			return
		}
	}
}

// execute runs fn with panic recovery and then flushes the queue.
func (l *Loop) execute(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("dispatch panic",
				"panic", r,
				"stack", string(debug.Stack()))
			err = errors.New("R102").WithDetail(fmt.Sprint(r))
		}
	}()

	if fn != nil {
		fn()
	}
	if ferr := l.queue.Flush(); ferr != nil {
		return ferr
	}
	return nil
}
