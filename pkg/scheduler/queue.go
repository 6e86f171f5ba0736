package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/reactivity"
)

// DefaultMaxRunsPerFlush bounds how often one effect may run in a single
// Flush before the flush is abandoned.
const DefaultMaxRunsPerFlush = 100

// Queue batches effect re-runs. Its Schedule method is shaped as an effect
// scheduler: a write marks the effect pending instead of running it, and
// Flush later runs every pending effect once, in the order it was first
// scheduled.
//
// A Queue is not safe for concurrent use. Like the engine itself it must be
// driven from one goroutine; see Loop.
//
//	q := scheduler.NewQueue()
//	reactivity.CreateEffect(render, reactivity.WithScheduler(q.Schedule))
//	state.Set("count", 1) // render is queued
//	q.Flush()             // render runs
type Queue struct {
	jobs   []*reactivity.Effect
	queued map[uint64]struct{}

	maxRuns  int
	onFlush  func(ran int)
	flushing bool

	logger *slog.Logger
}

// Option configures a Queue.
type Option func(*Queue)

// WithMaxRunsPerFlush sets the per-effect run budget of a flush. Zero
// disables the budget.
func WithMaxRunsPerFlush(n int) Option {
	return func(q *Queue) {
		q.maxRuns = n
	}
}

// WithOnFlush registers fn to be called after every Flush with the number
// of effects that ran.
func WithOnFlush(fn func(ran int)) Option {
	return func(q *Queue) {
		q.onFlush = fn
	}
}

// WithLogger sets the logger used for budget warnings.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		queued:  make(map[uint64]struct{}),
		maxRuns: DefaultMaxRunsPerFlush,
		logger:  slog.Default().With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Schedule marks e as pending. Scheduling an effect that is already pending
// is a no-op.
func (q *Queue) Schedule(e *reactivity.Effect) {
	if e == nil {
		return
	}
	if _, ok := q.queued[e.ID()]; ok {
		return
	}
	q.queued[e.ID()] = struct{}{}
	q.jobs = append(q.jobs, e)
}

// Pending reports whether e is waiting for the next flush.
func (q *Queue) Pending(e *reactivity.Effect) bool {
	if e == nil {
		return false
	}
	_, ok := q.queued[e.ID()]
	return ok
}

// Len returns the number of pending effects.
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Flush runs pending effects until none remain, including effects scheduled
// by the effects it runs. Stopped effects are skipped.
//
// If an effect would run more than the configured budget, Flush stops,
// leaves the remaining effects pending and returns ErrBudgetExceeded. A
// Flush called from inside a running flush returns nil immediately; the
// outer flush picks up the new work.
func (q *Queue) Flush() error {
	if q.flushing {
		return nil
	}
	q.flushing = true
	defer func() { q.flushing = false }()

	runs := make(map[uint64]int)
	ran := 0
	for len(q.jobs) > 0 {
		e := q.jobs[0]

		if !e.Active() {
			q.dequeue()
			continue
		}

		if q.maxRuns > 0 && runs[e.ID()] >= q.maxRuns {
			q.logger.Warn("flush budget exceeded",
				"effect", e.ID(),
				"runs", runs[e.ID()],
				"pending", len(q.jobs))
			q.notify(ran)
			return errors.New("R100").
				WithDetail(fmt.Sprintf("effect %d ran %d times in one flush", e.ID(), runs[e.ID()]))
		}

		q.dequeue()
		runs[e.ID()]++
		ran++
		e.Run()
	}

	q.notify(ran)
	return nil
}

// dequeue removes the head job.
func (q *Queue) dequeue() {
	e := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	delete(q.queued, e.ID())
}

func (q *Queue) notify(ran int) {
	if q.onFlush != nil {
		q.onFlush(ran)
	}
}

// Clear drops every pending effect without running it.
func (q *Queue) Clear() {
	clear(q.jobs)
	q.jobs = nil
	clear(q.queued)
}
