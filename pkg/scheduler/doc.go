// Package scheduler batches reactive effect re-runs.
//
// The reactivity engine re-runs an effect synchronously on every write to one
// of its dependencies. Effects created with a Queue's Schedule method as
// their scheduler are instead marked pending, and run once per Flush no matter
// how many writes happened in between.
//
// # Queue
//
//	q := scheduler.NewQueue()
//	state := reactivity.Reactive(reactivity.NewObject("a", 0, "b", 0))
//	reactivity.CreateEffect(func() {
//	    fmt.Println(state.Get("a"), state.Get("b"))
//	}, reactivity.WithScheduler(q.Schedule))
//
//	state.Set("a", 1)
//	state.Set("b", 2)
//	q.Flush() // prints "1 2" once
//
// Flush protects against effects that keep rescheduling themselves: an
// effect that would run more than MaxRunsPerFlush times in one flush stops
// the flush with ErrBudgetExceeded.
//
// # Loop
//
// The engine is not safe for concurrent use. A Loop owns one goroutine, runs
// submitted functions on it and flushes its queue after each one:
//
//	loop := scheduler.NewLoop(nil)
//	defer loop.Close()
//
//	err := loop.Do(ctx, func() {
//	    state.Set("a", 3)
//	})
package scheduler
