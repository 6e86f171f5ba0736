// Package reactivity provides a fine-grained dependency tracking engine.
//
// Reads performed while an Effect runs are recorded as edges in a dependency
// graph keyed by (target, key). Writes look up the matching edges and re-run
// the subscribed effects, or hand them to the effect's scheduler.
//
// # Targets and Proxies
//
// Object, Array, Map, Set, WeakMap and WeakSet are the containers the engine
// can observe. Wrapping one returns a proxy of the same Go type:
//
//	state := Reactive(NewObject("count", 0, "todos", NewArray()))
//	state.Get("count")                      // tracked read
//	state.Set("count", 1)                   // notifies subscribers
//	state.Get("todos").(*Array).Push("a")   // nested values are wrapped on access
//
// Readonly, ShallowReactive and ShallowReadonly are the other three variants.
// ToRaw returns the value behind a proxy and MarkRaw opts a value out of
// wrapping.
//
// # Refs and Computed Values
//
// Ref[T] is a boxed reactive value:
//
//	count := NewRef(0)
//	count.Get()   // tracked read
//	count.Set(5)  // notifies subscribers
//
// Computed[T] is a lazy, cached derivation that recomputes on the first read
// after a dependency changed:
//
//	doubled := NewComputed(func() int { return count.Get() * 2 })
//
// # Effects
//
// CreateEffect runs a function and re-runs it whenever something it read
// changes. WithScheduler replaces the synchronous re-run, which is how
// callers batch updates:
//
//	queue := scheduler.NewQueue()
//	CreateEffect(render, WithScheduler(queue.Schedule))
//	...
//	queue.Flush()
//
// # Thread Safety
//
// The engine is single-threaded. The effect stack, the tracking flag and the
// dependency graph are process-wide and unsynchronised; all access must
// happen on one goroutine at a time. scheduler.Loop provides such a
// goroutine.
package reactivity
