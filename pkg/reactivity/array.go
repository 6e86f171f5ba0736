package reactivity

import (
	"fmt"
	"iter"
)

// Array is an index-addressed list with a "length" pseudo-key. Deleting an
// element leaves a hole: the index stays within Len but is no longer
// present.
//
// As with Object, an Array returned by Reactive and friends is a proxy that
// routes every operation through its handler.
type Array struct {
	items []any

	// target and handler are set on proxies only.
	target  *Array
	handler handler
}

// holeValue marks an index removed by Delete.
type holeValue struct{}

func isHole(v any) bool {
	_, ok := v.(holeValue)
	return ok
}

// NewArray creates a raw Array holding items.
func NewArray(items ...any) *Array {
	a := &Array{items: make([]any, len(items))}
	copy(a.items, items)
	return a
}

// Get returns the element at i. Holes and out-of-range indices read as nil.
func (a *Array) Get(i int) any {
	return a.get(i, a)
}

// Set assigns v at index i, growing the array with holes when i is past the
// end. Negative indices are rejected.
func (a *Array) Set(i int, v any) bool {
	if i < 0 {
		warn("R007", "index", i)
		return false
	}
	return a.set(i, v, a)
}

// Len returns the array length, holes included.
func (a *Array) Len() int {
	n, _ := a.get(lengthKey, a).(int)
	return n
}

// SetLen truncates the array or grows it with holes.
func (a *Array) SetLen(n int) bool {
	if n < 0 {
		warn("R007", "length", n)
		return false
	}
	return a.set(lengthKey, n, a)
}

// Has reports whether index i holds an element.
func (a *Array) Has(i int) bool {
	return a.has(i)
}

// Delete removes the element at i, leaving a hole.
func (a *Array) Delete(i int) bool {
	return a.deleteProperty(i)
}

// Keys returns the indices that hold elements, in ascending order.
func (a *Array) Keys() []int {
	raw := a.ownKeys()
	keys := make([]int, 0, len(raw))
	for _, k := range raw {
		if i, ok := k.(int); ok {
			keys = append(keys, i)
		}
	}
	return keys
}

// All iterates over every index below Len, yielding nil for holes.
func (a *Array) All() iter.Seq2[int, any] {
	n := a.Len()
	return func(yield func(int, any) bool) {
		for i := 0; i < n; i++ {
			if !yield(i, a.Get(i)) {
				return
			}
		}
	}
}

// Includes reports whether v is an element, treating NaN as equal to NaN.
func (a *Array) Includes(v any) bool {
	return a.search(v, func(items []any, v any) int {
		for i, item := range items {
			if !isHole(item) && sameValueZero(item, v) {
				return i
			}
		}
		return -1
	}) >= 0
}

// IndexOf returns the first index holding v, or -1.
func (a *Array) IndexOf(v any) int {
	return a.search(v, func(items []any, v any) int {
		for i, item := range items {
			if !isHole(item) && identical(item, v) {
				return i
			}
		}
		return -1
	})
}

// LastIndexOf returns the last index holding v, or -1.
func (a *Array) LastIndexOf(v any) int {
	return a.search(v, func(items []any, v any) int {
		for i := len(items) - 1; i >= 0; i-- {
			if !isHole(items[i]) && identical(items[i], v) {
				return i
			}
		}
		return -1
	})
}

// search runs a membership lookup against the raw storage. Through a proxy
// every index is tracked, and a miss is retried with the raw form of v.
func (a *Array) search(v any, find func(items []any, v any) int) int {
	raw, _ := toRawAny(a).(*Array)
	if a.handler == nil {
		return find(raw.items, v)
	}
	for i, n := 0, a.Len(); i < n; i++ {
		Track(raw, TrackGet, i)
	}
	if idx := find(raw.items, v); idx >= 0 {
		return idx
	}
	return find(raw.items, toRawAny(v))
}

// Push appends items and returns the new length. Tracking is paused while
// it runs, so an effect that pushes does not subscribe to the length.
func (a *Array) Push(items ...any) int {
	PauseTracking()
	defer ResetTracking()

	n := a.Len()
	for _, item := range items {
		a.set(n, item, a)
		n++
	}
	a.set(lengthKey, n, a)
	return n
}

// Pop removes and returns the last element. Tracking is paused while it
// runs.
func (a *Array) Pop() any {
	PauseTracking()
	defer ResetTracking()

	n := a.Len()
	if n == 0 {
		return nil
	}
	v := a.get(n-1, a)
	a.deleteProperty(n - 1)
	a.set(lengthKey, n-1, a)
	return v
}

// String implements fmt.Stringer.
func (a *Array) String() string {
	if a.handler != nil {
		return fmt.Sprintf("Proxy(%v)", a.target)
	}
	return fmt.Sprintf("Array%v", a.items)
}

func (a *Array) flag(f reactiveFlag) any {
	if a.handler == nil {
		return rawFlagResponse(a, f)
	}
	return a.handler.get(a.target, f, a)
}

func (a *Array) newProxy(v variant) Target {
	return &Array{target: a, handler: baseHandlerFor(v)}
}

// index converts a graph key to an index, reporting false for anything
// that is not a non-negative int.
func index(key any) (int, bool) {
	i, ok := key.(int)
	return i, ok && i >= 0
}

func (a *Array) get(key any, receiver baseTarget) any {
	if a.handler != nil {
		return a.handler.get(a.target, key, receiver)
	}
	if key == lengthKey {
		return len(a.items)
	}
	i, ok := index(key)
	if !ok || i >= len(a.items) || isHole(a.items[i]) {
		return nil
	}
	return a.items[i]
}

func (a *Array) set(key, value any, receiver baseTarget) bool {
	if a.handler != nil {
		return a.handler.set(a.target, key, value, receiver)
	}
	return receiver.defineOwn(key, value)
}

func (a *Array) has(key any) bool {
	if a.handler != nil {
		return a.handler.has(a.target, key)
	}
	return a.hasOwn(key)
}

func (a *Array) hasOwn(key any) bool {
	if a.handler != nil {
		return a.target.hasOwn(key)
	}
	if key == lengthKey {
		return true
	}
	i, ok := index(key)
	return ok && i < len(a.items) && !isHole(a.items[i])
}

func (a *Array) deleteProperty(key any) bool {
	if a.handler != nil {
		return a.handler.deleteProperty(a.target, key)
	}
	if key == lengthKey {
		return false
	}
	if i, ok := index(key); ok && i < len(a.items) {
		a.items[i] = holeValue{}
	}
	return true
}

func (a *Array) ownKeys() []any {
	if a.handler != nil {
		return a.handler.ownKeys(a.target)
	}
	keys := make([]any, 0, len(a.items)+1)
	for i, item := range a.items {
		if !isHole(item) {
			keys = append(keys, i)
		}
	}
	return append(keys, lengthKey)
}

func (a *Array) defineOwn(key, value any) bool {
	if a.handler != nil {
		return a.target.defineOwn(key, value)
	}
	if key == lengthKey {
		n, ok := value.(int)
		if !ok || n < 0 {
			return false
		}
		a.resize(n)
		return true
	}
	i, ok := index(key)
	if !ok {
		return false
	}
	if i >= len(a.items) {
		a.resize(i + 1)
	}
	a.items[i] = value
	return true
}

func (a *Array) resize(n int) {
	if n <= len(a.items) {
		clear(a.items[n:])
		a.items = a.items[:n]
		return
	}
	for len(a.items) < n {
		a.items = append(a.items, holeValue{})
	}
}
