package reactivity

import "fmt"

// Computed is a lazily evaluated, cached derived ref.
//
// The getter runs as a lazy Effect. When one of its dependencies changes the
// cache is only marked dirty and the computed's own subscribers are
// notified; the getter runs again on the next Get. A Computed is therefore
// both a subscriber of its sources and a source for its readers.
type Computed[T any] struct {
	effect *Effect
	setter func(T)

	value T
	dirty bool
}

// NewComputed creates a readonly computed value from getter.
//
// Example:
//
//	doubled := reactivity.NewComputed(func() int {
//	    return count.Get() * 2
//	})
//	fmt.Println(doubled.Get())
func NewComputed[T any](getter func() T) *Computed[T] {
	return newComputed(getter, nil)
}

// NewWritableComputed creates a computed value whose Set calls setter.
func NewWritableComputed[T any](getter func() T, setter func(T)) *Computed[T] {
	return newComputed(getter, setter)
}

func newComputed[T any](getter func() T, setter func(T)) *Computed[T] {
	c := &Computed[T]{
		setter: setter,
		dirty:  true,
	}
	c.effect = newEffect(
		func() any { return getter() },
		Lazy(),
		WithScheduler(func(*Effect) {
			if !c.dirty {
				c.dirty = true
				Trigger(c, TriggerSet, valueKey, nil, nil)
			}
		}),
	)
	return c
}

// Get returns the cached value, recomputing it first if a dependency has
// changed since the last read.
func (c *Computed[T]) Get() T {
	if c.dirty {
		if v, ok := c.effect.Run().(T); ok {
			c.value = v
		} else {
			var zero T
			c.value = zero
		}
		c.dirty = false
	}
	Track(c, TrackGet, valueKey)
	return c.value
}

// Set calls the setter of a writable computed. On a readonly computed it
// is a no-op (with a warning in DevMode).
func (c *Computed[T]) Set(v T) {
	if c.setter == nil {
		warn("R006")
		return
	}
	c.setter(v)
}

// Effect returns the lazy effect that runs the getter.
func (c *Computed[T]) Effect() *Effect {
	return c.effect
}

// Dirty reports whether the next Get will run the getter.
func (c *Computed[T]) Dirty() bool {
	return c.dirty
}

// Stop detaches the computed from its sources. The cached value is kept
// and will not be recomputed.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
}

func (c *Computed[T]) String() string {
	return fmt.Sprintf("Computed(%v)", c.value)
}

func (c *Computed[T]) readonlyRef() bool { return c.setter == nil }

func (c *Computed[T]) isRef()       {}
func (c *Computed[T]) getAny() any  { return c.Get() }
func (c *Computed[T]) peekAny() any { return c.value }
func (c *Computed[T]) setAny(v any) bool { return setTyped[T](c, v) }
