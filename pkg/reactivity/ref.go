package reactivity

import (
	"fmt"
	"reflect"
)

// Ref is a boxed reactive value. Get records a dependency on the box and
// Set notifies its subscribers when the value changes. Change detection
// follows Object.Set: values of uncomparable struct types always count as
// changed.
type Ref[T any] interface {
	Get() T
	Set(value T)
}

// anyRef is the type-erased view of every ref, used by containers that
// unwrap refs stored in them.
type anyRef interface {
	isRef()
	getAny() any
	setAny(v any) bool
	peekAny() any
}

// IsRef reports whether v is a ref created by this package.
func IsRef(v any) bool {
	_, ok := v.(anyRef)
	return ok
}

// Unref returns the value of v if it is a ref, and v otherwise.
func Unref(v any) any {
	if r, ok := v.(anyRef); ok {
		return r.getAny()
	}
	return v
}

// TriggerRef notifies the subscribers of r without changing its value.
// It is the way to publish an in-place mutation of a shallow ref's value.
func TriggerRef(r any) {
	ref, ok := r.(anyRef)
	if !ok {
		return
	}
	Trigger(ref, TriggerSet, valueKey, ref.peekAny(), nil)
}

// refImpl is the cell behind NewRef and NewShallowRef.
type refImpl[T any] struct {
	// rawValue is the raw form of the last value written, used for change
	// detection.
	rawValue any

	// value is what Get returns: reactive unless shallow.
	value T

	shallow bool
}

// NewRef creates a ref holding value. Targets are made deeply reactive.
//
// Example:
//
//	count := reactivity.NewRef(0)
//	reactivity.CreateEffect(func() { fmt.Println(count.Get()) })
//	count.Set(1) // prints 1
func NewRef[T any](value T) Ref[T] {
	return &refImpl[T]{
		rawValue: toRawAny(value),
		value:    convert(value),
	}
}

// NewShallowRef creates a ref that only tracks replacement of its value.
// The value is stored as given.
func NewShallowRef[T any](value T) Ref[T] {
	return &refImpl[T]{
		rawValue: toRawAny(value),
		value:    value,
		shallow:  true,
	}
}

// convert makes a target deeply reactive and leaves other values as is.
func convert[T any](v T) T {
	return castBack(v, toReactive(v))
}

func (r *refImpl[T]) Get() T {
	Track(r, TrackGet, valueKey)
	return r.value
}

func (r *refImpl[T]) Set(v T) {
	raw := toRawAny(v)
	if !hasChanged(raw, r.rawValue) {
		return
	}
	old := r.value
	r.rawValue = raw
	if r.shallow {
		r.value = v
	} else {
		r.value = convert(v)
	}
	Trigger(r, TriggerSet, valueKey, v, old)
}

// Peek returns the value without recording a dependency.
func (r *refImpl[T]) Peek() T {
	return r.value
}

func (r *refImpl[T]) String() string {
	return fmt.Sprintf("Ref(%v)", r.value)
}

func (r *refImpl[T]) isRef()       {}
func (r *refImpl[T]) getAny() any  { return r.Get() }
func (r *refImpl[T]) peekAny() any { return r.value }
func (r *refImpl[T]) setAny(v any) bool { return setTyped[T](r, v) }

// setTyped writes v into a typed ref. A nil v writes the zero value. A value
// of the wrong type is dropped with an R009 warning and reports false.
func setTyped[T any](r Ref[T], v any) bool {
	if v == nil {
		var zero T
		r.Set(zero)
		return true
	}
	tv, ok := v.(T)
	if !ok {
		warn("R009", "want", reflect.TypeFor[T]().String(), "got", fmt.Sprintf("%T", v))
		return false
	}
	r.Set(tv)
	return true
}

// customRef delegates reads and writes to user functions that decide when
// to track and trigger.
type customRef[T any] struct {
	get func() T
	set func(T)
}

// NewCustomRef creates a ref with explicit control over dependency tracking
// and change notification. factory receives track and trigger functions
// bound to the new ref and returns its getter and setter.
//
// Example (a debounced ref):
//
//	r := reactivity.NewCustomRef(func(track, trigger func()) (func() string, func(string)) {
//	    var v string
//	    return func() string { track(); return v },
//	        func(nv string) { v = nv; time.AfterFunc(d, trigger) }
//	})
func NewCustomRef[T any](factory func(track, trigger func()) (get func() T, set func(T))) Ref[T] {
	r := &customRef[T]{}
	r.get, r.set = factory(
		func() { Track(r, TrackGet, valueKey) },
		func() { Trigger(r, TriggerSet, valueKey, nil, nil) },
	)
	return r
}

func (r *customRef[T]) Get() T { return r.get() }

func (r *customRef[T]) Set(v T) { r.set(v) }

func (r *customRef[T]) isRef()       {}
func (r *customRef[T]) getAny() any  { return r.get() }
func (r *customRef[T]) peekAny() any { return nil }
func (r *customRef[T]) setAny(v any) bool { return setTyped[T](r, v) }

// objectRef is a ref view of one property of an Object. It holds no value
// of its own; reads and writes go through the object.
type objectRef struct {
	object *Object
	key    string
}

// ToRef returns a ref bound to obj's property key. Reading it reads the
// property and writing it writes the property, so when obj is reactive the
// ref stays connected to its source.
func ToRef(obj *Object, key string) Ref[any] {
	return &objectRef{object: obj, key: key}
}

// ToRefs converts every own property of obj to a ref bound to it. obj is
// expected to be a reactive proxy; a plain object yields refs that do not
// track.
func ToRefs(obj *Object) map[string]Ref[any] {
	if !IsProxy(obj) {
		warn("R005", "target", fmt.Sprint(obj))
	}
	refs := make(map[string]Ref[any], obj.Len())
	for _, k := range obj.Keys() {
		refs[k] = ToRef(obj, k)
	}
	return refs
}

func (r *objectRef) Get() any { return r.object.Get(r.key) }

func (r *objectRef) Set(v any) { r.object.Set(r.key, v) }

func (r *objectRef) isRef()       {}
func (r *objectRef) getAny() any  { return r.Get() }
func (r *objectRef) peekAny() any { return nil }
func (r *objectRef) setAny(v any) bool { return r.object.Set(r.key, v) }
