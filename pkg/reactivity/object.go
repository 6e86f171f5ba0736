package reactivity

import (
	"fmt"
	"iter"
	"sort"
)

// Object is an insertion-ordered, string-keyed property bag with an optional
// prototype. The zero value is not usable; create one with NewObject or
// ObjectOf.
//
// A raw Object stores its own properties. An Object returned by Reactive,
// Readonly and friends is a proxy: it stores nothing and routes every
// operation through its handler to the wrapped target.
type Object struct {
	keys   []string
	values map[string]any
	proto  *Object

	// target and handler are set on proxies only.
	target  *Object
	handler handler
}

// NewObject creates a raw Object from alternating key/value pairs.
// It panics if the pairs are malformed.
//
//	o := reactivity.NewObject("name", "ada", "age", 36)
func NewObject(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("reactivity: NewObject expects key/value pairs")
	}
	o := &Object{values: make(map[string]any, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("reactivity: NewObject key %v is not a string", kv[i]))
		}
		o.defineOwn(k, kv[i+1])
	}
	return o
}

// ObjectOf creates a raw Object holding the entries of m in sorted key order.
func ObjectOf(m map[string]any) *Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	o := &Object{values: make(map[string]any, len(m))}
	for _, k := range keys {
		o.defineOwn(k, m[k])
	}
	return o
}

// Get returns the value of key, looking up the prototype chain. Missing
// keys read as nil.
func (o *Object) Get(key string) any {
	return o.get(key, o)
}

// Set assigns value to key. It reports whether the write was accepted;
// writes through a readonly proxy report true without mutating.
//
// Subscribers are notified when the value changes. Comparable values change
// when they differ under ==, so a struct holding a slice or map always counts
// as changed; store such structs by pointer to compare by identity.
func (o *Object) Set(key string, value any) bool {
	return o.set(key, value, o)
}

// Has reports whether key is present on the object or its prototype chain.
func (o *Object) Has(key string) bool {
	return o.has(key)
}

// Delete removes an own property.
func (o *Object) Delete(key string) bool {
	return o.deleteProperty(key)
}

// Keys returns the own keys in insertion order.
func (o *Object) Keys() []string {
	raw := o.ownKeys()
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if s, ok := k.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys
}

// Len returns the number of own keys.
func (o *Object) Len() int {
	return len(o.ownKeys())
}

// All iterates over the own properties in insertion order. Values are read
// through Get, so a proxy yields converted values.
func (o *Object) All() iter.Seq2[string, any] {
	keys := o.Keys()
	return func(yield func(string, any) bool) {
		for _, k := range keys {
			if !yield(k, o.Get(k)) {
				return
			}
		}
	}
}

// SetPrototype sets the object consulted for keys the object does not own.
// On a proxy it sets the prototype of the wrapped target.
func (o *Object) SetPrototype(proto *Object) {
	if o.handler != nil {
		o.target.SetPrototype(proto)
		return
	}
	o.proto = proto
}

// Prototype returns the object's prototype, or nil.
func (o *Object) Prototype() *Object {
	if o.handler != nil {
		return o.target.Prototype()
	}
	return o.proto
}

// String implements fmt.Stringer.
func (o *Object) String() string {
	if o.handler != nil {
		return fmt.Sprintf("Proxy(%v)", o.target)
	}
	return fmt.Sprintf("Object%v", o.keys)
}

func (o *Object) flag(f reactiveFlag) any {
	if o.handler == nil {
		return rawFlagResponse(o, f)
	}
	return o.handler.get(o.target, f, o)
}

func (o *Object) newProxy(v variant) Target {
	return &Object{target: o, handler: baseHandlerFor(v)}
}

func (o *Object) get(key any, receiver baseTarget) any {
	if o.handler != nil {
		return o.handler.get(o.target, key, receiver)
	}
	k, ok := key.(string)
	if !ok {
		return nil
	}
	if v, own := o.values[k]; own {
		return v
	}
	if o.proto != nil {
		return o.proto.get(key, receiver)
	}
	return nil
}

func (o *Object) set(key, value any, receiver baseTarget) bool {
	if o.handler != nil {
		return o.handler.set(o.target, key, value, receiver)
	}
	k, ok := key.(string)
	if !ok {
		return false
	}
	if _, own := o.values[k]; !own && o.proto != nil {
		return o.proto.set(key, value, receiver)
	}
	return receiver.defineOwn(k, value)
}

func (o *Object) has(key any) bool {
	if o.handler != nil {
		return o.handler.has(o.target, key)
	}
	if o.hasOwn(key) {
		return true
	}
	return o.proto != nil && o.proto.has(key)
}

func (o *Object) hasOwn(key any) bool {
	if o.handler != nil {
		return o.target.hasOwn(key)
	}
	k, ok := key.(string)
	if !ok {
		return false
	}
	_, own := o.values[k]
	return own
}

func (o *Object) deleteProperty(key any) bool {
	if o.handler != nil {
		return o.handler.deleteProperty(o.target, key)
	}
	k, ok := key.(string)
	if !ok {
		return true
	}
	if _, own := o.values[k]; !own {
		return true
	}
	delete(o.values, k)
	for i, existing := range o.keys {
		if existing == k {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

func (o *Object) ownKeys() []any {
	if o.handler != nil {
		return o.handler.ownKeys(o.target)
	}
	keys := make([]any, len(o.keys))
	for i, k := range o.keys {
		keys[i] = k
	}
	return keys
}

// defineOwn stores an own property without consulting the prototype chain
// or any handler. On a proxy it defines the property on the raw target.
func (o *Object) defineOwn(key any, value any) bool {
	if o.handler != nil {
		return o.target.defineOwn(key, value)
	}
	k, ok := key.(string)
	if !ok {
		return false
	}
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, own := o.values[k]; !own {
		o.keys = append(o.keys, k)
	}
	o.values[k] = value
	return true
}
