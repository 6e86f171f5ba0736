package reactivity

import (
	"fmt"
	"iter"
)

// collection is the insertion-ordered raw storage behind Map, Set, WeakMap
// and WeakSet. Keys must be comparable; NaN keys are treated as one key.
type collection struct {
	order   []any
	entries map[any]any
}

// nanKey stands in for NaN, which never equals itself as a Go map key.
type nanKey struct{}

func newCollection() *collection {
	return &collection{entries: make(map[any]any)}
}

func normalizeKey(k any) any {
	if isNaN(k) {
		return nanKey{}
	}
	return k
}

func (c *collection) has(k any) bool {
	_, ok := c.entries[normalizeKey(k)]
	return ok
}

func (c *collection) get(k any) (any, bool) {
	v, ok := c.entries[normalizeKey(k)]
	return v, ok
}

func (c *collection) set(k, v any) {
	nk := normalizeKey(k)
	if _, ok := c.entries[nk]; !ok {
		c.order = append(c.order, k)
	}
	c.entries[nk] = v
}

func (c *collection) delete(k any) bool {
	nk := normalizeKey(k)
	if _, ok := c.entries[nk]; !ok {
		return false
	}
	delete(c.entries, nk)
	for i, existing := range c.order {
		if sameValueZero(existing, k) {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection) clear() {
	c.order = nil
	clear(c.entries)
}

func (c *collection) size() int {
	return len(c.order)
}

// each visits the entries present when it was called, skipping any removed
// during the walk.
func (c *collection) each(fn func(k, v any) bool) {
	keys := append([]any(nil), c.order...)
	for _, k := range keys {
		v, ok := c.entries[normalizeKey(k)]
		if !ok {
			continue
		}
		if !fn(k, v) {
			return
		}
	}
}

// collectionTarget is implemented by the four collection types. storage
// returns the raw entries of a raw value.
type collectionTarget interface {
	Target
	storage() *collection
}

// rawCollection returns the raw collection behind any number of proxy layers.
func rawCollection(t Target) collectionTarget {
	c, _ := toRawAny(t).(collectionTarget)
	return c
}

// Map is an insertion-ordered key/value collection. Keys must be comparable.
type Map struct {
	data *collection

	target  *Map
	handler *collectionHandler
}

// NewMap creates a raw Map from alternating key/value pairs.
// It panics if the pairs are malformed.
func NewMap(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("reactivity: NewMap expects key/value pairs")
	}
	m := &Map{data: newCollection()}
	for i := 0; i < len(kv); i += 2 {
		m.data.set(kv[i], kv[i+1])
	}
	return m
}

// Get returns the value stored under key, or nil.
func (m *Map) Get(key any) any {
	if m.handler != nil {
		return m.handler.get(m, key)
	}
	v, _ := m.data.get(key)
	return v
}

// Has reports whether key is present.
func (m *Map) Has(key any) bool {
	if m.handler != nil {
		return m.handler.has(m, key)
	}
	return m.data.has(key)
}

// Set stores value under key and returns the receiver.
func (m *Map) Set(key, value any) *Map {
	if m.handler != nil {
		m.handler.set(m, key, value)
		return m
	}
	m.data.set(key, value)
	return m
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key any) bool {
	if m.handler != nil {
		return m.handler.delete(m, key)
	}
	return m.data.delete(key)
}

// Clear removes every entry.
func (m *Map) Clear() {
	if m.handler != nil {
		m.handler.clear(m)
		return
	}
	m.data.clear()
}

// Size returns the number of entries.
func (m *Map) Size() int {
	if m.handler != nil {
		return m.handler.size(m)
	}
	return m.data.size()
}

// ForEach calls fn for every entry in insertion order.
func (m *Map) ForEach(fn func(value, key any)) {
	if m.handler != nil {
		m.handler.forEach(m, fn)
		return
	}
	m.data.each(func(k, v any) bool {
		fn(v, k)
		return true
	})
}

// Keys iterates over the keys in insertion order. On a proxy the
// dependency is recorded when Keys is called.
func (m *Map) Keys() iter.Seq[any] {
	if m.handler != nil {
		return m.handler.keys(m)
	}
	return seqKeys(m.data)
}

// Values iterates over the values in insertion order.
func (m *Map) Values() iter.Seq[any] {
	if m.handler != nil {
		return m.handler.values(m)
	}
	return seqValues(m.data)
}

// Entries iterates over the key/value pairs in insertion order.
func (m *Map) Entries() iter.Seq2[any, any] {
	if m.handler != nil {
		return m.handler.entries(m)
	}
	return seqEntries(m.data)
}

// String implements fmt.Stringer.
func (m *Map) String() string {
	if m.handler != nil {
		return fmt.Sprintf("Proxy(%v)", m.target)
	}
	return fmt.Sprintf("Map(%d)", m.data.size())
}

func (m *Map) storage() *collection { return m.data }

func (m *Map) flag(f reactiveFlag) any {
	if m.handler == nil {
		return rawFlagResponse(m, f)
	}
	return m.handler.flag(m.target, f)
}

func (m *Map) newProxy(v variant) Target {
	return &Map{target: m, handler: collectionHandlerFor(v)}
}

// Set is an insertion-ordered collection of unique comparable values.
type Set struct {
	data *collection

	target  *Set
	handler *collectionHandler
}

// NewSet creates a raw Set holding values.
func NewSet(values ...any) *Set {
	s := &Set{data: newCollection()}
	for _, v := range values {
		s.data.set(v, v)
	}
	return s
}

// Add inserts value and returns the receiver.
func (s *Set) Add(value any) *Set {
	if s.handler != nil {
		s.handler.add(s, value)
		return s
	}
	s.data.set(value, value)
	return s
}

// Has reports whether value is present.
func (s *Set) Has(value any) bool {
	if s.handler != nil {
		return s.handler.has(s, value)
	}
	return s.data.has(value)
}

// Delete removes value and reports whether it was present.
func (s *Set) Delete(value any) bool {
	if s.handler != nil {
		return s.handler.delete(s, value)
	}
	return s.data.delete(value)
}

// Clear removes every value.
func (s *Set) Clear() {
	if s.handler != nil {
		s.handler.clear(s)
		return
	}
	s.data.clear()
}

// Size returns the number of values.
func (s *Set) Size() int {
	if s.handler != nil {
		return s.handler.size(s)
	}
	return s.data.size()
}

// ForEach calls fn for every value in insertion order. As with a Map, fn
// receives the value twice.
func (s *Set) ForEach(fn func(value, key any)) {
	if s.handler != nil {
		s.handler.forEach(s, fn)
		return
	}
	s.data.each(func(k, v any) bool {
		fn(v, k)
		return true
	})
}

// Values iterates over the values in insertion order.
func (s *Set) Values() iter.Seq[any] {
	if s.handler != nil {
		return s.handler.values(s)
	}
	return seqValues(s.data)
}

// Keys is the same as Values.
func (s *Set) Keys() iter.Seq[any] {
	if s.handler != nil {
		return s.handler.keys(s)
	}
	return seqKeys(s.data)
}

// Entries yields each value paired with itself.
func (s *Set) Entries() iter.Seq2[any, any] {
	if s.handler != nil {
		return s.handler.entries(s)
	}
	return seqEntries(s.data)
}

// String implements fmt.Stringer.
func (s *Set) String() string {
	if s.handler != nil {
		return fmt.Sprintf("Proxy(%v)", s.target)
	}
	return fmt.Sprintf("Set(%d)", s.data.size())
}

func (s *Set) storage() *collection { return s.data }

func (s *Set) flag(f reactiveFlag) any {
	if s.handler == nil {
		return rawFlagResponse(s, f)
	}
	return s.handler.flag(s.target, f)
}

func (s *Set) newProxy(v variant) Target {
	return &Set{target: s, handler: collectionHandlerFor(v)}
}

// WeakMap is a Map whose keys are targets. It has no size and cannot be
// iterated.
//
// Go has no weak references before 1.24, so entries are held strongly until
// deleted or the WeakMap itself becomes unreachable.
type WeakMap struct {
	data *collection

	target  *WeakMap
	handler *collectionHandler
}

// NewWeakMap creates an empty raw WeakMap.
func NewWeakMap() *WeakMap {
	return &WeakMap{data: newCollection()}
}

// Get returns the value stored under key, or nil.
func (w *WeakMap) Get(key any) any {
	if w.handler != nil {
		return w.handler.get(w, key)
	}
	v, _ := w.data.get(key)
	return v
}

// Has reports whether key is present.
func (w *WeakMap) Has(key any) bool {
	if w.handler != nil {
		return w.handler.has(w, key)
	}
	return w.data.has(key)
}

// Set stores value under key and returns the receiver. Keys that are not
// targets are ignored.
func (w *WeakMap) Set(key, value any) *WeakMap {
	if !validWeakKey(key) {
		return w
	}
	if w.handler != nil {
		w.handler.set(w, key, value)
		return w
	}
	w.data.set(key, value)
	return w
}

// Delete removes key and reports whether it was present.
func (w *WeakMap) Delete(key any) bool {
	if w.handler != nil {
		return w.handler.delete(w, key)
	}
	return w.data.delete(key)
}

// String implements fmt.Stringer.
func (w *WeakMap) String() string {
	if w.handler != nil {
		return fmt.Sprintf("Proxy(%v)", w.target)
	}
	return "WeakMap"
}

func (w *WeakMap) storage() *collection { return w.data }

func (w *WeakMap) flag(f reactiveFlag) any {
	if w.handler == nil {
		return rawFlagResponse(w, f)
	}
	return w.handler.flag(w.target, f)
}

func (w *WeakMap) newProxy(v variant) Target {
	return &WeakMap{target: w, handler: collectionHandlerFor(v)}
}

// WeakSet is a Set whose values are targets. It has no size and cannot be
// iterated. Values are held strongly, as with WeakMap.
type WeakSet struct {
	data *collection

	target  *WeakSet
	handler *collectionHandler
}

// NewWeakSet creates an empty raw WeakSet.
func NewWeakSet() *WeakSet {
	return &WeakSet{data: newCollection()}
}

// Add inserts value and returns the receiver. Values that are not targets
// are ignored.
func (w *WeakSet) Add(value any) *WeakSet {
	if !validWeakKey(value) {
		return w
	}
	if w.handler != nil {
		w.handler.add(w, value)
		return w
	}
	w.data.set(value, value)
	return w
}

// Has reports whether value is present.
func (w *WeakSet) Has(value any) bool {
	if w.handler != nil {
		return w.handler.has(w, value)
	}
	return w.data.has(value)
}

// Delete removes value and reports whether it was present.
func (w *WeakSet) Delete(value any) bool {
	if w.handler != nil {
		return w.handler.delete(w, value)
	}
	return w.data.delete(value)
}

// String implements fmt.Stringer.
func (w *WeakSet) String() string {
	if w.handler != nil {
		return fmt.Sprintf("Proxy(%v)", w.target)
	}
	return "WeakSet"
}

func (w *WeakSet) storage() *collection { return w.data }

func (w *WeakSet) flag(f reactiveFlag) any {
	if w.handler == nil {
		return rawFlagResponse(w, f)
	}
	return w.handler.flag(w.target, f)
}

func (w *WeakSet) newProxy(v variant) Target {
	return &WeakSet{target: w, handler: collectionHandlerFor(v)}
}

func validWeakKey(key any) bool {
	if _, ok := asTarget(key); ok {
		return true
	}
	warn("R008", "key", fmt.Sprintf("%v", key))
	return false
}

func seqKeys(c *collection) iter.Seq[any] {
	return func(yield func(any) bool) {
		c.each(func(k, _ any) bool { return yield(k) })
	}
}

func seqValues(c *collection) iter.Seq[any] {
	return func(yield func(any) bool) {
		c.each(func(_, v any) bool { return yield(v) })
	}
}

func seqEntries(c *collection) iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		c.each(yield)
	}
}
