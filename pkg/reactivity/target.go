package reactivity

// Target is a value that can be wrapped by Reactive, Readonly and their
// shallow variants: *Object, *Array, *Map, *Set, *WeakMap and *WeakSet.
//
// A proxy has the same Go type as the target it wraps. Raw values operate
// on their own storage; proxies route every operation through a handler
// that records reads and announces writes.
type Target interface {
	// flag answers a reserved flag lookup. Flags are never stored on the
	// target and never appear in enumeration.
	flag(f reactiveFlag) any

	// newProxy wraps the receiver for the given variant.
	newProxy(v variant) Target
}

// reactiveFlag is a reserved key intercepted by handlers before tracking.
type reactiveFlag int

const (
	flagIsReactive reactiveFlag = iota + 1
	flagIsReadonly
	flagRaw
	flagSkip
)

// variant is one of the four proxy kinds: {reactive, readonly} x {deep, shallow}.
type variant struct {
	readonly bool
	shallow  bool
}

var (
	reactiveVariant        = variant{}
	shallowReactiveVariant = variant{shallow: true}
	readonlyVariant        = variant{readonly: true}
	shallowReadonlyVariant = variant{readonly: true, shallow: true}
)

// proxyEntry holds the cached proxies of one target, one per variant.
type proxyEntry struct {
	proxies map[variant]Target
	skip    bool
}

// proxyRegistry is the identity-keyed side table from raw target to its
// proxies and markers. Targets are never mutated to carry flags.
type proxyRegistry struct {
	entries map[Target]*proxyEntry
}

func newProxyRegistry() *proxyRegistry {
	return &proxyRegistry{entries: make(map[Target]*proxyEntry)}
}

var proxies = newProxyRegistry()

func (r *proxyRegistry) entry(t Target) *proxyEntry {
	e, ok := r.entries[t]
	if !ok {
		e = &proxyEntry{proxies: make(map[variant]Target, 1)}
		r.entries[t] = e
	}
	return e
}

func (r *proxyRegistry) lookup(t Target, v variant) (Target, bool) {
	e, ok := r.entries[t]
	if !ok {
		return nil, false
	}
	p, ok := e.proxies[v]
	return p, ok
}

func (r *proxyRegistry) store(t Target, v variant, p Target) {
	r.entry(t).proxies[v] = p
}

func (r *proxyRegistry) markSkip(t Target) {
	r.entry(t).skip = true
}

func (r *proxyRegistry) skipped(t Target) bool {
	e, ok := r.entries[t]
	return ok && e.skip
}

func (r *proxyRegistry) forget(t Target) {
	delete(r.entries, t)
}

// asTarget returns v as a non-nil Target.
func asTarget(v any) (Target, bool) {
	t, ok := v.(Target)
	if !ok || isNilTarget(t) {
		return nil, false
	}
	return t, true
}

// isNilTarget reports whether t holds a typed nil pointer.
func isNilTarget(t Target) bool {
	switch v := t.(type) {
	case *Object:
		return v == nil
	case *Array:
		return v == nil
	case *Map:
		return v == nil
	case *Set:
		return v == nil
	case *WeakMap:
		return v == nil
	case *WeakSet:
		return v == nil
	}
	return t == nil
}

// proxyFlagResponse answers the is-reactive and is-readonly flags for a
// proxy of variant v. ok is false for any other flag.
func proxyFlagResponse(v variant, f reactiveFlag) (any, bool) {
	switch f {
	case flagIsReactive:
		return !v.readonly, true
	case flagIsReadonly:
		return v.readonly, true
	}
	return nil, false
}

// rawFlagResponse answers a flag lookup on a raw target: only the skip
// marker can be set, and only through the side table.
func rawFlagResponse(t Target, f reactiveFlag) any {
	if f == flagSkip {
		return proxies.skipped(t)
	}
	return nil
}
