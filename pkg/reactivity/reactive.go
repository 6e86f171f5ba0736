package reactivity

import "fmt"

// Reactive returns a deep reactive proxy of target. Reads through the proxy
// are tracked, writes trigger subscribers, nested targets are wrapped on
// first access and refs stored in objects are unwrapped.
//
// Wrapping the same target twice returns the same proxy. Wrapping a readonly
// proxy returns it unchanged. Values that are not targets are returned as is
// (with a warning in DevMode).
//
// Example:
//
//	state := reactivity.Reactive(reactivity.NewObject("count", 0))
//	state.Set("count", state.Get("count").(int)+1)
func Reactive[T any](target T) T {
	if IsReadonly(target) {
		return target
	}
	return castBack(target, createReactiveObject(target, reactiveVariant))
}

// ShallowReactive returns a proxy where only root-level reads and writes are
// reactive. Nested values are returned raw and refs are not unwrapped.
func ShallowReactive[T any](target T) T {
	return castBack(target, createReactiveObject(target, shallowReactiveVariant))
}

// Readonly returns a deep readonly proxy of target. Writes and deletes are
// ignored (with a warning in DevMode) and nested reads return readonly
// proxies. Reading through a readonly proxy of a reactive proxy still tracks.
func Readonly[T any](target T) T {
	return castBack(target, createReactiveObject(target, readonlyVariant))
}

// ShallowReadonly returns a proxy whose root-level properties are readonly.
// Nested values are returned as stored.
func ShallowReadonly[T any](target T) T {
	return castBack(target, createReactiveObject(target, shallowReadonlyVariant))
}

func castBack[T any](orig T, v any) T {
	if r, ok := v.(T); ok {
		return r
	}
	return orig
}

func createReactiveObject(target any, v variant) any {
	t, ok := asTarget(target)
	if !ok {
		warn("R001", "value", fmt.Sprintf("%v", target))
		return target
	}
	// Already a proxy: return it, except when making a reactive proxy readonly.
	if t.flag(flagRaw) != nil && !(v.readonly && isTrue(t.flag(flagIsReactive))) {
		return t
	}
	if p, ok := proxies.lookup(t, v); ok {
		return p
	}
	if proxies.skipped(t) {
		return t
	}
	p := t.newProxy(v)
	proxies.store(t, v, p)
	return p
}

// toReactive converts a nested value for a deep reactive read.
func toReactive(v any) any {
	if _, ok := asTarget(v); !ok {
		return v
	}
	if IsReadonly(v) {
		return v
	}
	return createReactiveObject(v, reactiveVariant)
}

// toReadonly converts a nested value for a deep readonly read.
func toReadonly(v any) any {
	if _, ok := asTarget(v); !ok {
		return v
	}
	return createReactiveObject(v, readonlyVariant)
}

// IsReactive reports whether v is a reactive proxy, or a readonly proxy
// wrapping one.
func IsReactive(v any) bool {
	t, ok := asTarget(v)
	if !ok {
		return false
	}
	if IsReadonly(v) {
		return IsReactive(t.flag(flagRaw))
	}
	return isTrue(t.flag(flagIsReactive))
}

// IsReadonly reports whether v is a readonly proxy or a computed value
// without a setter.
func IsReadonly(v any) bool {
	if r, ok := v.(interface{ readonlyRef() bool }); ok {
		return r.readonlyRef()
	}
	t, ok := asTarget(v)
	if !ok {
		return false
	}
	return isTrue(t.flag(flagIsReadonly))
}

// IsProxy reports whether v is a proxy of any variant.
func IsProxy(v any) bool {
	t, ok := asTarget(v)
	if !ok {
		return false
	}
	return t.flag(flagRaw) != nil
}

// ToRaw returns the raw target behind any number of proxy layers. Values
// that are not proxies are returned unchanged.
func ToRaw[T any](observed T) T {
	return castBack(observed, toRawAny(observed))
}

func toRawAny(v any) any {
	t, ok := asTarget(v)
	if !ok {
		return v
	}
	if inner := t.flag(flagRaw); inner != nil {
		return toRawAny(inner)
	}
	return v
}

// MarkRaw marks target so that it is never wrapped. Reactive and friends
// return it unchanged, including when it is read as a nested value.
func MarkRaw[T any](target T) T {
	if t, ok := asTarget(target); ok {
		proxies.markSkip(t)
	}
	return target
}

func isTrue(v any) bool {
	b, _ := v.(bool)
	return b
}
