package reactivity

import "fmt"

// baseTarget is the property-bag view shared by *Object and *Array. On a
// raw value these methods operate on storage; on a proxy they dispatch to
// the handler.
type baseTarget interface {
	Target
	get(key any, receiver baseTarget) any
	set(key, value any, receiver baseTarget) bool
	has(key any) bool
	hasOwn(key any) bool
	deleteProperty(key any) bool
	ownKeys() []any
	defineOwn(key, value any) bool
}

// handler intercepts the operations performed on a proxy. receiver is the
// value the operation was originally invoked on.
type handler interface {
	get(target baseTarget, key any, receiver baseTarget) any
	set(target baseTarget, key, value any, receiver baseTarget) bool
	has(target baseTarget, key any) bool
	deleteProperty(target baseTarget, key any) bool
	ownKeys(target baseTarget) []any
}

// baseHandler implements the four variants for objects and arrays.
type baseHandler struct {
	variant
}

var (
	mutableHandler         = &baseHandler{reactiveVariant}
	shallowReactiveHandler = &baseHandler{shallowReactiveVariant}
	readonlyHandler        = &baseHandler{readonlyVariant}
	shallowReadonlyHandler = &baseHandler{shallowReadonlyVariant}
)

func baseHandlerFor(v variant) handler {
	switch v {
	case shallowReactiveVariant:
		return shallowReactiveHandler
	case readonlyVariant:
		return readonlyHandler
	case shallowReadonlyVariant:
		return shallowReadonlyHandler
	}
	return mutableHandler
}

// flag answers reserved flag lookups. The raw target is only revealed to
// the proxy cached for this variant.
func (h *baseHandler) flag(target baseTarget, f reactiveFlag, receiver baseTarget) any {
	if res, ok := proxyFlagResponse(h.variant, f); ok {
		return res
	}
	if f == flagRaw {
		if p, ok := proxies.lookup(target, h.variant); !ok || p == Target(receiver) {
			return target
		}
	}
	return nil
}

func (h *baseHandler) get(target baseTarget, key any, receiver baseTarget) any {
	if f, ok := key.(reactiveFlag); ok {
		return h.flag(target, f, receiver)
	}

	res := target.get(key, receiver)
	if !h.readonly {
		Track(target, TrackGet, key)
	}
	if h.shallow {
		return res
	}

	if r, ok := res.(anyRef); ok {
		// Arrays keep refs as elements.
		if _, isArray := target.(*Array); isArray {
			if _, isIndex := key.(int); isIndex {
				return res
			}
		}
		return r.getAny()
	}
	if h.readonly {
		return toReadonly(res)
	}
	return toReactive(res)
}

func (h *baseHandler) set(target baseTarget, key, value any, receiver baseTarget) bool {
	if h.readonly {
		warn("R002", "key", fmt.Sprint(key), "target", fmt.Sprint(target))
		return true
	}

	oldValue := target.get(key, target)
	if !h.shallow {
		value = toRawAny(value)
		if _, isArray := target.(*Array); !isArray {
			if oldRef, ok := oldValue.(anyRef); ok && !IsRef(value) {
				return oldRef.setAny(value)
			}
		}
	}

	hadKey := target.hasOwn(key)
	result := target.set(key, value, receiver)
	// Writes that reached target through a prototype chain belong to the
	// receiver, which triggers them itself.
	if any(target) == toRawAny(receiver) {
		if !hadKey {
			Trigger(target, TriggerAdd, key, value, nil)
		} else if hasChanged(value, oldValue) {
			Trigger(target, TriggerSet, key, value, oldValue)
		}
	}
	return result
}

func (h *baseHandler) deleteProperty(target baseTarget, key any) bool {
	if h.readonly {
		warn("R003", "key", fmt.Sprint(key), "target", fmt.Sprint(target))
		return true
	}
	hadKey := target.hasOwn(key)
	oldValue := target.get(key, target)
	result := target.deleteProperty(key)
	if result && hadKey {
		Trigger(target, TriggerDelete, key, nil, oldValue)
	}
	return result
}

func (h *baseHandler) has(target baseTarget, key any) bool {
	result := target.has(key)
	Track(target, TrackHas, key)
	return result
}

func (h *baseHandler) ownKeys(target baseTarget) []any {
	Track(target, TrackIterate, IterateKey)
	if _, isArray := target.(*Array); isArray {
		// Truncation only notifies length subscribers.
		Track(target, TrackGet, lengthKey)
	}
	return target.ownKeys()
}
