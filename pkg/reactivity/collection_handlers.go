package reactivity

import (
	"fmt"
	"iter"
)

// collectionHandler replaces the methods of a collection proxy. Every
// method receives the proxy itself and works on the raw collection behind
// it.
type collectionHandler struct {
	variant
}

var (
	mutableCollectionHandler         = &collectionHandler{reactiveVariant}
	shallowReactiveCollectionHandler = &collectionHandler{shallowReactiveVariant}
	readonlyCollectionHandler        = &collectionHandler{readonlyVariant}
	shallowReadonlyCollectionHandler = &collectionHandler{shallowReadonlyVariant}
)

func collectionHandlerFor(v variant) *collectionHandler {
	switch v {
	case shallowReactiveVariant:
		return shallowReactiveCollectionHandler
	case readonlyVariant:
		return readonlyCollectionHandler
	case shallowReadonlyVariant:
		return shallowReadonlyCollectionHandler
	}
	return mutableCollectionHandler
}

func (h *collectionHandler) flag(target Target, f reactiveFlag) any {
	if res, ok := proxyFlagResponse(h.variant, f); ok {
		return res
	}
	if f == flagRaw {
		return target
	}
	return nil
}

// wrap converts a stored key or value for the caller.
func (h *collectionHandler) wrap(v any) any {
	switch {
	case h.shallow:
		return v
	case h.readonly:
		return toReadonly(v)
	}
	return toReactive(v)
}

// tracksIteration reports whether iteration through self records an edge.
// A readonly view of a reactive collection still does.
func (h *collectionHandler) tracksIteration(self Target) bool {
	return !h.readonly || IsReactive(self)
}

func (h *collectionHandler) get(self Target, key any) any {
	raw := rawCollection(self)
	data := raw.storage()
	rawKey := toRawAny(key)
	if !identical(key, rawKey) {
		Track(raw, TrackGet, key)
	}
	Track(raw, TrackGet, rawKey)

	if v, ok := data.get(key); ok {
		return h.wrap(v)
	}
	if v, ok := data.get(rawKey); ok {
		return h.wrap(v)
	}
	return nil
}

func (h *collectionHandler) has(self Target, key any) bool {
	raw := rawCollection(self)
	data := raw.storage()
	rawKey := toRawAny(key)
	if !identical(key, rawKey) {
		Track(raw, TrackHas, key)
	}
	Track(raw, TrackHas, rawKey)
	return data.has(key) || data.has(rawKey)
}

func (h *collectionHandler) size(self Target) int {
	raw := rawCollection(self)
	Track(raw, TrackIterate, IterateKey)
	return raw.storage().size()
}

func (h *collectionHandler) add(self Target, value any) {
	if h.readonly {
		warn("R004", "op", "add", "target", fmt.Sprint(self))
		return
	}
	raw := rawCollection(self)
	data := raw.storage()
	value = toRawAny(value)
	hadKey := data.has(value)
	data.set(value, value)
	if !hadKey {
		Trigger(raw, TriggerAdd, value, value, nil)
	}
}

func (h *collectionHandler) set(self Target, key, value any) {
	if h.readonly {
		warn("R004", "op", "set", "target", fmt.Sprint(self))
		return
	}
	raw := rawCollection(self)
	data := raw.storage()
	value = toRawAny(value)
	hadKey := data.has(key)
	if !hadKey {
		key = toRawAny(key)
		hadKey = data.has(key)
	}
	oldValue, _ := data.get(key)
	data.set(key, value)
	if !hadKey {
		Trigger(raw, TriggerAdd, key, value, nil)
	} else if hasChanged(value, oldValue) {
		Trigger(raw, TriggerSet, key, value, oldValue)
	}
}

func (h *collectionHandler) delete(self Target, key any) bool {
	if h.readonly {
		warn("R004", "op", "delete", "target", fmt.Sprint(self))
		return false
	}
	raw := rawCollection(self)
	data := raw.storage()
	hadKey := data.has(key)
	if !hadKey {
		key = toRawAny(key)
		hadKey = data.has(key)
	}
	oldValue, _ := data.get(key)
	result := data.delete(key)
	if hadKey {
		Trigger(raw, TriggerDelete, key, nil, oldValue)
	}
	return result
}

func (h *collectionHandler) clear(self Target) {
	if h.readonly {
		warn("R004", "op", "clear", "target", fmt.Sprint(self))
		return
	}
	raw := rawCollection(self)
	data := raw.storage()
	hadItems := data.size() != 0
	data.clear()
	if hadItems {
		Trigger(raw, TriggerClear, nil, nil, nil)
	}
}

func (h *collectionHandler) forEach(self Target, fn func(value, key any)) {
	raw := rawCollection(self)
	if h.tracksIteration(self) {
		Track(raw, TrackIterate, IterateKey)
	}
	raw.storage().each(func(k, v any) bool {
		fn(h.wrap(v), h.wrap(k))
		return true
	})
}

func (h *collectionHandler) keys(self Target) iter.Seq[any] {
	raw := rawCollection(self)
	if h.tracksIteration(self) {
		// Key-only iteration of a Map ignores value replacement.
		if _, isMap := raw.(*Map); isMap {
			Track(raw, TrackIterate, MapKeyIterateKey)
		} else {
			Track(raw, TrackIterate, IterateKey)
		}
	}
	data := raw.storage()
	return func(yield func(any) bool) {
		data.each(func(k, _ any) bool { return yield(h.wrap(k)) })
	}
}

func (h *collectionHandler) values(self Target) iter.Seq[any] {
	raw := rawCollection(self)
	if h.tracksIteration(self) {
		Track(raw, TrackIterate, IterateKey)
	}
	data := raw.storage()
	return func(yield func(any) bool) {
		data.each(func(_, v any) bool { return yield(h.wrap(v)) })
	}
}

func (h *collectionHandler) entries(self Target) iter.Seq2[any, any] {
	raw := rawCollection(self)
	if h.tracksIteration(self) {
		Track(raw, TrackIterate, IterateKey)
	}
	data := raw.storage()
	return func(yield func(any, any) bool) {
		data.each(func(k, v any) bool { return yield(h.wrap(k), h.wrap(v)) })
	}
}
