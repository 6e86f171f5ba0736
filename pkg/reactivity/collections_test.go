package reactivity

import (
	"math"
	"testing"
)

func TestMapSetSameValue(t *testing.T) {
	setup(t)

	m := Reactive(NewMap())
	runs := 0
	CreateEffect(func() {
		runs++
		m.Get("k")
	})

	m.Set("k", 1)
	if runs != 2 {
		t.Errorf("adding the key should notify, got %d runs", runs)
	}
	m.Set("k", 1)
	if runs != 2 {
		t.Errorf("setting an equal value should not notify, got %d runs", runs)
	}
	m.Set("k", 2)
	if runs != 3 {
		t.Errorf("changing the value should notify, got %d runs", runs)
	}
}

func TestMapKeyIterationIgnoresValueChange(t *testing.T) {
	setup(t)

	m := Reactive(NewMap())
	keyRuns, valueRuns := 0, 0
	CreateEffect(func() {
		keyRuns++
		for range m.Keys() {
		}
	})
	CreateEffect(func() {
		valueRuns++
		for range m.Values() {
		}
	})

	m.Set("a", 1)
	if keyRuns != 2 || valueRuns != 2 {
		t.Fatalf("add should re-run both, got keys %d / values %d", keyRuns, valueRuns)
	}

	m.Set("a", 2)
	if keyRuns != 2 {
		t.Errorf("value replacement should not re-run key iteration, got %d runs", keyRuns)
	}
	if valueRuns != 3 {
		t.Errorf("value replacement should re-run value iteration, got %d runs", valueRuns)
	}

	m.Delete("a")
	if keyRuns != 3 || valueRuns != 4 {
		t.Errorf("delete should re-run both, got keys %d / values %d", keyRuns, valueRuns)
	}
}

func TestMapSizeAndClear(t *testing.T) {
	setup(t)

	m := Reactive(NewMap("a", 1))
	size := 0
	runs := 0
	CreateEffect(func() {
		runs++
		size = m.Size()
	})

	m.Set("b", 2)
	if size != 2 {
		t.Errorf("expected size 2, got %d", size)
	}

	m.Clear()
	if size != 0 {
		t.Errorf("expected size 0 after Clear, got %d", size)
	}
	runsAfterClear := runs

	m.Clear()
	if runs != runsAfterClear {
		t.Error("clearing an empty map should not notify")
	}
}

func TestMapClearNotifiesKeyReaders(t *testing.T) {
	setup(t)

	m := Reactive(NewMap("a", 1))
	var seen any = -1
	CreateEffect(func() {
		seen = m.Get("a")
	})

	m.Clear()
	if seen != nil {
		t.Errorf("expected nil after Clear, got %v", seen)
	}
}

func TestMapRawKeyRetry(t *testing.T) {
	setup(t)

	key := NewObject()
	m := Reactive(NewMap())

	m.Set(Reactive(key), "v")
	if got := ToRaw(m).Get(key); got != "v" {
		t.Errorf("new proxied keys should be stored raw, got %v", got)
	}
	if got := m.Get(key); got != "v" {
		t.Errorf("lookup by raw key: got %v", got)
	}
	if got := m.Get(Reactive(key)); got != "v" {
		t.Errorf("lookup by proxied key should retry with the raw key, got %v", got)
	}
	if !m.Has(Reactive(key)) {
		t.Error("Has should retry with the raw key")
	}

	runs := 0
	CreateEffect(func() {
		runs++
		m.Get(Reactive(key))
	})
	m.Set(key, "w")
	if runs != 2 {
		t.Errorf("proxied-key reader should track the raw key, got %d runs", runs)
	}

	if !m.Delete(Reactive(key)) {
		t.Error("Delete should retry with the raw key")
	}
	if m.Size() != 0 {
		t.Errorf("expected empty map, got size %d", m.Size())
	}
}

func TestMapWrapsValues(t *testing.T) {
	setup(t)

	m := Reactive(NewMap("o", NewObject("x", 1)))

	if !IsReactive(m.Get("o")) {
		t.Error("Get should return reactive values")
	}
	m.ForEach(func(value, key any) {
		if !IsReactive(value) {
			t.Errorf("ForEach value for %v should be reactive", key)
		}
	})
	for k, v := range m.Entries() {
		if !IsReactive(v) {
			t.Errorf("Entries value for %v should be reactive", k)
		}
	}

	s := ShallowReactive(NewMap("o", NewObject()))
	if IsReactive(s.Get("o")) {
		t.Error("shallow map should return values as stored")
	}

	ro := Readonly(NewMap("o", NewObject()))
	if !IsReadonly(ro.Get("o")) {
		t.Error("readonly map should return readonly values")
	}
}

func TestMapStoresRawValues(t *testing.T) {
	setup(t)

	obj := NewObject()
	m := Reactive(NewMap())
	m.Set("o", Reactive(obj))
	if ToRaw(m).Get("o") != obj {
		t.Error("Set should store the raw value")
	}
}

func TestReadonlyMap(t *testing.T) {
	setup(t)

	raw := NewMap("a", 1)
	ro := Readonly(raw)

	if ro.Set("a", 2) != ro {
		t.Error("readonly Set should return the receiver")
	}
	if ro.Delete("a") {
		t.Error("readonly Delete should report failure")
	}
	ro.Clear()

	if raw.Get("a") != 1 || raw.Size() != 1 {
		t.Error("readonly mutators should not modify the target")
	}
}

func TestReadonlyOfReactiveMapTracksIteration(t *testing.T) {
	setup(t)

	p := Reactive(NewMap())
	ro := Readonly(p)
	runs := 0
	CreateEffect(func() {
		runs++
		ro.ForEach(func(any, any) {})
	})

	p.Set("a", 1)
	if runs != 2 {
		t.Errorf("iteration through readonly(reactive) should track, got %d runs", runs)
	}
}

func TestSetAddDelete(t *testing.T) {
	setup(t)

	s := Reactive(NewSet())
	has := false
	hasRuns, sizeRuns := 0, 0
	CreateEffect(func() {
		hasRuns++
		has = s.Has(1)
	})
	CreateEffect(func() {
		sizeRuns++
		s.Size()
	})

	s.Add(1)
	if !has || hasRuns != 2 || sizeRuns != 2 {
		t.Fatalf("add should notify: has=%v hasRuns=%d sizeRuns=%d", has, hasRuns, sizeRuns)
	}

	s.Add(1)
	if hasRuns != 2 || sizeRuns != 2 {
		t.Errorf("adding a present value should not notify, got %d/%d", hasRuns, sizeRuns)
	}

	s.Delete(1)
	if has || sizeRuns != 3 {
		t.Errorf("delete should notify: has=%v sizeRuns=%d", has, sizeRuns)
	}
}

func TestSetStoresRawValues(t *testing.T) {
	setup(t)

	obj := NewObject()
	s := Reactive(NewSet())
	s.Add(Reactive(obj))

	if !ToRaw(s).Has(obj) {
		t.Error("Add should store the raw value")
	}
	if !s.Has(Reactive(obj)) {
		t.Error("Has should find a proxied value")
	}

	for v := range s.Values() {
		if !IsReactive(v) {
			t.Error("Values should yield reactive values")
		}
	}
}

func TestSetNaN(t *testing.T) {
	setup(t)

	s := NewSet(math.NaN())
	s.Add(math.NaN())
	if s.Size() != 1 {
		t.Errorf("NaN should be stored once, got size %d", s.Size())
	}
	if !s.Has(math.NaN()) {
		t.Error("Has should find NaN")
	}
	if !s.Delete(math.NaN()) || s.Size() != 0 {
		t.Error("Delete should remove NaN")
	}
}

func TestCollectionIterationOrder(t *testing.T) {
	setup(t)

	m := Reactive(NewMap("c", 3, "a", 1, "b", 2))
	m.Delete("a")
	m.Set("a", 4)

	var keys []any
	for k := range m.Keys() {
		keys = append(keys, k)
	}
	want := []any{"c", "b", "a"}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %v, got %v", i, want[i], keys[i])
		}
	}
}

func TestWeakMap(t *testing.T) {
	setup(t)

	key := NewObject()
	wm := Reactive(NewWeakMap())
	var seen any
	CreateEffect(func() {
		seen = wm.Get(key)
	})

	wm.Set(key, 1)
	if seen != 1 {
		t.Errorf("expected 1, got %v", seen)
	}

	wm.Set("not a target", 1)
	if wm.Has("not a target") {
		t.Error("non-target keys should be ignored")
	}

	wm.Delete(Reactive(key))
	if seen != nil {
		t.Errorf("expected nil after delete, got %v", seen)
	}
}

func TestWeakSet(t *testing.T) {
	setup(t)

	v := NewObject()
	ws := Reactive(NewWeakSet())
	has := false
	CreateEffect(func() {
		has = ws.Has(v)
	})

	ws.Add(Reactive(v))
	if !has {
		t.Error("Has reader should re-run on add")
	}
	if !ToRaw(ws).Has(v) {
		t.Error("Add should store the raw value")
	}

	ws.Add(3)
	if ws.Has(3) {
		t.Error("non-target values should be ignored")
	}

	ro := Readonly(ws)
	if ro.Delete(v) {
		t.Error("readonly Delete should report failure")
	}
	if !ws.Has(v) {
		t.Error("readonly Delete should not modify the target")
	}
}
