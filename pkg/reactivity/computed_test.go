package reactivity

import (
	"testing"
)

func TestComputedIsLazy(t *testing.T) {
	setup(t)

	count := NewRef(1)
	calls := 0
	doubled := NewComputed(func() int {
		calls++
		return count.Get() * 2
	})

	if calls != 0 {
		t.Errorf("getter should not run before the first read, ran %d times", calls)
	}

	if doubled.Get() != 2 {
		t.Errorf("expected 2, got %d", doubled.Get())
	}
	doubled.Get()
	if calls != 1 {
		t.Errorf("expected cached value, getter ran %d times", calls)
	}
}

func TestComputedRecomputesOnNextRead(t *testing.T) {
	setup(t)

	count := NewRef(1)
	calls := 0
	doubled := NewComputed(func() int {
		calls++
		return count.Get() * 2
	})
	doubled.Get()

	count.Set(2)
	if calls != 1 {
		t.Errorf("dependency change should not recompute eagerly, ran %d times", calls)
	}
	if !doubled.Dirty() {
		t.Error("computed should be dirty after a dependency change")
	}

	if doubled.Get() != 4 {
		t.Errorf("expected 4, got %d", doubled.Get())
	}
	if calls != 2 {
		t.Errorf("expected 2 getter runs, got %d", calls)
	}
}

func TestComputedNotifiesReaders(t *testing.T) {
	setup(t)

	count := NewRef(1)
	doubled := NewComputed(func() int { return count.Get() * 2 })

	seen := 0
	CreateEffect(func() {
		seen = doubled.Get()
	})

	count.Set(5)
	if seen != 10 {
		t.Errorf("expected 10, got %d", seen)
	}
}

func TestChainedComputed(t *testing.T) {
	setup(t)

	source := NewRef(1)
	c1 := NewComputed(func() int { return source.Get() * 2 })
	c2 := NewComputed(func() int { return c1.Get() + 1 })

	seen, runs := 0, 0
	CreateEffect(func() {
		runs++
		seen = c2.Get()
	})
	if seen != 3 {
		t.Fatalf("expected 3, got %d", seen)
	}

	source.Set(2)
	if seen != 5 {
		t.Errorf("expected 5, got %d", seen)
	}
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestComputedDirtyOnlyNotifiesOnce(t *testing.T) {
	setup(t)

	a := NewRef(1)
	c := NewComputed(func() int { return a.Get() })
	c.Get()

	var queued int
	CreateEffect(func() { c.Get() }, WithScheduler(func(*Effect) { queued++ }))

	a.Set(2)
	a.Set(3)
	if queued != 1 {
		t.Errorf("a dirty computed should not notify again until read, got %d", queued)
	}
}

func TestWritableComputed(t *testing.T) {
	setup(t)

	first := NewRef("Ada")
	last := NewRef("Lovelace")
	full := NewWritableComputed(
		func() string { return first.Get() + " " + last.Get() },
		func(v string) {
			var f, l string
			for i := 0; i < len(v); i++ {
				if v[i] == ' ' {
					f, l = v[:i], v[i+1:]
					break
				}
			}
			first.Set(f)
			last.Set(l)
		},
	)

	full.Set("Grace Hopper")
	if first.Get() != "Grace" || last.Get() != "Hopper" {
		t.Errorf("setter should update sources, got %q %q", first.Get(), last.Get())
	}
	if full.Get() != "Grace Hopper" {
		t.Errorf("expected Grace Hopper, got %q", full.Get())
	}
	if IsReadonly(full) {
		t.Error("writable computed should not be readonly")
	}
}

func TestReadonlyComputed(t *testing.T) {
	setup(t)

	c := NewComputed(func() int { return 1 })
	c.Set(5)

	if c.Get() != 1 {
		t.Errorf("readonly computed Set should be a no-op, got %d", c.Get())
	}
	if !IsReadonly(c) {
		t.Error("computed without a setter should be readonly")
	}
	if !IsRef(c) {
		t.Error("computed should be a ref")
	}
}

func TestComputedInReactiveObject(t *testing.T) {
	setup(t)

	count := NewRef(2)
	state := Reactive(NewObject("doubled", NewComputed(func() int { return count.Get() * 2 })))

	if state.Get("doubled") != 4 {
		t.Errorf("expected unwrapped 4, got %v", state.Get("doubled"))
	}
	count.Set(3)
	if state.Get("doubled") != 6 {
		t.Errorf("expected 6, got %v", state.Get("doubled"))
	}
}

func TestComputedStop(t *testing.T) {
	setup(t)

	count := NewRef(1)
	c := NewComputed(func() int { return count.Get() })
	c.Get()

	c.Stop()
	count.Set(2)
	if c.Get() != 1 {
		t.Errorf("stopped computed should keep its cached value, got %d", c.Get())
	}
	if c.Effect().Active() {
		t.Error("computed effect should be inactive after Stop")
	}
}

func TestComputedPanicKeepsDirty(t *testing.T) {
	setup(t)

	fail := NewRef(true)
	c := NewComputed(func() int {
		if fail.Get() {
			panic("getter failed")
		}
		return 1
	})

	func() {
		defer func() { recover() }()
		c.Get()
	}()
	if !c.Dirty() {
		t.Error("computed should stay dirty when the getter panics")
	}

	fail.Set(false)
	if c.Get() != 1 {
		t.Errorf("expected 1 after recovery, got %d", c.Get())
	}
}
