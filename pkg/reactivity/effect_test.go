package reactivity

import (
	"testing"
)

// setup resets the process-wide engine state for one test.
func setup(t *testing.T) {
	t.Helper()
	resetState()
	prevDev := DevMode
	t.Cleanup(func() {
		DevMode = prevDev
		resetState()
	})
}

func TestEffectRunsOnCreate(t *testing.T) {
	setup(t)

	ran := false
	CreateEffect(func() {
		ran = true
	})

	if !ran {
		t.Error("effect should run immediately on creation")
	}
}

func TestEffectLazy(t *testing.T) {
	setup(t)

	runs := 0
	e := CreateEffect(func() { runs++ }, Lazy())

	if runs != 0 {
		t.Errorf("lazy effect should not run on creation, ran %d times", runs)
	}
	e.Run()
	if runs != 1 {
		t.Errorf("expected 1 run after Run, got %d", runs)
	}
}

func TestEffectTracksDependencies(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("a", 1))
	seen := 0
	runs := 0
	CreateEffect(func() {
		runs++
		seen = o.Get("a").(int)
	})

	o.Set("a", 2)
	if seen != 2 {
		t.Errorf("expected seen to be 2 synchronously, got %d", seen)
	}
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}

	o.Set("a", 2)
	if runs != 2 {
		t.Errorf("writing an equal value should not re-run, got %d runs", runs)
	}
}

func TestEffectScheduler(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("a", 1))
	seen := 0
	var queued []*Effect
	CreateEffect(func() {
		seen = o.Get("a").(int)
	}, WithScheduler(func(e *Effect) {
		queued = append(queued, e)
	}))

	o.Set("a", 3)
	if seen != 1 {
		t.Errorf("scheduled effect should not run before the job is invoked, seen %d", seen)
	}
	if len(queued) != 1 {
		t.Fatalf("expected 1 queued job, got %d", len(queued))
	}

	queued[0].Run()
	if seen != 3 {
		t.Errorf("expected seen to be 3 after running the job, got %d", seen)
	}
}

func TestEffectStop(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("a", 1))
	runs := 0
	e := CreateEffect(func() {
		runs++
		o.Get("a")
	})

	e.Stop()
	o.Set("a", 2)

	if runs != 1 {
		t.Errorf("stopped effect should not re-run, got %d runs", runs)
	}
	if e.Active() {
		t.Error("effect should be inactive after Stop")
	}
	if e.DepCount() != 0 {
		t.Errorf("expected no dependencies after Stop, got %d", e.DepCount())
	}
	if n := subscriberCount(ToRaw(o), "a"); n != 0 {
		t.Errorf("expected no subscribers after Stop, got %d", n)
	}

	// Stopping twice and stopping nil are safe.
	e.Stop()
	Stop(e)
	Stop(nil)
}

func TestEffectOnStop(t *testing.T) {
	setup(t)

	stops := 0
	e := CreateEffect(func() {}, OnStop(func() { stops++ }))

	e.Stop()
	e.Stop()

	if stops != 1 {
		t.Errorf("expected OnStop once, got %d", stops)
	}
}

func TestStoppedEffectRun(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("a", 1))

	runs := 0
	plain := CreateEffect(func() {
		runs++
		o.Get("a")
	})
	plain.Stop()

	// Without a scheduler a stopped effect still runs, untracked.
	plain.Run()
	if runs != 2 {
		t.Errorf("expected pass-through run, got %d runs", runs)
	}
	o.Set("a", 2)
	if runs != 2 {
		t.Errorf("pass-through run should not track, got %d runs", runs)
	}

	scheduledRuns := 0
	scheduled := CreateEffect(func() {
		scheduledRuns++
	}, WithScheduler(func(*Effect) {}))
	scheduled.Stop()

	scheduled.Run()
	if scheduledRuns != 1 {
		t.Errorf("stopped effect with a scheduler should not run, got %d runs", scheduledRuns)
	}
}

func TestEffectSelfTriggerExcluded(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("n", 0))
	runs := 0
	CreateEffect(func() {
		runs++
		o.Set("n", o.Get("n").(int)+1)
	})

	if runs != 1 {
		t.Errorf("effect writing its own dependency should run once, got %d", runs)
	}
	if got := o.Get("n"); got != 1 {
		t.Errorf("expected n = 1, got %v", got)
	}

	o.Set("n", 10)
	if runs != 2 {
		t.Errorf("expected 2 runs after external write, got %d", runs)
	}
	if got := o.Get("n"); got != 11 {
		t.Errorf("expected n = 11, got %v", got)
	}
}

func TestEffectRecursionGuard(t *testing.T) {
	setup(t)

	runs := 0
	var e *Effect
	e = CreateEffect(func() {
		runs++
		if e != nil {
			if res := e.Run(); res != nil {
				t.Errorf("re-entrant Run should return nil, got %v", res)
			}
		}
	})

	e.Run()
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestNestedEffects(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("b", 0, "c", 0))
	outerRuns, innerRuns := 0, 0
	var inner *Effect

	CreateEffect(func() {
		outerRuns++
		if inner == nil {
			inner = CreateEffect(func() {
				innerRuns++
				o.Get("b")
			})
		}
		// The outer effect is active again after the inner one returns.
		o.Get("c")
	})

	o.Set("b", 1)
	if innerRuns != 2 || outerRuns != 1 {
		t.Errorf("expected inner 2 / outer 1, got inner %d / outer %d", innerRuns, outerRuns)
	}

	o.Set("c", 1)
	if outerRuns != 2 {
		t.Errorf("expected outer to re-run, got %d runs", outerRuns)
	}
	if ActiveEffect() != nil {
		t.Error("no effect should be active after the outer effect returns")
	}
}

func TestEffectDynamicDependencies(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("flag", true, "a", 1, "b", 2))
	runs := 0
	CreateEffect(func() {
		runs++
		if o.Get("flag").(bool) {
			o.Get("a")
		} else {
			o.Get("b")
		}
	})

	o.Set("flag", false)
	if runs != 2 {
		t.Fatalf("expected 2 runs, got %d", runs)
	}

	o.Set("a", 10)
	if runs != 2 {
		t.Errorf("dropped dependency should not re-run the effect, got %d runs", runs)
	}

	o.Set("b", 20)
	if runs != 3 {
		t.Errorf("expected new dependency to re-run the effect, got %d runs", runs)
	}
}

func TestEffectPanicRestoresState(t *testing.T) {
	setup(t)

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("expected panic to propagate unchanged, got %v", r)
			}
		}()
		CreateEffect(func() {
			panic("boom")
		})
	}()

	if ActiveEffect() != nil {
		t.Error("active effect should be restored after a panic")
	}
	if len(state.effectStack) != 0 {
		t.Errorf("effect stack should be empty, got %d", len(state.effectStack))
	}
	if !state.shouldTrack {
		t.Error("tracking flag should be restored after a panic")
	}
	if len(state.trackStack) != 0 {
		t.Errorf("track stack should be empty, got %d", len(state.trackStack))
	}
}

func TestPauseTracking(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("a", 1, "b", 1))
	runs := 0
	CreateEffect(func() {
		runs++
		PauseTracking()
		o.Get("a")
		EnableTracking()
		o.Get("b")
		ResetTracking()
		ResetTracking()
	})

	o.Set("a", 2)
	if runs != 1 {
		t.Errorf("read while paused should not track, got %d runs", runs)
	}
	o.Set("b", 2)
	if runs != 2 {
		t.Errorf("read after EnableTracking should track, got %d runs", runs)
	}
}

func TestUntracked(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("a", 1))
	runs := 0
	CreateEffect(func() {
		runs++
		Untracked(func() {
			if IsTracking() {
				t.Error("IsTracking should be false inside Untracked")
			}
			o.Get("a")
		})
	})

	o.Set("a", 2)
	if runs != 1 {
		t.Errorf("untracked read should not subscribe, got %d runs", runs)
	}
}

func TestResetTrackingEmptyStack(t *testing.T) {
	setup(t)

	state.shouldTrack = false
	ResetTracking()
	if !state.shouldTrack {
		t.Error("ResetTracking with nothing saved should enable tracking")
	}
}

func TestDebugHooks(t *testing.T) {
	setup(t)

	o := Reactive(NewObject("a", 1))
	var tracks, triggers []DebuggerEvent
	hooks := []EffectOption{
		OnTrack(func(ev DebuggerEvent) { tracks = append(tracks, ev) }),
		OnTrigger(func(ev DebuggerEvent) { triggers = append(triggers, ev) }),
	}

	DevMode = false
	quiet := CreateEffect(func() { o.Get("a") }, hooks...)
	o.Set("a", 2)
	if len(tracks) != 0 || len(triggers) != 0 {
		t.Fatalf("debug hooks should not fire outside DevMode, got %d/%d", len(tracks), len(triggers))
	}
	quiet.Stop()

	DevMode = true
	e := CreateEffect(func() { o.Get("a") }, hooks...)
	if len(tracks) != 1 {
		t.Fatalf("expected 1 track event, got %d", len(tracks))
	}
	ev := tracks[0]
	if ev.Effect != e || ev.Type != TrackGet || ev.Key != "a" || ev.Target != any(ToRaw(o)) {
		t.Errorf("unexpected track event: %+v", ev)
	}

	o.Set("a", 3)
	if len(triggers) != 1 {
		t.Fatalf("expected 1 trigger event, got %d", len(triggers))
	}
	ev = triggers[0]
	if ev.Type != TriggerSet || ev.NewValue != 3 || ev.OldValue != 2 {
		t.Errorf("unexpected trigger event: %+v", ev)
	}
}

func TestIsEffect(t *testing.T) {
	setup(t)

	e := CreateEffect(func() {})
	if !IsEffect(e) {
		t.Error("IsEffect should be true for an effect")
	}
	if IsEffect(func() {}) {
		t.Error("IsEffect should be false for a func")
	}
	var nilEffect *Effect
	if IsEffect(nilEffect) {
		t.Error("IsEffect should be false for a nil effect")
	}
}

func TestEffectIDsAreUnique(t *testing.T) {
	setup(t)

	a := CreateEffect(func() {})
	b := CreateEffect(func() {})
	if a.ID() == b.ID() {
		t.Errorf("expected unique IDs, both are %d", a.ID())
	}
}

func TestTriggerUntrackedTarget(t *testing.T) {
	setup(t)

	// Never tracked: must be a silent no-op.
	Trigger(NewObject(), TriggerSet, "a", 1, 0)
	Trigger(NewMap(), TriggerClear, nil, nil, nil)
}

func TestRelease(t *testing.T) {
	setup(t)

	raw := NewObject("a", 1)
	p := Reactive(raw)
	runs := 0
	e := CreateEffect(func() {
		runs++
		p.Get("a")
	})

	Release(raw)
	if e.DepCount() != 0 {
		t.Errorf("expected Release to drop the effect's edges, got %d", e.DepCount())
	}
	p.Set("a", 2)
	if runs != 1 {
		t.Errorf("released target should not notify, got %d runs", runs)
	}
	if Reactive(raw) == p {
		t.Error("Release should drop the cached proxy")
	}
}
