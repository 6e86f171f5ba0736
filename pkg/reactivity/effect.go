package reactivity

// Effect is a re-runnable unit of work whose dependencies are rebuilt on
// every run. Reads performed synchronously while it runs become edges in the
// dependency graph; a later write to any of them re-runs the effect, or hands
// it to its scheduler when one is configured.
type Effect struct {
	id uint64

	// fn is the wrapped function.
	fn func() any

	// active is false once the effect has been stopped.
	active bool

	// deps are the subscriber sets this effect belongs to. Together with the
	// graph they form a bidirectional edge list, so cleanup is proportional
	// to the effect's own edge count.
	deps []*dep

	options effectOptions
}

type effectOptions struct {
	lazy      bool
	scheduler func(*Effect)
	onTrack   func(DebuggerEvent)
	onTrigger func(DebuggerEvent)
	onStop    func()
}

// EffectOption configures an Effect.
type EffectOption interface {
	applyEffect(o *effectOptions)
}

type effectOptionFunc func(*effectOptions)

func (f effectOptionFunc) applyEffect(o *effectOptions) { f(o) }

// Lazy defers the first run until Run is called explicitly.
func Lazy() EffectOption {
	return effectOptionFunc(func(o *effectOptions) {
		o.lazy = true
	})
}

// WithScheduler replaces the default synchronous re-run. When a dependency
// changes, fn receives the effect and decides whether and when to call Run.
//
//	queue := scheduler.NewQueue()
//	reactivity.CreateEffect(render, reactivity.WithScheduler(queue.Schedule))
func WithScheduler(fn func(*Effect)) EffectOption {
	return effectOptionFunc(func(o *effectOptions) {
		o.scheduler = fn
	})
}

// OnTrack registers a hook called whenever the effect gains a dependency.
// Only invoked in DevMode.
func OnTrack(fn func(DebuggerEvent)) EffectOption {
	return effectOptionFunc(func(o *effectOptions) {
		o.onTrack = fn
	})
}

// OnTrigger registers a hook called before the effect is re-run or
// rescheduled by a write. Only invoked in DevMode.
func OnTrigger(fn func(DebuggerEvent)) EffectOption {
	return effectOptionFunc(func(o *effectOptions) {
		o.onTrigger = fn
	})
}

// OnStop registers a hook called when the effect is stopped.
func OnStop(fn func()) EffectOption {
	return effectOptionFunc(func(o *effectOptions) {
		o.onStop = fn
	})
}

// CreateEffect wraps fn in an Effect and, unless Lazy is given, runs it once
// immediately.
//
// Example:
//
//	state := reactivity.Reactive(reactivity.NewObject("count", 0))
//	reactivity.CreateEffect(func() {
//	    fmt.Println("Count is:", state.Get("count"))
//	})
//	state.Set("count", 1) // prints "Count is: 1"
func CreateEffect(fn func(), opts ...EffectOption) *Effect {
	return newEffect(func() any {
		fn()
		return nil
	}, opts...)
}

func newEffect(fn func() any, opts ...EffectOption) *Effect {
	e := &Effect{
		id:     nextID(),
		fn:     fn,
		active: true,
	}
	for _, opt := range opts {
		opt.applyEffect(&e.options)
	}
	if !e.options.lazy {
		e.Run()
	}
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return e.active
}

// DepCount returns the number of (target, key) edges the effect holds.
func (e *Effect) DepCount() int {
	return len(e.deps)
}

// Run executes the wrapped function as the active effect and returns its
// result.
//
// A stopped effect runs its function untracked when it has no scheduler and
// does nothing when it has one. An effect that is already executing returns
// immediately without running.
func (e *Effect) Run() any {
	if !e.active {
		if e.options.scheduler != nil {
			return nil
		}
		return e.fn()
	}
	if state.onStack(e) {
		return nil
	}

	e.cleanup()
	EnableTracking()
	state.push(e)
	defer func() {
		state.pop()
		ResetTracking()
	}()

	return e.fn()
}

// Stop unsubscribes the effect from every dependency and deactivates it.
// Stopping an already stopped effect is a no-op.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.cleanup()
	if e.options.onStop != nil {
		e.options.onStop()
	}
	e.active = false
}

// cleanup removes the effect from every subscriber set it belongs to.
func (e *Effect) cleanup() {
	for _, d := range e.deps {
		d.remove(e)
	}
	e.deps = e.deps[:0]
}

// forgetDep drops d from the effect's edge list without touching d.
func (e *Effect) forgetDep(d *dep) {
	for i, held := range e.deps {
		if held == d {
			e.deps = append(e.deps[:i], e.deps[i+1:]...)
			return
		}
	}
}

// Stop stops e. It is equivalent to e.Stop and accepts nil.
func Stop(e *Effect) {
	if e == nil {
		return
	}
	e.Stop()
}

// IsEffect reports whether v is an *Effect.
func IsEffect(v any) bool {
	e, ok := v.(*Effect)
	return ok && e != nil
}
