package reactivity

// trackingState holds the process-wide reactive context.
//
// The engine is single-threaded and synchronous: the active effect stack,
// the tracking flag and the dependency graph are shared mutable state with
// no locking. Callers that touch reactive values from several goroutines
// must serialise that access onto one executor (see scheduler.Loop).
type trackingState struct {
	// activeEffect is the effect currently recording dependencies.
	// nil means reads create no edges.
	activeEffect *Effect

	// effectStack holds every effect currently executing, innermost last.
	// It backs the recursion guard and restores the parent on return.
	effectStack []*Effect

	// shouldTrack is the global tracking-enabled flag.
	shouldTrack bool

	// trackStack saves shouldTrack across Pause/Enable/Reset pairs.
	trackStack []bool
}

var state = newTrackingState()

func newTrackingState() *trackingState {
	return &trackingState{shouldTrack: true}
}

// resetState restores the initial process-wide state: no active effect,
// tracking enabled, an empty graph and an empty proxy registry.
func resetState() {
	state = newTrackingState()
	graph = newDepGraph()
	proxies = newProxyRegistry()
}

// onStack reports whether e is currently executing.
func (s *trackingState) onStack(e *Effect) bool {
	for _, running := range s.effectStack {
		if running == e {
			return true
		}
	}
	return false
}

func (s *trackingState) push(e *Effect) {
	s.effectStack = append(s.effectStack, e)
	s.activeEffect = e
}

func (s *trackingState) pop() {
	s.effectStack = s.effectStack[:len(s.effectStack)-1]
	if n := len(s.effectStack); n > 0 {
		s.activeEffect = s.effectStack[n-1]
	} else {
		s.activeEffect = nil
	}
}

// PauseTracking suspends dependency recording until the matching
// ResetTracking. Reads performed in between create no edges.
func PauseTracking() {
	state.trackStack = append(state.trackStack, state.shouldTrack)
	state.shouldTrack = false
}

// EnableTracking forces dependency recording on until the matching
// ResetTracking, regardless of an outer PauseTracking.
func EnableTracking() {
	state.trackStack = append(state.trackStack, state.shouldTrack)
	state.shouldTrack = true
}

// ResetTracking restores the tracking flag saved by the most recent
// PauseTracking or EnableTracking. With nothing saved, tracking is enabled.
func ResetTracking() {
	n := len(state.trackStack)
	if n == 0 {
		state.shouldTrack = true
		return
	}
	state.shouldTrack = state.trackStack[n-1]
	state.trackStack = state.trackStack[:n-1]
}

// Untracked runs fn with dependency recording paused.
//
// Example:
//
//	reactivity.Untracked(func() {
//	    // Reading here won't subscribe the running effect
//	    fmt.Println("Current count:", counter.Get("count"))
//	})
func Untracked(fn func()) {
	PauseTracking()
	defer ResetTracking()
	fn()
}

// IsTracking reports whether a read performed now would record an edge.
func IsTracking() bool {
	return state.shouldTrack && state.activeEffect != nil
}

// ActiveEffect returns the effect currently recording dependencies, or nil.
func ActiveEffect() *Effect {
	return state.activeEffect
}
