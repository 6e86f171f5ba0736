package reactivity

// dep is the ordered set of effects subscribed to one (target, key) pair.
// Subscribers form a doubly linked list in insertion order, which is the
// enumeration order used when triggering. Unsubscribing unlinks one node.
type dep struct {
	subs map[uint64]*subLink
	head *subLink
	tail *subLink
}

// subLink is one subscriber node of a dep.
type subLink struct {
	effect  *Effect
	prevSub *subLink
	nextSub *subLink
}

func newDep() *dep {
	return &dep{subs: make(map[uint64]*subLink)}
}

func (d *dep) has(e *Effect) bool {
	_, ok := d.subs[e.id]
	return ok
}

func (d *dep) add(e *Effect) {
	l := &subLink{effect: e, prevSub: d.tail}
	if d.tail != nil {
		d.tail.nextSub = l
	} else {
		d.head = l
	}
	d.tail = l
	d.subs[e.id] = l
}

func (d *dep) remove(e *Effect) {
	l, ok := d.subs[e.id]
	if !ok {
		return
	}
	delete(d.subs, e.id)
	if l.prevSub != nil {
		l.prevSub.nextSub = l.nextSub
	} else {
		d.head = l.nextSub
	}
	if l.nextSub != nil {
		l.nextSub.prevSub = l.prevSub
	} else {
		d.tail = l.prevSub
	}
	l.prevSub, l.nextSub = nil, nil
}

// each visits subscribers in insertion order. fn must not modify d.
func (d *dep) each(fn func(e *Effect)) {
	for l := d.head; l != nil; l = l.nextSub {
		fn(l.effect)
	}
}

func (d *dep) len() int {
	return len(d.subs)
}

// depsMap maps the keys of one target to their subscriber sets.
type depsMap struct {
	keys []any
	deps map[any]*dep
}

func newDepsMap() *depsMap {
	return &depsMap{deps: make(map[any]*dep)}
}

func (m *depsMap) get(key any) *dep {
	return m.deps[key]
}

func (m *depsMap) getOrCreate(key any) *dep {
	d, ok := m.deps[key]
	if !ok {
		d = newDep()
		m.deps[key] = d
		m.keys = append(m.keys, key)
	}
	return d
}

// each visits every (key, dep) pair in key insertion order.
func (m *depsMap) each(fn func(key any, d *dep)) {
	for _, k := range m.keys {
		fn(k, m.deps[k])
	}
}

// depGraph is the identity-keyed registry target -> key -> subscribers.
// It is the sole source of truth for who depends on what.
type depGraph struct {
	targets map[any]*depsMap
}

func newDepGraph() *depGraph {
	return &depGraph{targets: make(map[any]*depsMap)}
}

var graph = newDepGraph()

// Track records that the active effect depends on (target, key).
// It is a no-op when tracking is paused or no effect is running.
//
// Track is exposed for custom reactive sources; reactive containers,
// refs and computed values call it internally.
func Track(target any, op TrackOp, key any) {
	if !state.shouldTrack || state.activeEffect == nil {
		return
	}
	effect := state.activeEffect

	m, ok := graph.targets[target]
	if !ok {
		m = newDepsMap()
		graph.targets[target] = m
	}
	d := m.getOrCreate(key)
	if d.has(effect) {
		return
	}
	d.add(effect)
	effect.deps = append(effect.deps, d)

	if DevMode && effect.options.onTrack != nil {
		effect.options.onTrack(DebuggerEvent{
			Effect: effect,
			Target: target,
			Type:   op,
			Key:    key,
		})
	}
}

// Trigger notifies every effect subscribed to (target, key), plus the
// iteration subscribers implied by op. Triggering a target that was never
// tracked is a no-op.
//
// Trigger is exposed for custom reactive sources; reactive containers,
// refs and computed values call it internally.
func Trigger(target any, op TriggerOp, key any, newValue, oldValue any) {
	m, ok := graph.targets[target]
	if !ok {
		return
	}

	var effects []*Effect
	seen := make(map[uint64]struct{})
	add := func(d *dep) {
		if d == nil {
			return
		}
		d.each(func(e *Effect) {
			if e == state.activeEffect {
				// The effect mutated its own dependency while running.
				return
			}
			if _, dup := seen[e.id]; dup {
				return
			}
			seen[e.id] = struct{}{}
			effects = append(effects, e)
		})
	}

	_, isArray := target.(*Array)
	_, isMap := target.(*Map)

	newLen, isLengthWrite := newValue.(int)
	isLengthWrite = isLengthWrite && isArray && key == lengthKey

	switch {
	case op == TriggerClear:
		m.each(func(_ any, d *dep) { add(d) })

	case isLengthWrite:
		m.each(func(k any, d *dep) {
			if k == lengthKey {
				add(d)
				return
			}
			if idx, ok := k.(int); ok && idx >= newLen {
				add(d)
			}
		})

	default:
		if key != nil {
			add(m.get(key))
		}
		isAddOrDelete := op == TriggerAdd || (op == TriggerDelete && !isArray)
		if isAddOrDelete || (op == TriggerSet && isMap) {
			add(m.get(IterateKey))
		}
		if op == TriggerAdd && isArray {
			add(m.get(lengthKey))
		}
		if isAddOrDelete && isMap {
			add(m.get(MapKeyIterateKey))
		}
	}

	for _, e := range effects {
		if DevMode && e.options.onTrigger != nil {
			e.options.onTrigger(DebuggerEvent{
				Effect:   e,
				Target:   target,
				Type:     op,
				Key:      key,
				NewValue: newValue,
				OldValue: oldValue,
			})
		}
		if e.options.scheduler != nil {
			e.options.scheduler(e)
		} else {
			e.Run()
		}
	}
}

// Release drops every graph edge and cached proxy recorded for target.
//
// Go has no weak maps, so entries otherwise live as long as the process.
// Release is the explicit substitute for collecting an unreachable target;
// effects still subscribed through target lose those edges.
func Release(target any) {
	if m, ok := graph.targets[target]; ok {
		m.each(func(_ any, d *dep) {
			d.each(func(e *Effect) { e.forgetDep(d) })
		})
		delete(graph.targets, target)
	}
	if t, ok := target.(Target); ok {
		proxies.forget(t)
	}
}

// subscriberCount returns the number of effects subscribed to (target, key).
func subscriberCount(target, key any) int {
	m, ok := graph.targets[target]
	if !ok {
		return 0
	}
	d := m.get(key)
	if d == nil {
		return 0
	}
	return d.len()
}
