package reactivity

// TrackOp identifies the kind of read that created a dependency edge.
type TrackOp string

const (
	TrackGet     TrackOp = "get"
	TrackHas     TrackOp = "has"
	TrackIterate TrackOp = "iterate"
)

// TriggerOp identifies the kind of write that notified subscribers.
type TriggerOp string

const (
	TriggerSet    TriggerOp = "set"
	TriggerAdd    TriggerOp = "add"
	TriggerDelete TriggerOp = "delete"
	TriggerClear  TriggerOp = "clear"
)

// sentinelKey is a reserved graph key that can never collide with a user key.
type sentinelKey struct {
	name string
}

func (k *sentinelKey) String() string {
	return k.name
}

var (
	// IterateKey is the graph key representing the shape of a target:
	// enumeration, size and value iteration depend on it.
	IterateKey any = &sentinelKey{name: "iterate"}

	// MapKeyIterateKey is the graph key for key-only iteration of a Map.
	// It is tracked apart from IterateKey so that replacing a value under an
	// existing key does not re-run key iteration subscribers.
	MapKeyIterateKey any = &sentinelKey{name: "map key iterate"}
)

// lengthKey is the graph key for an array's length.
const lengthKey = "length"

// valueKey is the graph key used by refs and computed values.
const valueKey = "value"

// DebuggerEvent describes a single track or trigger for debug hooks.
type DebuggerEvent struct {
	Effect *Effect
	Target any

	// Type is a TrackOp for OnTrack events and a TriggerOp for OnTrigger events.
	Type any

	Key      any
	NewValue any
	OldValue any
}
