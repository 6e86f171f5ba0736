package devtools

import (
	"fmt"
	"math"
	"time"

	"github.com/vango-dev/reactivity/pkg/reactivity"
)

// EventKind distinguishes the hooks an Event was recorded from.
type EventKind string

const (
	KindTrack   EventKind = "track"
	KindTrigger EventKind = "trigger"
	KindStop    EventKind = "stop"
)

// Event is the serializable form of a reactivity.DebuggerEvent.
//
// Targets are rendered as "<type>@<address>" of the raw value, so the same
// target reads the same through every proxy. Keys and values are rendered
// with fmt unless they are JSON-safe scalars. Seq is assigned by the
// Recorder, starting at 1.
type Event struct {
	Seq      uint64    `json:"seq,omitempty"`
	Kind     EventKind `json:"kind"`
	Effect   string    `json:"effect"`
	EffectID uint64    `json:"effectId"`
	Target   string    `json:"target,omitempty"`
	Op       string    `json:"op,omitempty"`
	Key      string    `json:"key,omitempty"`
	NewValue any       `json:"newValue,omitempty"`
	OldValue any       `json:"oldValue,omitempty"`
	Time     time.Time `json:"time"`
}

// newEvent converts a debugger event recorded for the effect called name.
func newEvent(kind EventKind, name string, ev reactivity.DebuggerEvent, at time.Time) Event {
	e := Event{
		Kind:     kind,
		Effect:   name,
		Target:   describeTarget(ev.Target),
		Key:      describeKey(ev.Key),
		NewValue: describeValue(ev.NewValue),
		OldValue: describeValue(ev.OldValue),
		Time:     at,
	}
	if ev.Effect != nil {
		e.EffectID = ev.Effect.ID()
	}
	switch op := ev.Type.(type) {
	case reactivity.TrackOp:
		e.Op = string(op)
	case reactivity.TriggerOp:
		e.Op = string(op)
	}
	return e
}

func describeTarget(t any) string {
	if t == nil {
		return ""
	}
	raw := reactivity.ToRaw(t)
	switch raw.(type) {
	case reactivity.Target:
		return fmt.Sprintf("%T@%p", raw, raw)
	}
	if reactivity.IsRef(raw) {
		return fmt.Sprintf("%T@%p", raw, raw)
	}
	return fmt.Sprintf("%T", raw)
}

func describeKey(k any) string {
	switch k := k.(type) {
	case nil:
		return ""
	case string:
		return k
	case reactivity.Target:
		return describeTarget(k)
	}
	return fmt.Sprint(k)
}

// describeValue keeps JSON scalars and renders everything else as text.
func describeValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Sprint(v)
		}
		return v
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Sprint(v)
		}
		return v
	case reactivity.Target:
		return describeTarget(v)
	}
	return fmt.Sprint(v)
}
