package devtools

import (
	"sync"
	"time"

	"github.com/vango-dev/reactivity/pkg/reactivity"
)

// DefaultRecorderSize is the number of events a Recorder keeps by default.
const DefaultRecorderSize = 1024

// Sink receives every event a Recorder records.
type Sink interface {
	Record(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Record implements Sink.
func (f SinkFunc) Record(e Event) { f(e) }

// Recorder collects effect debug events into a fixed-size ring and fans
// them out to sinks.
//
// Debug hooks only fire while reactivity.DevMode is on, and only for effects
// created with the options returned by Options:
//
//	rec := devtools.NewRecorder(256)
//	reactivity.DevMode = true
//	reactivity.CreateEffect(render, rec.Options("render")...)
//
// A Recorder may be read from any goroutine.
type Recorder struct {
	mu    sync.RWMutex
	ring  []Event
	next  int
	count int
	total uint64
	sinks []Sink

	// now is replaced in tests.
	now func() time.Time
}

// NewRecorder creates a recorder holding the last size events. A size of
// zero or less uses DefaultRecorderSize.
func NewRecorder(size int, sinks ...Sink) *Recorder {
	if size <= 0 {
		size = DefaultRecorderSize
	}
	return &Recorder{
		ring:  make([]Event, size),
		sinks: sinks,
		now:   time.Now,
	}
}

// AddSink registers an additional sink.
func (r *Recorder) AddSink(s Sink) {
	if s == nil {
		return
	}
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

// Options returns effect options that route the effect's track, trigger and
// stop hooks into the recorder under name.
func (r *Recorder) Options(name string) []reactivity.EffectOption {
	var id uint64
	return []reactivity.EffectOption{
		reactivity.OnTrack(func(ev reactivity.DebuggerEvent) {
			id = effectID(ev, id)
			r.Record(newEvent(KindTrack, name, ev, r.now()))
		}),
		reactivity.OnTrigger(func(ev reactivity.DebuggerEvent) {
			id = effectID(ev, id)
			r.Record(newEvent(KindTrigger, name, ev, r.now()))
		}),
		reactivity.OnStop(func() {
			r.Record(Event{Kind: KindStop, Effect: name, EffectID: id, Time: r.now()})
		}),
	}
}

func effectID(ev reactivity.DebuggerEvent, last uint64) uint64 {
	if ev.Effect != nil {
		return ev.Effect.ID()
	}
	return last
}

// Record numbers e, appends it to the ring and forwards it to every sink.
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	r.total++
	e.Seq = r.total
	r.ring[r.next] = e
	r.next = (r.next + 1) % len(r.ring)
	if r.count < len(r.ring) {
		r.count++
	}
	sinks := r.sinks
	r.mu.Unlock()

	for _, s := range sinks {
		s.Record(e)
	}
}

// Events returns the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Event, 0, r.count)
	start := (r.next - r.count + len(r.ring)) % len(r.ring)
	for i := 0; i < r.count; i++ {
		out = append(out, r.ring[(start+i)%len(r.ring)])
	}
	return out
}

// Len returns the number of events currently held.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Total returns the number of events recorded since creation, including
// those that have been overwritten.
func (r *Recorder) Total() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// Reset drops every held event. Sinks are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	clear(r.ring)
	r.next = 0
	r.count = 0
	r.mu.Unlock()
}
