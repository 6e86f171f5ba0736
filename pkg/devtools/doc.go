// Package devtools records reactivity debug events and exposes them to
// developers.
//
// A Recorder collects the OnTrack, OnTrigger and OnStop hooks of the effects
// it is attached to and forwards every event to its sinks:
//
//   - Metrics counts tracks, triggers and stops in Prometheus
//   - Tracer emits OpenTelemetry spans for triggers
//   - Hub streams events to WebSocket clients
//
// An Inspector serves a Recorder over HTTP for live debugging. Debug hooks
// only fire while reactivity.DevMode is enabled.
package devtools
