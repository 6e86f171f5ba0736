package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	rerrors "github.com/vango-dev/reactivity/internal/errors"
)

// Inspector serves recorded events over HTTP:
//
//	GET /events   JSON array of recorded events, oldest first (?limit=N keeps the newest N)
//	GET /ws       WebSocket stream of events as they are recorded
//	GET /metrics  Prometheus exposition
//	GET /healthz  liveness and counters
type Inspector struct {
	recorder *Recorder
	hub      *Hub
	gatherer prometheus.Gatherer
	router   chi.Router
	logger   *slog.Logger
}

// InspectorOption configures an Inspector.
type InspectorOption func(*Inspector)

// WithGatherer sets the registry served on /metrics.
// Default: prometheus.DefaultGatherer
func WithGatherer(g prometheus.Gatherer) InspectorOption {
	return func(i *Inspector) {
		if g != nil {
			i.gatherer = g
		}
	}
}

// WithInspectorLogger sets the inspector's logger.
func WithInspectorLogger(l *slog.Logger) InspectorOption {
	return func(i *Inspector) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewInspector creates an inspector over rec and registers a Hub on it as a
// sink so /ws clients see new events.
func NewInspector(rec *Recorder, opts ...InspectorOption) *Inspector {
	i := &Inspector{
		recorder: rec,
		hub:      NewHub(),
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default().With("component", "devtools"),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.hub.logger = i.logger
	i.hub.backlog = rec.Events
	rec.AddSink(i.hub)

	r := chi.NewRouter()
	r.Get("/events", i.handleEvents)
	r.Get("/ws", i.hub.HandleWebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(i.gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", i.handleHealth)
	i.router = r
	return i
}

// Handler returns the inspector's router.
func (i *Inspector) Handler() http.Handler {
	return i.router
}

// Hub returns the WebSocket hub fed by the recorder.
func (i *Inspector) Hub() *Hub {
	return i.hub
}

// ListenAndServe serves the inspector on addr until ctx is canceled, then
// shuts the server down gracefully. ready, when non-nil, receives the bound
// address once the listener is open.
func (i *Inspector) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return rerrors.New("R150").WithDetail("listen " + addr).Wrap(err)
	}
	if ready != nil {
		ready(ln.Addr())
	}

	srv := &http.Server{
		Handler:           i.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	i.logger.Info("inspector listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return rerrors.New("R150").Wrap(err)
	case <-ctx.Done():
	}

	i.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return rerrors.New("R150").WithDetail("shutdown").Wrap(err)
	}
	return nil
}

func (i *Inspector) handleEvents(w http.ResponseWriter, r *http.Request) {
	events := i.recorder.Events()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest,
				rerrors.New("R151").WithDetail("limit must be a non-negative integer, got "+strconv.Quote(raw)))
			return
		}
		if limit < len(events) {
			events = events[len(events)-limit:]
		}
	}
	writeJSON(w, events)
}

func (i *Inspector) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"events":  i.recorder.Len(),
		"total":   i.recorder.Total(),
		"clients": i.hub.ClientCount(),
	})
}

func writeError(w http.ResponseWriter, status int, err *rerrors.CodedError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.FormatJSON() + "\n"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
