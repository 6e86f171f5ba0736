package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactivity/internal/config"
	"github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/devtools"
	"github.com/vango-dev/reactivity/pkg/reactivity"
	"github.com/vango-dev/reactivity/pkg/scheduler"
)

// inspectFlags holds the command-line overrides of the inspect command.
type inspectFlags struct {
	configPath string
	port       int
	host       string
	interval   time.Duration
	tracing    bool
	devMode    bool
}

// apply copies the flags the user set onto cfg. changed reports whether a
// flag was given explicitly.
func (f *inspectFlags) apply(cfg *config.Config, changed func(name string) bool) {
	if changed("port") {
		cfg.Inspector.Port = f.port
	}
	if f.host != "" {
		cfg.Inspector.Host = f.host
	}
	if f.tracing {
		cfg.Tracing.Enabled = true
	}
	if changed("dev") {
		cfg.DevMode = f.devMode
	}
}

func inspectCmd() *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Start the devtools inspector",
		Long: `Start the devtools inspector on a simulated workload.

A small set of effects runs on a scheduler loop and mutates state
every interval. Their track and trigger events are served at:

  GET /events   recorded events as JSON
  GET /ws       live event stream
  GET /metrics  Prometheus metrics
  GET /healthz  health and counters

Settings are read from reactivity.json or reactivity.yaml when present.

Examples:
  reactivity inspect
  reactivity inspect --port=9000 --interval=250ms
  reactivity inspect --config=./dev.yaml --tracing
  reactivity inspect --dev=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadInspectConfig(flags.configPath)
			if err != nil {
				return err
			}
			flags.apply(cfg, cmd.Flags().Changed)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runInspect(ctx, cmd.OutOrStdout(), cfg, flags.interval)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file (default: search upwards for reactivity.json)")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&flags.host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().DurationVarP(&flags.interval, "interval", "i", time.Second, "Time between simulated writes (0 disables)")
	cmd.Flags().BoolVar(&flags.tracing, "tracing", false, "Emit OpenTelemetry spans for triggers")
	cmd.Flags().BoolVar(&flags.devMode, "dev", true, "Enable engine debug hooks and warnings (default from config)")

	return cmd
}

// loadInspectConfig loads path, or the nearest configuration file, or the
// defaults when none exists.
func loadInspectConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		if stderrors.Is(err, errors.New("R121")) {
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func runInspect(ctx context.Context, out io.Writer, cfg *config.Config, interval time.Duration) error {
	printBanner(out)
	fmt.Fprintln(out, "  inspect")
	fmt.Fprintln(out)
	if !cfg.DevMode {
		warn(out, "DevMode is off: only stop events will be recorded")
	}

	reg := prometheus.NewRegistry()
	sess, err := newInspectSession(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer sess.close()

	insp := devtools.NewInspector(sess.rec, devtools.WithGatherer(reg))

	if interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for i := 1; ; i++ {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := sess.step(ctx, i); err != nil {
						if ctx.Err() == nil {
							warn(out, "simulation step %d: %s", i, err)
						}
						continue
					}
					if summary, err := sess.snapshot(ctx); err == nil {
						slog.Debug("simulation step", "step", i, "summary", summary)
					}
				}
			}
		}()
	}

	err = insp.ListenAndServe(ctx, cfg.InspectorAddress(), func(addr net.Addr) {
		success(out, "Inspector listening on http://%s", addr)
		info(out, "Events:  http://%s/events", addr)
		info(out, "Stream:  ws://%s/ws", addr)
		info(out, "Metrics: http://%s/metrics", addr)
		fmt.Fprintln(out)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\n  Shutting down...")
	return nil
}

// inspectSession is the simulated workload observed by the inspector. All
// reactive state lives on loop.
type inspectSession struct {
	rec     *devtools.Recorder
	metrics *devtools.Metrics
	loop    *scheduler.Loop

	counter *reactivity.Object
	todos   *reactivity.Map
	summary string
}

func newInspectSession(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*inspectSession, error) {
	reactivity.DevMode = cfg.DevMode

	var sinks []devtools.Sink
	s := &inspectSession{}
	queueOpts := []scheduler.Option{
		scheduler.WithMaxRunsPerFlush(cfg.Scheduler.MaxRunsPerFlush),
	}
	if cfg.Metrics.Enabled {
		s.metrics = devtools.NewMetrics(
			devtools.WithRegistry(reg),
			devtools.WithNamespace(cfg.Metrics.Namespace),
		)
		sinks = append(sinks, s.metrics)
		queueOpts = append(queueOpts, scheduler.WithOnFlush(s.metrics.ObserveFlush))
	}
	if cfg.Tracing.Enabled {
		sinks = append(sinks, devtools.NewTracer(devtools.WithTracerName(cfg.Tracing.Name)))
	}
	s.rec = devtools.NewRecorder(cfg.Recorder.Size, sinks...)
	s.loop = scheduler.NewLoop(
		scheduler.NewQueue(queueOpts...),
		scheduler.WithBuffer(cfg.Scheduler.Buffer),
	)

	err := s.loop.Do(ctx, func() {
		q := s.loop.Queue()
		s.counter = reactivity.Reactive(reactivity.NewObject("count", 0))
		s.todos = reactivity.Reactive(reactivity.NewMap())

		parity := reactivity.NewComputed(func() string {
			if s.counter.Get("count").(int)%2 == 0 {
				return "even"
			}
			return "odd"
		})

		opts := append([]reactivity.EffectOption{reactivity.WithScheduler(q.Schedule)}, s.rec.Options("summary")...)
		reactivity.CreateEffect(func() {
			s.summary = fmt.Sprintf("count=%v (%s) todos=%d",
				s.counter.Get("count"), parity.Get(), s.todos.Size())
		}, opts...)
	})
	if err != nil {
		s.loop.Close()
		return nil, err
	}
	return s, nil
}

// step performs simulated write number i on the loop.
func (s *inspectSession) step(ctx context.Context, i int) error {
	err := s.loop.Do(ctx, func() {
		s.counter.Set("count", i)
		key := fmt.Sprintf("todo-%d", i%5)
		if s.todos.Has(key) {
			s.todos.Delete(key)
		} else {
			s.todos.Set(key, i)
		}
	})
	if stderrors.Is(err, scheduler.ErrBudgetExceeded) && s.metrics != nil {
		s.metrics.BudgetExceeded()
	}
	return err
}

// snapshot returns the latest summary computed by the workload.
func (s *inspectSession) snapshot(ctx context.Context) (string, error) {
	var out string
	err := s.loop.Do(ctx, func() { out = s.summary })
	return out, err
}

func (s *inspectSession) close() {
	s.loop.Close()
}
