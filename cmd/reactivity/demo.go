package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/devtools"
	"github.com/vango-dev/reactivity/pkg/reactivity"
	"github.com/vango-dev/reactivity/pkg/scheduler"
)

// scenario is one runnable walkthrough of engine behaviour. run reports an
// error when the engine does not behave as described.
type scenario struct {
	name        string
	description string
	run         func(env *demoEnv) error
}

// demoEnv is passed to every scenario.
type demoEnv struct {
	out io.Writer

	// rec is set when tracing; effect attaches its hooks.
	rec *devtools.Recorder
}

func (env *demoEnv) effect(name string, fn func(), opts ...reactivity.EffectOption) *reactivity.Effect {
	if env.rec != nil {
		opts = append(opts, env.rec.Options(name)...)
	}
	return reactivity.CreateEffect(fn, opts...)
}

func (env *demoEnv) logf(format string, args ...any) {
	info(env.out, format, args...)
}

// expect returns a CLI error when got differs from want.
func expect(what string, got, want any) error {
	if got != want {
		return errors.Newf(errors.CategoryCLI, "%s: expected %v, got %v", what, want, got)
	}
	return nil
}

var scenarios = []scenario{
	{
		name:        "sync",
		description: "an effect re-runs synchronously when a dependency changes",
		run: func(env *demoEnv) error {
			o := reactivity.Reactive(reactivity.NewObject("a", 1))
			var seen any
			env.effect("seen", func() { seen = o.Get("a") })
			env.logf("seen = %v", seen)

			o.Set("a", 2)
			env.logf("o.a = 2  ->  seen = %v", seen)
			return expect("seen", seen, 2)
		},
	},
	{
		name:        "scheduler",
		description: "a scheduler defers re-runs until the queue is flushed",
		run: func(env *demoEnv) error {
			q := scheduler.NewQueue()
			o := reactivity.Reactive(reactivity.NewObject("a", 1))
			var seen any
			env.effect("seen", func() { seen = o.Get("a") }, reactivity.WithScheduler(q.Schedule))

			o.Set("a", 3)
			env.logf("o.a = 3  ->  seen = %v, pending = %d", seen, q.Len())
			if err := expect("seen before flush", seen, 1); err != nil {
				return err
			}

			if err := q.Flush(); err != nil {
				return err
			}
			env.logf("flush    ->  seen = %v", seen)
			return expect("seen after flush", seen, 3)
		},
	},
	{
		name:        "map",
		description: "setting a map entry to the same value does not notify",
		run: func(env *demoEnv) error {
			m := reactivity.Reactive(reactivity.NewMap())
			runs := 0
			env.effect("reader", func() {
				runs++
				m.Get("k")
			})

			m.Set("k", 1)
			env.logf("m.set('k', 1)  ->  runs = %d", runs)
			m.Set("k", 1)
			env.logf("m.set('k', 1)  ->  runs = %d", runs)
			return expect("runs", runs, 2)
		},
	},
	{
		name:        "array-length",
		description: "truncating an array notifies readers of removed indices",
		run: func(env *demoEnv) error {
			arr := reactivity.Reactive(reactivity.NewArray(1, 2, 3))
			runs := 0
			env.effect("index 2", func() {
				runs++
				arr.Get(2)
			})

			arr.SetLen(1)
			env.logf("length = 1  ->  runs = %d", runs)
			arr.SetLen(3)
			env.logf("length = 3  ->  runs = %d", runs)
			return expect("runs", runs, 2)
		},
	},
	{
		name:        "iteration",
		description: "adding and deleting keys notifies key iteration",
		run: func(env *demoEnv) error {
			o := reactivity.Reactive(reactivity.NewObject("a", 1))
			var keys string
			env.effect("keys", func() { keys = strings.Join(o.Keys(), ",") })

			o.Set("b", 2)
			env.logf("add b     ->  keys = [%s]", keys)
			o.Set("b", 3)
			env.logf("set b     ->  keys = [%s]", keys)
			o.Delete("a")
			env.logf("delete a  ->  keys = [%s]", keys)
			return expect("keys", keys, "b")
		},
	},
	{
		name:        "computed",
		description: "computed values are lazy and recompute only when read",
		run: func(env *demoEnv) error {
			o := reactivity.Reactive(reactivity.NewObject("n", 1))
			calls := 0
			double := reactivity.NewComputed(func() int {
				calls++
				return o.Get("n").(int) * 2
			})
			env.logf("created   ->  getter calls = %d", calls)
			if err := expect("calls before read", calls, 0); err != nil {
				return err
			}

			env.logf("read      ->  value = %d, getter calls = %d", double.Get(), calls)
			o.Set("n", 5)
			env.logf("o.n = 5   ->  dirty = %v, getter calls = %d", double.Dirty(), calls)
			if err := expect("calls after write", calls, 1); err != nil {
				return err
			}
			v := double.Get()
			env.logf("read      ->  value = %d, getter calls = %d", v, calls)
			return expect("value", v, 10)
		},
	},
	{
		name:        "readonly",
		description: "readonly proxies ignore writes and wrap nested values",
		run: func(env *demoEnv) error {
			raw := reactivity.NewObject("nested", reactivity.NewObject("x", 1))
			ro := reactivity.Readonly(raw)

			ok := ro.Set("nested", nil)
			env.logf("set through readonly  ->  ok = %v, raw unchanged = %v", ok, raw.Get("nested") != nil)
			nested := ro.Get("nested")
			env.logf("nested readonly       ->  %v", reactivity.IsReadonly(nested))
			if err := expect("set result", ok, true); err != nil {
				return err
			}
			return expect("nested readonly", reactivity.IsReadonly(nested), true)
		},
	},
	{
		name:        "stop",
		description: "a stopped effect is never re-run",
		run: func(env *demoEnv) error {
			o := reactivity.Reactive(reactivity.NewObject("a", 1))
			runs := 0
			e := env.effect("stopped", func() {
				runs++
				o.Get("a")
			})

			e.Stop()
			e.Stop()
			o.Set("a", 2)
			env.logf("stop twice, o.a = 2  ->  runs = %d", runs)
			return expect("runs", runs, 1)
		},
	},
}

func findScenario(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.name == name {
			return s, true
		}
	}
	return scenario{}, false
}

func demoCmd() *cobra.Command {
	var (
		list  bool
		trace bool
	)

	cmd := &cobra.Command{
		Use:   "demo [scenario...]",
		Short: "Run reactivity scenarios",
		Long: `Run built-in scenarios that exercise the reactivity engine.

Each scenario prints what the engine does and fails if the engine
misbehaves. With no arguments every scenario runs.

Examples:
  reactivity demo
  reactivity demo sync scheduler
  reactivity demo --trace map
  reactivity demo --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				listScenarios(out)
				return nil
			}
			return runDemo(out, args, trace)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List available scenarios")
	cmd.Flags().BoolVarP(&trace, "trace", "t", false, "Print track and trigger events")

	return cmd
}

func listScenarios(out io.Writer) {
	names := make([]string, 0, len(scenarios))
	width := 0
	for _, s := range scenarios {
		names = append(names, s.name)
		width = max(width, len(s.name))
	}
	sort.Strings(names)
	for _, name := range names {
		s, _ := findScenario(name)
		fmt.Fprintf(out, "  %-*s  %s\n", width, s.name, s.description)
	}
}

func runDemo(out io.Writer, names []string, trace bool) error {
	selected := scenarios
	if len(names) > 0 {
		selected = make([]scenario, 0, len(names))
		for _, name := range names {
			s, ok := findScenario(name)
			if !ok {
				return errors.New("R140").WithDetail("Unknown scenario " + name)
			}
			selected = append(selected, s)
		}
	}

	env := &demoEnv{out: out}
	if trace {
		prev := reactivity.DevMode
		reactivity.DevMode = true
		defer func() { reactivity.DevMode = prev }()
		env.rec = devtools.NewRecorder(0, devtools.SinkFunc(func(e devtools.Event) {
			printEvent(out, e)
		}))
	}

	failed := 0
	for _, s := range selected {
		fmt.Fprintf(out, "\n%s: %s\n", s.name, s.description)
		if err := s.run(env); err != nil {
			errorMsg(out, "%s", err)
			failed++
			continue
		}
		success(out, "%s", s.name)
	}
	fmt.Fprintln(out)

	if failed > 0 {
		warn(out, "%d of %d scenarios failed", failed, len(selected))
		return errors.Newf(errors.CategoryCLI, "%d scenario(s) failed", failed)
	}
	return nil
}

func printEvent(out io.Writer, e devtools.Event) {
	switch e.Kind {
	case devtools.KindStop:
		fmt.Fprintf(out, "    \033[90m[%s] stop\033[0m\n", e.Effect)
	case devtools.KindTrack:
		fmt.Fprintf(out, "    \033[90m[%s] track %s %s\033[0m\n", e.Effect, e.Op, e.Key)
	default:
		fmt.Fprintf(out, "    \033[90m[%s] trigger %s %s: %v -> %v\033[0m\n", e.Effect, e.Op, e.Key, e.OldValue, e.NewValue)
	}
}
