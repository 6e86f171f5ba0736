package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reactivity/internal/config"
	"github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/reactivity"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDemoRunsAllScenarios(t *testing.T) {
	out, err := execute(t, "demo")
	require.NoError(t, err, out)

	for _, s := range scenarios {
		assert.Contains(t, out, s.name+": "+s.description)
	}
	assert.NotContains(t, out, "✗")
}

func TestDemoSelectedScenario(t *testing.T) {
	out, err := execute(t, "demo", "scheduler")
	require.NoError(t, err, out)

	assert.Contains(t, out, "o.a = 3  ->  seen = 1, pending = 1")
	assert.Contains(t, out, "flush    ->  seen = 3")
	assert.NotContains(t, out, "sync:")
}

func TestDemoTrace(t *testing.T) {
	prev := reactivity.DevMode
	out, err := execute(t, "demo", "--trace", "map")
	require.NoError(t, err, out)

	assert.Contains(t, out, "[reader] track get k")
	assert.Contains(t, out, "[reader] trigger add k")
	assert.Equal(t, prev, reactivity.DevMode, "DevMode is restored after tracing")
}

func TestDemoUnknownScenario(t *testing.T) {
	_, err := execute(t, "demo", "no-such-scenario")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R140")
	assert.Contains(t, err.Error(), "no-such-scenario")

	errors.SetColors(false)
	t.Cleanup(func() { errors.SetColors(true) })
	var out bytes.Buffer
	errors.Fprint(&out, err)
	assert.Contains(t, out.String(), "ERROR R140: Unknown demo scenario")
	assert.Contains(t, out.String(), "Unknown scenario no-such-scenario")
	assert.Contains(t, out.String(), "Learn more:")
}

func TestDemoList(t *testing.T) {
	out, err := execute(t, "demo", "--list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(scenarios))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "array-length"), lines[0])
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestLoadInspectConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inspector:\n  port: 1234\n"), 0644))

	cfg, err := loadInspectConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Inspector.Port)

	_, err = loadInspectConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R121")
}

func TestInspectSession(t *testing.T) {
	prev := reactivity.DevMode
	t.Cleanup(func() { reactivity.DevMode = prev })

	cfg := config.New()
	cfg.Recorder.Size = 64
	ctx := context.Background()

	sess, err := newInspectSession(ctx, cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	defer sess.close()

	summary, err := sess.snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "count=0 (even) todos=0", summary)

	require.NoError(t, sess.step(ctx, 1))
	summary, err = sess.snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "count=1 (odd) todos=1", summary)

	require.NoError(t, sess.step(ctx, 6))
	summary, err = sess.snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "count=6 (even) todos=0", summary)

	kinds := map[string]int{}
	for _, e := range sess.rec.Events() {
		kinds[string(e.Kind)]++
	}
	assert.Positive(t, kinds["track"])
	assert.Positive(t, kinds["trigger"])
}

func TestInspectSessionWithoutDevMode(t *testing.T) {
	prev := reactivity.DevMode
	t.Cleanup(func() { reactivity.DevMode = prev })

	cfg := config.New()
	cfg.DevMode = false
	ctx := context.Background()

	sess, err := newInspectSession(ctx, cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	defer sess.close()

	require.NoError(t, sess.step(ctx, 1))
	assert.False(t, reactivity.DevMode)
	assert.Zero(t, sess.rec.Len(), "no track or trigger events without DevMode")
}

func TestInspectFlagsApply(t *testing.T) {
	cfg := config.New()
	flags := inspectFlags{port: 9000, host: "0.0.0.0", devMode: false}
	set := map[string]bool{"port": true, "dev": true}

	flags.apply(cfg, func(name string) bool { return set[name] })

	assert.Equal(t, 9000, cfg.Inspector.Port)
	assert.Equal(t, "0.0.0.0", cfg.Inspector.Host)
	assert.False(t, cfg.DevMode)
	assert.False(t, cfg.Tracing.Enabled)

	cfg = config.New()
	cfg.DevMode = false
	flags = inspectFlags{devMode: true}
	flags.apply(cfg, func(string) bool { return false })
	assert.False(t, cfg.DevMode, "unset --dev keeps the configured value")
	assert.Equal(t, config.DefaultPort, cfg.Inspector.Port)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", dir, "--yaml")
	require.NoError(t, err, out)
	assert.Contains(t, out, "http://localhost:7331")

	cfg, err := config.LoadFile(filepath.Join(dir, config.YAMLConfigFileName))
	require.NoError(t, err)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, config.DefaultPort, cfg.Inspector.Port)

	_, err = execute(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R141")

	_, err = execute(t, "init", dir, "--force")
	require.NoError(t, err)
	assert.True(t, config.Exists(dir))
	_, err = os.Stat(filepath.Join(dir, config.ConfigFileName))
	assert.NoError(t, err)
}
