package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactivity/internal/errors"
)

const (
	// ConfigFileName is the JSON configuration file name.
	ConfigFileName = "reactivity.json"

	// YAMLConfigFileName is the YAML configuration file name. It is used
	// when no JSON file exists.
	YAMLConfigFileName = "reactivity.yaml"

	// DefaultPort is the default inspector port.
	DefaultPort = 7331

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "reactivity"

	// DefaultTracerName is the default OpenTelemetry instrumentation name.
	DefaultTracerName = "reactivity"

	// DefaultMaxRunsPerFlush mirrors scheduler.DefaultMaxRunsPerFlush.
	DefaultMaxRunsPerFlush = 100

	// DefaultLoopBuffer mirrors scheduler.DefaultLoopBuffer.
	DefaultLoopBuffer = 256

	// DefaultRecorderSize mirrors devtools.DefaultRecorderSize.
	DefaultRecorderSize = 1024
)

// Config represents the complete reactivity.json / reactivity.yaml
// configuration.
type Config struct {
	// DevMode enables engine warnings and effect debug hooks. The recorder
	// only sees track and trigger events while it is on.
	DevMode bool `json:"devMode" yaml:"devMode"`

	// Inspector contains devtools HTTP server configuration.
	Inspector InspectorConfig `json:"inspector,omitempty" yaml:"inspector,omitempty"`

	// Scheduler contains flush queue and loop configuration.
	Scheduler SchedulerConfig `json:"scheduler,omitempty" yaml:"scheduler,omitempty"`

	// Recorder contains event recorder configuration.
	Recorder RecorderConfig `json:"recorder,omitempty" yaml:"recorder,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectorConfig contains devtools inspector settings.
type InspectorConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on. Zero picks a free port.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`
}

// SchedulerConfig contains scheduler settings.
type SchedulerConfig struct {
	// MaxRunsPerFlush bounds how often one effect may run per flush.
	// Zero disables the budget.
	MaxRunsPerFlush int `json:"maxRunsPerFlush" yaml:"maxRunsPerFlush"`

	// Buffer is the capacity of the loop's work channel.
	Buffer int `json:"buffer,omitempty" yaml:"buffer,omitempty"`
}

// RecorderConfig contains event recorder settings.
type RecorderConfig struct {
	// Size is the number of events kept in the ring.
	Size int `json:"size,omitempty" yaml:"size,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the metrics sink.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled registers the tracing sink.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Name is the instrumentation name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		DevMode: true,
		Inspector: InspectorConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Scheduler: SchedulerConfig{
			MaxRunsPerFlush: DefaultMaxRunsPerFlush,
			Buffer:          DefaultLoopBuffer,
		},
		Recorder: RecorderConfig{
			Size: DefaultRecorderSize,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			Name: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// reactivity.json first and reactivity.yaml second.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("R121").
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir).
		WithSuggestion("Run 'reactivity inspect' with flags, or create " + ConfigFileName)
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R121").
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.FromError(err, "R120")
	}

	cfg := New()
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("R120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("R120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveTo writes the configuration to the specified path, as YAML or JSON
// depending on the extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.FromError(err, "R120")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.FromError(err, "R120")
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields. Zero budgets are
// meaningful and left alone.
func (c *Config) applyDefaults() {
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Scheduler.Buffer == 0 {
		c.Scheduler.Buffer = DefaultLoopBuffer
	}
	if c.Recorder.Size == 0 {
		c.Recorder.Size = DefaultRecorderSize
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.Name == "" {
		c.Tracing.Name = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("R122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Inspector.Port))
	}

	limits := []struct {
		name  string
		value int
	}{
		{"scheduler.maxRunsPerFlush", c.Scheduler.MaxRunsPerFlush},
		{"scheduler.buffer", c.Scheduler.Buffer},
		{"recorder.size", c.Recorder.Size},
	}
	for _, l := range limits {
		if l.value < 0 {
			return errors.New("R123").
				WithDetail(l.name + " must not be negative, got " + strconv.Itoa(l.value))
		}
	}
	return nil
}

// InspectorAddress returns the listen address for the inspector.
func (c *Config) InspectorAddress() string {
	return net.JoinHostPort(c.Inspector.Host, strconv.Itoa(c.Inspector.Port))
}

// InspectorURL returns the base URL of the inspector.
func (c *Config) InspectorURL() string {
	return "http://" + c.InspectorAddress()
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the nearest directory
// holding a configuration file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R121").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its nearest ancestor holding a configuration file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
