package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hart-dev/hart/internal/errors"
)

const (
	// DefaultName is the app name used in logs, spans and metric labels.
	DefaultName = "hart"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "127.0.0.1:7070"

	// DefaultInspectInterval is the default delay between scripted steps
	// while inspecting.
	DefaultInspectInterval = "500ms"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "hart"

	// DefaultOutput is the default record output file.
	DefaultOutput = "passes.oplog"

	// DefaultItems is the default number of demo todo items.
	DefaultItems = 5

	// MaxItems bounds demo.items.
	MaxItems = 10000
)

// FileNames are the configuration files Load looks for, in order.
var FileNames = []string{"hart.json", "hart.yaml", "hart.yml"}

// Config represents the complete hart configuration.
type Config struct {
	// Name is the app name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Debug enables debug logging.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	// Inspect contains inspector settings.
	Inspect InspectConfig `json:"inspect,omitempty" yaml:"inspect,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Record contains pass recording settings.
	Record RecordConfig `json:"record,omitempty" yaml:"record,omitempty"`

	// Demo contains settings for the bundled demo.
	Demo DemoConfig `json:"demo,omitempty" yaml:"demo,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectConfig contains inspector settings.
type InspectConfig struct {
	// Addr is the inspector listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Interval is the delay between scripted steps (e.g., "500ms").
	Interval string `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// RecordConfig contains pass recording settings.
type RecordConfig struct {
	// Output is the file records are written to when S3 is not set.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// S3 uploads the recording to a bucket instead.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config names the upload destination.
type S3Config struct {
	// Bucket is the bucket name. Empty disables the upload.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to the object key.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// DemoConfig contains settings for the bundled demo.
type DemoConfig struct {
	// Items is the number of todo items the demo starts with.
	Items int `json:"items,omitempty" yaml:"items,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the first configuration file found in dir. When none
// exists, the defaults are returned.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path. The format
// follows the extension.
func LoadFile(path string) (*Config, error) {
	unmarshal, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("E100").Wrap(err)
	}

	cfg := &Config{}
	if err := unmarshal(data, cfg); err != nil {
		return nil, errors.New("E100").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path in the format its extension
// names.
func (c *Config) SaveTo(path string) error {
	if _, err := decoderFor(path); err != nil {
		return err
	}

	var data []byte
	var err error
	if formatName(path) == "YAML" {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E100").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E100").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Inspect.Interval == "" {
		c.Inspect.Interval = DefaultInspectInterval
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Record.Output == "" {
		c.Record.Output = DefaultOutput
	}
	if c.Demo.Items == 0 {
		c.Demo.Items = DefaultItems
	}
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if d, err := time.ParseDuration(c.Inspect.Interval); err != nil || d < 0 {
		return errors.New("E101").
			WithDetailf("inspect.interval %q is not a non-negative duration", c.Inspect.Interval).
			WithSuggestion(`Use a Go duration such as "500ms" or "2s"`)
	}
	if !metricName.MatchString(c.Metrics.Namespace) {
		return errors.New("E101").
			WithDetailf("metrics.namespace %q is not a valid metric name prefix", c.Metrics.Namespace)
	}
	if c.Demo.Items < 0 || c.Demo.Items > MaxItems {
		return errors.New("E101").
			WithDetailf("demo.items must be between 0 and %d, got %d", MaxItems, c.Demo.Items)
	}
	if strings.HasPrefix(c.Record.S3.Prefix, "/") {
		return errors.New("E101").
			WithDetail("record.s3.prefix must not start with '/'")
	}
	return nil
}

// InspectInterval returns the parsed inspect.interval.
func (c *Config) InspectInterval() time.Duration {
	d, err := time.ParseDuration(c.Inspect.Interval)
	if err != nil {
		return 0
	}
	return d
}

// UploadsToS3 reports whether recordings go to S3.
func (c *Config) UploadsToS3() bool {
	return c.Record.S3.Bucket != ""
}

// S3Key returns the object key for a recording named name.
func (c *Config) S3Key(name string) string {
	return c.Record.S3.Prefix + name
}

// Exists returns true if a configuration file exists in dir.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func decoderFor(path string) (func([]byte, any) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal, nil
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	default:
		return nil, errors.New("E102").WithDetailf("%q has an unsupported extension", filepath.Base(path))
	}
}

func formatName(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "JSON"
	}
	return "YAML"
}
