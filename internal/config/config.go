// Package config loads the refdoc configuration file.
//
// The file is YAML with ${VAR} expansion. Variables from .env and .env.local
// are loaded first without overriding the process environment. Loading runs
// normalization, then defaults, then validation; every failure is a
// classified config or validation error.
package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "refdoc.yaml"

// CurrentVersion is the only supported configuration format version.
const CurrentVersion = "1"

// Config is the complete configuration.
type Config struct {
	Version string        `yaml:"version"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// InputConfig names the metadata dump and its documentation comments.
type InputConfig struct {
	Metadata string `yaml:"metadata"`
	// Comments defaults to the metadata path with its extension replaced by .xml.
	Comments string `yaml:"comments,omitempty"`
}

// OutputConfig controls where and how pages are written.
type OutputConfig struct {
	Directory   string `yaml:"directory"`
	Clean       bool   `yaml:"clean"`
	FrontMatter bool   `yaml:"frontmatter"`
	// Report is the run report file name inside Directory; "none" disables it.
	Report string `yaml:"report"`
}

// RenderConfig tunes page emission.
type RenderConfig struct {
	Workers     int   `yaml:"workers"`
	VerifyLinks *bool `yaml:"verify_links,omitempty"`
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile output when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// ReportDisabled is the Output.Report value that turns the run report off.
const ReportDisabled = "none"

// ReportEnabled reports whether a run report is written.
func (o OutputConfig) ReportEnabled() bool {
	return o.Report != "" && o.Report != ReportDisabled
}

// ShouldVerifyLinks reports whether the verify_links stage runs.
func (r RenderConfig) ShouldVerifyLinks() bool {
	return r.VerifyLinks == nil || *r.VerifyLinks
}

// DebounceDuration is the parsed watch debounce. Validation guarantees it parses.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return defaultDebounce
	}
	return d
}

// CommentsPath returns the configured comments file, or the metadata path
// with its extension replaced by .xml.
func (i InputConfig) CommentsPath() string {
	if i.Comments != "" {
		return i.Comments
	}
	return CommentsFor(i.Metadata)
}

// CommentsFor derives the default comments file of a metadata dump.
func CommentsFor(metadata string) string {
	if metadata == "" {
		return ""
	}
	base := metadata
	if i := strings.LastIndexByte(base, '.'); i > strings.LastIndexAny(base, `/\`) {
		base = base[:i]
	}
	return base + ".xml"
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	if err := applyDefaults(cfg); err != nil {
		// Defaults on an empty config cannot fail.
		panic(err)
	}
	return cfg
}

// Load reads, expands, normalizes, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	// #nosec G304 -- the configuration path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", path).WithHint("run 'refdoc init' to create one").Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration").
			WithContext("path", path).Build()
	}
	return Parse(data)
}

// LoadOrDefault loads path when it exists and returns the defaults when it
// does not. The bool reports whether a file was read.
func LoadOrDefault(path string) (*Config, bool, error) {
	if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		loadEnvFiles()
		return Default(), false, nil
	}
	cfg, err := Load(path)
	return cfg, err == nil, err
}

// Parse decodes configuration bytes. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode configuration").Build()
	}

	if err := normalizeConfig(&cfg); err != nil {
		return nil, err
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists").
			WithContext("path", path).WithHint("use --force to overwrite it").Build()
	}

	verify := true
	example := Config{
		Version: CurrentVersion,
		Input: InputConfig{
			Metadata: "./bin/Acme.Core.yaml",
			Comments: "./bin/Acme.Core.xml",
		},
		Output: OutputConfig{
			Directory:   "./docs/api",
			Clean:       true,
			FrontMatter: false,
			Report:      defaultReport,
		},
		Render: RenderConfig{
			Workers:     4,
			VerifyLinks: &verify,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Metrics: MetricsConfig{
			Textfile: "${REFDOC_METRICS_TEXTFILE}",
		},
		Watch: WatchConfig{
			Debounce: defaultDebounce.String(),
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal example configuration").Build()
	}
	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "write configuration").
			WithContext("path", path).Build()
	}
	return nil
}
