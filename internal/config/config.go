// Package config holds the harness configuration: where the catalog is,
// which state file to reset, and how names, timing and output behave.
package config

import (
	"time"

	"github.com/wesleyorama2/catbench/internal/reset"
)

// DefaultBaseURL is where a locally started catalog server listens.
const DefaultBaseURL = "http://127.0.0.1:8000/v1/"

// Config is the root configuration.
//
// Example YAML:
//
//	baseUrl: "http://127.0.0.1:8000/v1/"
//	resetFile: "database/catalog.namespace"
//	nameLength: 8
//	seed: 42
//	timeout: 10s
//	iterations: 5
//	headers:
//	  Authorization: "Bearer abc"
//	output:
//	  format: text
//	  verbose: true
//	log:
//	  level: debug
type Config struct {
	// BaseURL is prefixed to every catalog endpoint
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`

	// ResetFile is the catalog state file removed before the run
	ResetFile string `json:"resetFile,omitempty" yaml:"resetFile,omitempty"`

	// SkipReset leaves the catalog state untouched
	SkipReset bool `json:"skipReset,omitempty" yaml:"skipReset,omitempty"`

	// NameLength is the length of generated namespace and table names
	NameLength int `json:"nameLength,omitempty" yaml:"nameLength,omitempty"`

	// Seed makes generated names reproducible; 0 means random
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Timeout bounds each call. Zero means no timeout, which is what a raw
	// latency measurement wants; any other value cuts off slow calls.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Iterations is how many times the scenario runs, with fresh names each time
	Iterations int `json:"iterations,omitempty" yaml:"iterations,omitempty"`

	// UserAgent is sent with every request
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`

	// Headers are extra request headers, e.g. an Authorization token
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`
	Log    LogConfig    `json:"log,omitempty" yaml:"log,omitempty"`
}

// OutputConfig controls the report.
type OutputConfig struct {
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor bool   `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		ResetFile:  reset.DefaultStateFile,
		NameLength: 8,
		Iterations: 1,
		UserAgent:  "catbench/" + Version,
		Output: OutputConfig{
			Format: "text",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Version is reported in the default User-Agent.
var Version = "0.1.0"

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	if s == "" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
