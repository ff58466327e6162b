package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sporadisk/weekclock/format"
	"github.com/sporadisk/weekclock/parameter"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = ".weekclock.yaml"

	SourceLogfile = "logfile"
	SourceSqlite  = "sqlite"
	SourceTimely  = "timely"

	PolicyKeepAll    = "all"
	PolicyLatestOnly = "latest"

	defaultInterval = time.Minute
)

type Config struct {
	Source     *SourceConfig `yaml:"source"`
	Interval   string        `yaml:"interval"`
	RunOnStart *bool         `yaml:"runOnStart"`
	Watch      *bool         `yaml:"watch"`
	Output     *OutputConfig `yaml:"output"`
	Log        *LogConfig    `yaml:"log"`
}

type SourceConfig struct {
	Name   string            `yaml:"name"`
	Params map[string]string `yaml:"params"`
}

type OutputConfig struct {
	TimeFormat string `yaml:"timeFormat"`
	Policy     string `yaml:"policy"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	Debug bool   `yaml:"debug"`
}

func Load(path string) (*Config, error) {
	var useDefaultConf bool
	useDefaultConf = (path == "")

	if useDefaultConf {
		path = DefaultPath
	}

	conf := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && useDefaultConf {
			// No config was found, but no config path was specified either
			return conf.withDefaults()
		}
		return nil, fmt.Errorf("os.Open: %w", err)
	}

	err = yaml.Unmarshal(data, &conf)
	if err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	return conf.withDefaults()
}

func (c Config) withDefaults() (*Config, error) {
	if c.Source == nil {
		c.Source = &SourceConfig{Name: SourceSqlite}
	}
	if c.Source.Params == nil {
		c.Source.Params = map[string]string{}
	}
	name, err := parameter.Validate(c.Source.Name, []string{SourceLogfile, SourceSqlite, SourceTimely})
	if err != nil {
		return nil, fmt.Errorf("validation failure for source name: %w", err)
	}
	c.Source.Name = name

	if c.Output == nil {
		c.Output = &OutputConfig{}
	}
	if c.Output.TimeFormat == "" {
		c.Output.TimeFormat = format.DefaultClock
	}
	if err := format.ValidateClockLayout(c.Output.TimeFormat); err != nil {
		return nil, err
	}
	if c.Output.Policy == "" {
		c.Output.Policy = PolicyKeepAll
	}
	policy, err := parameter.Validate(c.Output.Policy, []string{PolicyKeepAll, PolicyLatestOnly})
	if err != nil {
		return nil, fmt.Errorf("validation failure for output policy: %w", err)
	}
	c.Output.Policy = policy

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if _, err := c.IntervalDuration(); err != nil {
		return nil, err
	}

	return &c, nil
}

// IntervalDuration is the time between periodic cycles; "0" disables them.
func (c *Config) IntervalDuration() (time.Duration, error) {
	if c.Interval == "" {
		return defaultInterval, nil
	}
	d, err := format.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("parsing interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative interval %q", c.Interval)
	}
	return d, nil
}

func (c *Config) ShouldRunOnStart() bool {
	return c.RunOnStart == nil || *c.RunOnStart
}

// ShouldWatch reports whether file sources trigger a cycle when written.
func (c *Config) ShouldWatch() bool {
	return c.Watch == nil || *c.Watch
}

// RequiredParams returns the named source parameters, failing on the first one missing.
func (s *SourceConfig) RequiredParams(required ...string) (map[string]string, error) {
	result := make(map[string]string)
	for _, key := range required {
		value, ok := s.Params[key]
		if !ok || value == "" {
			return nil, fmt.Errorf("missing parameter: %s", key)
		}
		result[key] = value
	}

	return result, nil
}
