package config

import (
	"fmt"
	"time"
)

// Config is the job file used by "drm apply" and "drm schedule".
type Config struct {
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Watch   WatchConfig   `yaml:"watch" toml:"watch"`
	Jobs    []Job         `yaml:"jobs" toml:"jobs"`
}

type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"` // "info", "debug", etc.
	File  string `yaml:"file" toml:"file"`
}

type WatchConfig struct {
	Mode           string   `yaml:"mode" toml:"mode"`                     // "auto", "poll", "fsnotify"
	PollInterval   Duration `yaml:"pollInterval" toml:"pollInterval"`     // e.g. 30s
	DebounceWindow Duration `yaml:"debounceWindow" toml:"debounceWindow"` // e.g. 2s
}

// Job is one directory plus the rule applied to it.
type Job struct {
	Name    string `yaml:"name" toml:"name"`
	Dir     string `yaml:"dir" toml:"dir"`
	Range   string `yaml:"range" toml:"range"`
	Reverse bool   `yaml:"reverse" toml:"reverse"`
	DryRun  bool   `yaml:"dryRun" toml:"dryRun"`
	Cron    string `yaml:"cron" toml:"cron"`   // optional, standard 5-field spec or @every
	Watch   bool   `yaml:"watch" toml:"watch"` // re-run when new entries appear in Dir
}

const (
	WatchAuto     = "auto"
	WatchPoll     = "poll"
	WatchFsnotify = "fsnotify"

	DefaultPollInterval   = 30 * time.Second
	DefaultDebounceWindow = 2 * time.Second
)

// Duration is a time.Duration that decodes from strings like "30s" in both
// YAML and TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (c *Config) applyDefaults() {
	if c.Watch.Mode == "" {
		c.Watch.Mode = WatchAuto
	}
	if c.Watch.PollInterval <= 0 {
		c.Watch.PollInterval = Duration(DefaultPollInterval)
	}
	if c.Watch.DebounceWindow <= 0 {
		c.Watch.DebounceWindow = Duration(DefaultDebounceWindow)
	}
}

// Lookup returns the job with the given name.
func (c *Config) Lookup(name string) (Job, bool) {
	for _, j := range c.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}
