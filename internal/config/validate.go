package config

import (
	"github.com/robfig/cron/v3"

	"github.com/ipChrisLee/drm/internal/errs"
	"github.com/ipChrisLee/drm/internal/rule"
)

// Validate checks every job. Range errors keep their ParseError kind.
func (c *Config) Validate() error {
	switch c.Watch.Mode {
	case WatchAuto, WatchPoll, WatchFsnotify:
	default:
		return errs.Config("unknown watch mode %q", c.Watch.Mode)
	}

	if len(c.Jobs) == 0 {
		return errs.Config("no jobs defined")
	}

	seen := make(map[string]bool, len(c.Jobs))
	for i, j := range c.Jobs {
		if j.Name == "" {
			return errs.Config("job #%d has no name", i+1)
		}
		if seen[j.Name] {
			return errs.Config("duplicate job name %q", j.Name)
		}
		seen[j.Name] = true

		if j.Dir == "" {
			return errs.Config("job %q has no dir", j.Name)
		}
		if j.Range == "" {
			return errs.Config("job %q has no range", j.Name)
		}
		if _, err := j.Rule(); err != nil {
			return err
		}
		if j.Cron != "" {
			if _, err := cron.ParseStandard(j.Cron); err != nil {
				return errs.Config("job %q has invalid cron %q: %v", j.Name, j.Cron, err)
			}
		}
	}
	return nil
}

// Rule parses the job's range.
func (j Job) Rule() (rule.Rule, error) {
	r, err := rule.Parse(j.Range)
	if err != nil {
		return rule.Rule{}, errs.Wrap(err, "job %q", j.Name)
	}
	return r, nil
}
