package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipChrisLee/drm/internal/errs"
)

const sampleYAML = `
logging:
  level: debug
watch:
  mode: poll
  pollInterval: 5s
jobs:
  - name: logs
    dir: $(DRM_TEST_ROOT)/logs
    range: "(:-7d)[:]"
  - name: backups
    dir: /srv/backups
    range: "(:)[-3:]"
    reverse: true
    cron: "0 3 * * *"
    watch: true
`

const sampleTOML = `
[watch]
mode = "fsnotify"
debounceWindow = "500ms"

[[jobs]]
name = "logs"
dir = "/var/log/app"
range = "(-30d:)[:-5]"
dryRun = true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("DRM_TEST_ROOT", "/data")

	cfg, err := Load(writeFile(t, "drm.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, WatchPoll, cfg.Watch.Mode)
	assert.Equal(t, 5*time.Second, cfg.Watch.PollInterval.Std())
	assert.Equal(t, DefaultDebounceWindow, cfg.Watch.DebounceWindow.Std())

	require.Len(t, cfg.Jobs, 2)
	assert.Equal(t, "/data/logs", cfg.Jobs[0].Dir)

	backups, ok := cfg.Lookup("backups")
	require.True(t, ok)
	assert.True(t, backups.Reverse)
	assert.True(t, backups.Watch)
	assert.Equal(t, "0 3 * * *", backups.Cron)

	r, err := backups.Rule()
	require.NoError(t, err)
	assert.Equal(t, "(:)[-3:]", r.String())

	_, ok = cfg.Lookup("nope")
	assert.False(t, ok)
}

func TestLoad_TOML(t *testing.T) {
	cfg, err := Load(writeFile(t, "drm.toml", sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, WatchFsnotify, cfg.Watch.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.DebounceWindow.Std())
	assert.Equal(t, DefaultPollInterval, cfg.Watch.PollInterval.Std())
	require.Len(t, cfg.Jobs, 1)
	assert.True(t, cfg.Jobs[0].DryRun)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		target error
	}{
		{"empty", ``, errs.ErrConfig},
		{"bad yaml", "jobs: [", errs.ErrConfig},
		{"unknown field", "jobs:\n  - name: a\n    dir: /x\n    range: \"(:)[:]\"\n    color: red\n", errs.ErrConfig},
		{"no name", "jobs:\n  - dir: /x\n    range: \"(:)[:]\"\n", errs.ErrConfig},
		{"no dir", "jobs:\n  - name: a\n    range: \"(:)[:]\"\n", errs.ErrConfig},
		{"no range", "jobs:\n  - name: a\n    dir: /x\n", errs.ErrConfig},
		{"duplicate", "jobs:\n  - {name: a, dir: /x, range: \"(:)[:]\"}\n  - {name: a, dir: /y, range: \"(:)[:]\"}\n", errs.ErrConfig},
		{"bad range", "jobs:\n  - {name: a, dir: /x, range: \"(1x:)[:]\"}\n", errs.ErrUnknownUnit},
		{"bad cron", "jobs:\n  - {name: a, dir: /x, range: \"(:)[:]\", cron: \"every day\"}\n", errs.ErrConfig},
		{"bad watch mode", "watch: {mode: inotify}\njobs:\n  - {name: a, dir: /x, range: \"(:)[:]\"}\n", errs.ErrConfig},
		{"bad duration", "watch: {pollInterval: soon}\njobs:\n  - {name: a, dir: /x, range: \"(:)[:]\"}\n", errs.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(".yaml", []byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParse_RangeErrorNamesJob(t *testing.T) {
	_, err := Parse(".yml", []byte("jobs:\n  - {name: nightly, dir: /x, range: \"(a:)[:]\"}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `job "nightly"`)
	assert.ErrorIs(t, err, errs.ErrInvalidInteger)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DRM_A", "alpha")
	assert.Equal(t, "x/alpha/y", expandEnvVars("x/$(DRM_A)/y"))
	assert.Equal(t, "x//y", expandEnvVars("x/$(DRM_UNSET_VAR)/y"))
	assert.Equal(t, "$HOME", expandEnvVars("$HOME"))
}

func TestJob_Describe(t *testing.T) {
	j := Job{Name: "logs", Dir: "/var/log", Range: "(:)[:]", Reverse: true, DryRun: true}
	assert.Equal(t, "logs: (:)[:] on /var/log (reverse) (dry-run)", j.Describe())
}
