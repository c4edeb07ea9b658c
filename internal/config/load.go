// Package config loads the drm job file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ipChrisLee/drm/internal/errs"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// Load reads, decodes and validates a job file. The format follows the
// extension: .toml for TOML, anything else is YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Config("reading config file: %v", err)
	}

	cfg, err := Parse(filepath.Ext(path), []byte(expandEnvVars(string(data))))
	if err != nil {
		return nil, errs.Wrap(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes an already expanded job file and validates it.
func Parse(ext string, data []byte) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, errs.Config("unmarshalling toml: %v", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errs.Config("unmarshalling yaml: %v", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath finds drm/config.{yaml,yml,toml} in the XDG config
// directories. It returns "" when none exists.
func DefaultPath() string {
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		if p, err := xdg.SearchConfigFile(filepath.Join("drm", name)); err == nil {
			return p
		}
	}
	return ""
}

// Describe is a short human summary used in logs.
func (j Job) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s on %s", j.Name, j.Range, j.Dir)
	if j.Reverse {
		b.WriteString(" (reverse)")
	}
	if j.DryRun {
		b.WriteString(" (dry-run)")
	}
	return b.String()
}
