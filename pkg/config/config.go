// Package config holds the user-facing rule configuration: per-rule
// enable/disable and severity overrides, plus scan caps. Configuration is
// optional; the zero value enables every rule at its catalog severity.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// DefaultMaxDataLines caps how many lines of a tab-separated data file are
// scanned.
const DefaultMaxDataLines = 10000

// RuleConfig customizes a single rule.
type RuleConfig struct {
	// Enabled disables the rule when explicitly false. Absent means enabled.
	Enabled *bool `yaml:"enabled" json:"enabled"`
	// Severity overrides the catalog severity when set.
	Severity types.Severity `yaml:"severity" json:"severity"`
}

// ScanConfig holds input-volume caps.
type ScanConfig struct {
	// MaxDataLines caps how many lines of each data file are scanned;
	// 0 means DefaultMaxDataLines.
	MaxDataLines int `yaml:"maxDataLines" json:"maxDataLines"`
}

// Config is the loaded rule configuration.
type Config struct {
	Rules map[string]RuleConfig `yaml:"rules" json:"rules"`
	Scan  ScanConfig            `yaml:"scan" json:"scan"`
}

// Default returns a configuration with every rule enabled at its catalog
// severity.
func Default() *Config {
	return &Config{}
}

// LoadFromFile loads a YAML configuration file.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", filename)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", filename)
	}
	return &cfg, nil
}

// Enabled reports whether the rule is enabled. Rules are enabled unless the
// configuration turns them off.
func (c *Config) Enabled(ruleID string) bool {
	if c == nil {
		return true
	}
	rc, ok := c.Rules[ruleID]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}

// SeverityOverride returns the configured severity for the rule, if any.
func (c *Config) SeverityOverride(ruleID string) (types.Severity, bool) {
	if c == nil {
		return types.Severity_SEVERITY_UNSPECIFIED, false
	}
	rc, ok := c.Rules[ruleID]
	if !ok || rc.Severity == types.Severity_SEVERITY_UNSPECIFIED {
		return types.Severity_SEVERITY_UNSPECIFIED, false
	}
	return rc.Severity, true
}

// MaxDataLines returns the data-file line cap.
func (c *Config) MaxDataLines() int {
	if c == nil || c.Scan.MaxDataLines <= 0 {
		return DefaultMaxDataLines
	}
	return c.Scan.MaxDataLines
}
