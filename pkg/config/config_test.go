package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

func TestDefaultEnablesEverything(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.Enabled("invalid-objects.year2"))
	require.True(t, cfg.Enabled("no-such-rule"))

	_, ok := cfg.SeverityOverride("invalid-objects.year2")
	require.False(t, ok)
	require.Equal(t, DefaultMaxDataLines, cfg.MaxDataLines())
}

func TestLoadFromFile(t *testing.T) {
	yamlDoc := `
rules:
  invalid-objects.integer-display-width:
    enabled: false
  invalid-objects.zerofill:
    severity: error
scan:
  maxDataLines: 500
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	require.False(t, cfg.Enabled("invalid-objects.integer-display-width"))
	require.True(t, cfg.Enabled("invalid-objects.zerofill"))

	sev, ok := cfg.SeverityOverride("invalid-objects.zerofill")
	require.True(t, ok)
	require.Equal(t, types.Severity_ERROR, sev)

	require.Equal(t, 500, cfg.MaxDataLines())
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0o644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
}

func TestNilConfigIsPermissive(t *testing.T) {
	var cfg *Config
	require.True(t, cfg.Enabled("anything"))
	require.Equal(t, DefaultMaxDataLines, cfg.MaxDataLines())
	_, ok := cfg.SeverityOverride("anything")
	require.False(t, ok)
}
