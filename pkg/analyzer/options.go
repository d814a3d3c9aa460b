package analyzer

import (
	version "github.com/hashicorp/go-version"
	"github.com/spf13/afero"

	"github.com/nsxbet/upgrade-checker/pkg/config"
	"github.com/nsxbet/upgrade-checker/pkg/logger"
)

// Option is a functional option for customizing an Analyzer.
type Option func(*Analyzer)

// WithFs sets the filesystem inputs are read from. The default is the OS
// filesystem; tests pass an afero.NewMemMapFs().
func WithFs(fs afero.Fs) Option {
	return func(a *Analyzer) {
		a.fs = fs
	}
}

// WithConfig sets the rule configuration object directly.
func WithConfig(cfg *config.Config) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithLogger sets the logger used for skip and parse diagnostics.
func WithLogger(log logger.Interface) Option {
	return func(a *Analyzer) {
		a.log = log
	}
}

// WithTargetVersion sets the server version upgraded to. Rules gated on a
// higher version are skipped. A nil target activates every rule.
func WithTargetVersion(target *version.Version) Option {
	return func(a *Analyzer) {
		a.target = target
	}
}
