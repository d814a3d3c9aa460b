// Package analyzer provides the high-level API for running an offline
// upgrade compatibility check over a set of export files.
//
// # Quick Start
//
//	a := analyzer.New()
//	result, err := a.Analyze(context.Background(), "schema.sql", "my.cnf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Found %d issues\n", result.Summary.Total)
//	for _, f := range result.Findings {
//	    fmt.Printf("[%s] %s (%s)\n", f.Severity, f.Title, f.Location)
//	}
//
// # With Custom Configuration
//
//	a := analyzer.New(analyzer.WithFs(fs))
//	if err := a.WithConfigFile("rules.yaml"); err != nil {
//	    return err
//	}
//	result, err := a.Analyze(ctx, files...)
//
// An analysis run is two-phased: phase 1 walks the files in caller order,
// extracting schema definitions and running the pattern and data scanners;
// phase 2 runs the cross-reference checks once over the assembled registry.
// Malformed content in a file is logged and skipped, and an unreadable file
// is reported in Result.FileErrors; neither aborts the run.
package analyzer

import (
	"context"
	"encoding/json"

	version "github.com/hashicorp/go-version"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/nsxbet/upgrade-checker/pkg/config"
	"github.com/nsxbet/upgrade-checker/pkg/crossref"
	"github.com/nsxbet/upgrade-checker/pkg/logger"
	"github.com/nsxbet/upgrade-checker/pkg/rules"
	"github.com/nsxbet/upgrade-checker/pkg/scanner"
	"github.com/nsxbet/upgrade-checker/pkg/schema"
	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// DefaultTargetVersion is the server version checked against when the caller
// does not specify one.
const DefaultTargetVersion = "8.0"

// Analyzer runs upgrade compatibility checks. The zero configuration reads
// the local filesystem, enables every rule, and targets MySQL 8.0.
//
// An Analyzer may be reused across runs; the registry and findings of a run
// are never shared.
type Analyzer struct {
	fs     afero.Fs
	cfg    *config.Config
	log    logger.Interface
	target *version.Version
}

// New creates an Analyzer. Options customize the filesystem, configuration,
// logger and target version.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		fs:     afero.NewOsFs(),
		cfg:    config.Default(),
		log:    logger.New(),
		target: version.Must(version.NewVersion(DefaultTargetVersion)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithConfigFile loads rule configuration from a YAML file, replacing the
// current configuration.
func (a *Analyzer) WithConfigFile(filename string) error {
	cfg, err := config.LoadFromFile(filename)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// Analyze checks the given files and returns the aggregated findings. Files
// are processed in the order given; classification is by file name (see
// classify.go). A file that cannot be read is recorded in Result.FileErrors
// and the remaining files are still analyzed. The context supports
// cancellation: a cancelled run returns the partial result together with the
// context error.
func (a *Analyzer) Analyze(ctx context.Context, paths ...string) (*Result, error) {
	r := &run{
		analyzer: a,
		registry: schema.NewRegistry(),
		patterns: scanner.NewPatternScanner(a.target),
		data:     scanner.NewDataValueScanner(a.target),
		agg:      newAggregator(a.cfg),
	}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return r.agg.result(), ctx.Err()
		default:
		}
		content, err := afero.ReadFile(a.fs, path)
		if err != nil {
			a.log.Warn("file could not be read", "file", path, logger.Error(err))
			r.agg.addFileError(path, errors.Wrapf(err, "read %s", path))
			continue
		}
		r.analyzeFile(path, string(content))
	}

	r.agg.add(crossref.Validate(r.registry, r.data.FourByteTables())...)
	return r.agg.result(), nil
}

// run is the per-Analyze state: one registry, one set of scanners, one
// aggregator.
type run struct {
	analyzer *Analyzer
	registry *schema.Registry
	patterns *scanner.PatternScanner
	data     *scanner.DataValueScanner
	agg      *aggregator
}

func (r *run) analyzeFile(path, content string) {
	a := r.analyzer
	switch classify(path) {
	case classSkip:
		a.log.Debug("skipping file", "file", path)
	case classSQL:
		defs := schema.Extract(path, content, r.registry)
		a.log.Debug("scanned sql file", "file", path, "tables", len(defs))
		r.agg.add(r.patterns.Scan(path, content, rules.KindSchemaText)...)
		r.agg.add(r.patterns.Scan(path, content, rules.KindQueryText)...)
		r.agg.add(r.data.Scan(path, content, r.registry)...)
	case classConfig:
		r.agg.add(r.patterns.Scan(path, content, rules.KindConfigText)...)
	case classData:
		table := tableFromDataFileName(path)
		r.agg.add(r.data.ScanLines(path, content, table, a.cfg.MaxDataLines())...)
	case classMetadata:
		r.checkMetadata(path, content)
	}
}

// exportMetadata is the slice of the export metadata JSON the checker
// consults.
type exportMetadata struct {
	Options struct {
		DefaultCharacterSet string `json:"defaultCharacterSet"`
	} `json:"options"`
}

func (r *run) checkMetadata(path, content string) {
	var meta exportMetadata
	if err := json.Unmarshal([]byte(content), &meta); err != nil {
		r.analyzer.log.Warn("unparseable export metadata", "file", path, logger.Error(err))
		return
	}
	cs := meta.Options.DefaultCharacterSet
	if cs == "" || schema.IsFourByte(cs) {
		return
	}
	rule := rules.Get(rules.RuleDumpCharacterSet)
	if !rule.AppliesTo(r.analyzer.target) {
		return
	}
	r.agg.add(types.Finding{
		RuleID:      rule.ID,
		Category:    rule.Category,
		Severity:    rule.Severity,
		Title:       rule.Title,
		Description: rule.Description,
		Suggestion:  rule.Suggestion,
		Location:    path,
		Match:       cs,
		Context:     "defaultCharacterSet=" + cs,
	})
}
