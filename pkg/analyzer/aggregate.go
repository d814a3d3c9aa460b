package analyzer

import (
	"sort"

	"github.com/nsxbet/upgrade-checker/pkg/config"
	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// aggregator collects findings for one run: it applies the rule
// configuration, drops exact duplicates, and orders the output.
type aggregator struct {
	cfg        *config.Config
	seen       map[string]struct{}
	findings   []types.Finding
	fileErrors []FileError
}

func newAggregator(cfg *config.Config) *aggregator {
	return &aggregator{
		cfg:  cfg,
		seen: make(map[string]struct{}),
	}
}

// add records findings, skipping disabled rules and exact duplicates.
// Severity overrides from the configuration are applied before
// deduplication.
func (a *aggregator) add(findings ...types.Finding) {
	for _, f := range findings {
		if !a.cfg.Enabled(f.RuleID) {
			continue
		}
		if sev, ok := a.cfg.SeverityOverride(f.RuleID); ok {
			f.Severity = sev
		}
		key := f.Key()
		if _, dup := a.seen[key]; dup {
			continue
		}
		a.seen[key] = struct{}{}
		a.findings = append(a.findings, f)
	}
}

// addFileError records an input file that could not be read.
func (a *aggregator) addFileError(file string, err error) {
	a.fileErrors = append(a.fileErrors, FileError{File: file, Reason: err.Error()})
}

// result orders the findings by category (display order), then severity with
// errors first, keeping insertion order for ties, and computes the summary.
func (a *aggregator) result() *Result {
	categoryRank := make(map[types.Category]int, len(types.Categories()))
	for i, c := range types.Categories() {
		categoryRank[c] = i
	}

	ordered := make([]types.Finding, len(a.findings))
	copy(ordered, a.findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ci, cj := categoryRank[ordered[i].Category], categoryRank[ordered[j].Category]; ci != cj {
			return ci < cj
		}
		return ordered[i].Severity.Rank() < ordered[j].Severity.Rank()
	})

	summary := types.Summary{ByCategory: make(map[types.Category]int)}
	for _, f := range ordered {
		summary.Total++
		summary.ByCategory[f.Category]++
		switch f.Severity {
		case types.Severity_ERROR:
			summary.Errors++
		case types.Severity_WARNING:
			summary.Warnings++
		case types.Severity_INFO:
			summary.Infos++
		}
	}

	return &Result{
		Findings:   ordered,
		Summary:    summary,
		FileErrors: a.fileErrors,
	}
}
