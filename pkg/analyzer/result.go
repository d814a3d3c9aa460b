package analyzer

import (
	"fmt"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// Result contains the outcome of one analysis run.
//
// Findings are ordered by category, errors first within each category, with
// insertion order breaking ties. Report projections must preserve this
// order.
type Result struct {
	// Findings contains every deduplicated finding of the run.
	// Empty if no issues were found.
	Findings []types.Finding `json:"findings" yaml:"findings"`

	// Summary provides aggregate statistics about the findings.
	Summary types.Summary `json:"summary" yaml:"summary"`

	// FileErrors lists the inputs that could not be read. A failing file
	// never aborts the run; findings from the remaining files are still
	// reported.
	FileErrors []FileError `json:"fileErrors,omitempty" yaml:"fileErrors,omitempty"`
}

// FileError records one input file that could not be read.
type FileError struct {
	File   string `json:"file" yaml:"file"`
	Reason string `json:"reason" yaml:"reason"`
}

// HasErrors returns true if the run produced any ERROR-level findings.
//
// This is useful for CI/CD pipelines that should fail on errors:
//
//	if result.HasErrors() {
//	    os.Exit(1)
//	}
func (r *Result) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if the run produced any WARNING-level findings.
func (r *Result) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// IsClean returns true if the run produced no errors or warnings.
func (r *Result) IsClean() bool {
	return r.Summary.Errors == 0 && r.Summary.Warnings == 0
}

// String returns a human-readable summary of the run.
//
// Example output:
//
//	Upgrade check: 5 findings (2 errors, 2 warnings, 1 info)
func (r *Result) String() string {
	return fmt.Sprintf(
		"Upgrade check: %d findings (%d errors, %d warnings, %d info)",
		r.Summary.Total,
		r.Summary.Errors,
		r.Summary.Warnings,
		r.Summary.Infos,
	)
}

// FilterBySeverity returns the findings with the given severity, in result
// order.
func (r *Result) FilterBySeverity(severity types.Severity) []types.Finding {
	filtered := make([]types.Finding, 0)
	for _, f := range r.Findings {
		if f.Severity == severity {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// FilterByCategory returns the findings of the given category, in result
// order.
func (r *Result) FilterByCategory(category types.Category) []types.Finding {
	filtered := make([]types.Finding, 0)
	for _, f := range r.Findings {
		if f.Category == category {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
