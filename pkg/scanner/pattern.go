// Package scanner implements the first-pass file scanners: pattern matching
// for schema, query and configuration text, and positional value checks over
// INSERT row data.
package scanner

import (
	"fmt"

	version "github.com/hashicorp/go-version"

	"github.com/nsxbet/upgrade-checker/pkg/rules"
	"github.com/nsxbet/upgrade-checker/pkg/sqltext"
	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// contextRadius is the number of characters kept on each side of a match when
// building the context window.
const contextRadius = 80

// PatternScanner applies pattern-detected rules to file text. Occurrences are
// deduplicated on (rule ID, context window) for the lifetime of the scanner,
// which lives for one analysis run.
type PatternScanner struct {
	target *version.Version
	seen   map[string]struct{}
}

// NewPatternScanner returns a scanner for one analysis run. A nil target
// version activates every rule.
func NewPatternScanner(target *version.Version) *PatternScanner {
	return &PatternScanner{
		target: target,
		seen:   make(map[string]struct{}),
	}
}

// Scan runs every active pattern rule of the given kind over the file text and
// returns the findings in match order.
func (s *PatternScanner) Scan(file, text string, kind rules.Kind) []types.Finding {
	var findings []types.Finding
	for _, r := range rules.ByKind(kind, s.target) {
		if r.Detection != rules.DetectionPattern {
			continue
		}
		for _, loc := range r.Pattern.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			window := contextWindow(text, loc[0], loc[1])
			key := r.ID + "\x00" + window
			if _, dup := s.seen[key]; dup {
				continue
			}
			s.seen[key] = struct{}{}

			f := types.Finding{
				RuleID:      r.ID,
				Category:    r.Category,
				Severity:    r.Severity,
				Title:       r.Title,
				Description: r.Description,
				Suggestion:  r.Suggestion,
				Location:    fmt.Sprintf("%s:%d", file, sqltext.LineAt(text, loc[0])),
				Match:       match,
				Context:     window,
			}
			if r.Fix != nil {
				f.FixStatement = r.Fix(rules.FixContext{
					Match:   match,
					Context: window,
				})
			}
			findings = append(findings, f)
		}
	}
	return findings
}

// contextWindow returns the text around [start,end) with a fixed radius,
// trimmed to the file bounds.
func contextWindow(text string, start, end int) string {
	lo := start - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + contextRadius
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
