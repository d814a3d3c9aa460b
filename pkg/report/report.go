// Package report renders an analysis result in the supported output formats.
// Every renderer is a pure projection: findings are emitted in result order,
// never re-sorted.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/nsxbet/upgrade-checker/pkg/analyzer"
	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// JSON writes the result as an indented JSON document.
func JSON(w io.Writer, r *analyzer.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(r), "encode json report")
}

// csvHeader is the column layout of the CSV projection.
var csvHeader = []string{"category", "severity", "title", "description", "location", "code", "suggestion", "ruleRef"}

// CSV writes one row per finding.
func CSV(w io.Writer, r *analyzer.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, f := range r.Findings {
		row := []string{
			string(f.Category),
			f.Severity.String(),
			f.Title,
			f.Description,
			f.Location,
			f.Match,
			f.Suggestion,
			f.RuleID,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv report")
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

func severityColor(s types.Severity) *color.Color {
	switch s {
	case types.Severity_ERROR:
		return errorColor
	case types.Severity_WARNING:
		return warningColor
	default:
		return infoColor
	}
}

// Text writes a compact per-finding listing followed by the summary line.
// Inputs that could not be read are listed first.
func Text(w io.Writer, r *analyzer.Result) error {
	for _, fe := range r.FileErrors {
		if _, err := fmt.Fprintf(w, "%s %s  %s\n",
			errorColor.Sprint("[UNREADABLE]"),
			fe.File,
			dimColor.Sprint(fe.Reason)); err != nil {
			return errors.Wrap(err, "write text report")
		}
	}
	for _, f := range r.Findings {
		if _, err := fmt.Fprintf(w, "%s %s  %s\n",
			severityColor(f.Severity).Sprintf("[%s]", f.Severity),
			f.Title,
			dimColor.Sprint(f.Location)); err != nil {
			return errors.Wrap(err, "write text report")
		}
		if f.Suggestion != "" {
			if _, err := fmt.Fprintf(w, "        %s\n", f.Suggestion); err != nil {
				return errors.Wrap(err, "write text report")
			}
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", r.String())
	return errors.Wrap(err, "write text report")
}

// Grouped writes the long-form report: findings grouped by rule, each group
// with the rule's description followed by every occurrence. Groups appear in
// the order their rule first appears in the result.
func Grouped(w io.Writer, r *analyzer.Result) error {
	var order []string
	byRule := make(map[string][]types.Finding)
	for _, f := range r.Findings {
		if _, seen := byRule[f.RuleID]; !seen {
			order = append(order, f.RuleID)
		}
		byRule[f.RuleID] = append(byRule[f.RuleID], f)
	}

	for _, ruleID := range order {
		group := byRule[ruleID]
		first := group[0]
		header := fmt.Sprintf("%s %s (%s, %d occurrence%s)",
			severityColor(first.Severity).Sprintf("[%s]", first.Severity),
			first.Title, ruleID, len(group), plural(len(group)))
		if _, err := fmt.Fprintf(w, "%s\n  %s\n", header, first.Description); err != nil {
			return errors.Wrap(err, "write grouped report")
		}
		if first.Suggestion != "" {
			if _, err := fmt.Fprintf(w, "  Suggestion: %s\n", first.Suggestion); err != nil {
				return errors.Wrap(err, "write grouped report")
			}
		}
		for _, f := range group {
			line := "  - " + f.Location
			if f.Match != "" {
				line += ": " + compact(f.Match)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return errors.Wrap(err, "write grouped report")
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return errors.Wrap(err, "write grouped report")
		}
	}

	_, err := fmt.Fprintf(w, "%s\n", r.String())
	return errors.Wrap(err, "write grouped report")
}

// FixScript writes every generated fix statement as one SQL script. The
// script opens a transaction and ends with commented COMMIT and ROLLBACK
// lines so the operator makes the final call after reviewing it.
func FixScript(w io.Writer, r *analyzer.Result) error {
	var b strings.Builder
	b.WriteString("-- Generated upgrade remediation script.\n")
	b.WriteString("-- Review every statement before running; uncomment COMMIT or ROLLBACK at the end.\n")
	b.WriteString("START TRANSACTION;\n\n")

	seen := make(map[string]struct{})
	count := 0
	for _, f := range r.Findings {
		if f.FixStatement == "" {
			continue
		}
		if _, dup := seen[f.FixStatement]; dup {
			continue
		}
		seen[f.FixStatement] = struct{}{}
		count++
		fmt.Fprintf(&b, "-- %s (%s)\n%s\n\n", f.RuleID, f.Location, f.FixStatement)
	}

	if count == 0 {
		b.WriteString("-- No automatic fixes were generated.\n\n")
	}
	b.WriteString("-- COMMIT;\n")
	b.WriteString("-- ROLLBACK;\n")

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write fix script")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// compact collapses whitespace runs so matched text stays on one line.
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
