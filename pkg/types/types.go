// Package types defines the shared data model for the upgrade checker:
// finding severities, rule categories, and the Finding record produced by
// every scanner and validator.
package types

import (
	"encoding/json"
	"fmt"
)

// Severity is the severity level of a finding.
type Severity int32

const (
	Severity_SEVERITY_UNSPECIFIED Severity = 0
	Severity_ERROR                Severity = 1
	Severity_WARNING              Severity = 2
	Severity_INFO                 Severity = 3
)

func (s Severity) String() string {
	switch s {
	case Severity_ERROR:
		return "ERROR"
	case Severity_WARNING:
		return "WARNING"
	case Severity_INFO:
		return "INFO"
	default:
		return "SEVERITY_UNSPECIFIED"
	}
}

// Rank orders severities for report sorting. Lower sorts first.
func (s Severity) Rank() int {
	switch s {
	case Severity_ERROR:
		return 0
	case Severity_WARNING:
		return 1
	case Severity_INFO:
		return 2
	default:
		return 3
	}
}

// MarshalJSON implements json.Marshaler for Severity.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler for Severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseSeverity(str)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Severity.
func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	*s = ParseSeverity(str)
	return nil
}

// ParseSeverity converts a severity name to a Severity.
// Unknown names map to SEVERITY_UNSPECIFIED.
func ParseSeverity(s string) Severity {
	switch s {
	case "ERROR", "error":
		return Severity_ERROR
	case "WARNING", "warning":
		return Severity_WARNING
	case "INFO", "info":
		return Severity_INFO
	default:
		return Severity_SEVERITY_UNSPECIFIED
	}
}

// Category groups rules by the class of compatibility problem they detect.
type Category string

const (
	CategoryRemovedVariables    Category = "removed-variables"
	CategoryChangedDefaults     Category = "changed-defaults"
	CategoryReservedIdentifiers Category = "reserved-identifiers"
	CategoryAuthentication      Category = "authentication"
	CategoryPrivileges          Category = "privileges"
	CategoryInvalidObjects      Category = "invalid-objects"
	CategoryDataIntegrity       Category = "data-integrity"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryRemovedVariables,
		CategoryChangedDefaults,
		CategoryReservedIdentifiers,
		CategoryAuthentication,
		CategoryPrivileges,
		CategoryInvalidObjects,
		CategoryDataIntegrity,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Finding is a single detected compatibility issue.
//
// Two findings with identical (RuleID, Location, Context) describe the same
// logical occurrence; that triple is the deduplication key and is stable
// across re-runs over the same input.
type Finding struct {
	RuleID      string   `json:"ruleId" yaml:"ruleId"`
	Category    Category `json:"category" yaml:"category"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Suggestion  string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`

	// Location is "file" or "file:line" of the occurrence.
	Location string `json:"location" yaml:"location"`
	// Match is the exact matched text, when pattern-based.
	Match string `json:"match,omitempty" yaml:"match,omitempty"`
	// Context is the bounded text window surrounding the match.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	Table      string   `json:"table,omitempty" yaml:"table,omitempty"`
	Column     string   `json:"column,omitempty" yaml:"column,omitempty"`
	TypeName   string   `json:"type,omitempty" yaml:"type,omitempty"`
	EnumValues []string `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`

	// FixStatement is a generated remediation statement, when one could be
	// inferred from context.
	FixStatement string `json:"fixStatement,omitempty" yaml:"fixStatement,omitempty"`
}

// Key returns the deduplication key for the finding.
func (f *Finding) Key() string {
	return fmt.Sprintf("%s\x00%s\x00%s", f.RuleID, f.Location, f.Context)
}

// Summary holds aggregate counts over a finding list.
type Summary struct {
	Total      int              `json:"total" yaml:"total"`
	Errors     int              `json:"errors" yaml:"errors"`
	Warnings   int              `json:"warnings" yaml:"warnings"`
	Infos      int              `json:"infos" yaml:"infos"`
	ByCategory map[Category]int `json:"byCategory" yaml:"byCategory"`
}
