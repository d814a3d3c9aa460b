package scanner

import (
	"fmt"
	"regexp"
	"strings"

	version "github.com/hashicorp/go-version"

	"github.com/nsxbet/upgrade-checker/pkg/rules"
	"github.com/nsxbet/upgrade-checker/pkg/schema"
	"github.com/nsxbet/upgrade-checker/pkg/sqltext"
	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// maxRecordedSamples caps the 4-byte value samples kept per table for the
// charset/data correlation check.
const maxRecordedSamples = 5

var insertRe = regexp.MustCompile(`(?is)^\s*(?:INSERT|REPLACE)\s+(?:IGNORE\s+)?INTO\s+(?:(?:` + "`[^`]+`" + `|\w+)\s*\.\s*)?(` + "`[^`]+`" + `|\w+)\s*(\([^)]*\))?\s*VALUES?\b`)

// Sample is one recorded row value and where it was seen.
type Sample struct {
	Value    string
	Location string
}

// DataValueScanner checks row data from INSERT statements and tab-separated
// data files against the row-value rules. It also records which tables were
// observed carrying 4-byte code points, for the second-pass charset check.
//
// Attribution of a value to a column is positional. When an INSERT's column
// list and tuple arity disagree the excess values are still byte-checked but
// carry no declared type; that misattribution is a documented limitation of
// offline scanning.
type DataValueScanner struct {
	target   *version.Version
	fourByte map[string][]Sample
}

// NewDataValueScanner returns a scanner for one analysis run.
func NewDataValueScanner(target *version.Version) *DataValueScanner {
	return &DataValueScanner{
		target:   target,
		fourByte: make(map[string][]Sample),
	}
}

// FourByteTables returns the tables for which 4-byte code points were
// observed in row data, with up to maxRecordedSamples samples each. Keys are
// lowercase table names.
func (s *DataValueScanner) FourByteTables() map[string][]Sample {
	return s.fourByte
}

// Scan walks the INSERT ... VALUES statements of a SQL file and evaluates
// every active row-value rule against each tuple value. The registry supplies
// declared column types; a table missing from the registry yields an empty
// type map, not an error.
func (s *DataValueScanner) Scan(file, text string, reg *schema.Registry) []types.Finding {
	var findings []types.Finding
	for _, stmt := range sqltext.SplitStatements(text) {
		m := insertRe.FindStringSubmatch(stmt.Text)
		if m == nil {
			continue
		}
		table := sqltext.Unquote(m[1])
		columns := s.resolveColumns(m[2], reg.First(table))
		location := fmt.Sprintf("%s:%d", file, stmt.Line)

		rest := stmt.Text[len(m[0]):]
		pos := 0
		for {
			tuple, end, ok := sqltext.BalancedSpan(rest, pos)
			if !ok {
				break
			}
			findings = append(findings, s.checkTuple(tuple, columns, table, location)...)
			pos = end
		}
	}
	return findings
}

// resolveColumns maps tuple positions to column types. An explicit column
// list wins; otherwise the table's declared column order is used.
func (s *DataValueScanner) resolveColumns(columnList string, def *schema.TableDefinition) []columnSlot {
	if columnList != "" {
		names := sqltext.SplitTopLevel(strings.Trim(strings.TrimSpace(columnList), "()"), ',')
		slots := make([]columnSlot, 0, len(names))
		for _, raw := range names {
			name := sqltext.Unquote(raw)
			slot := columnSlot{Name: name}
			if def != nil {
				if col := def.Column(name); col != nil {
					slot.Type = col.RawType
				}
			}
			slots = append(slots, slot)
		}
		return slots
	}
	if def == nil {
		return nil
	}
	slots := make([]columnSlot, len(def.Columns))
	for i, col := range def.Columns {
		slots[i] = columnSlot{Name: col.Name, Type: col.RawType}
	}
	return slots
}

type columnSlot struct {
	Name string
	Type string
}

func (s *DataValueScanner) checkTuple(tuple string, columns []columnSlot, table, location string) []types.Finding {
	var findings []types.Finding
	context := truncate(strings.TrimSpace(tuple), 2*contextRadius)

	values := sqltext.SplitTopLevel(tuple, ',')
	for i, raw := range values {
		value := strings.TrimSpace(raw)
		var slot columnSlot
		if i < len(columns) {
			slot = columns[i]
		}

		for _, r := range rules.ByKind(rules.KindRowValue, s.target) {
			if r.Detection != rules.DetectionPredicate {
				continue
			}
			if slot.Type == "" || !r.Predicate(value, slot.Type) {
				continue
			}
			findings = append(findings, types.Finding{
				RuleID:      r.ID,
				Category:    r.Category,
				Severity:    r.Severity,
				Title:       r.Title,
				Description: r.Description,
				Suggestion:  r.Suggestion,
				Location:    location,
				Match:       truncate(value, contextRadius),
				Context:     context,
				Table:       table,
				Column:      slot.Name,
				TypeName:    slot.Type,
			})
		}

		findings = append(findings, s.checkBytes(value, table, slot, location, context)...)
	}
	return findings
}

// checkBytes runs the two byte-level checks that apply to every value
// regardless of declared type.
func (s *DataValueScanner) checkBytes(value, table string, slot columnSlot, location, context string) []types.Finding {
	var findings []types.Finding
	if hasFourByteCodePoint(value) {
		s.recordFourByte(table, value, location)
		findings = append(findings, s.embeddedFinding(rules.RuleFourByteCodePoint, value, table, slot, location, context))
	}
	if hasEmbeddedNul(value) {
		findings = append(findings, s.embeddedFinding(rules.RuleEmbeddedNulByte, value, table, slot, location, context))
	}
	return findings
}

func (s *DataValueScanner) embeddedFinding(ruleID, value, table string, slot columnSlot, location, context string) types.Finding {
	r := rules.Get(ruleID)
	return types.Finding{
		RuleID:      r.ID,
		Category:    r.Category,
		Severity:    r.Severity,
		Title:       r.Title,
		Description: r.Description,
		Suggestion:  r.Suggestion,
		Location:    location,
		Match:       truncate(value, contextRadius),
		Context:     context,
		Table:       table,
		Column:      slot.Name,
		TypeName:    slot.Type,
	}
}

func (s *DataValueScanner) recordFourByte(table, value, location string) {
	if table == "" {
		return
	}
	key := strings.ToLower(table)
	if len(s.fourByte[key]) >= maxRecordedSamples {
		return
	}
	s.fourByte[key] = append(s.fourByte[key], Sample{
		Value:    truncate(value, contextRadius),
		Location: location,
	})
}

// ScanLines runs the 4-byte code point check line by line over a
// tab-separated data file, at most maxLines lines. The table name, when the
// caller can derive one from the file name, feeds the charset correlation
// check; an empty table still yields per-line findings.
func (s *DataValueScanner) ScanLines(file, text, table string, maxLines int) []types.Finding {
	var findings []types.Finding
	line := 0
	for len(text) > 0 && line < maxLines {
		line++
		row := text
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			row = text[:nl]
			text = text[nl+1:]
		} else {
			text = ""
		}
		if !hasFourByteCodePoint(row) {
			continue
		}
		location := fmt.Sprintf("%s:%d", file, line)
		s.recordFourByte(table, row, location)
		findings = append(findings, s.embeddedFinding(
			rules.RuleFourByteCodePoint, row, table, columnSlot{}, location, truncate(row, 2*contextRadius)))
	}
	return findings
}

func hasFourByteCodePoint(s string) bool {
	for _, r := range s {
		if r > 0xFFFF {
			return true
		}
	}
	return false
}

// hasEmbeddedNul detects both a raw 0x00 byte and the \0 escape dumps use to
// spell one inside a quoted literal.
func hasEmbeddedNul(s string) bool {
	if strings.IndexByte(s, 0) >= 0 {
		return true
	}
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		if s[i+1] == '0' {
			return true
		}
		i++ // skip the escaped character
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && cut > max-4 {
		if (s[cut] & 0xC0) != 0x80 {
			break
		}
		cut--
	}
	return s[:cut] + "..."
}
