// Package crossref implements the second analysis pass: checks that need the
// complete schema registry rather than a single file, such as foreign key
// target validation and index key-size arithmetic.
package crossref

import (
	"fmt"
	"strings"

	"github.com/nsxbet/upgrade-checker/pkg/rules"
	"github.com/nsxbet/upgrade-checker/pkg/scanner"
	"github.com/nsxbet/upgrade-checker/pkg/schema"
	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// fixedTypeSizes gives the index key contribution, in bytes, of
// non-character column types.
var fixedTypeSizes = map[string]int{
	"tinyint":   1,
	"smallint":  2,
	"mediumint": 3,
	"int":       4,
	"integer":   4,
	"bigint":    8,
	"float":     4,
	"double":    8,
	"decimal":   8,
	"date":      3,
	"time":      3,
	"year":      1,
	"datetime":  8,
	"timestamp": 4,
}

// Validate runs every cross-reference check against the filled registry.
// fourByteData maps lowercase table names to row-value samples containing
// 4-byte code points, as recorded by the data scanner; nil is a valid input.
func Validate(reg *schema.Registry, fourByteData map[string][]scanner.Sample) []types.Finding {
	var findings []types.Finding
	for _, name := range reg.Names() {
		decls := reg.Declarations(name)
		for _, def := range decls {
			findings = append(findings, checkForeignKeys(reg, def)...)
			findings = append(findings, checkIndexSizes(def)...)
			findings = append(findings, checkEnumElements(def)...)
		}
		findings = append(findings, checkDuplicates(name, decls)...)
		findings = append(findings, checkCharsetData(name, decls, fourByteData)...)
	}
	return findings
}

// checkForeignKeys validates each foreign key of the table: the referenced
// table must exist in the export, and the referenced columns must form a
// prefix of some PRIMARY KEY or UNIQUE index on it. A name declared several
// times passes when any declaration carries a covering index.
func checkForeignKeys(reg *schema.Registry, def *schema.TableDefinition) []types.Finding {
	var findings []types.Finding
	for _, fk := range def.ForeignKeys {
		refs := reg.Declarations(fk.ReferencedTable)
		if len(refs) == 0 {
			findings = append(findings, newFinding(rules.RuleFKMissingTable, def,
				fmt.Sprintf("foreign key %s on table %s references table %s, which is not defined in any submitted file",
					fk.Name, def.Name, fk.ReferencedTable),
				func(f *types.Finding) {
					f.Table = def.Name
				}))
			continue
		}
		if coveredByAny(refs, fk.ReferencedColumns) {
			continue
		}
		cols := quoteJoin(fk.ReferencedColumns)
		findings = append(findings, newFinding(rules.RuleFKTargetNotIndexed, def,
			fmt.Sprintf("foreign key %s on table %s references %s(%s), but no PRIMARY KEY or UNIQUE index on %s starts with those columns",
				fk.Name, def.Name, fk.ReferencedTable, strings.Join(fk.ReferencedColumns, ", "), fk.ReferencedTable),
			func(f *types.Finding) {
				f.Table = def.Name
				f.FixStatement = fmt.Sprintf("ALTER TABLE `%s` ADD UNIQUE INDEX (%s);", fk.ReferencedTable, cols)
			}))
	}
	return findings
}

func coveredByAny(decls []*schema.TableDefinition, cols []string) bool {
	for _, ref := range decls {
		for _, idx := range ref.UniqueIndexes() {
			if idx.CoversAsPrefix(cols) {
				return true
			}
		}
	}
	return false
}

// checkIndexSizes computes the worst-case key size of every index: character
// columns count their declared width (or prefix length) times the charset's
// maximum bytes per character, other types their fixed storage size.
func checkIndexSizes(def *schema.TableDefinition) []types.Finding {
	var findings []types.Finding
	for _, idx := range def.Indexes {
		total := 0
		var parts []string
		for _, part := range idx.Parts {
			col := def.Column(part.Column)
			if col == nil {
				continue
			}
			size := keyPartSize(def, col, part.Prefix)
			total += size
			parts = append(parts, fmt.Sprintf("%s (%d bytes)", part.Column, size))
		}
		if total <= schema.MaxKeyLength {
			continue
		}
		findings = append(findings, newFinding(rules.RuleIndexTooLarge, def,
			fmt.Sprintf("index %s on table %s spans %s for a key size of %d bytes, over the %d-byte limit",
				indexDisplayName(idx), def.Name, strings.Join(parts, ", "), total, schema.MaxKeyLength),
			func(f *types.Finding) {
				f.Table = def.Name
			}))
	}
	return findings
}

func keyPartSize(def *schema.TableDefinition, col *schema.ColumnDefinition, prefix int) int {
	if fixed, ok := fixedTypeSizes[col.BaseType()]; ok {
		return fixed
	}
	width := col.DeclaredWidth()
	if prefix > 0 {
		width = prefix
	}
	return width * schema.ByteMultiplier(schema.ResolveColumnCharset(def, col))
}

func indexDisplayName(idx schema.IndexDefinition) string {
	if idx.Name == schema.PrimaryKeyName {
		return "PRIMARY KEY"
	}
	if idx.Name == "" {
		return "(unnamed)"
	}
	return idx.Name
}

// checkEnumElements flags ENUM elements over the 255-character limit.
func checkEnumElements(def *schema.TableDefinition) []types.Finding {
	var findings []types.Finding
	for i := range def.Columns {
		col := &def.Columns[i]
		values := col.EnumValues()
		for _, v := range values {
			n := len([]rune(v))
			if n <= schema.MaxEnumElementLength {
				continue
			}
			findings = append(findings, newFinding(rules.RuleEnumElementTooLong, def,
				fmt.Sprintf("ENUM column %s.%s has an element of %d characters, over the %d-character limit",
					def.Name, col.Name, n, schema.MaxEnumElementLength),
				func(f *types.Finding) {
					f.Table = def.Name
					f.Column = col.Name
					f.TypeName = col.RawType
					f.EnumValues = values
				}))
		}
	}
	return findings
}

// checkDuplicates emits one informational finding per table name whose
// redeclarations disagree on engine or character set.
func checkDuplicates(name string, decls []*schema.TableDefinition) []types.Finding {
	if len(decls) < 2 {
		return nil
	}
	conflict := false
	first := decls[0]
	for _, d := range decls[1:] {
		if !strings.EqualFold(d.Engine, first.Engine) || !strings.EqualFold(d.Charset, first.Charset) {
			conflict = true
			break
		}
	}
	if !conflict {
		return nil
	}
	var sites []string
	for _, d := range decls {
		sites = append(sites, fmt.Sprintf("%s:%d (engine %s, charset %s)",
			d.File, d.Line, orUnset(d.Engine), orUnset(d.Charset)))
	}
	return []types.Finding{newFinding(rules.RuleDuplicateTableDef, first,
		fmt.Sprintf("table %s is declared %d times with conflicting options: %s",
			name, len(decls), strings.Join(sites, "; ")),
		func(f *types.Finding) {
			f.Table = first.Name
		})}
}

// checkCharsetData correlates the 4-byte row data recorded by the data
// scanner with the table's character set. The finding is suppressed when any
// declaration of the table already uses a 4-byte charset, or when no
// declaration states a charset at all.
func checkCharsetData(name string, decls []*schema.TableDefinition, fourByteData map[string][]scanner.Sample) []types.Finding {
	samples := fourByteData[name]
	if len(samples) == 0 || len(decls) == 0 {
		return nil
	}
	// The finding reports the first declaration that states a charset, so
	// the message never names an empty one.
	var decl *schema.TableDefinition
	var declCS string
	for _, d := range decls {
		cs := d.Charset
		if cs == "" {
			cs = d.Collation
		}
		if cs == "" {
			continue
		}
		if schema.IsFourByte(cs) {
			return nil
		}
		if decl == nil {
			decl, declCS = d, cs
		}
	}
	if decl == nil {
		return nil
	}
	return []types.Finding{newFinding(rules.RuleCharsetDataMismatch, decl,
		fmt.Sprintf("table %s uses character set %s, but row data at %s contains 4-byte code points",
			decl.Name, declCS, samples[0].Location),
		func(f *types.Finding) {
			f.Table = decl.Name
			f.Match = samples[0].Value
		})}
}

// newFinding builds a finding for a cross-reference rule, locating it at the
// table's defining statement. detail becomes both the description and the
// dedup context.
func newFinding(ruleID string, def *schema.TableDefinition, detail string, decorate func(*types.Finding)) types.Finding {
	r := rules.Get(ruleID)
	f := types.Finding{
		RuleID:      r.ID,
		Category:    r.Category,
		Severity:    r.Severity,
		Title:       r.Title,
		Description: r.Description + " " + strings.ToUpper(detail[:1]) + detail[1:] + ".",
		Suggestion:  r.Suggestion,
		Location:    fmt.Sprintf("%s:%d", def.File, def.Line),
		Context:     detail,
	}
	if decorate != nil {
		decorate(&f)
	}
	return f
}

func quoteJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = "`" + c + "`"
	}
	return strings.Join(quoted, ", ")
}

func orUnset(s string) string {
	if s == "" {
		return "unset"
	}
	return s
}
