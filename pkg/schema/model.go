// Package schema provides a lightweight structural model of CREATE TABLE
// statements and the per-run registry the cross-reference validator works
// against. The extractor is a clause-level tokenizer, not a SQL parser: it
// splits the balanced-parenthesis body of a CREATE TABLE into top-level
// clauses and classifies each by its leading keyword. Clauses it cannot make
// sense of are skipped, never fatal.
package schema

import (
	"strconv"
	"strings"
)

// TableDefinition is the structured form of one CREATE TABLE statement.
type TableDefinition struct {
	Name        string
	Engine      string
	Charset     string
	Collation   string
	Columns     []ColumnDefinition
	Indexes     []IndexDefinition
	ForeignKeys []ForeignKeyDefinition
	Partitions  []PartitionDefinition
	// PartitionBy is the partitioning strategy (RANGE, LIST, HASH, KEY),
	// empty when the table is not partitioned.
	PartitionBy string

	// File and Line locate the defining statement.
	File string
	Line int
}

// Column returns the column with the given name (case-insensitive), or nil.
func (t *TableDefinition) Column(name string) *ColumnDefinition {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i]
		}
	}
	return nil
}

// UniqueIndexes returns the primary key and all unique indexes.
func (t *TableDefinition) UniqueIndexes() []IndexDefinition {
	var out []IndexDefinition
	for _, idx := range t.Indexes {
		if idx.Unique {
			out = append(out, idx)
		}
	}
	return out
}

// GeneratedColumn describes a generated-column clause.
type GeneratedColumn struct {
	Expression string
	Stored     bool
}

// ColumnDefinition is a single column clause of a table definition.
type ColumnDefinition struct {
	Name string
	// RawType is the declared type including length and precision,
	// e.g. "varchar(255)" or "decimal(10,2) unsigned".
	RawType  string
	Nullable bool
	// Default is the declared default literal, nil when absent.
	Default   *string
	Charset   string
	Collation string
	// Extra carries flags such as "auto_increment".
	Extra     string
	Generated *GeneratedColumn
}

// BaseType returns the lowercase type name without length or attributes,
// e.g. "varchar" for "VARCHAR(255) CHARACTER SET utf8".
func (c *ColumnDefinition) BaseType() string {
	t := strings.TrimSpace(strings.ToLower(c.RawType))
	for i := 0; i < len(t); i++ {
		if t[i] == '(' || t[i] == ' ' {
			return t[:i]
		}
	}
	return t
}

// DeclaredWidth returns the declared character width for CHAR/VARCHAR types,
// or 0 when the type carries no usable width.
func (c *ColumnDefinition) DeclaredWidth() int {
	switch c.BaseType() {
	case "char", "varchar":
	default:
		return 0
	}
	open := strings.IndexByte(c.RawType, '(')
	if open < 0 {
		return 0
	}
	close := strings.IndexByte(c.RawType[open:], ')')
	if close < 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.RawType[open+1 : open+close]))
	if err != nil {
		return 0
	}
	return n
}

// IsEnum reports whether the column is an ENUM.
func (c *ColumnDefinition) IsEnum() bool {
	return c.BaseType() == "enum"
}

// EnumValues returns the literal value list of an ENUM column, nil otherwise.
func (c *ColumnDefinition) EnumValues() []string {
	if !c.IsEnum() {
		return nil
	}
	open := strings.IndexByte(c.RawType, '(')
	close := strings.LastIndexByte(c.RawType, ')')
	if open < 0 || close <= open {
		return nil
	}
	return parseQuotedValues(c.RawType[open+1 : close])
}

// PrimaryKeyName is the sentinel index name used for primary keys.
const PrimaryKeyName = "PRIMARY"

// IndexPart is one key part of an index: a column name plus an optional
// prefix length in characters (0 means the full column).
type IndexPart struct {
	Column string
	Prefix int
}

// IndexDefinition is a key clause of a table definition. Primary keys use
// the PrimaryKeyName sentinel and are always unique.
type IndexDefinition struct {
	Name   string
	Unique bool
	Parts  []IndexPart
}

// Columns returns the ordered column names of the index.
func (i *IndexDefinition) Columns() []string {
	out := make([]string, len(i.Parts))
	for n, p := range i.Parts {
		out[n] = p.Column
	}
	return out
}

// CoversAsPrefix reports whether cols form a prefix of the index column list
// (case-insensitive). An empty cols slice is never covered.
func (i *IndexDefinition) CoversAsPrefix(cols []string) bool {
	if len(cols) == 0 || len(cols) > len(i.Parts) {
		return false
	}
	for n, c := range cols {
		if !strings.EqualFold(i.Parts[n].Column, c) {
			return false
		}
	}
	return true
}

// ForeignKeyDefinition is a FOREIGN KEY clause of a table definition.
type ForeignKeyDefinition struct {
	Name              string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          string
	OnUpdate          string
}

// PartitionDefinition is one named partition of a partitioned table.
type PartitionDefinition struct {
	Name string
	// Boundary is the raw boundary expression: a VALUES LESS THAN operand
	// or a VALUES IN list; empty for HASH/KEY partitions.
	Boundary string
}
