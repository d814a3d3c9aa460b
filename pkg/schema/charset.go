package schema

import "strings"

// MaxKeyLength is the InnoDB maximum index key length in bytes.
const MaxKeyLength = 3072

// MaxEnumElementLength is the maximum length of a single ENUM element,
// measured in characters.
const MaxEnumElementLength = 255

// byteMultipliers maps a character set to its maximum bytes per character.
// Unknown character sets fall back to 1.
var byteMultipliers = map[string]int{
	"utf8mb4": 4,
	"utf16":   4,
	"utf16le": 4,
	"utf32":   4,
	"gb18030": 4,

	"utf8":    3,
	"utf8mb3": 3,
	"eucjpms": 3,
	"ujis":    3,

	"big5":   2,
	"gbk":    2,
	"gb2312": 2,
	"sjis":   2,
	"euckr":  2,
	"cp932":  2,

	"latin1": 1,
	"latin2": 1,
	"ascii":  1,
	"binary": 1,
	"cp850":  1,
	"cp1251": 1,
	"tis620": 1,
}

// ByteMultiplier returns the maximum bytes-per-character for a character set
// name. The name may carry a collation-style suffix; only the leading charset
// token is considered. Unknown or empty names resolve to 1.
func ByteMultiplier(charset string) int {
	cs := strings.ToLower(strings.TrimSpace(charset))
	if m, ok := byteMultipliers[cs]; ok {
		return m
	}
	// Collation names such as utf8mb4_general_ci resolve through their
	// charset prefix.
	if i := strings.IndexByte(cs, '_'); i > 0 {
		if m, ok := byteMultipliers[cs[:i]]; ok {
			return m
		}
	}
	return 1
}

// IsFourByte reports whether the character set can represent 4-byte code
// points (i.e. the full Unicode range).
func IsFourByte(charset string) bool {
	return ByteMultiplier(charset) == 4
}

// ResolveColumnCharset returns the effective character set for a column:
// the column's own override when present, the table default otherwise.
func ResolveColumnCharset(table *TableDefinition, col *ColumnDefinition) string {
	if col != nil && col.Charset != "" {
		return col.Charset
	}
	if col != nil && col.Collation != "" {
		return col.Collation
	}
	if table.Charset != "" {
		return table.Charset
	}
	return table.Collation
}
