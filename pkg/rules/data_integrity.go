package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// Rule IDs referenced by scanner and validator code.
const (
	RuleZeroDate            = "data-integrity.zero-date"
	RuleEnumEmptyValue      = "data-integrity.enum-empty-value"
	RuleEnumNumericValue    = "data-integrity.enum-numeric-value"
	RuleTimestampRange      = "data-integrity.timestamp-range"
	RuleFourByteCodePoint   = "data-integrity.four-byte-code-point"
	RuleEmbeddedNulByte     = "data-integrity.embedded-nul-byte"
	RuleCharsetDataMismatch = "data-integrity.charset-data-mismatch"
)

var (
	zeroDateRe     = regexp.MustCompile(`^'?0000-00-00`)
	numericValueRe = regexp.MustCompile(`^[0-9]+$`)
	yearPrefixRe   = regexp.MustCompile(`^'?(\d{4})`)
)

// stripQuotes removes one layer of single quotes from a value literal.
func stripQuotes(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return v[1 : len(v)-1]
	}
	return v
}

func typeIs(columnType string, names ...string) bool {
	base := strings.ToLower(columnType)
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(base)
	for _, n := range names {
		if base == n {
			return true
		}
	}
	return false
}

func init() {
	Register(&Rule{
		ID:        RuleZeroDate,
		Category:  types.CategoryDataIntegrity,
		Severity:  types.Severity_WARNING,
		Kind:      KindRowValue,
		Detection: DetectionPredicate,
		Predicate: func(value, columnType string) bool {
			return typeIs(columnType, "date", "datetime") && zeroDateRe.MatchString(strings.TrimSpace(value))
		},
		Title:       "Zero-valued date",
		Description: "The row stores a '0000-00-00' date. With the 8.0 default sql_mode (NO_ZERO_DATE), re-inserting this value will be rejected.",
		Suggestion:  "Replace zero dates with NULL or a sentinel date before migrating.",
	})

	Register(&Rule{
		ID:        RuleEnumEmptyValue,
		Category:  types.CategoryDataIntegrity,
		Severity:  types.Severity_WARNING,
		Kind:      KindRowValue,
		Detection: DetectionPredicate,
		Predicate: func(value, columnType string) bool {
			return typeIs(columnType, "enum") && stripQuotes(value) == "" && strings.TrimSpace(value) != "NULL"
		},
		Title:       "Empty string in ENUM column",
		Description: "An empty string in an ENUM column is the error placeholder MySQL stores for invalid values; strict mode on 8.0 rejects it on re-insert.",
		Suggestion:  "Map empty ENUM values to a real element or NULL before migrating.",
	})

	Register(&Rule{
		ID:        RuleEnumNumericValue,
		Category:  types.CategoryDataIntegrity,
		Severity:  types.Severity_WARNING,
		Kind:      KindRowValue,
		Detection: DetectionPredicate,
		Predicate: func(value, columnType string) bool {
			return typeIs(columnType, "enum") && numericValueRe.MatchString(strings.TrimSpace(value))
		},
		Title:       "Numeric literal in ENUM column",
		Description: "A bare number stored into an ENUM is interpreted as an element index, not a value; the row's meaning silently depends on element order and is fragile across dump and reload.",
		Suggestion:  "Store the ENUM element value, quoted, instead of its index.",
	})

	Register(&Rule{
		ID:        RuleTimestampRange,
		Category:  types.CategoryDataIntegrity,
		Severity:  types.Severity_WARNING,
		Kind:      KindRowValue,
		Detection: DetectionPredicate,
		Predicate: func(value, columnType string) bool {
			if !typeIs(columnType, "timestamp") {
				return false
			}
			m := yearPrefixRe.FindStringSubmatch(strings.TrimSpace(value))
			if m == nil {
				return false
			}
			year, err := strconv.Atoi(m[1])
			if err != nil {
				return false
			}
			return year < 1970 || year > 2038
		},
		Title:       "TIMESTAMP value outside valid range",
		Description: "TIMESTAMP columns can only represent 1970-01-01 through 2038-01-19; the stored value cannot round-trip through a TIMESTAMP column.",
		Suggestion:  "Use DATETIME for values outside the TIMESTAMP range.",
	})

	// The two byte-level checks below are detected inside the data scanner
	// itself: they apply to every value regardless of declared type, and a
	// per-rule regexp pass over row data would scan the same bytes twice.
	Register(&Rule{
		ID:          RuleFourByteCodePoint,
		Category:    types.CategoryDataIntegrity,
		Severity:    types.Severity_WARNING,
		Kind:        KindRowValue,
		Detection:   DetectionEmbedded,
		Title:       "4-byte code point in value",
		Description: "The value contains a code point outside the Basic Multilingual Plane. Columns declared with a 3-byte character set (utf8/utf8mb3) silently truncate or reject such data.",
		Suggestion:  "Convert the owning table or column to utf8mb4.",
	})

	Register(&Rule{
		ID:          RuleEmbeddedNulByte,
		Category:    types.CategoryDataIntegrity,
		Severity:    types.Severity_WARNING,
		Kind:        KindRowValue,
		Detection:   DetectionEmbedded,
		Title:       "Embedded NUL byte in value",
		Description: "The value embeds a 0x00 byte. Text-typed columns and many client libraries mishandle NUL bytes; loads into 8.0 with strict mode may fail.",
		Suggestion:  "Store binary payloads in BLOB/VARBINARY columns.",
	})
}
