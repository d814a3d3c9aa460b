package rules

import (
	"regexp"
	"strings"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// newReservedWords are identifiers that became reserved words in MySQL 8.0
// (window functions, common table expressions, and friends). Objects with
// these names must be quoted or renamed after the upgrade.
var newReservedWords = []string{
	"cume_dist",
	"dense_rank",
	"empty",
	"except",
	"first_value",
	"function",
	"grouping",
	"groups",
	"json_table",
	"lag",
	"last_value",
	"lateral",
	"lead",
	"nth_value",
	"ntile",
	"of",
	"over",
	"percent_rank",
	"rank",
	"recursive",
	"row_number",
	"system",
	"window",
}

func init() {
	words := strings.Join(newReservedWords, "|")
	// Matches either a backtick-quoted identifier (how dumps spell object
	// names) or a bare name in table-definition position. A bare column
	// name inside a table body is not matched: telling it apart from an
	// ordinary word needs clause context a text pattern does not have.
	pattern := regexp.MustCompile(`(?i)(?:` + "`" + `(` + words + `)` + "`" + `|\bCREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(` + words + `)\b)`)

	Register(&Rule{
		ID:          "reserved-identifiers.new-keywords",
		Category:    types.CategoryReservedIdentifiers,
		Severity:    types.Severity_WARNING,
		Kind:        KindSchemaText,
		Detection:   DetectionPattern,
		Pattern:     pattern,
		Title:       "Identifier is a new reserved word",
		Description: "The identifier is a reserved word as of MySQL 8.0. Unquoted references to it will become syntax errors after the upgrade.",
		Suggestion:  "Quote the identifier with backticks everywhere it is referenced, or rename the object.",
		Since:       mustVersion("8.0"),
	})
}
