package rules

import (
	"fmt"
	"regexp"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

func init() {
	Register(&Rule{
		ID:          "invalid-objects.year2",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_ERROR,
		Kind:        KindSchemaText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\bYEAR\s*\(\s*2\s*\)`),
		Title:       "YEAR(2) column type removed",
		Description: "The two-digit YEAR(2) type was removed; tables containing it cannot be opened by MySQL 8.0 until they are rebuilt.",
		Suggestion:  "Convert the column to four-digit YEAR before upgrading.",
		Fix: func(ctx FixContext) string {
			table := tableFromContext(ctx.Context)
			column := columnBeforeMatch(ctx.Context, ctx.Match)
			if table == "" || column == "" {
				return ""
			}
			return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s YEAR;", quoteIdent(table), quoteIdent(column))
		},
	})

	Register(&Rule{
		ID:          "invalid-objects.type-table-option",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_ERROR,
		Kind:        KindSchemaText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\bTYPE\s*=\s*(\w+)`),
		Title:       "TYPE= table option removed",
		Description: "The TYPE= spelling of the storage engine table option was removed long before 8.0 but still appears in old dumps; the statement will fail on replay.",
		Suggestion:  "Rewrite the option as ENGINE=.",
		Fix: func(ctx FixContext) string {
			table := tableFromContext(ctx.Context)
			m := regexp.MustCompile(`(?i)\bTYPE\s*=\s*(\w+)`).FindStringSubmatch(ctx.Match)
			if table == "" || m == nil {
				return ""
			}
			return fmt.Sprintf("ALTER TABLE %s ENGINE=%s;", quoteIdent(table), m[1])
		},
	})

	Register(&Rule{
		ID:          "invalid-objects.utf8mb3-charset",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_WARNING,
		Kind:        KindSchemaText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\b(?:CHARSET|CHARACTER\s+SET)\s*=?\s*utf8(?:mb3)?\b`),
		Title:       "Deprecated utf8mb3 character set",
		Description: "utf8 is an alias for the three-byte utf8mb3 character set, which is deprecated in 8.0 and cannot store supplementary characters such as emoji.",
		Suggestion:  "Convert affected tables to utf8mb4.",
		Fix: func(ctx FixContext) string {
			table := tableFromContext(ctx.Context)
			if table == "" {
				return ""
			}
			return fmt.Sprintf("ALTER TABLE %s CONVERT TO CHARACTER SET utf8mb4;", quoteIdent(table))
		},
	})

	Register(&Rule{
		ID:          "invalid-objects.integer-display-width",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_INFO,
		Kind:        KindSchemaText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\b(?:TINYINT|SMALLINT|MEDIUMINT|INT|INTEGER|BIGINT)\s*\(\s*\d+\s*\)`),
		Title:       "Integer display width deprecated",
		Description: "Display widths for integer types (e.g. INT(11)) are deprecated as of 8.0 and dropped from SHOW CREATE TABLE output; code parsing type strings may break.",
		Suggestion:  "Drop the display width from the declaration.",
		Since:       mustVersion("8.0"),
	})

	Register(&Rule{
		ID:          "invalid-objects.zerofill",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_WARNING,
		Kind:        KindSchemaText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\bZEROFILL\b`),
		Title:       "ZEROFILL attribute deprecated",
		Description: "The ZEROFILL attribute is deprecated as of 8.0 and will be removed; padding behavior should move into the application or a generated column.",
		Suggestion:  "Use LPAD at query time or store the formatted value separately.",
		Since:       mustVersion("8.0"),
	})

	Register(&Rule{
		ID:          "invalid-objects.float-precision-syntax",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_WARNING,
		Kind:        KindSchemaText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\b(?:FLOAT|DOUBLE)\s*\(\s*\d+\s*,\s*\d+\s*\)`),
		Title:       "FLOAT(M,D) precision syntax deprecated",
		Description: "The nonstandard FLOAT(M,D)/DOUBLE(M,D) syntax is deprecated as of 8.0; rounding behavior tied to it will change when it is removed.",
		Suggestion:  "Use plain FLOAT/DOUBLE, or DECIMAL(M,D) when exact precision matters.",
		Since:       mustVersion("8.0"),
		Fix: func(ctx FixContext) string {
			table := tableFromContext(ctx.Context)
			column := columnBeforeMatch(ctx.Context, ctx.Match)
			if table == "" || column == "" {
				return ""
			}
			return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s DOUBLE;", quoteIdent(table), quoteIdent(column))
		},
	})

	Register(&Rule{
		ID:          "invalid-objects.partition-nonnative-engine",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_ERROR,
		Kind:        KindSchemaText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?is)\bENGINE\s*=\s*(?:MyISAM|CSV|ARCHIVE|BLACKHOLE|MERGE|FEDERATED|MEMORY)\b[^;]{0,400}?\bPARTITION\s+BY\b|\bPARTITION\s+BY\b[^;]{0,400}?\bENGINE\s*=\s*(?:MyISAM|CSV|ARCHIVE|BLACKHOLE|MERGE|FEDERATED|MEMORY)\b`),
		Title:       "Partitioned table on non-native engine",
		Description: "MySQL 8.0 removed generic partitioning; only engines with native partitioning support (InnoDB, NDB) may carry partitioned tables. The table will be unusable after upgrade.",
		Suggestion:  "Move the table to InnoDB or remove the partitioning before upgrading.",
		Since:       mustVersion("8.0"),
		Fix: func(ctx FixContext) string {
			table := tableFromContext(ctx.Context)
			if table == "" {
				return ""
			}
			return fmt.Sprintf("ALTER TABLE %s ENGINE=InnoDB;", quoteIdent(table))
		},
	})

	Register(&Rule{
		ID:          "invalid-objects.group-by-asc-desc",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_ERROR,
		Kind:        KindQueryText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\bGROUP\s+BY\s+[^;()]{0,120}?\b(?:ASC|DESC)\b`),
		Title:       "GROUP BY ... ASC/DESC removed",
		Description: "Sorting via GROUP BY col ASC/DESC was removed in 8.0; queries using it will fail with a syntax error.",
		Suggestion:  "Add an explicit ORDER BY clause instead.",
		Since:       mustVersion("8.0"),
	})

	Register(&Rule{
		ID:          "invalid-objects.sql-calc-found-rows",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_WARNING,
		Kind:        KindQueryText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\bSQL_CALC_FOUND_ROWS\b`),
		Title:       "SQL_CALC_FOUND_ROWS deprecated",
		Description: "SQL_CALC_FOUND_ROWS and FOUND_ROWS() are deprecated as of 8.0.17 and scheduled for removal.",
		Suggestion:  "Run a separate COUNT(*) query instead.",
		Since:       mustVersion("8.0"),
	})

	Register(&Rule{
		ID:          "invalid-objects.removed-functions",
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_ERROR,
		Kind:        KindQueryText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\b(?:ENCODE|DECODE|ENCRYPT|DES_ENCRYPT|DES_DECRYPT|PASSWORD)\s*\(`),
		Title:       "Removed SQL function",
		Description: "ENCODE, DECODE, ENCRYPT, DES_ENCRYPT, DES_DECRYPT and PASSWORD() were removed in MySQL 8.0; statements calling them will fail.",
		Suggestion:  "Use AES_ENCRYPT/AES_DECRYPT for data and account-management statements for passwords.",
		Since:       mustVersion("8.0"),
	})
}
