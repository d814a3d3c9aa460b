package rules

import (
	"testing"

	version "github.com/hashicorp/go-version"
	"github.com/stretchr/testify/require"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

func TestCatalogIntegrity(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	seen := make(map[string]bool)
	for _, r := range all {
		require.False(t, seen[r.ID], "duplicate rule id %s", r.ID)
		seen[r.ID] = true
		require.True(t, r.Category.Valid(), "rule %s has invalid category", r.ID)
		require.NotEqual(t, types.Severity_SEVERITY_UNSPECIFIED, r.Severity, "rule %s", r.ID)
		require.NotEmpty(t, r.Title, "rule %s", r.ID)
		require.NotEmpty(t, r.Description, "rule %s", r.ID)
		switch r.Detection {
		case DetectionPattern:
			require.NotNil(t, r.Pattern, "rule %s", r.ID)
		case DetectionPredicate:
			require.NotNil(t, r.Predicate, "rule %s", r.ID)
		}
	}
}

func TestExactlyTwoEmbeddedDataRules(t *testing.T) {
	var embedded []string
	for _, r := range All() {
		if r.Detection == DetectionEmbedded {
			embedded = append(embedded, r.ID)
		}
	}
	require.ElementsMatch(t, []string{RuleFourByteCodePoint, RuleEmbeddedNulByte}, embedded)
}

func TestRegisterPanics(t *testing.T) {
	require.Panics(t, func() { Register(nil) })
	require.Panics(t, func() {
		Register(&Rule{ID: "privileges.grant-super"}) // duplicate
	})
	require.Panics(t, func() {
		Register(&Rule{
			ID:        "test.bad-category",
			Category:  "no-such-category",
			Severity:  types.Severity_ERROR,
			Kind:      KindSchemaText,
			Detection: DetectionCrossRef,
		})
	})
	require.Panics(t, func() {
		Register(&Rule{
			ID:        "test.pattern-missing",
			Category:  types.CategoryInvalidObjects,
			Severity:  types.Severity_ERROR,
			Kind:      KindSchemaText,
			Detection: DetectionPattern,
		})
	})
}

func TestByKindAndVersionGating(t *testing.T) {
	v80 := version.Must(version.NewVersion("8.0"))
	v57 := version.Must(version.NewVersion("5.7"))

	configRules := ByKind(KindConfigText, v80)
	require.NotEmpty(t, configRules)
	for _, r := range configRules {
		require.Equal(t, KindConfigText, r.Kind)
	}

	// Rules gated on 8.0 must not fire when checking an upgrade to 5.7.
	for _, r := range ByKind(KindConfigText, v57) {
		require.Nil(t, r.Since, "rule %s should be version-gated out", r.ID)
	}

	// A nil target activates everything.
	require.GreaterOrEqual(t, len(ByKind(KindConfigText, nil)), len(configRules))
}

func TestConfigKeyHyphenEquivalence(t *testing.T) {
	r := Get("removed-variables.query_cache_size")
	require.NotNil(t, r)
	require.True(t, r.Pattern.MatchString("query_cache_size = 64M"))
	require.True(t, r.Pattern.MatchString("query-cache-size = 64M"))
	require.True(t, r.Pattern.MatchString("  Query-Cache-Size=0"))
	require.False(t, r.Pattern.MatchString("other_query_cache_size = 1"))
}

func TestGrantSuperFix(t *testing.T) {
	r := Get("privileges.grant-super")
	require.NotNil(t, r)
	ctx := FixContext{
		Match:   "GRANT SELECT, SUPER",
		Context: "GRANT SELECT, SUPER ON *.* TO 'admin'@'%';",
	}
	fix := r.Fix(ctx)
	require.Contains(t, fix, "REVOKE SUPER")
	require.Contains(t, fix, "'admin'@'%'")

	require.Empty(t, r.Fix(FixContext{Context: "GRANT SUPER ON *.*"}))
}

func TestNativePasswordFix(t *testing.T) {
	r := Get("authentication.mysql-native-password")
	require.NotNil(t, r)
	fix := r.Fix(FixContext{
		Context: "CREATE USER 'app'@'localhost' IDENTIFIED WITH mysql_native_password BY 'x';",
	})
	require.Contains(t, fix, "caching_sha2_password")
	require.Contains(t, fix, "'app'@'localhost'")

	require.Empty(t, r.Fix(FixContext{Context: "IDENTIFIED WITH mysql_native_password"}))
}

func TestYear2Fix(t *testing.T) {
	r := Get("invalid-objects.year2")
	require.NotNil(t, r)
	fix := r.Fix(FixContext{
		Match:   "YEAR(2)",
		Context: "CREATE TABLE `vintage` (\n  `bottled` YEAR(2) NOT NULL",
	})
	require.Equal(t, "ALTER TABLE `vintage` MODIFY COLUMN `bottled` YEAR;", fix)

	require.Empty(t, r.Fix(FixContext{Match: "YEAR(2)", Context: "YEAR(2) NOT NULL"}))
}

func TestReservedIdentifierPattern(t *testing.T) {
	r := Get("reserved-identifiers.new-keywords")
	require.NotNil(t, r)
	require.True(t, r.Pattern.MatchString("CREATE TABLE `rank` (id INT)"))
	require.True(t, r.Pattern.MatchString("CREATE TABLE rank (id INT)"))
	require.True(t, r.Pattern.MatchString("`row_number` INT NOT NULL"))
	require.False(t, r.Pattern.MatchString("CREATE TABLE ranking (id INT)"))
	require.False(t, r.Pattern.MatchString("ORDER BY rank_value"))

	// Bare column names inside a table body are out of the pattern's reach.
	require.False(t, r.Pattern.MatchString("CREATE TABLE t (rank INT)"))
}

func TestDataIntegrityPredicates(t *testing.T) {
	tests := []struct {
		rule       string
		value      string
		columnType string
		want       bool
	}{
		{RuleZeroDate, "'0000-00-00'", "date", true},
		{RuleZeroDate, "'0000-00-00 00:00:00'", "datetime", true},
		{RuleZeroDate, "'2024-01-01'", "date", false},
		{RuleZeroDate, "'0000-00-00'", "varchar(20)", false},
		{RuleEnumEmptyValue, "''", "enum('a','b')", true},
		{RuleEnumEmptyValue, "'a'", "enum('a','b')", false},
		{RuleEnumEmptyValue, "NULL", "enum('a','b')", false},
		{RuleEnumNumericValue, "2", "enum('a','b')", true},
		{RuleEnumNumericValue, "'a'", "enum('a','b')", false},
		{RuleTimestampRange, "'1969-12-31 23:59:59'", "timestamp", true},
		{RuleTimestampRange, "'2039-01-01 00:00:00'", "timestamp", true},
		{RuleTimestampRange, "'2020-06-15 12:00:00'", "timestamp", false},
		{RuleTimestampRange, "'2039-01-01'", "datetime", false},
	}
	for _, tc := range tests {
		r := Get(tc.rule)
		require.NotNil(t, r, tc.rule)
		require.Equal(t, tc.want, r.Predicate(tc.value, tc.columnType),
			"%s value=%s type=%s", tc.rule, tc.value, tc.columnType)
	}
}
