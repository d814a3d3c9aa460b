package analyzer

import (
	"context"
	"testing"

	version "github.com/hashicorp/go-version"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/nsxbet/upgrade-checker/pkg/config"
	"github.com/nsxbet/upgrade-checker/pkg/rules"
	"github.com/nsxbet/upgrade-checker/pkg/types"
)

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

const brokenSchemaDDL = "CREATE TABLE `legacy` (\n" +
	"  `id` INT(11) NOT NULL,\n" +
	"  `born` YEAR(2) NOT NULL,\n" +
	"  PRIMARY KEY (`id`)\n" +
	") TYPE=MyISAM;\n"

func TestAnalyzeSingleSchemaFile(t *testing.T) {
	fs := memFs(t, map[string]string{"schema.sql": brokenSchemaDDL})

	a := New(WithFs(fs))
	result, err := a.Analyze(context.Background(), "schema.sql")
	require.NoError(t, err)

	var ids []string
	for _, f := range result.Findings {
		ids = append(ids, f.RuleID)
	}
	require.Contains(t, ids, "invalid-objects.year2")
	require.Contains(t, ids, "invalid-objects.type-table-option")
	require.Contains(t, ids, "invalid-objects.integer-display-width")
	require.Equal(t, result.Summary.Total, len(result.Findings))
	require.True(t, result.HasErrors())
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	fs := memFs(t, map[string]string{
		"schema.sql": brokenSchemaDDL,
		"my.cnf":     "[mysqld]\nquery_cache_size = 64M\n",
	})

	first, err := New(WithFs(fs)).Analyze(context.Background(), "schema.sql", "my.cnf")
	require.NoError(t, err)
	second, err := New(WithFs(fs)).Analyze(context.Background(), "schema.sql", "my.cnf")
	require.NoError(t, err)

	require.Equal(t, first.Findings, second.Findings)
	require.Equal(t, first.Summary, second.Summary)
}

func TestAnalyzeDedupAcrossScans(t *testing.T) {
	// Submitting the same file twice must not duplicate findings.
	fs := memFs(t, map[string]string{"schema.sql": brokenSchemaDDL})

	once, err := New(WithFs(fs)).Analyze(context.Background(), "schema.sql")
	require.NoError(t, err)
	twice, err := New(WithFs(fs)).Analyze(context.Background(), "schema.sql", "schema.sql")
	require.NoError(t, err)

	require.Equal(t, once.Summary.Total, twice.Summary.Total)
}

func TestCrossFileCharsetCorrelation(t *testing.T) {
	// The schema and the data live in different files; the correlation
	// finding requires both.
	fs := memFs(t, map[string]string{
		"schema.sql": "CREATE TABLE posts (body TEXT) DEFAULT CHARSET=utf8;",
		"data.sql":   "INSERT INTO posts VALUES ('smile \U0001F600');",
	})

	result, err := New(WithFs(fs)).Analyze(context.Background(), "schema.sql", "data.sql")
	require.NoError(t, err)

	var ids []string
	for _, f := range result.Findings {
		ids = append(ids, f.RuleID)
	}
	require.Contains(t, ids, rules.RuleCharsetDataMismatch)
	require.Contains(t, ids, rules.RuleFourByteCodePoint)
}

func TestTsvDataFeedsCorrelation(t *testing.T) {
	fs := memFs(t, map[string]string{
		"schema.sql":        "CREATE TABLE posts (body TEXT) DEFAULT CHARSET=utf8;",
		"shop@posts@@0.tsv": "1\tsmile \U0001F600\n",
	})

	result, err := New(WithFs(fs)).Analyze(context.Background(), "schema.sql", "shop@posts@@0.tsv")
	require.NoError(t, err)

	var ids []string
	for _, f := range result.Findings {
		ids = append(ids, f.RuleID)
	}
	require.Contains(t, ids, rules.RuleCharsetDataMismatch)
}

func TestMetadataCharsetFinding(t *testing.T) {
	fs := memFs(t, map[string]string{
		"shop@.json": `{"options": {"defaultCharacterSet": "latin1"}}`,
	})

	result, err := New(WithFs(fs)).Analyze(context.Background(), "shop@.json")
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)
	require.Equal(t, rules.RuleDumpCharacterSet, result.Findings[0].RuleID)
	require.Equal(t, "latin1", result.Findings[0].Match)

	// utf8mb4 metadata is clean; unparseable metadata is skipped.
	fs = memFs(t, map[string]string{
		"ok@.json":  `{"options": {"defaultCharacterSet": "utf8mb4"}}`,
		"bad@.json": `{not json`,
	})
	result, err = New(WithFs(fs)).Analyze(context.Background(), "ok@.json", "bad@.json")
	require.NoError(t, err)
	require.Empty(t, result.Findings)
}

func TestProgressMarkersSkipped(t *testing.T) {
	fs := memFs(t, map[string]string{
		"@.done.json":             `{not even json`,
		"load-progress.1234.json": `garbage`,
	})

	result, err := New(WithFs(fs)).Analyze(context.Background(), "@.done.json", "load-progress.1234.json")
	require.NoError(t, err)
	require.Empty(t, result.Findings)
}

func TestUnreadableFileDoesNotAbortRun(t *testing.T) {
	fs := memFs(t, map[string]string{"schema.sql": brokenSchemaDDL})

	result, err := New(WithFs(fs)).Analyze(context.Background(), "absent.sql", "schema.sql")
	require.NoError(t, err)

	require.Len(t, result.FileErrors, 1)
	require.Equal(t, "absent.sql", result.FileErrors[0].File)
	require.Contains(t, result.FileErrors[0].Reason, "absent.sql")

	// The readable file was still analyzed.
	require.True(t, result.HasErrors())
}

func TestOrderingErrorsFirstWithinCategory(t *testing.T) {
	// ZEROFILL (warning) appears before YEAR(2) (error) in the file; the
	// result must still list the error first within invalid-objects.
	fs := memFs(t, map[string]string{
		"schema.sql": "CREATE TABLE t (\n" +
			"  a INT ZEROFILL,\n" +
			"  b YEAR(2)\n" +
			");",
	})

	result, err := New(WithFs(fs)).Analyze(context.Background(), "schema.sql")
	require.NoError(t, err)

	invalid := result.FilterByCategory(types.CategoryInvalidObjects)
	require.NotEmpty(t, invalid)
	for i := 1; i < len(invalid); i++ {
		require.LessOrEqual(t, invalid[i-1].Severity.Rank(), invalid[i].Severity.Rank())
	}
	require.Equal(t, types.Severity_ERROR, invalid[0].Severity)
}

func TestConfigDisablesAndOverrides(t *testing.T) {
	off := false
	cfg := &config.Config{Rules: map[string]config.RuleConfig{
		"invalid-objects.integer-display-width": {Enabled: &off},
		"invalid-objects.zerofill":              {Severity: types.Severity_ERROR},
	}}
	fs := memFs(t, map[string]string{
		"schema.sql": "CREATE TABLE t (a INT(11) ZEROFILL);",
	})

	result, err := New(WithFs(fs), WithConfig(cfg)).Analyze(context.Background(), "schema.sql")
	require.NoError(t, err)

	for _, f := range result.Findings {
		require.NotEqual(t, "invalid-objects.integer-display-width", f.RuleID)
		if f.RuleID == "invalid-objects.zerofill" {
			require.Equal(t, types.Severity_ERROR, f.Severity)
		}
	}
}

func TestTargetVersionGatesRules(t *testing.T) {
	fs := memFs(t, map[string]string{
		"my.cnf": "[mysqld]\nquery_cache_size = 64M\n",
	})
	v57 := version.Must(version.NewVersion("5.7"))

	result, err := New(WithFs(fs), WithTargetVersion(v57)).Analyze(context.Background(), "my.cnf")
	require.NoError(t, err)
	require.Empty(t, result.Findings)
}

func TestCancelledContextReturnsPartialResult(t *testing.T) {
	fs := memFs(t, map[string]string{"schema.sql": brokenSchemaDDL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(WithFs(fs)).Analyze(ctx, "schema.sql")
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	require.Empty(t, result.Findings)
}
