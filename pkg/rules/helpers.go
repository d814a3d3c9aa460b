package rules

import (
	"regexp"
	"strings"
)

// configKeyPattern builds a pattern matching a configuration key at the
// start of a line. Underscores and hyphens in option names are
// interchangeable in server option files, so both spellings match.
func configKeyPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^\s*` + configKeyExpr(key) + `\b`)
}

// configKeyValuePattern matches "key = value" lines where value matches the
// given subexpression.
func configKeyValuePattern(key, valueExpr string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^\s*` + configKeyExpr(key) + `\s*=\s*` + valueExpr)
}

func configKeyExpr(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, `[-_]`)
}

var (
	tableFromContextRe = regexp.MustCompile("(?is)\\b(?:CREATE|ALTER)\\s+TABLE\\s+(?:IF\\s+NOT\\s+EXISTS\\s+)?(?:(?:`[^`]+`|\\w+)\\s*\\.\\s*)?(`[^`]+`|\\w+)")
	granteeRe          = regexp.MustCompile(`(?is)\bTO\s+((?:'[^']*'|\w+)(?:@(?:'[^']*'|\w+|'%'))?)`)
	userStmtRe         = regexp.MustCompile(`(?is)\b(?:CREATE|ALTER)\s+USER\s+(?:IF\s+(?:NOT\s+)?EXISTS\s+)?((?:'[^']*'|\w+)(?:@(?:'[^']*'|\w+))?)`)
	columnBeforeRe     = regexp.MustCompile("(`[^`]+`|\\w+)\\s*$")
)

// tableFromContext extracts the table name from a CREATE TABLE or ALTER
// TABLE fragment inside the context window, or "".
func tableFromContext(ctx string) string {
	m := tableFromContextRe.FindStringSubmatch(ctx)
	if m == nil {
		return ""
	}
	return unquoteTick(m[1])
}

// granteeFromContext extracts the "user@host" grantee of a GRANT fragment,
// or "".
func granteeFromContext(ctx string) string {
	m := granteeRe.FindStringSubmatch(ctx)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// userFromContext extracts the account of a CREATE USER or ALTER USER
// fragment, or "".
func userFromContext(ctx string) string {
	m := userStmtRe.FindStringSubmatch(ctx)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// columnBeforeMatch extracts the identifier immediately preceding the match
// inside the context window: for "price FLOAT(10,2)" with the type matched,
// that is the column name. Returns "" when nothing identifier-like precedes.
func columnBeforeMatch(ctx, match string) string {
	i := strings.Index(ctx, match)
	if i < 0 {
		return ""
	}
	m := columnBeforeRe.FindStringSubmatch(strings.TrimRight(ctx[:i], " \t\n"))
	if m == nil {
		return ""
	}
	name := unquoteTick(m[1])
	// A keyword in column position means the window started mid-clause.
	switch strings.ToUpper(name) {
	case "TABLE", "EXISTS", "COLUMN", "ADD", "MODIFY", "CHANGE", "DEFAULT", "NULL", "NOT":
		return ""
	}
	return name
}

func unquoteTick(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' {
		return strings.ReplaceAll(s[1:len(s)-1], "``", "`")
	}
	return s
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
