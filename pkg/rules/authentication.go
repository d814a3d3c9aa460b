package rules

import (
	"fmt"
	"regexp"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// pluginUpgradeFix suggests moving an account to caching_sha2_password.
// It needs the account from a CREATE USER or ALTER USER fragment; without
// one there is no safe statement to generate.
func pluginUpgradeFix(ctx FixContext) string {
	user := userFromContext(ctx.Context)
	if user == "" {
		user = granteeFromContext(ctx.Context)
	}
	if user == "" {
		return ""
	}
	return fmt.Sprintf("ALTER USER %s IDENTIFIED WITH caching_sha2_password BY '<new-password>';", user)
}

func init() {
	Register(&Rule{
		ID:          "authentication.mysql-native-password",
		Category:    types.CategoryAuthentication,
		Severity:    types.Severity_WARNING,
		Kind:        KindQueryText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\bIDENTIFIED\s+WITH\s+'?mysql_native_password'?`),
		Title:       "Account uses mysql_native_password",
		Description: "The account is created with the mysql_native_password plugin. The 8.0 default is caching_sha2_password and mysql_native_password is deprecated; older clients relying on it may fail to connect.",
		Suggestion:  "Move the account to caching_sha2_password and verify client library support.",
		Since:       mustVersion("8.0"),
		Fix:         pluginUpgradeFix,
	})

	Register(&Rule{
		ID:          "authentication.sha256-password",
		Category:    types.CategoryAuthentication,
		Severity:    types.Severity_WARNING,
		Kind:        KindQueryText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\bIDENTIFIED\s+WITH\s+'?sha256_password'?`),
		Title:       "Account uses deprecated sha256_password",
		Description: "The sha256_password plugin is deprecated in MySQL 8.0 in favor of caching_sha2_password.",
		Suggestion:  "Move the account to caching_sha2_password.",
		Since:       mustVersion("8.0"),
		Fix:         pluginUpgradeFix,
	})

	Register(&Rule{
		ID:          "authentication.identified-by-password",
		Category:    types.CategoryAuthentication,
		Severity:    types.Severity_ERROR,
		Kind:        KindQueryText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?i)\bIDENTIFIED\s+BY\s+PASSWORD\b`),
		Title:       "IDENTIFIED BY PASSWORD syntax removed",
		Description: "Setting an account password to a pre-computed hash with IDENTIFIED BY PASSWORD was removed in MySQL 8.0; the statement will fail.",
		Suggestion:  "Use IDENTIFIED WITH <plugin> AS '<hash>' or set a fresh password with IDENTIFIED BY.",
		Since:       mustVersion("8.0"),
	})
}
