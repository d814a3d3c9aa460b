package rules

import (
	"fmt"
	"regexp"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

func init() {
	Register(&Rule{
		ID:          "privileges.grant-super",
		Category:    types.CategoryPrivileges,
		Severity:    types.Severity_WARNING,
		Kind:        KindQueryText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?is)\bGRANT\b[^;]{0,200}?\bSUPER\b`),
		Title:       "GRANT of deprecated SUPER privilege",
		Description: "The SUPER privilege is deprecated in MySQL 8.0 and split into dynamic privileges; grants of SUPER will stop working in a later release.",
		Suggestion:  "Grant the specific dynamic privileges the account needs (SYSTEM_VARIABLES_ADMIN, CONNECTION_ADMIN, ...) and revoke SUPER.",
		Since:       mustVersion("8.0"),
		Fix: func(ctx FixContext) string {
			grantee := granteeFromContext(ctx.Context)
			if grantee == "" {
				return ""
			}
			return fmt.Sprintf("REVOKE SUPER ON *.* FROM %s;\nGRANT SYSTEM_VARIABLES_ADMIN, CONNECTION_ADMIN ON *.* TO %s;", grantee, grantee)
		},
	})

	Register(&Rule{
		ID:          "privileges.grant-identified-by",
		Category:    types.CategoryPrivileges,
		Severity:    types.Severity_ERROR,
		Kind:        KindQueryText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?is)\bGRANT\b[^;]{0,200}?\bIDENTIFIED\s+BY\b`),
		Title:       "GRANT ... IDENTIFIED BY removed",
		Description: "Creating or modifying accounts through GRANT was removed in MySQL 8.0; GRANT statements carrying IDENTIFIED BY will fail.",
		Suggestion:  "Create the account with CREATE USER first, then GRANT the privileges separately.",
		Since:       mustVersion("8.0"),
		Fix: func(ctx FixContext) string {
			grantee := granteeFromContext(ctx.Context)
			if grantee == "" {
				return ""
			}
			return fmt.Sprintf("CREATE USER IF NOT EXISTS %s IDENTIFIED BY '<new-password>';", grantee)
		},
	})

	Register(&Rule{
		ID:          "privileges.grant-all-on-system-schema",
		Category:    types.CategoryPrivileges,
		Severity:    types.Severity_WARNING,
		Kind:        KindQueryText,
		Detection:   DetectionPattern,
		Pattern:     regexp.MustCompile(`(?is)\bGRANT\b[^;]{0,200}?\bON\s+` + "`?mysql`?" + `\s*\.\s*\*`),
		Title:       "Broad grant on the mysql system schema",
		Description: "Grants on mysql.* collide with the 8.0 data dictionary: several system tables became read-only views and direct modification is no longer possible.",
		Suggestion:  "Grant privileges on application schemas instead and manage accounts through account-management statements.",
		Since:       mustVersion("8.0"),
	})
}
