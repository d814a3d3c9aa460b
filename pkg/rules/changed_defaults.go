package rules

import (
	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// RuleDumpCharacterSet fires from export metadata inspection rather than a
// text pattern.
const RuleDumpCharacterSet = "changed-defaults.dump-character-set"

func init() {
	Register(&Rule{
		ID:          "changed-defaults.character-set-server",
		Category:    types.CategoryChangedDefaults,
		Severity:    types.Severity_INFO,
		Kind:        KindConfigText,
		Detection:   DetectionPattern,
		Pattern:     configKeyValuePattern("character_set_server", `latin1\b`),
		Title:       "Server character set pinned to pre-8.0 default",
		Description: "character_set_server is set to latin1, the 5.7 default. The 8.0 default is utf8mb4; keeping latin1 pins new objects to a single-byte character set.",
		Suggestion:  "Consider moving to utf8mb4 as part of the upgrade.",
		Since:       mustVersion("8.0"),
	})

	Register(&Rule{
		ID:          "changed-defaults.collation-server",
		Category:    types.CategoryChangedDefaults,
		Severity:    types.Severity_INFO,
		Kind:        KindConfigText,
		Detection:   DetectionPattern,
		Pattern:     configKeyValuePattern("collation_server", `latin1_swedish_ci\b`),
		Title:       "Server collation pinned to pre-8.0 default",
		Description: "collation_server is set to latin1_swedish_ci, the 5.7 default. The 8.0 default is utf8mb4_0900_ai_ci.",
		Suggestion:  "Consider moving to a utf8mb4 collation as part of the upgrade.",
		Since:       mustVersion("8.0"),
	})

	Register(&Rule{
		ID:          "changed-defaults.explicit-defaults-for-timestamp",
		Category:    types.CategoryChangedDefaults,
		Severity:    types.Severity_WARNING,
		Kind:        KindConfigText,
		Detection:   DetectionPattern,
		Pattern:     configKeyValuePattern("explicit_defaults_for_timestamp", `(?:OFF|0)\b`),
		Title:       "explicit_defaults_for_timestamp disabled",
		Description: "explicit_defaults_for_timestamp is OFF; the default changed to ON in 8.0 and the OFF behavior (implicit NOT NULL and auto-update on the first TIMESTAMP column) is deprecated.",
		Suggestion:  "Audit TIMESTAMP columns that rely on the implicit defaults and set the variable to ON.",
		Since:       mustVersion("8.0"),
	})

	Register(&Rule{
		ID:          RuleDumpCharacterSet,
		Category:    types.CategoryChangedDefaults,
		Severity:    types.Severity_WARNING,
		Kind:        KindConfigText,
		Detection:   DetectionCrossRef,
		Title:       "Export taken with a non-utf8mb4 character set",
		Description: "The export metadata declares a default character set that cannot represent 4-byte code points. Loading the dump into an 8.0 server defaulting to utf8mb4 risks mojibake for any data outside that character set.",
		Suggestion:  "Re-take the export with --default-character-set=utf8mb4, or verify the data really is limited to the declared character set.",
		Since:       mustVersion("8.0"),
	})

	Register(&Rule{
		ID:          "changed-defaults.no-auto-create-user",
		Category:    types.CategoryChangedDefaults,
		Severity:    types.Severity_ERROR,
		Kind:        KindConfigText,
		Detection:   DetectionPattern,
		Pattern:     configKeyValuePattern("sql_mode", `[^\n]*NO_AUTO_CREATE_USER`),
		Title:       "sql_mode contains removed NO_AUTO_CREATE_USER",
		Description: "The NO_AUTO_CREATE_USER SQL mode was removed in MySQL 8.0; a server configured with it will fail to start.",
		Suggestion:  "Drop NO_AUTO_CREATE_USER from sql_mode; 8.0 never creates accounts implicitly.",
		Since:       mustVersion("8.0"),
	})
}
