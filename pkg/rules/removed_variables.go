package rules

import (
	"fmt"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// removedVariables lists server system variables removed in 8.0 together
// with their replacement, when one exists.
var removedVariables = []struct {
	name        string
	replacement string
}{
	{"query_cache_size", ""},
	{"query_cache_type", ""},
	{"query_cache_limit", ""},
	{"query_cache_min_res_unit", ""},
	{"query_cache_wlock_invalidate", ""},
	{"innodb_file_format", ""},
	{"innodb_file_format_check", ""},
	{"innodb_file_format_max", ""},
	{"innodb_large_prefix", ""},
	{"innodb_support_xa", ""},
	{"innodb_checksums", "innodb_checksum_algorithm"},
	{"innodb_locks_unsafe_for_binlog", ""},
	{"innodb_undo_logs", "innodb_rollback_segments"},
	{"secure_auth", ""},
	{"old_passwords", ""},
	{"max_tmp_tables", ""},
	{"metadata_locks_cache_size", ""},
	{"metadata_locks_hash_instances", ""},
	{"multi_range_count", ""},
	{"log_warnings", "log_error_verbosity"},
	{"sync_frm", ""},
	{"ignore_builtin_innodb", ""},
	{"ignore_db_dirs", ""},
	{"date_format", ""},
	{"datetime_format", ""},
	{"time_format", ""},
	{"tx_isolation", "transaction_isolation"},
	{"tx_read_only", "transaction_read_only"},
}

func init() {
	for _, v := range removedVariables {
		description := fmt.Sprintf("The system variable %q was removed in MySQL 8.0; the server will refuse to start while the option file still sets it.", v.name)
		suggestion := fmt.Sprintf("Remove %q from the configuration before upgrading.", v.name)
		if v.replacement != "" {
			suggestion = fmt.Sprintf("Replace %q with %q before upgrading.", v.name, v.replacement)
		}
		Register(&Rule{
			ID:          "removed-variables." + v.name,
			Category:    types.CategoryRemovedVariables,
			Severity:    types.Severity_ERROR,
			Kind:        KindConfigText,
			Detection:   DetectionPattern,
			Pattern:     configKeyPattern(v.name),
			Title:       "Removed system variable: " + v.name,
			Description: description,
			Suggestion:  suggestion,
			Since:       mustVersion("8.0"),
		})
	}
}
