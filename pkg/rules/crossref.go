package rules

import (
	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// Rule IDs for findings produced by the cross-reference validator. These
// rules carry no pattern or predicate: the validator works on the completed
// schema registry rather than on file text.
const (
	RuleFKMissingTable     = "invalid-objects.fk-referenced-table-missing"
	RuleFKTargetNotIndexed = "invalid-objects.fk-target-not-indexed"
	RuleIndexTooLarge      = "invalid-objects.index-byte-size"
	RuleEnumElementTooLong = "invalid-objects.enum-element-length"
	RuleDuplicateTableDef  = "invalid-objects.duplicate-table-definition"
)

func init() {
	Register(&Rule{
		ID:          RuleFKMissingTable,
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_INFO,
		Kind:        KindSchemaText,
		Detection:   DetectionCrossRef,
		Title:       "Foreign key references a table outside this export",
		Description: "The referenced table was not defined in any submitted file. The constraint cannot be validated offline; it may be fine if the table lives in another export.",
		Suggestion:  "Include the referenced table's schema file in the check, or verify the constraint manually.",
	})

	Register(&Rule{
		ID:          RuleFKTargetNotIndexed,
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_ERROR,
		Kind:        KindSchemaText,
		Detection:   DetectionCrossRef,
		Title:       "Foreign key target lacks a usable index",
		Description: "The referenced columns are not covered, as a prefix, by any PRIMARY KEY or UNIQUE index on the referenced table. MySQL 8.0 enforces this and will reject the constraint on load.",
		Suggestion:  "Add a unique index over the referenced columns.",
	})

	Register(&Rule{
		ID:          RuleIndexTooLarge,
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_ERROR,
		Kind:        KindSchemaText,
		Detection:   DetectionCrossRef,
		Title:       "Index exceeds maximum key length",
		Description: "The computed index key size exceeds the InnoDB limit of 3072 bytes. Character columns count at their charset's maximum bytes per character.",
		Suggestion:  "Shorten the indexed columns, index a column prefix, or use a smaller character set.",
	})

	Register(&Rule{
		ID:          RuleEnumElementTooLong,
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_ERROR,
		Kind:        KindSchemaText,
		Detection:   DetectionCrossRef,
		Title:       "ENUM element exceeds 255 characters",
		Description: "A single ENUM element may be at most 255 characters long; the table cannot be created on the target server.",
		Suggestion:  "Shorten the element or model the value as a VARCHAR with a CHECK constraint.",
	})

	Register(&Rule{
		ID:          RuleDuplicateTableDef,
		Category:    types.CategoryInvalidObjects,
		Severity:    types.Severity_INFO,
		Kind:        KindSchemaText,
		Detection:   DetectionCrossRef,
		Title:       "Conflicting duplicate table definitions",
		Description: "The same table name is defined more than once across the submitted files with a different engine or character set; which definition wins depends on load order.",
		Suggestion:  "Remove the stale definition from the export.",
	})

	Register(&Rule{
		ID:          RuleCharsetDataMismatch,
		Category:    types.CategoryDataIntegrity,
		Severity:    types.Severity_WARNING,
		Kind:        KindSchemaText,
		Detection:   DetectionCrossRef,
		Title:       "4-byte data in a table with a narrower character set",
		Description: "Row data recorded for this table contains 4-byte code points, but the table's character set cannot represent them; the load will truncate or reject those rows.",
		Suggestion:  "Convert the table to utf8mb4 before loading the data.",
	})
}
