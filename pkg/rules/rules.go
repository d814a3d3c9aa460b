// Package rules holds the compatibility rule catalog.
//
// Rules are registered from init functions in per-family files, the same way
// advisors register into a central table in other tools of this kind. The
// catalog is immutable once the process is up: Register panics on duplicate
// IDs, invalid categories, or rules that declare no detection method, so a
// malformed rule is a construction-time failure rather than a runtime one.
package rules

import (
	"fmt"
	"regexp"
	"sync"

	version "github.com/hashicorp/go-version"

	"github.com/nsxbet/upgrade-checker/pkg/types"
)

// Kind is the applicability of a rule: the class of input it inspects.
type Kind string

const (
	KindSchemaText Kind = "schema-text"
	KindQueryText  Kind = "query-text"
	KindConfigText Kind = "config-text"
	KindRowValue   Kind = "row-value"
)

// Detection names how a rule's occurrences are found.
type Detection string

const (
	// DetectionPattern rules match a compiled regexp against file text.
	DetectionPattern Detection = "pattern"
	// DetectionPredicate rules evaluate a predicate against a row value and
	// its declared column type.
	DetectionPredicate Detection = "value-predicate"
	// DetectionCrossRef rules carry neither pattern nor predicate; their
	// findings come from code that inspects assembled state (the second-pass
	// validator, export metadata handling).
	DetectionCrossRef Detection = "cross-reference"
	// DetectionEmbedded rules are detected directly by scanner code
	// (byte-level checks that a regexp cannot express efficiently).
	DetectionEmbedded Detection = "scanner-embedded"
)

// FixContext carries the information a remediation template may draw on.
// Fields other than Context are best-effort and may be empty.
type FixContext struct {
	// Match is the exact matched text.
	Match string
	// Context is the bounded window surrounding the match.
	Context string

	Table    string
	Column   string
	TypeName string
	// Columns lists the involved columns for index-level fixes.
	Columns []string
}

// FixFunc generates a remediation statement from a fix context. It returns
// the empty string when the context does not allow a confident fix.
type FixFunc func(FixContext) string

// Predicate evaluates a raw value literal against the declared column type.
type Predicate func(value, columnType string) bool

// Rule is one immutable compatibility rule. Exactly one detection method is
// active, chosen by Detection; a rule's identity never changes after
// registration.
type Rule struct {
	ID        string
	Category  types.Category
	Severity  types.Severity
	Kind      Kind
	Detection Detection

	Pattern   *regexp.Regexp
	Predicate Predicate

	Title       string
	Description string
	Suggestion  string

	// Since is the lowest target server version the rule applies to;
	// nil means the rule always applies.
	Since *version.Version

	Fix FixFunc
}

// AppliesTo reports whether the rule is active when checking an upgrade to
// the given target version. A nil target activates every rule.
func (r *Rule) AppliesTo(target *version.Version) bool {
	if r.Since == nil || target == nil {
		return true
	}
	return target.GreaterThanOrEqual(r.Since)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Rule)
	ordered    []*Rule
)

// Register adds a rule to the catalog. It panics on a duplicate ID, an
// unknown category, a missing severity, or a rule whose declared detection
// method does not match the fields it carries. Register is intended to be
// called from init functions only.
func Register(r *Rule) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if r == nil {
		panic("rules: Register called with nil rule")
	}
	if r.ID == "" {
		panic("rules: rule has empty ID")
	}
	if _, dup := registry[r.ID]; dup {
		panic(fmt.Sprintf("rules: Register called twice for rule %q", r.ID))
	}
	if !r.Category.Valid() {
		panic(fmt.Sprintf("rules: rule %q has unknown category %q", r.ID, r.Category))
	}
	if r.Severity == types.Severity_SEVERITY_UNSPECIFIED {
		panic(fmt.Sprintf("rules: rule %q has no severity", r.ID))
	}
	switch r.Detection {
	case DetectionPattern:
		if r.Pattern == nil {
			panic(fmt.Sprintf("rules: pattern rule %q has no pattern", r.ID))
		}
	case DetectionPredicate:
		if r.Predicate == nil {
			panic(fmt.Sprintf("rules: predicate rule %q has no predicate", r.ID))
		}
	case DetectionCrossRef, DetectionEmbedded:
		// Detected outside the catalog.
	default:
		panic(fmt.Sprintf("rules: rule %q has unknown detection %q", r.ID, r.Detection))
	}
	registry[r.ID] = r
	ordered = append(ordered, r)
}

// Get returns the rule with the given ID, or nil.
func Get(id string) *Rule {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[id]
}

// All returns every registered rule in registration order.
func All() []*Rule {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]*Rule, len(ordered))
	copy(out, ordered)
	return out
}

// ByKind returns the active rules of the given kind for a target version,
// in registration order.
func ByKind(kind Kind, target *version.Version) []*Rule {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var out []*Rule
	for _, r := range ordered {
		if r.Kind == kind && r.AppliesTo(target) {
			out = append(out, r)
		}
	}
	return out
}

// mustVersion parses a version constant; the catalog only carries literals.
func mustVersion(s string) *version.Version {
	v, err := version.NewVersion(s)
	if err != nil {
		panic(fmt.Sprintf("rules: bad version %q: %v", s, err))
	}
	return v
}
