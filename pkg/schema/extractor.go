package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nsxbet/upgrade-checker/pkg/sqltext"
)

var (
	createTableRe = regexp.MustCompile(`(?is)^CREATE\s+(?:TEMPORARY\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?`)

	engineOptRe  = regexp.MustCompile(`(?i)\bENGINE\s*=?\s*(\w+)`)
	charsetOptRe = regexp.MustCompile(`(?i)\b(?:DEFAULT\s+)?(?:CHARSET|CHARACTER\s+SET)\s*=?\s*(\w+)`)
	collateOptRe = regexp.MustCompile(`(?i)\bCOLLATE\s*=?\s*(\w+)`)

	partitionByRe  = regexp.MustCompile(`(?i)\bPARTITION\s+BY\s+(?:LINEAR\s+)?(RANGE|LIST|HASH|KEY)\b`)
	partitionDefRe = regexp.MustCompile("(?is)\\bPARTITION\\s+(`[^`]+`|\\w+)\\s+VALUES\\s+(?:LESS\\s+THAN\\s+(MAXVALUE|\\([^)]*\\))|IN\\s+(\\([^)]*\\)))")

	fkClauseRe = regexp.MustCompile("(?is)FOREIGN\\s+KEY\\s*\\(([^)]*)\\)\\s*REFERENCES\\s+(`[^`]+`|\\w+)(?:\\s*\\.\\s*(`[^`]+`|\\w+))?\\s*\\(([^)]*)\\)(.*)")
	fkActionRe = regexp.MustCompile(`(?is)ON\s+(DELETE|UPDATE)\s+(CASCADE|RESTRICT|SET\s+NULL|SET\s+DEFAULT|NO\s+ACTION)`)

	columnCharsetRe = regexp.MustCompile(`(?i)\b(?:CHARACTER\s+SET|CHARSET)\s+(\w+)`)
	columnCollateRe = regexp.MustCompile(`(?i)\bCOLLATE\s+(\w+)`)
	columnDefaultRe = regexp.MustCompile(`(?is)\bDEFAULT\s+('(?:[^'\\]|\\.|'')*'|[^\s,]+)`)
	notNullRe       = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	autoIncrementRe = regexp.MustCompile(`(?i)\bAUTO_INCREMENT\b`)
	onUpdateNowRe   = regexp.MustCompile(`(?i)\bON\s+UPDATE\s+CURRENT_TIMESTAMP`)
	generatedRe     = regexp.MustCompile(`(?is)\b(?:GENERATED\s+ALWAYS\s+)?AS\s*\(`)
	storedRe        = regexp.MustCompile(`(?i)\bSTORED\b`)
)

// Extract parses every CREATE TABLE statement in text into TableDefinitions,
// registers each into reg, and returns them in order of appearance. Malformed
// statements and clauses are skipped.
func Extract(file, text string, reg *Registry) []*TableDefinition {
	var defs []*TableDefinition
	for _, stmt := range sqltext.SplitStatements(text) {
		loc := createTableRe.FindStringIndex(stmt.Text)
		if loc == nil {
			continue
		}
		def := parseCreateTable(stmt.Text[loc[1]:])
		if def == nil {
			continue
		}
		def.File = file
		def.Line = stmt.Line
		reg.Add(def)
		defs = append(defs, def)
	}
	return defs
}

// parseCreateTable parses the remainder of a CREATE TABLE statement after the
// leading keywords: "<name> (<body>) <options>".
func parseCreateTable(s string) *TableDefinition {
	name, rest := readQualifiedIdentifier(s)
	if name == "" {
		return nil
	}
	body, end, ok := sqltext.BalancedSpan(rest, 0)
	if !ok {
		return nil
	}
	tail := rest[end:]

	t := &TableDefinition{Name: name}
	for _, clause := range sqltext.SplitTopLevel(body, ',') {
		parseClause(t, strings.TrimSpace(clause))
	}
	parseTableOptions(t, tail)
	return t
}

// readQualifiedIdentifier reads an optionally schema-qualified, optionally
// quoted identifier from the start of s and returns its unqualified form plus
// the remainder of s.
func readQualifiedIdentifier(s string) (string, string) {
	s = strings.TrimSpace(s)
	var last string
	for {
		ident, rest := readIdentifier(s)
		if ident == "" {
			return "", s
		}
		last = ident
		rest = strings.TrimLeft(rest, " \t\r\n")
		if strings.HasPrefix(rest, ".") {
			s = strings.TrimLeft(rest[1:], " \t\r\n")
			continue
		}
		return last, rest
	}
}

// readIdentifier reads one quoted or bare identifier from the start of s.
func readIdentifier(s string) (string, string) {
	if s == "" {
		return "", s
	}
	if s[0] == '`' || s[0] == '"' {
		q := s[0]
		i := 1
		for i < len(s) {
			if s[i] == q {
				if i+1 < len(s) && s[i+1] == q {
					i += 2
					continue
				}
				return sqltext.Unquote(s[:i+1]), s[i+1:]
			}
			i++
		}
		return "", s
	}
	i := 0
	for i < len(s) && (isWordByte(s[i]) || s[i] == '$') {
		i++
	}
	if i == 0 {
		return "", s
	}
	return s[:i], s[i:]
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// parseClause classifies one top-level clause of a table body by its leading
// keyword and dispatches accordingly. Unrecognized clauses are ignored.
func parseClause(t *TableDefinition, clause string) {
	if clause == "" {
		return
	}
	// A quoted leading identifier is always a column name, even when it
	// spells a keyword: dumps backtick-quote every identifier, so a column
	// named `key` or `primary` must not be read as a key clause.
	if clause[0] == '`' || clause[0] == '"' {
		if col, ok := parseColumnClause(clause); ok {
			t.Columns = append(t.Columns, col)
		}
		return
	}
	switch sqltext.FirstWord(clause) {
	case "PRIMARY":
		if parts := parseKeyParts(clause); parts != nil {
			t.Indexes = append(t.Indexes, IndexDefinition{
				Name:   PrimaryKeyName,
				Unique: true,
				Parts:  parts,
			})
		}
	case "UNIQUE":
		parseIndexClause(t, clause, []string{"UNIQUE", "KEY", "INDEX"}, true)
	case "KEY", "INDEX":
		parseIndexClause(t, clause, []string{"KEY", "INDEX"}, false)
	case "FULLTEXT", "SPATIAL":
		parseIndexClause(t, clause, []string{"FULLTEXT", "SPATIAL", "KEY", "INDEX"}, false)
	case "CONSTRAINT":
		parseConstraintClause(t, clause)
	case "FOREIGN":
		parseForeignKeyClause(t, "", clause)
	case "CHECK":
		// CHECK constraints carry nothing the validator needs.
	default:
		if col, ok := parseColumnClause(clause); ok {
			t.Columns = append(t.Columns, col)
		}
	}
}

// parseConstraintClause handles "CONSTRAINT [name] {FOREIGN KEY|UNIQUE|...}".
func parseConstraintClause(t *TableDefinition, clause string) {
	rest := strings.TrimSpace(clause[len("CONSTRAINT"):])
	name := ""
	if w := sqltext.FirstWord(rest); w != "FOREIGN" && w != "UNIQUE" && w != "PRIMARY" && w != "CHECK" {
		name, rest = readIdentifier(rest)
		rest = strings.TrimSpace(rest)
	}
	switch sqltext.FirstWord(rest) {
	case "FOREIGN":
		parseForeignKeyClause(t, name, rest)
	case "UNIQUE":
		parseIndexClause(t, rest, []string{"UNIQUE", "KEY", "INDEX"}, true)
	case "PRIMARY":
		parseClause(t, rest)
	}
}

// parseIndexClause parses "[keywords] [name] (parts...)". The keywords slice
// lists the leading words to strip before an optional index name.
func parseIndexClause(t *TableDefinition, clause string, keywords []string, unique bool) {
	body, _, ok := sqltext.BalancedSpan(clause, 0)
	if !ok {
		return
	}
	open := strings.IndexByte(clause, '(')
	head := strings.TrimSpace(clause[:open])
	for _, kw := range keywords {
		head = strings.TrimSpace(trimLeadingWordFold(head, kw))
	}
	name := sqltext.Unquote(head)
	parts := parseKeyPartList(body)
	if parts == nil {
		return
	}
	t.Indexes = append(t.Indexes, IndexDefinition{
		Name:   name,
		Unique: unique,
		Parts:  parts,
	})
}

// trimLeadingWordFold removes word from the start of s, case-insensitively,
// when s begins with it as a whole word.
func trimLeadingWordFold(s, word string) string {
	if len(s) < len(word) || !strings.EqualFold(s[:len(word)], word) {
		return s
	}
	rest := s[len(word):]
	if rest != "" && isWordByte(rest[0]) {
		return s
	}
	return rest
}

// parseKeyParts extracts the key part list from the first balanced
// parenthesis body in the clause.
func parseKeyParts(clause string) []IndexPart {
	body, _, ok := sqltext.BalancedSpan(clause, 0)
	if !ok {
		return nil
	}
	return parseKeyPartList(body)
}

// parseKeyPartList parses "a, b(10), (expr)" into index parts. Expression
// key parts are skipped: they contribute no declared width.
func parseKeyPartList(body string) []IndexPart {
	var parts []IndexPart
	for _, item := range sqltext.SplitTopLevel(body, ',') {
		item = strings.TrimSpace(item)
		if item == "" || item[0] == '(' {
			continue
		}
		name, rest := readIdentifier(item)
		if name == "" {
			continue
		}
		part := IndexPart{Column: name}
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, "(") {
			if inner, _, ok := sqltext.BalancedSpan(rest, 0); ok {
				if n, err := strconv.Atoi(strings.TrimSpace(inner)); err == nil {
					part.Prefix = n
				}
			}
		}
		parts = append(parts, part)
	}
	return parts
}

// parseForeignKeyClause parses "FOREIGN KEY (cols) REFERENCES tbl (cols) ...".
func parseForeignKeyClause(t *TableDefinition, name, clause string) {
	m := fkClauseRe.FindStringSubmatch(clause)
	if m == nil {
		return
	}
	refTable := sqltext.Unquote(m[2])
	if m[3] != "" {
		// Qualified reference: keep the unqualified table name.
		refTable = sqltext.Unquote(m[3])
	}
	fk := ForeignKeyDefinition{
		Name:              name,
		Columns:           splitIdentifierList(m[1]),
		ReferencedTable:   refTable,
		ReferencedColumns: splitIdentifierList(m[4]),
	}
	for _, action := range fkActionRe.FindAllStringSubmatch(m[5], -1) {
		verb := normalizeAction(action[2])
		if strings.EqualFold(action[1], "DELETE") {
			fk.OnDelete = verb
		} else {
			fk.OnUpdate = verb
		}
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)
}

func normalizeAction(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func splitIdentifierList(s string) []string {
	var out []string
	for _, item := range sqltext.SplitTopLevel(s, ',') {
		if ident := sqltext.Unquote(strings.TrimSpace(item)); ident != "" {
			out = append(out, ident)
		}
	}
	return out
}

// parseColumnClause parses a column definition clause: name, raw type, and
// the attributes the checks care about.
func parseColumnClause(clause string) (ColumnDefinition, bool) {
	name, rest := readIdentifier(clause)
	if name == "" {
		return ColumnDefinition{}, false
	}
	rest = strings.TrimSpace(rest)
	rawType, attrs := readTypeSpec(rest)
	if rawType == "" {
		return ColumnDefinition{}, false
	}
	col := ColumnDefinition{
		Name:     name,
		RawType:  rawType,
		Nullable: !notNullRe.MatchString(attrs),
	}
	if m := columnDefaultRe.FindStringSubmatch(attrs); m != nil {
		v := m[1]
		col.Default = &v
	}
	if m := columnCharsetRe.FindStringSubmatch(attrs); m != nil {
		col.Charset = m[1]
	}
	if m := columnCollateRe.FindStringSubmatch(attrs); m != nil {
		col.Collation = m[1]
	}
	var extra []string
	if autoIncrementRe.MatchString(attrs) {
		extra = append(extra, "auto_increment")
	}
	if onUpdateNowRe.MatchString(attrs) {
		extra = append(extra, "on update CURRENT_TIMESTAMP")
	}
	col.Extra = strings.Join(extra, " ")
	if loc := generatedRe.FindStringIndex(attrs); loc != nil {
		if expr, end, ok := sqltext.BalancedSpan(attrs, loc[1]-1); ok {
			col.Generated = &GeneratedColumn{
				Expression: expr,
				Stored:     storedRe.MatchString(attrs[end:]),
			}
		}
	}
	return col, true
}

// readTypeSpec reads the declared type from the start of s: the type word,
// an optional parenthesized argument list, and optional UNSIGNED/ZEROFILL
// attributes. It returns the raw type string and the remaining attributes.
func readTypeSpec(s string) (string, string) {
	i := 0
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", s
	}
	end := i
	rest := s[i:]
	if trimmed := strings.TrimLeft(rest, " \t"); strings.HasPrefix(trimmed, "(") {
		pad := len(rest) - len(trimmed)
		if _, spanEnd, ok := sqltext.BalancedSpan(rest, pad); ok {
			end = i + spanEnd
			rest = s[end:]
		}
	}
	for _, attr := range []string{"UNSIGNED", "ZEROFILL"} {
		trimmed := strings.TrimLeft(rest, " \t")
		if len(trimmed) >= len(attr) && strings.EqualFold(trimmed[:len(attr)], attr) &&
			(len(trimmed) == len(attr) || !isWordByte(trimmed[len(attr)])) {
			end = len(s) - len(trimmed) + len(attr)
			rest = s[end:]
		}
	}
	return s[:end], rest
}

// parseTableOptions parses the text after the closing parenthesis of the
// column list: ENGINE, DEFAULT CHARSET, COLLATE and PARTITION BY.
func parseTableOptions(t *TableDefinition, tail string) {
	optionPart := tail
	partitionPart := ""
	if loc := partitionByRe.FindStringSubmatchIndex(tail); loc != nil {
		optionPart = tail[:loc[0]]
		partitionPart = tail[loc[0]:]
		t.PartitionBy = strings.ToUpper(tail[loc[2]:loc[3]])
	}
	if m := engineOptRe.FindStringSubmatch(optionPart); m != nil {
		t.Engine = m[1]
	}
	if m := charsetOptRe.FindStringSubmatch(optionPart); m != nil {
		t.Charset = m[1]
	}
	if m := collateOptRe.FindStringSubmatch(optionPart); m != nil {
		t.Collation = m[1]
	}
	for _, m := range partitionDefRe.FindAllStringSubmatch(partitionPart, -1) {
		boundary := m[2]
		if boundary == "" {
			boundary = m[3]
		}
		boundary = strings.TrimSpace(boundary)
		boundary = strings.TrimPrefix(boundary, "(")
		boundary = strings.TrimSuffix(boundary, ")")
		t.Partitions = append(t.Partitions, PartitionDefinition{
			Name:     sqltext.Unquote(m[1]),
			Boundary: strings.TrimSpace(boundary),
		})
	}
}

// parseQuotedValues parses a quoted literal list such as an ENUM value body.
func parseQuotedValues(s string) []string {
	return sqltext.ParseQuotedList(s)
}
