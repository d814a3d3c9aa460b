// Package sqltext provides lightweight, allocation-conscious text helpers for
// working with SQL script files without a full parser: statement splitting,
// top-level clause splitting over balanced parentheses, identifier unquoting,
// and quoted-literal list parsing.
//
// The helpers are deliberately approximate. They respect string literals,
// quoted identifiers and comments, which is enough for the pattern- and
// clause-level analysis this tool performs; they do not build a syntax tree.
package sqltext

import (
	"strings"
)

// Statement is a single SQL statement located within a larger script.
type Statement struct {
	// Text is the statement text without the trailing terminator.
	Text string
	// Line is the 1-based line on which the statement starts.
	Line int
	// Offset is the byte offset of the statement start in the source text.
	Offset int
}

// SplitStatements splits a SQL script into semicolon-terminated statements.
// Semicolons inside string literals, quoted identifiers and comments do not
// terminate a statement. A trailing fragment without a terminator is returned
// as a final statement.
func SplitStatements(text string) []Statement {
	var result []Statement
	line := 1
	startLine := 1
	start := 0
	i := 0
	n := len(text)

	flush := func(end int) {
		raw := text[start:end]
		if strings.TrimSpace(raw) != "" {
			lead := 0
			for lead < len(raw) && (raw[lead] == ' ' || raw[lead] == '\t' || raw[lead] == '\n' || raw[lead] == '\r') {
				lead++
			}
			ln := startLine + strings.Count(raw[:lead], "\n")
			result = append(result, Statement{
				Text:   strings.TrimSpace(raw),
				Line:   ln,
				Offset: start + lead,
			})
		}
	}

	// advance moves i to j, counting the newlines in the skipped span.
	advance := func(j int) {
		line += strings.Count(text[i:j], "\n")
		i = j
	}

	for i < n {
		c := text[i]
		switch c {
		case '\n':
			line++
			i++
		case '\'', '"', '`':
			advance(skipQuoted(text, i))
		case '-':
			if i+2 < n && text[i+1] == '-' && (text[i+2] == ' ' || text[i+2] == '\t') {
				i = skipLineComment(text, i)
			} else {
				i++
			}
		case '#':
			i = skipLineComment(text, i)
		case '/':
			if i+1 < n && text[i+1] == '*' {
				end := strings.Index(text[i+2:], "*/")
				if end < 0 {
					advance(n)
				} else {
					advance(i + 2 + end + 2)
				}
			} else {
				i++
			}
		case ';':
			flush(i)
			i++
			start = i
			startLine = line
		default:
			i++
		}
	}
	flush(n)
	return result
}

// skipQuoted advances past a quoted region starting at text[i] (a single
// quote, double quote, or backtick). Backslash escapes and doubled quote
// characters are honored. Returns the index just past the closing quote, or
// len(text) if unterminated.
func skipQuoted(text string, i int) int {
	q := text[i]
	i++
	n := len(text)
	for i < n {
		c := text[i]
		if c == '\\' && q != '`' {
			i += 2
			continue
		}
		if c == q {
			if i+1 < n && text[i+1] == q {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return n
}

// skipLineComment advances to the end of the current line.
func skipLineComment(text string, i int) int {
	for i < len(text) && text[i] != '\n' {
		i++
	}
	return i
}

// SplitTopLevel splits s on sep at nesting depth zero, respecting balanced
// parentheses and quoted regions, so `DECIMAL(10,2)` and `ENUM('a,b')` stay
// intact when splitting a column list on commas.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch c {
		case '\'', '"', '`':
			i = skipQuoted(s, i)
			continue
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if c == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
		i++
	}
	parts = append(parts, s[start:])
	return parts
}

// BalancedSpan finds the span of the parenthesized body starting at the first
// '(' at or after from. It returns the body (without the outer parentheses)
// and the index just past the closing ')'. ok is false when no balanced body
// exists.
func BalancedSpan(s string, from int) (body string, end int, ok bool) {
	open := strings.IndexByte(s[from:], '(')
	if open < 0 {
		return "", 0, false
	}
	open += from
	depth := 0
	i := open
	n := len(s)
	for i < n {
		c := s[i]
		switch c {
		case '\'', '"', '`':
			i = skipQuoted(s, i)
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[open+1 : i], i + 1, true
			}
		}
		i++
	}
	return "", 0, false
}

// Unquote strips one level of backtick or double-quote identifier quoting and
// collapses doubled quote characters. Unquoted input is returned unchanged.
func Unquote(ident string) string {
	ident = strings.TrimSpace(ident)
	if len(ident) < 2 {
		return ident
	}
	q := ident[0]
	if (q != '`' && q != '"') || ident[len(ident)-1] != q {
		return ident
	}
	inner := ident[1 : len(ident)-1]
	return strings.ReplaceAll(inner, string(q)+string(q), string(q))
}

// ParseQuotedList parses a comma-separated list of single-quoted literals,
// e.g. the body of ENUM('a','b''c','d\'e'), honoring backslash escapes and
// doubled quotes. Elements that are not quoted literals are skipped.
func ParseQuotedList(s string) []string {
	var values []string
	i := 0
	n := len(s)
	for i < n {
		for i < n && (s[i] == ' ' || s[i] == ',' || s[i] == '\t' || s[i] == '\n') {
			i++
		}
		if i >= n {
			break
		}
		if s[i] != '\'' {
			// Skip a non-literal element up to the next top-level comma.
			for i < n && s[i] != ',' {
				i++
			}
			continue
		}
		i++
		var b strings.Builder
		for i < n {
			c := s[i]
			if c == '\\' && i+1 < n {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			if c == '\'' {
				if i+1 < n && s[i+1] == '\'' {
					b.WriteByte('\'')
					i += 2
					continue
				}
				i++
				break
			}
			b.WriteByte(c)
			i++
		}
		values = append(values, b.String())
	}
	return values
}

// FirstWord returns the first whitespace-delimited word of s, uppercased,
// with any identifier quoting removed.
func FirstWord(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] != ' ' && s[end] != '\t' && s[end] != '\n' && s[end] != '\r' && s[end] != '(' {
		end++
	}
	return strings.ToUpper(Unquote(s[:end]))
}

// LineAt returns the 1-based line number of byte offset in text.
func LineAt(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return 1 + strings.Count(text[:offset], "\n")
}
