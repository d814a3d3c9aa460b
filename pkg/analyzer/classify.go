package analyzer

import (
	"path/filepath"
	"strings"
)

// fileClass is the scan treatment a file receives, decided from its name.
type fileClass int

const (
	classSkip fileClass = iota
	classSQL
	classConfig
	classData
	classMetadata
)

// classify decides how a file is scanned, case-insensitively:
//
//   - progress markers (@.done.json, load-progress*) are skipped
//   - names containing "@." are export metadata JSON
//   - .sql files receive schema, query and data scans
//   - .cnf, .ini and extensionless files receive the config scan
//   - .tsv and .txt files receive the line-by-line data scan
//
// Anything else is skipped.
func classify(path string) fileClass {
	base := strings.ToLower(filepath.Base(path))
	if base == "@.done.json" || strings.HasPrefix(base, "load-progress") {
		return classSkip
	}
	if strings.Contains(base, "@.") {
		return classMetadata
	}
	switch filepath.Ext(base) {
	case ".sql":
		return classSQL
	case ".cnf", ".ini":
		return classConfig
	case ".tsv", ".txt":
		return classData
	case "":
		return classConfig
	}
	return classSkip
}

// tableFromDataFileName derives the owning table from a data file name.
// Shell-style dump chunks are named schema@table@@chunk.tsv; plain files are
// assumed to be named after their table. A trailing numeric chunk segment is
// dropped.
func tableFromDataFileName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var segments []string
	for _, s := range strings.Split(base, "@") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return ""
	}
	last := len(segments) - 1
	if last > 0 && isDigits(segments[last]) {
		last--
	}
	return segments[last]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
