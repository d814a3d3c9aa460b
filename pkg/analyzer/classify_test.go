package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want fileClass
	}{
		{"dump/schema.sql", classSQL},
		{"SCHEMA.SQL", classSQL},
		{"etc/my.cnf", classConfig},
		{"mysql.ini", classConfig},
		{"mysqld", classConfig},
		{"shop@orders@@17.tsv", classData},
		{"notes.txt", classData},
		{"shop@.json", classMetadata},
		{"shop@orders@.json", classMetadata},
		{"@.done.json", classSkip},
		{"dump/@.done.json", classSkip},
		{"load-progress.1f2e.json", classSkip},
		{"image.png", classSkip},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, classify(tc.path), tc.path)
	}
}

func TestTableFromDataFileName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"shop@orders@@17.tsv", "orders"},
		{"shop@orders.tsv", "orders"},
		{"orders.tsv", "orders"},
		{"dump/shop@orders@@0.tsv", "orders"},
		{"17.tsv", "17"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, tableFromDataFileName(tc.path), tc.path)
	}
}
