package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const ordersDDL = `
CREATE TABLE ` + "`shop`.`orders`" + ` (
  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  customer_id INT NOT NULL,
  status ENUM('new','paid','shipped,partial') NOT NULL DEFAULT 'new',
  note VARCHAR(255) CHARACTER SET utf8 COLLATE utf8_general_ci,
  total DECIMAL(10,2) NOT NULL DEFAULT 0,
  created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  total_cents INT GENERATED ALWAYS AS (total * 100) STORED,
  PRIMARY KEY (id),
  UNIQUE KEY uk_customer_status (customer_id, status),
  KEY idx_note (note(100)),
  CONSTRAINT fk_orders_customer FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE CASCADE ON UPDATE RESTRICT
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
`

func TestExtractCreateTable(t *testing.T) {
	reg := NewRegistry()
	defs := Extract("dump.sql", ordersDDL, reg)
	require.Len(t, defs, 1)

	def := defs[0]
	require.Equal(t, "orders", def.Name)
	require.Equal(t, "InnoDB", def.Engine)
	require.Equal(t, "utf8mb4", def.Charset)
	require.Equal(t, "utf8mb4_general_ci", def.Collation)
	require.Equal(t, "dump.sql", def.File)
	require.Equal(t, 2, def.Line)

	require.Len(t, def.Columns, 7)

	id := def.Column("id")
	require.NotNil(t, id)
	require.Equal(t, "BIGINT UNSIGNED", id.RawType)
	require.False(t, id.Nullable)
	require.Equal(t, "auto_increment", id.Extra)

	status := def.Column("status")
	require.NotNil(t, status)
	require.True(t, status.IsEnum())
	require.Equal(t, []string{"new", "paid", "shipped,partial"}, status.EnumValues())
	require.NotNil(t, status.Default)
	require.Equal(t, "'new'", *status.Default)

	note := def.Column("note")
	require.NotNil(t, note)
	require.Equal(t, "utf8", note.Charset)
	require.Equal(t, "utf8_general_ci", note.Collation)
	require.Equal(t, 255, note.DeclaredWidth())
	require.True(t, note.Nullable)

	cents := def.Column("total_cents")
	require.NotNil(t, cents)
	require.NotNil(t, cents.Generated)
	require.True(t, cents.Generated.Stored)
	require.Equal(t, "total * 100", cents.Generated.Expression)

	require.Len(t, def.Indexes, 3)
	require.Equal(t, PrimaryKeyName, def.Indexes[0].Name)
	require.True(t, def.Indexes[0].Unique)
	require.Equal(t, []string{"id"}, def.Indexes[0].Columns())

	uk := def.Indexes[1]
	require.Equal(t, "uk_customer_status", uk.Name)
	require.True(t, uk.Unique)
	require.Equal(t, []string{"customer_id", "status"}, uk.Columns())

	idx := def.Indexes[2]
	require.Equal(t, "idx_note", idx.Name)
	require.False(t, idx.Unique)
	require.Equal(t, 100, idx.Parts[0].Prefix)

	require.Len(t, def.ForeignKeys, 1)
	fk := def.ForeignKeys[0]
	require.Equal(t, "fk_orders_customer", fk.Name)
	require.Equal(t, []string{"customer_id"}, fk.Columns)
	require.Equal(t, "customers", fk.ReferencedTable)
	require.Equal(t, []string{"id"}, fk.ReferencedColumns)
	require.Equal(t, "CASCADE", fk.OnDelete)
	require.Equal(t, "RESTRICT", fk.OnUpdate)

	require.True(t, reg.Has("ORDERS"))
	require.Same(t, def, reg.First("orders"))
}

func TestExtractPartitions(t *testing.T) {
	ddl := `CREATE TABLE logs (
  id INT NOT NULL,
  created YEAR NOT NULL
) ENGINE=MyISAM
PARTITION BY RANGE (created) (
  PARTITION p0 VALUES LESS THAN (2000),
  PARTITION p1 VALUES LESS THAN (2010),
  PARTITION pmax VALUES LESS THAN MAXVALUE
);`
	reg := NewRegistry()
	defs := Extract("part.sql", ddl, reg)
	require.Len(t, defs, 1)

	def := defs[0]
	require.Equal(t, "RANGE", def.PartitionBy)
	require.Equal(t, "MyISAM", def.Engine)
	require.Len(t, def.Partitions, 3)
	require.Equal(t, PartitionDefinition{Name: "p0", Boundary: "2000"}, def.Partitions[0])
	require.Equal(t, PartitionDefinition{Name: "pmax", Boundary: "MAXVALUE"}, def.Partitions[2])
}

func TestExtractListPartition(t *testing.T) {
	ddl := `CREATE TABLE t (r INT) PARTITION BY LIST (r) (PARTITION odd VALUES IN (1,3,5));`
	reg := NewRegistry()
	defs := Extract("list.sql", ddl, reg)
	require.Len(t, defs, 1)
	require.Equal(t, "LIST", defs[0].PartitionBy)
	require.Equal(t, []PartitionDefinition{{Name: "odd", Boundary: "1,3,5"}}, defs[0].Partitions)
}

func TestExtractQuotedKeywordColumns(t *testing.T) {
	ddl := "CREATE TABLE `settings` (\n" +
		"  `id` INT NOT NULL,\n" +
		"  `key` VARCHAR(64) NOT NULL,\n" +
		"  `value` TEXT,\n" +
		"  `index` INT,\n" +
		"  KEY idx_key (`key`)\n" +
		");"
	reg := NewRegistry()
	defs := Extract("settings.sql", ddl, reg)
	require.Len(t, defs, 1)

	def := defs[0]
	require.Len(t, def.Columns, 4)
	key := def.Column("key")
	require.NotNil(t, key)
	require.Equal(t, "VARCHAR(64)", key.RawType)
	require.NotNil(t, def.Column("index"))

	require.Len(t, def.Indexes, 1)
	require.Equal(t, "idx_key", def.Indexes[0].Name)
	require.Equal(t, []string{"key"}, def.Indexes[0].Columns())
}

func TestExtractSkipsMalformedClause(t *testing.T) {
	ddl := `CREATE TABLE t (
  id INT NOT NULL,
  ???not a clause???,
  v VARCHAR(10),
  PRIMARY KEY (id)
);`
	reg := NewRegistry()
	defs := Extract("bad.sql", ddl, reg)
	require.Len(t, defs, 1)
	require.Len(t, defs[0].Columns, 2)
	require.Len(t, defs[0].Indexes, 1)
}

func TestExtractIgnoresNonCreate(t *testing.T) {
	reg := NewRegistry()
	defs := Extract("misc.sql", "INSERT INTO t VALUES (1);\nDROP TABLE t;", reg)
	require.Empty(t, defs)
	require.Zero(t, reg.Len())
}

func TestRegistryKeepsDuplicateDeclarations(t *testing.T) {
	ddl := `CREATE TABLE t (id INT) ENGINE=InnoDB;
CREATE TABLE t (id INT) ENGINE=MyISAM;`
	reg := NewRegistry()
	defs := Extract("dup.sql", ddl, reg)
	require.Len(t, defs, 2)
	require.Len(t, reg.Declarations("t"), 2)
	require.Equal(t, "InnoDB", reg.First("t").Engine)
	require.Equal(t, []string{"t"}, reg.Names())
}

func TestCoversAsPrefix(t *testing.T) {
	idx := IndexDefinition{
		Name:   "uk",
		Unique: true,
		Parts:  []IndexPart{{Column: "a"}, {Column: "b"}, {Column: "c"}},
	}
	require.True(t, idx.CoversAsPrefix([]string{"a"}))
	require.True(t, idx.CoversAsPrefix([]string{"A", "B"}))
	require.False(t, idx.CoversAsPrefix([]string{"b"}))
	require.False(t, idx.CoversAsPrefix([]string{"a", "c"}))
	require.False(t, idx.CoversAsPrefix(nil))
	require.False(t, idx.CoversAsPrefix([]string{"a", "b", "c", "d"}))
}

func TestByteMultiplier(t *testing.T) {
	require.Equal(t, 4, ByteMultiplier("utf8mb4"))
	require.Equal(t, 4, ByteMultiplier("utf8mb4_general_ci"))
	require.Equal(t, 3, ByteMultiplier("utf8"))
	require.Equal(t, 2, ByteMultiplier("gbk"))
	require.Equal(t, 1, ByteMultiplier("latin1"))
	require.Equal(t, 1, ByteMultiplier(""))
	require.Equal(t, 1, ByteMultiplier("made_up"))
	require.True(t, IsFourByte("utf16"))
	require.False(t, IsFourByte("utf8"))
}

func TestResolveColumnCharset(t *testing.T) {
	table := &TableDefinition{Charset: "utf8mb4"}
	require.Equal(t, "utf8mb4", ResolveColumnCharset(table, &ColumnDefinition{}))
	require.Equal(t, "latin1", ResolveColumnCharset(table, &ColumnDefinition{Charset: "latin1"}))
	byCollation := &ColumnDefinition{Collation: "utf8_general_ci"}
	require.Equal(t, "utf8_general_ci", ResolveColumnCharset(table, byCollation))
}
