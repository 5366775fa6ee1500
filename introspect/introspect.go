package introspect

import "context"

// Provider supplies raw catalog facts for one database. Implementations
// exist for PostgreSQL and MySQL; tests use an in-memory fake.
type Provider interface {
	// ListTables returns base table names, excluding system/catalog tables.
	ListTables(ctx context.Context) ([]string, error)
	// GetTableDetails returns the full fact set for one table.
	GetTableDetails(ctx context.Context, tableName string) (*TableDetails, error)
}

type TableDetails struct {
	TableName   string
	Columns     []Column
	ForeignKeys []ForeignKey
	Indexes     []Index
	PrimaryKey  []string
}

type Column struct {
	Name          string
	DataType      string // normalized base type keyword, e.g. "decimal"
	RawType       string // full vendor type, e.g. "decimal(10,2) unsigned"
	Length        int
	Precision     int
	Scale         int
	Nullable      bool
	Default       *string
	AutoIncrement bool
	Comment       string
	EnumValues    []string // populated for enum columns, already parsed
	SetValues     []string // populated for set columns, already parsed
}

type ForeignKey struct {
	ConstraintName string
	LocalColumns   []string
	ForeignTable   string
	ForeignColumns []string
	OnUpdate       string
	OnDelete       string
}

type Index struct {
	Name    string
	Columns []string
	Unique  bool
	Primary bool
}

// Column returns the column with the given name, or nil.
func (t *TableDetails) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimary reports whether the named column is part of the primary key.
func (t *TableDetails) IsPrimary(name string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == name {
			return true
		}
	}
	return false
}

// ForeignKeyColumns returns the set of column names owned by any foreign
// key on the table.
func (t *TableDetails) ForeignKeyColumns() map[string]bool {
	cols := map[string]bool{}
	for _, fk := range t.ForeignKeys {
		for _, c := range fk.LocalColumns {
			cols[c] = true
		}
	}
	return cols
}
