package metadata

import (
	"github.com/ormgen/ormgen/relation"
	"github.com/ormgen/ormgen/typemap"
)

// Import markers handed to the emission layer, ordered and deduplicated.
// Enum references are appended as-is after the fixed markers.
const (
	ImportMapping   = "mapping"
	ImportInstant   = "instant"
	ImportLifecycle = "lifecycle"
)

// TableMetadata is the fully assembled model for one non-junction table.
// It is built in a single pass and never mutated afterwards.
type TableMetadata struct {
	TableName      string
	EntityName     string
	RepositoryName string
	Columns        []ColumnMeta
	Relations      []relation.Relation
	Indexes        []IndexMeta
	PrimaryKey     []string

	HasLifecycleCallbacks bool
	Imports               []string
}

type ColumnMeta struct {
	Name          string
	PropertyName  string
	Scalar        typemap.Scalar
	StorageTag    typemap.StorageTag
	Nullable      bool // after the composition rule, not the raw column flag
	Length        int
	Precision     int
	Scale         int
	Default       *string
	AutoIncrement bool
	Comment       string
	IsPrimary     bool
	// NeedsInitCallback marks datetime-like columns defaulting to
	// CURRENT_TIMESTAMP: a lifecycle hook, not a plain default value.
	NeedsInitCallback bool
	EnumValues        []string
	SetValues         []string
	EnumType          *EnumType
}

// IndexMeta covers non-primary indexes only.
type IndexMeta struct {
	Name    string
	Columns []string
	Unique  bool
}
