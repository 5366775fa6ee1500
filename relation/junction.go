package relation

import (
	"github.com/ormgen/ormgen/introspect"
)

// Junction describes a table classified as a pure many-to-many join
// artifact. Left and Right are the two primary-key-participating foreign
// keys, in catalog order.
type Junction struct {
	TableName       string
	Left            introspect.ForeignKey
	Right           introspect.ForeignKey
	SelfReferencing bool
}

// Tables returns the distinct referenced table names.
func (j *Junction) Tables() []string {
	if j.SelfReferencing {
		return []string{j.Left.ForeignTable}
	}
	return []string{j.Left.ForeignTable, j.Right.ForeignTable}
}

// References reports whether the junction links the given table.
func (j *Junction) References(tableName string) bool {
	return j.Left.ForeignTable == tableName || j.Right.ForeignTable == tableName
}

// Other returns the table on the opposite side of the junction from the
// given one. For a self-referencing junction it is the table itself.
func (j *Junction) Other(tableName string) string {
	if j.Left.ForeignTable == tableName {
		return j.Right.ForeignTable
	}
	return j.Left.ForeignTable
}

// ClassifyJunction decides whether a table is a pure many-to-many join
// artifact. The checks run in a fixed order and short-circuit to
// "not a junction" on the first failure; ambiguity never raises an error
// because treating a join table as a real entity is recoverable while
// silently dropping a real entity is not.
//
// processed is the set of table names in the current run; maxMetadata
// bounds the non-FK ("metadata") columns a junction may carry.
func ClassifyJunction(table *introspect.TableDetails, processed map[string]bool, maxMetadata int) (*Junction, bool) {
	if len(table.ForeignKeys) < 2 {
		return nil, false
	}

	referenced := map[string]bool{}
	for _, fk := range table.ForeignKeys {
		referenced[fk.ForeignTable] = true
	}
	if len(referenced) == 0 {
		return nil, false
	}

	// The real many-to-many signal is the number of FKs participating in
	// the primary key, not the total FK count. This also handles
	// self-referencing junctions where both FKs point at the same table.
	pkSet := map[string]bool{}
	for _, col := range table.PrimaryKey {
		pkSet[col] = true
	}
	var pkFKs []introspect.ForeignKey
	for _, fk := range table.ForeignKeys {
		for _, col := range fk.LocalColumns {
			if pkSet[col] {
				pkFKs = append(pkFKs, fk)
				break
			}
		}
	}
	if len(pkFKs) != 2 {
		return nil, false
	}

	pkReferenced := map[string]bool{
		pkFKs[0].ForeignTable: true,
		pkFKs[1].ForeignTable: true,
	}
	if len(pkReferenced) > 2 {
		return nil, false
	}
	for t := range pkReferenced {
		if !processed[t] {
			// partial/filtered run: the other side is not being
			// generated, so keep the table as a real entity
			return nil, false
		}
	}

	// The two FKs' local columns must cover the primary key exactly.
	fkLocal := map[string]bool{}
	for _, fk := range pkFKs {
		for _, col := range fk.LocalColumns {
			fkLocal[col] = true
		}
	}
	for col := range fkLocal {
		if !pkSet[col] {
			return nil, false
		}
	}
	for col := range pkSet {
		if !fkLocal[col] {
			return nil, false
		}
	}

	allFKColumns := table.ForeignKeyColumns()
	metadata := 0
	for _, col := range table.Columns {
		if !allFKColumns[col.Name] {
			metadata++
		}
	}
	if metadata > maxMetadata {
		return nil, false
	}

	return &Junction{
		TableName:       table.TableName,
		Left:            pkFKs[0],
		Right:           pkFKs[1],
		SelfReferencing: pkFKs[0].ForeignTable == pkFKs[1].ForeignTable,
	}, true
}
