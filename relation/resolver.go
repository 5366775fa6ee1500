package relation

import (
	"strings"

	"github.com/ormgen/ormgen/config"
	"github.com/ormgen/ormgen/introspect"
	"github.com/ormgen/ormgen/naming"
)

// Resolver derives relations for one table at a time. It is state-free
// per invocation: everything it needs arrives as parameters, so tables
// can be resolved in any order with identical results.
type Resolver struct {
	heuristics    config.Heuristics
	alreadyPlural map[string]bool
}

func NewResolver(h config.Heuristics) *Resolver {
	return &Resolver{
		heuristics:    h,
		alreadyPlural: h.AlreadyPlural(),
	}
}

// ManyToOneRelations derives one relation per foreign key on the table,
// in catalog order. used accumulates property names already taken on the
// owning entity and is updated with every assigned name.
func (r *Resolver) ManyToOneRelations(table *introspect.TableDetails, used map[string]bool) ([]ManyToOne, error) {
	var relations []ManyToOne
	for _, fk := range table.ForeignKeys {
		targetEntity := naming.EntityName(fk.ForeignTable)
		self := fk.ForeignTable == table.TableName

		name, err := naming.UniqueRelationName(
			r.manyToOneBase(fk, self), fk.LocalColumns[0], targetEntity, used)
		if err != nil {
			return nil, err
		}
		used[name] = true

		relations = append(relations, ManyToOne{
			TargetEntity:    targetEntity,
			TargetTable:     fk.ForeignTable,
			LocalColumns:    fk.LocalColumns,
			ForeignColumns:  fk.ForeignColumns,
			PropertyName:    name,
			OnDelete:        fk.OnDelete,
			OnUpdate:        fk.OnUpdate,
			Nullable:        r.fkNullable(table, fk),
			SelfReferencing: self,
		})
	}
	return relations, nil
}

// manyToOneBase picks the candidate property name for a foreign key.
// Self references prefer semantic column names (parent_id -> parent) and
// fall back to the column with "_id" stripped; everything else uses the
// target entity name.
func (r *Resolver) manyToOneBase(fk introspect.ForeignKey, self bool) string {
	if self {
		column := fk.LocalColumns[0]
		if semantic, ok := r.heuristics.SelfRefPropertyNames[column]; ok {
			return semantic
		}
		if derived := naming.PropertyName(strings.TrimSuffix(column, "_id")); derived != "" {
			return derived
		}
	}
	return lowerFirst(naming.EntityName(fk.ForeignTable))
}

// fkNullable: the relation is optional only when every local column
// accepts null.
func (r *Resolver) fkNullable(table *introspect.TableDetails, fk introspect.ForeignKey) bool {
	for _, name := range fk.LocalColumns {
		col := table.Column(name)
		if col == nil || !col.Nullable {
			return false
		}
	}
	return true
}

// OneToManyRelations scans the foreign keys of every table in the run
// (including the current one, for self references) and emits the inverse
// collection for each FK pointing back at current. MappedBy is computed
// with the same pure naming pass the other table will run itself, so
// processing order never matters.
func (r *Resolver) OneToManyRelations(current *introspect.TableDetails, all []*introspect.TableDetails, used map[string]bool) ([]OneToMany, error) {
	var relations []OneToMany
	for _, other := range all {
		names, err := r.manyToOnePropertyNames(other)
		if err != nil {
			return nil, err
		}
		for i, fk := range other.ForeignKeys {
			if fk.ForeignTable != current.TableName {
				continue
			}
			self := other.TableName == current.TableName
			targetEntity := naming.EntityName(other.TableName)

			name, err := naming.UniqueRelationName(
				r.oneToManyBase(other.TableName, fk, self), fk.LocalColumns[0], targetEntity, used)
			if err != nil {
				return nil, err
			}
			used[name] = true

			relations = append(relations, OneToMany{
				TargetEntity:    targetEntity,
				TargetTable:     other.TableName,
				PropertyName:    name,
				MappedBy:        names[i],
				SelfReferencing: self,
			})
		}
	}
	return relations, nil
}

// oneToManyBase picks the collection name: semantic self-reference names
// (parent_id -> children) when configured, otherwise the pluralized
// entity name of the referencing table.
func (r *Resolver) oneToManyBase(otherTable string, fk introspect.ForeignKey, self bool) string {
	if self {
		if collection, ok := r.heuristics.SelfRefCollectionNames[fk.LocalColumns[0]]; ok {
			return collection
		}
	}
	return r.collection(otherTable)
}

// manyToOnePropertyNames replays the many-to-one naming pass for a table
// against a fresh name set, returning one property name per foreign key.
// This is the shared pure function both relation directions rely on.
func (r *Resolver) manyToOnePropertyNames(table *introspect.TableDetails) ([]string, error) {
	used := map[string]bool{}
	names := make([]string, len(table.ForeignKeys))
	for i, fk := range table.ForeignKeys {
		self := fk.ForeignTable == table.TableName
		name, err := naming.UniqueRelationName(
			r.manyToOneBase(fk, self), fk.LocalColumns[0], naming.EntityName(fk.ForeignTable), used)
		if err != nil {
			return nil, err
		}
		used[name] = true
		names[i] = name
	}
	return names, nil
}

// ManyToManyRelations synthesizes relations on currentTable for every
// junction linking it. The alphabetically-first table name is the owning
// side; a self-referencing junction yields a single owning-side relation.
func (r *Resolver) ManyToManyRelations(currentTable string, junctions []*Junction, used map[string]bool) ([]ManyToMany, error) {
	var relations []ManyToMany
	for _, j := range junctions {
		if !j.References(currentTable) {
			continue
		}

		if j.SelfReferencing {
			name, err := naming.UniqueRelationName(
				r.collection(currentTable), "", naming.EntityName(currentTable), used)
			if err != nil {
				return nil, err
			}
			used[name] = true
			relations = append(relations, ManyToMany{
				TargetEntity:    naming.EntityName(currentTable),
				TargetTable:     currentTable,
				PropertyName:    name,
				JunctionTable:   j.TableName,
				OwningSide:      true,
				SelfReferencing: true,
			})
			continue
		}

		other := j.Other(currentTable)
		owning := currentTable < other
		name, err := naming.UniqueRelationName(
			r.collection(other), "", naming.EntityName(other), used)
		if err != nil {
			return nil, err
		}
		used[name] = true

		rel := ManyToMany{
			TargetEntity:  naming.EntityName(other),
			TargetTable:   other,
			PropertyName:  name,
			JunctionTable: j.TableName,
			OwningSide:    owning,
		}
		// The opposite side's property is recomputed with the same pure
		// naming, keeping both declarations consistent without ordering.
		if owning {
			rel.InversedBy = r.collection(currentTable)
		} else {
			rel.MappedBy = r.collection(currentTable)
		}
		relations = append(relations, rel)
	}
	return relations, nil
}

// collection is the plural camelCase property name for a table's entity.
func (r *Resolver) collection(tableName string) string {
	return naming.PluralizeWith(lowerFirst(naming.EntityName(tableName)), r.alreadyPlural)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
