package metadata

import (
	"fmt"
	"strings"

	"github.com/ormgen/ormgen/naming"
)

// EnumType is a stable reference to a generated enumeration type.
type EnumType struct {
	Table     string
	Column    string
	TypeName  string
	Reference string
	Values    []string
}

// EnumRegistry issues enum type references, idempotently per
// (table, column) within one run: a second request for the same pair
// returns the previously issued type without regenerating anything.
type EnumRegistry struct {
	pkg    string
	issued map[string]*EnumType
	names  map[string]bool
	order  []*EnumType
}

func NewEnumRegistry(pkg string) *EnumRegistry {
	return &EnumRegistry{
		pkg:    pkg,
		issued: map[string]*EnumType{},
		names:  map[string]bool{},
	}
}

// Request returns the enum type for a table.column value set, creating it
// on first use.
func (r *EnumRegistry) Request(table, column string, values []string) *EnumType {
	key := table + "." + column
	if existing, ok := r.issued[key]; ok {
		return existing
	}

	base := naming.EntityName(table) + upperFirst(naming.PropertyName(column))
	name := base
	for i := 2; r.names[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	r.names[name] = true

	enum := &EnumType{
		Table:     table,
		Column:    column,
		TypeName:  name,
		Reference: r.pkg + "." + name,
		Values:    values,
	}
	r.issued[key] = enum
	r.order = append(r.order, enum)
	return enum
}

// All returns every issued enum type in request order.
func (r *EnumRegistry) All() []*EnumType {
	return r.order
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
