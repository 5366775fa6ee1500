package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormgen/ormgen/config"
	"github.com/ormgen/ormgen/introspect"
)

func newTestResolver() *Resolver {
	return NewResolver(config.Default().Heuristics)
}

func ordersTable() *introspect.TableDetails {
	return &introspect.TableDetails{
		TableName: "orders",
		Columns: []introspect.Column{
			col("id", false),
			col("customer_id", false),
		},
		ForeignKeys: []introspect.ForeignKey{
			fk([]string{"customer_id"}, "customers", []string{"id"}),
		},
		PrimaryKey: []string{"id"},
	}
}

func categoriesTable() *introspect.TableDetails {
	return &introspect.TableDetails{
		TableName: "categories",
		Columns: []introspect.Column{
			col("id", false),
			col("parent_id", true),
		},
		ForeignKeys: []introspect.ForeignKey{
			fk([]string{"parent_id"}, "categories", []string{"id"}),
		},
		PrimaryKey: []string{"id"},
	}
}

func TestManyToOneRelations(t *testing.T) {
	r := newTestResolver()
	used := map[string]bool{}

	relations, err := r.ManyToOneRelations(ordersTable(), used)
	require.NoError(t, err)
	require.Len(t, relations, 1)

	rel := relations[0]
	assert.Equal(t, "customer", rel.PropertyName)
	assert.Equal(t, "Customer", rel.TargetEntity)
	assert.Equal(t, "customers", rel.TargetTable)
	assert.Equal(t, []string{"customer_id"}, rel.LocalColumns)
	assert.False(t, rel.Nullable, "NOT NULL FK column makes the relation required")
	assert.False(t, rel.SelfReferencing)
	assert.Equal(t, "CASCADE", rel.OnDelete)
}

func TestManyToOneSelfReferencingSemanticName(t *testing.T) {
	r := newTestResolver()
	used := map[string]bool{}

	relations, err := r.ManyToOneRelations(categoriesTable(), used)
	require.NoError(t, err)
	require.Len(t, relations, 1)

	rel := relations[0]
	assert.Equal(t, "parent", rel.PropertyName)
	assert.True(t, rel.SelfReferencing)
	assert.True(t, rel.Nullable, "nullable parent_id column makes the relation optional")
}

func TestManyToOneSelfReferencingColumnDerivedName(t *testing.T) {
	table := categoriesTable()
	table.ForeignKeys[0].LocalColumns = []string{"root_category_id"}
	table.Columns[1].Name = "root_category_id"

	r := newTestResolver()
	relations, err := r.ManyToOneRelations(table, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, relations, 1)
	assert.Equal(t, "rootCategory", relations[0].PropertyName)
}

func TestManyToOneCollisions(t *testing.T) {
	table := &introspect.TableDetails{
		TableName: "products",
		Columns: []introspect.Column{
			col("id", false),
			col("category_id", false),
			col("backup_category_id", true),
		},
		ForeignKeys: []introspect.ForeignKey{
			fk([]string{"category_id"}, "categories", []string{"id"}),
			fk([]string{"backup_category_id"}, "categories", []string{"id"}),
		},
		PrimaryKey: []string{"id"},
	}

	r := newTestResolver()
	relations, err := r.ManyToOneRelations(table, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, relations, 2)
	assert.Equal(t, "category", relations[0].PropertyName)
	assert.Equal(t, "backupCategory", relations[1].PropertyName)
}

func TestOneToManyRelations(t *testing.T) {
	customers := &introspect.TableDetails{
		TableName:  "customers",
		Columns:    []introspect.Column{col("id", false)},
		PrimaryKey: []string{"id"},
	}
	orders := ordersTable()

	r := newTestResolver()
	used := map[string]bool{}
	relations, err := r.OneToManyRelations(customers, []*introspect.TableDetails{customers, orders}, used)
	require.NoError(t, err)
	require.Len(t, relations, 1)

	rel := relations[0]
	assert.Equal(t, "orders", rel.PropertyName)
	assert.Equal(t, "Order", rel.TargetEntity)
	assert.Equal(t, "customer", rel.MappedBy)
	assert.False(t, rel.SelfReferencing)
}

func TestOneToManySelfReferencingChildren(t *testing.T) {
	categories := categoriesTable()

	r := newTestResolver()
	used := map[string]bool{"parent": true} // the many-to-one side already claimed it
	relations, err := r.OneToManyRelations(categories, []*introspect.TableDetails{categories}, used)
	require.NoError(t, err)
	require.Len(t, relations, 1)

	rel := relations[0]
	assert.Equal(t, "children", rel.PropertyName)
	assert.Equal(t, "parent", rel.MappedBy)
	assert.True(t, rel.SelfReferencing)
}

// The inverse side's MappedBy must equal the property the owning side
// assigns when it is processed independently.
func TestOneToManyManyToOneSymmetry(t *testing.T) {
	customers := &introspect.TableDetails{
		TableName:  "customers",
		Columns:    []introspect.Column{col("id", false)},
		PrimaryKey: []string{"id"},
	}
	orders := ordersTable()

	r := newTestResolver()

	oneToMany, err := r.OneToManyRelations(customers, []*introspect.TableDetails{customers, orders}, map[string]bool{})
	require.NoError(t, err)

	manyToOne, err := r.ManyToOneRelations(orders, map[string]bool{})
	require.NoError(t, err)

	require.Len(t, oneToMany, 1)
	require.Len(t, manyToOne, 1)
	assert.Equal(t, manyToOne[0].PropertyName, oneToMany[0].MappedBy)
}

func TestManyToManyRelations(t *testing.T) {
	junction, ok := ClassifyJunction(userRolesTable(), processedSet("users", "roles", "user_roles"), 5)
	require.True(t, ok)

	r := newTestResolver()

	onUsers, err := r.ManyToManyRelations("users", []*Junction{junction}, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, onUsers, 1)
	assert.Equal(t, "roles", onUsers[0].PropertyName)
	assert.Equal(t, "Role", onUsers[0].TargetEntity)
	assert.False(t, onUsers[0].OwningSide, "users sorts after roles")
	assert.Equal(t, "users", onUsers[0].MappedBy)
	assert.Equal(t, "user_roles", onUsers[0].JunctionTable)

	onRoles, err := r.ManyToManyRelations("roles", []*Junction{junction}, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, onRoles, 1)
	assert.Equal(t, "users", onRoles[0].PropertyName)
	assert.True(t, onRoles[0].OwningSide, "alphabetically-first table owns the join declaration")
	assert.Equal(t, "roles", onRoles[0].InversedBy)
}

func TestManyToManySelfReferencing(t *testing.T) {
	table := &introspect.TableDetails{
		TableName: "user_friends",
		Columns:   []introspect.Column{col("user_id", false), col("friend_id", false)},
		ForeignKeys: []introspect.ForeignKey{
			fk([]string{"user_id"}, "users", []string{"id"}),
			fk([]string{"friend_id"}, "users", []string{"id"}),
		},
		PrimaryKey: []string{"user_id", "friend_id"},
	}
	junction, ok := ClassifyJunction(table, processedSet("users", "user_friends"), 5)
	require.True(t, ok)

	r := newTestResolver()
	relations, err := r.ManyToManyRelations("users", []*Junction{junction}, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, relations, 1)
	assert.True(t, relations[0].SelfReferencing)
	assert.True(t, relations[0].OwningSide)
	assert.Equal(t, "users", relations[0].PropertyName)
	assert.Equal(t, "User", relations[0].TargetEntity)
}
