package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormgen/ormgen/introspect"
)

func col(name string, nullable bool) introspect.Column {
	return introspect.Column{Name: name, DataType: "int", RawType: "int", Nullable: nullable}
}

func fk(local []string, table string, foreign []string) introspect.ForeignKey {
	return introspect.ForeignKey{
		ConstraintName: "fk_" + local[0],
		LocalColumns:   local,
		ForeignTable:   table,
		ForeignColumns: foreign,
		OnUpdate:       "NO ACTION",
		OnDelete:       "CASCADE",
	}
}

func userRolesTable() *introspect.TableDetails {
	return &introspect.TableDetails{
		TableName: "user_roles",
		Columns:   []introspect.Column{col("user_id", false), col("role_id", false)},
		ForeignKeys: []introspect.ForeignKey{
			fk([]string{"user_id"}, "users", []string{"id"}),
			fk([]string{"role_id"}, "roles", []string{"id"}),
		},
		PrimaryKey: []string{"user_id", "role_id"},
	}
}

func processedSet(names ...string) map[string]bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return set
}

func TestClassifyJunctionPure(t *testing.T) {
	j, ok := ClassifyJunction(userRolesTable(), processedSet("users", "roles", "user_roles"), 5)
	require.True(t, ok)
	assert.Equal(t, "user_roles", j.TableName)
	assert.False(t, j.SelfReferencing)
	assert.ElementsMatch(t, []string{"users", "roles"}, j.Tables())
	assert.Equal(t, "roles", j.Other("users"))
	assert.Equal(t, "users", j.Other("roles"))
}

func TestClassifyJunctionSelfReferencing(t *testing.T) {
	table := &introspect.TableDetails{
		TableName: "user_friends",
		Columns:   []introspect.Column{col("user_id", false), col("friend_id", false)},
		ForeignKeys: []introspect.ForeignKey{
			fk([]string{"user_id"}, "users", []string{"id"}),
			fk([]string{"friend_id"}, "users", []string{"id"}),
		},
		PrimaryKey: []string{"user_id", "friend_id"},
	}

	j, ok := ClassifyJunction(table, processedSet("users", "user_friends"), 5)
	require.True(t, ok)
	assert.True(t, j.SelfReferencing)
	assert.Equal(t, []string{"users"}, j.Tables())
}

func TestClassifyJunctionWithMetadataColumns(t *testing.T) {
	table := userRolesTable()
	table.Columns = append(table.Columns,
		introspect.Column{Name: "granted_at", DataType: "timestamp", RawType: "timestamp"},
		introspect.Column{Name: "granted_by_name", DataType: "text", RawType: "text"},
	)

	_, ok := ClassifyJunction(table, processedSet("users", "roles", "user_roles"), 5)
	assert.True(t, ok, "a timestamped junction stays a junction")

	_, ok = ClassifyJunction(table, processedSet("users", "roles", "user_roles"), 1)
	assert.False(t, ok, "over the metadata column threshold")
}

func TestClassifyJunctionRejectsSingleFK(t *testing.T) {
	table := userRolesTable()
	table.ForeignKeys = table.ForeignKeys[:1]

	_, ok := ClassifyJunction(table, processedSet("users", "roles", "user_roles"), 5)
	assert.False(t, ok)
}

func TestClassifyJunctionRejectsOwnSurrogateKey(t *testing.T) {
	// two FKs but the PK is a surrogate id: the FK columns do not cover
	// the key, so the table is a real entity
	table := userRolesTable()
	table.Columns = append([]introspect.Column{col("id", false)}, table.Columns...)
	table.PrimaryKey = []string{"id"}

	_, ok := ClassifyJunction(table, processedSet("users", "roles", "user_roles"), 5)
	assert.False(t, ok)
}

func TestClassifyJunctionRejectsPartialKeyCoverage(t *testing.T) {
	// primary key contains a third column no FK covers
	table := userRolesTable()
	table.Columns = append(table.Columns, col("tenant_id", false))
	table.PrimaryKey = []string{"user_id", "role_id", "tenant_id"}

	_, ok := ClassifyJunction(table, processedSet("users", "roles", "user_roles"), 5)
	assert.False(t, ok)
}

func TestClassifyJunctionRejectsUnprocessedTarget(t *testing.T) {
	// filtered run: roles is not part of the processed set
	_, ok := ClassifyJunction(userRolesTable(), processedSet("users", "user_roles"), 5)
	assert.False(t, ok)
}

func TestClassifyJunctionIgnoresExtraNonKeyFK(t *testing.T) {
	// a third FK outside the primary key does not disqualify the table:
	// the signal is the number of PK-participating FKs
	table := userRolesTable()
	table.Columns = append(table.Columns, col("granted_by", true))
	table.ForeignKeys = append(table.ForeignKeys,
		fk([]string{"granted_by"}, "users", []string{"id"}))

	j, ok := ClassifyJunction(table, processedSet("users", "roles", "user_roles"), 5)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"users", "roles"}, j.Tables())
}
