package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres reads catalog facts from information_schema and pg_catalog.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) ListTables(ctx context.Context) ([]string, error) {
	tablesQuery := `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
	ORDER BY table_name;
	`

	rows, err := p.pool.Query(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tableNames []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tableNames = append(tableNames, tableName)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating table rows: %w", rows.Err())
	}

	return tableNames, nil
}

func (p *Postgres) GetTableDetails(ctx context.Context, tableName string) (*TableDetails, error) {
	columns, err := p.getColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("getting columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}

	foreignKeys, err := p.getForeignKeys(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("getting foreign keys for table %s: %w", tableName, err)
	}

	indexes, err := p.getIndexes(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("getting indexes for table %s: %w", tableName, err)
	}

	primaryKey, err := p.getPrimaryKey(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("getting primary key for table %s: %w", tableName, err)
	}

	return &TableDetails{
		TableName:   tableName,
		Columns:     columns,
		ForeignKeys: foreignKeys,
		Indexes:     indexes,
		PrimaryKey:  primaryKey,
	}, nil
}

func (p *Postgres) getColumns(ctx context.Context, tableName string) ([]Column, error) {
	columnsQuery := `
	SELECT
		c.column_name,
		c.data_type,
		c.udt_name,
		COALESCE(c.character_maximum_length, 0),
		COALESCE(c.numeric_precision, 0),
		COALESCE(c.numeric_scale, 0),
		(c.is_nullable = 'YES') AS is_nullable,
		c.column_default,
		(c.is_identity = 'YES' OR COALESCE(c.column_default, '') LIKE 'nextval(%') AS is_serial,
		COALESCE(d.description, '') AS comment
	FROM information_schema.columns c
	LEFT JOIN pg_catalog.pg_statio_all_tables st
		ON st.schemaname = c.table_schema AND st.relname = c.table_name
	LEFT JOIN pg_catalog.pg_description d
		ON d.objoid = st.relid AND d.objsubid = c.ordinal_position
	WHERE c.table_schema = 'public' AND c.table_name = $1
	ORDER BY c.ordinal_position;
	`

	rows, err := p.pool.Query(ctx, columnsQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var dataType, udtName string
		if err := rows.Scan(
			&col.Name,
			&dataType,
			&udtName,
			&col.Length,
			&col.Precision,
			&col.Scale,
			&col.Nullable,
			&col.Default,
			&col.AutoIncrement,
			&col.Comment,
		); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		col.DataType = strings.ToLower(dataType)
		if col.DataType == "user-defined" {
			col.DataType = strings.ToLower(udtName)
		}
		col.RawType = pgRawType(col)
		columns = append(columns, col)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating column rows: %w", rows.Err())
	}

	for i := range columns {
		// USER-DEFINED columns may be enum types; resolve their labels.
		values, err := p.getEnumValues(ctx, columns[i].DataType)
		if err != nil {
			return nil, fmt.Errorf("resolving enum values for %s: %w", columns[i].Name, err)
		}
		if len(values) > 0 {
			columns[i].EnumValues = values
			columns[i].DataType = "enum"
		}
	}

	return columns, nil
}

// pgRawType reconstructs a vendor-style type string so the type mapper
// sees the same shape a DDL dump would contain.
func pgRawType(col Column) string {
	switch {
	case col.Scale > 0 || col.DataType == "numeric" || col.DataType == "decimal":
		if col.Precision > 0 {
			return fmt.Sprintf("%s(%d,%d)", col.DataType, col.Precision, col.Scale)
		}
	case col.Length > 0:
		return fmt.Sprintf("%s(%d)", col.DataType, col.Length)
	}
	return col.DataType
}

func (p *Postgres) getEnumValues(ctx context.Context, typeName string) ([]string, error) {
	enumQuery := `
	SELECT e.enumlabel
	FROM pg_catalog.pg_type t
	JOIN pg_catalog.pg_enum e ON e.enumtypid = t.oid
	WHERE t.typname = $1
	ORDER BY e.enumsortorder;
	`

	rows, err := p.pool.Query(ctx, enumQuery, typeName)
	if err != nil {
		return nil, fmt.Errorf("querying enum labels: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scanning enum label: %w", err)
		}
		values = append(values, label)
	}

	return values, rows.Err()
}

func (p *Postgres) getForeignKeys(ctx context.Context, tableName string) ([]ForeignKey, error) {
	foreignKeysQuery := `
	SELECT
		tc.constraint_name,
		kcu.column_name,
		ccu.table_name AS foreign_table_name,
		ccu.column_name AS foreign_column_name,
		COALESCE(rc.update_rule, 'NO ACTION'),
		COALESCE(rc.delete_rule, 'NO ACTION')
	FROM information_schema.table_constraints AS tc
	JOIN information_schema.key_column_usage AS kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage AS ccu
		ON ccu.constraint_name = tc.constraint_name
		AND ccu.table_schema = tc.table_schema
	LEFT JOIN information_schema.referential_constraints AS rc
		ON tc.constraint_name = rc.constraint_name
	WHERE tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_schema = 'public'
		AND tc.table_name = $1
	ORDER BY tc.constraint_name, kcu.ordinal_position;
	`

	rows, err := p.pool.Query(ctx, foreignKeysQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying foreign keys: %w", err)
	}
	defer rows.Close()

	// Composite constraints come back as one row per column; group them
	// by constraint name preserving ordinal order.
	var foreignKeys []ForeignKey
	byName := map[string]int{}
	for rows.Next() {
		var constraint, local, foreignTable, foreignColumn, onUpdate, onDelete string
		if err := rows.Scan(&constraint, &local, &foreignTable, &foreignColumn, &onUpdate, &onDelete); err != nil {
			return nil, fmt.Errorf("scanning foreign key: %w", err)
		}
		if i, ok := byName[constraint]; ok {
			foreignKeys[i].LocalColumns = append(foreignKeys[i].LocalColumns, local)
			foreignKeys[i].ForeignColumns = append(foreignKeys[i].ForeignColumns, foreignColumn)
			continue
		}
		byName[constraint] = len(foreignKeys)
		foreignKeys = append(foreignKeys, ForeignKey{
			ConstraintName: constraint,
			LocalColumns:   []string{local},
			ForeignTable:   foreignTable,
			ForeignColumns: []string{foreignColumn},
			OnUpdate:       onUpdate,
			OnDelete:       onDelete,
		})
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating foreign key rows: %w", rows.Err())
	}

	return foreignKeys, nil
}

func (p *Postgres) getIndexes(ctx context.Context, tableName string) ([]Index, error) {
	indexesQuery := `
	SELECT
		i.indexname,
		array_to_string(array_agg(a.attname ORDER BY a.attnum), ',') AS column_names,
		idx.indisunique,
		idx.indisprimary
	FROM pg_indexes i
	JOIN pg_class c ON c.relname = i.indexname
	JOIN pg_index idx ON idx.indexrelid = c.oid
	JOIN pg_attribute a ON a.attrelid = idx.indrelid AND a.attnum = ANY(idx.indkey)
	WHERE i.tablename = $1 AND i.schemaname = 'public'
	GROUP BY i.indexname, idx.indisunique, idx.indisprimary
	ORDER BY i.indexname;
	`

	rows, err := p.pool.Query(ctx, indexesQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying indexes: %w", err)
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var idx Index
		var columnNames string
		if err := rows.Scan(&idx.Name, &columnNames, &idx.Unique, &idx.Primary); err != nil {
			return nil, fmt.Errorf("scanning index: %w", err)
		}
		idx.Columns = splitColumnList(columnNames)
		indexes = append(indexes, idx)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating index rows: %w", rows.Err())
	}

	return indexes, nil
}

func (p *Postgres) getPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	primaryKeyQuery := `
	SELECT kcu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	WHERE tc.constraint_type = 'PRIMARY KEY'
		AND tc.table_schema = 'public'
		AND tc.table_name = $1
	ORDER BY kcu.ordinal_position;
	`

	rows, err := p.pool.Query(ctx, primaryKeyQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying primary key: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning primary key column: %w", err)
		}
		columns = append(columns, name)
	}

	return columns, rows.Err()
}

func splitColumnList(list string) []string {
	columns := strings.Split(list, ",")
	for i, col := range columns {
		columns[i] = strings.TrimSpace(col)
	}
	return columns
}
