package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// MySQL reads catalog facts from information_schema through database/sql
// (driver: github.com/go-sql-driver/mysql). Enum and set value lists are
// parsed here, once, from COLUMN_TYPE; downstream code only ever sees the
// extracted lists.
type MySQL struct {
	db *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

func (m *MySQL) ListTables(ctx context.Context) ([]string, error) {
	tablesQuery := `
	SELECT TABLE_NAME
	FROM information_schema.TABLES
	WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'
	ORDER BY TABLE_NAME;
	`

	rows, err := m.db.QueryContext(ctx, tablesQuery)
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

func (m *MySQL) GetTableDetails(ctx context.Context, tableName string) (*TableDetails, error) {
	columns, primaryKey, err := m.getColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("getting columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}

	foreignKeys, err := m.getForeignKeys(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("getting foreign keys for table %s: %w", tableName, err)
	}

	indexes, err := m.getIndexes(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("getting indexes for table %s: %w", tableName, err)
	}

	return &TableDetails{
		TableName:   tableName,
		Columns:     columns,
		ForeignKeys: foreignKeys,
		Indexes:     indexes,
		PrimaryKey:  primaryKey,
	}, nil
}

func (m *MySQL) getColumns(ctx context.Context, tableName string) ([]Column, []string, error) {
	columnsQuery := `
	SELECT
		COLUMN_NAME,
		DATA_TYPE,
		COLUMN_TYPE,
		COALESCE(CHARACTER_MAXIMUM_LENGTH, 0),
		COALESCE(NUMERIC_PRECISION, 0),
		COALESCE(NUMERIC_SCALE, 0),
		(IS_NULLABLE = 'YES'),
		COLUMN_DEFAULT,
		(EXTRA LIKE '%auto_increment%'),
		COLUMN_COMMENT,
		(COLUMN_KEY = 'PRI')
	FROM information_schema.COLUMNS
	WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
	ORDER BY ORDINAL_POSITION;
	`

	rows, err := m.db.QueryContext(ctx, columnsQuery, tableName)
	if err != nil {
		return nil, nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	var primaryKey []string
	for rows.Next() {
		var col Column
		var isPrimary bool
		if err := rows.Scan(
			&col.Name,
			&col.DataType,
			&col.RawType,
			&col.Length,
			&col.Precision,
			&col.Scale,
			&col.Nullable,
			&col.Default,
			&col.AutoIncrement,
			&col.Comment,
			&isPrimary,
		); err != nil {
			return nil, nil, fmt.Errorf("scanning column: %w", err)
		}
		col.DataType = strings.ToLower(col.DataType)
		switch col.DataType {
		case "enum":
			col.EnumValues = parseValueList(col.RawType)
		case "set":
			col.SetValues = parseValueList(col.RawType)
		}
		if isPrimary {
			primaryKey = append(primaryKey, col.Name)
		}
		columns = append(columns, col)
	}

	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("iterating column rows: %w", rows.Err())
	}

	return columns, primaryKey, nil
}

func (m *MySQL) getForeignKeys(ctx context.Context, tableName string) ([]ForeignKey, error) {
	foreignKeysQuery := `
	SELECT
		kcu.CONSTRAINT_NAME,
		kcu.COLUMN_NAME,
		kcu.REFERENCED_TABLE_NAME,
		kcu.REFERENCED_COLUMN_NAME,
		COALESCE(rc.UPDATE_RULE, 'NO ACTION'),
		COALESCE(rc.DELETE_RULE, 'NO ACTION')
	FROM information_schema.KEY_COLUMN_USAGE kcu
	LEFT JOIN information_schema.REFERENTIAL_CONSTRAINTS rc
		ON rc.CONSTRAINT_SCHEMA = kcu.CONSTRAINT_SCHEMA
		AND rc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
	WHERE kcu.TABLE_SCHEMA = DATABASE()
		AND kcu.TABLE_NAME = ?
		AND kcu.REFERENCED_TABLE_NAME IS NOT NULL
	ORDER BY kcu.CONSTRAINT_NAME, kcu.ORDINAL_POSITION;
	`

	rows, err := m.db.QueryContext(ctx, foreignKeysQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying foreign keys: %w", err)
	}
	defer rows.Close()

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

func (m *MySQL) getIndexes(ctx context.Context, tableName string) ([]Index, error) {
	indexesQuery := `
	SELECT INDEX_NAME, COLUMN_NAME, (NON_UNIQUE = 0)
	FROM information_schema.STATISTICS
	WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
	ORDER BY INDEX_NAME, SEQ_IN_INDEX;
	`

	rows, err := m.db.QueryContext(ctx, indexesQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("querying indexes: %w", err)
	}
	defer rows.Close()

	var indexes []Index
	byName := map[string]int{}
	for rows.Next() {
		var name, column string
		var unique bool
		if err := rows.Scan(&name, &column, &unique); err != nil {
			return nil, fmt.Errorf("scanning index: %w", err)
		}
		if i, ok := byName[name]; ok {
			indexes[i].Columns = append(indexes[i].Columns, column)
			continue
		}
		byName[name] = len(indexes)
		indexes = append(indexes, Index{
			Name:    name,
			Columns: []string{column},
			Unique:  unique,
			Primary: name == "PRIMARY",
		})
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating index rows: %w", rows.Err())
	}

	return indexes, nil
}

// parseValueList extracts the quoted literals from a COLUMN_TYPE string
// such as enum('a','b','it''s') or set('x','y').
func parseValueList(columnType string) []string {
	open := strings.Index(columnType, "(")
	end := strings.LastIndex(columnType, ")")
	if open < 0 || end <= open {
		return nil
	}

	var values []string
	var current strings.Builder
	inQuote := false
	body := columnType[open+1 : end]
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\'' && inQuote && i+1 < len(body) && body[i+1] == '\'':
			// doubled quote inside a literal
			current.WriteByte('\'')
			i++
		case c == '\'':
			if inQuote {
				values = append(values, current.String())
				current.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			current.WriteByte(c)
		}
	}
	return values
}
