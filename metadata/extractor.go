package metadata

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ormgen/ormgen/config"
	"github.com/ormgen/ormgen/introspect"
	"github.com/ormgen/ormgen/naming"
	"github.com/ormgen/ormgen/relation"
	"github.com/ormgen/ormgen/typemap"
)

// Extractor assembles TableMetadata from raw catalog facts. All facts are
// prefetched before relations are resolved, so each table's assembly is
// independent of processing order.
type Extractor struct {
	provider introspect.Provider
	cfg      *config.Config
	resolver *relation.Resolver
	enums    *EnumRegistry
	log      *zap.Logger
}

func NewExtractor(provider introspect.Provider, cfg *config.Config, enums *EnumRegistry, log *zap.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		cfg:      cfg,
		resolver: relation.NewResolver(cfg.Heuristics),
		enums:    enums,
		log:      log,
	}
}

// ExtractAll extracts metadata for every table in the schema. Junction
// tables are suppressed; their relations surface as many-to-many on the
// linked entities. A catalog failure on one table skips that table with a
// warning instead of aborting the run.
func (e *Extractor) ExtractAll(ctx context.Context) ([]*TableMetadata, error) {
	tableNames, err := e.provider.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	details := e.prefetch(ctx, tableNames)
	entities, junctions := e.classify(details)

	if err := checkEntityNames(entities); err != nil {
		return nil, err
	}

	var results []*TableMetadata
	for _, table := range entities {
		meta, err := e.assemble(table, entities, junctions)
		if err != nil {
			return nil, &ExtractionError{Table: table.TableName, Err: err}
		}
		results = append(results, meta)
	}
	return results, nil
}

// Extract extracts metadata for a single table. Catalog failures on the
// requested table propagate as ExtractionError; failures while scanning
// other tables for inverse relations only cost those relations and are
// logged as warnings. A table classified as a pure junction yields
// (nil, nil): no entity exists for it.
func (e *Extractor) Extract(ctx context.Context, tableName string) (*TableMetadata, error) {
	requested, err := e.provider.GetTableDetails(ctx, tableName)
	if err != nil {
		return nil, &ExtractionError{Table: tableName, Err: err}
	}

	tableNames, err := e.provider.ListTables(ctx)
	if err != nil {
		e.log.Warn("listing tables failed, cross-table relations unavailable",
			zap.String("table", tableName), zap.Error(err))
		tableNames = []string{tableName}
	}

	details := []*introspect.TableDetails{requested}
	for _, name := range tableNames {
		if name == tableName {
			continue
		}
		other, err := e.provider.GetTableDetails(ctx, name)
		if err != nil {
			// transient catalog errors on unrelated tables must not block
			// generation for the requested one
			e.log.Warn("skipping table during cross-table scan",
				zap.String("table", name), zap.Error(err))
			continue
		}
		details = append(details, other)
	}

	entities, junctions := e.classify(details)
	for _, j := range junctions {
		if j.TableName == tableName {
			return nil, nil
		}
	}

	meta, err := e.assemble(requested, entities, junctions)
	if err != nil {
		return nil, &ExtractionError{Table: tableName, Err: err}
	}
	return meta, nil
}

// prefetch loads every table's facts up front; per-table failures are
// logged and the table dropped from the run.
func (e *Extractor) prefetch(ctx context.Context, tableNames []string) []*introspect.TableDetails {
	var details []*introspect.TableDetails
	for _, name := range tableNames {
		t, err := e.provider.GetTableDetails(ctx, name)
		if err != nil {
			e.log.Warn("skipping table, catalog access failed",
				zap.String("table", name), zap.Error(err))
			continue
		}
		details = append(details, t)
	}
	return details
}

// classify splits the fetched tables into entity tables and junctions.
func (e *Extractor) classify(details []*introspect.TableDetails) ([]*introspect.TableDetails, []*relation.Junction) {
	processed := map[string]bool{}
	for _, t := range details {
		processed[t.TableName] = true
	}

	var entities []*introspect.TableDetails
	var junctions []*relation.Junction
	for _, t := range details {
		if j, ok := relation.ClassifyJunction(t, processed, e.cfg.Heuristics.MaxJunctionMetadataColumns); ok {
			junctions = append(junctions, j)
			continue
		}
		entities = append(entities, t)
	}
	return entities, junctions
}

func checkEntityNames(entities []*introspect.TableDetails) error {
	byEntity := map[string]string{}
	for _, t := range entities {
		entity := naming.EntityName(t.TableName)
		if other, ok := byEntity[entity]; ok {
			return fmt.Errorf("tables %s and %s both map to entity %s: rename one of them",
				other, t.TableName, entity)
		}
		byEntity[entity] = t.TableName
	}
	return nil
}

func (e *Extractor) assemble(table *introspect.TableDetails, all []*introspect.TableDetails, junctions []*relation.Junction) (*TableMetadata, error) {
	used := map[string]bool{}

	manyToOne, err := e.resolver.ManyToOneRelations(table, used)
	if err != nil {
		return nil, err
	}
	oneToMany, err := e.resolver.OneToManyRelations(table, all, used)
	if err != nil {
		return nil, err
	}
	manyToMany, err := e.resolver.ManyToManyRelations(table.TableName, junctions, used)
	if err != nil {
		return nil, err
	}

	var relations []relation.Relation
	for _, r := range manyToOne {
		relations = append(relations, r)
	}
	for _, r := range oneToMany {
		relations = append(relations, r)
	}
	for _, r := range manyToMany {
		relations = append(relations, r)
	}

	// columns captured by a relation's FK are not emitted as scalar
	// properties: each column is a property or feeds a relation, never both
	fkColumns := table.ForeignKeyColumns()
	var columns []ColumnMeta
	for _, col := range table.Columns {
		if fkColumns[col.Name] {
			continue
		}
		columns = append(columns, e.buildColumn(table, col))
	}

	hasCallbacks := false
	for _, col := range columns {
		if col.NeedsInitCallback {
			hasCallbacks = true
			break
		}
	}

	var indexes []IndexMeta
	for _, idx := range table.Indexes {
		if idx.Primary {
			continue
		}
		indexes = append(indexes, IndexMeta{
			Name:    idx.Name,
			Columns: idx.Columns,
			Unique:  idx.Unique,
		})
	}

	entityName := naming.EntityName(table.TableName)
	return &TableMetadata{
		TableName:             table.TableName,
		EntityName:            entityName,
		RepositoryName:        naming.RepositoryName(entityName),
		Columns:               columns,
		Relations:             relations,
		Indexes:               indexes,
		PrimaryKey:            table.PrimaryKey,
		HasLifecycleCallbacks: hasCallbacks,
		Imports:               buildImports(columns, hasCallbacks),
	}, nil
}

func (e *Extractor) buildColumn(table *introspect.TableDetails, col introspect.Column) ColumnMeta {
	rawType := col.RawType
	if rawType == "" {
		rawType = col.DataType
	}

	tag := typemap.MapStorageTag(rawType)
	isPrimary := table.IsPrimary(col.Name)

	length, precision, scale := col.Length, col.Precision, col.Scale
	if length == 0 && precision == 0 && scale == 0 {
		length, precision, scale = typemap.ParseParams(rawType)
	}

	meta := ColumnMeta{
		Name:              col.Name,
		PropertyName:      naming.PropertyName(col.Name),
		Scalar:            typemap.MapScalar(rawType),
		StorageTag:        tag,
		Nullable:          typemap.Nullable(col.Nullable, isPrimary, tag),
		Length:            length,
		Precision:         precision,
		Scale:             scale,
		Default:           col.Default,
		AutoIncrement:     col.AutoIncrement,
		Comment:           enrichComment(col.Comment, col),
		IsPrimary:         isPrimary,
		NeedsInitCallback: needsInitCallback(col, tag),
		EnumValues:        col.EnumValues,
		SetValues:         col.SetValues,
	}

	if len(col.EnumValues) > 0 {
		meta.EnumType = e.enums.Request(table.TableName, col.Name, col.EnumValues)
	}
	return meta
}

// needsInitCallback: only the literal CURRENT_TIMESTAMP marker on a
// datetime-like column counts; that is a lifecycle hook requirement, not
// a plain default value.
func needsInitCallback(col introspect.Column, tag typemap.StorageTag) bool {
	if col.Default == nil || !tag.DatetimeLike() {
		return false
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(*col.Default)), "CURRENT_TIMESTAMP")
}

// enrichComment appends the closed value set of enum/set columns to the
// human-readable comment, preserving any existing text.
func enrichComment(comment string, col introspect.Column) string {
	var label string
	var values []string
	switch {
	case len(col.EnumValues) > 0:
		label, values = "Possible values: ", col.EnumValues
	case len(col.SetValues) > 0:
		label, values = "Possible set values: ", col.SetValues
	default:
		return comment
	}

	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	enriched := label + strings.Join(quoted, ", ")
	if comment != "" {
		return comment + " - " + enriched
	}
	return enriched
}

// buildImports derives the ordered, deduplicated import marker list the
// emission layer consumes.
func buildImports(columns []ColumnMeta, hasCallbacks bool) []string {
	imports := []string{ImportMapping}

	for _, col := range columns {
		if col.Scalar == typemap.ScalarInstant {
			imports = append(imports, ImportInstant)
			break
		}
	}
	if hasCallbacks {
		imports = append(imports, ImportLifecycle)
	}

	seen := map[string]bool{}
	for _, col := range columns {
		if col.EnumType == nil || seen[col.EnumType.Reference] {
			continue
		}
		seen[col.EnumType.Reference] = true
		imports = append(imports, col.EnumType.Reference)
	}
	return imports
}
