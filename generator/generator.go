package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/ormgen/ormgen/config"
	"github.com/ormgen/ormgen/metadata"
	"github.com/ormgen/ormgen/naming"
	"github.com/ormgen/ormgen/relation"
	"github.com/ormgen/ormgen/typemap"
)

// Generator renders entity, repository and enum source files from
// assembled table metadata.
type Generator struct {
	cfg config.Output
}

func New(cfg config.Output) *Generator {
	return &Generator{cfg: cfg}
}

// Generate writes one entity file and one repository file per table, one
// file per enum type, and the shared db.go scaffold.
func (g *Generator) Generate(models []*metadata.TableMetadata, enums []*metadata.EnumType) error {
	modelsDir := filepath.Join(g.cfg.Dir, "models")
	repoDir := filepath.Join(g.cfg.Dir, "repositories")

	if err := os.MkdirAll(modelsDir, 0755); err != nil {
		return fmt.Errorf("creating models directory: %w", err)
	}
	if err := os.MkdirAll(repoDir, 0755); err != nil {
		return fmt.Errorf("creating repositories directory: %w", err)
	}

	for _, m := range models {
		entity, err := g.RenderEntity(m)
		if err != nil {
			return fmt.Errorf("generating entity %s: %w", m.EntityName, err)
		}
		file := filepath.Join(modelsDir, strings.ToLower(m.EntityName)+".go")
		if err := os.WriteFile(file, entity, 0644); err != nil {
			return fmt.Errorf("writing entity file: %w", err)
		}

		repo, err := g.RenderRepository(m)
		if err != nil {
			return fmt.Errorf("generating repository %s: %w", m.RepositoryName, err)
		}
		file = filepath.Join(repoDir, strings.ToLower(m.EntityName)+"_repository.go")
		if err := os.WriteFile(file, repo, 0644); err != nil {
			return fmt.Errorf("writing repository file: %w", err)
		}
	}

	for _, e := range enums {
		src, err := g.RenderEnum(e)
		if err != nil {
			return fmt.Errorf("generating enum %s: %w", e.TypeName, err)
		}
		file := filepath.Join(modelsDir, strings.ToLower(e.TypeName)+".go")
		if err := os.WriteFile(file, src, 0644); err != nil {
			return fmt.Errorf("writing enum file: %w", err)
		}
	}

	scaffold, err := g.renderScaffold()
	if err != nil {
		return fmt.Errorf("generating db scaffold: %w", err)
	}
	return os.WriteFile(filepath.Join(modelsDir, "db.go"), scaffold, 0644)
}

type entityData struct {
	Package               string
	EntityName            string
	TableName             string
	Imports               []string
	Fields                []fieldData
	HasLifecycleCallbacks bool
	InitFields            []string
}

type fieldData struct {
	Name    string
	Type    string
	Tags    string
	Comment string
}

const entityTemplate = `package {{.Package}}
{{if .Imports}}
import (
{{range .Imports}}	"{{.}}"
{{end}})
{{end}}
// {{.EntityName}} represents the {{.TableName}} table.
type {{.EntityName}} struct {
{{range .Fields}}	{{.Name}} {{.Type}} {{.Tags}}{{if .Comment}} // {{.Comment}}{{end}}
{{end}}}

// TableName returns the source table for {{.EntityName}}.
func ({{.EntityName}}) TableName() string {
	return "{{.TableName}}"
}
{{if .HasLifecycleCallbacks}}
// OnCreate fills the timestamp columns that default to CURRENT_TIMESTAMP.
func (e *{{.EntityName}}) OnCreate() {
{{range .InitFields}}	e.{{.}} = time.Now()
{{end}}}
{{end}}`

// RenderEntity renders one entity struct file.
func (g *Generator) RenderEntity(m *metadata.TableMetadata) ([]byte, error) {
	data := entityData{
		Package:               g.cfg.Package,
		EntityName:            m.EntityName,
		TableName:             m.TableName,
		HasLifecycleCallbacks: m.HasLifecycleCallbacks,
	}

	for _, marker := range m.Imports {
		// only the instant marker maps to a Go import; mapping, lifecycle
		// and enum references resolve within the generated package
		if marker == metadata.ImportInstant {
			data.Imports = append(data.Imports, "time")
		}
	}

	for _, col := range m.Columns {
		data.Fields = append(data.Fields, fieldData{
			Name:    exported(col.PropertyName),
			Type:    goType(col),
			Tags:    columnTags(col),
			Comment: col.Comment,
		})
		if col.NeedsInitCallback {
			data.InitFields = append(data.InitFields, exported(col.PropertyName))
		}
	}

	for _, rel := range m.Relations {
		data.Fields = append(data.Fields, relationField(rel))
	}

	return render("entity", entityTemplate, data)
}

const repositoryTemplate = `package {{.Package}}

// {{.RepositoryName}} provides database operations for {{.EntityName}}.
type {{.RepositoryName}} struct {
	db DB
}

// New{{.RepositoryName}} creates a new {{.RepositoryName}}.
func New{{.RepositoryName}}(db DB) *{{.RepositoryName}} {
	return &{{.RepositoryName}}{db: db}
}

// Create inserts a new {{.EntityName}}.
func (r *{{.RepositoryName}}) Create(e *{{.EntityName}}) error {
	return r.db.Create(e)
}

// Find returns the {{.EntityName}} with the given primary key.
func (r *{{.RepositoryName}}) Find(id any) (*{{.EntityName}}, error) {
	var e {{.EntityName}}
	if err := r.db.First(&e, id); err != nil {
		return nil, err
	}
	return &e, nil
}

// FindAll returns every {{.EntityName}}.
func (r *{{.RepositoryName}}) FindAll() ([]{{.EntityName}}, error) {
	var list []{{.EntityName}}
	err := r.db.Find(&list)
	return list, err
}

// Update persists changes to an existing {{.EntityName}}.
func (r *{{.RepositoryName}}) Update(e *{{.EntityName}}) error {
	return r.db.Save(e)
}

// Delete removes the {{.EntityName}} with the given primary key.
func (r *{{.RepositoryName}}) Delete(id any) error {
	return r.db.Delete(&{{.EntityName}}{}, id)
}
`

// RenderRepository renders the companion repository file for an entity.
func (g *Generator) RenderRepository(m *metadata.TableMetadata) ([]byte, error) {
	data := struct {
		Package        string
		EntityName     string
		RepositoryName string
	}{g.cfg.Package, m.EntityName, m.RepositoryName}
	return render("repository", repositoryTemplate, data)
}

type enumData struct {
	Package  string
	TypeName string
	Table    string
	Column   string
	Consts   []enumConst
}

type enumConst struct {
	Name  string
	Value string
}

const enumTemplate = `package {{.Package}}

// {{.TypeName}} enumerates the allowed values of {{.Table}}.{{.Column}}.
type {{.TypeName}} string

const (
{{range .Consts}}	{{.Name}} {{$.TypeName}} = "{{.Value}}"
{{end}})
`

// RenderEnum renders one enumeration type file.
func (g *Generator) RenderEnum(e *metadata.EnumType) ([]byte, error) {
	data := enumData{
		Package:  g.cfg.Package,
		TypeName: e.TypeName,
		Table:    e.Table,
		Column:   e.Column,
	}
	for _, v := range e.Values {
		data.Consts = append(data.Consts, enumConst{
			Name:  e.TypeName + constSuffix(v),
			Value: v,
		})
	}
	return render("enum", enumTemplate, data)
}

const scaffoldTemplate = `package {{.Package}}

// DB is the persistence interface the generated repositories expect.
// Implement it for your database driver of choice.
type DB interface {
	Create(value any) error
	First(dest any, id any) error
	Find(dest any) error
	Save(value any) error
	Delete(value any, id any) error
}
`

func (g *Generator) renderScaffold() ([]byte, error) {
	return render("scaffold", scaffoldTemplate, struct{ Package string }{g.cfg.Package})
}

func render(name, text string, data any) ([]byte, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}

// goType maps a column's portable scalar to the rendered Go type.
// Nullable scalars become pointers.
func goType(col metadata.ColumnMeta) string {
	var t string
	switch {
	case col.EnumType != nil:
		t = col.EnumType.TypeName
	case col.Scalar == typemap.ScalarInt:
		t = "int"
	case col.Scalar == typemap.ScalarFloat:
		t = "float64"
	case col.Scalar == typemap.ScalarBool:
		t = "bool"
	case col.Scalar == typemap.ScalarInstant:
		t = "time.Time"
	case col.Scalar == typemap.ScalarArray:
		t = "map[string]interface{}"
	default:
		t = "string"
	}
	if col.Nullable {
		return "*" + t
	}
	return t
}

func relationField(rel relation.Relation) fieldData {
	switch r := rel.(type) {
	case relation.ManyToOne:
		tag := fmt.Sprintf("manyToOne:%s;columns:%s", r.TargetTable, strings.Join(r.LocalColumns, ","))
		if r.Nullable {
			tag += ";nullable"
		}
		t := "*" + r.TargetEntity
		return fieldData{Name: exported(r.PropertyName), Type: t, Tags: ormTag(tag)}
	case relation.OneToMany:
		tag := fmt.Sprintf("oneToMany:%s;mappedBy:%s", r.TargetTable, r.MappedBy)
		return fieldData{Name: exported(r.PropertyName), Type: "[]" + r.TargetEntity, Tags: ormTag(tag)}
	case relation.ManyToMany:
		tag := fmt.Sprintf("manyToMany:%s;junction:%s", r.TargetTable, r.JunctionTable)
		if r.OwningSide {
			if r.InversedBy != "" {
				tag += ";inversedBy:" + r.InversedBy
			}
		} else {
			tag += ";mappedBy:" + r.MappedBy
		}
		return fieldData{Name: exported(r.PropertyName), Type: "[]" + r.TargetEntity, Tags: ormTag(tag)}
	}
	return fieldData{}
}

func columnTags(col metadata.ColumnMeta) string {
	tags := []string{
		fmt.Sprintf("db:%q", col.Name),
		fmt.Sprintf("json:%q", col.Name),
	}

	var orm []string
	if col.IsPrimary {
		orm = append(orm, "primary")
	}
	if col.AutoIncrement {
		orm = append(orm, "autoIncrement")
	}
	orm = append(orm, "type:"+string(col.StorageTag))
	tags = append(tags, fmt.Sprintf("ormgen:%q", strings.Join(orm, ";")))

	return "`" + strings.Join(tags, " ") + "`"
}

func ormTag(value string) string {
	return fmt.Sprintf("`ormgen:%q`", value)
}

var nonIdentifier = regexp.MustCompile(`[^A-Za-z0-9]+`)

// constSuffix turns an enum literal into an identifier-safe suffix:
// "in-progress" -> "InProgress".
func constSuffix(value string) string {
	return naming.PascalCase(nonIdentifier.ReplaceAllString(strings.ToLower(value), "_"))
}

func exported(property string) string {
	if property == "" {
		return property
	}
	return strings.ToUpper(property[:1]) + property[1:]
}
