package schema

import (
	"errors"
	"fmt"

	"github.com/syssam/dbcascade"
	"github.com/syssam/dbcascade/dialect/sqlschema"
	"github.com/syssam/dbcascade/schema/edge"
	"github.com/syssam/dbcascade/schema/field"
)

// Model is the static declaration of a model.
type Model struct {
	Name string
	// Table overrides the derived table name.
	Table string
	// Parents lists the direct parent models in declaration order.
	// Abstract parents contribute their fields; concrete parents make this
	// a multi-table inherited model.
	Parents []string
	// Edges are the foreign keys declared on the model itself.
	Edges []*edge.Descriptor
	// Fields are the scalar fields declared on the model itself.
	Fields []*field.Descriptor
	// GenericRelations declared on the model itself.
	GenericRelations []GenericRelation
	// Abstract models have no table and are never checked on their own.
	Abstract bool
	// Unmanaged models have a table that is created outside of migrations.
	Unmanaged bool
}

// GenericRelation pairs a foreign key to a type table with an object id
// field, forming a polymorphic reference.
type GenericRelation struct {
	Name      string
	TypeField string // Foreign key half (content type).
	IDField   string // Object id half.
}

// Edge returns the foreign key with the given name declared on the model.
func (m *Model) Edge(name string) (*edge.Descriptor, bool) {
	for _, e := range m.Edges {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Field returns the scalar field with the given name declared on the model.
func (m *Model) Field(name string) (*field.Descriptor, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Edger is implemented by edge builders.
type Edger interface {
	Descriptor() *edge.Descriptor
}

// Fielder is implemented by field builders.
type Fielder interface {
	Descriptor() *field.Descriptor
}

// Mixin is a reusable set of fields and foreign keys. See package mixin.
type Mixin interface {
	Fields() []Fielder
	Edges() []Edger
}

// Builder for models.
type Builder struct {
	model *Model
}

// New returns a builder for a model named name.
//
//	schema.New("Bar").
//	    Edges(edge.ForeignKey("foo", "Foo").OnDelete(edge.DBCascade).OnDeleteDB(sqlschema.CascadeDB))
func New(name string) *Builder {
	return &Builder{model: &Model{Name: name}}
}

// Table overrides the table name.
func (b *Builder) Table(name string) *Builder {
	b.model.Table = name
	return b
}

// Annotations applies SQL annotations to the model.
func (b *Builder) Annotations(annotations ...sqlschema.Annotation) *Builder {
	if t, ok := sqlschema.Merge(annotations...).GetTable(); ok {
		b.model.Table = t
	}
	return b
}

// Inherits appends parent models.
func (b *Builder) Inherits(parents ...string) *Builder {
	b.model.Parents = append(b.model.Parents, parents...)
	return b
}

// Edges appends foreign keys.
func (b *Builder) Edges(edges ...Edger) *Builder {
	for _, e := range edges {
		b.model.Edges = append(b.model.Edges, e.Descriptor())
	}
	return b
}

// Fields appends scalar fields.
func (b *Builder) Fields(fields ...Fielder) *Builder {
	for _, f := range fields {
		b.model.Fields = append(b.model.Fields, f.Descriptor())
	}
	return b
}

// Mixin adds the fields and foreign keys of the given mixins. Mixin
// declarations come before the model's own, in mixin order.
func (b *Builder) Mixin(mixins ...Mixin) *Builder {
	var (
		edges  []*edge.Descriptor
		fields []*field.Descriptor
	)
	for _, m := range mixins {
		for _, e := range m.Edges() {
			edges = append(edges, e.Descriptor())
		}
		for _, f := range m.Fields() {
			fields = append(fields, f.Descriptor())
		}
	}
	b.model.Edges = append(edges, b.model.Edges...)
	b.model.Fields = append(fields, b.model.Fields...)
	return b
}

// GenericRelation declares a polymorphic reference made of the foreign key
// typeField and the object id field idField.
func (b *Builder) GenericRelation(name, typeField, idField string) *Builder {
	b.model.GenericRelations = append(b.model.GenericRelations, GenericRelation{
		Name:      name,
		TypeField: typeField,
		IDField:   idField,
	})
	return b
}

// Abstract marks the model as abstract.
func (b *Builder) Abstract() *Builder {
	b.model.Abstract = true
	return b
}

// Unmanaged marks the model as unmanaged by migrations.
func (b *Builder) Unmanaged() *Builder {
	b.model.Unmanaged = true
	return b
}

// Build validates the declaration and returns the model.
// Builder errors of fields and edges are reported as *dbcascade.SchemaError.
func (b *Builder) Build() (*Model, error) {
	m := b.model
	if m.Name == "" {
		return nil, dbcascade.NewSchemaError("", "", "missing model name", nil)
	}
	var errs []error
	seen := make(map[string]bool)
	dup := func(name string) {
		if seen[name] {
			errs = append(errs, dbcascade.NewSchemaError(m.Name, name, "duplicate field name", nil))
		}
		seen[name] = true
	}
	for _, e := range m.Edges {
		if e.Err != nil {
			errs = append(errs, dbcascade.NewSchemaError(m.Name, e.Name, "invalid foreign key", e.Err))
			continue
		}
		dup(e.Name)
	}
	for _, f := range m.Fields {
		if f.Err != nil {
			errs = append(errs, dbcascade.NewSchemaError(m.Name, f.Name, "invalid field", f.Err))
			continue
		}
		dup(f.Name)
	}
	for _, p := range m.Parents {
		if p == m.Name {
			errs = append(errs, dbcascade.NewSchemaError(m.Name, "", "model cannot inherit from itself", nil))
		}
	}
	for _, g := range m.GenericRelations {
		if g.TypeField == "" || g.IDField == "" {
			errs = append(errs, dbcascade.NewSchemaError(m.Name, g.Name,
				fmt.Sprintf("generic relation needs both a type field and an id field (got %q, %q)", g.TypeField, g.IDField), nil))
		}
	}
	if err := dbcascade.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// MustBuild is like Build but panics on error. It is intended for
// package-level model declarations and tests.
func (b *Builder) MustBuild() *Model {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

// BuildAll builds every builder and joins their errors.
func BuildAll(builders ...*Builder) ([]*Model, error) {
	models := make([]*Model, 0, len(builders))
	var errs []error
	for _, b := range builders {
		m, err := b.Build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		models = append(models, m)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return models, nil
}
