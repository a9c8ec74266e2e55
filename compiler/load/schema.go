// Package load reads model declarations from YAML or JSON schema documents.
//
// A document lists models with their foreign keys, scalar fields, parents
// and generic relations:
//
//	models:
//	  - name: Bar
//	    edges:
//	      - name: foo
//	        target: Foo
//	        on_delete: DB_CASCADE
//	        on_delete_db: CASCADE_DB
//
// JSON documents use the same keys.
package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/syssam/dbcascade/dialect/sqlschema"
	"github.com/syssam/dbcascade/graph"
	"github.com/syssam/dbcascade/schema"
	"github.com/syssam/dbcascade/schema/edge"
	"github.com/syssam/dbcascade/schema/field"
)

// Document is the top-level shape of a schema file.
type Document struct {
	Models []*Schema `yaml:"models" json:"models"`
}

// Schema represents a schema.Model as written in a schema file.
type Schema struct {
	Name             string             `yaml:"name" json:"name"`
	Table            string             `yaml:"table,omitempty" json:"table,omitempty"`
	Parents          []string           `yaml:"parents,omitempty" json:"parents,omitempty"`
	Abstract         bool               `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Unmanaged        bool               `yaml:"unmanaged,omitempty" json:"unmanaged,omitempty"`
	Edges            []*Edge            `yaml:"edges,omitempty" json:"edges,omitempty"`
	Fields           []*Field           `yaml:"fields,omitempty" json:"fields,omitempty"`
	GenericRelations []*GenericRelation `yaml:"generic_relations,omitempty" json:"generic_relations,omitempty"`
}

// Edge represents a foreign key as written in a schema file.
type Edge struct {
	Name        string `yaml:"name" json:"name"`
	Target      string `yaml:"target" json:"target"`
	OnDelete    string `yaml:"on_delete,omitempty" json:"on_delete,omitempty"`
	OnDeleteDB  string `yaml:"on_delete_db,omitempty" json:"on_delete_db,omitempty"`
	Nullable    bool   `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
	RelatedName string `yaml:"related_name,omitempty" json:"related_name,omitempty"`
	StorageKey  string `yaml:"storage_key,omitempty" json:"storage_key,omitempty"`
	Comment     string `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// Field represents a scalar field as written in a schema file.
type Field struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Nullable bool   `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Unique   bool   `yaml:"unique,omitempty" json:"unique,omitempty"`
	Comment  string `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// GenericRelation represents a generic relation as written in a schema file.
type GenericRelation struct {
	Name      string `yaml:"name" json:"name"`
	TypeField string `yaml:"type_field" json:"type_field"`
	IDField   string `yaml:"id_field" json:"id_field"`
}

// Error reports a problem in a schema document.
type Error struct {
	File  string
	Model string
	Field string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("load: ")
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Model != "" {
		fmt.Fprintf(&b, "model %s: ", e.Model)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "field %s: ", e.Field)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Parse decodes a YAML or JSON document into models.
func Parse(data []byte) ([]*schema.Model, error) {
	return parse("", data)
}

// File reads and decodes a schema file.
func File(path string) ([]*schema.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{File: path, Err: err}
	}
	return parse(path, data)
}

// Files reads the given schema files concurrently. Models are returned in
// file order, then declaration order.
func Files(ctx context.Context, paths ...string) ([]*schema.Model, error) {
	results := make([][]*schema.Model, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			models, err := File(path)
			if err != nil {
				return err
			}
			results[i] = models
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var models []*schema.Model
	for _, r := range results {
		models = append(models, r...)
	}
	return models, nil
}

// Graph loads the given schema files and resolves them into a graph.
func Graph(ctx context.Context, paths ...string) (*graph.Graph, error) {
	models, err := Files(ctx, paths...)
	if err != nil {
		return nil, err
	}
	return graph.New(models...)
}

func parse(file string, data []byte) ([]*schema.Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &Error{File: file, Err: err}
	}
	models := make([]*schema.Model, 0, len(doc.Models))
	for _, s := range doc.Models {
		m, err := s.Model()
		if err != nil {
			var le *Error
			if errors.As(err, &le) {
				le.File = file
				return nil, le
			}
			return nil, &Error{File: file, Model: s.Name, Err: err}
		}
		models = append(models, m)
	}
	return models, nil
}

// Model converts the loaded schema into a model declaration.
func (s *Schema) Model() (*schema.Model, error) {
	b := schema.New(s.Name).
		Table(s.Table).
		Inherits(s.Parents...)
	if s.Abstract {
		b.Abstract()
	}
	if s.Unmanaged {
		b.Unmanaged()
	}
	for _, e := range s.Edges {
		eb, err := e.builder()
		if err != nil {
			return nil, &Error{Model: s.Name, Field: e.Name, Err: err}
		}
		b.Edges(eb)
	}
	for _, f := range s.Fields {
		typ, err := field.ParseType(f.Type)
		if err != nil {
			return nil, &Error{Model: s.Name, Field: f.Name, Err: err}
		}
		fb := field.New(f.Name, typ).Comment(f.Comment)
		if f.Nullable {
			fb.Nullable()
		}
		if f.Unique {
			fb.Unique()
		}
		b.Fields(fb)
	}
	for _, g := range s.GenericRelations {
		b.GenericRelation(g.Name, g.TypeField, g.IDField)
	}
	return b.Build()
}

func (e *Edge) builder() (*edge.Builder, error) {
	b := edge.ForeignKey(e.Name, e.Target).
		RelatedName(e.RelatedName).
		StorageKey(e.StorageKey).
		Comment(e.Comment)
	if e.OnDelete != "" {
		a, err := edge.ParseAction(e.OnDelete)
		if err != nil {
			return nil, err
		}
		b.OnDelete(a)
	}
	if e.OnDeleteDB != "" {
		a, err := sqlschema.ParseDBAction(e.OnDeleteDB)
		if err != nil {
			return nil, err
		}
		b.OnDeleteDB(a)
	}
	if e.Nullable {
		b.Nullable()
	}
	if e.Default != nil {
		b.Default(e.Default)
	}
	return b, nil
}

// NewSchema converts a model declaration into its document form.
func NewSchema(m *schema.Model) *Schema {
	s := &Schema{
		Name:      m.Name,
		Table:     m.Table,
		Parents:   m.Parents,
		Abstract:  m.Abstract,
		Unmanaged: m.Unmanaged,
	}
	for _, e := range m.Edges {
		s.Edges = append(s.Edges, &Edge{
			Name:        e.Name,
			Target:      e.Target,
			OnDelete:    e.OnDelete.String(),
			OnDeleteDB:  string(e.OnDeleteDB),
			Nullable:    e.Nullable,
			Default:     e.Default,
			RelatedName: e.RelatedName,
			StorageKey:  e.StorageKey,
			Comment:     e.Comment,
		})
	}
	for _, f := range m.Fields {
		s.Fields = append(s.Fields, &Field{
			Name:     f.Name,
			Type:     f.Type.String(),
			Nullable: f.Nullable,
			Unique:   f.Unique,
			Comment:  f.Comment,
		})
	}
	for _, g := range m.GenericRelations {
		s.GenericRelations = append(s.GenericRelations, &GenericRelation{
			Name:      g.Name,
			TypeField: g.TypeField,
			IDField:   g.IDField,
		})
	}
	return s
}

// Marshal encodes models as a YAML schema document.
func Marshal(models []*schema.Model) ([]byte, error) {
	doc := Document{Models: make([]*Schema, 0, len(models))}
	for _, m := range models {
		doc.Models = append(doc.Models, NewSchema(m))
	}
	return yaml.Marshal(doc)
}
