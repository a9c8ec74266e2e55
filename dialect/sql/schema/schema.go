// Package schema converts models into SQL tables and applies them to a
// database.
package schema

import (
	"fmt"

	"github.com/go-openapi/inflect"

	"github.com/syssam/dbcascade"
	"github.com/syssam/dbcascade/dialect/sqlschema"
	"github.com/syssam/dbcascade/graph"
	dschema "github.com/syssam/dbcascade/schema"
	"github.com/syssam/dbcascade/schema/edge"
	"github.com/syssam/dbcascade/schema/field"
)

// Table schema definition.
type Table struct {
	Name        string
	Model       string
	Columns     []*Column
	columns     map[string]*Column
	PrimaryKey  []*Column
	ForeignKeys []*ForeignKey
	// Unmanaged tables can be referenced but are never created.
	Unmanaged bool
}

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{
		Name:    name,
		columns: make(map[string]*Column),
	}
}

// AddPrimary adds a new primary key to the table.
func (t *Table) AddPrimary(c *Column) *Table {
	c.Key = PrimaryKey
	t.AddColumn(c)
	t.PrimaryKey = append(t.PrimaryKey, c)
	return t
}

// AddColumn adds a new column to the table.
func (t *Table) AddColumn(c *Column) *Table {
	t.Columns = append(t.Columns, c)
	if _, ok := t.columns[c.Name]; !ok {
		t.columns[c.Name] = c
	}
	return t
}

// AddForeignKey adds a foreign key to the table.
func (t *Table) AddForeignKey(fk *ForeignKey) *Table {
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return t
}

// Column returns the column with the given name, if it exists.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.columns[name]
	return c, ok
}

// Column key types.
const (
	PrimaryKey = "PRI"
	UniqueKey  = "UNI"
)

// Column schema definition.
type Column struct {
	Name      string
	Type      field.Type
	Key       string
	Nullable  bool
	Unique    bool
	Increment bool
	Default   any
	Comment   string
}

// ForeignKey definition for creation.
type ForeignKey struct {
	Symbol     string
	Columns    []*Column
	RefTable   *Table
	RefColumns []*Column
	// OnDelete holds the SQL referential action, for example "CASCADE".
	// Empty means no clause is rendered.
	OnDelete string
}

// Managed returns the tables that migrations create.
func Managed(tables []*Table) []*Table {
	var out []*Table
	for _, t := range tables {
		if !t.Unmanaged {
			out = append(out, t)
		}
	}
	return out
}

// TableName returns the table name of a model: the explicit table when
// set, otherwise the snake-case plural of the model name.
func TableName(m *dschema.Model) string {
	if m.Table != "" {
		return m.Table
	}
	return inflect.Pluralize(inflect.Underscore(m.Name))
}

// PtrColumn returns the name of the column linking a child table to a
// concrete parent.
func PtrColumn(parent string) string {
	return inflect.Underscore(parent) + "_ptr_id"
}

// OnDelete returns the SQL referential action of a foreign key. A
// DB_CASCADE field without an explicit database action cascades.
func OnDelete(e *edge.Descriptor) string {
	switch {
	case e.OnDeleteDB.IsSet():
		return e.OnDeleteDB.SQL()
	case e.DBCascade():
		return sqlschema.CascadeDB.SQL()
	default:
		return ""
	}
}

// Tables converts the models of the registry into tables. Abstract models
// have no table. The first concrete parent link of a child table is its
// primary key.
func Tables(reg graph.Registry) ([]*Table, error) {
	var (
		tables  []*Table
		byModel = make(map[string]*Table)
	)
	for _, m := range reg.Models() {
		if m.Abstract {
			continue
		}
		t := NewTable(TableName(m))
		t.Model = m.Name
		t.Unmanaged = m.Unmanaged
		tables = append(tables, t)
		byModel[m.Name] = t
	}
	// Primary keys first, so references to tables declared later resolve.
	for _, t := range tables {
		parents := reg.Parents(t.Model)
		if len(parents) == 0 {
			t.AddPrimary(&Column{Name: "id", Type: field.TypeInt, Increment: true})
			continue
		}
		t.AddPrimary(&Column{Name: PtrColumn(parents[0]), Type: field.TypeInt})
	}
	for _, t := range tables {
		for i, p := range reg.Parents(t.Model) {
			pt, ok := byModel[p]
			if !ok {
				return nil, dbcascade.NewUnknownModelError(p, t.Model)
			}
			col := t.PrimaryKey[0]
			if i > 0 {
				col = &Column{Name: PtrColumn(p), Type: field.TypeInt, Unique: true, Key: UniqueKey}
				t.AddColumn(col)
			}
			t.AddForeignKey(&ForeignKey{
				Symbol:     symbol(t.Name, col.Name),
				Columns:    []*Column{col},
				RefTable:   pt,
				RefColumns: pt.PrimaryKey,
				OnDelete:   sqlschema.CascadeDB.SQL(),
			})
		}
		for _, f := range reg.Attributes(t.Model) {
			c := &Column{
				Name:     f.Name,
				Type:     f.Type,
				Nullable: f.Nullable,
				Unique:   f.Unique,
				Comment:  f.Comment,
			}
			if f.Unique {
				c.Key = UniqueKey
			}
			t.AddColumn(c)
		}
		for _, e := range reg.Fields(t.Model) {
			rt, ok := byModel[e.Target]
			if !ok {
				return nil, dbcascade.NewUnknownModelError(e.Target, t.Model)
			}
			col := &Column{
				Name:     e.Column(),
				Type:     field.TypeInt,
				Nullable: e.Nullable,
				Default:  e.Default,
				Comment:  e.Comment,
			}
			t.AddColumn(col)
			t.AddForeignKey(&ForeignKey{
				Symbol:     symbol(t.Name, col.Name),
				Columns:    []*Column{col},
				RefTable:   rt,
				RefColumns: rt.PrimaryKey,
				OnDelete:   OnDelete(e),
			})
		}
	}
	return tables, nil
}

func symbol(table, column string) string {
	return fmt.Sprintf("%s_%s_fk", table, column)
}
