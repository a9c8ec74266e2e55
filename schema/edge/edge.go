package edge

import (
	"errors"
	"fmt"

	"github.com/syssam/dbcascade/dialect/sqlschema"
)

// Descriptor holds the declaration of a foreign key.
type Descriptor struct {
	Name        string             // Field name on the declaring model.
	Target      string             // Name of the referenced model.
	OnDelete    Action             // Application-level delete rule.
	OnDeleteDB  sqlschema.DBAction // Database-level delete rule, if any.
	Nullable    bool               // Whether the column accepts NULL.
	Default     any                // Column default, if any.
	RelatedName string             // Name of the reverse accessor on the target.
	StorageKey  string             // Column name override.
	Comment     string
	Err         error
}

// Column returns the storage column of the foreign key.
func (d *Descriptor) Column() string {
	if d.StorageKey != "" {
		return d.StorageKey
	}
	return d.Name + "_id"
}

// DBCascade reports whether the application delegates deletes of this
// relation to the database.
func (d *Descriptor) DBCascade() bool {
	return d.OnDelete == DBCascade
}

// Builder for foreign keys.
type Builder struct {
	desc *Descriptor
}

// ForeignKey returns a builder for a many-to-one relation named name,
// pointing at the model named target.
//
//	edge.ForeignKey("author", "Author").OnDelete(edge.Cascade)
func ForeignKey(name, target string) *Builder {
	b := &Builder{desc: &Descriptor{Name: name, Target: target}}
	switch {
	case name == "":
		b.desc.Err = errors.New("edge: missing foreign key name")
	case target == "":
		b.desc.Err = fmt.Errorf("edge: foreign key %q has no target model", name)
	}
	return b
}

// OnDelete sets the application-level delete rule.
func (b *Builder) OnDelete(a Action) *Builder {
	if !a.IsValid() {
		b.desc.Err = errors.Join(b.desc.Err, fmt.Errorf("edge: foreign key %q: invalid on_delete %v", b.desc.Name, a))
	}
	b.desc.OnDelete = a
	return b
}

// OnDeleteDB sets the database-level delete rule. It is only accepted by
// the checks together with OnDelete(DBCascade).
func (b *Builder) OnDeleteDB(a sqlschema.DBAction) *Builder {
	if a.IsSet() && !a.IsValid() {
		b.desc.Err = errors.Join(b.desc.Err, fmt.Errorf("edge: foreign key %q: invalid on_delete_db %q", b.desc.Name, a))
	}
	b.desc.OnDeleteDB = a
	return b
}

// Nullable allows NULL in the foreign key column.
func (b *Builder) Nullable() *Builder {
	b.desc.Nullable = true
	return b
}

// Default sets the column default.
func (b *Builder) Default(v any) *Builder {
	b.desc.Default = v
	return b
}

// RelatedName sets the name of the reverse accessor on the target model.
func (b *Builder) RelatedName(name string) *Builder {
	b.desc.RelatedName = name
	return b
}

// StorageKey overrides the column name. Defaults to "<name>_id".
func (b *Builder) StorageKey(key string) *Builder {
	b.desc.StorageKey = key
	return b
}

// Comment sets the field comment.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Annotations applies SQL annotations. A database delete rule set through
// an annotation is equivalent to OnDeleteDB.
func (b *Builder) Annotations(annotations ...sqlschema.Annotation) *Builder {
	if a, ok := sqlschema.Merge(annotations...).GetOnDelete(); ok {
		b.OnDeleteDB(a)
	}
	return b
}

// Descriptor implements the schema.Edge interface by returning its descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
