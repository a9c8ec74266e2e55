package mixin

import (
	"errors"
	"fmt"

	"github.com/syssam/dbcascade/dialect/sqlschema"
	"github.com/syssam/dbcascade/schema"
	"github.com/syssam/dbcascade/schema/edge"
	"github.com/syssam/dbcascade/schema/field"
)

// Schema is the default implementation of schema.Mixin.
// It should be embedded in all custom mixins.
type Schema struct{}

// Fields returns the fields of the mixin.
func (Schema) Fields() []schema.Fielder { return nil }

// Edges returns the foreign keys of the mixin.
func (Schema) Edges() []schema.Edger { return nil }

var _ schema.Mixin = (*Schema)(nil)

// Time adds created_at and updated_at fields.
type Time struct {
	Schema
}

// Fields returns the time tracking fields.
func (Time) Fields() []schema.Fielder {
	return append(CreateTime{}.Fields(), UpdateTime{}.Fields()...)
}

// CreateTime adds a created_at field.
type CreateTime struct {
	Schema
}

// Fields returns the created_at field.
func (CreateTime) Fields() []schema.Fielder {
	return []schema.Fielder{
		field.Time("created_at").
			Comment("Timestamp when the row was created"),
	}
}

// UpdateTime adds an updated_at field.
type UpdateTime struct {
	Schema
}

// Fields returns the updated_at field.
func (UpdateTime) Fields() []schema.Fielder {
	return []schema.Fielder{
		field.Time("updated_at").
			Comment("Timestamp when the row was last updated"),
	}
}

// SoftDelete adds a nullable deleted_at field.
type SoftDelete struct {
	Schema
}

// Fields returns the soft delete field.
func (SoftDelete) Fields() []schema.Fielder {
	return []schema.Fielder{
		field.Time("deleted_at").
			Nullable().
			Comment("Timestamp when the row was soft deleted (NULL means not deleted)"),
	}
}

// TimeSoftDelete combines Time and SoftDelete.
type TimeSoftDelete struct {
	Schema
}

// Fields returns all timestamp and soft delete fields.
func (TimeSoftDelete) Fields() []schema.Fielder {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// AnnotateEdges wraps a mixin and applies SQL annotations to all its
// foreign keys.
//
//	mixin.AnnotateEdges(Owned{}, sqlschema.OnDelete(sqlschema.SetNullDB))
func AnnotateEdges(m schema.Mixin, annotations ...sqlschema.Annotation) schema.Mixin {
	return edgeAnnotator{Mixin: m, annotations: annotations}
}

// DBCascade wraps a mixin and sets OnDelete(edge.DBCascade) with the given
// database action on all its foreign keys.
func DBCascade(m schema.Mixin, action sqlschema.DBAction) schema.Mixin {
	return edgeAnnotator{
		Mixin:       m,
		dbCascade:   true,
		annotations: []sqlschema.Annotation{sqlschema.OnDelete(action)},
	}
}

type edgeAnnotator struct {
	schema.Mixin
	dbCascade   bool
	annotations []sqlschema.Annotation
}

func (a edgeAnnotator) Edges() []schema.Edger {
	edges := a.Mixin.Edges()
	action, ok := sqlschema.Merge(a.annotations...).GetOnDelete()
	for i := range edges {
		desc := edges[i].Descriptor()
		if a.dbCascade {
			desc.OnDelete = edge.DBCascade
		}
		if !ok {
			continue
		}
		if !action.IsValid() {
			desc.Err = errors.Join(desc.Err, fmt.Errorf("mixin: foreign key %q: invalid on_delete_db %q", desc.Name, action))
		}
		desc.OnDeleteDB = action
	}
	return edges
}
