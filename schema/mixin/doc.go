// Package mixin provides reusable field and foreign key sets for models.
//
// A mixin embeds Schema and overrides the methods it needs:
//
//	type Owned struct {
//	    mixin.Schema
//	}
//
//	func (Owned) Edges() []schema.Edger {
//	    return []schema.Edger{
//	        edge.ForeignKey("owner", "User").OnDelete(edge.Cascade),
//	    }
//	}
//
// Mixins are applied with schema.Builder.Mixin. Their declarations come
// before the model's own:
//
//	schema.New("Document").
//	    Mixin(mixin.Time{}, Owned{}).
//	    Fields(field.String("title"))
//
// # Database Cascades
//
// DBCascade delegates every foreign key of a mixin to the database:
//
//	schema.New("Document").Mixin(mixin.DBCascade(Owned{}, sqlschema.CascadeDB))
//
// The resulting declarations are validated by package check like any other.
package mixin
