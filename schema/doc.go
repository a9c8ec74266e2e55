// Package schema provides the model declarations the cascade checks work on.
//
// A model groups foreign keys (package edge), scalar fields (package field),
// generic relations and its parent models:
//
//	foo := schema.New("Foo").MustBuild()
//
//	bar := schema.New("Bar").
//	    Edges(
//	        edge.ForeignKey("foo", "Foo").
//	            OnDelete(edge.DBCascade).
//	            OnDeleteDB(sqlschema.CascadeDB),
//	    ).
//	    MustBuild()
//
// # Inheritance
//
// Parents are listed explicitly, in order:
//
//	schema.New("AnotherBar").Inherits("Bar")
//	schema.New("MultipleInheritedBar").Inherits("Foo", "Bar")
//
// Concrete parents make a multi-table inherited model. Abstract parents only
// contribute their declarations:
//
//	schema.New("Timestamped").Abstract().Fields(field.Time("created_at"))
//
// # Mixins
//
// Reusable declarations are applied with Mixin. See package mixin:
//
//	schema.New("Document").Mixin(mixin.Time{})
//
// # Generic Relations
//
// A generic relation pairs a foreign key to a type table with an object id:
//
//	schema.New("Comment").
//	    Edges(edge.ForeignKey("content_type", "ContentType").OnDelete(edge.Cascade)).
//	    Fields(field.Int("object_id")).
//	    GenericRelation("content_object", "content_type", "object_id")
package schema
