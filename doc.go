// Package dbcascade adds database-level cascade semantics to foreign keys
// and the system checks that keep them consistent with application-level
// delete rules.
//
// A foreign key declares two delete rules. The application-level rule is
// enforced by the ORM in-process (edge.Cascade, edge.SetNull, ...). The
// database-level rule is enforced by the FK constraint itself
// (sqlschema.CascadeDB, sqlschema.SetNullDB, ...) and is only valid together
// with on_delete=DB_CASCADE:
//
//	schema.New("Bar").
//	    Edges(
//	        edge.ForeignKey("foo", "Foo").
//	            OnDelete(edge.DBCascade).
//	            OnDeleteDB(sqlschema.CascadeDB),
//	    )
//
// # Sub-packages
//
//   - schema, schema/edge, schema/field: model and field declarations
//   - graph: the read-only model registry the checks query
//   - check: the cascade consistency checks (fields.E322..E345) and the
//     check registration framework
//   - compiler/load: YAML/JSON schema documents
//   - dialect/sql/schema: FK constraint DDL and migration
//
// This package holds the error types shared by all of them.
package dbcascade
