// Package edge provides the foreign key builder and delete rules.
//
// A foreign key declares an application-level delete rule and, optionally,
// a database-level one:
//
//	// The ORM deletes books when their author is deleted.
//	edge.ForeignKey("author", "Author").OnDelete(edge.Cascade)
//
//	// The database deletes books through ON DELETE CASCADE.
//	edge.ForeignKey("author", "Author").
//	    OnDelete(edge.DBCascade).
//	    OnDeleteDB(sqlschema.CascadeDB)
//
//	// The database clears the reference; the column must be nullable.
//	edge.ForeignKey("editor", "Author").
//	    OnDelete(edge.DBCascade).
//	    OnDeleteDB(sqlschema.SetNullDB).
//	    Nullable()
//
// # Application Actions
//
//   - edge.Cascade: delete referencing rows from the ORM
//   - edge.DBCascade: let the database enforce the rule given by OnDeleteDB
//   - edge.Protect, edge.Restrict: refuse the delete
//   - edge.SetNull, edge.SetDefault: rewrite the reference
//   - edge.DoNothing: leave the reference untouched
//
// Combining the two levels is validated by package check.
//
// # Storage Key
//
// The column defaults to "<name>_id":
//
//	edge.ForeignKey("owner", "User").StorageKey("user_id")
package edge
