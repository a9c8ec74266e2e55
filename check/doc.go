// Package check implements the system checks that keep application-level
// and database-level delete rules consistent.
//
// Each foreign key is inspected by five independent rules, evaluated in code
// order; all violations are reported:
//
//	fields.E322  on_delete_db requires on_delete=DB_CASCADE
//	fields.E323  plain CASCADE pointing at a model that is DB-cascaded itself
//	fields.E324  on_delete_db=SET_NULL_DB on a non-nullable field
//	fields.E325  DB_CASCADE on an inherited model
//	fields.E345  DB_CASCADE on the foreign key of a generic relation
//
// Findings are returned as Diagnostic values, never as errors, and a clean
// field yields an empty slice:
//
//	f, _ := check.Lookup(g, "Bar", "foo")
//	for _, d := range check.Field(g, "Bar", f) {
//	    fmt.Println(d)
//	}
//
// Checks are collected by a Framework and run by tag, mirroring the host
// framework's check registry. The cascade checks are registered with Default
// under TagModels.
package check
