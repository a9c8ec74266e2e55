// Package sqlschema provides the database-level delete rules for foreign keys.
//
// A database-level rule is enforced by the FK constraint itself and is
// declared next to on_delete=DB_CASCADE:
//
//	edge.ForeignKey("author", "Author").
//	    OnDelete(edge.DBCascade).
//	    OnDeleteDB(sqlschema.CascadeDB)
//
// or through an annotation, struct literal style:
//
//	edge.ForeignKey("author", "Author").
//	    OnDelete(edge.DBCascade).
//	    Annotations(sqlschema.Annotation{OnDelete: sqlschema.SetNullDB})
//
// # Database Actions
//
//	sqlschema.CascadeDB    - ON DELETE CASCADE
//	sqlschema.SetNullDB    - ON DELETE SET NULL (field must be nullable)
//	sqlschema.SetDefaultDB - ON DELETE SET DEFAULT
//	sqlschema.RestrictDB   - ON DELETE RESTRICT
//	sqlschema.NoActionDB   - ON DELETE NO ACTION
package sqlschema

import (
	"fmt"
	"strings"
)

// AnnotationName is the name used for SQL annotations.
const AnnotationName = "sql"

// DBAction is a delete rule enforced by the database.
type DBAction string

const (
	CascadeDB    DBAction = "CASCADE_DB"
	SetNullDB    DBAction = "SET_NULL_DB"
	SetDefaultDB DBAction = "SET_DEFAULT_DB"
	RestrictDB   DBAction = "RESTRICT_DB"
	NoActionDB   DBAction = "NO_ACTION_DB"
)

var sqlKeywords = map[DBAction]string{
	CascadeDB:    "CASCADE",
	SetNullDB:    "SET NULL",
	SetDefaultDB: "SET DEFAULT",
	RestrictDB:   "RESTRICT",
	NoActionDB:   "NO ACTION",
}

// Actions returns all database actions in declaration order.
func Actions() []DBAction {
	return []DBAction{CascadeDB, SetNullDB, SetDefaultDB, RestrictDB, NoActionDB}
}

// IsSet reports whether an action was declared.
func (a DBAction) IsSet() bool {
	return a != ""
}

// IsValid reports whether a is one of the declared actions.
func (a DBAction) IsValid() bool {
	_, ok := sqlKeywords[a]
	return ok
}

// SQL returns the keyword used in an ON DELETE clause, or "" if a is unset
// or unknown.
func (a DBAction) SQL() string {
	return sqlKeywords[a]
}

// ParseDBAction parses either the constant name ("CASCADE_DB") or the SQL
// keyword ("CASCADE", "set null"). Matching is case-insensitive.
func ParseDBAction(s string) (DBAction, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if norm == "" {
		return "", nil
	}
	for _, a := range Actions() {
		if norm == string(a) || norm == a.SQL() {
			return a, nil
		}
	}
	return "", fmt.Errorf("sqlschema: unknown on_delete_db action %q", s)
}

// Annotation holds SQL-specific settings for models and foreign keys.
type Annotation struct {
	// Table overrides the database table name for a model.
	Table string

	// OnDelete sets the database-level delete rule of a foreign key.
	OnDelete DBAction
}

// Name returns the annotation name.
func (Annotation) Name() string {
	return AnnotationName
}

// Table sets the database table name for a model.
//
// Example:
//
//	schema.New("Author").Annotations(sqlschema.Table("writers"))
func Table(name string) Annotation {
	return Annotation{Table: name}
}

// OnDelete sets the database-level delete rule for a foreign key.
//
// Example:
//
//	edge.ForeignKey("author", "Author").
//	    OnDelete(edge.DBCascade).
//	    Annotations(sqlschema.OnDelete(sqlschema.CascadeDB))
func OnDelete(action DBAction) Annotation {
	return Annotation{OnDelete: action}
}

// GetTable returns the table name and whether it was set.
func (a Annotation) GetTable() (string, bool) {
	return a.Table, a.Table != ""
}

// GetOnDelete returns the database delete rule and whether it was set.
func (a Annotation) GetOnDelete() (DBAction, bool) {
	return a.OnDelete, a.OnDelete != ""
}

// Merge combines multiple SQL annotations into one.
// Later annotations override earlier ones.
func Merge(annotations ...Annotation) Annotation {
	result := Annotation{}
	for _, a := range annotations {
		if a.Table != "" {
			result.Table = a.Table
		}
		if a.OnDelete != "" {
			result.OnDelete = a.OnDelete
		}
	}
	return result
}
