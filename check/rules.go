package check

import (
	"slices"

	"github.com/syssam/dbcascade/dialect/sqlschema"
	"github.com/syssam/dbcascade/graph"
	"github.com/syssam/dbcascade/schema/edge"
)

// Subject is the foreign key under inspection together with the registry it
// is resolved against.
type Subject struct {
	Registry graph.Registry
	Model    string
	Field    *edge.Descriptor
}

// Ref returns the reference to the inspected field.
func (s Subject) Ref() FieldRef {
	return FieldRef{Model: s.Model, Field: s.Field.Name}
}

// TargetIsDBChild reports whether the referenced model, or one of its
// concrete ancestors, declares a foreign key with a database delete rule.
func (s Subject) TargetIsDBChild() bool {
	models := append([]string{s.Field.Target}, graph.Ancestors(s.Registry, s.Field.Target)...)
	for _, m := range models {
		if slices.ContainsFunc(s.Registry.Fields(m), func(e *edge.Descriptor) bool {
			return e.OnDeleteDB.IsSet()
		}) {
			return true
		}
	}
	return false
}

// Inherited reports whether the declaring model has concrete parents.
func (s Subject) Inherited() bool {
	return len(s.Registry.Parents(s.Model)) > 0
}

// GenericForeignKey reports whether the field is the foreign key half of a
// generic relation on the declaring model.
func (s Subject) GenericForeignKey() bool {
	for _, gr := range s.Registry.GenericRelations(s.Model) {
		if gr.TypeField == s.Field.Name {
			return true
		}
	}
	return false
}

// Rule is a single cascade consistency rule.
type Rule struct {
	ID      Code
	Message string
	Hint    string
	// Violated reports whether the subject breaks the rule.
	Violated func(Subject) bool
}

// Check returns the diagnostic for s if it breaks the rule.
func (r Rule) Check(s Subject) (Diagnostic, bool) {
	if !r.Violated(s) {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Level:   Error,
		Message: r.Message,
		Hint:    r.Hint,
		Object:  s.Ref(),
		ID:      r.ID,
	}, true
}

// rules are evaluated in code order.
var rules = []Rule{
	{
		ID:      E322,
		Message: "The on_delete must be set to on_delete=models.DB_CASCADE to work with on_delete_db",
		Hint:    "Remove the on_delete_db or set on_delete=models.DB_CASCADE",
		Violated: func(s Subject) bool {
			return s.Field.OnDeleteDB.IsSet() && s.Field.OnDelete != edge.DBCascade
		},
	},
	{
		ID:      E323,
		Message: "Using normal cascading with DB cascading referenced model is prohibited",
		Hint:    "Use database level cascading for foreignkeys",
		Violated: func(s Subject) bool {
			return s.Field.OnDelete == edge.Cascade && s.TargetIsDBChild()
		},
	},
	{
		ID:      E324,
		Message: "Field specifies on_delete_db=SET_NULL_DB, but cannot be null.",
		Hint:    "Set null=True argument on the field, or change the on_delete_db rule.",
		Violated: func(s Subject) bool {
			return s.Field.OnDeleteDB == sqlschema.SetNullDB && !s.Field.Nullable
		},
	},
	{
		ID:      E325,
		Message: "Field specifies unsupported on_delete=DB_CASCADE, on inherited model",
		Hint:    "Set a default value, or change the on_delete rule.",
		Violated: func(s Subject) bool {
			return s.Field.DBCascade() && s.Inherited()
		},
	},
	{
		ID:      E345,
		Message: "Field specifies unsupported on_delete=DB_CASCADE on model declaring a GenericForeignKey.",
		Hint:    "Change the on_delete rule.",
		Violated: func(s Subject) bool {
			return s.Field.DBCascade() && s.GenericForeignKey()
		},
	},
}

// Rules returns the cascade consistency rules in evaluation order.
func Rules() []Rule {
	return slices.Clone(rules)
}

// Codes returns the codes of all cascade consistency rules.
func Codes() []Code {
	codes := make([]Code, len(rules))
	for i, r := range rules {
		codes[i] = r.ID
	}
	return codes
}
