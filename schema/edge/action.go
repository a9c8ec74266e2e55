package edge

import (
	"fmt"
	"strings"
)

// Action is an application-level delete rule, enforced by the ORM in-process.
// The zero value means no rule was declared.
type Action uint8

const (
	_ Action = iota
	// Cascade deletes referencing rows from the ORM.
	Cascade
	// DBCascade hands the delete over to the database constraint.
	// It is the only action that may be combined with an on_delete_db rule.
	DBCascade
	// Protect refuses the delete while references exist.
	Protect
	// Restrict refuses the delete unless the references are deleted in the same operation.
	Restrict
	// SetNull clears the reference.
	SetNull
	// SetDefault resets the reference to its default value.
	SetDefault
	// DoNothing leaves the reference untouched.
	DoNothing
)

var actionNames = [...]string{
	Cascade:    "CASCADE",
	DBCascade:  "DB_CASCADE",
	Protect:    "PROTECT",
	Restrict:   "RESTRICT",
	SetNull:    "SET_NULL",
	SetDefault: "SET_DEFAULT",
	DoNothing:  "DO_NOTHING",
}

// String returns the declared name of the action, e.g. "DB_CASCADE".
func (a Action) String() string {
	if a.IsValid() {
		return actionNames[a]
	}
	if a == 0 {
		return ""
	}
	return fmt.Sprintf("Action(%d)", a)
}

// IsValid reports whether a is a declared action.
func (a Action) IsValid() bool {
	return a >= Cascade && a <= DoNothing
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	v, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAction parses an action name such as "CASCADE" or "db_cascade".
// An empty string yields the zero Action.
func ParseAction(s string) (Action, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if norm == "" {
		return 0, nil
	}
	for a := Cascade; a <= DoNothing; a++ {
		if actionNames[a] == norm {
			return a, nil
		}
	}
	return 0, fmt.Errorf("edge: unknown on_delete action %q", s)
}
