package check

import (
	"fmt"
	"strings"

	"github.com/syssam/dbcascade"
)

// Level is the severity of a diagnostic.
type Level uint8

const (
	Debug Level = iota + 1
	Info
	Warning
	Error
	Critical
)

var levelNames = [...]string{
	Debug:    "DEBUG",
	Info:     "INFO",
	Warning:  "WARNING",
	Error:    "ERROR",
	Critical: "CRITICAL",
}

// String returns the level name.
func (l Level) String() string {
	if l >= Debug && l <= Critical {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", l)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	name := strings.ToUpper(string(text))
	for lv := Debug; lv <= Critical; lv++ {
		if levelNames[lv] == name {
			*l = lv
			return nil
		}
	}
	return fmt.Errorf("check: unknown level %q", text)
}

// Code is the stable identifier of a diagnostic, e.g. "fields.E322".
type Code string

// Cascade consistency codes.
const (
	// E322: on_delete_db declared without on_delete=DB_CASCADE.
	E322 Code = "fields.E322"
	// E323: plain CASCADE pointing at a model that is itself DB-cascaded.
	E323 Code = "fields.E323"
	// E324: on_delete_db=SET_NULL_DB on a non-nullable field.
	E324 Code = "fields.E324"
	// E325: DB_CASCADE on an inherited model.
	E325 Code = "fields.E325"
	// E345: DB_CASCADE on the foreign key half of a generic relation.
	E345 Code = "fields.E345"
)

// FieldRef identifies the offending field.
type FieldRef struct {
	Model string
	Field string
}

// String returns "Model.field".
func (r FieldRef) String() string {
	return r.Model + "." + r.Field
}

// MarshalText implements encoding.TextMarshaler.
func (r FieldRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Diagnostic is a single check finding.
type Diagnostic struct {
	Level   Level    `json:"level" yaml:"level"`
	Message string   `json:"message" yaml:"message"`
	Hint    string   `json:"hint,omitempty" yaml:"hint,omitempty"`
	Object  FieldRef `json:"object" yaml:"object"`
	ID      Code     `json:"id" yaml:"id"`
}

// IsSerious reports whether the diagnostic is an error or worse.
func (d Diagnostic) IsSerious() bool {
	return d.Level >= Error
}

// String renders the diagnostic the way the check command prints it:
//
//	Bar.foo: (fields.E322) message
//		HINT: hint
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Object.String())
	b.WriteString(": ")
	if d.ID != "" {
		fmt.Fprintf(&b, "(%s) ", d.ID)
	}
	b.WriteString(d.Message)
	if d.Hint != "" {
		b.WriteString("\n\tHINT: ")
		b.WriteString(d.Hint)
	}
	return b.String()
}

// Serious reports whether any diagnostic is an error or worse.
func Serious(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsSerious() {
			return true
		}
	}
	return false
}

// AsError returns a *dbcascade.CheckError listing the serious diagnostics,
// or nil if there are none.
func AsError(diags []Diagnostic) error {
	var issues []string
	for _, d := range diags {
		if d.IsSerious() {
			issues = append(issues, d.String())
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return &dbcascade.CheckError{Issues: issues}
}
