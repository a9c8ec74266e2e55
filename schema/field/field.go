package field

import (
	"errors"
	"fmt"
	"strings"
)

// Type is the storage type of a scalar field.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeTime
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeString:  "string",
	TypeTime:    "time",
}

// String returns the type name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// IsValid reports whether t is a known, non-invalid type.
func (t Type) IsValid() bool {
	return t > TypeInvalid && int(t) < len(typeNames)
}

// ParseType parses a type name as returned by Type.String.
func ParseType(s string) (Type, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for t := TypeBool; int(t) < len(typeNames); t++ {
		if typeNames[t] == norm {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("field: unknown type %q", s)
}

// Descriptor holds the declaration of a scalar field.
type Descriptor struct {
	Name     string
	Type     Type
	Nullable bool
	Unique   bool
	Comment  string
	Err      error
}

// Builder for scalar fields.
type Builder struct {
	desc *Descriptor
}

func newBuilder(name string, t Type) *Builder {
	b := &Builder{desc: &Descriptor{Name: name, Type: t}}
	if name == "" {
		b.desc.Err = errors.New("field: missing field name")
	}
	return b
}

// New returns a builder for a field of the given type.
func New(name string, t Type) *Builder {
	b := newBuilder(name, t)
	if !t.IsValid() {
		b.desc.Err = errors.Join(b.desc.Err, fmt.Errorf("field: %q has invalid type %v", name, t))
	}
	return b
}

// Bool returns a builder for a boolean field.
func Bool(name string) *Builder { return newBuilder(name, TypeBool) }

// Int returns a builder for an integer field.
func Int(name string) *Builder { return newBuilder(name, TypeInt) }

// Float returns a builder for a floating point field.
func Float(name string) *Builder { return newBuilder(name, TypeFloat) }

// String returns a builder for a string field.
func String(name string) *Builder { return newBuilder(name, TypeString) }

// Time returns a builder for a timestamp field.
func Time(name string) *Builder { return newBuilder(name, TypeTime) }

// Nullable allows NULL in the column.
func (b *Builder) Nullable() *Builder {
	b.desc.Nullable = true
	return b
}

// Unique adds a unique constraint on the column.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Comment sets the field comment.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the field descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
