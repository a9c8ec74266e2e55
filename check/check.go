package check

import (
	"fmt"
	"log/slog"

	"github.com/syssam/dbcascade"
	"github.com/syssam/dbcascade/graph"
	"github.com/syssam/dbcascade/schema/edge"
)

// Checker evaluates the cascade consistency rules over a registry.
// A Checker holds no state between calls and is safe for concurrent use.
type Checker struct {
	logger   *slog.Logger
	silenced map[Code]bool
	rules    []Rule
}

// New returns a Checker configured with opts.
func New(opts ...Option) (*Checker, error) {
	c := &Checker{
		silenced: make(map[Code]bool),
		rules:    rules,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

var std, _ = New()

func (c *Checker) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Field returns the diagnostics of a single foreign key declared on model.
// The result is never nil.
func (c *Checker) Field(reg graph.Registry, model string, f *edge.Descriptor) []Diagnostic {
	s := Subject{Registry: reg, Model: model, Field: f}
	diags := []Diagnostic{}
	for _, r := range c.rules {
		if c.silenced[r.ID] {
			continue
		}
		if d, ok := r.Check(s); ok {
			diags = append(diags, d)
		}
	}
	return diags
}

// Model returns the diagnostics of every foreign key of model, including
// those contributed by abstract parents. The result is never nil.
func (c *Checker) Model(reg graph.Registry, model string) []Diagnostic {
	diags := []Diagnostic{}
	for _, f := range reg.Fields(model) {
		diags = append(diags, c.Field(reg, model, f)...)
	}
	return diags
}

// All checks every concrete model of the registry. Abstract models are
// skipped; their fields are checked on the models that inherit them.
func (c *Checker) All(reg graph.Registry) []Diagnostic {
	diags := []Diagnostic{}
	models := reg.Models()
	for _, m := range models {
		if m.Abstract {
			continue
		}
		diags = append(diags, c.Model(reg, m.Name)...)
	}
	c.log().Debug("cascade checks finished", "models", len(models), "issues", len(diags))
	return diags
}

// Field checks a single foreign key with the default Checker.
func Field(reg graph.Registry, model string, f *edge.Descriptor) []Diagnostic {
	return std.Field(reg, model, f)
}

// Model checks all foreign keys of model with the default Checker.
func Model(reg graph.Registry, model string) []Diagnostic {
	return std.Model(reg, model)
}

// All checks every concrete model with the default Checker.
func All(reg graph.Registry) []Diagnostic {
	return std.All(reg)
}

// Lookup returns the foreign key name of model.
func Lookup(reg graph.Registry, model, name string) (*edge.Descriptor, error) {
	if _, ok := reg.Model(model); !ok {
		return nil, dbcascade.NewUnknownModelError(model, "")
	}
	for _, f := range reg.Fields(model) {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, dbcascade.NewSchemaError(model, name, fmt.Sprintf("%s has no foreign key named %q", model, name), nil)
}
