package graph

import (
	"fmt"
	"slices"

	"github.com/syssam/dbcascade"
	"github.com/syssam/dbcascade/schema"
	"github.com/syssam/dbcascade/schema/edge"
	"github.com/syssam/dbcascade/schema/field"
)

// Registry is the read-only view of the model graph that checks query.
// Implementations never expose mutable state to callers.
type Registry interface {
	// Model returns the declaration of the named model.
	Model(name string) (*schema.Model, bool)
	// Models returns all models in declaration order.
	Models() []*schema.Model
	// Fields returns the foreign keys of a model, including those
	// contributed by abstract parents.
	Fields(model string) []*edge.Descriptor
	// Attributes returns the scalar fields of a model, including those
	// contributed by abstract parents.
	Attributes(model string) []*field.Descriptor
	// Parents returns the concrete (multi-table) parents of a model.
	Parents(model string) []string
	// GenericRelations returns the generic relations of a model.
	GenericRelations(model string) []schema.GenericRelation
}

// Reference is a foreign key seen from its target.
type Reference struct {
	Model string
	Edge  *edge.Descriptor
}

// Graph is the in-memory Registry implementation.
type Graph struct {
	models []*schema.Model
	nodes  map[string]*node
}

type node struct {
	model    *schema.Model
	edges    []*edge.Descriptor
	fields   []*field.Descriptor
	parents  []string
	generics []schema.GenericRelation
}

var _ Registry = (*Graph)(nil)

// New builds a graph from model declarations. All references between models
// are resolved here; dangling references, duplicate models and inheritance
// cycles are reported as errors.
func New(models ...*schema.Model) (*Graph, error) {
	g := &Graph{
		models: models,
		nodes:  make(map[string]*node, len(models)),
	}
	var errs []error
	for _, m := range models {
		if _, ok := g.nodes[m.Name]; ok {
			errs = append(errs, dbcascade.NewSchemaError(m.Name, "", "duplicate model", nil))
			continue
		}
		g.nodes[m.Name] = &node{model: m}
	}
	for _, m := range models {
		errs = append(errs, g.validateRefs(m)...)
	}
	if err := dbcascade.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	if err := g.checkCycles(); err != nil {
		return nil, err
	}
	resolved := make(map[string]bool, len(models))
	for _, m := range models {
		g.resolve(m.Name, resolved)
	}
	for _, m := range models {
		errs = append(errs, g.validateGenerics(m.Name)...)
	}
	if err := dbcascade.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNew is like New but panics on error.
func MustNew(models ...*schema.Model) *Graph {
	g, err := New(models...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Graph) validateRefs(m *schema.Model) []error {
	var errs []error
	for _, p := range m.Parents {
		parent, ok := g.nodes[p]
		if !ok {
			errs = append(errs, dbcascade.NewUnknownModelError(p, m.Name))
			continue
		}
		if m.Abstract && !parent.model.Abstract {
			errs = append(errs, dbcascade.NewSchemaError(m.Name, "", fmt.Sprintf("abstract model cannot inherit from concrete model %s", p), nil))
		}
	}
	for _, e := range m.Edges {
		target, ok := g.nodes[e.Target]
		if !ok {
			errs = append(errs, dbcascade.NewUnknownModelError(e.Target, m.Name+"."+e.Name))
			continue
		}
		if target.model.Abstract {
			errs = append(errs, dbcascade.NewSchemaError(m.Name, e.Name, fmt.Sprintf("foreign key to abstract model %s", e.Target), nil))
		}
	}
	return errs
}

func (g *Graph) checkCycles() error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(g.nodes))
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return dbcascade.NewSchemaError(name, "", fmt.Sprintf("inheritance cycle %v", append(path, name)), nil)
		case done:
			return nil
		}
		state[name] = visiting
		for _, p := range g.nodes[name].model.Parents {
			if err := visit(p, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}
	for _, m := range g.models {
		if err := visit(m.Name, nil); err != nil {
			return err
		}
	}
	return nil
}

// resolve folds abstract parents into the node of name. Declarations on the
// model itself override inherited ones with the same name.
func (g *Graph) resolve(name string, resolved map[string]bool) *node {
	n := g.nodes[name]
	if resolved[name] {
		return n
	}
	for _, p := range n.model.Parents {
		pn := g.resolve(p, resolved)
		if !pn.model.Abstract {
			n.parents = append(n.parents, p)
			continue
		}
		n.edges = appendEdges(n.edges, pn.edges...)
		n.fields = appendFields(n.fields, pn.fields...)
		n.generics = appendGenerics(n.generics, pn.generics...)
	}
	n.edges = appendEdges(n.edges, n.model.Edges...)
	n.fields = appendFields(n.fields, n.model.Fields...)
	n.generics = appendGenerics(n.generics, n.model.GenericRelations...)
	resolved[name] = true
	return n
}

func (g *Graph) validateGenerics(name string) []error {
	n := g.nodes[name]
	var errs []error
	for _, gr := range n.generics {
		if !slices.ContainsFunc(n.edges, func(e *edge.Descriptor) bool { return e.Name == gr.TypeField }) {
			errs = append(errs, dbcascade.NewSchemaError(name, gr.Name, fmt.Sprintf("generic relation type field %q is not a foreign key of the model", gr.TypeField), nil))
		}
		if !slices.ContainsFunc(n.fields, func(f *field.Descriptor) bool { return f.Name == gr.IDField }) {
			errs = append(errs, dbcascade.NewSchemaError(name, gr.Name, fmt.Sprintf("generic relation id field %q is not a field of the model", gr.IDField), nil))
		}
	}
	return errs
}

// Model implements Registry.
func (g *Graph) Model(name string) (*schema.Model, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, false
	}
	return n.model, true
}

// Models implements Registry.
func (g *Graph) Models() []*schema.Model {
	return slices.Clone(g.models)
}

// Fields implements Registry.
func (g *Graph) Fields(model string) []*edge.Descriptor {
	if n, ok := g.nodes[model]; ok {
		return slices.Clone(n.edges)
	}
	return nil
}

// Attributes implements Registry.
func (g *Graph) Attributes(model string) []*field.Descriptor {
	if n, ok := g.nodes[model]; ok {
		return slices.Clone(n.fields)
	}
	return nil
}

// Parents implements Registry.
func (g *Graph) Parents(model string) []string {
	if n, ok := g.nodes[model]; ok {
		return slices.Clone(n.parents)
	}
	return nil
}

// GenericRelations implements Registry.
func (g *Graph) GenericRelations(model string) []schema.GenericRelation {
	if n, ok := g.nodes[model]; ok {
		return slices.Clone(n.generics)
	}
	return nil
}

// Ancestors returns the transitive concrete parents of a model, depth first
// in declaration order, without duplicates.
func (g *Graph) Ancestors(model string) []string {
	return Ancestors(g, model)
}

// Referrers returns the foreign keys of concrete models that point at model.
func (g *Graph) Referrers(model string) []Reference {
	var refs []Reference
	for _, m := range g.models {
		if m.Abstract {
			continue
		}
		for _, e := range g.nodes[m.Name].edges {
			if e.Target == model {
				refs = append(refs, Reference{Model: m.Name, Edge: e})
			}
		}
	}
	return refs
}

// Ancestors walks the concrete parents of model on any Registry.
func Ancestors(reg Registry, model string) []string {
	var (
		out  []string
		seen = map[string]bool{model: true}
		walk func(string)
	)
	walk = func(name string) {
		for _, p := range reg.Parents(name) {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
			walk(p)
		}
	}
	walk(model)
	return out
}

func appendEdges(dst []*edge.Descriptor, src ...*edge.Descriptor) []*edge.Descriptor {
	for _, e := range src {
		if i := slices.IndexFunc(dst, func(d *edge.Descriptor) bool { return d.Name == e.Name }); i >= 0 {
			dst[i] = e
			continue
		}
		dst = append(dst, e)
	}
	return dst
}

func appendFields(dst []*field.Descriptor, src ...*field.Descriptor) []*field.Descriptor {
	for _, f := range src {
		if i := slices.IndexFunc(dst, func(d *field.Descriptor) bool { return d.Name == f.Name }); i >= 0 {
			dst[i] = f
			continue
		}
		dst = append(dst, f)
	}
	return dst
}

func appendGenerics(dst []schema.GenericRelation, src ...schema.GenericRelation) []schema.GenericRelation {
	for _, gr := range src {
		if i := slices.IndexFunc(dst, func(d schema.GenericRelation) bool { return d.Name == gr.Name }); i >= 0 {
			dst[i] = gr
			continue
		}
		dst = append(dst, gr)
	}
	return dst
}
