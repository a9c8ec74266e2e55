// Package graph resolves model declarations into the read-only registry
// that the cascade checks query.
//
// The registry answers three questions about a model: which foreign keys it
// has, which concrete models it inherits from, and which generic relations
// it declares:
//
//	g, err := graph.New(foo, bar, baz)
//	if err != nil {
//	    return err // dangling reference, duplicate model, inheritance cycle
//	}
//	g.Fields("Bar")           // foreign keys, abstract parents folded in
//	g.Parents("AnotherBar")   // concrete parents, in declaration order
//	g.GenericRelations("Tag") // polymorphic references
//
// Registry is an interface so checks can run against any model source; Graph
// is the in-memory implementation.
package graph
