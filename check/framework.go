package check

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/syssam/dbcascade/graph"
)

// Tag groups registered checks.
type Tag string

// TagModels is the tag of checks that inspect model declarations.
const TagModels Tag = "models"

// Func is a registered check.
type Func func(reg graph.Registry) []Diagnostic

type registration struct {
	name string
	fn   Func
	tags []Tag
}

// Framework is a registry of checks, run together and filtered by tag.
type Framework struct {
	mu       sync.RWMutex
	checks   []registration
	silenced map[Code]bool
}

// NewFramework returns an empty Framework.
func NewFramework() *Framework {
	return &Framework{silenced: make(map[Code]bool)}
}

// Default is the framework the cascade checks are registered with.
var Default = newDefault()

func newDefault() *Framework {
	f := NewFramework()
	if err := f.Register("cascade", All, TagModels); err != nil {
		panic(err)
	}
	return f
}

// Register adds a check under name with the given tags.
func (f *Framework) Register(name string, fn Func, tags ...Tag) error {
	if name == "" {
		return errors.New("check: missing check name")
	}
	if fn == nil {
		return fmt.Errorf("check: %q has no check function", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if slices.ContainsFunc(f.checks, func(r registration) bool { return r.name == name }) {
		return fmt.Errorf("check: %q is already registered", name)
	}
	f.checks = append(f.checks, registration{name: name, fn: fn, tags: slices.Clone(tags)})
	return nil
}

// Silence drops diagnostics with the given codes from Run results.
func (f *Framework) Silence(codes ...Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range codes {
		f.silenced[c] = true
	}
}

// Tags returns the sorted set of registered tags.
func (f *Framework) Tags() []Tag {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var tags []Tag
	for _, r := range f.checks {
		for _, t := range r.tags {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags
}

// Run runs the checks carrying any of tags, or all checks if no tag is
// given, in registration order. Asking for a tag no check carries is an
// error. The result is never nil.
func (f *Framework) Run(reg graph.Registry, tags ...Tag) ([]Diagnostic, error) {
	if known := f.Tags(); len(tags) > 0 {
		for _, t := range tags {
			if !slices.Contains(known, t) {
				return nil, fmt.Errorf("check: there is no system check with the %q tag", t)
			}
		}
	}
	f.mu.RLock()
	checks := slices.Clone(f.checks)
	f.mu.RUnlock()

	diags := []Diagnostic{}
	for _, r := range checks {
		if len(tags) > 0 && !slices.ContainsFunc(r.tags, func(t Tag) bool { return slices.Contains(tags, t) }) {
			continue
		}
		for _, d := range r.fn(reg) {
			if !f.isSilenced(d.ID) {
				diags = append(diags, d)
			}
		}
	}
	return diags, nil
}

func (f *Framework) isSilenced(code Code) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.silenced[code]
}
