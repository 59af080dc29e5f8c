// Package registry holds the annotation types of one compile run. Types
// are registered single-threaded before any unit is resolved; afterwards
// the registry is read concurrently.
package registry

import (
	"sync"

	"annocheck/internal/ast"
	"annocheck/internal/cycle"
	"annocheck/internal/symbols"
	"annocheck/internal/types"
)

// Attribute is one annotation type element.
type Attribute struct {
	Name    string
	Type    types.AttrType
	Default *ast.Expr
	Decl    *ast.MethodDecl
}

// HasDefault reports attributes that may be omitted.
func (a *Attribute) HasDefault() bool { return a.Default != nil }

// AnnotationType is a registered @interface.
type AnnotationType struct {
	QName string
	// Display is the name used in messages, e.g. Test<T>.Anno.
	Display    string
	Type       *symbols.Type
	Attributes []*Attribute
	// Targets is meaningful only when HasTarget is set; otherwise the
	// default targets apply.
	Targets    types.ElementSet
	HasTarget  bool
	Retention  types.Retention
	Inherited  bool
	Documented bool
	Node       cycle.NodeID
}

// Name is the simple name used in @T messages.
func (a *AnnotationType) Name() string { return a.Type.Name() }

// Attribute returns the attribute called name.
func (a *AnnotationType) Attribute(name string) *Attribute {
	for _, attr := range a.Attributes {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

// Allows reports whether the annotation may be applied to kind.
func (a *AnnotationType) Allows(kind types.ElementKind) bool {
	if !a.HasTarget {
		return types.DefaultTargets.Allows(kind)
	}
	return a.Targets.Allows(kind)
}

// Registry maps qualified names to annotation types.
type Registry struct {
	mu     sync.RWMutex
	types  []*AnnotationType
	byName map[string]int
	graph  *cycle.Graph
}

// New returns an empty registry with its own cycle graph.
func New() *Registry {
	return &Registry{
		byName: make(map[string]int),
		graph:  cycle.New(),
	}
}

// Register adds at and submits its annotation-typed attributes to the
// cycle graph. A name registered before keeps its first registration;
// the existing entry is returned with added set to false.
func (r *Registry) Register(at *AnnotationType) (registered *AnnotationType, added bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byName[at.QName]; ok {
		return r.types[idx], false
	}
	var edges []cycle.Edge
	for i, attr := range at.Attributes {
		if leaf := attr.Type.Leaf(); leaf.Kind == types.AttrAnnotation {
			edges = append(edges, cycle.Edge{Attr: i, To: leaf.Name})
		}
	}
	at.Node = r.graph.AddNode(at.QName, edges)
	r.byName[at.QName] = len(r.types)
	r.types = append(r.types, at)
	return at, true
}

// Lookup returns the annotation type called qname.
func (r *Registry) Lookup(qname string) *AnnotationType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx, ok := r.byName[qname]; ok {
		return r.types[idx]
	}
	return nil
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// All returns the registered types in registration order.
func (r *Registry) All() []*AnnotationType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*AnnotationType, len(r.types))
	copy(out, r.types)
	return out
}

// CycleEdge is an attribute of an annotation type lying on a cycle.
type CycleEdge struct {
	Attr *Attribute
	// Target is the attribute's annotation type.
	Target *AnnotationType
	Self   bool
}

// Cycles returns the attributes of at that close a cycle, in declaration
// order.
func (r *Registry) Cycles(at *AnnotationType) []CycleEdge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []CycleEdge
	for _, c := range r.graph.Cycles(at.Node) {
		target := at
		if !c.Self {
			if idx, ok := r.byName[r.graph.Name(c.To)]; ok {
				target = r.types[idx]
			}
		}
		out = append(out, CycleEdge{Attr: at.Attributes[c.Attr], Target: target, Self: c.Self})
	}
	return out
}
