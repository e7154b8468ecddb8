// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"sync"
)

// ModelSource returns the description of a model given its name. It is the
// only capability the builder needs, and it can be backed by Go struct tags,
// model files or explicit registration.
type ModelSource interface {
	Model(name string) (*Model, error)
}

// Model is the description of an entity: its name and its ordered list of
// properties.
type Model struct {
	Name       string
	Properties []Property
}

// Property is a named, typed member of a model with its field level
// annotations.
type Property struct {
	Name        string
	Type        TypeRef
	Annotations Annotations
}

// Annotations hold the field level metadata declared for a property. Nil
// boolean pointers mean the flag was not declared and the data type defaults
// apply.
type Annotations struct {
	Key            bool
	Hidden         bool
	Ignored        bool
	Searchable     *bool
	Filterable     *bool
	Sortable       *bool
	Facetable      *bool
	Analyzer       string
	SearchAnalyzer string
	IndexAnalyzer  string
	Normalizer     string
	SynonymMaps    []string
}

type Kind uint

const (
	KindScalar Kind = iota
	KindCollection
	KindModel
	KindUnsupported
)

// TypeRef is the declared value type of a property: a scalar data type, a
// collection of another type reference, a reference to a model by name, or an
// unsupported type kept by name for error reporting.
type TypeRef struct {
	Kind   Kind
	Scalar DataType
	Elem   *TypeRef
	Model  string
	Name   string
}

func Scalar(t DataType) TypeRef {
	return TypeRef{Kind: KindScalar, Scalar: t}
}

func CollectionOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindCollection, Elem: &elem}
}

func ModelRef(name string) TypeRef {
	return TypeRef{Kind: KindModel, Model: name}
}

func Unsupported(name string) TypeRef {
	return TypeRef{Kind: KindUnsupported, Name: name}
}

// String returns the textual form of the type reference, used in error
// messages.
func (t TypeRef) String() string {
	switch t.Kind {
	case KindScalar:
		return t.Scalar.String()
	case KindCollection:
		if t.Elem == nil {
			return Collection("?").String()
		}
		return collectionPrefix + t.Elem.String() + collectionSuffix
	case KindModel:
		return t.Model
	default:
		return t.Name
	}
}

// NewModel returns a model with the properties on input, in the same order.
func NewModel(name string, props ...Property) *Model {
	return &Model{Name: name, Properties: props}
}

// Prop returns a property with no annotations.
func Prop(name string, t TypeRef) Property {
	return Property{Name: name, Type: t}
}

func (p Property) Key() Property                   { p.Annotations.Key = true; return p }
func (p Property) Hidden() Property                { p.Annotations.Hidden = true; return p }
func (p Property) Ignore() Property                { p.Annotations.Ignored = true; return p }
func (p Property) Searchable(v bool) Property      { p.Annotations.Searchable = &v; return p }
func (p Property) Filterable(v bool) Property      { p.Annotations.Filterable = &v; return p }
func (p Property) Sortable(v bool) Property        { p.Annotations.Sortable = &v; return p }
func (p Property) Facetable(v bool) Property       { p.Annotations.Facetable = &v; return p }
func (p Property) Analyzer(name string) Property   { p.Annotations.Analyzer = name; return p }
func (p Property) Normalizer(name string) Property { p.Annotations.Normalizer = name; return p }
func (p Property) SearchAnalyzer(name string) Property {
	p.Annotations.SearchAnalyzer = name
	return p
}
func (p Property) IndexAnalyzer(name string) Property {
	p.Annotations.IndexAnalyzer = name
	return p
}
func (p Property) SynonymMaps(names ...string) Property {
	p.Annotations.SynonymMaps = append([]string{}, names...)
	return p
}

// Registry is an in memory ModelSource populated by explicit registration.
type Registry struct {
	mutex  sync.RWMutex
	models map[string]*Model
}

func NewRegistry(models ...*Model) (*Registry, error) {
	r := &Registry{
		models: make(map[string]*Model, len(models)),
	}
	for _, m := range models {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds the model on input to the registry. Model names must be
// unique.
func (r *Registry) Register(m *Model) error {
	if m == nil || m.Name == "" {
		return ErrModelNameMissing
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, found := r.models[m.Name]; found {
		return ErrModelAlreadyRegistered{Name: m.Name}
	}
	r.models[m.Name] = m
	return nil
}

func (r *Registry) Model(name string) (*Model, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	m, found := r.models[name]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return m, nil
}

// Names returns the registered model names, in no particular order.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	return names
}
