// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"slices"
	"strings"

	loglib "github.com/xataio/indexschema/pkg/log"
)

// Builder derives index fields from model descriptions. It keeps no state
// between calls and is safe for concurrent use.
type Builder struct {
	source   ModelSource
	logger   loglib.Logger
	maxDepth int
}

type Option func(*Builder)

// DefaultMaxDepth bounds the nesting of complex fields. Model graphs deeper
// than this are rejected with ErrMaxDepthExceeded.
const DefaultMaxDepth = 64

func NewBuilder(source ModelSource, opts ...Option) *Builder {
	b := &Builder{
		source:   source,
		logger:   loglib.NewNoopLogger(),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

func WithLogger(l loglib.Logger) Option {
	return func(b *Builder) {
		b.logger = loglib.NewModuleLogger(l, "field_builder")
	}
}

// WithMaxDepth overrides the default max depth. Non positive values are
// ignored.
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// Build returns the fields for the model with the name on input, in the same
// order as the model properties were declared.
func (b *Builder) Build(modelName string) ([]Field, error) {
	m, err := b.source.Model(modelName)
	if err != nil {
		return nil, fmt.Errorf("building fields for model %s: %w", modelName, err)
	}
	return b.BuildModel(m)
}

func (b *Builder) BuildModel(m *Model) ([]Field, error) {
	b.logger.Trace("building fields", loglib.Fields{"model": m.Name})
	return b.buildFields(m, []string{m.Name}, "")
}

// buildFields expands the properties of the model. ancestors holds the names
// of the models on the path from the root to m (m included), which is what
// stops circular references. The same model reached through different paths
// is expanded again every time.
func (b *Builder) buildFields(m *Model, ancestors []string, parentPath string) ([]Field, error) {
	if len(ancestors) > b.maxDepth {
		return nil, fmt.Errorf("%w: %s", ErrMaxDepthExceeded, strings.Join(ancestors, " -> "))
	}

	fields := make([]Field, 0, len(m.Properties))
	seen := make(map[string]struct{}, len(m.Properties))
	keyFound := false
	for _, p := range m.Properties {
		if p.Annotations.Ignored {
			continue
		}

		path := joinPath(parentPath, p.Name)
		if _, found := seen[p.Name]; found {
			return nil, newInvalidProperty(m, p, path, ErrDuplicateField, "")
		}
		seen[p.Name] = struct{}{}

		field, err := b.buildField(m, p, ancestors, path)
		if err != nil {
			return nil, err
		}

		if field.Key {
			if keyFound {
				return nil, newInvalidProperty(m, p, path, ErrDuplicateKey, "")
			}
			keyFound = true
		}
		fields = append(fields, *field)
	}

	return fields, nil
}

func (b *Builder) buildField(m *Model, p Property, ancestors []string, path string) (*Field, error) {
	dataType, err := resolveDataType(p.Type)
	if err != nil {
		return nil, newInvalidProperty(m, p, path, err, "")
	}

	if dataType.IsComplex() {
		return b.buildComplexField(m, p, dataType, ancestors, path)
	}

	if err := validateAnnotations(dataType, p.Annotations); err != nil {
		return nil, newInvalidProperty(m, p, path, err.cause, err.detail)
	}

	a := p.Annotations
	searchable, filterable, sortable, facetable := defaultFlags(dataType)
	field := &Field{
		Name:               p.Name,
		Type:               dataType,
		Key:                a.Key,
		Hidden:             a.Hidden,
		Searchable:         valueOrDefault(a.Searchable, searchable),
		Filterable:         valueOrDefault(a.Filterable, filterable),
		Sortable:           valueOrDefault(a.Sortable, sortable),
		Facetable:          valueOrDefault(a.Facetable, facetable),
		AnalyzerName:       a.Analyzer,
		SearchAnalyzerName: a.SearchAnalyzer,
		IndexAnalyzerName:  a.IndexAnalyzer,
		NormalizerName:     a.Normalizer,
	}
	if len(a.SynonymMaps) > 0 {
		field.SynonymMapNames = slices.Clone(a.SynonymMaps)
	}
	return field, nil
}

func (b *Builder) buildComplexField(m *Model, p Property, dataType DataType, ancestors []string, path string) (*Field, error) {
	if hasFieldAnnotations(p.Annotations) {
		return nil, newInvalidProperty(m, p, path, ErrInvalidAnnotation, "complex fields can't carry field attributes, annotate their sub fields instead")
	}

	nestedName := p.Type.Model
	if p.Type.Kind == KindCollection {
		nestedName = p.Type.Elem.Model
	}

	field := &Field{
		Name: p.Name,
		Type: dataType,
	}

	if slices.Contains(ancestors, nestedName) {
		b.logger.Warn(nil, "circular model reference, sub fields not expanded", loglib.Fields{
			"model":     m.Name,
			"property":  path,
			"reference": nestedName,
			"ancestors": strings.Join(ancestors, " -> "),
		})
		return field, nil
	}

	nested, err := b.source.Model(nestedName)
	if err != nil {
		return nil, fmt.Errorf("model %s: property %q: %w", m.Name, path, err)
	}

	field.Fields, err = b.buildFields(nested, append(slices.Clip(ancestors), nestedName), path)
	if err != nil {
		return nil, err
	}
	return field, nil
}

func resolveDataType(t TypeRef) (DataType, error) {
	switch t.Kind {
	case KindScalar:
		if !isSupportedScalar(t.Scalar) {
			return "", ErrUnsupportedType
		}
		return t.Scalar, nil
	case KindModel:
		if t.Model == "" {
			return "", ErrUnsupportedType
		}
		return ComplexType, nil
	case KindCollection:
		if t.Elem == nil {
			return "", ErrUnsupportedType
		}
		if t.Elem.Kind == KindCollection {
			return "", ErrMultiDimensionalCollection
		}
		elem, err := resolveDataType(*t.Elem)
		if err != nil {
			return "", err
		}
		return Collection(elem), nil
	default:
		return "", ErrUnsupportedType
	}
}

func isSupportedScalar(t DataType) bool {
	switch t {
	case String, Int32, Int64, Double, Boolean, DateTimeOffset, GeographyPoint:
		return true
	default:
		return false
	}
}

// defaultFlags returns the flags a field of the data type gets when they are
// not annotated.
func defaultFlags(t DataType) (searchable, filterable, sortable, facetable bool) {
	elem := t.ElementType()
	searchable = elem == String
	filterable = true
	sortable = !t.IsCollection()
	facetable = elem != GeographyPoint
	return searchable, filterable, sortable, facetable
}

type annotationError struct {
	cause  error
	detail string
}

func validateAnnotations(t DataType, a Annotations) *annotationError {
	if a.Analyzer != "" && (a.SearchAnalyzer != "" || a.IndexAnalyzer != "") {
		return &annotationError{
			cause:  ErrAnalyzerConflict,
			detail: fmt.Sprintf("analyzer %q is set together with searchAnalyzer %q and indexAnalyzer %q", a.Analyzer, a.SearchAnalyzer, a.IndexAnalyzer),
		}
	}
	if (a.SearchAnalyzer == "") != (a.IndexAnalyzer == "") {
		return &annotationError{
			cause:  ErrAnalyzerConflict,
			detail: "searchAnalyzer and indexAnalyzer must be set together",
		}
	}

	usesText := a.Analyzer != "" || a.SearchAnalyzer != "" || a.Normalizer != "" || len(a.SynonymMaps) > 0
	if !t.isStringLike() {
		switch {
		case isTrue(a.Searchable):
			return invalidAnnotation("searchable is only valid on %s and %s", String, Collection(String))
		case usesText:
			return invalidAnnotation("analyzers, normalizers and synonym maps are only valid on %s and %s", String, Collection(String))
		}
	}
	if isFalse(a.Searchable) && (a.Analyzer != "" || a.SearchAnalyzer != "" || len(a.SynonymMaps) > 0) {
		return invalidAnnotation("analyzers and synonym maps require a searchable field")
	}
	if t.IsCollection() && isTrue(a.Sortable) {
		return invalidAnnotation("collections can't be sortable")
	}
	if t.ElementType() == GeographyPoint && isTrue(a.Facetable) {
		return invalidAnnotation("%s fields can't be facetable", GeographyPoint)
	}
	if a.Key && t != String {
		return &annotationError{cause: ErrInvalidKeyType}
	}
	return nil
}

func invalidAnnotation(format string, args ...any) *annotationError {
	return &annotationError{
		cause:  ErrInvalidAnnotation,
		detail: fmt.Sprintf(format, args...),
	}
}

func hasFieldAnnotations(a Annotations) bool {
	return a.Key || a.Hidden ||
		a.Searchable != nil || a.Filterable != nil || a.Sortable != nil || a.Facetable != nil ||
		a.Analyzer != "" || a.SearchAnalyzer != "" || a.IndexAnalyzer != "" || a.Normalizer != "" ||
		len(a.SynonymMaps) > 0
}

func newInvalidProperty(m *Model, p Property, path string, cause error, detail string) ErrInvalidProperty {
	if path != p.Name {
		if detail != "" {
			detail = "at " + path + ": " + detail
		} else {
			detail = "at " + path
		}
	}
	return ErrInvalidProperty{
		Model:    m.Name,
		Property: p.Name,
		Type:     p.Type.String(),
		Cause:    cause,
		Detail:   detail,
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func valueOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func isTrue(v *bool) bool  { return v != nil && *v }
func isFalse(v *bool) bool { return v != nil && !*v }
