// SPDX-License-Identifier: Apache-2.0

package structtag

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/xataio/indexschema/pkg/geo"
	loglib "github.com/xataio/indexschema/pkg/log"
	"github.com/xataio/indexschema/pkg/schema"
)

// Source is a schema.ModelSource that describes models from Go struct types.
// Property names come from the json tag, and field attributes from the search
// tag:
//
//	type Hotel struct {
//		ID   string   `json:"hotelId" search:"key,filterable,sortable"`
//		Name string   `json:"hotelName" search:"searchable,analyzer=en.lucene"`
//		Tags []string `json:"tags" search:"synonymMaps=tags|amenities"`
//	}
type Source struct {
	logger   loglib.Logger
	mutex    sync.Mutex
	registry *schema.Registry
	types    map[string]reflect.Type
}

type Option func(*Source)

const tagName = "search"

var (
	ErrNotStruct    = errors.New("model type must be a named struct")
	ErrNameConflict = errors.New("model name already used by a different type")
	ErrInvalidTag   = errors.New("invalid search tag")
)

var (
	timeType     = reflect.TypeFor[time.Time]()
	positionType = reflect.TypeFor[geo.Position]()
)

func NewSource(opts ...Option) *Source {
	registry, _ := schema.NewRegistry()
	s := &Source{
		logger:   loglib.NewNoopLogger(),
		registry: registry,
		types:    map[string]reflect.Type{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithLogger(l loglib.Logger) Option {
	return func(s *Source) {
		s.logger = loglib.NewModuleLogger(l, "structtag_source")
	}
}

// Register describes the struct type of the value on input, and every struct
// type reachable from it. It returns the model name to build the fields from.
func (s *Source) Register(v any) (string, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct || t.Name() == "" {
		return "", fmt.Errorf("%w: %v", ErrNotStruct, t)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// models are only committed once the whole type graph is described, so a
	// failed registration leaves no partial state behind
	pending := newPendingModels()
	if err := s.register(t, pending); err != nil {
		return "", err
	}
	for _, m := range pending.models {
		if err := s.registry.Register(m); err != nil {
			return "", err
		}
		s.types[m.Name] = pending.types[m.Name]
		s.logger.Trace("model registered", loglib.Fields{"model": m.Name, "properties": len(m.Properties)})
	}
	return t.Name(), nil
}

type pendingModels struct {
	types  map[string]reflect.Type
	models []*schema.Model
}

func newPendingModels() *pendingModels {
	return &pendingModels{types: map[string]reflect.Type{}}
}

// Model implements schema.ModelSource.
func (s *Source) Model(name string) (*schema.Model, error) {
	return s.registry.Model(name)
}

func (s *Source) register(t reflect.Type, pending *pendingModels) error {
	name := t.Name()
	existing, found := s.types[name]
	if !found {
		existing, found = pending.types[name]
	}
	if found {
		if existing != t {
			return fmt.Errorf("%w: %s (%s and %s)", ErrNameConflict, name, existing.PkgPath(), t.PkgPath())
		}
		return nil
	}
	// added before walking the properties so circular types end here
	pending.types[name] = t

	var nested []reflect.Type
	props, err := s.properties(t, &nested, map[reflect.Type]struct{}{t: {}})
	if err != nil {
		return fmt.Errorf("model %s: %w", name, err)
	}
	pending.models = append(pending.models, schema.NewModel(name, props...))

	for _, nt := range nested {
		if err := s.register(nt, pending); err != nil {
			return err
		}
	}
	return nil
}

// properties returns the properties of the struct type, with the fields of
// embedded structs flattened in. embedding holds the struct types on the
// current embedding path, and an embedded type already on it is skipped.
func (s *Source) properties(t reflect.Type, nested *[]reflect.Type, embedding map[reflect.Type]struct{}) ([]schema.Property, error) {
	props := make([]schema.Property, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)

		name, skip := propertyName(sf)
		if skip {
			continue
		}

		if sf.Anonymous && name == "" {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct && et != timeType && et != positionType {
				if _, found := embedding[et]; found {
					s.logger.Debug("circular embedded struct skipped", loglib.Fields{"type": t.String(), "embedded": et.String()})
					continue
				}
				embedding[et] = struct{}{}
				embedded, err := s.properties(et, nested, embedding)
				delete(embedding, et)
				if err != nil {
					return nil, err
				}
				props = append(props, embedded...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		annotations, err := parseTag(sf.Tag.Get(tagName))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}

		props = append(props, schema.Property{
			Name:        name,
			Type:        typeRef(sf.Type, nested),
			Annotations: annotations,
		})
	}
	return props, nil
}

// propertyName returns the json name of the struct field, and whether it
// must be skipped.
func propertyName(sf reflect.StructField) (string, bool) {
	tag, found := sf.Tag.Lookup("json")
	if !found {
		return "", false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, false
}

func typeRef(t reflect.Type, nested *[]reflect.Type) schema.TypeRef {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case timeType:
		return schema.Scalar(schema.DateTimeOffset)
	case positionType:
		return schema.Scalar(schema.GeographyPoint)
	}

	switch t.Kind() {
	case reflect.String:
		return schema.Scalar(schema.String)
	case reflect.Bool:
		return schema.Scalar(schema.Boolean)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return schema.Scalar(schema.Int32)
	case reflect.Int, reflect.Int64, reflect.Uint32:
		return schema.Scalar(schema.Int64)
	case reflect.Float32, reflect.Float64:
		return schema.Scalar(schema.Double)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			// binary content, not a collection of numbers
			return schema.Unsupported(t.String())
		}
		return schema.CollectionOf(typeRef(t.Elem(), nested))
	case reflect.Struct:
		if t.Name() == "" {
			return schema.Unsupported(t.String())
		}
		*nested = append(*nested, t)
		return schema.ModelRef(t.Name())
	default:
		return schema.Unsupported(t.String())
	}
}
