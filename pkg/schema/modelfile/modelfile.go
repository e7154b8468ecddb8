// SPDX-License-Identifier: Apache-2.0

package modelfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xataio/indexschema/pkg/schema"
)

// File is the YAML representation of a set of models:
//
//	models:
//	  - name: Hotel
//	    properties:
//	      - name: hotelId
//	        type: string
//	        key: true
//	      - name: tags
//	        type: "[]string"
//	        synonym_maps: [hotel-synonyms]
//	      - name: address
//	        type: Address
type File struct {
	Models []Model `yaml:"models"`
}

type Model struct {
	Name       string     `yaml:"name"`
	Properties []Property `yaml:"properties"`
}

type Property struct {
	Name           string   `yaml:"name"`
	Type           string   `yaml:"type"`
	Key            bool     `yaml:"key"`
	Hidden         bool     `yaml:"hidden"`
	Ignore         bool     `yaml:"ignore"`
	Searchable     *bool    `yaml:"searchable"`
	Filterable     *bool    `yaml:"filterable"`
	Sortable       *bool    `yaml:"sortable"`
	Facetable      *bool    `yaml:"facetable"`
	Analyzer       string   `yaml:"analyzer"`
	SearchAnalyzer string   `yaml:"search_analyzer"`
	IndexAnalyzer  string   `yaml:"index_analyzer"`
	Normalizer     string   `yaml:"normalizer"`
	SynonymMaps    []string `yaml:"synonym_maps"`
}

var (
	ErrMissingPropertyName = errors.New("property name is required")
	ErrMissingPropertyType = errors.New("property type is required")
)

var scalarAliases = map[string]schema.DataType{
	"string":    schema.String,
	"int32":     schema.Int32,
	"int64":     schema.Int64,
	"double":    schema.Double,
	"boolean":   schema.Boolean,
	"bool":      schema.Boolean,
	"date":      schema.DateTimeOffset,
	"datetime":  schema.DateTimeOffset,
	"geopoint":  schema.GeographyPoint,
	"geography": schema.GeographyPoint,
}

// LoadFile reads the YAML model file on input into a registry.
func LoadFile(path string) (*schema.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return Parse(data)
}

// Parse parses the YAML models on input into a registry.
func Parse(data []byte) (*schema.Registry, error) {
	f := File{}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshaling yaml into models: %w", err)
	}

	registry, err := schema.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, m := range f.Models {
		model, err := m.toModel()
		if err != nil {
			return nil, err
		}
		if err := registry.Register(model); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (m Model) toModel() (*schema.Model, error) {
	props := make([]schema.Property, 0, len(m.Properties))
	for i, p := range m.Properties {
		switch {
		case p.Name == "":
			return nil, fmt.Errorf("model %s: property %d: %w", m.Name, i, ErrMissingPropertyName)
		case p.Type == "":
			return nil, fmt.Errorf("model %s: property %s: %w", m.Name, p.Name, ErrMissingPropertyType)
		}
		props = append(props, schema.Property{
			Name: p.Name,
			Type: ParseType(p.Type),
			Annotations: schema.Annotations{
				Key:            p.Key,
				Hidden:         p.Hidden,
				Ignored:        p.Ignore,
				Searchable:     p.Searchable,
				Filterable:     p.Filterable,
				Sortable:       p.Sortable,
				Facetable:      p.Facetable,
				Analyzer:       p.Analyzer,
				SearchAnalyzer: p.SearchAnalyzer,
				IndexAnalyzer:  p.IndexAnalyzer,
				Normalizer:     p.Normalizer,
				SynonymMaps:    p.SynonymMaps,
			},
		})
	}
	return schema.NewModel(m.Name, props...), nil
}

// ParseType parses a property type. Scalars use their short name (string,
// int32, date...) or their Edm name, collections are written as []T or
// Collection(T), and anything else is a reference to a model.
func ParseType(s string) schema.TypeRef {
	s = strings.TrimSpace(s)
	if elem, found := strings.CutPrefix(s, "[]"); found {
		return schema.CollectionOf(ParseType(elem))
	}
	if strings.HasPrefix(s, "Collection(") && strings.HasSuffix(s, ")") {
		return schema.CollectionOf(ParseType(s[len("Collection(") : len(s)-1]))
	}
	if t, found := scalarAliases[strings.ToLower(s)]; found {
		return schema.Scalar(t)
	}
	if strings.HasPrefix(s, "Edm.") {
		// unknown Edm types are rejected by the builder
		return schema.Scalar(schema.DataType(s))
	}
	return schema.ModelRef(s)
}
