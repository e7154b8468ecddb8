// SPDX-License-Identifier: Apache-2.0

package schema

import "strings"

// DataType is the search data type of a field, using the EDM naming the
// search service expects (Edm.String, Collection(Edm.Int32)...).
type DataType string

const (
	String         DataType = "Edm.String"
	Int32          DataType = "Edm.Int32"
	Int64          DataType = "Edm.Int64"
	Double         DataType = "Edm.Double"
	Boolean        DataType = "Edm.Boolean"
	DateTimeOffset DataType = "Edm.DateTimeOffset"
	GeographyPoint DataType = "Edm.GeographyPoint"
	ComplexType    DataType = "Edm.ComplexType"

	collectionPrefix = "Collection("
	collectionSuffix = ")"
)

// Collection returns the multi-valued version of the data type on input.
func Collection(t DataType) DataType {
	return DataType(collectionPrefix + string(t) + collectionSuffix)
}

func (t DataType) String() string {
	return string(t)
}

func (t DataType) IsCollection() bool {
	return strings.HasPrefix(string(t), collectionPrefix) && strings.HasSuffix(string(t), collectionSuffix)
}

// ElementType returns the type of the collection items, or the type itself
// if it's not a collection.
func (t DataType) ElementType() DataType {
	if !t.IsCollection() {
		return t
	}
	return DataType(strings.TrimSuffix(strings.TrimPrefix(string(t), collectionPrefix), collectionSuffix))
}

// IsComplex returns true for complex types and collections of complex types.
func (t DataType) IsComplex() bool {
	return t.ElementType() == ComplexType
}

func (t DataType) isStringLike() bool {
	return t.ElementType() == String
}

// Field is a node of an index schema. Complex fields carry their sub fields in
// Fields, every other field is a leaf.
type Field struct {
	Name               string   `json:"name"`
	Type               DataType `json:"type"`
	Key                bool     `json:"key"`
	Hidden             bool     `json:"hidden"`
	Searchable         bool     `json:"searchable"`
	Filterable         bool     `json:"filterable"`
	Sortable           bool     `json:"sortable"`
	Facetable          bool     `json:"facetable"`
	AnalyzerName       string   `json:"analyzer,omitempty"`
	SearchAnalyzerName string   `json:"searchAnalyzer,omitempty"`
	IndexAnalyzerName  string   `json:"indexAnalyzer,omitempty"`
	NormalizerName     string   `json:"normalizer,omitempty"`
	SynonymMapNames    []string `json:"synonymMaps,omitempty"`
	Fields             []Field  `json:"fields,omitempty"`
}

// Find returns the field with the dotted path on input (for example
// "address.city"), walking through complex sub fields.
func Find(fields []Field, path string) (*Field, bool) {
	name, rest, nested := strings.Cut(path, ".")
	for i := range fields {
		if fields[i].Name != name {
			continue
		}
		if !nested {
			return &fields[i], true
		}
		return Find(fields[i].Fields, rest)
	}
	return nil, false
}
