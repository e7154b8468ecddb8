// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"fmt"

	"github.com/xataio/indexschema/pkg/schema"
)

// Mapper translates leaf schema fields into the mapping of the search store.
// Complex fields are handled by MapFields.
type Mapper interface {
	GetDefaultIndexSettings() map[string]any
	FieldMapping(*schema.Field) (map[string]any, error)
}

// IndexMapping is the mapping derived from a field tree.
type IndexMapping struct {
	Properties map[string]any
	// SourceExcludes holds the dotted paths of hidden fields, which are
	// indexed but not returned in the documents _source.
	SourceExcludes []string
}

// MapFields returns the mapping for the fields on input. Complex fields map
// to objects and collections of complex fields to nested documents.
func MapFields(mapper Mapper, fields []schema.Field) (*IndexMapping, error) {
	m := &IndexMapping{}
	props, err := mapFields(mapper, fields, "", m)
	if err != nil {
		return nil, err
	}
	m.Properties = props
	return m, nil
}

func mapFields(mapper Mapper, fields []schema.Field, parentPath string, m *IndexMapping) (map[string]any, error) {
	props := make(map[string]any, len(fields))
	for i := range fields {
		f := &fields[i]
		path := f.Name
		if parentPath != "" {
			path = parentPath + "." + f.Name
		}

		if f.Hidden {
			m.SourceExcludes = append(m.SourceExcludes, path)
		}

		if f.Type.IsComplex() {
			subProps, err := mapFields(mapper, f.Fields, path, m)
			if err != nil {
				return nil, err
			}
			objectType := "object"
			if f.Type.IsCollection() {
				objectType = "nested"
			}
			props[f.Name] = map[string]any{
				"type":       objectType,
				"properties": subProps,
			}
			continue
		}

		mapping, err := mapper.FieldMapping(f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", path, err)
		}
		props[f.Name] = mapping
	}
	return props, nil
}
