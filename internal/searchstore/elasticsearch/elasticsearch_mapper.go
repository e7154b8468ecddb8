// SPDX-License-Identifier: Apache-2.0

package elasticsearch

import (
	"github.com/xataio/indexschema/internal/searchstore"
	"github.com/xataio/indexschema/pkg/schema"
)

type Mapper struct{}

const (
	defaultTotalFieldsLimit  = 2000
	defaultNestedFieldsLimit = 50
)

func NewMapper() *Mapper {
	return &Mapper{}
}

func (m *Mapper) GetDefaultIndexSettings() map[string]any {
	return map[string]any{
		"number_of_shards":                  1,
		"number_of_replicas":                1,
		"index.mapping.total_fields.limit":  defaultTotalFieldsLimit,
		"index.mapping.nested_fields.limit": defaultNestedFieldsLimit,
	}
}

func (m *Mapper) FieldMapping(f *schema.Field) (map[string]any, error) {
	mapping, err := searchstore.BaseFieldMapping(f)
	if err != nil {
		return nil, err
	}
	// keeps sub millisecond precision of Edm.DateTimeOffset values
	if f.Type.ElementType() == schema.DateTimeOffset {
		mapping["type"] = "date_nanos"
	}
	return mapping, nil
}
