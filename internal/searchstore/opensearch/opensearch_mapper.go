// SPDX-License-Identifier: Apache-2.0

package opensearch

import (
	"github.com/xataio/indexschema/internal/searchstore"
	"github.com/xataio/indexschema/pkg/schema"
)

type Mapper struct{}

const defaultTotalFieldsLimit = 2000

func NewMapper() *Mapper {
	return &Mapper{}
}

func (m *Mapper) GetDefaultIndexSettings() map[string]any {
	return map[string]any{
		"number_of_shards":                 1,
		"number_of_replicas":               1,
		"index.mapping.total_fields.limit": defaultTotalFieldsLimit,
	}
}

func (m *Mapper) FieldMapping(f *schema.Field) (map[string]any, error) {
	return searchstore.BaseFieldMapping(f)
}
