// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"github.com/xataio/indexschema/internal/searchstore"
	"github.com/xataio/indexschema/pkg/schema"
)

type Mapper struct {
	GetDefaultIndexSettingsFn func() map[string]any
	FieldMappingFn            func(*schema.Field) (map[string]any, error)
}

var _ searchstore.Mapper = (*Mapper)(nil)

func (m *Mapper) GetDefaultIndexSettings() map[string]any {
	return m.GetDefaultIndexSettingsFn()
}

func (m *Mapper) FieldMapping(f *schema.Field) (map[string]any, error) {
	return m.FieldMappingFn(f)
}
