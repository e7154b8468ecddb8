// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/xataio/indexschema/internal/searchstore"
	"github.com/xataio/indexschema/internal/searchstore/mocks"
	"github.com/xataio/indexschema/pkg/index"
	"github.com/xataio/indexschema/pkg/schema"
)

var errTest = errors.New("oh noes")

var testSettings = map[string]any{"number_of_shards": 1}

func newTestMapper() *mocks.Mapper {
	return &mocks.Mapper{
		GetDefaultIndexSettingsFn: func() map[string]any { return testSettings },
		FieldMappingFn:            searchstore.BaseFieldMapping,
	}
}

func newTestStore(client *mocks.Client) *Store {
	client.GetMapperFn = func() searchstore.Mapper { return newTestMapper() }
	return NewStoreWithClient(client)
}

// aliasResponse returns a GetIndexAlias mock where the alias points at the
// indices on input.
func aliasResponse(indices ...string) func(ctx context.Context, name string) (searchstore.AliasResponse, error) {
	return func(ctx context.Context, name string) (searchstore.AliasResponse, error) {
		if len(indices) == 0 {
			return nil, fmt.Errorf("%w: [404]: alias [%s] missing", searchstore.ErrResourceNotFound, name)
		}
		resp := searchstore.AliasResponse{}
		for _, index := range indices {
			resp[index] = struct {
				Aliases map[string]any `json:"aliases"`
			}{Aliases: map[string]any{name: map[string]any{}}}
		}
		return resp, nil
	}
}

func newTestSchema() *index.Schema {
	return &index.Schema{
		Name:  "hotels",
		Model: "Hotel",
		Fields: []schema.Field{
			{Name: "hotelId", Type: schema.String, Key: true, Filterable: true, Sortable: true, Facetable: true},
			{Name: "rating", Type: schema.Double, Filterable: true, Sortable: true, Facetable: true},
			{Name: "internalNotes", Type: schema.String, Hidden: true, Filterable: true},
		},
	}
}

func newTestIndexBody() map[string]any {
	return map[string]any{
		"settings": testSettings,
		"mappings": map[string]any{
			"dynamic": "strict",
			"_meta": map[string]any{
				"model": "Hotel",
				"key":   "hotelId",
			},
			"_source": map[string]any{
				"excludes": []string{"internalNotes"},
			},
			"properties": map[string]any{
				"hotelId":       map[string]any{"type": "keyword", "ignore_above": 8191},
				"rating":        map[string]any{"type": "double"},
				"internalNotes": map[string]any{"type": "keyword", "ignore_above": 8191, "doc_values": false},
			},
		},
	}
}
