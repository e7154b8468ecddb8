// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/xataio/indexschema/internal/searchstore"
)

type Client struct {
	CreateIndexFn      func(ctx context.Context, index string, body map[string]any) error
	DeleteIndexFn      func(ctx context.Context, index []string) error
	GetIndexAliasFn    func(ctx context.Context, name string) (searchstore.AliasResponse, error)
	GetIndexMappingsFn func(ctx context.Context, index string) (*searchstore.Mappings, error)
	IndexExistsFn      func(ctx context.Context, index string) (bool, error)
	PutIndexAliasFn    func(ctx context.Context, index []string, name string) error
	PutIndexMappingsFn func(ctx context.Context, index string, body map[string]any) error
	GetMapperFn        func() searchstore.Mapper
}

func (m *Client) CreateIndex(ctx context.Context, index string, body map[string]any) error {
	return m.CreateIndexFn(ctx, index, body)
}

func (m *Client) DeleteIndex(ctx context.Context, index []string) error {
	return m.DeleteIndexFn(ctx, index)
}

func (m *Client) GetIndexAlias(ctx context.Context, name string) (searchstore.AliasResponse, error) {
	return m.GetIndexAliasFn(ctx, name)
}

func (m *Client) GetIndexMappings(ctx context.Context, index string) (*searchstore.Mappings, error) {
	return m.GetIndexMappingsFn(ctx, index)
}

func (m *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	return m.IndexExistsFn(ctx, index)
}

func (m *Client) PutIndexAlias(ctx context.Context, index []string, name string) error {
	return m.PutIndexAliasFn(ctx, index, name)
}

func (m *Client) PutIndexMappings(ctx context.Context, index string, body map[string]any) error {
	return m.PutIndexMappingsFn(ctx, index, body)
}

func (m *Client) GetMapper() searchstore.Mapper {
	return m.GetMapperFn()
}
