// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xataio/indexschema/internal/json"
)

// Client is the subset of the Elasticsearch/OpenSearch index management API
// used to apply index schemas.
type Client interface {
	CreateIndex(ctx context.Context, index string, body map[string]any) error
	DeleteIndex(ctx context.Context, index []string) error
	GetIndexAlias(ctx context.Context, name string) (AliasResponse, error)
	GetIndexMappings(ctx context.Context, index string) (*Mappings, error)
	IndexExists(ctx context.Context, index string) (bool, error)
	PutIndexAlias(ctx context.Context, index []string, name string) error
	PutIndexMappings(ctx context.Context, index string, body map[string]any) error
	GetMapper() Mapper
}

// CreateReader returns a reader on the JSON representation of the given value.
func CreateReader(value any) (*bytes.Reader, error) {
	bytesValue, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("unexpected marshaling error: %w", err)
	}
	return bytes.NewReader(bytesValue), nil
}
