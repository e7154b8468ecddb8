// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"

	"github.com/xataio/indexschema/pkg/schema"
)

// Store applies index schemas to a search store.
type Store interface {
	// CreateIndex creates the index for the schema on input. It fails if
	// the index already exists.
	CreateIndex(ctx context.Context, s *Schema) error
	// EnsureIndex creates the index if it doesn't exist, and adds any new
	// fields to its mapping otherwise.
	EnsureIndex(ctx context.Context, s *Schema) error
	// UpdateIndex adds the schema fields to the mapping of an existing
	// index. Existing fields can't change their mapping.
	UpdateIndex(ctx context.Context, s *Schema) error
	DeleteIndex(ctx context.Context, name string) error
}

// Schema is the definition of a search index derived from a model.
type Schema struct {
	// Name of the index. Queries should always use this name, which is an
	// alias to the versioned index.
	Name   string
	Model  string
	Fields []schema.Field
}

// KeyField returns the name of the key field of the schema, if any.
func (s *Schema) KeyField() string {
	for _, f := range s.Fields {
		if f.Key {
			return f.Name
		}
	}
	return ""
}
