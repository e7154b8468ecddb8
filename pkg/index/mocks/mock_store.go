// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync/atomic"

	"github.com/xataio/indexschema/pkg/index"
)

type Store struct {
	CreateIndexFn func(ctx context.Context, i uint64, s *index.Schema) error
	EnsureIndexFn func(ctx context.Context, s *index.Schema) error
	UpdateIndexFn func(ctx context.Context, s *index.Schema) error
	DeleteIndexFn func(ctx context.Context, name string) error

	createIndexCalls atomic.Uint64
}

func (m *Store) CreateIndex(ctx context.Context, s *index.Schema) error {
	return m.CreateIndexFn(ctx, m.createIndexCalls.Add(1), s)
}

func (m *Store) EnsureIndex(ctx context.Context, s *index.Schema) error {
	return m.EnsureIndexFn(ctx, s)
}

func (m *Store) UpdateIndex(ctx context.Context, s *index.Schema) error {
	return m.UpdateIndexFn(ctx, s)
}

func (m *Store) DeleteIndex(ctx context.Context, name string) error {
	return m.DeleteIndexFn(ctx, name)
}

func (m *Store) CreateIndexCalls() uint64 {
	return m.createIndexCalls.Load()
}
