// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/xataio/indexschema/internal/backoff"
	backoffmocks "github.com/xataio/indexschema/internal/backoff/mocks"
	"github.com/xataio/indexschema/pkg/schema"
)

var errTest = errors.New("oh noes")

type mockStore struct {
	createIndexFn func(ctx context.Context, i uint64, s *Schema) error
	ensureIndexFn func(ctx context.Context, i uint64, s *Schema) error
	updateIndexFn func(ctx context.Context, i uint64, s *Schema) error
	deleteIndexFn func(ctx context.Context, i uint64, name string) error

	calls atomic.Uint64
}

func (m *mockStore) CreateIndex(ctx context.Context, s *Schema) error {
	return m.createIndexFn(ctx, m.calls.Add(1), s)
}

func (m *mockStore) EnsureIndex(ctx context.Context, s *Schema) error {
	return m.ensureIndexFn(ctx, m.calls.Add(1), s)
}

func (m *mockStore) UpdateIndex(ctx context.Context, s *Schema) error {
	return m.updateIndexFn(ctx, m.calls.Add(1), s)
}

func (m *mockStore) DeleteIndex(ctx context.Context, name string) error {
	return m.deleteIndexFn(ctx, m.calls.Add(1), name)
}

// newMockBackoffProvider retries the operation until it succeeds, it fails
// with a permanent error, or it has been called maxCalls times.
func newMockBackoffProvider(maxCalls int) backoff.Provider {
	return func(ctx context.Context) backoff.Backoff {
		return &backoffmocks.Backoff{
			RetryNotifyFn: func(op backoff.Operation, notify backoff.Notify) error {
				var err error
				for i := 0; i < maxCalls; i++ {
					err = op()
					if err == nil || errors.Is(err, backoff.ErrPermanent) {
						return err
					}
					notify(err, 0)
				}
				return err
			},
		}
	}
}

func newTestSchema() *Schema {
	return &Schema{
		Name:  "hotels",
		Model: "Hotel",
		Fields: []schema.Field{
			{Name: "hotelId", Type: schema.String, Key: true, Filterable: true, Sortable: true, Facetable: true},
			{Name: "hotelName", Type: schema.String, Searchable: true, Filterable: true, Sortable: true, Facetable: true},
		},
	}
}
