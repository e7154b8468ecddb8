// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xataio/indexschema/internal/backoff"
	loglib "github.com/xataio/indexschema/pkg/log"
)

func TestStoreRetrier_CreateIndex(t *testing.T) {
	t.Parallel()

	testSchema := newTestSchema()
	retriableErr := fmt.Errorf("%w: service unavailable", ErrRetriable)

	tests := []struct {
		name     string
		store    *mockStore
		maxCalls int

		wantErr   error
		wantCalls uint64
	}{
		{
			name: "ok",
			store: &mockStore{
				createIndexFn: func(ctx context.Context, i uint64, s *Schema) error {
					require.Equal(t, testSchema, s)
					return nil
				},
			},
			maxCalls:  3,
			wantCalls: 1,
		},
		{
			name: "ok - transient error",
			store: &mockStore{
				createIndexFn: func(ctx context.Context, i uint64, s *Schema) error {
					switch i {
					case 1, 2:
						return retriableErr
					default:
						return nil
					}
				},
			},
			maxCalls:  3,
			wantCalls: 3,
		},
		{
			name: "error - non retriable",
			store: &mockStore{
				createIndexFn: func(ctx context.Context, i uint64, s *Schema) error {
					return ErrIndexAlreadyExists{Name: s.Name}
				},
			},
			maxCalls:  3,
			wantErr:   ErrIndexAlreadyExists{Name: "hotels"},
			wantCalls: 1,
		},
		{
			name: "error - non retriable after retriable",
			store: &mockStore{
				createIndexFn: func(ctx context.Context, i uint64, s *Schema) error {
					if i == 1 {
						return retriableErr
					}
					return errTest
				},
			},
			maxCalls:  3,
			wantErr:   errTest,
			wantCalls: 2,
		},
		{
			name: "error - retries exhausted",
			store: &mockStore{
				createIndexFn: func(ctx context.Context, i uint64, s *Schema) error {
					return retriableErr
				},
			},
			maxCalls:  2,
			wantErr:   ErrRetriable,
			wantCalls: 3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sr := NewStoreRetrier(tc.store, nil, WithStoreLogger(loglib.NewNoopLogger()))
			sr.backoffProvider = newMockBackoffProvider(tc.maxCalls)

			err := sr.CreateIndex(context.Background(), testSchema)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.wantCalls, tc.store.calls.Load())
		})
	}
}

func TestStoreRetrier_operations(t *testing.T) {
	t.Parallel()

	retriableErr := fmt.Errorf("%w: too many requests", ErrRetriable)
	failOnce := func(i uint64) error {
		if i == 1 {
			return retriableErr
		}
		return nil
	}

	store := &mockStore{
		ensureIndexFn: func(ctx context.Context, i uint64, s *Schema) error { return failOnce(i) },
		updateIndexFn: func(ctx context.Context, i uint64, s *Schema) error { return failOnce(i) },
		deleteIndexFn: func(ctx context.Context, i uint64, name string) error { return failOnce(i) },
	}

	ops := map[string]func(*StoreRetrier) error{
		"ensure": func(sr *StoreRetrier) error { return sr.EnsureIndex(context.Background(), newTestSchema()) },
		"update": func(sr *StoreRetrier) error { return sr.UpdateIndex(context.Background(), newTestSchema()) },
		"delete": func(sr *StoreRetrier) error { return sr.DeleteIndex(context.Background(), "hotels") },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			s := &mockStore{
				ensureIndexFn: store.ensureIndexFn,
				updateIndexFn: store.updateIndexFn,
				deleteIndexFn: store.deleteIndexFn,
			}
			sr := NewStoreRetrier(s, nil)
			sr.backoffProvider = newMockBackoffProvider(3)

			require.NoError(t, op(sr))
			require.Equal(t, uint64(2), s.calls.Load())
		})
	}
}

func TestStoreRetryConfig_backoffConfig(t *testing.T) {
	t.Parallel()

	var nilCfg *StoreRetryConfig
	require.Equal(t, &backoff.Config{
		Exponential: &backoff.ExponentialConfig{
			InitialInterval: defaultStoreRetryInitialInterval,
			MaxInterval:     defaultStoreRetryMaxInterval,
			MaxRetries:      defaultStoreRetryMaxRetries,
		},
	}, nilCfg.backoffConfig())

	cfg := &StoreRetryConfig{Backoff: backoff.Config{Constant: &backoff.ConstantConfig{MaxRetries: 1}}}
	require.Equal(t, &cfg.Backoff, cfg.backoffConfig())
}

func TestSchema_KeyField(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hotelId", newTestSchema().KeyField())
	require.Empty(t, (&Schema{Name: "empty"}).KeyField())
}
