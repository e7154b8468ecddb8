// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xataio/indexschema/internal/backoff"
	loglib "github.com/xataio/indexschema/pkg/log"
)

// StoreRetrier applies a retry strategy to store operations that fail with
// retriable errors. Any other error is returned straight away.
type StoreRetrier struct {
	inner           Store
	logger          loglib.Logger
	backoffProvider backoff.Provider
}

type StoreRetryConfig struct {
	// If not provided it defaults to using exponential backoff with initial
	// interval of 1s, max interval of 1min, and 5 max retries.
	Backoff backoff.Config
}

type StoreOption func(*StoreRetrier)

const (
	defaultStoreRetryInitialInterval = time.Second
	defaultStoreRetryMaxInterval     = time.Minute
	defaultStoreRetryMaxRetries      = 5
)

func NewStoreRetrier(s Store, cfg *StoreRetryConfig, opts ...StoreOption) *StoreRetrier {
	sr := &StoreRetrier{
		inner:           s,
		logger:          loglib.NewNoopLogger(),
		backoffProvider: backoff.NewProvider(cfg.backoffConfig()),
	}

	for _, opt := range opts {
		opt(sr)
	}

	return sr
}

func WithStoreLogger(logger loglib.Logger) StoreOption {
	return func(sr *StoreRetrier) {
		sr.logger = loglib.NewModuleLogger(logger, "index_store_retrier")
	}
}

func (s *StoreRetrier) CreateIndex(ctx context.Context, schema *Schema) error {
	return s.withRetry(ctx, "CreateIndex", schema.Name, func() error {
		return s.inner.CreateIndex(ctx, schema)
	})
}

func (s *StoreRetrier) EnsureIndex(ctx context.Context, schema *Schema) error {
	return s.withRetry(ctx, "EnsureIndex", schema.Name, func() error {
		return s.inner.EnsureIndex(ctx, schema)
	})
}

func (s *StoreRetrier) UpdateIndex(ctx context.Context, schema *Schema) error {
	return s.withRetry(ctx, "UpdateIndex", schema.Name, func() error {
		return s.inner.UpdateIndex(ctx, schema)
	})
}

func (s *StoreRetrier) DeleteIndex(ctx context.Context, name string) error {
	return s.withRetry(ctx, "DeleteIndex", name, func() error {
		return s.inner.DeleteIndex(ctx, name)
	})
}

func (s *StoreRetrier) withRetry(ctx context.Context, op, index string, operation func() error) error {
	err := operation()
	if err == nil || !errors.Is(err, ErrRetriable) {
		return err
	}

	// only initialise the backoff provider if the operation fails
	bo := s.backoffProvider(ctx)
	err = bo.RetryNotify(func() error {
		err := operation()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRetriable) {
			return fmt.Errorf("%w: %w", err, backoff.ErrPermanent)
		}
		return err
	}, func(err error, d time.Duration) {
		s.logger.Warn(err, "retrying index store operation after error", loglib.Fields{
			"operation":   op,
			"index":       index,
			"retry_delay": d.String(),
		})
	})

	if err == nil {
		s.logger.Info("retried index store operation succeeded", loglib.Fields{
			"operation": op,
			"index":     index,
		})
	}
	return err
}

func (c *StoreRetryConfig) backoffConfig() *backoff.Config {
	if c != nil && (c.Backoff.Constant != nil || c.Backoff.Exponential != nil) {
		return &c.Backoff
	}
	return &backoff.Config{
		Exponential: &backoff.ExponentialConfig{
			InitialInterval: defaultStoreRetryInitialInterval,
			MaxInterval:     defaultStoreRetryMaxInterval,
			MaxRetries:      defaultStoreRetryMaxRetries,
		},
	}
}
