// SPDX-License-Identifier: Apache-2.0

package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backoff retries an operation until it succeeds, the policy gives up, the
// context is done or the operation returns an ErrPermanent error.
type Backoff interface {
	RetryNotify(Operation, Notify) error
	Retry(Operation) error
}

type (
	Operation func() error
	// Notify is called after every failed attempt that will be retried,
	// with the error and the wait before the next attempt.
	Notify func(error, time.Duration)
)

// Config selects the retry policy. Constant takes precedence over
// Exponential. With neither set, operations are not retried.
type Config struct {
	Exponential *ExponentialConfig
	Constant    *ConstantConfig
}

type ExponentialConfig struct {
	InitialInterval time.Duration
	// MaxInterval caps the wait between two attempts.
	MaxInterval time.Duration
	// MaxRetries of zero retries until the context is done.
	MaxRetries uint
}

type ConstantConfig struct {
	Interval   time.Duration
	MaxRetries uint
}

// ErrPermanent stops the retries when it's part of the error returned by the
// operation.
var ErrPermanent = errors.New("permanent error, do not retry")

// Provider returns a new Backoff for every sequence of retries, bound to the
// context on input.
type Provider func(ctx context.Context) Backoff

func NewProvider(cfg *Config) Provider {
	switch {
	case cfg.Constant != nil:
		return func(ctx context.Context) Backoff {
			return NewConstantBackoff(ctx, cfg.Constant)
		}
	case cfg.Exponential != nil:
		return func(ctx context.Context) Backoff {
			return NewExponentialBackoff(ctx, cfg.Exponential)
		}
	default:
		return func(context.Context) Backoff {
			return NewStopBackoff()
		}
	}
}

type policy struct {
	backOff backoff.BackOff
}

func NewExponentialBackoff(ctx context.Context, cfg *ExponentialConfig) Backoff {
	exp := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		exp.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		exp.MaxInterval = cfg.MaxInterval
	}
	// the number of retries bounds the sequence, not the elapsed time
	exp.MaxElapsedTime = 0
	return newPolicy(ctx, exp, cfg.MaxRetries)
}

func NewConstantBackoff(ctx context.Context, cfg *ConstantConfig) Backoff {
	return newPolicy(ctx, backoff.NewConstantBackOff(cfg.Interval), cfg.MaxRetries)
}

func NewStopBackoff() Backoff {
	return &policy{backOff: &backoff.StopBackOff{}}
}

func newPolicy(ctx context.Context, b backoff.BackOff, maxRetries uint) *policy {
	if maxRetries > 0 {
		b = backoff.WithMaxRetries(b, uint64(maxRetries))
	}
	return &policy{backOff: backoff.WithContext(b, ctx)}
}

func (p *policy) Retry(op Operation) error {
	return p.RetryNotify(op, nil)
}

func (p *policy) RetryNotify(op Operation, notify Notify) error {
	return backoff.RetryNotify(func() error {
		err := op()
		if errors.Is(err, ErrPermanent) {
			return backoff.Permanent(err)
		}
		return err
	}, p.backOff, backoff.Notify(notify))
}
