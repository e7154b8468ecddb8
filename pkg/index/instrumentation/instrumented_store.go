// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xataio/indexschema/pkg/index"
	"github.com/xataio/indexschema/pkg/otel"
)

type Store struct {
	inner   index.Store
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *storeMetrics
}

type storeMetrics struct {
	opLatency metric.Float64Histogram
}

func NewStore(inner index.Store, instrumentation *otel.Instrumentation) (index.Store, error) {
	if !instrumentation.IsEnabled() {
		return inner, nil
	}

	s := &Store{
		inner:   inner,
		tracer:  instrumentation.Tracer,
		meter:   instrumentation.Meter,
		metrics: &storeMetrics{},
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("error initialising index store metrics: %w", err)
	}

	return s, nil
}

func (s *Store) CreateIndex(ctx context.Context, schema *index.Schema) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "indexstore.CreateIndex", trace.WithAttributes(schemaAttributes(schema)...))
	defer s.observe(ctx, span, "create", time.Now(), &err)

	return s.inner.CreateIndex(ctx, schema)
}

func (s *Store) EnsureIndex(ctx context.Context, schema *index.Schema) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "indexstore.EnsureIndex", trace.WithAttributes(schemaAttributes(schema)...))
	defer s.observe(ctx, span, "ensure", time.Now(), &err)

	return s.inner.EnsureIndex(ctx, schema)
}

func (s *Store) UpdateIndex(ctx context.Context, schema *index.Schema) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "indexstore.UpdateIndex", trace.WithAttributes(schemaAttributes(schema)...))
	defer s.observe(ctx, span, "update", time.Now(), &err)

	return s.inner.UpdateIndex(ctx, schema)
}

func (s *Store) DeleteIndex(ctx context.Context, name string) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "indexstore.DeleteIndex", trace.WithAttributes(
		attribute.String("index", name),
	))
	defer s.observe(ctx, span, "delete", time.Now(), &err)

	return s.inner.DeleteIndex(ctx, name)
}

// observe closes the span and records the latency of the operation once it
// has returned, so that the final error is reported.
func (s *Store) observe(ctx context.Context, span trace.Span, op string, start time.Time, err *error) {
	otel.CloseSpan(span, *err)
	otel.RecordDuration(ctx, s.metrics.opLatency, start, *err, attribute.String("operation", op))
}

func (s *Store) initMetrics() error {
	if s.meter == nil {
		return nil
	}

	var err error
	s.metrics.opLatency, err = s.meter.Float64Histogram("indexschema.index.store.op.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of time taken by index store operations"))
	if err != nil {
		return err
	}

	return nil
}

func schemaAttributes(schema *index.Schema) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("index", schema.Name),
		attribute.String("model", schema.Model),
		attribute.Int("fieldCount", len(schema.Fields)),
	}
}
