// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/xataio/indexschema/pkg/index"
	"github.com/xataio/indexschema/pkg/index/mocks"
	"github.com/xataio/indexschema/pkg/otel"
)

func TestNewStore_disabled(t *testing.T) {
	t.Parallel()

	inner := &mocks.Store{}
	s, err := NewStore(inner, nil)
	require.NoError(t, err)
	require.Same(t, inner, s)
}

func TestStore_spansAndMetrics(t *testing.T) {
	t.Parallel()

	errTest := errors.New("oh noes")
	spanRecorder := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	metricReader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))

	inner := &mocks.Store{
		CreateIndexFn: func(ctx context.Context, i uint64, s *index.Schema) error {
			return nil
		},
		DeleteIndexFn: func(ctx context.Context, name string) error {
			return errTest
		},
	}

	s, err := NewStore(inner, &otel.Instrumentation{
		Tracer: tracerProvider.Tracer("test"),
		Meter:  meterProvider.Meter("test"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.CreateIndex(ctx, &index.Schema{Name: "hotels", Model: "Hotel"}))
	require.ErrorIs(t, s.DeleteIndex(ctx, "hotels"), errTest)
	require.Equal(t, uint64(1), inner.CreateIndexCalls())

	spans := spanRecorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "indexstore.CreateIndex", spans[0].Name())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Equal(t, "indexstore.DeleteIndex", spans[1].Name())
	require.Equal(t, codes.Error, spans[1].Status().Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, metricReader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	m := rm.ScopeMetrics[0].Metrics[0]
	require.Equal(t, "indexschema.index.store.op.latency", m.Name)
	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 2)
}
