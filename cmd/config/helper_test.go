// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xataio/indexschema/internal/backoff"
	"github.com/xataio/indexschema/pkg/index"
	"github.com/xataio/indexschema/pkg/index/store"
	"github.com/xataio/indexschema/pkg/otel"
	"github.com/xataio/indexschema/pkg/tls"
)

// validateTestConfig validates the configuration produced from the test
// configuration files in the test directory.
func validateTestConfig(t *testing.T, cfg *Config) {
	t.Helper()
	require.Equal(t, &Config{
		ModelsFile: "test/test_models.yaml",
		MaxDepth:   16,
		Store: store.Config{
			ElasticsearchURL: "http://localhost:9200",
			Username:         "elastic",
			Password:         "changeme",
			TLS: tls.Config{
				CACertFile:         "test/ca.pem",
				InsecureSkipVerify: true,
			},
		},
		StoreRetry: index.StoreRetryConfig{
			Backoff: backoff.Config{
				Exponential: &backoff.ExponentialConfig{
					InitialInterval: time.Second,
					MaxInterval:     time.Minute,
					MaxRetries:      5,
				},
			},
		},
	}, cfg)
}

func validateTestOtelConfig(t *testing.T, cfg *otel.Config) {
	t.Helper()
	require.Equal(t, &otel.Config{
		Metrics: &otel.MetricsConfig{
			Endpoint:           "localhost:4317",
			CollectionInterval: 60 * time.Second,
		},
		Traces: &otel.TracesConfig{
			Endpoint:    "localhost:4317",
			SampleRatio: 0.5,
		},
	}, cfg)
}
