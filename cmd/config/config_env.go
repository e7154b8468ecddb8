// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/xataio/indexschema/internal/backoff"
	"github.com/xataio/indexschema/pkg/index"
	"github.com/xataio/indexschema/pkg/index/store"
	"github.com/xataio/indexschema/pkg/otel"
	"github.com/xataio/indexschema/pkg/tls"
)

func envConfigToConfig() (*Config, error) {
	maxDepth := viper.GetInt("INDEXSCHEMA_BUILDER_MAX_DEPTH")
	if maxDepth < 0 {
		return nil, errInvalidMaxDepth
	}

	return &Config{
		ModelsFile: viper.GetString("INDEXSCHEMA_MODELS_FILE"),
		MaxDepth:   maxDepth,
		Store: store.Config{
			ElasticsearchURL: viper.GetString("INDEXSCHEMA_ELASTICSEARCH_URL"),
			OpenSearchURL:    viper.GetString("INDEXSCHEMA_OPENSEARCH_URL"),
			Username:         viper.GetString("INDEXSCHEMA_SEARCH_USERNAME"),
			Password:         viper.GetString("INDEXSCHEMA_SEARCH_PASSWORD"),
			TLS: tls.Config{
				CACertFile:         viper.GetString("INDEXSCHEMA_SEARCH_TLS_CA_CERT_FILE"),
				ClientCertFile:     viper.GetString("INDEXSCHEMA_SEARCH_TLS_CLIENT_CERT_FILE"),
				ClientKeyFile:      viper.GetString("INDEXSCHEMA_SEARCH_TLS_CLIENT_KEY_FILE"),
				InsecureSkipVerify: viper.GetBool("INDEXSCHEMA_SEARCH_TLS_INSECURE_SKIP_VERIFY"),
			},
		},
		StoreRetry: index.StoreRetryConfig{
			Backoff: parseBackoffConfig("INDEXSCHEMA_SEARCH_STORE"),
		},
	}, nil
}

func envToOtelConfig() (*otel.Config, error) {
	cfg := &otel.Config{}
	if endpoint := viper.GetString("INDEXSCHEMA_METRICS_ENDPOINT"); endpoint != "" {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           endpoint,
			CollectionInterval: viper.GetDuration("INDEXSCHEMA_METRICS_COLLECTION_INTERVAL"),
		}
	}
	if endpoint := viper.GetString("INDEXSCHEMA_TRACES_ENDPOINT"); endpoint != "" {
		ratio := viper.GetFloat64("INDEXSCHEMA_TRACES_SAMPLE_RATIO")
		if err := validateSampleRatio(ratio); err != nil {
			return nil, err
		}
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    endpoint,
			SampleRatio: ratio,
		}
	}
	return cfg, nil
}

func parseBackoffConfig(prefix string) backoff.Config {
	return backoff.Config{
		Exponential: parseExponentialBackoffConfig(prefix),
		Constant:    parseConstantBackoffConfig(prefix),
	}
}

func parseExponentialBackoffConfig(prefix string) *backoff.ExponentialConfig {
	initialInterval := viper.GetDuration(fmt.Sprintf("%s_EXP_BACKOFF_INITIAL_INTERVAL", prefix))
	maxInterval := viper.GetDuration(fmt.Sprintf("%s_EXP_BACKOFF_MAX_INTERVAL", prefix))
	maxRetries := viper.GetUint(fmt.Sprintf("%s_EXP_BACKOFF_MAX_RETRIES", prefix))
	if initialInterval == 0 && maxInterval == 0 && maxRetries == 0 {
		return nil
	}
	return &backoff.ExponentialConfig{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxRetries:      maxRetries,
	}
}

func parseConstantBackoffConfig(prefix string) *backoff.ConstantConfig {
	interval := viper.GetDuration(fmt.Sprintf("%s_BACKOFF_INTERVAL", prefix))
	maxRetries := viper.GetUint(fmt.Sprintf("%s_BACKOFF_MAX_RETRIES", prefix))
	if interval == 0 && maxRetries == 0 {
		return nil
	}
	return &backoff.ConstantConfig{
		Interval:   interval,
		MaxRetries: maxRetries,
	}
}
