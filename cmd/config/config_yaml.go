// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/xataio/indexschema/internal/backoff"
	"github.com/xataio/indexschema/pkg/index"
	"github.com/xataio/indexschema/pkg/index/store"
	"github.com/xataio/indexschema/pkg/otel"
	"github.com/xataio/indexschema/pkg/tls"
)

type YAMLConfig struct {
	Models          ModelsConfig          `mapstructure:"models" yaml:"models"`
	Builder         BuilderConfig         `mapstructure:"builder" yaml:"builder"`
	Search          SearchConfig          `mapstructure:"search" yaml:"search"`
	Instrumentation InstrumentationConfig `mapstructure:"instrumentation" yaml:"instrumentation"`
}

type ModelsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

type BuilderConfig struct {
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
}

type SearchConfig struct {
	Elasticsearch *SearchEngineConfig `mapstructure:"elasticsearch" yaml:"elasticsearch"`
	OpenSearch    *SearchEngineConfig `mapstructure:"opensearch" yaml:"opensearch"`
	Retry         *BackoffConfig      `mapstructure:"retry" yaml:"retry"`
	Username      string              `mapstructure:"username" yaml:"username"`
	Password      string              `mapstructure:"password" yaml:"password"`
	TLS           *TLSConfig          `mapstructure:"tls" yaml:"tls"`
}

type SearchEngineConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type TLSConfig struct {
	CACertFile         string `mapstructure:"ca_cert_file" yaml:"ca_cert_file"`
	ClientCertFile     string `mapstructure:"client_cert_file" yaml:"client_cert_file"`
	ClientKeyFile      string `mapstructure:"client_key_file" yaml:"client_key_file"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type BackoffConfig struct {
	Exponential *ExponentialBackoffConfig `mapstructure:"exponential" yaml:"exponential"`
	Constant    *ConstantBackoffConfig    `mapstructure:"constant" yaml:"constant"`
}

type ExponentialBackoffConfig struct {
	MaxRetries      int `mapstructure:"max_retries" yaml:"max_retries"`
	InitialInterval int `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     int `mapstructure:"max_interval" yaml:"max_interval"`
}

type ConstantBackoffConfig struct {
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
	Interval   int `mapstructure:"interval" yaml:"interval"`
}

type InstrumentationConfig struct {
	Metrics *MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Traces  *TracesConfig  `mapstructure:"traces" yaml:"traces"`
}

type MetricsConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// CollectionInterval in seconds
	CollectionInterval int `mapstructure:"collection_interval" yaml:"collection_interval"`
}

type TracesConfig struct {
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}

func (c *YAMLConfig) toConfig() (*Config, error) {
	if c.Builder.MaxDepth < 0 {
		return nil, errInvalidMaxDepth
	}

	cfg := &Config{
		ModelsFile: c.Models.File,
		MaxDepth:   c.Builder.MaxDepth,
		Store: store.Config{
			Username: c.Search.Username,
			Password: c.Search.Password,
		},
	}
	if c.Search.Elasticsearch != nil {
		cfg.Store.ElasticsearchURL = c.Search.Elasticsearch.URL
	}
	if c.Search.OpenSearch != nil {
		cfg.Store.OpenSearchURL = c.Search.OpenSearch.URL
	}
	if c.Search.TLS != nil {
		cfg.Store.TLS = tls.Config{
			CACertFile:         c.Search.TLS.CACertFile,
			ClientCertFile:     c.Search.TLS.ClientCertFile,
			ClientKeyFile:      c.Search.TLS.ClientKeyFile,
			InsecureSkipVerify: c.Search.TLS.InsecureSkipVerify,
		}
	}
	if c.Search.Retry != nil {
		cfg.StoreRetry = index.StoreRetryConfig{
			Backoff: c.Search.Retry.parseBackoffConfig(),
		}
	}
	return cfg, nil
}

func (c *InstrumentationConfig) toOtelConfig() (*otel.Config, error) {
	cfg := &otel.Config{}
	if c.Metrics != nil {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           c.Metrics.Endpoint,
			CollectionInterval: time.Duration(c.Metrics.CollectionInterval) * time.Second,
		}
	}
	if c.Traces != nil {
		if err := validateSampleRatio(c.Traces.SampleRatio); err != nil {
			return nil, err
		}
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    c.Traces.Endpoint,
			SampleRatio: c.Traces.SampleRatio,
		}
	}
	return cfg, nil
}

func (bo *BackoffConfig) parseBackoffConfig() backoff.Config {
	return backoff.Config{
		Exponential: bo.parseExponentialBackoffConfig(),
		Constant:    bo.parseConstantBackoffConfig(),
	}
}

func (bo *BackoffConfig) parseExponentialBackoffConfig() *backoff.ExponentialConfig {
	if bo.Exponential == nil {
		return nil
	}
	return &backoff.ExponentialConfig{
		InitialInterval: time.Duration(bo.Exponential.InitialInterval) * time.Millisecond,
		MaxInterval:     time.Duration(bo.Exponential.MaxInterval) * time.Millisecond,
		MaxRetries:      uint(bo.Exponential.MaxRetries),
	}
}

func (bo *BackoffConfig) parseConstantBackoffConfig() *backoff.ConstantConfig {
	if bo.Constant == nil {
		return nil
	}
	return &backoff.ConstantConfig{
		Interval:   time.Duration(bo.Constant.Interval) * time.Millisecond,
		MaxRetries: uint(bo.Constant.MaxRetries),
	}
}
