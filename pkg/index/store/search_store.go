// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/xataio/indexschema/internal/searchstore"
	elasticsearchstore "github.com/xataio/indexschema/internal/searchstore/elasticsearch"
	opensearchstore "github.com/xataio/indexschema/internal/searchstore/opensearch"
	"github.com/xataio/indexschema/pkg/index"
	loglib "github.com/xataio/indexschema/pkg/log"
	"github.com/xataio/indexschema/pkg/tls"
)

// Store applies index schemas to Elasticsearch or OpenSearch. Every index is
// created with a version suffix and an alias with the schema name, which is
// the name used for any further operation.
type Store struct {
	logger               loglib.Logger
	client               searchstore.Client
	mapper               searchstore.Mapper
	indexNameAdapter     IndexNameAdapter
	defaultIndexSettings map[string]any
}

type Config struct {
	OpenSearchURL    string
	ElasticsearchURL string
	// Basic auth credentials, used when the username is set.
	Username string
	Password string
	TLS      tls.Config
}

type Option func(*Store)

const (
	metaModelKey = "model"
	metaKeyKey   = "key"
)

func NewStore(cfg Config, opts ...Option) (*Store, error) {
	transport, err := tls.NewTransport(&cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("configuring store TLS: %w", err)
	}

	var searchStore searchstore.Client
	switch {
	case cfg.OpenSearchURL != "" && cfg.ElasticsearchURL != "":
		return nil, errors.New("only one store URL must be provided")
	case cfg.OpenSearchURL == "" && cfg.ElasticsearchURL == "":
		return nil, errors.New("a store URL must be provided")
	case cfg.OpenSearchURL != "":
		opts := []opensearchstore.ClientOption{}
		if transport != nil {
			opts = append(opts, opensearchstore.WithTransport(transport))
		}
		if cfg.Username != "" {
			opts = append(opts, opensearchstore.WithBasicAuth(cfg.Username, cfg.Password))
		}
		searchStore, err = opensearchstore.NewClient(cfg.OpenSearchURL, opts...)
	case cfg.ElasticsearchURL != "":
		opts := []elasticsearchstore.ClientOption{}
		if transport != nil {
			opts = append(opts, elasticsearchstore.WithTransport(transport))
		}
		if cfg.Username != "" {
			opts = append(opts, elasticsearchstore.WithBasicAuth(cfg.Username, cfg.Password))
		}
		searchStore, err = elasticsearchstore.NewClient(cfg.ElasticsearchURL, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("create search store client: %w", err)
	}

	return NewStoreWithClient(searchStore, opts...), nil
}

func NewStoreWithClient(client searchstore.Client, opts ...Option) *Store {
	mapper := client.GetMapper()
	s := &Store{
		logger:               loglib.NewNoopLogger(),
		client:               client,
		mapper:               mapper,
		indexNameAdapter:     newDefaultIndexNameAdapter(),
		defaultIndexSettings: mapper.GetDefaultIndexSettings(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func WithLogger(l loglib.Logger) Option {
	return func(s *Store) {
		s.logger = loglib.NewModuleLogger(l, "index_store")
	}
}

func WithMapper(m searchstore.Mapper) Option {
	return func(s *Store) {
		s.mapper = m
	}
}

func WithIndexNameAdapter(a IndexNameAdapter) Option {
	return func(s *Store) {
		s.indexNameAdapter = a
	}
}

// WithIndexSettings adds the settings on input to the default index settings
// of the store, overwriting any existing keys.
func WithIndexSettings(settings map[string]any) Option {
	return func(s *Store) {
		merged := maps.Clone(s.defaultIndexSettings)
		if merged == nil {
			merged = make(map[string]any, len(settings))
		}
		maps.Copy(merged, settings)
		s.defaultIndexSettings = merged
	}
}

func (s *Store) CreateIndex(ctx context.Context, schema *index.Schema) error {
	indexName, err := s.indexNameAdapter.SchemaNameToIndex(schema.Name)
	if err != nil {
		return err
	}
	return s.createIndex(ctx, indexName, schema)
}

func (s *Store) EnsureIndex(ctx context.Context, schema *index.Schema) error {
	indexName, err := s.indexNameAdapter.SchemaNameToIndex(schema.Name)
	if err != nil {
		return err
	}

	exists, err := s.client.IndexExists(ctx, indexName.NameWithVersion())
	if err != nil {
		return fmt.Errorf("checking existence of index: %w", mapError(err))
	}
	if !exists {
		err := s.createIndex(ctx, indexName, schema)
		if err == nil {
			return nil
		}
		// created concurrently, align its mapping instead
		if !errors.As(err, &index.ErrIndexAlreadyExists{}) {
			return fmt.Errorf("creating index: %w", err)
		}
	} else if _, err := s.ensureAlias(ctx, indexName); err != nil {
		return err
	}

	return s.updateIndex(ctx, indexName, schema)
}

func (s *Store) UpdateIndex(ctx context.Context, schema *index.Schema) error {
	indexName, err := s.indexNameAdapter.SchemaNameToIndex(schema.Name)
	if err != nil {
		return err
	}
	return s.updateIndex(ctx, indexName, schema)
}

func (s *Store) DeleteIndex(ctx context.Context, name string) error {
	indexName, err := s.indexNameAdapter.SchemaNameToIndex(name)
	if err != nil {
		return err
	}

	exists, err := s.client.IndexExists(ctx, indexName.NameWithVersion())
	if err != nil {
		return mapError(err)
	}
	if !exists {
		return index.ErrIndexNotFound{Name: name}
	}

	// the alias is removed along with the index
	if err := s.client.DeleteIndex(ctx, []string{indexName.NameWithVersion()}); err != nil {
		return mapError(err)
	}

	s.logger.Info("index deleted", loglib.Fields{"index": indexName.NameWithVersion()})
	return nil
}

func (s *Store) createIndex(ctx context.Context, indexName IndexName, schema *index.Schema) error {
	body, err := IndexBody(s.mapper, schema, s.defaultIndexSettings)
	if err != nil {
		return err
	}

	if err := s.client.CreateIndex(ctx, indexName.NameWithVersion(), body); err != nil {
		if !errors.As(err, &searchstore.ErrResourceAlreadyExists{}) {
			return mapError(err)
		}
		// a previous creation may have failed before the alias was put, in
		// which case this one completes it
		restored, err := s.ensureAlias(ctx, indexName)
		if err != nil {
			return err
		}
		if !restored {
			return index.ErrIndexAlreadyExists{Name: schema.Name}
		}
		return nil
	}

	if err := s.client.PutIndexAlias(ctx, []string{indexName.NameWithVersion()}, indexName.Name()); err != nil {
		return mapError(err)
	}

	s.logger.Info("index created", loglib.Fields{
		"index": indexName.NameWithVersion(),
		"alias": indexName.Name(),
		"model": schema.Model,
	})
	return nil
}

// ensureAlias puts the schema name alias on the versioned index if it's
// missing. It returns true when the alias had to be put.
func (s *Store) ensureAlias(ctx context.Context, indexName IndexName) (bool, error) {
	aliases, err := s.client.GetIndexAlias(ctx, indexName.Name())
	if err != nil && !errors.Is(err, searchstore.ErrResourceNotFound) {
		return false, fmt.Errorf("getting index alias: %w", mapError(err))
	}
	if slices.Contains(aliases.Indices(), indexName.NameWithVersion()) {
		return false, nil
	}

	if err := s.client.PutIndexAlias(ctx, []string{indexName.NameWithVersion()}, indexName.Name()); err != nil {
		return false, fmt.Errorf("putting index alias: %w", mapError(err))
	}

	s.logger.Warn(nil, "missing index alias restored", loglib.Fields{
		"index": indexName.NameWithVersion(),
		"alias": indexName.Name(),
	})
	return true, nil
}

// updateIndex adds the schema fields to the existing index mapping. The
// source excludes of an index can't change after creation, so hidden fields
// added by an update are still returned in the documents source.
func (s *Store) updateIndex(ctx context.Context, indexName IndexName, schema *index.Schema) error {
	current, err := s.client.GetIndexMappings(ctx, indexName.Name())
	if err != nil {
		if errors.Is(err, searchstore.ErrResourceNotFound) {
			return index.ErrIndexNotFound{Name: schema.Name}
		}
		return mapError(err)
	}

	if model, found := current.Meta[metaModelKey]; found && model != schema.Model {
		return fmt.Errorf("%w: index %s was created for model %v, not %s", index.ErrInvalidMapping, schema.Name, model, schema.Model)
	}

	mapping, err := searchstore.MapFields(s.mapper, schema.Fields)
	if err != nil {
		return fmt.Errorf("%w: %w", index.ErrInvalidMapping, err)
	}

	newFields := 0
	for name := range mapping.Properties {
		if _, found := current.Properties[name]; !found {
			newFields++
		}
	}
	if newFields == 0 {
		s.logger.Debug("index mapping up to date", loglib.Fields{"index": indexName.Name()})
	}

	if err := s.client.PutIndexMappings(ctx, indexName.Name(), map[string]any{
		"_meta":      schemaMeta(schema),
		"properties": mapping.Properties,
	}); err != nil {
		return fmt.Errorf("updating index mapping: %w", mapError(err))
	}

	s.logger.Info("index mapping updated", loglib.Fields{
		"index":      indexName.Name(),
		"new_fields": newFields,
	})
	return nil
}

// IndexBody returns the index creation request body for the schema on input.
// The mapping is strict, so documents with fields outside of the schema are
// rejected.
func IndexBody(mapper searchstore.Mapper, schema *index.Schema, settings map[string]any) (map[string]any, error) {
	mapping, err := searchstore.MapFields(mapper, schema.Fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrInvalidMapping, err)
	}

	mappings := map[string]any{
		"dynamic":    "strict",
		"_meta":      schemaMeta(schema),
		"properties": mapping.Properties,
	}
	if len(mapping.SourceExcludes) > 0 {
		mappings["_source"] = map[string]any{
			"excludes": mapping.SourceExcludes,
		}
	}

	body := map[string]any{
		"mappings": mappings,
	}
	if len(settings) > 0 {
		body["settings"] = settings
	}
	return body, nil
}

func schemaMeta(schema *index.Schema) map[string]any {
	meta := map[string]any{
		metaModelKey: schema.Model,
	}
	if key := schema.KeyField(); key != "" {
		meta[metaKeyKey] = key
	}
	return meta
}

func mapError(err error) error {
	if errors.As(err, &searchstore.RetryableError{}) {
		return fmt.Errorf("%w: %w", index.ErrRetriable, err)
	}
	if errors.As(err, &searchstore.ErrQueryInvalid{}) {
		return fmt.Errorf("%w: %w", index.ErrInvalidMapping, err)
	}
	return err
}
