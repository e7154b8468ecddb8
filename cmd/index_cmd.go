// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/xataio/indexschema/cmd/config"
	"github.com/xataio/indexschema/pkg/index"
	"github.com/xataio/indexschema/pkg/index/instrumentation"
	"github.com/xataio/indexschema/pkg/index/store"
	loglib "github.com/xataio/indexschema/pkg/log"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manages the search index of a model in Elasticsearch or OpenSearch",
}

var indexCreateCmd = &cobra.Command{
	Use:     "create <model>",
	Short:   "Creates the index for the model. It fails if the index already exists",
	Args:    cobra.ExactArgs(1),
	PreRunE: builderFlagBinding,
	RunE: withSignalWatcher(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return applySchema(ctx, cmd, args[0], "creating", index.Store.CreateIndex)
	}),
	Example: `
	indexschema index create Hotel -f models.yaml --elasticsearch-url http://localhost:9200
	indexschema index create Hotel -c config.yaml --index hotels`,
}

var indexEnsureCmd = &cobra.Command{
	Use:     "ensure <model>",
	Short:   "Creates the index for the model if it doesn't exist, and adds any new fields to its mapping otherwise",
	Args:    cobra.ExactArgs(1),
	PreRunE: builderFlagBinding,
	RunE: withSignalWatcher(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return applySchema(ctx, cmd, args[0], "ensuring", index.Store.EnsureIndex)
	}),
	Example: `
	indexschema index ensure Hotel -f models.yaml --opensearch-url http://localhost:9200`,
}

var indexUpdateCmd = &cobra.Command{
	Use:     "update <model>",
	Short:   "Adds the model fields missing from the mapping of an existing index",
	Args:    cobra.ExactArgs(1),
	PreRunE: builderFlagBinding,
	RunE: withSignalWatcher(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return applySchema(ctx, cmd, args[0], "updating", index.Store.UpdateIndex)
	}),
	Example: `
	indexschema index update Hotel -c config.env`,
}

var indexDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Deletes the index with the name on input",
	Args:  cobra.ExactArgs(1),
	RunE: withSignalWatcher(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		name := args[0]
		sp, _ := pterm.DefaultSpinner.WithText(fmt.Sprintf("deleting index %s...", name)).Start()

		indexStore, closeFn, err := newIndexStore(cmd, newLogger())
		if err != nil {
			sp.Fail(err.Error())
			return err
		}
		defer closeFn()

		if err := indexStore.DeleteIndex(ctx, name); err != nil {
			sp.Fail(err.Error())
			return err
		}

		sp.Success(fmt.Sprintf("index %s deleted", name))
		return nil
	}),
	Example: `
	indexschema index delete hotels --elasticsearch-url http://localhost:9200`,
}

var errNoSearchStore = errors.New("a search store URL must be provided, with --elasticsearch-url, --opensearch-url or in the configuration")

func applySchema(ctx context.Context, cmd *cobra.Command, model, action string, apply func(index.Store, context.Context, *index.Schema) error) error {
	sp, _ := pterm.DefaultSpinner.WithText(fmt.Sprintf("%s index for model %s...", action, model)).Start()
	fail := func(err error) error {
		sp.Fail(err.Error())
		return err
	}

	logger := newLogger()
	builder, _, err := newBuilder(logger)
	if err != nil {
		return fail(err)
	}

	results, err := buildModels(ctx, builder, []string{model})
	if err != nil {
		return fail(err)
	}

	indexStore, closeFn, err := newIndexStore(cmd, logger)
	if err != nil {
		return fail(err)
	}
	defer closeFn()

	schema := &index.Schema{
		Name:   indexNameForModel(cmd, model),
		Model:  model,
		Fields: results[0].Fields,
	}
	if err := apply(indexStore, ctx, schema); err != nil {
		return fail(err)
	}

	sp.Success(fmt.Sprintf("index %s ready for model %s", schema.Name, model))
	return nil
}

// newIndexStore returns the index store for the configured search engine,
// with retries and instrumentation. The returned function closes the
// instrumentation provider.
func newIndexStore(cmd *cobra.Command, logger loglib.Logger) (index.Store, func(), error) {
	cfg, err := config.ParseConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	storeCfg := storeConfigWithFlags(cmd, cfg.Store)
	if storeCfg.ElasticsearchURL == "" && storeCfg.OpenSearchURL == "" {
		return nil, nil, errNoSearchStore
	}

	searchStore, err := store.NewStore(storeCfg, store.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	provider, err := newInstrumentationProvider()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := provider.Close(); err != nil {
			logger.Error(err, "closing instrumentation provider")
		}
	}

	var indexStore index.Store = index.NewStoreRetrier(searchStore, &cfg.StoreRetry, index.WithStoreLogger(logger))
	indexStore, err = instrumentation.NewStore(indexStore, provider.NewInstrumentation("index_store"))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return indexStore, closeFn, nil
}

// storeConfigWithFlags overrides the configured store URLs with the URL
// flags, if any. Credentials and TLS settings are kept. Only one search engine
// can be set.
func storeConfigWithFlags(cmd *cobra.Command, cfg store.Config) store.Config {
	esURL, _ := cmd.Flags().GetString("elasticsearch-url")
	osURL, _ := cmd.Flags().GetString("opensearch-url")
	if esURL == "" && osURL == "" {
		return cfg
	}
	cfg.ElasticsearchURL = esURL
	cfg.OpenSearchURL = osURL
	return cfg
}
