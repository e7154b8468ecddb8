// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/xataio/indexschema/cmd/config"
	loglib "github.com/xataio/indexschema/pkg/log"
	"github.com/xataio/indexschema/pkg/schema"
	"github.com/xataio/indexschema/pkg/schema/modelfile"
)

var fieldsCmd = &cobra.Command{
	Use:     "fields [model...]",
	Short:   "Builds the index fields of the given models, or of every model in the models file",
	PreRunE: builderFlagBinding,
	RunE:    withSignalWatcher(fields),
	Example: `
	indexschema fields Hotel -f models.yaml
	indexschema fields Hotel Room -f models.yaml --output json
	indexschema fields -f models.yaml --output template --template '{{ range .Fields }}{{ .Name | upper }} {{ end }}'
	indexschema fields -c config.yaml`,
}

var errNoModelsFile = errors.New("a models file must be provided, with --models-file or in the configuration")

// modelFields are the fields built for a model.
type modelFields struct {
	Model  string         `json:"model"`
	Fields []schema.Field `json:"fields"`
}

func fields(ctx context.Context, cmd *cobra.Command, args []string) error {
	logger := newLogger()

	builder, registry, err := newBuilder(logger)
	if err != nil {
		return err
	}

	models := args
	if len(models) == 0 {
		models = registry.Names()
		slices.Sort(models)
	}

	results, err := buildModels(ctx, builder, models)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	tpl, _ := cmd.Flags().GetString("template")
	out, err := renderFields(output, tpl, results)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// buildModels builds the fields of the models on input concurrently. The
// results keep the input order.
func buildModels(ctx context.Context, builder *schema.Builder, models []string) ([]modelFields, error) {
	results := make([]modelFields, len(models))
	eg, ctx := errgroup.WithContext(ctx)
	for i, model := range models {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fields, err := builder.Build(model)
			if err != nil {
				return err
			}
			results[i] = modelFields{Model: model, Fields: fields}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func newBuilder(logger loglib.Logger) (*schema.Builder, *schema.Registry, error) {
	cfg, err := config.ParseConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	modelsFile := config.ModelsFile()
	if modelsFile == "" {
		return nil, nil, errNoModelsFile
	}

	registry, err := modelfile.LoadFile(modelsFile)
	if err != nil {
		return nil, nil, err
	}

	maxDepth := cfg.MaxDepth
	if flagDepth := viper.GetInt("max-depth"); flagDepth > 0 {
		maxDepth = flagDepth
	}

	builder := schema.NewBuilder(registry,
		schema.WithLogger(logger),
		schema.WithMaxDepth(maxDepth))
	return builder, registry, nil
}

func builderFlagBinding(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlag("max-depth", cmd.Flags().Lookup("max-depth"))
}

// indexNameForModel returns the index name flag, or the lowercase model
// name when it's not set.
func indexNameForModel(cmd *cobra.Command, model string) string {
	if name, _ := cmd.Flags().GetString("index"); name != "" {
		return name
	}
	return strings.ToLower(model)
}
