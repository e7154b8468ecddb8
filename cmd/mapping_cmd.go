// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xataio/indexschema/internal/searchstore"
	elasticsearchstore "github.com/xataio/indexschema/internal/searchstore/elasticsearch"
	opensearchstore "github.com/xataio/indexschema/internal/searchstore/opensearch"
	"github.com/xataio/indexschema/pkg/index"
	"github.com/xataio/indexschema/pkg/index/store"
)

var mappingCmd = &cobra.Command{
	Use:     "mapping <model>",
	Short:   "Prints the index creation body the model fields map to",
	Args:    cobra.ExactArgs(1),
	PreRunE: builderFlagBinding,
	RunE:    withSignalWatcher(mapping),
	Example: `
	indexschema mapping Hotel -f models.yaml
	indexschema mapping Hotel -f models.yaml --engine opensearch --index hotels`,
}

const (
	elasticsearchEngine = "elasticsearch"
	opensearchEngine    = "opensearch"
)

var errUnsupportedEngine = errors.New("unsupported engine, must be one of 'elasticsearch' or 'opensearch'")

func mapping(ctx context.Context, cmd *cobra.Command, args []string) error {
	engine, _ := cmd.Flags().GetString("engine")
	mapper, err := newMapper(engine)
	if err != nil {
		return err
	}

	builder, _, err := newBuilder(newLogger())
	if err != nil {
		return err
	}

	model := args[0]
	results, err := buildModels(ctx, builder, []string{model})
	if err != nil {
		return err
	}

	body, err := store.IndexBody(mapper, &index.Schema{
		Name:   indexNameForModel(cmd, model),
		Model:  model,
		Fields: results[0].Fields,
	}, mapper.GetDefaultIndexSettings())
	if err != nil {
		return err
	}

	out, err := renderJSON(body)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func newMapper(engine string) (searchstore.Mapper, error) {
	switch engine {
	case elasticsearchEngine:
		return elasticsearchstore.NewMapper(), nil
	case opensearchEngine:
		return opensearchstore.NewMapper(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedEngine, engine)
	}
}
