// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xataio/indexschema/cmd/config"
	"github.com/xataio/indexschema/internal/log/zerolog"
	loglib "github.com/xataio/indexschema/pkg/log"
	"github.com/xataio/indexschema/pkg/otel"
)

// Env is set at build time with the name of the release environment, if any.
var Env string

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "indexschema",
		Short:        "Derives search index schemas from model descriptions and applies them to Elasticsearch or OpenSearch",
		SilenceUsage: true,
		Version:      version(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			return nil
		},
	}

	viper.AutomaticEnv()

	// Flag definition

	// root cmd
	rootCmd.PersistentFlags().StringP("config", "c", "", ".env or .yaml config file to use with indexschema if any")
	rootCmd.PersistentFlags().String("log-level", "info", "log level for the application. One of trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringP("models-file", "f", "", "Path to a YAML file with the model descriptions")

	// fields cmd
	fieldsCmd.Flags().StringP("output", "o", treeOutput, "Output format. One of tree, json, template")
	fieldsCmd.Flags().String("template", "", "Go template used to render the fields when the output is template. Sprig functions are available")
	fieldsCmd.Flags().Int("max-depth", 0, "Maximum nesting depth of complex fields")

	// mapping cmd
	mappingCmd.Flags().String("engine", elasticsearchEngine, "Search engine the mapping is generated for. One of elasticsearch, opensearch")
	mappingCmd.Flags().String("index", "", "Name of the index, defaults to the lowercase model name")
	mappingCmd.Flags().Int("max-depth", 0, "Maximum nesting depth of complex fields")

	// index cmd
	for _, c := range []*cobra.Command{indexCreateCmd, indexEnsureCmd, indexUpdateCmd} {
		c.Flags().String("index", "", "Name of the index, defaults to the lowercase model name")
		c.Flags().Int("max-depth", 0, "Maximum nesting depth of complex fields")
	}
	for _, c := range []*cobra.Command{indexCreateCmd, indexEnsureCmd, indexUpdateCmd, indexDeleteCmd} {
		c.Flags().String("elasticsearch-url", "", "Elasticsearch URL")
		c.Flags().String("opensearch-url", "", "OpenSearch URL")
	}
	indexCmd.AddCommand(indexCreateCmd, indexEnsureCmd, indexUpdateCmd, indexDeleteCmd)

	// geo cmd
	geoPolygonCmd.Flags().Bool("wkt", false, "Output the polygon as well known text, without the geography prefix")
	geoPointCmd.Flags().Bool("wkt", false, "Output the point as well known text, without the geography prefix")
	geoCmd.AddCommand(geoPointCmd, geoPolygonCmd)

	// Flag binding for root cmd
	rootFlagBinding(rootCmd)

	// register subcommands
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(mappingCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(geoCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	cmd := Prepare()
	return cmd.Execute()
}

func withSignalWatcher(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(),
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGQUIT)
		defer cancel()
		return fn(ctx, cmd, args)
	}
}

func rootFlagBinding(cmd *cobra.Command) {
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("INDEXSCHEMA_LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("models-file", cmd.PersistentFlags().Lookup("models-file"))
}

// newLogger sets up the global logger. Logs go to stderr so that the command
// output can be piped.
func newLogger() loglib.Logger {
	logger := zerolog.NewLogger(&zerolog.Config{
		LogLevel: viper.GetString("INDEXSCHEMA_LOG_LEVEL"),
		Out:      os.Stderr,
	})
	zerolog.SetGlobalLogger(logger)
	return zerolog.NewStdLogger(logger)
}

func version() string {
	if Env != "" {
		return Env + " (" + otel.ServiceVersion() + ")"
	}
	return otel.ServiceVersion()
}

func newInstrumentationProvider() (otel.InstrumentationProvider, error) {
	cfg, err := config.ParseInstrumentationConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing instrumentation config: %w", err)
	}

	p, err := otel.NewInstrumentationProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialisating instrumentation provider: %w", err)
	}
	return p, nil
}
