// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/xataio/indexschema/pkg/index"
	"github.com/xataio/indexschema/pkg/index/store"
	"github.com/xataio/indexschema/pkg/otel"
)

// Config is the configuration of the indexschema commands, resolved from a
// YAML file, a .env file, environment variables or flags.
type Config struct {
	ModelsFile string
	MaxDepth   int
	Store      store.Config
	StoreRetry index.StoreRetryConfig
}

var (
	errInvalidSampleRatio = errors.New("trace sample ratio must be between 0 and 1")
	errInvalidMaxDepth    = errors.New("builder max depth can't be negative")
)

func Load() error {
	return LoadFile(viper.GetString("config"))
}

func LoadFile(file string) error {
	if file == "" {
		return nil
	}

	ext := filepath.Ext(file)
	if ext == "" {
		return fmt.Errorf("reading config: unknown format for file %s, must be .yaml or .env", file)
	}
	viper.SetConfigFile(file)
	viper.SetConfigType(ext[1:])
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func ParseConfig() (*Config, error) {
	if isYAMLConfig() {
		yamlCfg := YAMLConfig{}
		if err := viper.Unmarshal(&yamlCfg); err != nil {
			return nil, err
		}
		return yamlCfg.toConfig()
	}
	return envConfigToConfig()
}

func ParseInstrumentationConfig() (*otel.Config, error) {
	if isYAMLConfig() {
		yamlCfg := YAMLConfig{}
		if err := viper.Unmarshal(&yamlCfg); err != nil {
			return nil, err
		}
		return yamlCfg.Instrumentation.toOtelConfig()
	}
	return envToOtelConfig()
}

// ModelsFile returns the models file, from the command flag or the
// configuration.
func ModelsFile() string {
	switch {
	case viper.GetString("models-file") != "":
		// CLI argument
		return viper.GetString("models-file")
	case viper.GetString("models.file") != "":
		// yaml config
		return viper.GetString("models.file")
	default:
		// env config
		return viper.GetString("INDEXSCHEMA_MODELS_FILE")
	}
}

func isYAMLConfig() bool {
	switch filepath.Ext(viper.GetViper().ConfigFileUsed()) {
	case ".yml", ".yaml":
		return true
	default:
		return false
	}
}

func validateSampleRatio(ratio float64) error {
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: %v", errInvalidSampleRatio, ratio)
	}
	return nil
}
