package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = "abyss"

// configType is the config file format.
const configType = "toml"

// envPrefix is the environment variable prefix for abyss settings.
const envPrefix = "ABYSS"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file
// path. Otherwise the config file is searched in CWD and $HOME. A
// missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			slog.Warn("abyss.toml parse failed, ignoring", "error", readErr)
		}
	}

	migrateLegacyCompression(viperCfg)

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// migrateLegacyCompression collapses the legacy top-level "compression"
// key onto "compression_level" so Config only ever exposes one field.
// A key present under both names prefers compression_level and logs
// the deprecated key as ignored.
func migrateLegacyCompression(viperCfg *viper.Viper) {
	legacy := viperCfg.GetString("compression")
	if legacy == "" {
		return
	}

	if viperCfg.IsSet("compression_level") {
		slog.Warn("config key \"compression\" is deprecated and was ignored in favor of compression_level")

		return
	}

	slog.Warn("config key \"compression\" is deprecated, use compression_level instead", "value", legacy)
	viperCfg.Set("compression_level", legacy)
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("ignore_patterns", []string{})
	viperCfg.SetDefault("include_patterns", []string{})
	viperCfg.SetDefault("max_file_size", DefaultMaxFileSize)
	viperCfg.SetDefault("max_depth", DefaultMaxDepth)
	viperCfg.SetDefault("compression_level", DefaultCompressionLevel)
	viperCfg.SetDefault("redact", DefaultRedact)
	viperCfg.SetDefault("max_tokens", DefaultMaxTokens)
	viperCfg.SetDefault("split_tokens", DefaultSplitTokens)
	viperCfg.SetDefault("output_format", DefaultOutputFormat)
	viperCfg.SetDefault("graph", DefaultGraph)
	viperCfg.SetDefault("diff", DefaultDiff)
	viperCfg.SetDefault("bundle", DefaultBundle)
}
