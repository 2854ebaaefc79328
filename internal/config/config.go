// Package config holds the abyss run configuration: the options table
// from the configuration file, environment variables, and CLI flags,
// merged by viper and validated before a scan starts.
package config

import (
	"errors"
	"fmt"

	"github.com/kj114022/abyss/internal/model"
)

// Config is the top-level configuration struct for abyss. Field tags
// use mapstructure for viper unmarshalling.
type Config struct {
	IgnorePatterns  []string `mapstructure:"ignore_patterns"`
	IncludePatterns []string `mapstructure:"include_patterns"`
	MaxFileSize     int64    `mapstructure:"max_file_size"`
	MaxDepth        int      `mapstructure:"max_depth"`

	CompressionLevel string `mapstructure:"compression_level"`
	Redact           bool   `mapstructure:"redact"`

	MaxTokens   int `mapstructure:"max_tokens"`
	SplitTokens int `mapstructure:"split_tokens"`

	OutputFormat string `mapstructure:"output_format"`
	Graph        bool   `mapstructure:"graph"`
	Diff         string `mapstructure:"diff"`
	Bundle       bool   `mapstructure:"bundle"`

	// NoTokens skips the accurate BPE tokenizer pass, leaving the
	// analyzer's fast estimate in place. Not one of the source
	// options enumerated in the configuration table (§3); it is set only
	// by the --no-tokens flag, so it has no abyss.toml key.
	NoTokens bool `mapstructure:"-"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidMaxFileSize indicates max_file_size is negative.
	ErrInvalidMaxFileSize = errors.New("max_file_size must be non-negative")
	// ErrInvalidMaxDepth indicates max_depth is negative.
	ErrInvalidMaxDepth = errors.New("max_depth must be non-negative")
	// ErrInvalidMaxTokens indicates max_tokens is negative.
	ErrInvalidMaxTokens = errors.New("max_tokens must be non-negative")
	// ErrInvalidSplitTokens indicates split_tokens is negative.
	ErrInvalidSplitTokens = errors.New("split_tokens must be non-negative")
	// ErrInvalidCompressionLevel indicates an unrecognized compression_level.
	ErrInvalidCompressionLevel = errors.New("compression_level must be one of: none, light, standard, aggressive")
	// ErrInvalidOutputFormat indicates an unrecognized output_format.
	ErrInvalidOutputFormat = errors.New("output_format must be one of: xml, json, markdown, plain")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.MaxFileSize < 0 {
		return ErrInvalidMaxFileSize
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.MaxTokens < 0 {
		return ErrInvalidMaxTokens
	}

	if c.SplitTokens < 0 {
		return ErrInvalidSplitTokens
	}

	if _, ok := model.ParseCompressionLevel(c.CompressionLevel); !ok {
		return ErrInvalidCompressionLevel
	}

	if _, ok := model.ParseOutputFormat(c.OutputFormat); !ok {
		return ErrInvalidOutputFormat
	}

	return nil
}

// Level returns the parsed compression level, falling back to
// CompressionNone if the stored string is somehow invalid (Validate
// should have already rejected that case).
func (c *Config) Level() model.CompressionLevel {
	level, ok := model.ParseCompressionLevel(c.CompressionLevel)
	if !ok {
		return model.CompressionNone
	}

	return level
}

// Format returns the parsed output format, falling back to FormatXML
// if the stored string is somehow invalid.
func (c *Config) Format() model.OutputFormat {
	format, ok := model.ParseOutputFormat(c.OutputFormat)
	if !ok {
		return model.FormatXML
	}

	return format
}

// Signature returns a deterministic string capturing every option that
// affects analyzed/transformed output, used as the configuration half
// of the cache hash. Options that only affect I/O routing (output
// format, bundle, graph) are excluded since they don't change per-file
// content.
func (c *Config) Signature() string {
	return fmt.Sprintf("compression=%s;redact=%t;max_file_size=%d", c.CompressionLevel, c.Redact, c.MaxFileSize)
}
