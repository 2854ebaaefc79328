package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kj114022/abyss/internal/config"
	"github.com/kj114022/abyss/internal/model"
)

func validConfig() config.Config {
	return config.Config{
		CompressionLevel: "standard",
		OutputFormat:     "json",
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	t.Parallel()

	cfg := validConfig()

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_NegativeMaxFileSize(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.MaxFileSize = -1

	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidMaxFileSize)
}

func TestConfig_Validate_NegativeMaxDepth(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.MaxDepth = -1

	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidMaxDepth)
}

func TestConfig_Validate_NegativeMaxTokens(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.MaxTokens = -1

	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidMaxTokens)
}

func TestConfig_Validate_NegativeSplitTokens(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.SplitTokens = -1

	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidSplitTokens)
}

func TestConfig_Validate_BadCompressionLevel(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.CompressionLevel = "extreme"

	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidCompressionLevel)
}

func TestConfig_Validate_BadOutputFormat(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.OutputFormat = "yaml"

	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidOutputFormat)
}

func TestConfig_Level(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.CompressionLevel = "aggressive"

	assert.Equal(t, model.CompressionAggressive, cfg.Level())
}

func TestConfig_Format(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.OutputFormat = "markdown"

	assert.Equal(t, model.FormatMarkdown, cfg.Format())
}

func TestConfig_Signature_StableForSameInputs(t *testing.T) {
	t.Parallel()

	a := validConfig()
	b := validConfig()

	assert.Equal(t, a.Signature(), b.Signature())
}

func TestConfig_Signature_DiffersOnCompressionLevel(t *testing.T) {
	t.Parallel()

	a := validConfig()
	b := validConfig()
	b.CompressionLevel = "light"

	assert.NotEqual(t, a.Signature(), b.Signature())
}
