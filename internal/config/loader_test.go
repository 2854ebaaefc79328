package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kj114022/abyss/internal/config"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "nonexistent.toml"))

	require.NoError(t, err)
	assert.Equal(t, config.DefaultCompressionLevel, cfg.CompressionLevel)
	assert.Equal(t, config.DefaultOutputFormat, cfg.OutputFormat)
	assert.EqualValues(t, config.DefaultMaxFileSize, cfg.MaxFileSize)
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "abyss.toml")
	contents := "compression_level = \"aggressive\"\nmax_tokens = 50000\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "aggressive", cfg.CompressionLevel)
	assert.Equal(t, 50000, cfg.MaxTokens)
}

func TestLoadConfig_LegacyCompressionKeyMigrates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "abyss.toml")
	contents := "compression = \"light\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "light", cfg.CompressionLevel)
}

func TestLoadConfig_LegacyCompressionKeyIgnoredWhenBothSet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "abyss.toml")
	contents := "compression = \"light\"\ncompression_level = \"standard\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "standard", cfg.CompressionLevel)
}

func TestLoadConfig_InvalidValueFailsValidation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "abyss.toml")
	contents := "compression_level = \"bogus\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	_, err := config.LoadConfig(path)

	assert.Error(t, err)
}
