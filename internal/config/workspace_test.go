package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kj114022/abyss/internal/config"
)

func writeWorkspace(t *testing.T, dir, contents string) string {
	t.Helper()

	path := filepath.Join(dir, "workspace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestLoadWorkspace_ResolvesRelativePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "svc-a"), 0o755))

	path := writeWorkspace(t, dir, "repositories:\n  - path: ./svc-a\n    name: a\n")

	ws, err := config.LoadWorkspace(path)

	require.NoError(t, err)
	require.Len(t, ws.Repositories, 1)
	assert.Equal(t, filepath.Join(dir, "svc-a"), ws.Repositories[0].Path)
	assert.Equal(t, "a", ws.Repositories[0].Name)
}

func TestLoadWorkspace_EmptyRepositoriesIsError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeWorkspace(t, dir, "repositories: []\n")

	_, err := config.LoadWorkspace(path)

	assert.Error(t, err)
}

func TestLoadWorkspace_MissingPathIsError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeWorkspace(t, dir, "repositories:\n  - name: a\n")

	_, err := config.LoadWorkspace(path)

	assert.Error(t, err)
}

func TestLooksLikeWorkspace_DirectoryIsFalse(t *testing.T) {
	t.Parallel()

	assert.False(t, config.LooksLikeWorkspace(t.TempDir()))
}

func TestLooksLikeWorkspace_ValidDescriptorIsTrue(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "svc-a"), 0o755))
	path := writeWorkspace(t, dir, "repositories:\n  - path: ./svc-a\n")

	assert.True(t, config.LooksLikeWorkspace(path))
}
