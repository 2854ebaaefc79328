package walker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kj114022/abyss/internal/config"
	"github.com/kj114022/abyss/internal/walker"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func baseConfig() *config.Config {
	return &config.Config{CompressionLevel: "none", OutputFormat: "xml"}
}

func TestWalk_MissingRootIsError(t *testing.T) {
	t.Parallel()

	_, err := walker.Walk(filepath.Join(t.TempDir(), "nope"), baseConfig(), nil)

	assert.ErrorIs(t, err, walker.ErrRootNotFound)
}

func TestWalk_FindsRegularFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")
	writeFile(t, filepath.Join(dir, "sub", "util.go"), "package sub\n")

	found, err := walker.Walk(dir, baseConfig(), nil)

	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, filepath.Join(dir, "main.go"), found[0].Path)
	assert.Equal(t, filepath.Join(dir, "sub", "util.go"), found[1].Path)
}

func TestWalk_ExcludesDefaultIgnoredDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "index.js"), "module.exports = {}\n")
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/main\n")

	found, err := walker.Walk(dir, baseConfig(), nil)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(dir, "main.go"), found[0].Path)
}

func TestWalk_HonorsAbyssIgnoreFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.go"), "package dir\n")
	writeFile(t, filepath.Join(dir, "secret.go"), "package dir\n")
	writeFile(t, filepath.Join(dir, ".abyssignore"), "secret.go\n")

	found, err := walker.Walk(dir, baseConfig(), nil)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(dir, "keep.go"), found[0].Path)
}

func TestWalk_HonorsIncludePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package dir\n")
	writeFile(t, filepath.Join(dir, "readme.md"), "# hi\n")

	cfg := baseConfig()
	cfg.IncludePatterns = []string{"**/*.go"}

	found, err := walker.Walk(dir, cfg, nil)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(dir, "main.go"), found[0].Path)
}

func TestWalk_HonorsMaxFileSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "small.go"), "package dir\n")
	writeFile(t, filepath.Join(dir, "big.go"), "package dir\n// "+string(make([]byte, 100)))

	cfg := baseConfig()
	cfg.MaxFileSize = 20

	found, err := walker.Walk(dir, cfg, nil)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(dir, "small.go"), found[0].Path)
}

func TestWalk_HonorsMaxDepth(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "top.go"), "package dir\n")
	writeFile(t, filepath.Join(dir, "a", "b", "c", "deep.go"), "package dir\n")

	cfg := baseConfig()
	cfg.MaxDepth = 1

	found, err := walker.Walk(dir, cfg, nil)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(dir, "top.go"), found[0].Path)
}

func TestWalk_DiffFilterRestrictsResults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "changed.go"), "package dir\n")
	writeFile(t, filepath.Join(dir, "unchanged.go"), "package dir\n")

	diff := walker.DiffFilter{filepath.Join(dir, "changed.go"): struct{}{}}

	found, err := walker.Walk(dir, baseConfig(), diff)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(dir, "changed.go"), found[0].Path)
}

func TestWalk_WorkspaceDescriptorMergesRepos(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "svc-a", "a.go"), "package a\n")
	writeFile(t, filepath.Join(dir, "svc-b", "b.go"), "package b\n")
	wsPath := filepath.Join(dir, "workspace.yaml")
	writeFile(t, wsPath, "repositories:\n  - path: ./svc-a\n  - path: ./svc-b\n")

	found, err := walker.Walk(wsPath, baseConfig(), nil)

	require.NoError(t, err)
	require.Len(t, found, 2)
}
