package analyzer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kj114022/abyss/internal/analyzer"
	"github.com/kj114022/abyss/internal/walker"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestAnalyze_ReadsTextFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	writeFile(t, path, []byte("package main\n\nfunc main() {}\n"))

	files := analyzer.Analyze(context.Background(), []walker.Found{{Path: path, RepoRoot: dir}}, 2, nil)

	require.Len(t, files, 1)
	assert.False(t, files[0].Binary)
	assert.Equal(t, "go", files[0].Language)
	assert.Greater(t, files[0].Tokens, 0)
}

func TestAnalyze_DetectsBinaryFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	writeFile(t, path, []byte{0x00, 0x01, 0x02, 0x03})

	files := analyzer.Analyze(context.Background(), []walker.Found{{Path: path, RepoRoot: dir}}, 2, nil)

	require.Len(t, files, 1)
	assert.True(t, files[0].Binary)
	assert.Empty(t, files[0].Content)
}

func TestAnalyze_SkipsMissingFileAndReportsIt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.go")

	var skipped []string

	files := analyzer.Analyze(context.Background(), []walker.Found{{Path: missing, RepoRoot: dir}}, 2, func(path string, err error) {
		skipped = append(skipped, path)
	})

	assert.Empty(t, files)
	assert.Equal(t, []string{missing}, skipped)
}

func TestAnalyze_PreservesAllNonSkippedInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var found []walker.Found

	for i := 0; i < 20; i++ {
		path := filepath.Join(dir, "f", string(rune('a'+i))+".go")
		writeFile(t, path, []byte("package f\n"))
		found = append(found, walker.Found{Path: path, RepoRoot: dir})
	}

	files := analyzer.Analyze(context.Background(), found, analyzer.Workers(), nil)

	assert.Len(t, files, 20)
}

func TestWorkers_AtLeastOne(t *testing.T) {
	t.Parallel()

	assert.GreaterOrEqual(t, analyzer.Workers(), 1)
}
